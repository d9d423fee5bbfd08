package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// WindowCounter counts hits per key inside a fixed window shared by every
// API instance.
type WindowCounter struct {
	client *redis.Client
	window time.Duration
	prefix string
}

func NewWindowCounter(client *redis.Client, window time.Duration, prefix string) *WindowCounter {
	if window <= 0 {
		window = time.Minute
	}
	if prefix == "" {
		prefix = "rl"
	}
	return &WindowCounter{client: client, window: window, prefix: prefix}
}

// Incr records one hit for key and returns the count in the current window.
func (w *WindowCounter) Incr(ctx context.Context, key string) (int64, error) {
	res, err := fixedWindowScript.Run(ctx, w.client, []string{w.prefix + ":" + key}, w.window.Milliseconds()).Result()
	if err != nil {
		return 0, fmt.Errorf("rate counter: %w", err)
	}
	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected rate counter result %T", res)
	}
}
