package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/belleallure/salon-api/internal/core/domain"
	"github.com/belleallure/salon-api/internal/core/ports"
)

const (
	DefaultSlotTTL = 30 * time.Second
	// generationTTL outlives any in-flight query by a wide margin. An expired
	// generation restarts at zero, which only costs a cache miss.
	generationTTL = 24 * time.Hour
)

// setIfGenerationScript writes KEYS[1] only while KEYS[2] still holds ARGV[1].
// A missing generation counts as "0".
var setIfGenerationScript = redis.NewScript(`
local current = redis.call("GET", KEYS[2])
if not current then
  current = "0"
end
if current ~= ARGV[1] then
  return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// SlotCache stores the booked start times of one stylist-day.
// Keys: slots:<date>:<stylist> holds the JSON list, slots:<date>:<stylist>:gen
// the generation bumped by every mutation.
type SlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.SlotCache = (*SlotCache)(nil)

// NewSlotCache wraps client. A non-positive ttl falls back to DefaultSlotTTL.
func NewSlotCache(client *redis.Client, ttl time.Duration) *SlotCache {
	if ttl <= 0 {
		ttl = DefaultSlotTTL
	}
	return &SlotCache{client: client, ttl: ttl}
}

func (c *SlotCache) Get(ctx context.Context, key domain.SlotKey) ([]string, bool, int64, error) {
	vals, err := c.client.MGet(ctx, slotKey(key), generationKey(key)).Result()
	if err != nil {
		return nil, false, 0, fmt.Errorf("slot cache get: %w", err)
	}

	gen, err := parseGeneration(vals[1])
	if err != nil {
		return nil, false, 0, err
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, false, gen, nil
	}

	var booked []string
	if err := json.Unmarshal([]byte(raw), &booked); err != nil {
		return nil, false, 0, fmt.Errorf("slot cache decode: %w", err)
	}
	return booked, true, gen, nil
}

// Set stores booked when the key is still at gen. A refused write is not an
// error: a newer mutation already made the snapshot obsolete.
func (c *SlotCache) Set(ctx context.Context, key domain.SlotKey, gen int64, booked []string) error {
	if booked == nil {
		booked = []string{}
	}
	raw, err := json.Marshal(booked)
	if err != nil {
		return fmt.Errorf("slot cache encode: %w", err)
	}
	err = setIfGenerationScript.Run(ctx, c.client,
		[]string{slotKey(key), generationKey(key)},
		strconv.FormatInt(gen, 10), string(raw), c.ttl.Milliseconds(),
	).Err()
	if err != nil {
		return fmt.Errorf("slot cache set: %w", err)
	}
	return nil
}

// Invalidate bumps the generation of every key and drops the cached list.
func (c *SlotCache) Invalidate(ctx context.Context, keys ...domain.SlotKey) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range keys {
			pipe.Incr(ctx, generationKey(k))
			pipe.Expire(ctx, generationKey(k), generationTTL)
			pipe.Del(ctx, slotKey(k))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("slot cache invalidate: %w", err)
	}
	return nil
}

func slotKey(k domain.SlotKey) string {
	return fmt.Sprintf("slots:%s:%s", k.Date, k.Stylist)
}

func generationKey(k domain.SlotKey) string {
	return slotKey(k) + ":gen"
}

func parseGeneration(v any) (int64, error) {
	switch g := v.(type) {
	case nil:
		return 0, nil
	case string:
		n, err := strconv.ParseInt(g, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("slot cache generation %q: %w", g, err)
		}
		return n, nil
	default:
		return 0, errors.New("slot cache: unexpected generation type")
	}
}
