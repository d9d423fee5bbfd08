package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/belleallure/salon-api/internal/api/metrics"
)

// Counter counts hits per key within the current window.
type Counter interface {
	Incr(ctx context.Context, key string) (int64, error)
}

// RateLimit rejects a client IP with 429 once it exceeds limit hits on a route
// within the counter's window. Counter failures let the request through.
func RateLimit(counter Counter, limit int, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if counter == nil || limit <= 0 {
			return next
		}
		return func(c echo.Context) error {
			route := c.Path()
			count, err := counter.Incr(c.Request().Context(), route+":"+c.RealIP())
			if err != nil {
				log.Warn().Err(err).Str("route", route).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if count > int64(limit) {
				metrics.RateLimitedTotal.WithLabelValues(route).Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
