// internal/api/middleware.go
package api

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// rate limiter entries are dropped after this much idle time
const rateLimitExpiry = 3 * time.Minute

// LoggingMiddleware logs each request and records request metrics
func (c *Controller) LoggingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()

			err := next(ctx)

			req := ctx.Request()
			res := ctx.Response()
			elapsed := time.Since(start)

			if c.metrics != nil {
				c.metrics.HTTP.RecordRequest(req.Method, ctx.Path(), strconv.Itoa(res.Status))
				c.metrics.HTTP.RecordRequestDuration(req.Method, ctx.Path(), elapsed.Seconds())
			}

			if c.apiLogger == nil {
				return err
			}

			// Use LogAttrs to avoid allocations when the log level is disabled
			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.String("query", req.URL.RawQuery),
				slog.Int("status", res.Status),
				slog.String("ip", ctx.RealIP()),
				slog.String("user_agent", req.UserAgent()),
				slog.Int64("latency_ms", elapsed.Milliseconds()),
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}

			c.apiLogger.LogAttrs(req.Context(), slog.LevelInfo, "API Request", attrs...)

			return err
		}
	}
}

// AuthMiddleware requires a valid bearer API key on every request. With no keys
// configured all requests are rejected, the service fails closed.
func (c *Controller) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			key, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || !c.isValidAPIKey(key) {
				if c.metrics != nil {
					c.metrics.HTTP.RecordAuthFailure(ctx.Path())
				}
				return ctx.JSON(http.StatusUnauthorized, map[string]string{
					"error": "missing or invalid API key",
				})
			}
			return next(ctx)
		}
	}
}

// isValidAPIKey compares the presented key against every configured key in
// constant time
func (c *Controller) isValidAPIKey(key string) bool {
	valid := false
	for _, configured := range c.Settings.Security.APIKeys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(configured)) == 1 {
			valid = true
		}
	}
	return valid
}

// rateLimiter returns a per-client-IP rate limiter allowing perMinute requests
// per minute with an equal burst
func (c *Controller) rateLimiter(perMinute int) echo.MiddlewareFunc {
	config := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(float64(perMinute) / 60.0),
				Burst:     perMinute,
				ExpiresIn: rateLimitExpiry,
			},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			// Use client IP as identifier
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(ctx echo.Context, err error) error {
			return ctx.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "rate limit exceeded, please wait before trying again",
			})
		},
		DenyHandler: func(ctx echo.Context, identifier string, err error) error {
			if c.metrics != nil {
				c.metrics.HTTP.RecordRateLimited(ctx.Path())
			}
			return ctx.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "rate limit exceeded, please wait before trying again",
			})
		},
	}
	return middleware.RateLimiterWithConfig(config)
}
