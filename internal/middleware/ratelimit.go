package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/keyxmakerx/campuscal/internal/apperror"
)

// RateLimit returns a per-IP token bucket limiter allowing rps sustained
// requests per second with the given burst. Idle buckets are dropped after
// three minutes. Returns nil when rps is zero, meaning no limiting.
func RateLimit(rps float64, burst int) echo.MiddlewareFunc {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}

	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rps),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return apperror.NewBadRequest("could not identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return apperror.NewTooManyRequests("Rate limit exceeded. Please try again later.")
		},
	})
}
