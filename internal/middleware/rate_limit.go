package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	pkghttp "github.com/BradenHooton/bookshare/pkg/http"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	IPConfig *pkghttp.IPConfig
}

// DefaultAPIRateLimit returns the global API limit: 300 requests per 15 minutes per client
func DefaultAPIRateLimit() RateLimitConfig {
	return RateLimitConfig{
		Requests: 300,
		Window:   15 * time.Minute,
	}
}

// RateLimitByIP creates a middleware that rate limits requests by client IP.
// The client IP is resolved the same way as for login throttling, so
// forwarded headers count only when they come from a trusted proxy.
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	if config.Requests <= 0 || config.Window <= 0 {
		config = DefaultAPIRateLimit()
	}
	ipConfig := config.IPConfig

	return httprate.Limit(
		config.Requests,
		config.Window,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return pkghttp.ExtractClientIP(r, ipConfig), nil
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			pkghttp.WriteTooManyRequests(w, "Too many requests, please try again later")
		}),
	)
}
