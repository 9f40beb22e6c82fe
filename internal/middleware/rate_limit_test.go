package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	pkghttp "github.com/BradenHooton/bookshare/pkg/http"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestFrom(remoteAddr string, headers map[string]string) *http.Request {
	req := httptest.NewRequest("GET", "/api/books", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

// TestRateLimitByIP_EnforcesLimit verifies the limit is applied per client address
func TestRateLimitByIP_EnforcesLimit(t *testing.T) {
	handler := RateLimitByIP(RateLimitConfig{Requests: 3, Window: time.Minute})(okHandler())

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestFrom("192.168.1.1:8080", nil))
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("192.168.1.1:9090", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")

	// another client still has its full budget
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("192.168.1.2:8080", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestRateLimitByIP_IgnoresSpoofedForwardedFor verifies that a direct client
// cannot reset its budget by rotating X-Forwarded-For
func TestRateLimitByIP_IgnoresSpoofedForwardedFor(t *testing.T) {
	handler := RateLimitByIP(RateLimitConfig{Requests: 2, Window: time.Minute})(okHandler())

	codes := make([]int, 0, 3)
	for _, xff := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestFrom("203.0.113.9:4000", map[string]string{"X-Forwarded-For": xff}))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

// TestRateLimitByIP_TrustedProxyUsesForwardedFor verifies clients behind a
// trusted proxy are limited separately
func TestRateLimitByIP_TrustedProxyUsesForwardedFor(t *testing.T) {
	handler := RateLimitByIP(RateLimitConfig{
		Requests: 1,
		Window:   time.Minute,
		IPConfig: &pkghttp.IPConfig{TrustedProxies: []string{"10.0.0.0/8"}},
	})(okHandler())

	for _, xff := range []string{"198.51.100.1", "198.51.100.2"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestFrom("10.0.0.5:443", map[string]string{"X-Forwarded-For": xff}))
		assert.Equal(t, http.StatusOK, w.Code, "client %s", xff)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.5:443", map[string]string{"X-Forwarded-For": "198.51.100.1"}))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimitByIP_ZeroConfigUsesDefaults(t *testing.T) {
	handler := RateLimitByIP(RateLimitConfig{})(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("192.0.2.1:1000", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "300", w.Header().Get("X-RateLimit-Limit"))
}
