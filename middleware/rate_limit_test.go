package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
	})
	defer rl.Stop()

	assert.Equal(t, 10, rl.config.Requests)
	assert.Equal(t, time.Minute, rl.config.Window)
	assert.NotNil(t, rl.config.KeyFunc)
	assert.Equal(t, "Too many requests. Please try again later.", rl.config.Message)
}

func TestRateLimiterMiddleware(t *testing.T) {
	e := echo.New()

	serve := func(handler echo.HandlerFunc, ip string) (*httptest.ResponseRecorder, error) {
		req := httptest.NewRequest(http.MethodPost, "/api/users", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		return rec, handler(e.NewContext(req, rec))
	}

	t.Run("WithinLimit", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{Requests: 2, Window: time.Minute})
		defer rl.Stop()
		handler := rl.Middleware()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})

		for i := 0; i < 2; i++ {
			rec, err := serve(handler, "10.0.0.1")
			assert.NoError(t, err)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("ExceededLimit", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{Requests: 1, Window: time.Minute, Message: "slow down"})
		defer rl.Stop()
		handler := rl.Middleware()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})

		_, err := serve(handler, "10.0.0.1")
		require.NoError(t, err)

		rec, err := serve(handler, "10.0.0.1")
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusTooManyRequests, he.Code)
		assert.Equal(t, "slow down", he.Message)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))

		// Other clients are unaffected
		rec, err = serve(handler, "10.0.0.2")
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Requests: 1, Window: time.Minute})
	defer rl.Stop()

	now := time.Now()
	allowed, _ := rl.allow("ip", now)
	assert.True(t, allowed)

	allowed, retryAfter := rl.allow("ip", now.Add(10*time.Second))
	assert.False(t, allowed)
	assert.Equal(t, 50*time.Second, retryAfter)

	allowed, _ = rl.allow("ip", now.Add(2*time.Minute))
	assert.True(t, allowed)
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Requests: 5, Window: time.Minute})
	defer rl.Stop()

	now := time.Now()
	rl.allow("old", now)
	rl.allow("new", now.Add(30*time.Second))

	rl.cleanup(now.Add(70 * time.Second))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.store, "old")
	assert.Contains(t, rl.store, "new")
}

func TestRateLimiterStopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Requests: 1, Window: time.Minute})
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}
