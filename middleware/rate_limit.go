package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig defines the configuration for rate limiting
type RateLimitConfig struct {
	// Requests is the maximum number of requests allowed within the window
	Requests int
	// Window is the time window for rate limiting
	Window time.Duration
	// KeyFunc is a function that returns a unique key for rate limiting (defaults to IP)
	KeyFunc func(c echo.Context) string
	// Message is the error message returned when rate limit is exceeded
	Message string
}

// Pre-configured limits for the public and dashboard endpoints
var (
	// RegistrationRateLimit limits user registrations from the mobile app to 10 per minute per IP
	RegistrationRateLimit = RateLimitConfig{
		Requests: 10,
		Window:   1 * time.Minute,
		Message:  "Too many registration attempts. Please wait before trying again.",
	}
	// LoginRateLimit limits dashboard login attempts to 5 per minute per IP
	LoginRateLimit = RateLimitConfig{
		Requests: 5,
		Window:   1 * time.Minute,
		Message:  "Too many login attempts. Please wait a minute before trying again.",
	}
	// GeographyRateLimit limits catalog lookups to 120 per minute per IP
	GeographyRateLimit = RateLimitConfig{
		Requests: 120,
		Window:   1 * time.Minute,
		Message:  "Rate limit exceeded. Please slow down your requests.",
	}
)

// rateLimitEntry tracks request count and window expiration
type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

// RateLimiter is a fixed-window, per-key rate limiter
type RateLimiter struct {
	config RateLimitConfig
	store  map[string]*rateLimitEntry
	mu     sync.Mutex
	stop   chan struct{}
	once   sync.Once
}

// NewRateLimiter creates a rate limiter and starts its cleanup goroutine; call Stop to end it
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c echo.Context) string {
			return c.RealIP()
		}
	}
	if config.Message == "" {
		config.Message = "Too many requests. Please try again later."
	}

	rl := &RateLimiter{
		config: config,
		store:  make(map[string]*rateLimitEntry),
		stop:   make(chan struct{}),
	}

	go rl.cleanupLoop(time.Minute)

	return rl
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, retryAfter := rl.allow(rl.config.KeyFunc(c), time.Now())
			if !allowed {
				seconds := int(retryAfter.Seconds())
				if seconds < 1 {
					seconds = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
				return echo.NewHTTPError(http.StatusTooManyRequests, rl.config.Message)
			}
			return next(c)
		}
	}
}

// Stop ends the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// allow records a request for key and reports whether it fits in the current window
func (rl *RateLimiter) allow(key string, now time.Time) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.store[key]
	if !exists || now.After(entry.expiresAt) {
		rl.store[key] = &rateLimitEntry{
			count:     1,
			expiresAt: now.Add(rl.config.Window),
		}
		return true, 0
	}

	if entry.count >= rl.config.Requests {
		return false, entry.expiresAt.Sub(now)
	}

	entry.count++
	return true, 0
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.cleanup(now)
		}
	}
}

// cleanup removes expired entries
func (rl *RateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, entry := range rl.store {
		if now.After(entry.expiresAt) {
			delete(rl.store, key)
		}
	}
}
