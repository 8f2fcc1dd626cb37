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
	// KeyFunc returns the key requests are counted under (defaults to IP)
	KeyFunc func(c echo.Context) string
	// Message is the error message returned when rate limit is exceeded
	Message string
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

// RateLimiter is a fixed-window limiter for a group of endpoints
type RateLimiter struct {
	config    RateLimitConfig
	now       func() time.Time
	mu        sync.Mutex
	store     map[string]*rateLimitEntry
	lastPrune time.Time
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c echo.Context) string {
			return c.RealIP()
		}
	}
	if config.Message == "" {
		config.Message = "Too many requests. Please try again later."
	}

	return &RateLimiter{
		config: config,
		now:    time.Now,
		store:  make(map[string]*rateLimitEntry),
	}
}

// Allow counts one request under key and reports whether it fits the window.
// When it does not, the time until the window resets is returned.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.prune(now)

	entry, exists := rl.store[key]
	if !exists || !now.Before(entry.expiresAt) {
		rl.store[key] = &rateLimitEntry{count: 1, expiresAt: now.Add(rl.config.Window)}
		return true, 0
	}
	if entry.count >= rl.config.Requests {
		return false, entry.expiresAt.Sub(now)
	}
	entry.count++
	return true, 0
}

// Reset forgets the count for key
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	delete(rl.store, key)
	rl.mu.Unlock()
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, retryAfter := rl.Allow(rl.config.KeyFunc(c))
			if !ok {
				seconds := int(retryAfter.Round(time.Second) / time.Second)
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

// prune drops expired entries at most once per window; caller holds mu
func (rl *RateLimiter) prune(now time.Time) {
	if now.Sub(rl.lastPrune) < rl.config.Window {
		return
	}
	for key, entry := range rl.store {
		if !now.Before(entry.expiresAt) {
			delete(rl.store, key)
		}
	}
	rl.lastPrune = now
}

// NewLoginRateLimiter limits login attempts to 5 per minute per IP
func NewLoginRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Requests: 5,
		Window:   time.Minute,
		Message:  "Too many login attempts. Please wait a minute before trying again.",
	})
}

// NewRegisterRateLimiter limits account registrations to 10 per hour per IP
func NewRegisterRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Requests: 10,
		Window:   time.Hour,
		Message:  "Too many registrations. Please try again later.",
	})
}
