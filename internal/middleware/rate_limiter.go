package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ── Fixed-window limiter ──────────────────────────────────────────────────────

type windowEntry struct {
	count     int
	windowEnd time.Time
}

type windowLimiter struct {
	name   string
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*windowEntry
}

var (
	limiters   []*windowLimiter
	limitersMu sync.Mutex
)

func newWindowLimiter(name string, limit int, window time.Duration) *windowLimiter {
	l := &windowLimiter{name: name, limit: limit, window: window, now: time.Now, entries: make(map[string]*windowEntry)}
	limitersMu.Lock()
	limiters = append(limiters, l)
	limitersMu.Unlock()
	return l
}

// allow counts one hit for key and reports whether it is within the limit,
// plus the end of the current window.
func (l *windowLimiter) allow(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || now.After(e.windowEnd) {
		e = &windowEntry{windowEnd: now.Add(l.window)}
		l.entries[key] = e
	}
	e.count++
	return e.count <= l.limit, e.windowEnd
}

func (l *windowLimiter) purge() (purged, remaining int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for k, e := range l.entries {
		if now.After(e.windowEnd) {
			delete(l.entries, k)
			purged++
		}
	}
	return purged, len(l.entries)
}

func (l *windowLimiter) handler(key func(*gin.Context) string, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := l.allow(key(c))
		if !ok {
			c.Header("Retry-After", windowEnd.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.WithCode(apierror.CodeReintentar, msg))
			return
		}
		c.Next()
	}
}

// ── Limiters ──────────────────────────────────────────────────────────────────

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	l := newWindowLimiter("login", 20, time.Minute)
	return l.handler(func(c *gin.Context) string { return c.ClientIP() },
		"Demasiados intentos de login. Intente en 1 minuto.")
}

// AdminValidationRateLimiter limits closings per user, since a closing with a
// large difference carries an administrator's password: 10 per minute stops
// guessing it from a kiosk. Must run after JWTAuth.
func AdminValidationRateLimiter() gin.HandlerFunc {
	l := newWindowLimiter("cierre", 10, time.Minute)
	return l.handler(func(c *gin.Context) string {
		if id := userID(c); id != "" {
			return id
		}
		return c.ClientIP()
	}, "Demasiados intentos de cierre. Intente en 1 minuto.")
}

// RateLimiter is the general per-IP limiter applied to the whole API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newWindowLimiter("api", limit, window)
	return l.handler(func(c *gin.Context) string { return c.ClientIP() },
		"Demasiadas solicitudes. Intente nuevamente en un momento.")
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Expired windows are dropped so keys that never come back do not pile up.

const purgeInterval = 5 * time.Minute

func init() {
	go purgeExpiredEntries()
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		limitersMu.Lock()
		current := append([]*windowLimiter(nil), limiters...)
		limitersMu.Unlock()

		for _, l := range current {
			purged, remaining := l.purge()
			if purged > 0 {
				log.Debug().
					Str("limiter", l.name).
					Int("entries_purged", purged).
					Int("entries_remaining", remaining).
					Msg("rate limiter purged")
			}
		}
	}
}
