package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"rutaventas/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// windowEntry tracks request counts per IP within a fixed window.
type windowEntry struct {
	count     int
	windowEnd time.Time
}

// ipLimiter counts requests per client IP; each limiter owns its own map.
type ipLimiter struct {
	name    string
	limit   int
	window  time.Duration
	mu      sync.Mutex
	entries map[string]*windowEntry
}

var (
	limitersMu sync.Mutex
	limiters   []*ipLimiter
	purgeOnce  sync.Once
)

func newIPLimiter(name string, limit int, window time.Duration) *ipLimiter {
	l := &ipLimiter{name: name, limit: limit, window: window, entries: make(map[string]*windowEntry)}
	limitersMu.Lock()
	limiters = append(limiters, l)
	limitersMu.Unlock()
	purgeOnce.Do(func() { go purgeExpiredEntries() })
	return l
}

// allow registers one hit for ip and reports whether it is within the limit,
// plus the end of the current window.
func (l *ipLimiter) allow(ip string, now time.Time) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[ip]
	if !ok || now.After(e.windowEnd) {
		e = &windowEntry{windowEnd: now.Add(l.window)}
		l.entries[ip] = e
	}
	e.count++
	return e.count <= l.limit, e.windowEnd
}

func (l *ipLimiter) purge(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for ip, e := range l.entries {
		if now.After(e.windowEnd) {
			delete(l.entries, ip)
			n++
		}
	}
	return n
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	l := newIPLimiter("login", 20, time.Minute)
	return func(c *gin.Context) {
		if ok, _ := l.allow(c.ClientIP(), time.Now()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}

// RateLimiter returns a general-purpose per-IP rate limiter.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newIPLimiter("api", limit, window)
	return func(c *gin.Context) {
		now := time.Now()
		ok, end := l.allow(c.ClientIP(), now)
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(end.Sub(now).Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

const purgeInterval = 5 * time.Minute

// purgeExpiredEntries drops expired windows so IPs that never return do not
// accumulate.
func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for now := range ticker.C {
		limitersMu.Lock()
		ls := append([]*ipLimiter(nil), limiters...)
		limitersMu.Unlock()

		for _, l := range ls {
			if n := l.purge(now); n > 0 {
				log.Debug().Str("limiter", l.name).Int("purged", n).Msg("rate limiter entries purged")
			}
		}
	}
}
