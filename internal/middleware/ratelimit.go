package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"
)

type window struct {
	hits    int
	resetAt time.Time
}

// limiter counts hits per client in fixed windows. Expired windows are swept
// once per window length so idle clients do not accumulate.
type limiter struct {
	mu        sync.Mutex
	limit     int
	per       time.Duration
	windows   map[string]*window
	nextSweep time.Time
	now       func() time.Time
}

func newLimiter(limit int, per time.Duration) *limiter {
	return &limiter{limit: limit, per: per, windows: make(map[string]*window), now: time.Now}
}

// allow records a hit for key. When the key is over its limit it returns
// false and the time left until its window resets.
func (l *limiter) allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.After(l.nextSweep) {
		for k, win := range l.windows {
			if !now.Before(win.resetAt) {
				delete(l.windows, k)
			}
		}
		l.nextSweep = now.Add(l.per)
	}
	win, ok := l.windows[key]
	if !ok || !now.Before(win.resetAt) {
		win = &window{resetAt: now.Add(l.per)}
		l.windows[key] = win
	}
	if win.hits >= l.limit {
		return false, win.resetAt.Sub(now)
	}
	win.hits++
	return true, 0
}

func (l *limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// RateLimit allows limit requests per client IP in each window of length per.
// Rejected requests get a Retry-After header and are answered by reject, which
// writes the 429 body. A non-positive limit disables the check.
func RateLimit(limit int, per time.Duration, reject http.HandlerFunc) func(http.Handler) http.Handler {
	return rateLimit(newLimiter(limit, per), reject)
}

func rateLimit(l *limiter, reject http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l.limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := l.allow(ClientIP(r))
			if ok {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			if reject == nil {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			reject(w, r)
		})
	}
}
