package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/api/response"
)

// RateLimiter keeps one token bucket per client IP. Buckets of clients that
// stay quiet for ten minutes are dropped.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	clients *cache.Cache
}

// NewRateLimiter allows each client rps requests per second with bursts of burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		clients: cache.New(10*time.Minute, time.Minute),
	}
}

// Handler rejects requests over the client's limit with 429.
func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.limiter(clientIP(r)).Allow() {
			w.Header().Set("Retry-After", strconv.Itoa(1))
			response.RespondError(w, http.StatusTooManyRequests, "too many requests", "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) limiter(ip string) *rate.Limiter {
	if v, ok := l.clients.Get(ip); ok {
		l.clients.SetDefault(ip, v)
		return v.(*rate.Limiter)
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	if err := l.clients.Add(ip, lim, cache.DefaultExpiration); err != nil {
		// Another request created it first.
		if v, ok := l.clients.Get(ip); ok {
			return v.(*rate.Limiter)
		}
	}
	return lim
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
