package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/response"
)

// maxTrackedClients bounds the limiter table; the least recently seen
// clients are evicted first.
const maxTrackedClients = 10_000

// RateLimit allows each client IP perMinute requests per minute with a burst
// of perMinute. Excess requests get 429.
func RateLimit(perMinute int) func(http.Handler) http.Handler {
	limiters, _ := lru.New[string, *rate.Limiter](maxTrackedClients)
	every := rate.Limit(float64(perMinute) / 60)
	retryAfter := strconv.Itoa(max(1, 60/max(perMinute, 1)))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			lim, ok := limiters.Get(ip)
			if !ok {
				lim = rate.NewLimiter(every, perMinute)
				if prev, found, _ := limiters.PeekOrAdd(ip, lim); found {
					lim = prev
				}
			}

			if !lim.Allow() {
				w.Header().Set("Retry-After", retryAfter)
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the first X-Forwarded-For entry, X-Real-Ip, or the
// remote address without its port.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if real := r.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
