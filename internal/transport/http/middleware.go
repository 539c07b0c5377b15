package transporthttp

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"example.com/incidents-api/internal/metrics"
)

// BodyLimit limits request bodies to maxBytes.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireJSON ensures Content-Type is application/json for POST endpoints.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if r.Method == http.MethodPost && !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			WriteError(w, http.StatusUnsupportedMediaType, "expected application/json", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// APIKeyAuth allows an optional list of API keys; if the list is empty, auth
// is bypassed. Keys are expected in header: X-API-Key.
func APIKeyAuth(allowed map[string]struct{}) func(http.Handler) http.Handler {
	if len(allowed) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if _, ok := allowed[key]; !ok {
				WriteError(w, http.StatusUnauthorized, "invalid or missing API key", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Simple global leaky bucket shared by every request the wrapped handler
// sees. Handlers run concurrently, so the bucket state lives behind a
// mutex. Disabled when limitPerMin <= 0.
type rateState struct {
	mu             sync.Mutex
	tokens         float64
	lastRefillNano int64
}

func (s *rateState) take(now time.Time, capacity, refillPerSec float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := float64(now.UnixNano()-s.lastRefillNano) / 1e9
	s.lastRefillNano = now.UnixNano()

	s.tokens += elapsed * refillPerSec
	if s.tokens > capacity {
		s.tokens = capacity
	}
	if s.tokens < 1.0 {
		return false
	}
	s.tokens -= 1.0
	return true
}

func RateLimitPerMinute(limitPerMin int, clock func() time.Time) func(http.Handler) http.Handler {
	if limitPerMin <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	state := &rateState{tokens: float64(limitPerMin), lastRefillNano: clock().UnixNano()}
	capacity := float64(limitPerMin)
	refillPerSec := float64(limitPerMin) / 60.0

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !state.take(clock(), capacity, refillPerSec) {
				w.Header().Set("Retry-After", "3")
				WriteError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.code = code
	sr.ResponseWriter.WriteHeader(code)
}

// CountRequests records one http_requests_total sample per request, labeled
// by route and final status code.
func CountRequests(m *metrics.Metrics, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(rec, r)
			m.ObserveHTTP(route, rec.code)
		})
	}
}

// DrainBody fully reads and closes request bodies (handler helper).
func DrainBody(r *http.Request) {
	if r.Body != nil {
		_, _ = io.Copy(io.Discard, r.Body)
		_ = r.Body.Close()
	}
}
