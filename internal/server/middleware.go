// ABOUTME: HTTP middleware chain for the API server
// ABOUTME: Request IDs, access logging, metrics and rate limiting

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withMiddleware wraps the routing table with the cross-cutting concerns
// every request passes through.
func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		if s.limiter != nil && !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			s.log.LogHTTPRequest(r.Method, r.URL.Path, requestID, http.StatusTooManyRequests, 0)
			return
		}

		if s.metrics != nil {
			s.metrics.HTTPRequestsInFlight.Inc()
			defer s.metrics.HTTPRequestsInFlight.Dec()
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		duration := time.Since(start)

		s.log.LogHTTPRequest(r.Method, r.URL.Path, requestID, rec.status, duration)
		if s.metrics != nil {
			s.metrics.RecordHTTPRequest(r.Method, r.URL.Path, strconv.Itoa(rec.status), duration)
		}
	})
}
