// ABOUTME: HTTP API for the string store
// ABOUTME: Routes, request decoding and error-to-status translation

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/nainya/stringstore/internal/logger"
	"github.com/nainya/stringstore/internal/metrics"
	"github.com/nainya/stringstore/pkg/filter"
	"github.com/nainya/stringstore/pkg/nlquery"
	"github.com/nainya/stringstore/pkg/store"
)

// Server wires the record store to its HTTP surface.
type Server struct {
	store   *store.Store
	log     *logger.Logger
	metrics *metrics.Metrics
	limiter *rate.Limiter

	httpServer *http.Server
}

// Option configures optional server behavior
type Option func(*Server)

// WithMetrics attaches a metrics registry.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithRateLimit enables a global request rate limit. A limit of 0 leaves
// limiting disabled.
func WithRateLimit(limit float64, burst int) Option {
	return func(s *Server) {
		if limit > 0 {
			if burst < 1 {
				burst = 1
			}
			s.limiter = rate.NewLimiter(rate.Limit(limit), burst)
		}
	}
}

// NewServer creates a Server around the given store.
func NewServer(st *store.Store, log *logger.Logger, opts ...Option) *Server {
	s := &Server{
		store: st,
		log:   log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the routing table. The literal natural-language route is
// registered alongside the {value} wildcard; the mux prefers the literal.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /strings", s.handleCreate)
	mux.HandleFunc("GET /strings", s.handleList)
	mux.HandleFunc("GET /strings/filter-by-natural-language", s.handleNLFilter)
	mux.HandleFunc("GET /strings/{value}", s.handleGet)
	mux.HandleFunc("DELETE /strings/{value}", s.handleDelete)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return s.withMiddleware(mux)
}

// Start runs the API server until the listener fails or Shutdown is called.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.LogServerReady(addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Value *json.RawMessage `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if body.Value == nil {
		writeError(w, http.StatusBadRequest, "missing required field: value")
		return
	}

	var value string
	if err := json.Unmarshal(*body.Value, &value); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "field value must be a string")
		return
	}

	start := time.Now()
	rec, err := s.store.Insert(value)
	s.recordStoreOp("insert", err, time.Since(start))
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "string already exists in the store")
			return
		}
		writeError(w, http.StatusInternalServerError, "insert failed")
		return
	}

	if s.metrics != nil {
		s.metrics.RecordsTotal.Set(float64(s.store.Count()))
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := criteria.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	records := filter.Apply(s.store.List(), criteria)
	if s.metrics != nil {
		s.metrics.RecordFilterQuery(len(records))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":            records,
		"count":           len(records),
		"filters_applied": criteria,
	})
}

func (s *Server) handleNLFilter(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	criteria, err := nlquery.Parse(query)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordNLQueryParse("unparseable")
		}
		writeError(w, http.StatusBadRequest, "could not interpret query: "+query)
		return
	}
	if err := criteria.Validate(); err != nil {
		if s.metrics != nil {
			s.metrics.RecordNLQueryParse("conflicting")
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if s.metrics != nil {
		s.metrics.RecordNLQueryParse("parsed")
	}

	records := filter.Apply(s.store.List(), criteria)
	if s.metrics != nil {
		s.metrics.RecordFilterQuery(len(records))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  records,
		"count": len(records),
		"interpreted_query": map[string]any{
			"original":       query,
			"parsed_filters": criteria,
		},
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	value := r.PathValue("value")

	start := time.Now()
	rec, err := s.store.Get(value)
	s.recordStoreOp("get", err, time.Since(start))
	if err != nil {
		writeError(w, http.StatusNotFound, "string not found in the store")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	value := r.PathValue("value")

	start := time.Now()
	err := s.store.Delete(value)
	s.recordStoreOp("delete", err, time.Since(start))
	if err != nil {
		writeError(w, http.StatusNotFound, "string not found in the store")
		return
	}

	if s.metrics != nil {
		s.metrics.RecordsTotal.Set(float64(s.store.Count()))
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"records": s.store.Count(),
	})
}

// parseCriteria builds filter criteria from structured query parameters.
// Type errors are reported to the caller for a 422 response.
func parseCriteria(r *http.Request) (filter.Criteria, error) {
	var c filter.Criteria
	q := r.URL.Query()

	if v := q.Get("is_palindrome"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c, fmt.Errorf("is_palindrome must be a boolean, got %q", v)
		}
		c.IsPalindrome = filter.Bool(b)
	}
	for _, p := range []struct {
		name string
		dst  **int
	}{
		{"min_length", &c.MinLength},
		{"max_length", &c.MaxLength},
		{"word_count", &c.WordCount},
	} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("%s must be an integer, got %q", p.name, v)
		}
		*p.dst = filter.Int(n)
	}
	if v := q.Get("contains_character"); v != "" {
		if utf8.RuneCountInString(v) != 1 {
			return c, fmt.Errorf("contains_character must be a single character, got %q", v)
		}
		c.ContainsCharacter = v
	}

	return c, nil
}

func (s *Server) recordStoreOp(op string, err error, duration time.Duration) {
	if s.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordStoreOperation(op, status, duration)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, reason string) {
	writeJSON(w, status, map[string]string{"error": reason})
}
