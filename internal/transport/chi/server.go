package chi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/simrec/internal/domain"
	dombatch "github.com/kailas-cloud/simrec/internal/domain/batch"
	"github.com/kailas-cloud/simrec/internal/domain/recommendation"
	healthuc "github.com/kailas-cloud/simrec/internal/usecase/health"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 1 << 20

// Recommender is the consumer interface for the recommend use case.
type Recommender interface {
	Recommend(ctx context.Context, ref string, limit int) ([]recommendation.Item, error)
}

// BatchRecommender runs several lookups in one request.
type BatchRecommender interface {
	Recommend(ctx context.Context, refs []string, limit int) []dombatch.Result
	MaxBatchSize() int
}

// Server serves the recommendation API and the HTML form page.
type Server struct {
	recommend     Recommender
	batch         BatchRecommender
	health        *healthuc.Service
	logger        *zap.Logger
	maxBodyBytes  int64
	errorHandlers []errorHandler
}

// NewServer creates an HTTP server.
func NewServer(recommend Recommender, health *healthuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		recommend:    recommend,
		health:       health,
		logger:       logger,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrReferenceNotFound, http.StatusNotFound, codeReferenceNotFound),
		sentinelHandler(domain.ErrInvalidOptions, http.StatusBadRequest, codeValidationFailed),
	}
	return s
}

// WithMaxBodyBytes overrides the request body limit. n <= 0 keeps the default.
func (s *Server) WithMaxBodyBytes(n int64) *Server {
	if n > 0 {
		s.maxBodyBytes = n
	}
	return s
}

// WithBatch enables POST /api/v1/recommendations/batch.
func (s *Server) WithBatch(b BatchRecommender) *Server {
	s.batch = b
	return s
}

// Routes registers all endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Index)
	r.Get("/api", s.FormRecommend)
	r.Post("/api", s.FormRecommend)
	r.Post("/api/", s.FormRecommend)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/recommendations", s.ListRecommendations)
		r.Post("/recommendations", s.CreateRecommendations)
		if s.batch != nil {
			r.Post("/recommendations/batch", s.BatchRecommendations)
		}
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})
}

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, pageData{})
}

// FormRecommend handles POST /api and /api/. A form submission renders the
// page with results; a JSON body gets the legacy {"Result": [...]} response.
// A body is JSON when Content-Type says so or, for a POST without a form
// Content-Type, when it starts with '{'.
func (s *Server) FormRecommend(w http.ResponseWriter, r *http.Request) {
	if isJSON(r) {
		s.legacyJSON(w, r)
		return
	}
	sniffed, err := s.sniffJSON(w, r)
	if err != nil {
		s.renderPage(w, r, http.StatusBadRequest, pageData{Message: "Invalid form submission."})
		return
	}
	if sniffed {
		s.legacyJSON(w, r)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.renderPage(w, r, http.StatusBadRequest, pageData{Message: "Invalid form submission."})
		return
	}

	ref := r.Form.Get("ref")
	items, err := s.recommend.Recommend(r.Context(), ref, 0)
	switch {
	case errors.Is(err, domain.ErrReferenceNotFound):
		s.renderPage(w, r, http.StatusOK, pageData{Ref: ref, Message: domain.NotFoundMessage})
	case err != nil:
		s.logger.Error("internal error", zap.Error(err))
		s.renderPage(w, r, http.StatusInternalServerError, pageData{Ref: ref, Message: "Something went wrong."})
	default:
		s.renderPage(w, r, http.StatusOK, pageData{Ref: ref, Items: items, Searched: true})
	}
}

func (s *Server) legacyJSON(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	items, err := s.recommend.Recommend(r.Context(), req.Ref, 0)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, legacyResponseFrom(items))
}

// ListRecommendations handles GET /api/v1/recommendations?ref=...&limit=...
func (s *Server) ListRecommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	s.respondRecommendations(w, r, q.Get("ref"), limit)
}

// CreateRecommendations handles POST /api/v1/recommendations.
func (s *Server) CreateRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.respondRecommendations(w, r, req.Ref, req.Limit)
}

func (s *Server) respondRecommendations(w http.ResponseWriter, r *http.Request, ref string, limit int) {
	if limit < 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must not be negative")
		return
	}
	items, err := s.recommend.Recommend(r.Context(), ref, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recommendResponseFrom(items))
}

// BatchRecommendations handles POST /api/v1/recommendations/batch.
func (s *Server) BatchRecommendations(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	maxSize := s.batch.MaxBatchSize()
	if len(req.Refs) == 0 || len(req.Refs) > maxSize {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			fmt.Sprintf("refs count must be between 1 and %d", maxSize))
		return
	}
	if req.Limit < 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must not be negative")
		return
	}

	results := s.batch.Recommend(r.Context(), req.Refs, req.Limit)

	succeeded, failed := 0, 0
	items := make([]batchResultItem, len(results))
	for i, res := range results {
		items[i] = batchResultFrom(res)
		if res.Status() == dombatch.StatusOK {
			succeeded++
		} else {
			failed++
			if res.Status() == dombatch.StatusError {
				s.logger.Warn("batch item failed", zap.String("ref", res.Ref()), zap.Error(res.Err()))
			}
		}
	}

	writeJSON(w, http.StatusOK, batchResponse{
		Items:     items,
		Succeeded: succeeded,
		Failed:    failed,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codePayloadTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, "failed to read request body")
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// sniffJSON buffers the body of a POST without a form Content-Type and
// reports whether it holds a JSON object. r.Body is restored for the caller.
func (s *Server) sniffJSON(w http.ResponseWriter, r *http.Request) (bool, error) {
	if r.Method != http.MethodPost || r.Body == nil || isForm(r) {
		return false, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		return false, err
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return bytes.HasPrefix(bytes.TrimSpace(body), []byte("{")), nil
}

func isForm(r *http.Request) bool {
	ct := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}

func isJSON(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(ct)), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
