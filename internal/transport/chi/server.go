package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sportspulse/internal/domain"
	"github.com/kailas-cloud/sportspulse/internal/domain/answer"
	"github.com/kailas-cloud/sportspulse/internal/domain/query"
	"github.com/kailas-cloud/sportspulse/internal/domain/usage"
	"github.com/kailas-cloud/sportspulse/internal/logger"
	"github.com/kailas-cloud/sportspulse/internal/repository/docstore"
	"github.com/kailas-cloud/sportspulse/internal/transport/dto"
	healthuc "github.com/kailas-cloud/sportspulse/internal/usecase/health"
)

// Error codes returned in dto.ErrorResponse.
const (
	CodeBadRequest    = "bad_request"
	CodeInvalidQuery  = "invalid_query"
	CodeNotReady      = "not_ready"
	CodeUnauthorized  = "unauthorized"
	CodeInternalError = "internal_error"
)

const maxBodyBytes = 64 << 10

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// QA answers questions.
type QA interface {
	Ask(ctx context.Context, q query.Request) (answer.Result, error)
}

// Corpus reports document store statistics.
type Corpus interface {
	Stats() docstore.Stats
}

// Usage reports search provider consumption.
type Usage interface {
	GetReport(ctx context.Context, period usage.Period) usage.Report
}

// Server serves the question answering API.
type Server struct {
	qa            QA
	corpus        Corpus
	usage         Usage
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(qa QA, corpus Corpus, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		qa:     qa,
		corpus: corpus,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeInvalidQuery),
		sentinelHandler(domain.ErrNotReady, http.StatusServiceUnavailable, CodeNotReady),
	}
	return s
}

// WithUsage enables GET /api/v1/usage.
func (s *Server) WithUsage(u Usage) *Server {
	s.usage = u
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ask", s.Ask)
		r.Get("/corpus", s.CorpusStatus)
		if s.usage != nil {
			r.Get("/usage", s.GetUsage)
		}
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
}

// Ask handles POST /api/v1/ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req dto.AskRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q, err := query.New(req.Question, req.WebEnabled(), req.ForceWebSearch)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	res, err := s.qa.Ask(r.Context(), q)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewAskResponse(&res))
}

type corpusResponse struct {
	Ready     bool       `json:"ready"`
	Documents int        `json:"documents"`
	Terms     int        `json:"terms"`
	LoadedAt  *time.Time `json:"loaded_at,omitempty"`
}

// CorpusStatus handles GET /api/v1/corpus.
func (s *Server) CorpusStatus(w http.ResponseWriter, _ *http.Request) {
	st := s.corpus.Stats()
	resp := corpusResponse{Ready: st.Ready, Documents: st.Documents, Terms: st.Terms}
	if st.Ready {
		t := st.LoadedAt.UTC()
		resp.LoadedAt = &t
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetUsage handles GET /api/v1/usage?period=day|month.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period, ok := usage.ParsePeriod(r.URL.Query().Get("period"))
	if !ok {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "period must be day or month")
		return
	}
	report := s.usage.GetReport(r.Context(), period)
	writeJSON(w, http.StatusOK, dto.NewUsageResponse(&report))
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /health. Only an unhealthy report maps to 503; a degraded optional
// component keeps the service in rotation.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message without exposing internals.
// Invalid query details come from validation and are safe to return as-is.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidQuery) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrNotReady,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logger.FromContextOr(ctx, s.logger)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
