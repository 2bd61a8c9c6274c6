package chi

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/patentsim/internal/domain"
	healthuc "github.com/kailas-cloud/patentsim/internal/usecase/health"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxBodyBytes    = 1 << 20
)

//go:embed static/index.html
var indexHTML []byte

// SimilarityQuerier ranks the corpus against a free-text query.
type SimilarityQuerier interface {
	Query(ctx context.Context, text string, limit int) ([]domain.ScoredResult, error)
}

// PatentReader reads stored patents.
type PatentReader interface {
	List(ctx context.Context, limit, offset int) ([]domain.Patent, error)
	Get(ctx context.Context, number string) (domain.Patent, error)
	Count(ctx context.Context) (int, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers.
type Server struct {
	similarity    SimilarityQuerier
	patents       PatentReader
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	similarity SimilarityQuerier,
	patents PatentReader,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		similarity: similarity,
		patents:    patents,
		health:     health,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrPatentNotFound, http.StatusNotFound, codePatentNotFound),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrEncoderUnavailable, http.StatusBadGateway, codeEncoderUnavailable),
		sentinelHandler(domain.ErrEncoderMismatch, http.StatusBadGateway, codeEncoderError),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadGateway, codeEncoderError),
	}
	return s
}

// similarityRequest is the POST /similarity body. Query is a pointer so a
// missing field is distinguishable from an empty string.
type similarityRequest struct {
	Query *string `json:"query"`
}

type patentResponse struct {
	Number   string `json:"number"`
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Claims   string `json:"claims"`
}

type patentListResponse struct {
	Items  []patentResponse `json:"items"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexHTML)
}

// Similarity handles POST /similarity.
func (s *Server) Similarity(w http.ResponseWriter, r *http.Request) {
	params, err := bindSimilarityParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	var req similarityRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "query is required")
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	results, err := s.similarity.Query(ctx, *req.Query, params.Limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, results)
}

// ListPatents handles GET /patents.
func (s *Server) ListPatents(w http.ResponseWriter, r *http.Request) {
	params, err := bindListParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	patents, err := s.patents.List(r.Context(), params.Limit, params.Offset)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	total, err := s.patents.Count(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]patentResponse, len(patents))
	for i, p := range patents {
		items[i] = patentToResponse(p)
	}

	writeJSON(w, http.StatusOK, patentListResponse{
		Items:  items,
		Total:  total,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
}

// GetPatent handles GET /patents/{number}.
func (s *Server) GetPatent(w http.ResponseWriter, r *http.Request) {
	number, err := bindPatentNumber(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	p, err := s.patents.Get(r.Context(), number)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, patentToResponse(p))
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

func patentToResponse(p domain.Patent) patentResponse {
	return patentResponse{
		Number:   p.Number,
		Title:    p.Title,
		Abstract: p.Abstract,
		Claims:   p.Claims,
	}
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Texts > 0 {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	if errors.Is(err, context.Canceled) {
		s.logger.Info("request canceled", zap.Error(err))
	} else {
		s.logger.Error("internal error", zap.Error(err))
	}
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
