package chi

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/rex/internal/domain"
	domingest "github.com/kailas-cloud/rex/internal/domain/ingest"
	"github.com/kailas-cloud/rex/internal/domain/listing"
	"github.com/kailas-cloud/rex/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/rex/internal/usecase/health"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers of the rex API.
type Server struct {
	rex           RexService
	search        SearchService
	ingest        IngestService
	health        HealthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. ingest may be nil to disable dataset loading.
func NewServer(
	rex RexService,
	search SearchService,
	ingest IngestService,
	health HealthService,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		rex:    rex,
		search: search,
		ingest: ingest,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrNoSourceData, http.StatusInternalServerError, CodeNoSourceData),
	}
	return s
}

// CreateRex handles POST /api/rex.
func (s *Server) CreateRex(w http.ResponseWriter, r *http.Request) {
	var req CreateRexRequest
	if !s.decode(w, r, &req, false) {
		return
	}

	rx, err := s.rex.Create(r.Context(), req.toDraft())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rexToResponse(&rx))
}

// GetRex handles GET /api/rex/{id}.
func (s *Server) GetRex(w http.ResponseWriter, r *http.Request) {
	rx, err := s.rex.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rexToResponse(&rx))
}

// ListRex handles GET /api/rex. Without page and limit the full list is returned as
// a plain array; with either one a page envelope is returned.
func (s *Server) ListRex(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	userID := strings.TrimSpace(params.Get("userId"))
	order := listing.ParseOrder(params.Get("order"))
	page, hasPage := intParam(params.Get("page"))
	limit, hasLimit := intParam(params.Get("limit"))

	if !hasPage && !hasLimit {
		items, err := s.rex.All(r.Context(), userID, order)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rexListToResponse(items))
		return
	}

	res, err := s.rex.List(r.Context(), listing.Query{UserID: userID, Page: page, Limit: limit, Order: order})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RexPageResponse{
		Items:   rexListToResponse(res.Items),
		Page:    res.Page,
		Limit:   res.Limit,
		Total:   res.Total,
		HasMore: res.HasMore,
	})
}

// Search handles POST /api/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var body SearchRequest
	if !s.decode(w, r, &body, true) {
		return
	}
	useLLM := body.UseLLM == nil || *body.UseLLM

	req, err := request.New(body.Query, body.UserID, useLLM)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	res, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		Query:    res.Query(),
		Keywords: res.Keywords(),
		Results:  rexListToResponse(res.Items()),
	})
}

// SeedUser handles POST /api/seed-user.
func (s *Server) SeedUser(w http.ResponseWriter, r *http.Request) {
	var req SeedRequest
	if !s.decode(w, r, &req, true) {
		return
	}
	userID := strings.TrimSpace(req.UserID)

	added, err := s.rex.Seed(r.Context(), userID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, SeedResponse{UserID: userID, Seeded: added})
}

// LoadReviews handles POST /api/load-mcauley-data.
func (s *Server) LoadReviews(w http.ResponseWriter, r *http.Request) {
	if s.ingest == nil {
		writeError(w, http.StatusInternalServerError, CodeNoSourceData, "review loading is not configured")
		return
	}
	var req LoadRequest
	if !s.decode(w, r, &req, true) {
		return
	}

	opts := domingest.Options{Categories: req.Categories, MinRating: domingest.FiveStarOnly}
	if req.Limit != nil {
		opts.Limit = *req.Limit
	}
	if req.FiveStarOnly != nil && !*req.FiveStarOnly {
		opts.MinRating = 0
	}

	res, err := s.ingest.Load(r.Context(), opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, LoadResponse{Added: res.Added, Total: res.Total, Files: res.Files})
}

// HealthCheck handles GET /health and GET /api/health.
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
	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decode reads a JSON body into v. With optional set, an empty body leaves v zero.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body")
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// intParam parses a positive integer query parameter. Unparseable values count as absent.
func intParam(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

// validationHandler reports the offending field of a rejected draft or query.
func validationHandler(w http.ResponseWriter, err error) bool {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	writeError(w, http.StatusBadRequest, CodeValidationFailed, verr.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			s.logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
