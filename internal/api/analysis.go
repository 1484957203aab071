package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"sentimental/internal/adapters/sources"
	"sentimental/internal/services/analysis"
	"sentimental/pkg/errors"
	"sentimental/pkg/logger"
)

const maxRequestBody = 1 << 16

// Analyzer runs one analysis
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Report, error)
	Defaults() analysis.Defaults
}

// PlatformInfo describes one configured source
type PlatformInfo struct {
	Name      string `json:"name"`
	Platform  string `json:"platform"`
	Available bool   `json:"available"`
	Breaker   string `json:"breaker"`
}

// AnalysisHandler serves the analysis API
type AnalysisHandler struct {
	analyzer Analyzer
	sources  []*sources.Guarded
	log      *logger.Logger
}

func NewAnalysisHandler(analyzer Analyzer, srcs []*sources.Guarded, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: analyzer,
		sources:  srcs,
		log:      log.With("component", "api"),
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleAnalyze decodes a Request and answers with the Report.
// Fields missing from the body keep the service defaults.
func (h *AnalysisHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	req := h.analyzer.Defaults().NewRequest("")

	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	report, err := h.analyzer.Analyze(r.Context(), req)
	if err != nil {
		code := statusFor(err)
		if code == http.StatusInternalServerError {
			h.log.ErrorWithContext(r.Context(), err, map[string]string{"endpoint": "analyze"}, "query", req.Query)
		}
		writeJSON(w, code, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// HandlePlatforms lists configured sources with their breaker state
func (h *AnalysisHandler) HandlePlatforms(w http.ResponseWriter, r *http.Request) {
	out := make([]PlatformInfo, 0, len(h.sources))
	for _, src := range h.sources {
		out = append(out, PlatformInfo{
			Name:      src.Name(),
			Platform:  string(src.Platform()),
			Available: src.Available(),
			Breaker:   src.State(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"platforms": out})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrNoDataFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, errors.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
