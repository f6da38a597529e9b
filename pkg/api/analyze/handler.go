// Package analyze exposes the analysis pipeline over HTTP.
package analyze

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"caiwu_agent/pkg/core/normalize"
	"caiwu_agent/pkg/core/pipeline"
	"caiwu_agent/pkg/core/report"
	"caiwu_agent/pkg/core/store"
)

// AnalyzeRequest is the POST /api/analyze body: one raw statement bundle
// plus per-run options.
type AnalyzeRequest struct {
	Bundle     *normalize.RawBundle `json:"bundle"`
	Window     int                  `json:"window,omitempty"`
	SWIndustry string               `json:"sw_industry,omitempty"`
	// Persist stores the result when a database is configured.
	Persist bool `json:"persist,omitempty"`
}

// AnalyzeResponse carries the result and its rendered Markdown summary.
type AnalyzeResponse struct {
	Result   *pipeline.Result `json:"result"`
	Markdown string           `json:"markdown"`
	ReportID string           `json:"report_id,omitempty"`
}

// CompareRequest is the POST /api/compare body: one bundle per company.
type CompareRequest struct {
	Bundles []*normalize.RawBundle `json:"bundles"`
	Window  int                    `json:"window,omitempty"`
}

// CompareResponse pairs the per-company results with the peer ranking.
type CompareResponse struct {
	Results    []*pipeline.Result         `json:"results"`
	Comparison *pipeline.ComparisonReport `json:"comparison"`
}

// Handler holds dependencies for the analysis endpoints.
type Handler struct {
	Analyzer *pipeline.Analyzer
	Repo     store.ReportRepository
}

// NewHandler creates an analysis handler. repo may be nil when persistence
// is not configured; Persist requests then fail with 503.
func NewHandler(analyzer *pipeline.Analyzer, repo store.ReportRepository) *Handler {
	return &Handler{
		Analyzer: analyzer,
		Repo:     repo,
	}
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// HandleAnalyze runs the full pipeline on one bundle.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.Analyzer.AnalyzeRaw(req.Bundle, pipeline.Options{
		Window:     req.Window,
		SWIndustry: req.SWIndustry,
	})
	if err != nil {
		writeAnalysisError(w, err)
		return
	}

	resp := AnalyzeResponse{
		Result:   result,
		Markdown: report.Render(result),
	}

	if req.Persist {
		if h.Repo == nil {
			http.Error(w, "Persistence not configured", http.StatusServiceUnavailable)
			return
		}
		envelope, err := h.Repo.Save(r.Context(), result, resp.Markdown)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to store report: %v", err), http.StatusInternalServerError)
			return
		}
		resp.ReportID = envelope.ID.String()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleCompare runs the pipeline per bundle and ranks the peer group.
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Bundles) < 2 {
		http.Error(w, "At least two bundles required for comparison", http.StatusBadRequest)
		return
	}

	var results []*pipeline.Result
	for _, bundle := range req.Bundles {
		result, err := h.Analyzer.AnalyzeRaw(bundle, pipeline.Options{Window: req.Window})
		if err != nil {
			writeAnalysisError(w, err)
			return
		}
		results = append(results, result)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CompareResponse{
		Results:    results,
		Comparison: pipeline.Compare(results),
	})
}

// HandleReport fetches a stored report by stock code (?stock_code=600519).
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if h.Repo == nil {
		http.Error(w, "Persistence not configured", http.StatusServiceUnavailable)
		return
	}

	code := r.URL.Query().Get("stock_code")
	if code == "" {
		http.Error(w, "Missing stock_code parameter", http.StatusBadRequest)
		return
	}

	envelope, err := h.Repo.Load(r.Context(), code)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(envelope)
}

// writeAnalysisError maps pipeline errors onto HTTP status codes: bad input
// is the caller's fault, anything else is ours.
func writeAnalysisError(w http.ResponseWriter, err error) {
	var vErr *normalize.ValidationError
	if errors.As(err, &vErr) {
		http.Error(w, vErr.Error(), http.StatusUnprocessableEntity)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
