package analyze

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"caiwu_agent/pkg/core/normalize"
	"caiwu_agent/pkg/core/pipeline"
)

func testHandler(t *testing.T) *Handler {
	t.Helper()
	analyzer, err := pipeline.NewAnalyzer(nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewHandler(analyzer, nil)
}

func testBundle(code, name string) *normalize.RawBundle {
	return &normalize.RawBundle{
		StockCode: code,
		StockName: name,
		Income: []map[string]any{
			{"REPORT_DATE": "2023-12-31", "TOTAL_OPERATE_INCOME": 120e9, "NETPROFIT": 15e9},
		},
		Balance: []map[string]any{
			{"REPORT_DATE": "2023-12-31", "TOTAL_ASSETS": 240e9, "TOTAL_LIABILITIES": 120e9, "TOTAL_EQUITY": 120e9},
		},
	}
}

func TestHandleAnalyze(t *testing.T) {
	h := testHandler(t)

	body, _ := json.Marshal(AnalyzeRequest{Bundle: testBundle("600519", "测试股份")})
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleAnalyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad response JSON: %v", err)
	}
	if resp.Result == nil || resp.Result.Ratios.ROE.Value != 12.5 {
		t.Errorf("Expected ROE 12.5 in response, got %+v", resp.Result)
	}
	if !strings.Contains(resp.Markdown, "财务分析报告") {
		t.Errorf("Expected rendered Markdown in response")
	}
}

func TestHandleAnalyzeBadInput(t *testing.T) {
	h := testHandler(t)

	// Not JSON at all.
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.HandleAnalyze(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", rec.Code)
	}

	// Parseable but empty bundle: a validation failure, not a server error.
	body, _ := json.Marshal(AnalyzeRequest{Bundle: &normalize.RawBundle{}})
	req = httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(body))
	rec = httptest.NewRecorder()
	h.HandleAnalyze(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for invalid bundle, got %d", rec.Code)
	}
}

func TestHandleAnalyzeMethodAndCORS(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	rec := httptest.NewRecorder()
	h.HandleAnalyze(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	rec = httptest.NewRecorder()
	h.HandleAnalyze(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Expected CORS header on preflight")
	}
}

func TestHandleAnalyzePersistWithoutDB(t *testing.T) {
	h := testHandler(t)

	body, _ := json.Marshal(AnalyzeRequest{Bundle: testBundle("600519", "测试股份"), Persist: true})
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleAnalyze(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 without a repository, got %d", rec.Code)
	}
}

func TestHandleCompare(t *testing.T) {
	h := testHandler(t)

	body, _ := json.Marshal(CompareRequest{
		Bundles: []*normalize.RawBundle{
			testBundle("600519", "甲公司"),
			testBundle("000001", "乙公司"),
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/compare", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleCompare(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp CompareResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad response JSON: %v", err)
	}
	if len(resp.Results) != 2 || len(resp.Comparison.Overall) != 2 {
		t.Errorf("Expected two ranked companies, got %+v", resp.Comparison)
	}
}

func TestHandleCompareNeedsTwo(t *testing.T) {
	h := testHandler(t)

	body, _ := json.Marshal(CompareRequest{Bundles: []*normalize.RawBundle{testBundle("600519", "甲公司")}})
	req := httptest.NewRequest(http.MethodPost, "/api/compare", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleCompare(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a single bundle, got %d", rec.Code)
	}
}

func TestHandleReportWithoutDB(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/report?stock_code=600519", nil)
	rec := httptest.NewRecorder()
	h.HandleReport(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 without a repository, got %d", rec.Code)
	}
}
