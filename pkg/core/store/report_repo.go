package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"caiwu_agent/pkg/core/pipeline"
	"caiwu_agent/pkg/core/report"
)

// ReportEnvelope wraps an analysis result for persistence. The identifier
// and timestamp live here, outside the result itself, so the analysis output
// stays reproducible while each stored row is individually addressable.
type ReportEnvelope struct {
	ID        uuid.UUID        `json:"id"`
	StockCode string           `json:"stock_code"`
	CreatedAt time.Time        `json:"created_at"`
	Result    *pipeline.Result `json:"result"`
	Markdown  string           `json:"markdown,omitempty"`
}

// ReportRepository is the storage contract for analysis reports.
type ReportRepository interface {
	Save(ctx context.Context, result *pipeline.Result, markdown string) (*ReportEnvelope, error)
	Load(ctx context.Context, stockCode string) (*ReportEnvelope, error)
	List(ctx context.Context) ([]string, error)
}

// ReportRepo stores one report per stock code in the analysis_reports table.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS analysis_reports (
//   stock_code TEXT PRIMARY KEY,
//   report_id UUID,
//   report_json JSONB,
//   created_at TIMESTAMPTZ
// );
type ReportRepo struct{}

// NewReportRepo creates a repository instance.
func NewReportRepo() *ReportRepo {
	return &ReportRepo{}
}

// newEnvelope builds the persistence envelope, sanitizing the Markdown on
// the way in: outer code fences are stripped and the text must still parse
// as a Markdown document before it is stored.
func newEnvelope(result *pipeline.Result, markdown string) (*ReportEnvelope, error) {
	if result == nil {
		return nil, fmt.Errorf("nil result")
	}
	markdown = report.Clean(markdown)
	if markdown != "" && !report.Validate(markdown) {
		return nil, fmt.Errorf("report markdown does not parse")
	}
	return &ReportEnvelope{
		ID:        uuid.New(),
		StockCode: result.StockCode,
		CreatedAt: time.Now().UTC(),
		Result:    result,
		Markdown:  markdown,
	}, nil
}

// Save upserts the report for the result's stock code. Each save mints a
// fresh report ID and timestamp.
func (r *ReportRepo) Save(ctx context.Context, result *pipeline.Result, markdown string) (*ReportEnvelope, error) {
	envelope, err := newEnvelope(result, markdown)
	if err != nil {
		return nil, err
	}
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `
		INSERT INTO analysis_reports (stock_code, report_id, report_json, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (stock_code)
		DO UPDATE SET
			report_id = EXCLUDED.report_id,
			report_json = EXCLUDED.report_json,
			created_at = EXCLUDED.created_at;
	`

	if _, err := pool.Exec(ctx, query, envelope.StockCode, envelope.ID, jsonData, envelope.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}
	return envelope, nil
}

// Load retrieves the stored report for a stock code.
func (r *ReportRepo) Load(ctx context.Context, stockCode string) (*ReportEnvelope, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT report_json FROM analysis_reports WHERE stock_code = $1`

	var jsonData []byte
	err := pool.QueryRow(ctx, query, stockCode).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no report found for stock %s", stockCode)
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	var envelope ReportEnvelope
	if err := json.Unmarshal(jsonData, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &envelope, nil
}

// List returns the stock codes with stored reports, newest first.
func (r *ReportRepo) List(ctx context.Context) ([]string, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	rows, err := pool.Query(ctx, `SELECT stock_code FROM analysis_reports ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan stock code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
