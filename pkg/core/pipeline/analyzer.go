// Package pipeline wires the full analysis flow: normalize raw statement
// bundles, compute ratios and trends, run the health scorer, and optionally
// layer the industry-adjusted view on top.
package pipeline

import (
	"fmt"
	"time"

	"caiwu_agent/pkg/core/calc"
	"caiwu_agent/pkg/core/health"
	"caiwu_agent/pkg/core/industry"
	"caiwu_agent/pkg/core/normalize"
	"caiwu_agent/pkg/core/trend"
	"caiwu_agent/pkg/models"
)

// Result is the complete output of one analysis run. It carries no
// timestamps or generated identifiers: the same input always produces a
// byte-identical Result.
type Result struct {
	StockCode string   `json:"stock_code"`
	StockName string   `json:"stock_name"`
	Unit      string   `json:"unit"`
	Periods   []string `json:"periods"`
	Warnings  []string `json:"warnings,omitempty"`

	Ratios   *calc.RatioSet     `json:"ratios"`
	Trends   []trend.Metric     `json:"trends"`
	Health   *health.Assessment `json:"health"`
	Industry *industry.Result   `json:"industry,omitempty"`
}

// Options tunes one analysis run.
type Options struct {
	// Window is the trend lookback in periods; zero selects the default.
	Window int
	// Normalize carries unit conversion settings for the raw bundle path.
	Normalize normalize.Options
	// SWIndustry is the SW (申万) level-1 industry name, when known. It is
	// the strongest industry classification signal.
	SWIndustry string
	// SkipIndustry disables the industry-adjusted scoring layer.
	SkipIndustry bool
}

// Analyzer runs the analysis flow with a fixed scoring rubric. Construct
// with NewAnalyzer; the zero value is not usable.
type Analyzer struct {
	scorer *health.Scorer
}

// NewAnalyzer validates the rubric and builds an analyzer. A nil rubric
// selects the default scoring table.
func NewAnalyzer(rubric *health.Rubric) (*Analyzer, error) {
	scorer, err := health.NewScorer(rubric)
	if err != nil {
		return nil, fmt.Errorf("analyzer init failed: %w", err)
	}
	return &Analyzer{scorer: scorer}, nil
}

// Analyze runs the flow over an already-normalized series.
func (a *Analyzer) Analyze(series *models.FinancialSeries, warnings []string, opts Options) (*Result, error) {
	if series == nil || len(series.Periods) == 0 {
		return nil, &normalize.ValidationError{Reason: "series has no periods"}
	}

	start := time.Now()
	fmt.Printf("Analyzing %s (%s): %d periods...\n", series.StockName, series.StockCode, len(series.Periods))

	ratios := calc.ComputeRatios(series)
	trends := trend.Analyze(series, opts.Window)
	assessment := a.scorer.Assess(ratios, trends)

	result := &Result{
		StockCode: series.StockCode,
		StockName: series.StockName,
		Unit:      series.Unit,
		Periods:   series.PeriodLabels(),
		Warnings:  warnings,
		Ratios:    ratios,
		Trends:    trends,
		Health:    assessment,
	}

	if !opts.SkipIndustry {
		id := industry.Classify(series.StockCode, series.StockName, opts.SWIndustry)
		result.Industry = industry.Score(ratios, id, nil)
		fmt.Printf("Industry view: %s (%s), adjusted score %.2f\n",
			result.Industry.IndustryName, result.Industry.IndustryID, result.Industry.NormalizedScore)
	}

	fmt.Printf("Analysis of %s done in %v: overall %.1f (%s)\n",
		series.StockCode, time.Since(start), assessment.OverallScore, assessment.RiskLevel)
	return result, nil
}

// AnalyzeRaw normalizes a raw statement bundle and runs the flow on it.
func (a *Analyzer) AnalyzeRaw(bundle *normalize.RawBundle, opts Options) (*Result, error) {
	series, warnings, err := normalize.Normalize(bundle, opts.Normalize)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	return a.Analyze(series, warnings, opts)
}

// AnalyzeFile loads a bundle from disk (strict JSON first, then repaired
// JSON, then Hjson) and runs the flow on it.
func (a *Analyzer) AnalyzeFile(path string, opts Options) (*Result, error) {
	bundle, err := normalize.LoadBundle(path)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeRaw(bundle, opts)
}
