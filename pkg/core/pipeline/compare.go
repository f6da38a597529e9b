package pipeline

import (
	"sort"

	"caiwu_agent/pkg/core/metric"
)

// CompanyRank is one company's position in a comparison.
type CompanyRank struct {
	Rank      int     `json:"rank"`
	StockCode string  `json:"stock_code"`
	StockName string  `json:"stock_name"`
	Score     float64 `json:"overall_score"`
	RiskLevel string  `json:"risk_level"`
}

// MetricRank is one company's position for a single ratio.
type MetricRank struct {
	Rank      int           `json:"rank"`
	StockCode string        `json:"stock_code"`
	StockName string        `json:"stock_name"`
	Value     metric.Metric `json:"value"`
}

// ComparisonReport ranks a peer group. Overall ranks by the composite health
// score; per-metric tables rank by the named ratio. All orderings are
// deterministic: ties break by stock code.
type ComparisonReport struct {
	Overall   []CompanyRank           `json:"overall"`
	ByMetric  map[string][]MetricRank `json:"by_metric"`
	BestCode  string                  `json:"best_stock_code"`
	WorstCode string                  `json:"worst_stock_code"`
}

// comparedMetrics are the ratios ranked side by side, mirroring the columns
// of the peer comparison table.
var comparedMetrics = []string{"roe", "net_profit_margin", "debt_ratio", "asset_turnover", "ocf_to_np"}

// Compare builds a comparison over two or more analysis results. Results
// with a nil health assessment are skipped.
func Compare(results []*Result) *ComparisonReport {
	report := &ComparisonReport{ByMetric: make(map[string][]MetricRank)}

	var ranked []*Result
	for _, r := range results {
		if r != nil && r.Health != nil {
			ranked = append(ranked, r)
		}
	}
	if len(ranked) == 0 {
		return report
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Health.OverallScore != ranked[j].Health.OverallScore {
			return ranked[i].Health.OverallScore > ranked[j].Health.OverallScore
		}
		return ranked[i].StockCode < ranked[j].StockCode
	})

	for i, r := range ranked {
		report.Overall = append(report.Overall, CompanyRank{
			Rank:      i + 1,
			StockCode: r.StockCode,
			StockName: r.StockName,
			Score:     r.Health.OverallScore,
			RiskLevel: r.Health.RiskLevel,
		})
	}
	report.BestCode = report.Overall[0].StockCode
	report.WorstCode = report.Overall[len(report.Overall)-1].StockCode

	for _, name := range comparedMetrics {
		report.ByMetric[name] = rankMetric(ranked, name)
	}
	return report
}

// rankMetric orders companies by one ratio. Higher is better except for the
// debt ratio. Companies without the ratio sort last, in code order, and keep
// a rank so every company appears in every table.
func rankMetric(results []*Result, name string) []MetricRank {
	rows := make([]MetricRank, 0, len(results))
	for _, r := range results {
		rows = append(rows, MetricRank{
			StockCode: r.StockCode,
			StockName: r.StockName,
			Value:     r.Ratios.Lookup(name),
		})
	}

	lowerIsBetter := name == "debt_ratio"
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Value, rows[j].Value
		switch {
		case a.Available != b.Available:
			return a.Available
		case !a.Available:
			return rows[i].StockCode < rows[j].StockCode
		case a.Value != b.Value:
			if lowerIsBetter {
				return a.Value < b.Value
			}
			return a.Value > b.Value
		default:
			return rows[i].StockCode < rows[j].StockCode
		}
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
