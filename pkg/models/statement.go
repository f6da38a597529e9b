// Package models defines the shared value objects of the financial analysis
// engine: per-period statement figures, the ordered series, and the fixed
// dimension vocabulary used by the health score.
package models

// FinancialPeriod holds one reporting period's figures after normalization.
// All monetary fields share the series unit (typically 亿元). Optional fields
// are pointers; nil means the source statements did not carry the figure and
// downstream metrics derived from it must degrade to unavailable, never to
// zero.
type FinancialPeriod struct {
	// Period is the report-date label, e.g. "2023-12-31". Labels sort
	// lexically in chronological order.
	Period string `json:"period"`

	Revenue          float64 `json:"revenue"`
	NetProfit        float64 `json:"net_profit"`
	TotalAssets      float64 `json:"total_assets"`
	TotalEquity      float64 `json:"total_equity"`
	TotalLiabilities float64 `json:"total_liabilities"`

	CostOfSales        *float64 `json:"cost_of_sales,omitempty"`
	CurrentAssets      *float64 `json:"current_assets,omitempty"`
	CurrentLiabilities *float64 `json:"current_liabilities,omitempty"`
	Inventories        *float64 `json:"inventories,omitempty"`
	OperatingCashFlow  *float64 `json:"operating_cash_flow,omitempty"`
}

// FinancialSeries is an ordered run of periods, oldest first, with unique
// period labels. The engine never mutates a series it is handed.
type FinancialSeries struct {
	StockCode string `json:"stock_code"`
	StockName string `json:"stock_name"`
	// Unit labels the monetary unit all periods share, e.g. "亿元".
	Unit    string            `json:"unit"`
	Periods []FinancialPeriod `json:"periods"`
}

// Latest returns the newest period, or nil for an empty series.
func (s *FinancialSeries) Latest() *FinancialPeriod {
	if s == nil || len(s.Periods) == 0 {
		return nil
	}
	return &s.Periods[len(s.Periods)-1]
}

// Prior returns the second-newest period if the series has one.
func (s *FinancialSeries) Prior() *FinancialPeriod {
	if s == nil || len(s.Periods) < 2 {
		return nil
	}
	return &s.Periods[len(s.Periods)-2]
}

// PeriodLabels lists the period identifiers oldest first.
func (s *FinancialSeries) PeriodLabels() []string {
	labels := make([]string, 0, len(s.Periods))
	for _, p := range s.Periods {
		labels = append(labels, p.Period)
	}
	return labels
}
