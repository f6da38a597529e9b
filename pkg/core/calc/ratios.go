// Package calc computes point-in-time financial ratios from the latest
// period of a FinancialSeries, including the DuPont decomposition of ROE.
//
// Every ratio degrades to an explicit unavailable Metric on arithmetic edge
// cases (zero or near-zero denominators, missing optional inputs). A bad
// ratio never aborts the rest of the set.
package calc

import (
	"caiwu_agent/pkg/core/metric"
	"caiwu_agent/pkg/models"
)

// RatioSet holds the latest-period ratios. Percentages are expressed on the
// 0–100 scale; turnover and multiplier figures are plain ratios.
type RatioSet struct {
	Period string `json:"period"`

	// Profitability
	NetProfitMargin metric.Metric `json:"net_profit_margin"` // %
	GrossMargin     metric.Metric `json:"gross_margin"`      // %
	ROE             metric.Metric `json:"roe"`               // %
	ROA             metric.Metric `json:"roa"`               // %

	// Solvency
	DebtRatio    metric.Metric `json:"debt_ratio"` // %
	CurrentRatio metric.Metric `json:"current_ratio"`
	QuickRatio   metric.Metric `json:"quick_ratio"`

	// Efficiency
	AssetTurnover    metric.Metric `json:"asset_turnover"`
	EquityMultiplier metric.Metric `json:"equity_multiplier"`

	// Cash-flow quality
	OCFToNetProfit metric.Metric `json:"ocf_to_np"` // %

	DuPont DuPontDecomposition `json:"dupont_analysis"`
}

// DuPontDecomposition expresses ROE as net margin x asset turnover x equity
// multiplier. ROE here is the product of the three factors; callers can check
// it against RatioSet.ROE within rounding tolerance.
type DuPontDecomposition struct {
	NetMargin        metric.Metric `json:"net_margin"` // %
	AssetTurnover    metric.Metric `json:"asset_turnover"`
	EquityMultiplier metric.Metric `json:"equity_multiplier"`
	ROE              metric.Metric `json:"roe"` // %
}

// NamedRatio tags a ratio with the health-score dimension it belongs to.
type NamedRatio struct {
	Name      string           `json:"name"`
	Dimension models.Dimension `json:"dimension"`
	Value     metric.Metric    `json:"value"`
}

// ComputeRatios derives the RatioSet from the latest period of the series.
// Asset turnover and the DuPont turnover factor average the latest two
// periods' total assets when a prior period exists.
func ComputeRatios(series *models.FinancialSeries) *RatioSet {
	latest := series.Latest()
	if latest == nil {
		return &RatioSet{}
	}
	prior := series.Prior()

	set := &RatioSet{Period: latest.Period}

	set.NetProfitMargin = metric.Percent(latest.NetProfit, latest.Revenue).Round2()
	if latest.CostOfSales != nil {
		set.GrossMargin = metric.Percent(latest.Revenue-*latest.CostOfSales, latest.Revenue).Round2()
	}

	// ROE is undefined for non-positive equity, not merely for equity near
	// zero: a negative book value makes the ratio meaningless.
	if latest.TotalEquity > metric.Epsilon {
		set.ROE = metric.Percent(latest.NetProfit, latest.TotalEquity).Round2()
	}
	set.ROA = metric.Percent(latest.NetProfit, latest.TotalAssets).Round2()
	set.DebtRatio = metric.Percent(latest.TotalLiabilities, latest.TotalAssets).Round2()

	if latest.CurrentAssets != nil && latest.CurrentLiabilities != nil {
		set.CurrentRatio = metric.Ratio(*latest.CurrentAssets, *latest.CurrentLiabilities).Round2()
		if latest.Inventories != nil {
			set.QuickRatio = metric.Ratio(*latest.CurrentAssets-*latest.Inventories, *latest.CurrentLiabilities).Round2()
		}
	}

	avgAssets := latest.TotalAssets
	if prior != nil {
		avgAssets = (latest.TotalAssets + prior.TotalAssets) / 2
	}
	set.AssetTurnover = metric.Ratio(latest.Revenue, avgAssets).Round2()
	if latest.TotalEquity > metric.Epsilon {
		set.EquityMultiplier = metric.Ratio(latest.TotalAssets, latest.TotalEquity).Round2()
	}

	if latest.OperatingCashFlow != nil {
		set.OCFToNetProfit = metric.Percent(*latest.OperatingCashFlow, latest.NetProfit).Round2()
	}

	set.DuPont = decomposeDuPont(set, latest)
	return set
}

// decomposeDuPont assembles the three-factor identity. Its turnover factor
// divides by ending assets, not the two-period average, so the product
// reconstructs ROE exactly: margin x (rev/assets) x (assets/equity) cancels
// to profit/equity. The product ROE is only available when all three factors
// are.
func decomposeDuPont(set *RatioSet, latest *models.FinancialPeriod) DuPontDecomposition {
	d := DuPontDecomposition{
		NetMargin:        set.NetProfitMargin,
		AssetTurnover:    metric.Ratio(latest.Revenue, latest.TotalAssets).Round2(),
		EquityMultiplier: set.EquityMultiplier,
	}
	if d.NetMargin.Available && d.AssetTurnover.Available && d.EquityMultiplier.Available {
		d.ROE = metric.Of(d.NetMargin.Value / 100 * d.AssetTurnover.Value * d.EquityMultiplier.Value * 100).Round2()
	}
	return d
}

// Named lists every ratio tagged with its dimension, in a fixed order. The
// health scorer and the report assembler both iterate this list.
func (r *RatioSet) Named() []NamedRatio {
	return []NamedRatio{
		{Name: "net_profit_margin", Dimension: models.Profitability, Value: r.NetProfitMargin},
		{Name: "gross_margin", Dimension: models.Profitability, Value: r.GrossMargin},
		{Name: "roe", Dimension: models.Profitability, Value: r.ROE},
		{Name: "roa", Dimension: models.Profitability, Value: r.ROA},
		{Name: "debt_ratio", Dimension: models.Solvency, Value: r.DebtRatio},
		{Name: "current_ratio", Dimension: models.Solvency, Value: r.CurrentRatio},
		{Name: "quick_ratio", Dimension: models.Solvency, Value: r.QuickRatio},
		{Name: "asset_turnover", Dimension: models.Efficiency, Value: r.AssetTurnover},
		{Name: "equity_multiplier", Dimension: models.Efficiency, Value: r.EquityMultiplier},
		{Name: "ocf_to_np", Dimension: models.CashFlow, Value: r.OCFToNetProfit},
	}
}

// Lookup returns the named ratio's value, or unavailable for unknown names.
func (r *RatioSet) Lookup(name string) metric.Metric {
	for _, nr := range r.Named() {
		if nr.Name == name {
			return nr.Value
		}
	}
	return metric.Unavailable()
}
