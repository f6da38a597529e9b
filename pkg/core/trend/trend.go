// Package trend computes multi-period growth statistics (CAGR, absolute
// change, direction) over a configurable lookback window.
package trend

import (
	"math"

	"caiwu_agent/pkg/core/metric"
	"caiwu_agent/pkg/models"
)

// DefaultWindow is the number of periods examined when the caller does not
// request a specific lookback.
const DefaultWindow = 4

// DeadBandPct is the ±2% classification dead-band: CAGR inside it is "flat".
// This is a design constant, not derived from data.
const DeadBandPct = 2.0

// Direction classifies a growth trend.
type Direction string

const (
	Rising  Direction = "rising"
	Falling Direction = "falling"
	Flat    Direction = "flat"
)

// Metric is the growth summary for one tracked quantity.
type Metric struct {
	Name    string        `json:"name"`
	CAGRPct metric.Metric `json:"cagr_pct"`
	// AbsoluteChange is end minus start over the window, in series units.
	AbsoluteChange metric.Metric `json:"absolute_change"`
	Direction      Direction     `json:"direction"`
	// Window is the number of periods actually examined.
	Window int `json:"window"`
	// Clamped flags that the series was shorter than the requested window.
	Clamped bool `json:"window_clamped"`
}

// Analyze computes a Metric per tracked quantity (revenue, net profit,
// operating cash flow) over the trailing window. A window longer than the
// series is clamped to the series length and flagged, never treated silently
// as a full window.
func Analyze(series *models.FinancialSeries, window int) []Metric {
	if window <= 0 {
		window = DefaultWindow
	}
	n := len(series.Periods)
	used := window
	clamped := false
	if used > n {
		used = n
		clamped = true
	}

	tail := series.Periods[n-used:]

	revenue := func(p models.FinancialPeriod) (float64, bool) { return p.Revenue, true }
	netProfit := func(p models.FinancialPeriod) (float64, bool) { return p.NetProfit, true }
	ocf := func(p models.FinancialPeriod) (float64, bool) {
		if p.OperatingCashFlow == nil {
			return 0, false
		}
		return *p.OperatingCashFlow, true
	}

	return []Metric{
		analyzeQuantity("revenue", tail, used, clamped, revenue),
		analyzeQuantity("net_profit", tail, used, clamped, netProfit),
		analyzeQuantity("operating_cash_flow", tail, used, clamped, ocf),
	}
}

func analyzeQuantity(name string, window []models.FinancialPeriod, used int, clamped bool, get func(models.FinancialPeriod) (float64, bool)) Metric {
	m := Metric{Name: name, Direction: Flat, Window: used, Clamped: clamped}
	if len(window) == 0 {
		return m
	}

	start, startOK := get(window[0])
	end, endOK := get(window[len(window)-1])
	if startOK && endOK {
		m.AbsoluteChange = metric.Of(end - start).Round2()
	}

	periods := len(window) - 1
	if startOK && endOK {
		m.CAGRPct = CAGR(start, end, periods)
	}
	m.Direction = Classify(m.CAGRPct)
	return m
}

// CAGR is the constant per-period growth rate producing the observed change,
// as a percentage. It is undefined (unavailable) for non-positive start
// values and for single-period windows.
func CAGR(start, end float64, periods int) metric.Metric {
	if periods < 1 || start <= 0 {
		return metric.Unavailable()
	}
	rate := math.Pow(end/start, 1/float64(periods)) - 1
	return metric.Of(rate * 100)
}

// Classify maps a CAGR percentage onto a direction using DeadBandPct.
// An unavailable CAGR classifies as flat.
func Classify(cagr metric.Metric) Direction {
	switch {
	case !cagr.Available:
		return Flat
	case cagr.Value > DeadBandPct:
		return Rising
	case cagr.Value < -DeadBandPct:
		return Falling
	default:
		return Flat
	}
}
