// Package normalize validates and reshapes raw per-period statement records
// into the uniform FinancialSeries consumed by the calculation layers.
//
// Raw records come from statement dumps whose field vocabulary varies by
// source (EastMoney column codes, Chinese captions, snake_case exports), so
// every figure is resolved through an alias list. Monetary values are divided
// by UnitDivisor to bring the series into a homogeneous unit before any ratio
// is computed.
package normalize

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"caiwu_agent/pkg/models"
)

// DefaultUnitDivisor converts raw RMB statement values into 亿元.
const DefaultUnitDivisor = 1e8

// balanceTolerance is the allowed relative gap between total assets and
// equity + liabilities before a reconciliation warning is emitted.
const balanceTolerance = 0.005

// ValidationError marks malformed or insufficient input. It is fatal to the
// analysis call and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Reason)
}

// RawBundle is the loosely-typed input contract: one record slice per
// statement, keyed by whatever the source called each line item. Records may
// arrive in any order; periods are matched across statements by report date.
type RawBundle struct {
	StockCode string           `json:"stock_code"`
	StockName string           `json:"stock_name"`
	Income    []map[string]any `json:"income"`
	Balance   []map[string]any `json:"balance"`
	CashFlow  []map[string]any `json:"cashflow"`
}

// Options tunes the normalization pass.
type Options struct {
	// UnitDivisor divides every monetary value; zero means DefaultUnitDivisor.
	UnitDivisor float64
	// Unit labels the resulting series unit; empty means "亿元".
	Unit string
}

// Field alias tables. First match wins, mirroring the source dumps where the
// same line item appears under an EastMoney code, a Chinese caption, or a
// snake_case export name.
var (
	aliasesPeriod           = []string{"REPORT_DATE", "报告期", "report_date", "REPORT_DATE_NAME"}
	aliasesRevenue          = []string{"TOTAL_OPERATE_INCOME", "营业收入", "营业总收入", "operating_revenue", "revenue"}
	aliasesNetProfit        = []string{"NETPROFIT", "净利润", "归属于母公司所有者的净利润", "net_profit"}
	aliasesCostOfSales      = []string{"TOTAL_OPERATE_COST", "营业成本", "operating_cost", "cost_of_sales"}
	aliasesTotalAssets      = []string{"TOTAL_ASSETS", "资产总计", "total_assets"}
	aliasesTotalLiabilities = []string{"TOTAL_LIABILITIES", "负债合计", "total_liabilities"}
	aliasesTotalEquity      = []string{"TOTAL_EQUITY", "所有者权益合计", "股东权益合计", "total_equity"}
	aliasesCurrentAssets    = []string{"TOTAL_CURRENT_ASSETS", "流动资产合计", "current_assets"}
	aliasesCurrentLiab      = []string{"TOTAL_CURRENT_LIABILITIES", "流动负债合计", "current_liabilities"}
	aliasesInventories      = []string{"INVENTORY", "存货", "inventories"}
	aliasesOperatingCF      = []string{"NETCASH_OPERATE", "经营活动产生的现金流量净额", "operating_cash_flow"}
)

// Normalize reshapes a RawBundle into a FinancialSeries sorted ascending by
// period. It returns reconciliation warnings alongside the series; warnings
// are informational and never abort the call.
func Normalize(bundle *RawBundle, opts Options) (*models.FinancialSeries, []string, error) {
	if bundle == nil || len(bundle.Income) == 0 {
		return nil, nil, &ValidationError{Reason: "no income statement records supplied"}
	}

	divisor := opts.UnitDivisor
	if divisor == 0 {
		divisor = DefaultUnitDivisor
	}
	unit := opts.Unit
	if unit == "" {
		unit = "亿元"
	}

	balanceByPeriod := indexByPeriod(bundle.Balance)
	cashflowByPeriod := indexByPeriod(bundle.CashFlow)

	var warnings []string
	seen := make(map[string]bool)
	candidates := make([]candidatePeriod, 0, len(bundle.Income))

	for _, income := range bundle.Income {
		label, ok := periodLabel(income)
		if !ok {
			return nil, nil, &ValidationError{Field: "REPORT_DATE", Reason: "income record has no period identifier"}
		}
		if seen[label] {
			return nil, nil, &ValidationError{Field: "REPORT_DATE", Reason: fmt.Sprintf("duplicate period %s", label)}
		}
		seen[label] = true

		balance := balanceByPeriod[label]
		cashflow := cashflowByPeriod[label]

		c := candidatePeriod{period: models.FinancialPeriod{Period: label}}
		c.revenueErr = extractRequired(income, aliasesRevenue, "revenue", divisor, &c.period.Revenue)
		c.netProfitErr = extractRequired(income, aliasesNetProfit, "net_profit", divisor, &c.period.NetProfit)
		c.assetsErr = extractRequired(balance, aliasesTotalAssets, "total_assets", divisor, &c.period.TotalAssets)

		if liab, ok := optionalField(balance, aliasesTotalLiabilities, divisor); ok {
			c.period.TotalLiabilities = liab
		}
		if equity, ok := optionalField(balance, aliasesTotalEquity, divisor); ok {
			c.period.TotalEquity = equity
		} else {
			// The source dumps frequently omit the equity subtotal; derive it
			// from the accounting identity.
			c.period.TotalEquity = c.period.TotalAssets - c.period.TotalLiabilities
		}

		c.period.CostOfSales = optionalPtr(income, aliasesCostOfSales, divisor)
		c.period.CurrentAssets = optionalPtr(balance, aliasesCurrentAssets, divisor)
		c.period.CurrentLiabilities = optionalPtr(balance, aliasesCurrentLiab, divisor)
		c.period.Inventories = optionalPtr(balance, aliasesInventories, divisor)
		c.period.OperatingCashFlow = optionalPtr(cashflow, aliasesOperatingCF, divisor)

		candidates = append(candidates, c)
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].period.Period < candidates[j].period.Period })

	// The latest period must carry the required figures; older periods that
	// miss them are dropped with a warning so a partial history never blocks
	// the analysis of the most recent statements.
	latest := candidates[len(candidates)-1]
	if err := latest.firstError(); err != nil {
		return nil, nil, err
	}

	periods := make([]models.FinancialPeriod, 0, len(candidates))
	for _, c := range candidates {
		if err := c.firstError(); err != nil {
			warnings = append(warnings, fmt.Sprintf("period %s dropped: %v", c.period.Period, err))
			continue
		}
		if c.period.TotalAssets < 0 {
			return nil, nil, &ValidationError{Field: "total_assets", Reason: fmt.Sprintf("negative total assets in period %s", c.period.Period)}
		}
		if w := reconcile(&c.period); w != "" {
			warnings = append(warnings, w)
		}
		periods = append(periods, c.period)
	}

	return &models.FinancialSeries{
		StockCode: bundle.StockCode,
		StockName: bundle.StockName,
		Unit:      unit,
		Periods:   periods,
	}, warnings, nil
}

// reconcile checks assets = equity + liabilities within tolerance and returns
// a warning string when the identity does not hold.
func reconcile(p *models.FinancialPeriod) string {
	if p.TotalAssets == 0 {
		return ""
	}
	gap := p.TotalAssets - (p.TotalEquity + p.TotalLiabilities)
	if math.Abs(gap)/math.Abs(p.TotalAssets) > balanceTolerance {
		return fmt.Sprintf("period %s: total assets (%.2f) do not reconcile with equity+liabilities (%.2f)",
			p.Period, p.TotalAssets, p.TotalEquity+p.TotalLiabilities)
	}
	return ""
}

func indexByPeriod(records []map[string]any) map[string]map[string]any {
	index := make(map[string]map[string]any, len(records))
	for _, record := range records {
		if label, ok := periodLabel(record); ok {
			index[label] = record
		}
	}
	return index
}

// periodLabel extracts and trims the report-date label. Timestamps like
// "2023-12-31 00:00:00" reduce to their date part so labels sort lexically.
func periodLabel(record map[string]any) (string, bool) {
	for _, key := range aliasesPeriod {
		raw, ok := record[key]
		if !ok || raw == nil {
			continue
		}
		label := strings.TrimSpace(fmt.Sprintf("%v", raw))
		if label == "" {
			continue
		}
		if len(label) > 10 && label[4] == '-' {
			label = label[:10]
		}
		return label, true
	}
	return "", false
}

// candidatePeriod carries a parsed period together with any required-field
// failures, so requiredness can be enforced after chronological sorting.
type candidatePeriod struct {
	period       models.FinancialPeriod
	revenueErr   error
	netProfitErr error
	assetsErr    error
}

func (c candidatePeriod) firstError() error {
	for _, err := range []error{c.revenueErr, c.netProfitErr, c.assetsErr} {
		if err != nil {
			return err
		}
	}
	return nil
}

// extractRequired resolves an alias list into dst and returns a
// ValidationError when the field is absent or non-numeric.
func extractRequired(record map[string]any, aliases []string, name string, divisor float64, dst *float64) error {
	raw, ok := lookup(record, aliases)
	if !ok {
		return &ValidationError{Field: name, Reason: "required field missing"}
	}
	value, ok := toFloat(raw)
	if !ok {
		return &ValidationError{Field: name, Reason: fmt.Sprintf("value %v is not numeric", raw)}
	}
	*dst = value / divisor
	return nil
}

// optionalField resolves an alias list; absent or non-numeric values simply
// report not-ok so the figure propagates as unavailable.
func optionalField(record map[string]any, aliases []string, divisor float64) (float64, bool) {
	raw, ok := lookup(record, aliases)
	if !ok {
		return 0, false
	}
	value, ok := toFloat(raw)
	if !ok {
		return 0, false
	}
	return value / divisor, true
}

func optionalPtr(record map[string]any, aliases []string, divisor float64) *float64 {
	if value, ok := optionalField(record, aliases, divisor); ok {
		return &value
	}
	return nil
}

func lookup(record map[string]any, aliases []string) (any, bool) {
	if record == nil {
		return nil, false
	}
	for _, key := range aliases {
		if raw, ok := record[key]; ok && raw != nil {
			return raw, true
		}
	}
	return nil, false
}

// toFloat accepts the numeric shapes JSON decoding produces: float64, int,
// and numeric strings (with optional thousands separators).
func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		if cleaned == "" || cleaned == "-" || cleaned == "--" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
