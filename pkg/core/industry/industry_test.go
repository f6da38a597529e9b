package industry

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"caiwu_agent/pkg/core/metric"
)

func TestClassifyPriority(t *testing.T) {
	// SW industry name wins over everything.
	if got := Classify("600519", "贵州茅台", "食品饮料"); got != "consumer" {
		t.Errorf("Expected consumer via SW name, got %s", got)
	}
	// A default-mapped SW name falls through to the other signals.
	if got := Classify("688981", "中芯国际", "综合"); got != "technology" {
		t.Errorf("Expected technology via STAR Market prefix, got %s", got)
	}
}

func TestClassifyByCodePrefix(t *testing.T) {
	cases := map[string]string{
		"688981": "technology",       // STAR Market
		"300750": "technology",       // ChiNext
		"830001": DefaultIndustryID,  // Beijing exchange
		"430047": DefaultIndustryID,
	}
	for code, want := range cases {
		if got := Classify(code, "", ""); got != want {
			t.Errorf("Classify(%s): expected %s, got %s", code, want, got)
		}
	}
	// Short codes are zero-padded before matching.
	if got := Classify("1", "", ""); got != DefaultIndustryID {
		t.Errorf("Expected default for padded code, got %s", got)
	}
}

func TestClassifyByName(t *testing.T) {
	cases := map[string]string{
		"平安银行":   "finance",
		"中国建筑":   "construction",
		"万科地产":   "real_estate",
		"三一机械制造": "manufacturing",
	}
	for name, want := range cases {
		if got := Classify("600000", name, ""); got != want {
			t.Errorf("Classify(name=%s): expected %s, got %s", name, want, got)
		}
	}

	// No signal at all: manufacturing.
	if got := Classify("601999", "无关名称", ""); got != DefaultIndustryID {
		t.Errorf("Expected default industry, got %s", got)
	}
}

func TestLookupFallsBack(t *testing.T) {
	if b := Lookup("no_such_industry"); b.ID != DefaultIndustryID {
		t.Errorf("Expected fallback to %s, got %s", DefaultIndustryID, b.ID)
	}
}

func TestScoreMetricWithinBand(t *testing.T) {
	b := MetricBenchmark{Min: 10, Max: 30, Ideal: 20, Weight: 0.2}

	// At the ideal: full marks.
	if got := ScoreMetric(20, b); got != 100 {
		t.Errorf("Expected 100 at ideal, got %f", got)
	}
	// Halfway to the band edge: deviation 5 of max 10 => 50.
	if got := ScoreMetric(25, b); got != 50 {
		t.Errorf("Expected 50, got %f", got)
	}
	// At the band edge: deviation 10 of 10 => 0.
	if got := ScoreMetric(30, b); got != 0 {
		t.Errorf("Expected 0 at band edge, got %f", got)
	}
}

func TestScoreMetricOutsideBand(t *testing.T) {
	b := MetricBenchmark{Min: 10, Max: 30, Ideal: 20}

	// Below min: proportional to value/min. 5/10 => 50.
	if got := ScoreMetric(5, b); got != 50 {
		t.Errorf("Expected 50 below band, got %f", got)
	}
	// Above max: proportional to max/value. 30/60 => 50.
	if got := ScoreMetric(60, b); got != 50 {
		t.Errorf("Expected 50 above band, got %f", got)
	}
	// Negative value below a positive min floors at 0.
	if got := ScoreMetric(-10, b); got != 0 {
		t.Errorf("Expected 0 for negative value, got %f", got)
	}
}

func ratioValues(values map[string]float64) map[string]metric.Metric {
	out := make(map[string]metric.Metric, len(values))
	for k, v := range values {
		out[k] = metric.Of(v)
	}
	return out
}

func TestScoreConsumerCompany(t *testing.T) {
	// Strong consumer-goods profile near the industry ideals.
	extras := ratioValues(map[string]float64{
		"gross_margin":      51.0,
		"net_profit_margin": 20.0,
		"roe":               22.5,
		"roa":               12.0,
		"debt_ratio":        25.0,
		"asset_turnover":    0.8,
	})

	res := Score(nil, "consumer", extras)
	if res.IndustryID != "consumer" || res.IndustryName != "消费品" {
		t.Fatalf("Bad industry resolution: %+v", res)
	}
	if res.NormalizedScore < 80 {
		t.Errorf("Expected low-risk score for an ideal profile, got %f", res.NormalizedScore)
	}
	if res.RiskClass != "low" {
		t.Errorf("Expected low risk class, got %s", res.RiskClass)
	}
	if res.AdjustmentFactor != 1.0 {
		t.Errorf("Consumer goods has no special rules, factor must stay 1.0, got %f", res.AdjustmentFactor)
	}
}

func TestScoreCashFlowPenalty(t *testing.T) {
	// Construction with collapsed operating cash flow: x0.8 penalty.
	healthy := ratioValues(map[string]float64{
		"gross_margin":   10.0,
		"net_margin":     3.0,
		"roe":            12.0,
		"roa":            2.5,
		"debt_ratio":     75.0,
		"asset_turnover": 0.45,
		"ocf_to_np":      90.0,
	})
	stressed := ratioValues(map[string]float64{
		"gross_margin":   10.0,
		"net_margin":     3.0,
		"roe":            12.0,
		"roa":            2.5,
		"debt_ratio":     75.0,
		"asset_turnover": 0.45,
		"ocf_to_np":      30.0, // below the 50% cash-conversion line
	})

	base := Score(nil, "construction", healthy)
	penalized := Score(nil, "construction", stressed)

	if base.AdjustmentFactor != 1.0 {
		t.Errorf("Healthy cash flow must not be penalized, got factor %f", base.AdjustmentFactor)
	}
	if penalized.AdjustmentFactor != 0.8 {
		t.Errorf("Expected x0.8 penalty, got %f", penalized.AdjustmentFactor)
	}
	if len(penalized.AdjustmentNotes) == 0 {
		t.Error("Expected an adjustment note for the penalty")
	}
	// High debt in construction is annotated, never double-penalized.
	foundDebtNote := false
	for _, n := range base.AdjustmentNotes {
		if strings.Contains(n, "高负债") {
			foundDebtNote = true
		}
	}
	if !foundDebtNote {
		t.Errorf("Expected high-debt annotation, got %v", base.AdjustmentNotes)
	}
}

func TestScoreRDBonus(t *testing.T) {
	values := ratioValues(map[string]float64{
		"gross_margin":   55.0,
		"net_margin":     22.0,
		"roe":            18.0,
		"roa":            12.0,
		"debt_ratio":     30.0,
		"asset_turnover": 0.8,
		"rd_ratio":       18.0, // above the 15% bonus line
	})

	res := Score(nil, "technology", values)
	if res.AdjustmentFactor != 1.1 {
		t.Errorf("Expected x1.1 R&D bonus, got %f", res.AdjustmentFactor)
	}
	// The bonus can push the raw score past the weighted maximum; the
	// normalized score still caps at 100.
	if res.NormalizedScore > 100 {
		t.Errorf("Normalized score must cap at 100, got %f", res.NormalizedScore)
	}
}

func TestComparisonStatus(t *testing.T) {
	// consumer roe ideal = 22. 22.5 is within ±10% => 持平.
	c := compare("roe", 22.5, 22)
	if c.Status != "at" || c.StatusCN != "持平" {
		t.Errorf("Expected at/持平, got %s/%s", c.Status, c.StatusCN)
	}
	// 30 vs 22 = +36% => 优于.
	c = compare("roe", 30, 22)
	if c.Status != "above" || c.StatusCN != "优于" {
		t.Errorf("Expected above/优于, got %s/%s", c.Status, c.StatusCN)
	}
	// 10 vs 22 = -55% => 低于.
	c = compare("roe", 10, 22)
	if c.Status != "below" || c.StatusCN != "低于" {
		t.Errorf("Expected below/低于, got %s/%s", c.Status, c.StatusCN)
	}
	if math.Abs(c.DifferencePct-(-54.55)) > 0.01 {
		t.Errorf("Expected -54.55%%, got %f", c.DifferencePct)
	}
}

func TestScoreDeterminism(t *testing.T) {
	values := ratioValues(map[string]float64{
		"gross_margin": 25.0, "net_margin": 8.0, "roe": 12.0,
		"roa": 7.0, "debt_ratio": 45.0, "asset_turnover": 1.0,
	})
	r1 := Score(nil, "manufacturing", values)
	r2 := Score(nil, "manufacturing", values)
	if !reflect.DeepEqual(r1, r2) {
		t.Error("Industry score must be identical across runs on identical input")
	}
}
