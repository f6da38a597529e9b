package industry

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"caiwu_agent/pkg/core/calc"
	"caiwu_agent/pkg/core/metric"
)

// MetricScore is the score of one metric against its industry benchmark.
type MetricScore struct {
	Name     string  `json:"name"`
	NameCN   string  `json:"name_cn"`
	Value    float64 `json:"value"`
	Score    float64 `json:"score"`
	Weighted float64 `json:"weighted_score"`
	Rating   string  `json:"rating"`
	Range    string  `json:"industry_range"`
	Ideal    float64 `json:"industry_ideal"`
}

// Comparison reports how one metric sits against the industry ideal. A
// deviation within ±10% of the ideal counts as level.
type Comparison struct {
	Name          string  `json:"name"`
	CompanyValue  float64 `json:"company_value"`
	IndustryIdeal float64 `json:"industry_ideal"`
	Difference    float64 `json:"difference"`
	DifferencePct float64 `json:"difference_pct"`
	Status        string  `json:"status"` // above / at / below
	StatusCN      string  `json:"status_cn"`
}

// Result is the industry-adjusted assessment.
type Result struct {
	IndustryID   string  `json:"industry_id"`
	IndustryName string  `json:"industry_name"`
	IndustryEN   string  `json:"industry_name_en"`
	Description  string  `json:"industry_description"`

	MetricScores []MetricScore `json:"metric_scores"`
	Comparisons  []Comparison  `json:"industry_comparison"`

	RawScore         float64  `json:"raw_score"`
	NormalizedScore  float64  `json:"normalized_score"`
	MaxScore         float64  `json:"max_score"`
	AdjustmentFactor float64  `json:"adjustment_factor"`
	AdjustmentNotes  []string `json:"adjustment_notes"`

	RiskLevel string `json:"risk_level"`
	RiskClass string `json:"risk_class"`

	Recommendations []string `json:"recommendations"`
}

// riskTiers is the shared inclusive-lower-bound tier table.
var riskTiers = []struct {
	min   float64
	level string
	class string
}{
	{80, "低风险", "low"},
	{60, "中低风险", "medium-low"},
	{40, "中等风险", "medium"},
	{20, "中高风险", "medium-high"},
	{0, "高风险", "high"},
}

// ScoreMetric maps a value onto [0,100] against a benchmark. Inside the
// [Min,Max] band the score decays linearly with distance from the ideal,
// reaching 0 at half the band width away. Outside the band the score is the
// proportion value/Min (below) or Max/value (above).
func ScoreMetric(value float64, b MetricBenchmark) float64 {
	var score float64
	if value >= b.Min && value <= b.Max {
		width := b.Max - b.Min
		if width == 0 {
			if value == b.Ideal {
				score = 100
			} else {
				score = 50
			}
		} else {
			deviation := math.Abs(value - b.Ideal)
			score = math.Max(0, 100*(1-deviation/(width/2)))
		}
	} else if value < b.Min {
		if b.Min != 0 {
			score = math.Max(0, 100*(value/b.Min))
		}
	} else {
		if value != 0 {
			score = math.Max(0, 100*(b.Max/value))
		}
	}
	return math.Round(score*100) / 100
}

func rating(score float64) string {
	switch {
	case score >= 80:
		return "优秀"
	case score >= 60:
		return "良好"
	case score >= 40:
		return "一般"
	case score >= 20:
		return "较差"
	default:
		return "差"
	}
}

// Score computes the industry-adjusted assessment of a ratio set. Extra
// metric values not present in the RatioSet (e.g. rd_ratio from the income
// statement detail) can be supplied via extras; pass nil when none exist.
func Score(ratios *calc.RatioSet, industryID string, extras map[string]metric.Metric) *Result {
	b := Lookup(industryID)

	res := &Result{
		IndustryID:       b.ID,
		IndustryName:     b.Name,
		IndustryEN:       b.NameEN,
		Description:      b.Description,
		AdjustmentFactor: 1.0,
	}

	values := make(map[string]metric.Metric)
	if ratios != nil {
		for _, nr := range ratios.Named() {
			values[nr.Name] = nr.Value
		}
	}
	for name, v := range extras {
		values[name] = v
	}

	var totalWeighted, totalMax float64
	for _, name := range sortedMetricNames(b.Metrics) {
		mb := b.Metrics[name]
		v, ok := lookupValue(values, name)
		if !ok {
			continue
		}

		score := ScoreMetric(v, mb)
		ms := MetricScore{
			Name:     name,
			NameCN:   metricCN(name),
			Value:    math.Round(v*100) / 100,
			Score:    score,
			Weighted: math.Round(score*mb.Weight*100) / 100,
			Rating:   rating(score),
			Range:    fmt.Sprintf("%g-%g", mb.Min, mb.Max),
			Ideal:    mb.Ideal,
		}
		res.MetricScores = append(res.MetricScores, ms)
		totalWeighted += ms.Weighted
		totalMax += 100 * mb.Weight

		res.Comparisons = append(res.Comparisons, compare(name, v, mb.Ideal))
	}

	applyRules(res, b, values)

	res.RawScore = math.Round(totalWeighted*res.AdjustmentFactor*100) / 100
	if totalMax > 0 {
		res.NormalizedScore = math.Round(res.RawScore/totalMax*100*100) / 100
	}
	res.NormalizedScore = math.Min(100, res.NormalizedScore)
	res.MaxScore = totalMax

	for _, tier := range riskTiers {
		if res.NormalizedScore >= tier.min {
			res.RiskLevel = tier.level
			res.RiskClass = tier.class
			break
		}
	}

	recommend(res, b)
	return res
}

// applyRules applies the industry special rules to the adjustment factor and
// notes. High debt tolerance is annotation only, never a penalty.
func applyRules(res *Result, b Benchmark, values map[string]metric.Metric) {
	if b.Rules.HighDebtTolerance {
		if debt, ok := lookupValue(values, "debt_ratio"); ok && debt > 70 {
			res.AdjustmentNotes = append(res.AdjustmentNotes, fmt.Sprintf("%s行业高负债为常态", b.Name))
		}
	}
	if b.Rules.CashFlowCritical {
		if ocf, ok := lookupValue(values, "ocf_to_np"); ok && ocf < 50 {
			res.AdjustmentFactor *= 0.8
			res.AdjustmentNotes = append(res.AdjustmentNotes, "现金流严重恶化，扣减评分")
		}
	}
	if b.Rules.HighRDBonus {
		if rd, ok := lookupValue(values, "rd_ratio"); ok && rd > 15 {
			res.AdjustmentFactor *= 1.1
			res.AdjustmentNotes = append(res.AdjustmentNotes, "研发投入突出，加分奖励")
		}
	}
	res.AdjustmentFactor = math.Round(res.AdjustmentFactor*100) / 100
}

func compare(name string, value, ideal float64) Comparison {
	c := Comparison{
		Name:          name,
		CompanyValue:  math.Round(value*100) / 100,
		IndustryIdeal: ideal,
	}
	if ideal != 0 {
		diff := value - ideal
		c.Difference = math.Round(diff*100) / 100
		c.DifferencePct = math.Round(diff/ideal*100*100) / 100
		switch {
		case math.Abs(c.DifferencePct) <= 10:
			c.Status, c.StatusCN = "at", "持平"
		case diff > 0:
			c.Status, c.StatusCN = "above", "优于"
		default:
			c.Status, c.StatusCN = "below", "低于"
		}
	}
	return c
}

// recommend appends rule-generated recommendations: a tier-level summary, the
// industry quirks, and up to three weak metrics by name.
func recommend(res *Result, b Benchmark) {
	switch res.RiskClass {
	case "low":
		res.Recommendations = append(res.Recommendations, "财务状况优秀，行业竞争力强，可考虑配置")
	case "medium-low":
		res.Recommendations = append(res.Recommendations, "财务状况良好，部分指标需关注")
	case "medium":
		res.Recommendations = append(res.Recommendations, "财务状况一般，建议深入分析薄弱环节")
	case "medium-high":
		res.Recommendations = append(res.Recommendations, "财务状况需警惕，存在明显风险点")
	default:
		res.Recommendations = append(res.Recommendations, "财务状况高风险，建议回避")
	}

	if b.Rules.CashFlowCritical {
		for _, ms := range res.MetricScores {
			if ms.Name == "ocf_to_np" && ms.Score < 40 {
				res.Recommendations = append(res.Recommendations, "现金流状况需重点关注")
			}
		}
	}
	if b.Rules.HighDebtTolerance {
		res.Recommendations = append(res.Recommendations, "行业高负债为常态，需关注有息负债成本")
	}
	if b.Rules.HighRDBonus {
		for _, ms := range res.MetricScores {
			if ms.Name == "rd_ratio" && ms.Score >= 60 {
				res.Recommendations = append(res.Recommendations, "研发投入较高，长期竞争力有保障")
			}
		}
	}

	var weak []string
	for _, ms := range res.MetricScores {
		if ms.Score < 40 {
			weak = append(weak, ms.NameCN)
		}
	}
	if len(weak) > 0 {
		if len(weak) > 3 {
			weak = weak[:3]
		}
		res.Recommendations = append(res.Recommendations, "需关注: "+strings.Join(weak, ", "))
	}
}

// lookupValue resolves a benchmark metric name against the value map,
// following aliases, and returns only available values.
func lookupValue(values map[string]metric.Metric, name string) (float64, bool) {
	if v, ok := values[name]; ok && v.Available {
		return v.Value, true
	}
	if alias, ok := ratioAliases[name]; ok {
		if v, ok := values[alias]; ok && v.Available {
			return v.Value, true
		}
	}
	return 0, false
}

func metricCN(name string) string {
	if cn, ok := metricNamesCN[name]; ok {
		return cn
	}
	return name
}

func sortedMetricNames(m map[string]MetricBenchmark) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
