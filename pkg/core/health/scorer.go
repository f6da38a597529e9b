package health

import (
	"math"

	"caiwu_agent/pkg/core/calc"
	"caiwu_agent/pkg/core/metric"
	"caiwu_agent/pkg/core/trend"
	"caiwu_agent/pkg/models"
)

// IndicatorScore records the value and [0,100] score of one indicator.
// Unavailable indicators keep both fields unavailable and are excluded from
// the dimension average.
type IndicatorScore struct {
	Name      string           `json:"name"`
	Dimension models.Dimension `json:"dimension"`
	Value     metric.Metric    `json:"value"`
	Score     metric.Metric    `json:"score"`
}

// DimensionScore summarizes one of the five dimensions. A dimension whose
// indicators are all unavailable is itself unavailable: its weight is
// redistributed proportionally across the remaining dimensions, never scored
// as zero or full marks.
type DimensionScore struct {
	Dimension models.Dimension `json:"dimension"`
	Score     metric.Metric    `json:"score"`
	// Weight is the configured weight in percent.
	Weight float64 `json:"weight"`
	// EffectiveWeight is the weight after redistribution (percent); it equals
	// Weight when every dimension is available and zero when this one is not.
	EffectiveWeight float64 `json:"effective_weight"`
	// WeightedPoints is Score x EffectiveWeight / 100; the available
	// dimensions' points sum to the overall score before rounding.
	WeightedPoints float64 `json:"weighted_points"`
}

// Assessment is the immutable result of one health-scoring pass.
type Assessment struct {
	OverallScore float64 `json:"overall_score"` // one decimal
	RiskLevel    string  `json:"risk_level"`
	RiskClass    string  `json:"risk_class"`

	Dimensions []DimensionScore `json:"dimensions"` // all five, declaration order
	Indicators []IndicatorScore `json:"indicators"` // rubric order

	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

// Scorer applies a validated Rubric. Construct with NewScorer.
type Scorer struct {
	rubric *Rubric
}

// NewScorer validates the rubric and returns a scorer. A nil rubric selects
// the default table.
func NewScorer(rubric *Rubric) (*Scorer, error) {
	if rubric == nil {
		rubric = DefaultRubric()
	}
	if err := rubric.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{rubric: rubric}, nil
}

// Assess combines the ratio set and trend metrics into the composite
// assessment. The pass is pure: identical inputs produce identical output.
func (s *Scorer) Assess(ratios *calc.RatioSet, trends []trend.Metric) *Assessment {
	values := indicatorValues(ratios, trends)

	assessment := &Assessment{}
	available := make(map[models.Dimension]float64)

	for _, dim := range models.AllDimensions {
		weight := s.rubric.Weights[dim]
		dimScore := DimensionScore{Dimension: dim, Weight: weight}

		var sum float64
		var count int
		for _, rule := range s.rubric.indicatorsFor(dim) {
			ind := IndicatorScore{Name: rule.Name, Dimension: dim, Value: values[rule.Name]}
			if ind.Value.Available {
				ind.Score = metric.Of(rule.Score(ind.Value.Value)).Round2()
				sum += ind.Score.Value
				count++
			}
			assessment.Indicators = append(assessment.Indicators, ind)
		}

		if count > 0 {
			dimScore.Score = metric.Of(sum / float64(count)).Round2()
			available[dim] = weight
		}
		assessment.Dimensions = append(assessment.Dimensions, dimScore)
	}

	var weightSum float64
	for _, w := range available {
		weightSum += w
	}

	var overall float64
	for i := range assessment.Dimensions {
		d := &assessment.Dimensions[i]
		if !d.Score.Available || weightSum == 0 {
			continue
		}
		d.EffectiveWeight = d.Weight / weightSum * 100
		d.WeightedPoints = d.Score.Value * d.EffectiveWeight / 100
		overall += d.WeightedPoints
	}

	assessment.OverallScore = math.Round(overall*10) / 10
	tier := s.rubric.tierFor(assessment.OverallScore)
	assessment.RiskLevel = tier.Level
	assessment.RiskClass = tier.Class

	s.narrate(assessment)
	return assessment
}

// indicatorValues flattens the ratio set and trend metrics into the value
// vocabulary the rubric's indicator rules reference.
func indicatorValues(ratios *calc.RatioSet, trends []trend.Metric) map[string]metric.Metric {
	values := make(map[string]metric.Metric)
	if ratios != nil {
		for _, nr := range ratios.Named() {
			values[nr.Name] = nr.Value
		}
	}
	for _, t := range trends {
		values[t.Name+"_cagr"] = t.CAGRPct
	}
	return values
}
