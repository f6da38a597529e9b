// Package health combines the ratio and trend outputs into a weighted
// five-dimension 0-100 composite score with a risk tier and rule-generated
// assessment text.
//
// Every threshold lives in the Rubric so alternate scoring tables can be
// injected for testing; nothing in the scorer consults a global.
package health

import (
	"fmt"
	"math"
	"os"

	hjson "github.com/hjson/hjson-go/v4"
	yaml "gopkg.in/yaml.v2"

	"caiwu_agent/pkg/models"
)

// ConfigError marks an invalid rubric. It is fatal at initialization, before
// any analysis runs.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid scoring rubric: %s", e.Reason)
}

// IndicatorRule scores one indicator by linear interpolation between a floor
// and a ceiling, bounded to [0,100].
//
// For a higher-is-better indicator the floor scores 0 and the ceiling 100.
// With LowerIsBetter set the meaning flips: values at or below Floor score
// 100 and values at or above Ceiling score 0 (e.g. debt ratio).
type IndicatorRule struct {
	Name          string           `yaml:"name" json:"name"`
	Dimension     models.Dimension `yaml:"dimension" json:"dimension"`
	Floor         float64          `yaml:"floor" json:"floor"`
	Ceiling       float64          `yaml:"ceiling" json:"ceiling"`
	LowerIsBetter bool             `yaml:"lower_is_better" json:"lower_is_better"`
}

// Score maps an indicator value onto [0,100].
func (r IndicatorRule) Score(value float64) float64 {
	span := r.Ceiling - r.Floor
	var score float64
	if r.LowerIsBetter {
		score = (r.Ceiling - value) / span * 100
	} else {
		score = (value - r.Floor) / span * 100
	}
	return math.Min(100, math.Max(0, score))
}

// RiskTier maps an inclusive lower score bound to a risk classification.
type RiskTier struct {
	MinScore float64 `yaml:"min_score" json:"min_score"`
	Level    string  `yaml:"level" json:"level"`
	Class    string  `yaml:"class" json:"class"`
}

// Rubric is the explicit configuration of the health scorer: dimension
// weights (percent, summing to 100), indicator threshold rules, risk tiers,
// and the strength/weakness cutoffs for the generated text.
type Rubric struct {
	Weights    map[models.Dimension]float64 `yaml:"weights" json:"weights"`
	Indicators []IndicatorRule              `yaml:"indicators" json:"indicators"`
	Tiers      []RiskTier                   `yaml:"tiers" json:"tiers"`

	StrengthThreshold float64 `yaml:"strength_threshold" json:"strength_threshold"`
	WeaknessThreshold float64 `yaml:"weakness_threshold" json:"weakness_threshold"`
}

// DefaultRubric returns the canonical scoring table: 25/25/20/15/15 dimension
// weights and ROE full marks above 15%. The repository documentation carried
// two competing ROE thresholds and weight tables; this one is authoritative.
func DefaultRubric() *Rubric {
	return &Rubric{
		Weights: map[models.Dimension]float64{
			models.Profitability: 25,
			models.Solvency:      25,
			models.Efficiency:    20,
			models.Growth:        15,
			models.CashFlow:      15,
		},
		Indicators: []IndicatorRule{
			{Name: "roe", Dimension: models.Profitability, Floor: 0, Ceiling: 15},
			{Name: "net_profit_margin", Dimension: models.Profitability, Floor: 0, Ceiling: 20},
			{Name: "debt_ratio", Dimension: models.Solvency, Floor: 40, Ceiling: 90, LowerIsBetter: true},
			{Name: "current_ratio", Dimension: models.Solvency, Floor: 0.5, Ceiling: 2.0},
			{Name: "asset_turnover", Dimension: models.Efficiency, Floor: 0.2, Ceiling: 1.0},
			{Name: "revenue_cagr", Dimension: models.Growth, Floor: 0, Ceiling: 15},
			{Name: "net_profit_cagr", Dimension: models.Growth, Floor: 0, Ceiling: 20},
			{Name: "ocf_to_np", Dimension: models.CashFlow, Floor: 0, Ceiling: 100},
		},
		Tiers: []RiskTier{
			{MinScore: 80, Level: "低风险", Class: "low"},
			{MinScore: 60, Level: "中低风险", Class: "medium-low"},
			{MinScore: 40, Level: "中等风险", Class: "medium"},
			{MinScore: 20, Level: "中高风险", Class: "medium-high"},
			{MinScore: 0, Level: "高风险", Class: "high"},
		},
		StrengthThreshold: 90,
		WeaknessThreshold: 40,
	}
}

// Validate checks the rubric before any analysis runs.
func (r *Rubric) Validate() error {
	if r == nil {
		return &ConfigError{Reason: "rubric is nil"}
	}

	sum := 0.0
	for dim, weight := range r.Weights {
		if !dim.Valid() {
			return &ConfigError{Reason: fmt.Sprintf("unknown dimension %q in weight table", dim)}
		}
		if weight < 0 {
			return &ConfigError{Reason: fmt.Sprintf("negative weight for dimension %q", dim)}
		}
		sum += weight
	}
	if math.Abs(sum-100) > 1e-6 {
		return &ConfigError{Reason: fmt.Sprintf("dimension weights sum to %.4f, expected 100", sum)}
	}

	if len(r.Indicators) == 0 {
		return &ConfigError{Reason: "no indicator rules defined"}
	}
	for _, rule := range r.Indicators {
		if rule.Name == "" {
			return &ConfigError{Reason: "indicator rule with empty name"}
		}
		if !rule.Dimension.Valid() {
			return &ConfigError{Reason: fmt.Sprintf("indicator %q references unknown dimension %q", rule.Name, rule.Dimension)}
		}
		if rule.Ceiling <= rule.Floor {
			return &ConfigError{Reason: fmt.Sprintf("indicator %q has ceiling %.2f <= floor %.2f", rule.Name, rule.Ceiling, rule.Floor)}
		}
	}

	if len(r.Tiers) == 0 {
		return &ConfigError{Reason: "no risk tiers defined"}
	}
	for i := 1; i < len(r.Tiers); i++ {
		if r.Tiers[i].MinScore >= r.Tiers[i-1].MinScore {
			return &ConfigError{Reason: "risk tiers must be ordered by descending min_score"}
		}
	}
	if r.Tiers[len(r.Tiers)-1].MinScore != 0 {
		return &ConfigError{Reason: "lowest risk tier must start at score 0"}
	}

	if r.StrengthThreshold <= r.WeaknessThreshold {
		return &ConfigError{Reason: "strength threshold must exceed weakness threshold"}
	}
	return nil
}

// tierFor resolves the risk tier for a score (inclusive lower bound: a score
// exactly on a boundary belongs to the higher tier).
func (r *Rubric) tierFor(score float64) RiskTier {
	for _, tier := range r.Tiers {
		if score >= tier.MinScore {
			return tier
		}
	}
	return r.Tiers[len(r.Tiers)-1]
}

// indicatorsFor lists the rules belonging to one dimension, in rubric order.
func (r *Rubric) indicatorsFor(dim models.Dimension) []IndicatorRule {
	var rules []IndicatorRule
	for _, rule := range r.Indicators {
		if rule.Dimension == dim {
			rules = append(rules, rule)
		}
	}
	return rules
}

// LoadRubricYAML reads a rubric from a YAML file and validates it.
func LoadRubricYAML(path string) (*Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rubric %s: %w", path, err)
	}
	var rubric Rubric
	if err := yaml.Unmarshal(data, &rubric); err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("yaml parse failed: %v", err)}
	}
	applyTextDefaults(&rubric)
	if err := rubric.Validate(); err != nil {
		return nil, err
	}
	return &rubric, nil
}

// LoadRubricHJSON reads a rubric from an Hjson file (comments and unquoted
// keys allowed) and validates it.
func LoadRubricHJSON(path string) (*Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rubric %s: %w", path, err)
	}
	var rubric Rubric
	if err := hjson.Unmarshal(data, &rubric); err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("hjson parse failed: %v", err)}
	}
	applyTextDefaults(&rubric)
	if err := rubric.Validate(); err != nil {
		return nil, err
	}
	return &rubric, nil
}

// applyTextDefaults fills the strength/weakness cutoffs when a config file
// omits them.
func applyTextDefaults(r *Rubric) {
	if r.StrengthThreshold == 0 && r.WeaknessThreshold == 0 {
		r.StrengthThreshold = 90
		r.WeaknessThreshold = 40
	}
}
