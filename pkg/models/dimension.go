package models

// Dimension is one of the five weighted categories of the composite health
// score. The keys are fixed vocabulary: downstream report templates depend on
// them and they must not be renamed.
type Dimension string

const (
	Profitability Dimension = "profitability"
	Solvency      Dimension = "solvency"
	Efficiency    Dimension = "efficiency"
	Growth        Dimension = "growth"
	CashFlow      Dimension = "cash_flow_quality"
)

// AllDimensions lists the dimensions in declaration order. Recommendation
// ordering and report layout follow this order.
var AllDimensions = []Dimension{Profitability, Solvency, Efficiency, Growth, CashFlow}

// dimensionNamesCN maps each dimension to its Chinese display name, matching
// the vocabulary of the generated assessment text.
var dimensionNamesCN = map[Dimension]string{
	Profitability: "盈利能力",
	Solvency:      "偿债能力",
	Efficiency:    "运营效率",
	Growth:        "成长能力",
	CashFlow:      "现金流质量",
}

// DisplayName returns the Chinese display name for the dimension.
func (d Dimension) DisplayName() string {
	if name, ok := dimensionNamesCN[d]; ok {
		return name
	}
	return string(d)
}

// Valid reports whether d is one of the five fixed dimensions.
func (d Dimension) Valid() bool {
	_, ok := dimensionNamesCN[d]
	return ok
}
