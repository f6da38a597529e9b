package health

import (
	"fmt"

	"caiwu_agent/pkg/models"
)

// indicatorNamesCN maps rubric indicator names to the Chinese captions used
// in the generated text.
var indicatorNamesCN = map[string]string{
	"roe":                      "净资产收益率(ROE)",
	"roa":                      "总资产收益率(ROA)",
	"net_profit_margin":        "净利率",
	"gross_margin":             "毛利率",
	"debt_ratio":               "资产负债率",
	"current_ratio":            "流动比率",
	"quick_ratio":              "速动比率",
	"asset_turnover":           "总资产周转率",
	"equity_multiplier":        "权益乘数",
	"ocf_to_np":                "现金流/净利润比",
	"revenue_cagr":             "营收复合增速",
	"net_profit_cagr":          "净利润复合增速",
	"operating_cash_flow_cagr": "经营现金流复合增速",
}

// recommendationsCN holds one templated recommendation per dimension, emitted
// when the dimension contributed at least one weakness.
var recommendationsCN = map[models.Dimension]string{
	models.Profitability: "盈利能力偏弱，建议关注成本结构与产品定价能力的改善情况。",
	models.Solvency:      "负债水平需要警惕，建议关注偿债压力与有息负债成本。",
	models.Efficiency:    "资产利用效率偏低，建议关注周转率相关指标的变化趋势。",
	models.Growth:        "成长性不足，建议评估公司的业务扩张策略与行业景气度。",
	models.CashFlow:      "现金流状况不佳，建议重点核查利润的现金含量。",
}

func indicatorCN(name string) string {
	if cn, ok := indicatorNamesCN[name]; ok {
		return cn
	}
	return name
}

// narrate fills the strengths, weaknesses, and recommendations lists from
// the indicator scores. The rules are fixed: score at or above the strength
// threshold names the dimension as a strength; below the weakness threshold
// as a weakness; recommendations are one per distinct weakness dimension in
// declaration order. No randomness anywhere.
func (s *Scorer) narrate(a *Assessment) {
	weakDimensions := make(map[models.Dimension]bool)

	for _, ind := range a.Indicators {
		if !ind.Score.Available {
			continue
		}
		switch {
		case ind.Score.Value >= s.rubric.StrengthThreshold:
			a.Strengths = append(a.Strengths,
				fmt.Sprintf("%s优势：%s表现优异", ind.Dimension.DisplayName(), indicatorCN(ind.Name)))
		case ind.Score.Value < s.rubric.WeaknessThreshold:
			a.Weaknesses = append(a.Weaknesses,
				fmt.Sprintf("%s薄弱：%s表现不佳", ind.Dimension.DisplayName(), indicatorCN(ind.Name)))
			weakDimensions[ind.Dimension] = true
		}
	}

	for _, dim := range models.AllDimensions {
		if weakDimensions[dim] {
			a.Recommendations = append(a.Recommendations, recommendationsCN[dim])
		}
	}
}
