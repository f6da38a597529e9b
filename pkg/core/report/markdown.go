// Package report renders an analysis Result into a deterministic Markdown
// summary. The output is assembled from fixed templates over the result
// fields; rendering the same Result twice yields identical bytes.
package report

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"

	"caiwu_agent/pkg/core/metric"
	"caiwu_agent/pkg/core/pipeline"
	"caiwu_agent/pkg/core/trend"
)

// directionCN maps trend directions to report captions.
var directionCN = map[trend.Direction]string{
	trend.Rising:  "上升",
	trend.Falling: "下降",
	trend.Flat:    "平稳",
}

// trendNamesCN maps tracked quantity names to report captions.
var trendNamesCN = map[string]string{
	"revenue":             "营业收入",
	"net_profit":          "净利润",
	"operating_cash_flow": "经营活动现金流净额",
}

// Render builds the full Markdown report for one analysis result.
func Render(r *pipeline.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s（%s）财务分析报告\n\n", r.StockName, r.StockCode)
	fmt.Fprintf(&b, "报告期：%s｜金额单位：%s\n\n", lastPeriod(r), r.Unit)

	writeHealthSection(&b, r)
	writeRatioSection(&b, r)
	writeTrendSection(&b, r)
	writeIndustrySection(&b, r)
	writeWarningSection(&b, r)

	return b.String()
}

func lastPeriod(r *pipeline.Result) string {
	if len(r.Periods) == 0 {
		return "-"
	}
	return r.Periods[len(r.Periods)-1]
}

func writeHealthSection(b *strings.Builder, r *pipeline.Result) {
	h := r.Health
	if h == nil {
		return
	}

	b.WriteString("## 财务健康评分\n\n")
	fmt.Fprintf(b, "**综合得分：%.1f / 100**｜风险等级：%s\n\n", h.OverallScore, h.RiskLevel)

	b.WriteString("| 维度 | 得分 | 权重 | 有效权重 |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, d := range h.Dimensions {
		fmt.Fprintf(b, "| %s | %s | %.0f%% | %.1f%% |\n",
			d.Dimension.DisplayName(), fmtMetric(d.Score), d.Weight, d.EffectiveWeight)
	}
	b.WriteString("\n")

	writeList(b, "优势", h.Strengths)
	writeList(b, "薄弱环节", h.Weaknesses)
	writeList(b, "关注建议", h.Recommendations)
}

func writeRatioSection(b *strings.Builder, r *pipeline.Result) {
	rs := r.Ratios
	if rs == nil {
		return
	}

	b.WriteString("## 核心财务比率\n\n")
	b.WriteString("| 指标 | 数值 |\n")
	b.WriteString("| --- | --- |\n")
	rows := []struct {
		label string
		value metric.Metric
		pct   bool
	}{
		{"净利率", rs.NetProfitMargin, true},
		{"毛利率", rs.GrossMargin, true},
		{"净资产收益率(ROE)", rs.ROE, true},
		{"总资产收益率(ROA)", rs.ROA, true},
		{"资产负债率", rs.DebtRatio, true},
		{"流动比率", rs.CurrentRatio, false},
		{"速动比率", rs.QuickRatio, false},
		{"总资产周转率", rs.AssetTurnover, false},
		{"权益乘数", rs.EquityMultiplier, false},
		{"现金流/净利润比", rs.OCFToNetProfit, true},
	}
	for _, row := range rows {
		if row.pct {
			fmt.Fprintf(b, "| %s | %s |\n", row.label, fmtPercent(row.value))
		} else {
			fmt.Fprintf(b, "| %s | %s |\n", row.label, fmtMetric(row.value))
		}
	}
	b.WriteString("\n")

	d := rs.DuPont
	if d.ROE.Available {
		b.WriteString("### 杜邦分解\n\n")
		fmt.Fprintf(b, "ROE %s = 净利率 %s × 总资产周转率 %s × 权益乘数 %s\n\n",
			fmtPercent(d.ROE), fmtPercent(d.NetMargin), fmtMetric(d.AssetTurnover), fmtMetric(d.EquityMultiplier))
	}
}

func writeTrendSection(b *strings.Builder, r *pipeline.Result) {
	if len(r.Trends) == 0 {
		return
	}

	b.WriteString("## 趋势分析\n\n")
	b.WriteString("| 指标 | 复合增速 | 绝对变化 | 趋势 |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, t := range r.Trends {
		name := trendNamesCN[t.Name]
		if name == "" {
			name = t.Name
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			name, fmtPercent(t.CAGRPct.Round2()), fmtMetric(t.AbsoluteChange), directionCN[t.Direction])
	}
	b.WriteString("\n")

	for _, t := range r.Trends {
		if t.Clamped {
			fmt.Fprintf(b, "> 注：数据不足，趋势窗口缩短为 %d 期。\n\n", t.Window)
			break
		}
	}
}

func writeIndustrySection(b *strings.Builder, r *pipeline.Result) {
	ind := r.Industry
	if ind == nil {
		return
	}

	b.WriteString("## 行业对比\n\n")
	fmt.Fprintf(b, "所属行业：%s（%s）｜行业调整得分：%.2f｜风险等级：%s\n\n",
		ind.IndustryName, ind.IndustryEN, ind.NormalizedScore, ind.RiskLevel)

	if len(ind.Comparisons) > 0 {
		b.WriteString("| 指标 | 公司值 | 行业理想值 | 偏离 | 状态 |\n")
		b.WriteString("| --- | --- | --- | --- | --- |\n")
		for _, c := range ind.Comparisons {
			fmt.Fprintf(b, "| %s | %.2f | %.2f | %.2f%% | %s |\n",
				c.Name, c.CompanyValue, c.IndustryIdeal, c.DifferencePct, c.StatusCN)
		}
		b.WriteString("\n")
	}

	writeList(b, "行业调整说明", ind.AdjustmentNotes)
	writeList(b, "行业视角建议", ind.Recommendations)
}

func writeWarningSection(b *strings.Builder, r *pipeline.Result) {
	writeList(b, "数据质量提示", r.Warnings)
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func fmtMetric(m metric.Metric) string {
	if !m.Available {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", m.Value)
}

func fmtPercent(m metric.Metric) string {
	if !m.Available {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", m.Value)
}

// Clean strips outer code-block fences from a Markdown report before it is
// stored or displayed.
func Clean(input string) string {
	cleaned := strings.TrimSpace(input)
	if strings.HasPrefix(cleaned, "```markdown") && strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```markdown")
		cleaned = strings.TrimSuffix(cleaned, "```")
		return strings.TrimSpace(cleaned)
	}
	if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		return strings.TrimSpace(cleaned)
	}
	return cleaned
}

// Validate parses the Markdown with Goldmark. Goldmark is permissive, so
// this only rejects input the parser cannot form a document from at all.
func Validate(input string) bool {
	parser := goldmark.DefaultParser()
	reader := text.NewReader([]byte(input))
	return parser.Parse(reader) != nil
}
