// Package industry scores a company's metrics against A-share industry
// benchmarks: per-industry ideal ranges, classification from SW industry /
// stock code / company name, and special-rule adjustments.
package industry

// MetricBenchmark defines the acceptable range and ideal value of one metric
// within an industry, plus its weight in the industry score.
type MetricBenchmark struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Ideal  float64 `json:"ideal"`
	Weight float64 `json:"weight"`
}

// SpecialRules flags industry quirks that adjust or annotate the score.
type SpecialRules struct {
	// HighDebtTolerance marks industries where debt ratios above 70% are
	// normal (construction, real estate) and only noted, not penalized twice.
	HighDebtTolerance bool `json:"high_debt_tolerance"`
	// CashFlowCritical applies a x0.8 penalty when OCF/net-profit falls
	// below 0.5.
	CashFlowCritical bool `json:"cash_flow_critical"`
	// HighRDBonus applies a x1.1 bonus when the R&D expense ratio beats 15%.
	HighRDBonus bool `json:"high_rd_bonus"`
}

// Benchmark describes one industry's scoring profile.
type Benchmark struct {
	ID          string                     `json:"id"`
	Name        string                     `json:"name"`
	NameEN      string                     `json:"name_en"`
	Description string                     `json:"description"`
	Keywords    []string                   `json:"keywords"`
	CodePrefix  []string                   `json:"code_prefixes,omitempty"`
	Metrics     map[string]MetricBenchmark `json:"metrics"`
	Rules       SpecialRules               `json:"special_rules"`
}

// DefaultIndustryID is assumed when no classification signal matches.
const DefaultIndustryID = "manufacturing"

// benchmarks holds the twelve A-share industry profiles.
var benchmarks = map[string]Benchmark{
	"technology": {
		ID: "technology", Name: "高科技", NameEN: "Technology",
		Description: "软件、半导体、人工智能、云计算等",
		Keywords:    []string{"软件", "半导体", "芯片", "人工智能", "云计算", "互联网", "电子", "计算机", "通信设备"},
		CodePrefix:  []string{"688", "300"},
		Metrics: map[string]MetricBenchmark{
			"gross_margin":   {Min: 40, Max: 70, Ideal: 55, Weight: 0.15},
			"net_margin":     {Min: 10, Max: 35, Ideal: 22, Weight: 0.15},
			"roe":            {Min: 10, Max: 30, Ideal: 18, Weight: 0.25},
			"roa":            {Min: 5, Max: 18, Ideal: 12, Weight: 0.10},
			"debt_ratio":     {Min: 15, Max: 50, Ideal: 30, Weight: 0.10},
			"asset_turnover": {Min: 0.4, Max: 1.2, Ideal: 0.8, Weight: 0.10},
			"rd_ratio":       {Min: 3, Max: 25, Ideal: 12, Weight: 0.15},
		},
		Rules: SpecialRules{HighRDBonus: true},
	},
	"manufacturing": {
		ID: "manufacturing", Name: "制造业", NameEN: "Manufacturing",
		Description: "机械、设备、汽车、家电、零部件等",
		Keywords:    []string{"制造", "机械", "设备", "汽车", "家电", "零部件", "装备", "工业"},
		Metrics: map[string]MetricBenchmark{
			"gross_margin":   {Min: 12, Max: 35, Ideal: 22, Weight: 0.20},
			"net_margin":     {Min: 4, Max: 15, Ideal: 8, Weight: 0.20},
			"roe":            {Min: 6, Max: 20, Ideal: 12, Weight: 0.25},
			"roa":            {Min: 3, Max: 12, Ideal: 7, Weight: 0.10},
			"debt_ratio":     {Min: 30, Max: 65, Ideal: 45, Weight: 0.15},
			"asset_turnover": {Min: 0.5, Max: 1.8, Ideal: 1.0, Weight: 0.10},
		},
	},
	"construction": {
		ID: "construction", Name: "建筑", NameEN: "Construction",
		Description: "建筑、工程、基建、房建、装修等",
		Keywords:    []string{"建筑", "工程", "基建", "房建", "装修", "园林", "装饰", "施工"},
		Metrics: map[string]MetricBenchmark{
			"gross_margin":   {Min: 6, Max: 15, Ideal: 10, Weight: 0.15},
			"net_margin":     {Min: 1.5, Max: 5, Ideal: 3, Weight: 0.20},
			"roe":            {Min: 6, Max: 18, Ideal: 12, Weight: 0.25},
			"roa":            {Min: 1, Max: 5, Ideal: 2.5, Weight: 0.10},
			"debt_ratio":     {Min: 65, Max: 85, Ideal: 75, Weight: 0.10},
			"asset_turnover": {Min: 0.25, Max: 0.7, Ideal: 0.45, Weight: 0.10},
			"ocf_to_np":      {Min: 50, Max: 150, Ideal: 90, Weight: 0.10},
		},
		Rules: SpecialRules{HighDebtTolerance: true, CashFlowCritical: true},
	},
	"retail": {
		ID: "retail", Name: "零售", NameEN: "Retail",
		Description: "零售、商贸、百货、超市、电商、贸易等",
		Keywords:    []string{"零售", "商贸", "百货", "超市", "电商", "贸易", "销售", "连锁"},
		Metrics: map[string]MetricBenchmark{
			"gross_margin":   {Min: 12, Max: 40, Ideal: 25, Weight: 0.15},
			"net_margin":     {Min: 2, Max: 10, Ideal: 5, Weight: 0.20},
			"roe":            {Min: 8, Max: 25, Ideal: 15, Weight: 0.25},
			"roa":            {Min: 4, Max: 15, Ideal: 8, Weight: 0.10},
			"debt_ratio":     {Min: 35, Max: 70, Ideal: 50, Weight: 0.10},
			"asset_turnover": {Min: 1.2, Max: 4.0, Ideal: 2.5, Weight: 0.20},
		},
	},
	"finance": {
		ID: "finance", Name: "金融", NameEN: "Finance",
		Description: "银行、证券、保险、信托、租赁等",
		Keywords:    []string{"银行", "证券", "保险", "信托", "租赁", "金融", "投资"},
		Metrics: map[string]MetricBenchmark{
			"roe":            {Min: 8, Max: 22, Ideal: 14, Weight: 0.35},
			"roa":            {Min: 0.5, Max: 1.5, Ideal: 1.0, Weight: 0.20},
			"debt_ratio":     {Min: 85, Max: 96, Ideal: 91, Weight: 0.05},
			"net_margin":     {Min: 20, Max: 50, Ideal: 35, Weight: 0.25},
			"cost_to_income": {Min: 25, Max: 45, Ideal: 32, Weight: 0.15},
		},
		Rules: SpecialRules{HighDebtTolerance: true},
	},
	"real_estate": {
		ID: "real_estate", Name: "房地产", NameEN: "Real Estate",
		Description: "房地产开发、经营、物业、园区等",
		Keywords:    []string{"房地产", "地产", "物业", "园区", "置业", "开发"},
		Metrics: map[string]MetricBenchmark{
			"gross_margin":   {Min: 18, Max: 45, Ideal: 30, Weight: 0.15},
			"net_margin":     {Min: 6, Max: 18, Ideal: 11, Weight: 0.20},
			"roe":            {Min: 6, Max: 22, Ideal: 13, Weight: 0.25},
			"roa":            {Min: 2, Max: 8, Ideal: 4, Weight: 0.10},
			"debt_ratio":     {Min: 55, Max: 88, Ideal: 72, Weight: 0.15},
			"asset_turnover": {Min: 0.15, Max: 0.5, Ideal: 0.3, Weight: 0.10},
			"ocf_to_np":      {Min: 30, Max: 150, Ideal: 80, Weight: 0.05},
		},
		Rules: SpecialRules{HighDebtTolerance: true, CashFlowCritical: true},
	},
	"consumer": {
		ID: "consumer", Name: "消费品", NameEN: "Consumer Goods",
		Description: "食品、饮料、白酒、医药、纺织、日化等",
		Keywords:    []string{"食品", "饮料", "白酒", "医药", "纺织", "服装", "日化", "化妆品", "调味品"},
		Metrics: map[string]MetricBenchmark{
			"gross_margin":   {Min: 25, Max: 70, Ideal: 50, Weight: 0.20},
			"net_margin":     {Min: 8, Max: 30, Ideal: 18, Weight: 0.20},
			"roe":            {Min: 12, Max: 35, Ideal: 22, Weight: 0.30},
			"roa":            {Min: 6, Max: 20, Ideal: 12, Weight: 0.10},
			"debt_ratio":     {Min: 15, Max: 50, Ideal: 28, Weight: 0.10},
			"asset_turnover": {Min: 0.4, Max: 1.2, Ideal: 0.75, Weight: 0.10},
		},
	},
	"energy": {
		ID: "energy", Name: "能源", NameEN: "Energy",
		Description: "石油、天然气、煤炭、电力、新能源等",
		Keywords:    []string{"石油", "天然气", "煤炭", "电力", "新能源", "光伏", "风电", "核电", "采掘"},
		Metrics: map[string]MetricBenchmark{
			"gross_margin":   {Min: 12, Max: 40, Ideal: 25, Weight: 0.15},
			"net_margin":     {Min: 4, Max: 18, Ideal: 10, Weight: 0.20},
			"roe":            {Min: 5, Max: 16, Ideal: 10, Weight: 0.25},
			"roa":            {Min: 2, Max: 10, Ideal: 5, Weight: 0.10},
			"debt_ratio":     {Min: 35, Max: 75, Ideal: 55, Weight: 0.15},
			"asset_turnover": {Min: 0.25, Max: 0.9, Ideal: 0.55, Weight: 0.15},
		},
	},
	"utilities": {
		ID: "utilities", Name: "公用事业", NameEN: "Utilities",
		Description: "水务、燃气、供热、环保、污水处理等",
		Keywords:    []string{"水务", "燃气", "供热", "环保", "污水", "固废", "环境"},
		Metrics: map[string]MetricBenchmark{
			"gross_margin":   {Min: 20, Max: 50, Ideal: 35, Weight: 0.15},
			"net_margin":     {Min: 6, Max: 20, Ideal: 13, Weight: 0.20},
			"roe":            {Min: 5, Max: 14, Ideal: 9, Weight: 0.30},
			"roa":            {Min: 2, Max: 8, Ideal: 4, Weight: 0.10},
			"debt_ratio":     {Min: 45, Max: 80, Ideal: 62, Weight: 0.15},
			"asset_turnover": {Min: 0.2, Max: 0.7, Ideal: 0.4, Weight: 0.10},
		},
	},
	"telecom": {
		ID: "telecom", Name: "通信", NameEN: "Telecommunications",
		Description: "电信、移动、联通、通信设备等",
		Keywords:    []string{"电信", "移动", "联通", "通信", "5G", "基站", "光纤"},
		Metrics: map[string]MetricBenchmark{
			"gross_margin":   {Min: 25, Max: 60, Ideal: 42, Weight: 0.15},
			"net_margin":     {Min: 8, Max: 22, Ideal: 15, Weight: 0.20},
			"roe":            {Min: 6, Max: 18, Ideal: 12, Weight: 0.30},
			"roa":            {Min: 3, Max: 10, Ideal: 6, Weight: 0.10},
			"debt_ratio":     {Min: 30, Max: 65, Ideal: 45, Weight: 0.15},
			"asset_turnover": {Min: 0.35, Max: 1.0, Ideal: 0.6, Weight: 0.10},
		},
	},
	"transportation": {
		ID: "transportation", Name: "交通运输", NameEN: "Transportation",
		Description: "航空、机场、港口、航运、物流、快递等",
		Keywords:    []string{"航空", "机场", "港口", "航运", "物流", "快递", "铁路", "交通"},
		Metrics: map[string]MetricBenchmark{
			"gross_margin":   {Min: 12, Max: 40, Ideal: 25, Weight: 0.15},
			"net_margin":     {Min: 4, Max: 16, Ideal: 10, Weight: 0.20},
			"roe":            {Min: 5, Max: 16, Ideal: 10, Weight: 0.25},
			"roa":            {Min: 2, Max: 10, Ideal: 5, Weight: 0.10},
			"debt_ratio":     {Min: 35, Max: 75, Ideal: 55, Weight: 0.15},
			"asset_turnover": {Min: 0.25, Max: 0.9, Ideal: 0.55, Weight: 0.15},
		},
	},
	"materials": {
		ID: "materials", Name: "原材料", NameEN: "Materials",
		Description: "钢铁、有色金属、化工、建材、造纸等",
		Keywords:    []string{"钢铁", "有色金属", "化工", "建材", "造纸", "玻璃", "水泥", "金属"},
		Metrics: map[string]MetricBenchmark{
			"gross_margin":   {Min: 8, Max: 30, Ideal: 17, Weight: 0.15},
			"net_margin":     {Min: 2, Max: 12, Ideal: 6, Weight: 0.20},
			"roe":            {Min: 4, Max: 18, Ideal: 10, Weight: 0.25},
			"roa":            {Min: 2, Max: 10, Ideal: 5, Weight: 0.10},
			"debt_ratio":     {Min: 35, Max: 75, Ideal: 55, Weight: 0.15},
			"asset_turnover": {Min: 0.4, Max: 1.5, Ideal: 0.85, Weight: 0.15},
		},
	},
}

// swIndustryMapping maps SW (申万) level-1 industry names onto benchmark IDs.
var swIndustryMapping = map[string]string{
	"银行": "finance", "非银金融": "finance",
	"房地产": "real_estate", "建筑装饰": "construction", "建筑材料": "materials",
	"钢铁": "materials", "有色金属": "materials", "化工": "materials",
	"基础化工": "materials", "煤炭": "materials",
	"石油石化": "energy", "电力设备": "energy",
	"公用事业": "utilities",
	"交通运输": "transportation",
	"汽车": "manufacturing", "机械设备": "manufacturing", "国防军工": "manufacturing",
	"电气设备": "manufacturing", "综合": "manufacturing",
	"电子": "technology", "计算机": "technology", "传媒": "technology",
	"通信": "telecom",
	"食品饮料": "consumer", "家用电器": "consumer", "纺织服饰": "consumer",
	"轻工制造": "consumer", "医药生物": "consumer", "美容护理": "consumer",
	"社会服务": "consumer", "农林牧渔": "consumer",
	"商贸零售": "retail",
}

// Lookup returns the benchmark for an industry ID, falling back to the
// default industry.
func Lookup(id string) Benchmark {
	if b, ok := benchmarks[id]; ok {
		return b
	}
	return benchmarks[DefaultIndustryID]
}

// AllIndustryIDs lists the known industry IDs (unordered).
func AllIndustryIDs() []string {
	ids := make([]string, 0, len(benchmarks))
	for id := range benchmarks {
		ids = append(ids, id)
	}
	return ids
}

// metricNamesCN maps benchmark metric names to display captions.
var metricNamesCN = map[string]string{
	"gross_margin":   "毛利率",
	"net_margin":     "净利率",
	"roe":            "净资产收益率(ROE)",
	"roa":            "总资产收益率(ROA)",
	"debt_ratio":     "资产负债率",
	"asset_turnover": "总资产周转率",
	"ocf_to_np":      "现金流/净利润比",
	"rd_ratio":       "研发费用率",
	"cost_to_income": "成本收入比",
}

// ratioAliases maps benchmark metric names to RatioSet names where they
// differ.
var ratioAliases = map[string]string{
	"net_margin": "net_profit_margin",
}
