package industry

import (
	"sort"
	"strings"
)

// Classify resolves the industry ID for a stock. Signals are consulted in
// order of reliability: the SW (申万) level-1 industry name, then the stock
// code's board prefix, then keyword hits in the company name. When nothing
// matches the default industry is assumed.
func Classify(stockCode, companyName, swIndustry string) string {
	if swIndustry != "" {
		if id, ok := swIndustryMapping[swIndustry]; ok && id != DefaultIndustryID {
			return id
		}
	}

	if id := classifyByCode(stockCode); id != "" {
		return id
	}

	if companyName != "" {
		if id, _ := classifyByName(companyName); id != "" {
			return id
		}
	}

	return DefaultIndustryID
}

// classifyByCode maps A-share board prefixes onto industries. STAR Market
// (688) and ChiNext (300) listings skew heavily to technology; the Beijing
// exchange (8x/4x) to small manufacturers.
func classifyByCode(stockCode string) string {
	code := strings.TrimSpace(stockCode)
	for len(code) < 6 {
		code = "0" + code
	}

	switch {
	case strings.HasPrefix(code, "688"), strings.HasPrefix(code, "300"):
		return "technology"
	case strings.HasPrefix(code, "8"), strings.HasPrefix(code, "4"):
		return DefaultIndustryID
	}

	for _, b := range benchmarks {
		for _, prefix := range b.CodePrefix {
			if strings.HasPrefix(code, prefix) {
				return b.ID
			}
		}
	}
	return ""
}

// classifyByName picks the industry whose keyword list best matches the
// company name. A keyword that prefixes the whole name counts extra. The
// score is normalized by keyword-list length so keyword-rich industries do
// not dominate. Ties break deterministically by industry ID.
func classifyByName(companyName string) (string, float64) {
	name := strings.ToLower(companyName)

	bestID := ""
	bestScore := 0.0
	for _, id := range sortedIndustryIDs() {
		b := benchmarks[id]
		hits := 0
		for _, kw := range b.Keywords {
			kw = strings.ToLower(kw)
			if strings.Contains(name, kw) {
				hits++
			}
			if name == kw || strings.HasPrefix(name, kw) {
				hits += 2
			}
		}
		if hits == 0 || len(b.Keywords) == 0 {
			continue
		}
		score := float64(hits) / float64(len(b.Keywords))
		if score > bestScore {
			bestID, bestScore = id, score
		}
	}
	return bestID, bestScore
}

func sortedIndustryIDs() []string {
	ids := AllIndustryIDs()
	sort.Strings(ids)
	return ids
}
