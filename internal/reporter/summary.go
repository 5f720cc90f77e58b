package reporter

import (
	"sort"

	"github.com/aleister1102/axeaudit/internal/axe"
)

// RuleCount is the number of findings a single rule produced.
type RuleCount struct {
	RuleID string `json:"ruleId"`
	Impact string `json:"impact"`
	Help   string `json:"help"`
	Count  int    `json:"count"`
}

// Summary aggregates findings by impact and by rule.
type Summary struct {
	Total    int            `json:"total"`
	ByImpact map[string]int `json:"byImpact"`
	Rules    []RuleCount    `json:"rules"`
}

// Summarize counts findings per rule, most severe rules first, then by count.
func Summarize(findings []axe.Finding) Summary {
	summary := Summary{
		Total:    len(findings),
		ByImpact: make(map[string]int),
		Rules:    []RuleCount{},
	}

	index := make(map[string]int)
	for _, f := range findings {
		summary.ByImpact[f.Impact]++

		i, ok := index[f.ID]
		if !ok {
			i = len(summary.Rules)
			index[f.ID] = i
			summary.Rules = append(summary.Rules, RuleCount{RuleID: f.ID, Impact: f.Impact, Help: f.Help})
		}
		summary.Rules[i].Count++
		if ImpactRank(f.Impact) > ImpactRank(summary.Rules[i].Impact) {
			summary.Rules[i].Impact = f.Impact
		}
	}

	sort.SliceStable(summary.Rules, func(a, b int) bool {
		ra, rb := summary.Rules[a], summary.Rules[b]
		if ImpactRank(ra.Impact) != ImpactRank(rb.Impact) {
			return ImpactRank(ra.Impact) > ImpactRank(rb.Impact)
		}
		if ra.Count != rb.Count {
			return ra.Count > rb.Count
		}
		return ra.RuleID < rb.RuleID
	})

	return summary
}

// ImpactRank orders impacts from minor (1) to critical (4); unknown is 0.
func ImpactRank(impact string) int {
	switch impact {
	case ImpactCritical:
		return 4
	case ImpactSerious:
		return 3
	case ImpactModerate:
		return 2
	case ImpactMinor:
		return 1
	default:
		return 0
	}
}

// impactLevels lists the impacts in display order.
var impactLevels = []string{ImpactCritical, ImpactSerious, ImpactModerate, ImpactMinor}
