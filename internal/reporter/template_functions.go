package reporter

import (
	"html/template"
	"strings"
	"unicode"
)

// titleCase converts string to title case (replaces deprecated strings.Title)
func titleCase(s string) string {
	if s == "" {
		return s
	}

	words := strings.Fields(strings.ReplaceAll(s, "-", " "))
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		for j := 1; j < len(runes); j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// GetCommonTemplateFunctions returns the functions available to report templates
func GetCommonTemplateFunctions() template.FuncMap {
	return template.FuncMap{
		"title":        titleCase,
		"joinStrings":  strings.Join,
		"elementLabel": ElementLabel,
		"impactClass": func(impact string) string {
			if ImpactRank(impact) == 0 {
				return "impact-unknown"
			}
			return "impact-" + impact
		},
		"inc": func(i int) int {
			return i + 1
		},
	}
}
