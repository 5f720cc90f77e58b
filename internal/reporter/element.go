package reporter

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// fragmentContext lets table parts such as <td> parse as elements.
var fragmentContext = &html.Node{Type: html.ElementNode, Data: "template", DataAtom: atom.Template}

// ElementLabel shortens a node's HTML snippet to tag#id.class form. Snippets
// that hold no element come back trimmed and truncated.
func ElementLabel(snippet string) string {
	nodes, err := html.ParseFragment(strings.NewReader(snippet), fragmentContext)
	if err == nil {
		for _, n := range nodes {
			if n.Type != html.ElementNode {
				continue
			}
			return selectionLabel(goquery.NewDocumentFromNode(n).Selection)
		}
	}
	return truncate(strings.Join(strings.Fields(snippet), " "), MaxElementLabelLength)
}

func selectionLabel(sel *goquery.Selection) string {
	var b strings.Builder
	b.WriteString(goquery.NodeName(sel))

	if id, ok := sel.Attr("id"); ok && strings.TrimSpace(id) != "" {
		b.WriteString("#")
		b.WriteString(strings.TrimSpace(id))
	}
	for _, class := range strings.Fields(sel.AttrOr("class", "")) {
		b.WriteString(".")
		b.WriteString(class)
	}

	return truncate(b.String(), MaxElementLabelLength)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}
