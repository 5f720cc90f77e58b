// Package axe models the axe-core result tree, flattens it into findings
// and loads the engine script that gets injected into audited pages.
package axe

import "encoding/json"

// Results is the subset of an axe.run() result this package reads.
// Violations is a pointer so an absent field can be told apart from an empty list.
type Results struct {
	Violations *[]Violation `json:"violations"`
	URL        string       `json:"url,omitempty"`
	Timestamp  string       `json:"timestamp,omitempty"`
	// Error is set by the async run wrapper when axe reported a callback error.
	Error string `json:"error,omitempty"`
}

type Violation struct {
	ID          string   `json:"id"`
	Impact      string   `json:"impact,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"description"`
	Help        string   `json:"help"`
	HelpURL     string   `json:"helpUrl"`
	Nodes       []Node   `json:"nodes"`
}

// Node is one DOM element implicated in a violation.
type Node struct {
	Any            []CheckResult   `json:"any"`
	All            []CheckResult   `json:"all"`
	None           []CheckResult   `json:"none"`
	Impact         string          `json:"impact,omitempty"`
	HTML           string          `json:"html"`
	Target         json.RawMessage `json:"target"`
	FailureSummary string          `json:"failureSummary,omitempty"`
}

type CheckResult struct {
	ID      string `json:"id"`
	Impact  string `json:"impact,omitempty"`
	Message string `json:"message"`
}

// Finding is the flattened, consumer facing record: one per (violation, node) pair.
type Finding struct {
	ID             string `json:"id"`
	Impact         string `json:"impact,omitempty"`
	Description    string `json:"description"`
	Help           string `json:"help"`
	HelpURL        string `json:"helpUrl"`
	Message        string `json:"message,omitempty"`
	FailureSummary string `json:"failureSummary,omitempty"`
	HTML           string `json:"html,omitempty"`
	Target         string `json:"target,omitempty"`
	PageURL        string `json:"pageUrl"`
	PageTitle      string `json:"pageTitle"`
}

// Outcome is what an audit call hands back: findings, or a notice when there are none.
type Outcome struct {
	Findings []Finding `json:"findings,omitempty"`
	Message  string    `json:"message,omitempty"`
}

// HasFindings reports whether the audit produced at least one finding.
func (o Outcome) HasFindings() bool {
	return len(o.Findings) > 0
}

// Rule is an entry of the engine rule catalog, passed through untouched.
type Rule struct {
	RuleID      string   `json:"ruleId"`
	Description string   `json:"description"`
	Help        string   `json:"help"`
	HelpURL     string   `json:"helpUrl"`
	Tags        []string `json:"tags"`
}

// Selector scopes a run to part of the page. Entries are CSS selectors or,
// for frames, nested selector arrays.
type Selector struct {
	Include []any `json:"include,omitempty"`
	Exclude []any `json:"exclude,omitempty"`
}

// PageInfo identifies the audited page.
type PageInfo struct {
	URL   string
	Title string
}
