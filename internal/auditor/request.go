package auditor

import "github.com/aleister1102/axeaudit/internal/axe"

var (
	// WCAGTags selects the WCAG 2.0 A and AA rules.
	WCAGTags = []string{"wcag2a", "wcag2aa"}
	// BestPracticeTags selects the engine best-practice rules.
	BestPracticeTags = []string{"best-practice"}
)

// Request selects what an audit run scans.
type Request struct {
	Kind axe.CallKind
	// Tags is used by KindTags.
	Tags []string
	// Selectors is used by KindContext; only the first entry scopes the run.
	Selectors []axe.Selector
}

type runOnly struct {
	Type   string   `json:"type"`
	Values []string `json:"values"`
}

type runOptions struct {
	RunOnly runOnly `json:"runOnly"`
}

func tagOptions(tags []string) runOptions {
	return runOptions{RunOnly: runOnly{Type: "tags", Values: tags}}
}

// validate returns an input error for payloads of the wrong shape.
func (r Request) validate() error {
	switch r.Kind {
	case axe.KindTags:
		if r.Tags == nil {
			return ErrTagsNotList
		}
	case axe.KindContext:
		if len(r.Selectors) == 0 {
			return ErrContextNotList
		}
	}
	return nil
}

// argument is the value passed to axe.run, and whether the callback form is used.
func (r Request) argument() (any, bool) {
	switch r.Kind {
	case axe.KindViolations:
		return tagOptions(WCAGTags), false
	case axe.KindBestPractice:
		return tagOptions(BestPracticeTags), false
	case axe.KindTags:
		return tagOptions(r.Tags), true
	case axe.KindContext:
		return r.Selectors[0], true
	default:
		return nil, false
	}
}
