package axe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// CallKind says which public operation produced a result. It selects the
// notice wording and whether a check message is carried.
type CallKind int

const (
	KindUnknown CallKind = iota
	KindViolations
	KindBestPractice
	KindTags
	KindContext
)

func (k CallKind) String() string {
	switch k {
	case KindViolations:
		return "violations"
	case KindBestPractice:
		return "best-practice"
	case KindTags:
		return "analyze-with-tags"
	case KindContext:
		return "analyze-with-context"
	default:
		return "unknown"
	}
}

// includesMessage is false for the calls whose findings never carry a check message.
func (k CallKind) includesMessage() bool {
	return k != KindBestPractice && k != KindTags
}

// ErrMalformedResults is returned when the engine output lacks the violations list.
var ErrMalformedResults = errors.New("malformed axe results")

// NoFindingsMessage returns the notice for a page without findings.
func NoFindingsMessage(kind CallKind, pageURL string) string {
	switch kind {
	case KindViolations, KindTags, KindContext:
		return fmt.Sprintf("No Violations found in this page \"%s\"", pageURL)
	case KindBestPractice:
		return fmt.Sprintf("Page (\"%s\") is aligned with best practice standards.", pageURL)
	default:
		return ""
	}
}

// DecodeResults parses raw axe.run() output.
func DecodeResults(raw []byte) (*Results, error) {
	var res Results
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResults, err)
	}
	return &res, nil
}

// Reshape flattens res into one finding per (violation, node) pair, stamped
// with page. With no violations it returns the notice for kind instead.
// res is not modified.
func Reshape(res *Results, page PageInfo, kind CallKind) (Outcome, error) {
	if res == nil {
		return Outcome{}, fmt.Errorf("%w: no result", ErrMalformedResults)
	}
	if res.Error != "" {
		return Outcome{}, fmt.Errorf("%w: engine error: %s", ErrMalformedResults, res.Error)
	}
	if res.Violations == nil {
		return Outcome{}, fmt.Errorf("%w: missing violations", ErrMalformedResults)
	}

	violations := *res.Violations
	if len(violations) == 0 {
		return Outcome{Message: NoFindingsMessage(kind, page.URL)}, nil
	}

	findings := make([]Finding, 0, len(violations))
	for _, v := range violations {
		base := Finding{
			ID:          v.ID,
			Impact:      v.Impact,
			Description: v.Description,
			Help:        v.Help,
			HelpURL:     v.HelpURL,
			PageURL:     page.URL,
			PageTitle:   page.Title,
		}

		if len(v.Nodes) == 0 {
			findings = append(findings, base)
			continue
		}

		for _, n := range v.Nodes {
			f := base
			if kind.includesMessage() && len(n.Any) > 0 {
				f.Message = n.Any[0].Message
			}
			if f.Impact == "" {
				f.Impact = n.Impact
			}
			f.FailureSummary = n.FailureSummary
			f.HTML = n.HTML
			target, err := stringifyTarget(n.Target)
			if err != nil {
				return Outcome{}, fmt.Errorf("%w: rule %s: %v", ErrMalformedResults, v.ID, err)
			}
			f.Target = target
			findings = append(findings, f)
		}
	}

	return Outcome{Findings: findings}, nil
}

// stringifyTarget renders the selector path compactly, e.g. ["#main","a"].
func stringifyTarget(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
