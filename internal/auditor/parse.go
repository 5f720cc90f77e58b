package auditor

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aleister1102/axeaudit/internal/axe"
)

// The Parse helpers validate caller JSON at the API boundary, where a value of
// the wrong shape (an object for tags, an array for configuration) can occur.

// ParseTags decodes a JSON array of strings for AnalyzeWithTags.
func ParseTags(raw []byte) ([]string, error) {
	tags, err := decodeStringList(raw)
	if err != nil || tags == nil {
		return nil, ErrTagsNotList
	}
	return tags, nil
}

// ParseRuleTags decodes the optional tag filter for Rules. Empty input or null means no filter.
func ParseRuleTags(raw []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	tags, err := decodeStringList(trimmed)
	if err != nil || tags == nil {
		return nil, ErrRulesTagsNotList
	}
	return tags, nil
}

// ParseSelectors decodes a JSON array of context objects, e.g. [{"include":["#main"]}].
func ParseSelectors(raw []byte) ([]axe.Selector, error) {
	trimmed := bytes.TrimSpace(raw)
	if !isJSONKind(trimmed, '[') {
		return nil, ErrContextNotList
	}
	var selectors []axe.Selector
	if err := json.Unmarshal(trimmed, &selectors); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContextNotList, err)
	}
	if len(selectors) == 0 {
		return nil, ErrContextNotList
	}
	return selectors, nil
}

// ParseConfiguration decodes a JSON object for Configure.
func ParseConfiguration(raw []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if !isJSONKind(trimmed, '{') {
		return nil, ErrConfigNotObject
	}
	var spec map[string]any
	if err := json.Unmarshal(trimmed, &spec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigNotObject, err)
	}
	return spec, nil
}

func decodeStringList(raw []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if !isJSONKind(trimmed, '[') {
		return nil, fmt.Errorf("not a JSON array")
	}
	tags := []string{}
	if err := json.Unmarshal(trimmed, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func isJSONKind(raw []byte, open byte) bool {
	return len(raw) > 0 && raw[0] == open
}
