package auditor

import (
	"testing"

	"github.com/aleister1102/axeaudit/internal/axe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTags(t *testing.T) {
	tags, err := ParseTags([]byte(` ["wcag2a", "best-practice"] `))
	require.NoError(t, err)
	assert.Equal(t, []string{"wcag2a", "best-practice"}, tags)

	tags, err = ParseTags([]byte(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, tags)
	assert.Empty(t, tags)

	for _, bad := range []string{`{"best-practice":"best-practice"}`, `"wcag2a"`, `null`, ``, `[1,2]`} {
		_, err := ParseTags([]byte(bad))
		assert.ErrorIs(t, err, ErrTagsNotList, bad)
		assert.NotErrorIs(t, err, ErrAudit)
	}
}

func TestParseRuleTags(t *testing.T) {
	for _, none := range []string{``, `  `, `null`} {
		tags, err := ParseRuleTags([]byte(none))
		require.NoError(t, err)
		assert.Nil(t, tags)
	}

	tags, err := ParseRuleTags([]byte(`["wcag2a"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"wcag2a"}, tags)

	_, err = ParseRuleTags([]byte(`{"wcag2a":"wcag2a"}`))
	assert.ErrorIs(t, err, ErrRulesTagsNotList)
}

func TestParseSelectors(t *testing.T) {
	selectors, err := ParseSelectors([]byte(`[{"include":["#snippet-preview"],"exclude":[["iframe","#ad"]]}]`))
	require.NoError(t, err)
	require.Len(t, selectors, 1)
	assert.Equal(t, []any{"#snippet-preview"}, selectors[0].Include)
	assert.Equal(t, []any{[]any{"iframe", "#ad"}}, selectors[0].Exclude)

	for _, bad := range []string{`{"include":["#snippet-preview"]}`, `[]`, `"#main"`, `[1]`} {
		_, err := ParseSelectors([]byte(bad))
		assert.ErrorIs(t, err, ErrContextNotList, bad)
	}
}

func TestParseConfiguration(t *testing.T) {
	spec, err := ParseConfiguration([]byte(`{"reporter":"v1","branding":{"brand":"axeaudit"}}`))
	require.NoError(t, err)
	assert.Equal(t, "v1", spec["reporter"])

	for _, bad := range []string{`[{"reporter":{"reporter":"v1"}}]`, `"v1"`, `null`, `{`} {
		_, err := ParseConfiguration([]byte(bad))
		assert.ErrorIs(t, err, ErrConfigNotObject, bad)
	}
}

func TestParsedSelectorsFeedAnalyzeWithContext(t *testing.T) {
	selectors, err := ParseSelectors([]byte(`[{"include":["#main"]}]`))
	require.NoError(t, err)

	req := Request{Kind: axe.KindContext, Selectors: selectors}
	require.NoError(t, req.validate())
	arg, async := req.argument()
	assert.True(t, async)
	assert.Equal(t, selectors[0], arg)
}
