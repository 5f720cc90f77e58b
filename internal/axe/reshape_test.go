package axe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var loginPage = PageInfo{URL: "https://the-internet.herokuapp.com/login", Title: "The Internet"}

func loadFixture(t *testing.T, name string) *Results {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	res, err := DecodeResults(raw)
	require.NoError(t, err)
	return res
}

func TestReshape_OneFindingPerNode(t *testing.T) {
	res := loadFixture(t, "login_results.json")

	out, err := Reshape(res, loginPage, KindViolations)
	require.NoError(t, err)

	require.Len(t, out.Findings, 3)
	assert.Empty(t, out.Message)
	assert.True(t, out.HasFindings())

	first := out.Findings[0]
	assert.Equal(t, "color-contrast", first.ID)
	assert.Equal(t, "serious", first.Impact)
	assert.Equal(t, "Elements must have sufficient color contrast", first.Help)
	assert.Contains(t, first.Message, "insufficient color contrast of 2.83")
	assert.Equal(t, `<i class="fa fa-2x fa-sign-in"> Login</i>`, first.HTML)
	assert.Equal(t, `["i"]`, first.Target)
	assert.Contains(t, first.FailureSummary, "Fix any of the following")

	second := out.Findings[1]
	assert.Equal(t, "color-contrast", second.ID)
	assert.Equal(t, `["#content > a.button"]`, second.Target)
	assert.Equal(t, "Element has insufficient color contrast of 3.1", second.Message)

	assert.Equal(t, `["iframe#frame","#page-footer"]`, out.Findings[2].Target)

	for _, f := range out.Findings {
		assert.Equal(t, loginPage.URL, f.PageURL)
		assert.Equal(t, loginPage.Title, f.PageTitle)
	}
}

func TestReshape_MessageOmittedByKind(t *testing.T) {
	tests := []struct {
		kind        CallKind
		wantMessage bool
	}{
		{KindViolations, true},
		{KindContext, true},
		{KindBestPractice, false},
		{KindTags, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			out, err := Reshape(loadFixture(t, "login_results.json"), loginPage, tt.kind)
			require.NoError(t, err)
			for _, f := range out.Findings {
				assert.Equal(t, tt.wantMessage, f.Message != "")
				// the html and target survive regardless of kind
				assert.NotEmpty(t, f.HTML)
				assert.NotEmpty(t, f.Target)
			}
		})
	}
}

func TestReshape_DoesNotMutateInput(t *testing.T) {
	res := loadFixture(t, "login_results.json")

	_, err := Reshape(res, loginPage, KindViolations)
	require.NoError(t, err)

	v := (*res.Violations)[0]
	assert.Len(t, v.Nodes, 2)
	assert.NotEmpty(t, v.Tags)
}

func TestReshape_NoViolations(t *testing.T) {
	page := PageInfo{URL: "http://127.0.0.1:5050/", Title: "Clean"}

	tests := []struct {
		kind CallKind
		want string
	}{
		{KindViolations, `No Violations found in this page "http://127.0.0.1:5050/"`},
		{KindTags, `No Violations found in this page "http://127.0.0.1:5050/"`},
		{KindContext, `No Violations found in this page "http://127.0.0.1:5050/"`},
		{KindBestPractice, `Page ("http://127.0.0.1:5050/") is aligned with best practice standards.`},
		{KindUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			out, err := Reshape(loadFixture(t, "clean_results.json"), page, tt.kind)
			require.NoError(t, err)
			assert.False(t, out.HasFindings())
			assert.Equal(t, tt.want, out.Message)
		})
	}
}

func TestReshape_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing violations", `{"passes": []}`},
		{"engine error", `{"error": "axe.run arguments are invalid"}`},
		{"null violations", `{"violations": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := DecodeResults([]byte(tt.raw))
			require.NoError(t, err)

			_, err = Reshape(res, loginPage, KindViolations)
			assert.ErrorIs(t, err, ErrMalformedResults)
		})
	}

	_, err := Reshape(nil, loginPage, KindViolations)
	assert.ErrorIs(t, err, ErrMalformedResults)

	_, err = DecodeResults([]byte(`"not an object"`))
	assert.ErrorIs(t, err, ErrMalformedResults)
}

func TestReshape_ViolationWithoutNodes(t *testing.T) {
	raw := `{"violations":[{"id":"document-title","impact":"serious","description":"d","help":"h","helpUrl":"u","nodes":[]}]}`
	res, err := DecodeResults([]byte(raw))
	require.NoError(t, err)

	out, err := Reshape(res, loginPage, KindViolations)
	require.NoError(t, err)

	require.Len(t, out.Findings, 1)
	assert.Equal(t, "document-title", out.Findings[0].ID)
	assert.Empty(t, out.Findings[0].HTML)
	assert.Empty(t, out.Findings[0].Target)
	assert.Equal(t, loginPage.URL, out.Findings[0].PageURL)
}

func TestReshape_NodeWithoutAnyChecks(t *testing.T) {
	raw := `{"violations":[{"id":"aria-hidden-focus","description":"d","help":"h","helpUrl":"u",
		"nodes":[{"any":[],"all":[],"none":[{"id":"focusable-disabled","message":"Focusable content should be disabled"}],
		"impact":"serious","html":"<div aria-hidden=\"true\">","target":["div"]}]}]}`
	res, err := DecodeResults([]byte(raw))
	require.NoError(t, err)

	out, err := Reshape(res, loginPage, KindViolations)
	require.NoError(t, err)

	require.Len(t, out.Findings, 1)
	assert.Empty(t, out.Findings[0].Message)
	// falls back to the node impact when the violation has none
	assert.Equal(t, "serious", out.Findings[0].Impact)
}
