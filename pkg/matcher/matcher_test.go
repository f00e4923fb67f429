package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/doccov/pkg/coverage"
	"github.com/agentstation/doccov/pkg/docrefs"
	"github.com/agentstation/doccov/pkg/errors"
	"github.com/agentstation/doccov/pkg/matcher"
)

func ep(method, path string) *coverage.Endpoint {
	return &coverage.Endpoint{Method: method, DeclaredPath: path, ResolvedPath: path, Resolved: true}
}

func ref(file string, line int, mentions ...coverage.Mention) *coverage.DocReference {
	r := &coverage.DocReference{File: file}
	for _, m := range mentions {
		if m.Line == 0 {
			m.Line = line
		}
		r.Add(m, m.Method+" "+m.Path)
	}
	return r
}

func pair(method, path string, shape coverage.Shape) coverage.Mention {
	return coverage.Mention{Method: method, Path: path, Shape: shape}
}

func TestMatchRules(t *testing.T) {
	tests := []struct {
		name   string
		ep     *coverage.Endpoint
		ref    *coverage.DocReference
		score  float64
		rule   string
		status coverage.Status
	}{
		{
			name:   "fenced pair with renamed placeholder",
			ep:     ep("GET", "/users/{user_id}"),
			ref:    ref("api.md", 4, pair("GET", "/users/{id}", coverage.ShapeFenced)),
			score:  1.0,
			rule:   matcher.RulePairStructured,
			status: coverage.StatusDocumented,
		},
		{
			name:   "table pair with colon placeholder",
			ep:     ep("DELETE", "/items/{item_id}"),
			ref:    ref("api.md", 2, pair("delete", "/items/:id/", coverage.ShapeTable)),
			score:  1.0,
			rule:   matcher.RulePairStructured,
			status: coverage.StatusDocumented,
		},
		{
			name:   "inline pair",
			ep:     ep("POST", "/items"),
			ref:    ref("api.md", 1, pair("POST", "/items", coverage.ShapeInline)),
			score:  0.7,
			rule:   matcher.RulePairInline,
			status: coverage.StatusDocumented,
		},
		{
			name:   "bare pair",
			ep:     ep("PUT", "/user"),
			ref:    ref("README.md", 9, pair("PUT", "/user", coverage.ShapeBare)),
			score:  0.7,
			rule:   matcher.RulePairInline,
			status: coverage.StatusDocumented,
		},
		{
			name: "path with method elsewhere",
			ep:   ep("GET", "/items/{id}"),
			ref: ref("guide.md", 3,
				coverage.Mention{Path: "/items/{item_id}", Shape: coverage.ShapeInline},
				coverage.Mention{Method: "GET", Shape: coverage.ShapeInline}),
			score:  0.4,
			rule:   matcher.RulePathOnly,
			status: coverage.StatusAmbiguous,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := matcher.MatchEndpoint(tt.ep, []*coverage.DocReference{tt.ref}, matcher.Options{})
			require.Len(t, res.Matches, 1)
			assert.Equal(t, tt.score, res.Matches[0].Confidence)
			assert.Equal(t, tt.rule, res.Matches[0].Rule)
			assert.Same(t, tt.ref, res.Matches[0].Reference)
			assert.Equal(t, tt.status, res.Status)
		})
	}
}

func TestMatchRejects(t *testing.T) {
	tests := []struct {
		name string
		ep   *coverage.Endpoint
		ref  *coverage.DocReference
	}{
		{
			name: "method never mentioned",
			ep:   ep("GET", "/items"),
			ref:  ref("a.md", 1, coverage.Mention{Path: "/items", Shape: coverage.ShapeInline}),
		},
		{
			name: "different method",
			ep:   ep("GET", "/items"),
			ref:  ref("a.md", 1, pair("POST", "/items", coverage.ShapeFenced)),
		},
		{
			name: "different path",
			ep:   ep("GET", "/items"),
			ref:  ref("a.md", 1, pair("GET", "/items/{id}", coverage.ShapeFenced)),
		},
		{
			name: "filesystem path",
			ep:   ep("GET", "/app"),
			ref:  ref("README.md", 1, pair("GET", "/app", coverage.ShapeBare)),
		},
		{
			name: "file extension",
			ep:   ep("GET", "/docs/index.md"),
			ref:  ref("README.md", 1, pair("GET", "/docs/index.md", coverage.ShapeFenced)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := matcher.MatchEndpoint(tt.ep, []*coverage.DocReference{tt.ref}, matcher.Options{})
			assert.Empty(t, res.Matches)
			assert.NotNil(t, res.Matches)
			assert.Equal(t, coverage.StatusUndocumented, res.Status)
		})
	}
}

func TestMatchSeeAppForDetails(t *testing.T) {
	refs, _ := docrefs.ParseMarkdown("# Deploy\n\nsee /app for details, or `GET /app` in the shell\n", "README.md")
	endpoints := []*coverage.Endpoint{ep("GET", "/app"), ep("GET", "/app/{id}")}
	for _, res := range matcher.Match(endpoints, refs, matcher.Options{}) {
		assert.Equal(t, coverage.StatusUndocumented, res.Status, res.Endpoint.Key())
	}
}

func TestMatchFencedScenarioFromMarkdown(t *testing.T) {
	refs, _ := docrefs.ParseMarkdown("## Users\n\n```\nGET /users/{id}\n```\n", "docs/users.md")
	res := matcher.Match([]*coverage.Endpoint{ep("GET", "/users/{user_id}")}, refs, matcher.Options{})
	require.Len(t, res, 1)
	assert.Equal(t, coverage.StatusDocumented, res[0].Status)
	assert.Equal(t, 1.0, res[0].Best().Confidence)
}

func TestMatchBestRuleWinsWithinReference(t *testing.T) {
	r := ref("api.md", 1,
		pair("GET", "/items", coverage.ShapeBare),
		coverage.Mention{Method: "GET", Path: "/items", Shape: coverage.ShapeTable, Line: 2})
	res := matcher.MatchEndpoint(ep("GET", "/items"), []*coverage.DocReference{r}, matcher.Options{})
	require.Len(t, res.Matches, 1, "a reference matches an endpoint at most once")
	assert.Equal(t, 1.0, res.Matches[0].Confidence)
}

func TestMatchOrdering(t *testing.T) {
	endpoint := ep("GET", "/items")
	refs := []*coverage.DocReference{
		ref("z.md", 1, pair("GET", "/items", coverage.ShapeBare)),
		ref("b.md", 8, pair("GET", "/items", coverage.ShapeFenced)),
		ref("b.md", 2, pair("GET", "/items", coverage.ShapeTable)),
		ref("a.md", 5, pair("GET", "/items/", coverage.ShapeInline)),
	}
	res := matcher.MatchEndpoint(endpoint, refs, matcher.Options{})
	require.Len(t, res.Matches, 4)
	var got []string
	for _, m := range res.Matches {
		got = append(got, m.Reference.Location().String())
	}
	assert.Equal(t, []string{"b.md:2", "b.md:8", "a.md:5", "z.md:1"}, got)
}

func TestMatchThreshold(t *testing.T) {
	r := ref("a.md", 1, pair("GET", "/items", coverage.ShapeInline))
	strict := matcher.MatchEndpoint(ep("GET", "/items"), []*coverage.DocReference{r}, matcher.Options{MinConfidence: 1.0})
	assert.Equal(t, coverage.StatusAmbiguous, strict.Status)

	lenient := matcher.MatchEndpoint(ep("GET", "/items"), []*coverage.DocReference{r}, matcher.Options{MinConfidence: 0.5})
	assert.Equal(t, coverage.StatusDocumented, lenient.Status)

	assert.NoError(t, matcher.Options{MinConfidence: 0.4}.Validate())
	assert.True(t, errors.IsValidationError(matcher.Options{MinConfidence: 1.5}.Validate()))
	assert.True(t, errors.IsValidationError(matcher.Options{MinConfidence: -0.1}.Validate()))
	assert.True(t, errors.IsValidationError(matcher.Options{}.Validate()), "zero is the unset threshold")

	unset := matcher.MatchEndpoint(ep("GET", "/items"), []*coverage.DocReference{r}, matcher.Options{})
	assert.Equal(t, coverage.StatusDocumented, unset.Status, "an inline pair meets the default threshold")
}

func TestMatchUnresolvedEndpoint(t *testing.T) {
	e := &coverage.Endpoint{Method: "GET", DeclaredPath: "/x"}
	res := matcher.MatchEndpoint(e, []*coverage.DocReference{ref("a.md", 1, pair("GET", "/x", coverage.ShapeTable))}, matcher.Options{})
	assert.Equal(t, coverage.StatusUndocumented, res.Status)
}

func TestMatchMonotonic(t *testing.T) {
	endpoints := []*coverage.Endpoint{
		ep("GET", "/a"),
		ep("POST", "/b"),
		ep("GET", "/c/{id}"),
		ep("DELETE", "/d"),
	}
	refs := []*coverage.DocReference{
		ref("api.md", 1, pair("GET", "/a", coverage.ShapeTable)),
		ref("api.md", 5,
			coverage.Mention{Path: "/c/:id", Shape: coverage.ShapeInline},
			coverage.Mention{Method: "GET", Shape: coverage.ShapeInline}),
	}
	before := matcher.Match(endpoints, refs, matcher.Options{})
	require.Equal(t, coverage.StatusUndocumented, before[1].Status)

	after := matcher.Match(endpoints, append(refs, ref("api.md", 9, pair("POST", "/b", coverage.ShapeFenced))), matcher.Options{})
	assert.Equal(t, coverage.StatusDocumented, after[1].Status)
	for i := range endpoints {
		if i == 1 {
			continue
		}
		assert.Equal(t, before[i].Status, after[i].Status, endpoints[i].Key())
		assert.Equal(t, before[i].Matches, after[i].Matches)
	}
}

func TestMatchDeterministic(t *testing.T) {
	build := func() []coverage.MatchResult {
		endpoints := []*coverage.Endpoint{ep("GET", "/a"), ep("GET", "/b")}
		refs := []*coverage.DocReference{
			ref("y.md", 3, pair("GET", "/a", coverage.ShapeBare), pair("GET", "/b", coverage.ShapeBare)),
			ref("x.md", 3, pair("GET", "/a", coverage.ShapeBare)),
		}
		return matcher.Match(endpoints, refs, matcher.Options{})
	}
	assert.Equal(t, build(), build())
}

func TestRulesAreOrdered(t *testing.T) {
	require.Len(t, matcher.Rules, 3)
	for i := 1; i < len(matcher.Rules); i++ {
		assert.Greater(t, matcher.Rules[i-1].Confidence, matcher.Rules[i].Confidence)
	}
}
