package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/doccov/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		pattern     string
		patternType PatternType
		wantType    PatternType
		wantErr     bool
	}{
		{name: "glob", pattern: "docs/**/*.md", patternType: Glob, wantType: Glob},
		{name: "regex", pattern: `^app/.*\.py$`, patternType: Regex, wantType: Regex},
		{name: "auto glob", pattern: "**/test_*.py", patternType: Auto, wantType: Glob},
		{name: "auto regex", pattern: `re:^v\d+/`, patternType: Auto, wantType: Regex},
		{name: "invalid regex", pattern: "re:[unclosed", patternType: Auto, wantErr: true},
		{name: "invalid glob", pattern: "docs/[", patternType: Glob, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.patternType, tt.pattern)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, m.Type())
			assert.Equal(t, tt.pattern, m.Pattern())
		})
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		opts    Options
		path    string
		want    bool
	}{
		{"docs/**", Options{}, "docs/api/users.md", true},
		{"docs/**", Options{}, "README.md", false},
		{"**/*.md", Options{}, "README.md", true},
		{"app/{users,items}.py", Options{}, "app/items.py", true},
		{"*.md", Options{}, "docs/api.md", false},
		{"DOCS/**", Options{CaseInsensitive: true}, "docs/API.md", true},
		{`re:^docs/v\d+/`, Options{}, "docs/v2/api.md", true},
		{`re:^docs/v\d+/`, Options{}, "docs/latest/api.md", false},
		{`re:API`, Options{CaseInsensitive: true}, "docs/api.md", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			m, err := New(Auto, tt.pattern, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Match(tt.path))
		})
	}
}

func TestFilter(t *testing.T) {
	f, err := NewFilter([]string{"app/**", "main.py"}, []string{"**/migrations/**", `re:_generated\.py$`})
	require.NoError(t, err)

	assert.True(t, f.Allow("main.py"))
	assert.True(t, f.Allow("app/routers/users.py"))
	assert.False(t, f.Allow("scripts/seed.py"), "not included")
	assert.False(t, f.Allow("app/migrations/0001.py"), "excluded")
	assert.False(t, f.Allow("app/models_generated.py"), "excluded by regex")

	open, err := NewFilter(nil, nil)
	require.NoError(t, err)
	assert.True(t, open.Allow("anything/at/all.py"))

	var nilFilter *Filter
	assert.True(t, nilFilter.Allow("x"))

	_, err = NewFilter(nil, []string{"re:("})
	assert.True(t, errors.IsValidationError(err))
}

func TestPatternTypeString(t *testing.T) {
	assert.Equal(t, "glob", Glob.String())
	assert.Equal(t, "regex", Regex.String())
	assert.Equal(t, "auto", Auto.String())
	assert.Equal(t, "unknown", PatternType(9).String())
}
