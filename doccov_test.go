package doccov_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/doccov"
	"github.com/agentstation/doccov/pkg/coverage"
	"github.com/agentstation/doccov/pkg/errors"
	"github.com/agentstation/doccov/pkg/logging"
	"github.com/agentstation/doccov/pkg/routes"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// project is a small FastAPI application documented in the same tree.
var project = map[string]string{
	"app/__init__.py": "",
	"app/main.py": `from fastapi import FastAPI
from app.routers import items, users

app = FastAPI()
app.include_router(users.router, prefix="/user")
app.include_router(items.router, prefix="/items")


@app.get("/app")
def app_info():
    return {}
`,
	"app/routers/__init__.py": "",
	"app/routers/users.py": `from fastapi import APIRouter

router = APIRouter()


@router.put("")
async def update_user(body: dict):
    """Update the current user."""
    return body


@router.get("/{user_id}")
async def read_user(user_id: int):
    return {}
`,
	"app/routers/items.py": `from fastapi import APIRouter

router = APIRouter()


@router.get("/{item_id}")
def read_item(item_id: int):
    return {}


@router.delete("/{item_id}", deprecated=True)
def delete_item(item_id: int):
    return None
`,
	"tests/test_api.py": `from fastapi import FastAPI

app = FastAPI()


@app.get("/test-only")
def only_in_tests():
    return {}
`,
	"README.md": "# Install\n\nsee /app for details\n\n## Users\n\n```\nGET /user/{id}\n```\n\nUse `PUT /user` to update the profile.\n",
	"docs/items.md": "# Items\n\n| Method | Path |\n|---|---|\n| GET | /items/:id |\n\nThe `/items/{item_id}` route also accepts `DELETE`.\n",
	"docs/zh/api.md": "GET /app\nGET /test-only\n",
}

func analyze(t *testing.T, root string, opts ...doccov.Option) *coverage.Report {
	t.Helper()
	a, err := doccov.New(opts...)
	require.NoError(t, err)
	report, err := a.Analyze(context.Background(), root, root)
	require.NoError(t, err)
	return report
}

func TestAnalyze(t *testing.T) {
	root := writeTree(t, project)
	tl := logging.NewTestLogger(t)
	report := analyze(t, root, doccov.WithLogger(tl.Logger), doccov.WithMaxWorkers(2))

	got := map[string]coverage.MatchResult{}
	for _, res := range report.Results {
		got[res.Endpoint.Method+" "+res.Endpoint.ResolvedPath] = res
	}
	require.Len(t, got, 5)
	assert.NotContains(t, got, "GET /test-only")

	tests := []struct {
		key    string
		status coverage.Status
		best   float64
	}{
		{"PUT /user", coverage.StatusDocumented, 0.7},
		{"GET /user/{user_id}", coverage.StatusDocumented, 1.0},
		{"GET /items/{item_id}", coverage.StatusDocumented, 1.0},
		{"DELETE /items/{item_id}", coverage.StatusAmbiguous, 0.4},
		{"GET /app", coverage.StatusUndocumented, 0},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			res, ok := got[tt.key]
			require.True(t, ok)
			assert.Equal(t, tt.status, res.Status)
			if tt.status == coverage.StatusUndocumented {
				assert.Empty(t, res.Matches)
				return
			}
			assert.Equal(t, tt.best, res.Best().Confidence)
		})
	}

	assert.Equal(t, 5, report.Summary.Total)
	assert.Equal(t, 3, report.Summary.Documented)
	assert.Equal(t, 1, report.Summary.Ambiguous)
	assert.Equal(t, 1, report.Summary.Undocumented)
	assert.InDelta(t, 60.0, report.Summary.Coverage, 0.001)
	assert.False(t, report.HasStructuralWarnings())
	assert.Equal(t, 5, report.Metadata.SourceFiles)
	assert.Equal(t, 2, report.Metadata.DocFiles)

	for _, ref := range report.References {
		assert.NotEqual(t, "docs/zh/api.md", ref.File)
	}
	tl.AssertContains(t, "Coverage analysis complete")
}

func TestAnalyzeDeterministic(t *testing.T) {
	root := writeTree(t, project)
	first := analyze(t, root, doccov.WithMaxWorkers(4))
	second := analyze(t, root, doccov.WithMaxWorkers(4))

	require.Equal(t, len(first.Results), len(second.Results))
	for i := range first.Results {
		a, b := first.Results[i], second.Results[i]
		assert.Equal(t, a.Endpoint.Key(), b.Endpoint.Key())
		assert.Equal(t, a.Status, b.Status)
		require.Equal(t, len(a.Matches), len(b.Matches))
		for j := range a.Matches {
			assert.Equal(t, a.Matches[j].Reference.Location(), b.Matches[j].Reference.Location())
			assert.Equal(t, a.Matches[j].Confidence, b.Matches[j].Confidence)
		}
	}
}

func TestAnalyzeOptions(t *testing.T) {
	root := writeTree(t, project)

	t.Run("strict threshold", func(t *testing.T) {
		report := analyze(t, root, doccov.WithMinConfidence(1.0))
		assert.Equal(t, 2, report.Summary.Documented)
		assert.Equal(t, 2, report.Summary.Ambiguous)
	})

	t.Run("locales are configurable", func(t *testing.T) {
		report := analyze(t, root, doccov.WithLocales("fr"))
		var files []string
		for _, ref := range report.References {
			files = append(files, ref.File)
		}
		assert.Contains(t, files, "docs/zh/api.md")
	})

	t.Run("test convention is configurable", func(t *testing.T) {
		report := analyze(t, root, doccov.WithTestConvention(routes.TestConvention{Suffix: "_spec"}))
		var keys []string
		for _, ep := range report.Endpoints {
			keys = append(keys, ep.Method+" "+ep.ResolvedPath)
		}
		assert.Contains(t, keys, "GET /test-only")
	})

	t.Run("doc globs", func(t *testing.T) {
		report := analyze(t, root, doccov.WithDocGlobs(nil, []string{"docs/**"}))
		for _, ref := range report.References {
			assert.Equal(t, "README.md", ref.File)
		}
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := doccov.New(doccov.WithMinConfidence(1.5))
		assert.True(t, errors.IsValidationError(err))
		_, err = doccov.New(doccov.WithMaxWorkers(0))
		assert.True(t, errors.IsValidationError(err))
		_, err = doccov.New(doccov.WithMinConfidence(0))
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestAnalyzeStructuralWarnings(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": `from fastapi import APIRouter
from b import router as b_router

router = APIRouter(prefix="/a")
router.include_router(b_router)


@router.get("/x")
def x():
    pass
`,
		"b.py": `from fastapi import APIRouter
from a import router as a_router

router = APIRouter(prefix="/b")
router.include_router(a_router)
`,
		"README.md": "GET /a/x\n",
	})
	report := analyze(t, root)

	assert.True(t, report.HasStructuralWarnings())
	assert.Len(t, report.Unresolved, 1)
	assert.Empty(t, report.Results)
	assert.Contains(t, report.String(), "may be incomplete")

	var kinds []coverage.WarningKind
	for _, w := range report.Warnings {
		kinds = append(kinds, w.Kind)
	}
	assert.Contains(t, kinds, coverage.WarnMountCycle)
}

func TestAnalyzeHooks(t *testing.T) {
	root := writeTree(t, project)
	a, err := doccov.New()
	require.NoError(t, err)

	var results, skips int
	a.OnResult(func(coverage.MatchResult) { results++ })
	a.OnSkip(func(coverage.Skip) { skips++ })

	report, err := a.Analyze(context.Background(), root, root)
	require.NoError(t, err)
	assert.Equal(t, len(report.Results), results)
	assert.Equal(t, len(report.Skipped), skips)
}

func TestAnalyzeFatal(t *testing.T) {
	a, err := doccov.New()
	require.NoError(t, err)

	root := writeTree(t, project)
	_, err = a.Analyze(context.Background(), filepath.Join(root, "missing"), root)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	_, err = a.Analyze(context.Background(), root, filepath.Join(root, "README.md"))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestAnalyzeCanceled(t *testing.T) {
	root := writeTree(t, project)
	a, err := doccov.New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := a.Analyze(ctx, root, root)
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.IsIncomplete(err))
	assert.True(t, errors.IsCanceled(err))
}
