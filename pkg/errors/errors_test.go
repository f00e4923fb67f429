package errors_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/doccov/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{Resource: "source root", ID: "/tmp/missing"}
		assert.Equal(t, "source root /tmp/missing not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("docs root", "docs")
		wrapped := fmt.Errorf("analyze: %w", base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("min_confidence", 1.5, "must be between 0 and 1")
		assert.Equal(t, "validation failed for field min_confidence: must be between 0 and 1", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "no roots given"}
		assert.Equal(t, "validation failed: no roots given", err.Error())
	})

	t.Run("wrap nil", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapValidation("field", nil))
	})
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      *pkgerrors.ParseError
		expected string
	}{
		{
			name:     "with line",
			err:      &pkgerrors.ParseError{Format: "python", File: "app/main.py", Line: 3, Column: 1, Message: "bad"},
			expected: "parse error in python at app/main.py:3:1: bad",
		},
		{
			name:     "file only",
			err:      &pkgerrors.ParseError{Format: "markdown", File: "README.md", Message: "binary content"},
			expected: "parse error in markdown file README.md: binary content",
		},
		{
			name:     "no file",
			err:      &pkgerrors.ParseError{Format: "yaml", Message: "bad indent"},
			expected: "yaml parse error: bad indent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}

	t.Run("unwrap", func(t *testing.T) {
		base := errors.New("invalid utf-8")
		err := pkgerrors.WrapParse("markdown", "docs/api.md", base)
		assert.ErrorIs(t, err, base)
	})
}

func TestIOError(t *testing.T) {
	base := errors.New("permission denied")
	err := pkgerrors.WrapIO("read", "app/main.py", base)
	require.Error(t, err)
	assert.Equal(t, "IO error during read of app/main.py: permission denied", err.Error())
	assert.ErrorIs(t, err, base)

	assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
}

func TestCycleError(t *testing.T) {
	err := pkgerrors.NewCycleError([]string{"app.a:router", "app.b:router", "app.a:router"})
	assert.Equal(t, "mount cycle: app.a:router -> app.b:router -> app.a:router", err.Error())
	assert.True(t, pkgerrors.IsCycle(err))
	assert.False(t, pkgerrors.IsCanceled(err))
}

func TestIncompleteError(t *testing.T) {
	t.Run("counts", func(t *testing.T) {
		err := pkgerrors.NewIncompleteError("routes", 3, 10, context.Canceled)
		assert.Equal(t, "routes stage incomplete after 3 of 10 files: context canceled", err.Error())
		assert.True(t, pkgerrors.IsIncomplete(err))
		assert.True(t, pkgerrors.IsCanceled(err))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("no totals", func(t *testing.T) {
		err := pkgerrors.NewIncompleteError("match", 0, 0, context.DeadlineExceeded)
		assert.Equal(t, "match stage incomplete: context deadline exceeded", err.Error())
	})

	t.Run("as", func(t *testing.T) {
		var wrapped error = fmt.Errorf("run: %w", pkgerrors.NewIncompleteError("references", 1, 2, context.Canceled))
		var inc *pkgerrors.IncompleteError
		require.ErrorAs(t, wrapped, &inc)
		assert.Equal(t, "references", inc.Stage)
	})
}

func TestConfigError(t *testing.T) {
	base := errors.New("unknown format")
	err := pkgerrors.NewConfigError("output", "bad format", base)
	assert.Equal(t, "configuration error in output: bad format", err.Error())
	assert.ErrorIs(t, err, base)
}
