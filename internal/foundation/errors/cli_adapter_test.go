package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("missing input").Build(), expected: 2},
		{name: "markup", err: NewError(CategoryMarkup, "bad token").Build(), expected: 3},
		{name: "nesting", err: NewError(CategoryNesting, "nested build").Build(), expected: 4},
		{name: "config", err: ConfigError("bad option").Build(), expected: 7},
		{name: "internal", err: NewError(CategoryInternal, "bug").Build(), expected: 10},
		{name: "filesystem", err: WrapError(errors.New("EACCES"), CategoryFileSystem, "glob failed").Build(), expected: 11},
		{name: "unclassified", err: errors.New("unknown"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, nil)
	verbose := NewCLIErrorAdapter(true, nil)

	internal := NewError(CategoryInternal, "nil emitter").Build()
	assert.Equal(t, "Internal error occurred (use -v for details)", quiet.FormatError(internal))
	assert.Equal(t, internal.Error(), verbose.FormatError(internal))

	cfg := ConfigError("bad prefix").Build()
	assert.Equal(t, cfg.Error(), quiet.FormatError(cfg))
	assert.Equal(t, "Error: plain", quiet.FormatError(errors.New("plain")))
	assert.Empty(t, quiet.FormatError(nil))
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logs, stderr bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.stderr = &stderr
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ValidationError("invalid glob pattern").WithContext("tag", "div").Build())

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "invalid glob pattern")
	assert.Contains(t, logs.String(), "category=validation")
	assert.Contains(t, logs.String(), "tag=div")

	code = -1
	adapter.HandleError(nil)
	assert.Equal(t, -1, code)
}
