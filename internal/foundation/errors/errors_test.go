package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("config error is fatal and needs user action", func(t *testing.T) {
		err := ConfigError("live reload port out of range").
			WithContext("port", 70000).
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, RetryUserAction, err.RetryStrategy())

		port, ok := err.Context().Get("port")
		require.True(t, ok)
		assert.Equal(t, 70000, port)
	})

	t.Run("wrapping keeps the cause reachable", func(t *testing.T) {
		cause := errors.New("unexpected EOF")
		err := WrapError(cause, CategoryMarkup, "tokenizer failed").Fatal().Build()

		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "[markup:fatal] tokenizer failed: unexpected EOF")
	})

	t.Run("classification survives fmt wrapping", func(t *testing.T) {
		inner := ValidationError("invalid glob").Build()
		wrapped := fmt.Errorf("index.html: %w", inner)

		found, ok := AsClassified(wrapped)
		require.True(t, ok)
		assert.Same(t, inner, found)
		assert.True(t, HasCategory(wrapped, CategoryValidation))
		assert.Equal(t, CategoryValidation, GetCategory(wrapped))
	})

	t.Run("unclassified defaults to internal", func(t *testing.T) {
		assert.Equal(t, CategoryInternal, GetCategory(errors.New("boom")))
		assert.False(t, HasCategory(nil, CategoryConfig))
	})

	t.Run("WithContext copies", func(t *testing.T) {
		base := NewError(CategoryMarkup, "bad").Build()
		withTag := base.WithContext("tag", "div")

		_, ok := base.Context().Get("tag")
		assert.False(t, ok)
		tag, ok := withTag.Context().Get("tag")
		assert.True(t, ok)
		assert.Equal(t, "div", tag)
		assert.ErrorIs(t, withTag, base)
	})
}

func TestErrorContextMerge(t *testing.T) {
	var nilCtx ErrorContext
	other := ErrorContext{"a": 1}
	assert.Equal(t, other, nilCtx.Merge(other))

	merged := ErrorContext{"a": 1, "b": 2}.Merge(ErrorContext{"b": 3})
	assert.Equal(t, ErrorContext{"a": 1, "b": 3}, merged)
}
