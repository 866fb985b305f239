package errors

import "maps"

// ErrorCategory is the broad class of a failure, used for exit codes and log routing.
type ErrorCategory string

const (
	// CategoryConfig marks invalid or contradictory options, detected before any input is read.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// CategoryMarkup marks failures surfaced by the tokenizer; the transformer never recovers from them.
	CategoryMarkup ErrorCategory = "markup"
	// CategoryNesting is reserved for directive nesting the match machine cannot track. Build and
	// strip triggers replace any live pass-through context and are ignored inside suppressed
	// subtrees, so no current construct produces it.
	CategoryNesting ErrorCategory = "nesting"

	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal ErrorSeverity = "fatal" // Aborts the run
	SeverityError ErrorSeverity = "error" // Fails the current file
)

// RetryStrategy indicates whether re-running the same input could succeed.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"
	RetryUserAction RetryStrategy = "user"
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// Merge combines two contexts, with other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	result := make(ErrorContext, len(c)+len(other))
	maps.Copy(result, c)
	maps.Copy(result, other)
	return result
}
