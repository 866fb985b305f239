// Package errors provides the classified error type shared by every htmlprep package.
//
// A transformation run is all-or-nothing, so nearly every error built here is fatal.
// The category decides the CLI exit code:
//
//	err := errors.ConfigError("live reload port out of range").
//		WithContext("port", 70000).
//		Build()
package errors
