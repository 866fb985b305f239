// Package inject loads injection blocks from files. Markdown files are
// rendered to HTML; anything else is injected verbatim.
package inject

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/htmlprep/internal/foundation/errors"
)

// IsMarkdown reports whether path has a Markdown extension.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// ReadFile returns the block stored at path.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to read inject file").
			WithContext("path", path).
			Build()
	}
	if !IsMarkdown(path) {
		return string(data), nil
	}
	return Render(data)
}

// Render converts a Markdown body to an HTML fragment.
func Render(body []byte) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.New().Convert(body, &buf); err != nil {
		return "", errors.WrapError(err, errors.CategoryConfig, "failed to render markdown inject block").Build()
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
