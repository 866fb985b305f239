// Package fingerprint derives cache-busting values for asset URLs.
package fingerprint

import (
	stderrors "errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/htmlprep/internal/foundation/errors"
)

// DefaultLength is the number of commit hash characters used.
const DefaultLength = 10

// FromGit returns the abbreviated HEAD commit hash of the repository that
// contains dir.
func FromGit(dir string, length int) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryConfig, "fingerprint source is not a git repository").
			WithContext("path", dir).
			Build()
	}

	ref, err := repo.Head()
	if err != nil {
		msg := "failed to resolve HEAD"
		if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
			msg = "repository has no commits"
		}
		return "", errors.WrapError(err, errors.CategoryConfig, msg).
			WithContext("path", dir).
			Build()
	}

	hash := ref.Hash().String()
	if length > 0 && length < len(hash) {
		hash = hash[:length]
	}
	return hash, nil
}
