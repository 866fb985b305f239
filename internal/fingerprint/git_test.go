package fingerprint

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/htmlprep/internal/foundation/errors"
)

func commitFile(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o600))
	_, err = wt.Add("index.html")
	require.NoError(t, err)

	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "htmlprep", Email: "htmlprep@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash.String()
}

func TestFromGit(t *testing.T) {
	dir := t.TempDir()
	full := commitFile(t, dir)
	sub := filepath.Join(dir, "site", "static")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	got, err := FromGit(sub, DefaultLength)
	require.NoError(t, err)
	assert.Equal(t, full[:DefaultLength], got)

	got, err = FromGit(dir, 0)
	require.NoError(t, err)
	assert.Equal(t, full, got)
}

func TestFromGitErrors(t *testing.T) {
	_, err := FromGit(t.TempDir(), DefaultLength)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	empty := t.TempDir()
	_, err = git.PlainInit(empty, false)
	require.NoError(t, err)
	_, err = FromGit(empty, DefaultLength)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no commits")
}
