package git

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (string, *git.Repository, plumbing.Hash) {
	t.Helper()
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "config.yaml"), []byte("url: https://example.com\n"), 0o600))
	w, err := repo.Worktree()
	require.NoError(t, err)
	_, err = w.Add("config.yaml")
	require.NoError(t, err)
	commit, err := w.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com"},
	})
	require.NoError(t, err)

	require.NoError(t, w.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName("site"),
		Create: true,
	}))
	return root, repo, commit
}

func TestCurrentBranch(t *testing.T) {
	root, _, _ := initRepo(t)

	branch, err := CurrentBranch(root)
	require.NoError(t, err)
	require.Equal(t, "site", branch)

	sub := filepath.Join(root, "pages")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	branch, err = CurrentBranch(sub)
	require.NoError(t, err)
	require.Equal(t, "site", branch)
}

func TestCurrentBranch_Detached(t *testing.T) {
	root, repo, commit := initRepo(t)
	w, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, w.Checkout(&git.CheckoutOptions{Hash: commit}))

	_, err = CurrentBranch(root)
	require.True(t, stderrors.Is(err, ErrDetachedHead))
}

func TestCurrentBranch_NotRepository(t *testing.T) {
	_, err := CurrentBranch(t.TempDir())
	require.True(t, stderrors.Is(err, ErrNotRepository))
}

func TestHeadCommit(t *testing.T) {
	root, _, commit := initRepo(t)
	head, err := HeadCommit(root)
	require.NoError(t, err)
	require.Equal(t, commit.String(), head)
}

func TestWorkdirHash(t *testing.T) {
	root := t.TempDir()
	pages := filepath.Join(root, "pages")
	require.NoError(t, os.MkdirAll(filepath.Join(pages, ".cache"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(pages, "a.md"), []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "config.yaml"), []byte("x"), 0o600))

	h1, err := WorkdirHash(root, []string{"pages", "config.yaml", "missing"})
	require.NoError(t, err)
	h2, err := WorkdirHash(root, []string{"pages", "config.yaml"})
	require.NoError(t, err)
	require.Equal(t, h1, h2)

	require.NoError(t, os.WriteFile(filepath.Join(pages, ".cache", "x"), []byte("ignored"), 0o600))
	h3, err := WorkdirHash(root, []string{"pages", "config.yaml"})
	require.NoError(t, err)
	require.Equal(t, h1, h3)

	require.NoError(t, os.WriteFile(filepath.Join(pages, "a.md"), []byte("b"), 0o600))
	h4, err := WorkdirHash(root, []string{"pages", "config.yaml"})
	require.NoError(t, err)
	require.NotEqual(t, h1, h4)
}
