package git

import (
	stderrors "errors"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// ErrNotRepository is returned when root is not inside a git work tree.
var ErrNotRepository = errors.NotFoundError("not a git repository").Build()

// ErrDetachedHead is returned by CurrentBranch when HEAD is not a branch.
var ErrDetachedHead = errors.NotFoundError("HEAD is not on a branch").Build()

func open(root string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if stderrors.Is(err, git.ErrRepositoryNotExists) {
			return nil, errors.NotFoundError("not a git repository").
				WithContext("path", root).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to open repository").
			Fatal().
			WithContext("path", root).
			Build()
	}
	return repo, nil
}

// CurrentBranch returns the short name of the branch checked out at root.
func CurrentBranch(root string) (string, error) {
	repo, err := open(root)
	if err != nil {
		return "", err
	}
	ref, err := repo.Head()
	if err != nil {
		return "", errors.NotFoundError("HEAD is not on a branch").
			WithCause(err).
			WithContext("path", root).
			Build()
	}
	if !ref.Name().IsBranch() {
		return "", errors.NotFoundError("HEAD is not on a branch").
			WithContext("path", root).
			WithContext("head", ref.Hash().String()).
			Build()
	}
	return ref.Name().Short(), nil
}

// HeadCommit returns the commit hash HEAD points at.
func HeadCommit(root string) (string, error) {
	repo, err := open(root)
	if err != nil {
		return "", err
	}
	ref, err := repo.Head()
	if err != nil {
		return "", errors.NotFoundError("repository has no commits").
			WithCause(err).
			WithContext("path", root).
			Build()
	}
	return ref.Hash().String(), nil
}
