package services

import (
	"context"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
)

// GitService clones source repositories for the on-disk acquisition mode,
// used when a request names a full git URL instead of a hosted coordinate.
type GitService struct{}

func NewGitService() *GitService {
	return &GitService{}
}

// CloneToTemp shallow-clones url into a fresh temp directory and returns the
// worktree path plus a cleanup func. The clone is read-only input to the
// walker, so history depth 1 is enough.
func (g *GitService) CloneToTemp(ctx context.Context, url string) (string, func(), error) {
	if url == "" {
		return "", nil, fmt.Errorf("clone url cannot be empty")
	}

	dir, err := os.MkdirTemp("", "repodocs-clone-*")
	if err != nil {
		return "", nil, fmt.Errorf("create clone dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	_, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:          url,
		Depth:        1,
		SingleBranch: true,
	})
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("clone %s: %w", url, err)
	}
	return dir, cleanup, nil
}

// ValidateRepository checks if the given path is a valid git repository.
func (g *GitService) ValidateRepository(repoPath string) error {
	if repoPath == "" {
		return fmt.Errorf("repository path cannot be empty")
	}

	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return fmt.Errorf("not a valid git repository: %w", err)
	}

	if _, err = repo.Head(); err != nil {
		return fmt.Errorf("repository is in an invalid state: %w", err)
	}
	return nil
}
