package services

import (
	"fmt"
	"net/url"
	"strings"

	"repodocs/internal/models"
)

// Source kinds produced by ParseRepoSource.
const (
	SourceGitHub = "github"
	SourceGit    = "git"
)

// RepoSource is a parsed request target: either a hosted coordinate walked
// over the contents API, or a git URL cloned locally.
type RepoSource struct {
	Kind       string
	Coordinate models.RepoCoordinate
	CloneURL   string
}

// Slug identifies the source for logging and in-progress tracking.
func (s RepoSource) Slug() string {
	if s.Kind == SourceGitHub {
		return s.Coordinate.Slug()
	}
	return s.CloneURL
}

// ParseRepoSource accepts "owner/name", a github.com URL, or any git clone
// URL. github.com targets use the API walker; everything else is cloned.
func ParseRepoSource(raw string) (RepoSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return RepoSource{}, fmt.Errorf("repository url is required")
	}

	// Bare owner/name shorthand.
	if !strings.Contains(raw, "://") && !strings.Contains(raw, "@") {
		parts := strings.Split(strings.Trim(raw, "/"), "/")
		if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
			return RepoSource{
				Kind: SourceGitHub,
				Coordinate: models.RepoCoordinate{
					Owner: parts[0],
					Name:  strings.TrimSuffix(parts[1], ".git"),
				},
			}, nil
		}
		return RepoSource{}, fmt.Errorf("unrecognized repository reference: %q", raw)
	}

	// SSH-style clone URL (git@host:owner/name.git).
	if strings.Contains(raw, "@") && !strings.Contains(raw, "://") {
		return RepoSource{Kind: SourceGit, CloneURL: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return RepoSource{}, fmt.Errorf("invalid repository url: %w", err)
	}
	if u.Host != "github.com" && u.Host != "www.github.com" {
		return RepoSource{Kind: SourceGit, CloneURL: raw}, nil
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return RepoSource{}, fmt.Errorf("github url must contain owner and repository: %q", raw)
	}
	coord := models.RepoCoordinate{
		Owner: parts[0],
		Name:  strings.TrimSuffix(parts[1], ".git"),
	}
	// /tree/<ref>/<subpath> narrows the walk to a subtree of the default ref.
	if len(parts) > 3 && parts[2] == "tree" {
		coord.Subpath = strings.Join(parts[4:], "/")
	}
	return RepoSource{Kind: SourceGitHub, Coordinate: coord}, nil
}

// chunkBudgetForMode maps a request mode to a token budget.
func chunkBudgetForMode(mode string, standard, deep int) int {
	if strings.EqualFold(strings.TrimSpace(mode), "deep") {
		return deep
	}
	return standard
}
