// Package fetcher acquires the textual corpus of a repository: a remote tree
// walker over the contents API and a coordinator that fans subtree walks out
// across a bounded worker pool.
package fetcher

import (
	"context"
	"log"
	"path"
	"strings"

	"repodocs/internal/github"
	"repodocs/internal/models"
)

// MaxFileChars is the per-file size ceiling. Files over it are skipped with a
// warning so one pathological file cannot dominate memory or a chunk.
const MaxFileChars = 500_000

// DefaultExtensions matches the corpus the generator cares about by default.
var DefaultExtensions = []string{".go", ".js", ".py", ".ts", ".md"}

// Remote is the slice of the repository read API the walker needs.
// *github.Client satisfies it; tests substitute fakes.
type Remote interface {
	ListDirectory(ctx context.Context, owner, repo, path string, page int) ([]github.Entry, bool, error)
	ReadFile(ctx context.Context, downloadURL string) (string, error)
}

// Walker enumerates matching files under one directory of a remote
// repository and retrieves their raw text.
type Walker struct {
	remote       Remote
	extensions   map[string]bool
	maxFileChars int
}

// NewWalker builds a walker. Empty extensions fall back to
// DefaultExtensions; a non-positive ceiling falls back to MaxFileChars.
func NewWalker(remote Remote, extensions []string, maxFileChars int) *Walker {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	if maxFileChars <= 0 {
		maxFileChars = MaxFileChars
	}
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = true
	}
	return &Walker{remote: remote, extensions: exts, maxFileChars: maxFileChars}
}

// Matches reports whether a repository path passes the extension filter.
func (w *Walker) Matches(p string) bool {
	return w.extensions[strings.ToLower(path.Ext(p))]
}

// Walk lists dir and every directory discovered beneath it, fetching matching
// files in listing order. Recursion uses an explicit frontier queue rather
// than spawned goroutines, so depth is bounded and cancellation is a single
// context check. The output order is reproducible for a fixed remote state.
func (w *Walker) Walk(ctx context.Context, coord models.RepoCoordinate, dir string) ([]models.FileRecord, error) {
	var records []models.FileRecord
	frontier := []string{dir}

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		current := frontier[0]
		frontier = frontier[1:]

		entries, err := w.listAll(ctx, coord, current)
		if err != nil {
			return nil, &RemoteFetchError{Path: current, Err: err}
		}
		for _, entry := range entries {
			if entry.IsDir() {
				frontier = append(frontier, entry.Path)
				continue
			}
			rec, ok, err := w.FetchFile(ctx, entry)
			if err != nil {
				return nil, &RemoteFetchError{Path: entry.Path, Err: err}
			}
			if ok {
				records = append(records, rec)
			}
		}
	}
	return records, nil
}

// FetchFile retrieves one file entry, applying the extension filter and the
// size ceiling. The second return is false when the entry was filtered out.
func (w *Walker) FetchFile(ctx context.Context, entry github.Entry) (models.FileRecord, bool, error) {
	if !w.Matches(entry.Path) || entry.DownloadURL == "" {
		return models.FileRecord{}, false, nil
	}
	content, err := w.remote.ReadFile(ctx, entry.DownloadURL)
	if err != nil {
		return models.FileRecord{}, false, err
	}
	if len(content) > w.maxFileChars {
		log.Printf("fetcher: skipping %s: %d chars exceeds the %d ceiling", entry.Path, len(content), w.maxFileChars)
		return models.FileRecord{}, false, nil
	}
	return models.FileRecord{Path: entry.Path, Content: content}, true, nil
}

// listAll drains every page of one directory listing.
func (w *Walker) listAll(ctx context.Context, coord models.RepoCoordinate, dir string) ([]github.Entry, error) {
	var all []github.Entry
	for page := 1; ; page++ {
		entries, last, err := w.remote.ListDirectory(ctx, coord.Owner, coord.Name, dir, page)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
		if last {
			return all, nil
		}
	}
}
