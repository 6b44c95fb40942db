package fetcher

import (
	"context"
	"log"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"repodocs/internal/models"
)

// Coordinator partitions the repository root across a bounded pool of
// concurrent subtree walks and merges the results deterministically.
type Coordinator struct {
	remote  Remote
	walker  *Walker
	workers int
}

// Result is a complete fetched corpus plus the subtrees that failed.
// A failed subtree contributes nothing; it does not abort its siblings.
type Result struct {
	Records    []models.FileRecord
	FailedDirs []string
}

// NewCoordinator builds a coordinator over remote. workers caps concurrent
// subtree walks; non-positive means the host's available parallelism.
func NewCoordinator(remote Remote, walker *Walker, workers int) *Coordinator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Coordinator{remote: remote, walker: walker, workers: workers}
}

// FetchAll lists the repository root once, fetches root-level files directly,
// and walks each root-level subdirectory on the worker pool. Subtree results
// merge in dispatch order, so output is deterministic for a fixed remote
// state. Only a failed root listing is fatal.
func (c *Coordinator) FetchAll(ctx context.Context, coord models.RepoCoordinate) (*Result, error) {
	rootEntries, err := c.walker.listAll(ctx, coord, coord.Subpath)
	if err != nil {
		return nil, &RemoteFetchError{Path: coord.Subpath, Err: err}
	}

	var rootRecords []models.FileRecord
	var dirs []string
	for _, entry := range rootEntries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Path)
			continue
		}
		rec, ok, err := c.walker.FetchFile(ctx, entry)
		if err != nil {
			// Root-level file reads stay non-fatal, same as a subtree.
			log.Printf("fetcher: root file %s failed: %v", entry.Path, err)
			continue
		}
		if ok {
			rootRecords = append(rootRecords, rec)
		}
	}

	subtrees := make([][]models.FileRecord, len(dirs))
	var mu sync.Mutex
	var failed []string

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, c.workers)
	for i, dir := range dirs {
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()

			records, err := c.walker.Walk(gctx, coord, dir)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Printf("fetcher: subtree %s failed: %v", dir, err)
				mu.Lock()
				failed = append(failed, dir)
				mu.Unlock()
				return nil
			}
			subtrees[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(failed)

	merged := rootRecords
	for _, records := range subtrees {
		merged = append(merged, records...)
	}
	return &Result{Records: merged, FailedDirs: failed}, nil
}
