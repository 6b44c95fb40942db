package fetcher

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"repodocs/internal/models"
)

// skipDirs are directory names never worth feeding to the generator.
var skipDirs = map[string]bool{
	".git":         true,
	".svn":         true,
	".hg":          true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
}

// LocalWalker produces the same ordered FileRecord stream as the remote
// walker, but from a directory on disk (the clone acquisition mode).
type LocalWalker struct {
	extensions   map[string]bool
	maxFileChars int
}

// NewLocalWalker mirrors NewWalker's defaults for a local tree.
func NewLocalWalker(extensions []string, maxFileChars int) *LocalWalker {
	w := NewWalker(nil, extensions, maxFileChars)
	return &LocalWalker{extensions: w.extensions, maxFileChars: w.maxFileChars}
}

// Walk traverses root depth-first in lexical order, applying the extension
// filter and the per-file character ceiling.
func (w *LocalWalker) Walk(root string) ([]models.FileRecord, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var records []models.FileRecord
	err = filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entry, keep walking
		}
		if d.IsDir() {
			if p != absRoot && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if !w.extensions[strings.ToLower(filepath.Ext(p))] {
			return nil
		}

		content, err := os.ReadFile(p)
		if err != nil {
			return nil
		}
		if len(content) > w.maxFileChars {
			rel, _ := filepath.Rel(absRoot, p)
			log.Printf("fetcher: skipping %s: %d chars exceeds the %d ceiling", rel, len(content), w.maxFileChars)
			return nil
		}

		rel, _ := filepath.Rel(absRoot, p)
		records = append(records, models.FileRecord{
			Path:    filepath.ToSlash(rel),
			Content: string(content),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
