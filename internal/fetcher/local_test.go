package fetcher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLocalWalkFiltersAndOrders(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "print('hi')")
	writeFile(t, root, "b.txt", "ignored")
	writeFile(t, root, "lib/c.js", "console.log(1)")
	writeFile(t, root, "node_modules/dep/index.js", "skip me")
	writeFile(t, root, ".git/config", "skip me too")

	w := NewLocalWalker(nil, 0)
	records, err := w.Walk(root)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}
	if records[0].Path != "a.py" || records[1].Path != "lib/c.js" {
		t.Fatalf("unexpected paths: %s, %s", records[0].Path, records[1].Path)
	}
}

func TestLocalWalkSkipsOversized(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "huge.go", strings.Repeat("x", 600_000))
	writeFile(t, root, "ok.go", "package ok")

	w := NewLocalWalker(nil, 0)
	records, err := w.Walk(root)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(records) != 1 || records[0].Path != "ok.go" {
		t.Fatalf("oversized file should be skipped, got %+v", records)
	}
}
