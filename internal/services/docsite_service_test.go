package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"repodocs/internal/models"
)

func TestScaffoldProjectWritesConf(t *testing.T) {
	dir := t.TempDir()
	s := NewDocsiteService()

	if err := s.ScaffoldProject(dir, "acme/widget"); err != nil {
		t.Fatalf("ScaffoldProject: %v", err)
	}
	conf, err := os.ReadFile(filepath.Join(dir, "conf.py"))
	if err != nil {
		t.Fatalf("reading conf.py: %v", err)
	}
	if !strings.Contains(string(conf), `project = "acme/widget"`) {
		t.Errorf("conf.py missing project name:\n%s", conf)
	}
	if !strings.Contains(string(conf), `html_theme = "alabaster"`) {
		t.Errorf("conf.py missing theme:\n%s", conf)
	}
}

func TestJoinFragmentsOrderAndSeparators(t *testing.T) {
	fragments := []models.DocFragment{
		{Index: 0, Total: 3, Text: "Intro\n"},
		{Index: 1, Total: 3, Text: "  Middle  "},
		{Index: 2, Total: 3, Text: "End"},
	}
	doc := JoinFragments("widget", fragments)

	if !strings.HasPrefix(doc, "widget\n======\n\n") {
		t.Errorf("missing title underline:\n%s", doc)
	}
	if got := strings.Count(doc, fragmentSeparator); got != 2 {
		t.Errorf("separator count = %d, want 2", got)
	}
	for _, part := range []string{"Intro", "Middle", "End"} {
		if !strings.Contains(doc, part) {
			t.Errorf("joined document missing %q", part)
		}
	}
	if strings.Index(doc, "Intro") > strings.Index(doc, "Middle") {
		t.Error("fragments out of order")
	}
}

func TestWriteIndexRejectsEmpty(t *testing.T) {
	s := NewDocsiteService()
	if err := s.WriteIndex(t.TempDir(), "t", nil); err == nil {
		t.Fatal("expected error for empty fragment set")
	}
}

func TestBuildSite(t *testing.T) {
	s := NewDocsiteService()
	ctx := context.Background()
	if err := s.CheckBuilderAvailability(ctx); err != nil {
		t.Skipf("sphinx-build not installed: %v", err)
	}

	src := t.TempDir()
	out := t.TempDir()
	if err := s.ScaffoldProject(src, "widget"); err != nil {
		t.Fatalf("ScaffoldProject: %v", err)
	}
	if err := s.WriteIndex(src, "widget", []models.DocFragment{{Index: 0, Total: 1, Text: "Body text."}}); err != nil {
		t.Fatalf("WriteIndex: %v", err)
	}

	index, err := s.Build(ctx, src, out)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := os.Stat(index); err != nil {
		t.Fatalf("built index missing: %v", err)
	}
	files, err := s.SiteFiles(out)
	if err != nil {
		t.Fatalf("SiteFiles: %v", err)
	}
	if len(files) == 0 {
		t.Error("no html files in built site")
	}
}
