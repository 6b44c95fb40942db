package services

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/yargevad/filepathx"

	"repodocs/internal/models"
	"repodocs/internal/utils"
)

// sphinxBinary is the external document builder invoked on the assembled
// fragments. It must be on PATH; CheckBuilderAvailability verifies that.
const sphinxBinary = "sphinx-build"

// fragmentSeparator is inserted between fragments when they are joined into
// one document, rendered by the builder as a horizontal rule.
const fragmentSeparator = "\n\n----\n\n"

// DocsiteService owns the document-build stage: it scaffolds a Sphinx source
// tree, writes the joined fragments as index.rst, and shells out to the
// builder for HTML output.
type DocsiteService struct{}

func NewDocsiteService() *DocsiteService {
	return &DocsiteService{}
}

// CheckBuilderAvailability checks if the Sphinx builder is on PATH.
func (s *DocsiteService) CheckBuilderAvailability(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, sphinxBinary, "--version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s is unavailable: %w", sphinxBinary, err)
	}
	return nil
}

// ScaffoldProject writes a minimal Sphinx source tree into dir.
func (s *DocsiteService) ScaffoldProject(dir, projectName string) error {
	conf := fmt.Sprintf(`# Configuration file for the Sphinx documentation builder.

project = %q
author = "repodocs"
release = "1.0"

extensions = []
templates_path = []
exclude_patterns = []
html_theme = "alabaster"
`, projectName)
	return utils.WriteTextFile(filepath.Join(dir, "conf.py"), conf)
}

// WriteIndex joins the fragments in order, separated by rule markers, under
// one document title, and writes the result as index.rst.
func (s *DocsiteService) WriteIndex(dir, title string, fragments []models.DocFragment) error {
	if len(fragments) == 0 {
		return fmt.Errorf("no fragments to write")
	}
	return utils.WriteTextFile(filepath.Join(dir, "index.rst"), JoinFragments(title, fragments))
}

// JoinFragments renders the ordered fragments as a single rST document.
func JoinFragments(title string, fragments []models.DocFragment) string {
	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("=", len(title)))
		b.WriteString("\n\n")
	}
	for i, frag := range fragments {
		if i > 0 {
			b.WriteString(fragmentSeparator)
		}
		b.WriteString(strings.TrimSpace(frag.Text))
	}
	b.WriteString("\n")
	return b.String()
}

// Build runs the external builder over srcDir and returns the path of the
// generated entry page.
func (s *DocsiteService) Build(ctx context.Context, srcDir, outDir string) (string, error) {
	if err := utils.EnsureDir(outDir); err != nil {
		return "", err
	}
	cmd := exec.CommandContext(ctx, sphinxBinary, srcDir, outDir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s failed: %w: %s", sphinxBinary, err, strings.TrimSpace(string(output)))
	}
	return filepath.Join(outDir, "index.html"), nil
}

// SiteFiles lists every HTML file of a built site, recursively.
func (s *DocsiteService) SiteFiles(outDir string) ([]string, error) {
	return filepathx.Glob(filepath.Join(outDir, "**", "*.html"))
}
