package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"repodocs/internal/fetcher"
	"repodocs/internal/models"
	"repodocs/internal/services"
)

const (
	echoContentType = "Content-Type"
	echoJSON        = "application/json"
)

type fakeGenerator struct {
	siteRoot string
	result   *models.DocGenerationResult
	err      error
	lastReq  models.DocGenerationRequest
}

func (f *fakeGenerator) GenerateDocs(ctx context.Context, req models.DocGenerationRequest) (*models.DocGenerationResult, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeGenerator) SiteDir(runKey string) string {
	return filepath.Join(f.siteRoot, runKey, "site")
}

type fakeRuns struct {
	runs []models.GenerationRun
}

func (f *fakeRuns) Create(run *models.GenerationRun) (*models.GenerationRun, error) { return run, nil }

func (f *fakeRuns) GetByID(id uint) (*models.GenerationRun, error) {
	for i := range f.runs {
		if f.runs[i].ID == id {
			return &f.runs[i], nil
		}
	}
	return nil, nil
}

func (f *fakeRuns) GetByKey(runKey string) (*models.GenerationRun, error) {
	for i := range f.runs {
		if f.runs[i].RunKey == runKey {
			return &f.runs[i], nil
		}
	}
	return nil, nil
}

func (f *fakeRuns) List(limit int) ([]models.GenerationRun, error) { return f.runs, nil }

func (f *fakeRuns) UpdateByID(id uint, updates map[string]interface{}) error { return nil }

func newTestServer(t *testing.T, gen *fakeGenerator, runs *fakeRuns) *Server {
	t.Helper()
	modelS, err := services.NewModelService()
	if err != nil {
		t.Fatalf("NewModelService: %v", err)
	}
	return New(Config{}, gen, runs, modelS)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, &fakeGenerator{}, &fakeRuns{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestListModels(t *testing.T) {
	s := newTestServer(t, &fakeGenerator{}, &fakeRuns{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/models", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var list []models.LLMModel
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decoding models: %v", err)
	}
	if len(list) == 0 {
		t.Error("empty model list")
	}
}

func TestGenerateDocsSuccess(t *testing.T) {
	gen := &fakeGenerator{result: &models.DocGenerationResult{
		RunID:  7,
		RunKey: "abc",
		Files:  3,
		Chunks: 2,
	}}
	s := newTestServer(t, gen, &fakeRuns{})

	body := `{"repoUrl":"acme/widget","model":"openai/gpt-4o","mode":"deep"}`
	req := httptest.NewRequest(http.MethodPost, "/generate-docs", strings.NewReader(body))
	req.Header.Set(echoContentType, echoJSON)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if gen.lastReq.RepoURL != "acme/widget" || gen.lastReq.Mode != "deep" {
		t.Errorf("request not bound: %+v", gen.lastReq)
	}
	var res models.DocGenerationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if res.RunKey != "abc" || res.Files != 3 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestGenerateDocsErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"empty corpus", services.ErrNoMatchingSource, http.StatusNotFound},
		{"in progress", errors.New("generation already in progress for acme/widget"), http.StatusConflict},
		{"remote failure", &fetcher.RemoteFetchError{Path: "lib", Err: errors.New("bad gateway")}, http.StatusBadGateway},
		{"unknown model", errors.New("model x not found"), http.StatusBadRequest},
		{"missing key", errors.New("API key for openai is not configured (set OPENAI_API_KEY)"), http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, &fakeGenerator{err: tc.err}, &fakeRuns{})
			req := httptest.NewRequest(http.MethodPost, "/generate-docs", strings.NewReader(`{"repoUrl":"acme/widget"}`))
			req.Header.Set(echoContentType, echoJSON)
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)
			if rec.Code != tc.code {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tc.code, rec.Body)
			}
		})
	}
}

func TestGenerateDocsRequiresRepoURL(t *testing.T) {
	s := newTestServer(t, &fakeGenerator{}, &fakeRuns{})
	req := httptest.NewRequest(http.MethodPost, "/generate-docs", strings.NewReader(`{}`))
	req.Header.Set(echoContentType, echoJSON)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetRunByIDAndKey(t *testing.T) {
	runs := &fakeRuns{runs: []models.GenerationRun{{ID: 4, RunKey: "abcd", Status: models.RunStatusSucceeded}}}
	s := newTestServer(t, &fakeGenerator{}, runs)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/4", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("by id status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/abcd", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("by key status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/99", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing run status = %d", rec.Code)
	}
}

func TestSiteFileServingAndTraversalGuard(t *testing.T) {
	root := t.TempDir()
	siteDir := filepath.Join(root, "abc", "site")
	if err := os.MkdirAll(siteDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(siteDir, "index.html"), []byte("<html>ok</html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, &fakeGenerator{siteRoot: root}, &fakeRuns{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/site/abc/index.html", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("site file: status = %d body = %q", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/site/abc/..%2f..%2fsecret", nil))
	if rec.Code == http.StatusOK {
		t.Fatal("path traversal must not serve files outside the site dir")
	}
}
