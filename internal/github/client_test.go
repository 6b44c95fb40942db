package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(Config{BaseURL: srv.URL, Token: "test-token", PerPage: 2})
	return c, srv
}

func TestListDirectoryPaginates(t *testing.T) {
	pages := map[string][]Entry{
		"1": {{Type: "file", Name: "a.go", Path: "a.go"}, {Type: "file", Name: "b.go", Path: "b.go"}},
		"2": {{Type: "dir", Name: "lib", Path: "lib"}},
	}

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("missing bearer auth, got %q", got)
		}
		page := r.URL.Query().Get("page")
		entries, ok := pages[page]
		if !ok {
			entries = []Entry{}
		}
		_ = json.NewEncoder(w).Encode(entries)
	}))

	var all []Entry
	for page := 1; ; page++ {
		entries, last, err := c.ListDirectory(context.Background(), "octo", "repo", "", page)
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		all = append(all, entries...)
		if last {
			break
		}
	}

	if len(all) != 3 {
		t.Fatalf("expected 3 entries across pages, got %d", len(all))
	}
	if all[2].Path != "lib" || !all[2].IsDir() {
		t.Fatalf("unexpected final entry: %+v", all[2])
	}
}

func TestListDirectoryNotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, _, err := c.ListDirectory(context.Background(), "octo", "gone", "", 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListDirectoryUpstreamError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))

	_, _, err := c.ListDirectory(context.Background(), "octo", "repo", "", 1)
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if remote.Status != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", remote.Status)
	}
}

func TestReadFile(t *testing.T) {
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "package main\n")
	}))

	text, err := c.ReadFile(context.Background(), srv.URL+"/raw/a.go")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if text != "package main\n" {
		t.Fatalf("unexpected body: %q", text)
	}
}

func TestReadFileEmptyURL(t *testing.T) {
	c := NewClient(Config{})
	if _, err := c.ReadFile(context.Background(), " "); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank download url, got %v", err)
	}
}
