// Package github is a minimal client for the repository contents API:
// paginated directory listings and raw file reads with bearer auth.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultPerPage = 100

	// maxFileBytes caps a single raw read; anything larger is cut off and the
	// caller's own size ceiling drops the file anyway.
	maxFileBytes = 2 << 20
)

// ErrNotFound marks a missing repository, path, or download location.
var ErrNotFound = errors.New("github: not found")

// RemoteError is a non-404 failure from the remote API.
type RemoteError struct {
	Status int
	Msg    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("github upstream %d: %s", e.Status, e.Msg)
}

// Entry is one item of a directory listing.
type Entry struct {
	Type        string `json:"type"` // "file" | "dir"
	Name        string `json:"name"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url"`
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool { return e.Type == "dir" }

// Config holds client configuration. Token is optional; unauthenticated
// requests work for public repositories at a lower rate limit.
type Config struct {
	BaseURL        string
	Token          string
	PerPage        int
	TimeoutSeconds int
}

// Client talks to the contents API over plain HTTP.
type Client struct {
	hc      *http.Client
	baseURL string
	token   string
	perPage int
}

// NewClient builds a client from cfg, applying defaults for empty fields.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = defaultPerPage
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 60
	}
	return &Client{
		hc:      &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		perPage: cfg.PerPage,
	}
}

// ListDirectory returns one page of entries for path inside owner/repo and
// whether that page was the last. Callers keep requesting pages until an
// empty page comes back.
func (c *Client) ListDirectory(ctx context.Context, owner, repo, path string, page int) ([]Entry, bool, error) {
	if page < 1 {
		page = 1
	}
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s?per_page=%d&page=%d",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), escapePath(path), c.perPage, page)

	body, err := c.get(ctx, u, "application/vnd.github+json")
	if err != nil {
		return nil, false, err
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		// A single-file path returns an object instead of an array.
		var single Entry
		if jerr := json.Unmarshal(body, &single); jerr == nil && single.Path != "" {
			return []Entry{single}, true, nil
		}
		return nil, false, fmt.Errorf("github: decode listing for %q: %w", path, err)
	}
	last := len(entries) == 0 || len(entries) < c.perPage
	return entries, last, nil
}

// ReadFile fetches the raw text behind a download location.
func (c *Client) ReadFile(ctx context.Context, downloadURL string) (string, error) {
	if strings.TrimSpace(downloadURL) == "" {
		return "", fmt.Errorf("github: empty download url: %w", ErrNotFound)
	}
	body, err := c.get(ctx, downloadURL, "")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("github: new request: %w", err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, ctx.Err()
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode/100 != 2 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, &RemoteError{Status: resp.StatusCode, Msg: strings.TrimSpace(string(slurp))}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxFileBytes))
}

// escapePath escapes each segment of a repository-relative path while keeping
// the separators intact.
func escapePath(p string) string {
	if p == "" {
		return ""
	}
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}
