// Package registry reads the component system of record: a GitHub
// repository holding either a registry file or a directory of component
// sources whose paths serve as identifiers.
package registry

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.github.com"

// Client communicates with the GitHub REST API for a single repository.
type Client struct {
	baseURL    string
	token      string
	repo       string // "owner/name"
	httpClient *http.Client
}

func NewClient(baseURL, token, repo string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		repo:    repo,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Entry is one item of a directory listing.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"` // "file" or "dir"
	SHA  string `json:"sha"`
}

const pageSize = 100

// ListDir fetches a directory listing page by page, appending until a page
// comes back empty. Pages are sequential by contract: each request is only
// issued after the previous page proved non-empty. A missing directory is
// found=false, not an error.
func (c *Client) ListDir(ctx context.Context, dir string) ([]Entry, bool, error) {
	var all []Entry
	for page := 1; ; page++ {
		u := fmt.Sprintf("%s/repos/%s/contents/%s?per_page=%d&page=%d",
			c.baseURL, c.repo, strings.TrimPrefix(dir, "/"), pageSize, page)

		body, status, err := c.get(ctx, u)
		if err != nil {
			return nil, false, err
		}
		if status == http.StatusNotFound {
			return nil, false, nil
		}
		if status != http.StatusOK {
			return nil, false, fmt.Errorf("list %s: status %d: %s", dir, status, truncate(string(body), 200))
		}

		var entries []Entry
		if err := json.Unmarshal(body, &entries); err != nil {
			return nil, false, fmt.Errorf("decode listing %s: %w", dir, err)
		}
		if len(entries) == 0 {
			break
		}
		all = append(all, entries...)
	}
	return all, true, nil
}

// fileResponse is the contents-API shape for a single file.
type fileResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// GetFile fetches the raw text of one file. A missing path is found=false,
// not an error.
func (c *Client) GetFile(ctx context.Context, filePath string) (string, bool, error) {
	u := fmt.Sprintf("%s/repos/%s/contents/%s", c.baseURL, c.repo, strings.TrimPrefix(filePath, "/"))

	body, status, err := c.get(ctx, u)
	if err != nil {
		return "", false, err
	}
	if status == http.StatusNotFound {
		return "", false, nil
	}
	if status != http.StatusOK {
		return "", false, fmt.Errorf("get %s: status %d: %s", filePath, status, truncate(string(body), 200))
	}

	var file fileResponse
	if err := json.Unmarshal(body, &file); err != nil {
		return "", false, fmt.Errorf("decode file %s: %w", filePath, err)
	}
	if file.Encoding == "base64" {
		raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
		if err != nil {
			return "", false, fmt.Errorf("decode content %s: %w", filePath, err)
		}
		return string(raw), true, nil
	}
	return file.Content, true, nil
}

// Fetch resolves a registry path into the text blob the matcher scans. A
// path with a file extension is fetched and normalized; a directory path is
// listed and its entry paths joined, so component file names act as the
// registry identifiers.
func (c *Client) Fetch(ctx context.Context, registryPath string) (string, bool, error) {
	if path.Ext(registryPath) != "" {
		content, found, err := c.GetFile(ctx, registryPath)
		if err != nil || !found {
			return "", found, err
		}
		return Normalize(registryPath, content), true, nil
	}

	entries, found, err := c.ListDir(ctx, registryPath)
	if err != nil || !found {
		return "", found, err
	}
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.Path)
		sb.WriteString("\n")
	}
	return sb.String(), true, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("github api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
