// Package gitsink commits generated component source back into the
// component repository on a dedicated branch, via the GitHub REST API.
package gitsink

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.github.com"

// Client writes branches and file commits to a single repository.
type Client struct {
	baseURL    string
	token      string
	repo       string // "owner/name"
	baseBranch string
	httpClient *http.Client
}

func NewClient(baseURL, token, repo, baseBranch string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if baseBranch == "" {
		baseBranch = "main"
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		repo:       repo,
		baseBranch: baseBranch,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// EnsureBranch creates branch from the base branch head if it does not
// already exist.
func (c *Client) EnsureBranch(ctx context.Context, branch string) error {
	// Resolve the base branch head.
	var ref struct {
		Object struct {
			SHA string `json:"sha"`
		} `json:"object"`
	}
	u := fmt.Sprintf("%s/repos/%s/git/ref/heads/%s", c.baseURL, c.repo, c.baseBranch)
	status, err := c.do(ctx, http.MethodGet, u, nil, &ref)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("resolve base branch %s: status %d", c.baseBranch, status)
	}

	body := map[string]string{
		"ref": "refs/heads/" + branch,
		"sha": ref.Object.SHA,
	}
	u = fmt.Sprintf("%s/repos/%s/git/refs", c.baseURL, c.repo)
	status, err = c.do(ctx, http.MethodPost, u, body, nil)
	if err != nil {
		return err
	}
	// 422 means the ref already exists, which is fine.
	if status != http.StatusCreated && status != http.StatusUnprocessableEntity {
		return fmt.Errorf("create branch %s: status %d", branch, status)
	}
	return nil
}

// CommitFile creates path with content on branch in a single commit.
func (c *Client) CommitFile(ctx context.Context, branch, path, content, message string) error {
	body := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString([]byte(content)),
		"branch":  branch,
	}
	u := fmt.Sprintf("%s/repos/%s/contents/%s", c.baseURL, c.repo, strings.TrimPrefix(path, "/"))
	status, err := c.do(ctx, http.MethodPut, u, body, nil)
	if err != nil {
		return err
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return fmt.Errorf("commit %s to %s: status %d", path, branch, status)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, u string, body any, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("github api: %w", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	} else {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	}
	return resp.StatusCode, nil
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
