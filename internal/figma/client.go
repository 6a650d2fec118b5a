package figma

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://api.figma.com"

// Client communicates with the Figma REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// APIError is a non-2xx response from the Figma API. The status code lets
// callers distinguish auth/config failures (401, 403) from transient ones
// (429, 5xx).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("figma api status %d: %s", e.StatusCode, truncate(e.Message, 200))
}

// GetFile fetches the full document tree for a file key.
func (c *Client) GetFile(ctx context.Context, fileKey string) (*File, error) {
	var file File
	if err := c.get(ctx, "/v1/files/"+url.PathEscape(fileKey), &file); err != nil {
		return nil, err
	}
	if file.Document == nil {
		return nil, fmt.Errorf("figma file %s: response has no document", fileKey)
	}
	return &file, nil
}

// nodesResponse is the shape of /v1/files/{key}/nodes.
type nodesResponse struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	LastModified string `json:"lastModified"`
	Nodes        map[string]struct {
		Document *Node `json:"document"`
	} `json:"nodes"`
}

// GetFileNode fetches a single sub-tree of a file, scoped by node ID. The
// returned File carries the file-level metadata with the sub-node as its
// document root.
func (c *Client) GetFileNode(ctx context.Context, fileKey, nodeID string) (*File, error) {
	path := "/v1/files/" + url.PathEscape(fileKey) + "/nodes?ids=" + url.QueryEscape(nodeID)
	var resp nodesResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	entry, ok := resp.Nodes[nodeID]
	if !ok || entry.Document == nil {
		return nil, fmt.Errorf("figma file %s: node %s not present in response", fileKey, nodeID)
	}
	return &File{
		Name:         resp.Name,
		Version:      resp.Version,
		LastModified: resp.LastModified,
		Document:     entry.Document,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Figma-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("figma api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode figma response: %w", err)
	}
	return nil
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
