package metrics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// AnalyticsClient talks to an optional external analytics service that
// precomputes commit and pull-request summaries. A client with an empty
// base URL is disabled and every call reports that.
type AnalyticsClient struct {
	baseURL string
	http    *http.Client
}

// NewAnalyticsClient creates a client. baseURL may be empty to disable it.
func NewAnalyticsClient(baseURL string) *AnalyticsClient {
	return &AnalyticsClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether a service endpoint is configured.
func (c *AnalyticsClient) Enabled() bool {
	return c.baseURL != ""
}

// Commits fetches the commit summary for a repository URL.
func (c *AnalyticsClient) Commits(ctx context.Context, repoURL string) (string, error) {
	return c.post(ctx, "/api/v1/commits", repoURL)
}

// PullRequests fetches the pull-request summary for a repository URL.
func (c *AnalyticsClient) PullRequests(ctx context.Context, repoURL string) (string, error) {
	return c.post(ctx, "/api/v1/pull-requests", repoURL)
}

// CommitsByAuthor fetches the commit summary scoped to one author.
func (c *AnalyticsClient) CommitsByAuthor(ctx context.Context, repoURL, username string) (string, error) {
	return c.post(ctx, "/api/v1/commits/"+url.PathEscape(username), repoURL)
}

func (c *AnalyticsClient) post(ctx context.Context, path, repoURL string) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("analytics service not configured")
	}

	body, err := json.Marshal(map[string]string{"url": repoURL})
	if err != nil {
		return "", fmt.Errorf("failed to encode analytics request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build analytics request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("analytics request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read analytics response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("analytics service returned %d: %s", resp.StatusCode, string(data))
	}
	return string(data), nil
}
