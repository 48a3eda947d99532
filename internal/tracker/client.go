// Package tracker fetches work items, linked test cases, and revision
// history from an Azure-DevOps-style REST API and shapes them into
// assessment inputs.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	apiVersion = "7.0"

	maxAttempts    = 3
	defaultBackoff = 2 * time.Second
	batchChunkSize = 200
)

// Client is a high-level client for an Azure-DevOps-style work item tracker.
// baseURL is the project-scoped root, e.g.
// https://dev.azure.com/{org}/{project}.
type Client struct {
	baseURL    string
	pat        string
	httpClient *http.Client
	logger     *slog.Logger
	backoff    time.Duration
}

// Option configures the Client during construction.
type Option func(*clientConfig) error

type clientConfig struct {
	httpClient *http.Client
	logger     *slog.Logger
	timeout    time.Duration
	backoff    time.Duration
}

// New creates a Client for the given tracker instance. The personal access
// token is sent via basic auth on every request.
func New(baseURL, pat string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("tracker: baseURL is required")
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	cfg := &clientConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.timeout > 0 {
		httpClient.Timeout = cfg.timeout
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	backoff := cfg.backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}

	return &Client{
		baseURL:    baseURL,
		pat:        pat,
		httpClient: httpClient,
		logger:     logger,
		backoff:    backoff,
	}, nil
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) error {
		cfg.httpClient = c
		return nil
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *clientConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithTimeout sets a timeout on the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) error {
		cfg.timeout = d
		return nil
	}
}

// WithRetryBackoff overrides the base delay between retry attempts.
func WithRetryBackoff(d time.Duration) Option {
	return func(cfg *clientConfig) error {
		cfg.backoff = d
		return nil
	}
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// doJSON executes an HTTP request and decodes the JSON response into dst.
// Throttling and server errors are retried with linear backoff before
// giving up; other error statuses return an *APIError immediately.
func (c *Client) doJSON(ctx context.Context, method, url, operation string, body []byte, dst any) error {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff * time.Duration(attempt-1)):
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return fmt.Errorf("%s: create request: %w", operation, err)
		}
		req.SetBasicAuth("", c.pat)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		c.logger.InfoContext(ctx, "tracker request",
			"operation", operation, "method", method, "url", url, "attempt", attempt)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%s: do request: %w", operation, err)
			continue
		}

		c.logger.DebugContext(ctx, "tracker response",
			"operation", operation, "status", resp.StatusCode)

		if retryableStatus(resp.StatusCode) {
			respBody, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastErr = newAPIError(operation, resp.StatusCode, errorMessage(respBody, resp.Status))
			c.logger.WarnContext(ctx, "tracker retry",
				"operation", operation, "status", resp.StatusCode,
				"attempt", attempt, "max", maxAttempts)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			respBody, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return newAPIError(operation, resp.StatusCode, errorMessage(respBody, resp.Status))
		}

		if dst != nil {
			err = json.NewDecoder(resp.Body).Decode(dst)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("%s: decode response: %w", operation, err)
			}
		} else {
			resp.Body.Close()
		}
		return nil
	}

	return fmt.Errorf("%s: giving up after %d attempts: %w", operation, maxAttempts, lastErr)
}

// errorMessage extracts the tracker's error message from a response body,
// falling back to the raw body or HTTP status line.
func errorMessage(body []byte, status string) string {
	var er struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &er) == nil && er.Message != "" {
		return er.Message
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return status
}

// StoryIDs executes a saved query and returns the matching work item IDs.
// The saved query is fetched first to obtain its WIQL, which is then
// executed.
func (c *Client) StoryIDs(ctx context.Context, queryID string) ([]int, error) {
	u := fmt.Sprintf("%s/_apis/wit/queries/%s?$expand=wiql&api-version=%s", c.baseURL, queryID, apiVersion)

	var query struct {
		Wiql json.RawMessage `json:"wiql"`
	}
	if err := c.doJSON(ctx, http.MethodGet, u, "get saved query", nil, &query); err != nil {
		return nil, err
	}

	wiql, err := extractWIQL(query.Wiql)
	if err != nil {
		return nil, fmt.Errorf("get saved query: %w", err)
	}

	body, err := json.Marshal(map[string]string{"query": wiql})
	if err != nil {
		return nil, fmt.Errorf("execute wiql: encode body: %w", err)
	}

	wu := fmt.Sprintf("%s/_apis/wit/wiql?api-version=%s", c.baseURL, apiVersion)
	var result struct {
		WorkItems []struct {
			ID int `json:"id"`
		} `json:"workItems"`
	}
	if err := c.doJSON(ctx, http.MethodPost, wu, "execute wiql", body, &result); err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(result.WorkItems))
	for _, w := range result.WorkItems {
		ids = append(ids, w.ID)
	}

	c.logger.InfoContext(ctx, "saved query executed", "query", queryID, "items", len(ids))
	return ids, nil
}

// extractWIQL handles both serializations of the saved query's wiql field:
// a bare string or an object with a "query" member.
func extractWIQL(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("saved query has no wiql")
	}

	var s string
	if json.Unmarshal(raw, &s) == nil && s != "" {
		return s, nil
	}

	var obj struct {
		Query string `json:"query"`
	}
	if json.Unmarshal(raw, &obj) == nil && obj.Query != "" {
		return obj.Query, nil
	}

	return "", fmt.Errorf("could not extract wiql from saved query")
}

// WorkItem fetches a single work item with its relations expanded.
func (c *Client) WorkItem(ctx context.Context, id int) (*WorkItem, error) {
	u := fmt.Sprintf("%s/_apis/wit/workitems/%d?$expand=relations&api-version=%s", c.baseURL, id, apiVersion)
	var item WorkItem
	if err := c.doJSON(ctx, http.MethodGet, u, "get work item", nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// WorkItemsBatch fetches multiple work items through the batch endpoint,
// splitting into chunks of at most 200 IDs per request.
func (c *Client) WorkItemsBatch(ctx context.Context, ids []int) ([]WorkItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	u := fmt.Sprintf("%s/_apis/wit/workitemsbatch?api-version=%s", c.baseURL, apiVersion)

	var items []WorkItem
	for start := 0; start < len(ids); start += batchChunkSize {
		end := start + batchChunkSize
		if end > len(ids) {
			end = len(ids)
		}

		body, err := json.Marshal(map[string]any{
			"ids":     ids[start:end],
			"$expand": "relations",
		})
		if err != nil {
			return nil, fmt.Errorf("batch work items: encode body: %w", err)
		}

		var page struct {
			Value []WorkItem `json:"value"`
		}
		if err := c.doJSON(ctx, http.MethodPost, u, "batch work items", body, &page); err != nil {
			return nil, err
		}
		items = append(items, page.Value...)
	}

	return items, nil
}

// Updates fetches the revision history of a work item, oldest first.
func (c *Client) Updates(ctx context.Context, id int) ([]Update, error) {
	u := fmt.Sprintf("%s/_apis/wit/workItems/%d/updates?api-version=%s", c.baseURL, id, apiVersion)
	var page struct {
		Value []Update `json:"value"`
	}
	if err := c.doJSON(ctx, http.MethodGet, u, "get work item updates", nil, &page); err != nil {
		return nil, err
	}
	return page.Value, nil
}
