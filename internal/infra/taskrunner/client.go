package taskrunner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/finsight/coverage-console/internal/domain/coverage"
)

const runPath = "/market-data/tasks/run"

// Client forwards opaque remediation task names to the market-data admin
// endpoint. The engine never interprets the task itself.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds the runner rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Run triggers the named task upstream.
func (c *Client) Run(ctx context.Context, taskName string) error {
	payload, err := json.Marshal(map[string]string{"task_name": taskName})
	if err != nil {
		return fmt.Errorf("encode task request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+runPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build task request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("task request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("task request error: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}

var _ coverage.ActionRunner = (*Client)(nil)
