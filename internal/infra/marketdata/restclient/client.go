package restclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/finsight/coverage-console/internal/domain/coverage"
)

const coveragePath = "/market-data/coverage"

// Client fetches coverage snapshots from the market-data service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchCoverage retrieves the raw coverage snapshot. Absent response fields
// are contract-compatible; only transport and JSON-shape failures error.
func (c *Client) FetchCoverage(ctx context.Context, q coverage.Query) (*coverage.RawSnapshot, []byte, error) {
	endpoint := c.baseURL + coveragePath
	params := url.Values{}
	if q.FillTradingDaysWindow != nil {
		params.Set("fill_trading_days_window", strconv.Itoa(*q.FillTradingDaysWindow))
	}
	if q.FillLookbackDays != nil {
		params.Set("fill_lookback_days", strconv.Itoa(*q.FillLookbackDays))
	}
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build coverage request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("coverage request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, nil, fmt.Errorf("coverage request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read coverage response: %w", err)
	}

	var snap coverage.RawSnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, nil, fmt.Errorf("decode coverage response: %w", err)
	}
	return &snap, body, nil
}

var _ coverage.SnapshotClient = (*Client)(nil)
