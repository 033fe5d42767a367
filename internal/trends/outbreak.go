// Package trends proxies SARS-CoV-2 lineage prevalence from outbreak.info.
package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/agenthands/genoscan/internal/config"
	"github.com/agenthands/genoscan/internal/logging"
)

// Result mirrors the payload served by /variant-trends. Exactly one of Data
// or Error is set.
type Result struct {
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Details string          `json:"details,omitempty"`
}

type Client struct {
	cfg        config.TrendsConfig
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg config.TrendsConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout.Duration}
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logging.OrNop(logger),
	}
}

// Prevalence fetches the prevalence series for a Pango lineage. location
// defaults to the configured one. Failures are reported in the Result.
func (c *Client) Prevalence(ctx context.Context, lineage, location string) Result {
	if location == "" {
		location = c.cfg.Location
	}
	if c.cfg.Timeout.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout.Duration)
		defer cancel()
	}

	endpoint, err := c.requestURL(lineage, location)
	if err != nil {
		return Result{Error: "Failed to fetch data from the API", Details: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{Error: "Failed to fetch data from the API", Details: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("outbreak request failed", zap.String("lineage", lineage), zap.Error(err))
		return Result{Error: "Failed to fetch data from the API", Details: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Error: "Failed to fetch data from the API", Details: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return Result{
			Error:   fmt.Sprintf("API returned status code %d", resp.StatusCode),
			Details: string(body),
		}
	}

	if !gjson.ValidBytes(body) {
		return Result{Error: "Invalid JSON response from the API"}
	}

	data := gjson.GetBytes(body, "data")
	if !data.Exists() {
		return Result{Error: "No data found for the specified variant"}
	}

	return Result{Data: json.RawMessage(data.Raw)}
}

func (c *Client) requestURL(lineage, location string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(c.cfg.BaseURL))
	if err != nil {
		return "", fmt.Errorf("invalid outbreak base url: %w", err)
	}
	q := u.Query()
	q.Set("pangolin_lineage", lineage)
	q.Set("location", location)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
