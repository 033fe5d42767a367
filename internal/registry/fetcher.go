package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/genoscan/internal/config"
	"github.com/agenthands/genoscan/internal/core/model"
	"github.com/agenthands/genoscan/internal/logging"
)

// maxRecordBytes caps how much of a registry response is read.
const maxRecordBytes = 16 << 20

// Fetcher returns the raw record markup for an accession ID. Every non-Ok
// outcome is a *model.FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, accessionID string) (string, error)
}

type EFetchClient struct {
	cfg        config.RegistryConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPClient builds a client with dial, TLS and header timeouts bounded by
// the overall per-call timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Transport: tr,
		Timeout:   timeout,
	}
}

func NewEFetchClient(cfg config.RegistryConfig, httpClient *http.Client, logger *zap.Logger) *EFetchClient {
	if httpClient == nil {
		httpClient = NewHTTPClient(cfg.Timeout.Duration)
	}
	return &EFetchClient{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logging.OrNop(logger),
	}
}

func (c *EFetchClient) requestURL(accessionID string) (string, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid registry base url: %w", err)
	}

	q := u.Query()
	q.Set("db", c.cfg.DB)
	q.Set("id", accessionID)
	q.Set("rettype", c.cfg.RetType)
	q.Set("retmode", c.cfg.RetMode)
	if c.cfg.Tool != "" {
		q.Set("tool", c.cfg.Tool)
	}
	if c.cfg.Email != "" {
		q.Set("email", c.cfg.Email)
	}
	if c.cfg.APIKey != "" {
		q.Set("api_key", c.cfg.APIKey)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Fetch performs exactly one request.
func (c *EFetchClient) Fetch(ctx context.Context, accessionID string) (string, error) {
	if c.cfg.Timeout.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout.Duration)
		defer cancel()
	}

	endpoint, err := c.requestURL(accessionID)
	if err != nil {
		return "", &model.FetchError{Outcome: model.OutcomeNetworkError, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", &model.FetchError{Outcome: model.OutcomeNetworkError, Err: err}
	}
	req.Header.Set("User-Agent", "genoscan/1.0")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &model.FetchError{Outcome: model.OutcomeNetworkError, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRecordBytes))
	if err != nil {
		return "", &model.FetchError{Outcome: model.OutcomeNetworkError, Err: err}
	}

	c.logger.Debug("registry fetch finished",
		zap.String("accession", accessionID),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &model.FetchError{
			Outcome: model.OutcomeHTTPError,
			Status:  resp.StatusCode,
			Err:     errors.New(truncate(string(body), 200)),
		}
	}

	if strings.TrimSpace(string(body)) == "" {
		return "", &model.FetchError{Outcome: model.OutcomeEmpty, Status: resp.StatusCode}
	}

	return string(body), nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
