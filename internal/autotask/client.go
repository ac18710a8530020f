package autotask

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/msp-tools/autotask-search-mcp/internal/pkg/logger"
)

// Client is an HTTP client for the Autotask search backend. It is
// read-only after construction and safe for concurrent use; each tool
// invocation drives its own request lifecycle through it.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *logger.Logger
}

// New creates an Autotask API client.
func New(cfg *Config, log *logger.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		config: cfg,
		// Timeouts are applied per request via context deadlines: detail
		// operations get DetailTimeout, search and batch operations get
		// SearchTimeout. The poll loop issues many requests and must not
		// share one client-wide budget across them.
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: log,
	}, nil
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// do executes one HTTP request against the backend and returns the raw
// status code and body. It never retries. Transport failures come back
// classified as connect or timeout errors; HTTP status handling is the
// caller's job via classify.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, timeout time.Duration) (int, []byte, error) {
	reqURL := c.config.BaseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, reqURL, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.logger.WithContext(ctx)
	log.Debug("autotask request",
		zap.String("method", method),
		zap.String("url", reqURL),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, c.classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}

	log.Debug("autotask response",
		zap.String("method", method),
		zap.String("url", reqURL),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(respData)),
	)

	return resp.StatusCode, respData, nil
}

// classifyTransport maps a failed round trip onto the timeout/connect
// split. Deadline expiry counts as a timeout whether it came from the
// per-request budget or the surrounding context; a caller-side cancel
// is neither and reports as such.
func (c *Client) classifyTransport(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return timeoutError(err)
	}
	if errors.Is(err, context.Canceled) {
		return canceledError(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return timeoutError(err)
	}

	c.logger.WithContext(ctx).Error("autotask request failed",
		zap.String("base_url", c.config.BaseURL),
		zap.Error(err),
	)
	return connectError(c.config.BaseURL, err)
}

// classify maps an HTTP response onto the error taxonomy. It returns nil
// for the two statuses that carry a usable payload (200 sync result,
// 202 deferred job); every other status becomes a typed error,
// independent of which operation issued the request. notFound customizes
// the 404 message, which is the only operation-specific variation.
func (c *Client) classify(status int, body []byte, notFound string) error {
	switch {
	case status == http.StatusOK, status == http.StatusAccepted:
		return nil
	case status == http.StatusUnauthorized:
		return authError()
	case status == http.StatusNotFound:
		return notFoundError(notFound)
	case status == http.StatusBadRequest:
		if detail := gjson.GetBytes(body, "error").String(); detail != "" {
			return badRequestError(detail)
		}
		return badRequestError("Bad request - " + string(body))
	case status >= http.StatusInternalServerError:
		return serverError(status)
	default:
		return unexpectedError(status, string(body))
	}
}

// endpointNotFound is the 404 message for route-level misses, where the
// endpoint itself is absent rather than an entity.
func (c *Client) endpointNotFound() string {
	return fmt.Sprintf("API endpoint not found at %s. Please check that the Autotask backend is running and up to date.", c.config.BaseURL)
}
