package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
)

// maxResponseBytes bounds how much of a response body is buffered.
const maxResponseBytes = 64 << 20

type Connector struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	retryOpts  []retry.Option
}

type ConnectorConfig struct {
	BaseURL string
	Logger  *zap.Logger
	// Retry options applied around every request. Empty means a single attempt.
	Retry []retry.Option
}

func NewConnector(config *ConnectorConfig, options ...ClientOption) *Connector {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Connector{
		baseURL:    config.BaseURL,
		httpClient: newClient(options...),
		logger:     logger,
		retryOpts:  config.Retry,
	}
}

// BaseURL returns the service root the connector was built with.
func (c *Connector) BaseURL() string {
	return c.baseURL
}

type RequestOpt func(*requestConfig)

type requestConfig struct {
	headers     map[string]string
	overrideURL string
}

func WithHeader(key, value string) RequestOpt {
	return func(c *requestConfig) {
		if c.headers == nil {
			c.headers = make(map[string]string)
		}
		c.headers[key] = value
	}
}

func WithURL(url string) RequestOpt {
	return func(c *requestConfig) {
		c.overrideURL = url
	}
}

func (c *Connector) resolve(endpoint string, opts []RequestOpt) (string, *requestConfig) {
	cfg := &requestConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.overrideURL != "" {
		return cfg.overrideURL, cfg
	}
	return c.baseURL + endpoint, cfg
}

// DoRequest sends reqBody as JSON and decodes a JSON answer into respBody.
// Transient failures are retried according to the connector's retry options.
func (c *Connector) DoRequest(ctx context.Context, method, endpoint string, reqBody, respBody any, opts ...RequestOpt) error {
	url, cfg := c.resolve(endpoint, opts)

	var rawBody []byte
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		rawBody = jsonData
		// Attach payload to context for logging transport
		ctx = context.WithValue(ctx, payloadContextKey{}, rawBody)
	}

	bodyBytes, err := c.do(ctx, func() (*http.Request, error) {
		var bodyReader io.Reader
		if rawBody != nil {
			bodyReader = bytes.NewReader(rawBody)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return nil, err
		}

		if rawBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")

		for key, value := range cfg.headers {
			req.Header.Set(key, value)
		}
		return req, nil
	})
	if err != nil {
		return err
	}

	if respBody != nil && len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, respBody); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// Download fetches the raw body behind url with a GET request.
func (c *Connector) Download(ctx context.Context, url string) ([]byte, error) {
	return c.do(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	})
}

func (c *Connector) do(ctx context.Context, newRequest func() (*http.Request, error)) ([]byte, error) {
	var bodyBytes []byte

	attempt := func() error {
		req, err := newRequest()
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &NetworkError{Err: err}
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return fmt.Errorf("read response body: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &HTTPError{
				StatusCode: resp.StatusCode,
				Message:    string(data),
			}
		}

		bodyBytes = data
		return nil
	}

	opts := append([]retry.Option{
		retry.Context(ctx),
		retry.Attempts(1),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsRetryable),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("retrying HTTP request",
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	}, c.retryOpts...)

	if err := retry.Do(attempt, opts...); err != nil {
		return nil, err
	}

	return bodyBytes, nil
}
