// Package platform implements the REST client for the funding-rate
// arbitrage platform API. All responses share a {code, message, data}
// envelope; a non-zero code maps to *APIError. Requests are throttled,
// retried with exponential backoff and guarded by a circuit breaker.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ducminhle1904/funding-arb-advisor/internal/monitoring"
)

const (
	breakerMaxFailures  = 5
	breakerResetTimeout = 30 * time.Second
)

// Config holds the settings needed to construct a Client.
type Config struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	RequestsPerSec float64
	Burst          int
	Retry          RetryConfig
}

// Client is an authenticated platform API client, safe for concurrent
// use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	breaker *CircuitBreaker
	retry   RetryConfig
	log     *zap.Logger
}

// NewClient validates the configuration and builds a client.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("platform base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("platform API key is required (set %s)", "FUNDING_ARB_API_KEY")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.Retry.MaxRetries == 0 && cfg.Retry.InitialDelay == 0 {
		cfg.Retry = DefaultRetryConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
		breaker: NewCircuitBreaker(breakerMaxFailures, breakerResetTimeout),
		retry:   cfg.Retry,
		log:     log.Named("platform"),
	}, nil
}

// envelope is the platform's uniform response wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do performs one logical API call: throttle, send, retry retryable
// failures, unwrap the envelope into out. The endpoint label keys the
// request metrics.
func (c *Client) do(ctx context.Context, endpoint, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", endpoint, err)
		}
	}

	return retryWithConfig(ctx, c.retry, func() error {
		return c.breaker.Call(func() error {
			return c.doOnce(ctx, endpoint, method, path, query, payload, out)
		})
	})
}

func (c *Client) doOnce(ctx context.Context, endpoint, method, path string, query url.Values, payload []byte, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	monitoring.ObservePlatformRequest(endpoint, elapsed.Seconds())

	if err != nil {
		monitoring.RecordPlatformError(endpoint)
		c.log.Warn("request failed",
			zap.String("endpoint", endpoint),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		monitoring.RecordPlatformError(endpoint)
		return fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}

	var env envelope
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		monitoring.RecordPlatformError(endpoint)
		apiErr := &APIError{
			Code:       resp.StatusCode,
			Message:    strings.TrimSpace(string(raw)),
			HTTPStatus: resp.StatusCode,
			Endpoint:   endpoint,
		}
		// Prefer the platform's own code/message when the error body
		// still carries the envelope.
		if jsonErr := json.Unmarshal(raw, &env); jsonErr == nil && env.Code != 0 {
			apiErr.Code = env.Code
			apiErr.Message = env.Message
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if err := json.Unmarshal(raw, &env); err != nil {
		monitoring.RecordPlatformError(endpoint)
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	if env.Code != 0 {
		monitoring.RecordPlatformError(endpoint)
		return &APIError{Code: env.Code, Message: env.Message, HTTPStatus: resp.StatusCode, Endpoint: endpoint}
	}

	c.log.Debug("request ok",
		zap.String("endpoint", endpoint),
		zap.Duration("elapsed", elapsed))

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", endpoint, err)
	}
	return nil
}
