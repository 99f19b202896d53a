package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cyphera/custody-vault/internal/auth"
	"github.com/cyphera/custody-vault/internal/logger"
	"github.com/cyphera/custody-vault/internal/types/business"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// RetryConfig configures retry behavior. Mutating calls are retried only
// on 429, where the server guarantees nothing ran.
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryConfig provides sensible defaults for retries
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		MaxElapsedTime:  10 * time.Second,
	}
}

// Client calls the vault HTTP API, signing request bodies with the caller's key.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retry      RetryConfig
	logger     *zap.Logger
}

// APIError is a non-2xx response. It unwraps to the matching vault sentinel
// error when the server reported a known code.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Code       int    `json:"code"`
	Name       string `json:"name"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, e.Name, e.Message)
	}
	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	if vaultErr := business.ErrorByCode(e.Code); vaultErr != nil {
		return vaultErr
	}
	return nil
}

// NewClient creates a client for the API rooted at baseURL, e.g. http://localhost:8000.
func NewClient(baseURL string, options ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		retry:      DefaultRetryConfig(),
		logger:     logger.OrNop(nil),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetryConfig sets the retry configuration
func WithRetryConfig(config RetryConfig) ClientOption {
	return func(c *Client) {
		c.retry = config
	}
}

// WithLogger sets the client logger.
func WithLogger(log *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger.OrNop(log)
	}
}

type call struct {
	method string
	path   string
	query  url.Values
	body   any
	signer *solana.PrivateKey
}

func (c *Client) do(ctx context.Context, req call, target any) error {
	var payload []byte
	if req.body != nil {
		var err error
		if payload, err = json.Marshal(req.body); err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var signer, signature string
	if req.signer != nil {
		var err error
		if signer, signature, err = auth.SignBody(*req.signer, payload); err != nil {
			return fmt.Errorf("failed to sign request: %w", err)
		}
	}

	fullURL := c.baseURL + "/api/v1" + req.path
	if len(req.query) > 0 {
		fullURL += "?" + req.query.Encode()
	}

	var (
		status int
		body   []byte
	)
	operation := func() error {
		status, body = 0, nil
		httpReq, err := http.NewRequestWithContext(ctx, req.method, fullURL, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		httpReq.Header.Set("Accept", "application/json")
		if payload != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}
		if signer != "" {
			httpReq.Header.Set(auth.SignerHeader, signer)
			httpReq.Header.Set(auth.SignatureHeader, signature)
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			if req.method != http.MethodGet {
				return backoff.Permanent(err)
			}
			return err
		}
		defer resp.Body.Close()

		status = resp.StatusCode
		if body, err = io.ReadAll(resp.Body); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to read response: %w", err))
		}
		if c.retryable(req.method, status) {
			return fmt.Errorf("retryable status code: %d", status)
		}
		return nil
	}

	start := time.Now()
	if err := backoff.Retry(operation, backoff.WithContext(c.backoff(), ctx)); err != nil && status == 0 {
		c.logger.Error("Vault API request failed",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return fmt.Errorf("http request failed: %w", err)
	}

	if status >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: status, Method: req.method, Path: req.path}
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		c.logger.Debug("Vault API error response",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Int("status", status),
			zap.String("name", apiErr.Name))
		return apiErr
	}

	if target == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) retryable(method string, status int) bool {
	switch status {
	case http.StatusTooManyRequests:
		return true
	case http.StatusRequestTimeout, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return method == http.MethodGet
	}
	return false
}

func (c *Client) backoff() backoff.BackOff {
	if c.retry.MaxRetries <= 0 {
		return &backoff.StopBackOff{}
	}
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.retry.InitialInterval
	exp.MaxInterval = c.retry.MaxInterval
	exp.MaxElapsedTime = c.retry.MaxElapsedTime
	return backoff.WithMaxRetries(exp, uint64(c.retry.MaxRetries))
}

// IsNotFound reports whether err is a 404 from the vault API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func limitQuery(owner solana.PublicKey, limit int) url.Values {
	q := url.Values{}
	if !owner.IsZero() {
		q.Set("owner", owner.String())
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}
