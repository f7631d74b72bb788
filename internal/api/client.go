// Package api is the REST client for the streaming backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	defaultRetryWait  = 500 * time.Millisecond

	maxResponseBytes = 4 << 20
)

// TokenSource supplies the bearer token sent with each request.
// An empty token sends the request unauthenticated.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token() (string, error) { return string(t), nil }

// Options configures a Client. Zero values use the defaults.
type Options struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	MaxRetries int           // retries after the first attempt; negative disables
	RetryWait  time.Duration // base wait, doubled on every retry
	Logger     *zap.Logger
}

// Client is a backend API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	maxRetries int
	retryWait  time.Duration
	logger     *zap.Logger
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, tokens TokenSource, opts Options) *Client {
	c := &Client{
		httpClient: opts.HTTPClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		maxRetries: opts.MaxRetries,
		retryWait:  opts.RetryWait,
		logger:     opts.Logger,
	}
	if c.httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	if c.maxRetries == 0 {
		c.maxRetries = defaultMaxRetries
	}
	if c.maxRetries < 0 {
		c.maxRetries = 0
	}
	if c.retryWait <= 0 {
		c.retryWait = defaultRetryWait
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.tokens == nil {
		c.tokens = StaticToken("")
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.request(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string) error {
	return c.request(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.request(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) request(ctx context.Context, method, path string, body, result any) error {
	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuthRequired, err)
	}

	var jsonBody []byte
	if body != nil {
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	requestID := uuid.NewString()
	log := c.logger.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID))
	log.Debug("api request")

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.retryWait * time.Duration(1<<(attempt-1))
			log.Debug("api retry",
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %w", ErrNetwork, ctx.Err())
			case <-time.After(wait):
			}
		}

		err := c.do(ctx, method, path, token, requestID, jsonBody, result)
		if err == nil {
			return nil
		}
		if !retryable(err) || ctx.Err() != nil {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("request failed after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) do(
	ctx context.Context,
	method, path, token, requestID string,
	jsonBody []byte,
	result any,
) error {
	var bodyReader io.Reader
	if jsonBody != nil {
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if jsonBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrNetwork, err)
	}

	if resp.StatusCode >= 400 {
		return newStatusError(resp.StatusCode, requestID, respBody)
	}
	if result == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("%w: parse response: %w", ErrNetwork, err)
	}
	return nil
}

func newStatusError(status int, requestID string, body []byte) *StatusError {
	e := &StatusError{Status: status, RequestID: requestID, Err: classify(status)}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		e.Message = eb.Error
		if e.Message == "" {
			e.Message = eb.Message
		}
	}
	return e
}

// retryable reports whether err is a transport failure or a 5xx.
func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return false
	}
	return errors.Is(err, ErrNetwork)
}
