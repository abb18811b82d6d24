// Package client is the HTTP client the admin console uses to talk to the API.
//
// Collection endpoints may answer with a bare JSON array or with an envelope carrying the array
// under "data"; single-item endpoints likewise may or may not be enveloped. Both shapes are
// normalised here so callers only ever see typed values.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/models"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned status %d", e.Status)
	}
	return fmt.Sprintf("api returned status %d: %s", e.Status, e.Message)
}

// MessageOf returns the server-supplied message of err, or fallback when there is none.
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return fallback
}

// Client calls the college administration API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a client rooted at baseURL, e.g. http://localhost:8080/api/v1.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, e.g. after Login.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp.StatusCode, raw)
	}
	return raw, nil
}

func decodeError(status int, raw []byte) *APIError {
	apiErr := &APIError{Status: status}
	var body struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		apiErr.Message = strings.TrimSpace(string(raw))
		return apiErr
	}
	apiErr.Message = body.Message

	var typed struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if len(body.Error) > 0 && json.Unmarshal(body.Error, &typed) == nil {
		apiErr.Code = typed.Code
		if apiErr.Message == "" {
			apiErr.Message = typed.Message
		}
	} else if apiErr.Message == "" && len(body.Error) > 0 {
		var plain string
		if json.Unmarshal(body.Error, &plain) == nil {
			apiErr.Message = plain
		}
	}
	return apiErr
}

// decodeList accepts either a bare array or an object with the array under "data".
// decodePagination returns the envelope's pagination block, or nil when the body carries none.
func decodePagination(raw []byte) *models.Pagination {
	var env struct {
		Pagination *models.Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(raw), &env); err != nil {
		return nil
	}
	return env.Pagination
}

func decodeList[T any](raw []byte) ([]T, error) {
	trimmed := normalizeIDs(bytes.TrimSpace(raw))
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}
	if trimmed[0] == '{' {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("decode list envelope: %w", err)
		}
		return decodeList[T](env.Data)
	}

	var items []T
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// decodeItem accepts either the bare document or an object with it under "data".
func decodeItem[T any](raw []byte) (*T, error) {
	trimmed := normalizeIDs(bytes.TrimSpace(raw))
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err == nil {
		if data, ok := fields["data"]; ok && len(bytes.TrimSpace(data)) > 0 && bytes.TrimSpace(data)[0] == '{' {
			trimmed = data
		}
	}
	var item T
	if err := json.Unmarshal(trimmed, &item); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	return &item, nil
}

// normalizeIDs copies "_id" into "id" wherever a document lacks "id", at any depth.
func normalizeIDs(raw []byte) []byte {
	if !bytes.Contains(raw, []byte(`"_id"`)) {
		return raw
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return raw
	}
	rewriteIDs(doc)
	out, err := json.Marshal(doc)
	if err != nil {
		return raw
	}
	return out
}

func rewriteIDs(node interface{}) {
	switch typed := node.(type) {
	case map[string]interface{}:
		if legacy, ok := typed["_id"]; ok {
			if _, has := typed["id"]; !has {
				typed["id"] = legacy
			}
			delete(typed, "_id")
		}
		for _, child := range typed {
			rewriteIDs(child)
		}
	case []interface{}:
		for _, child := range typed {
			rewriteIDs(child)
		}
	}
}
