package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/five82/songrater/internal/resource"
)

// Collections defines the CRUD operations on a remote entity collection.
// This interface is implemented by *Client and can be used for testing.
type Collections interface {
	List(ctx context.Context, s resource.Schema) ([]resource.Entity, error)
	Create(ctx context.Context, s resource.Schema, e resource.Entity) (resource.Entity, error)
	Update(ctx context.Context, s resource.Schema, e resource.Entity) (resource.Entity, error)
	Delete(ctx context.Context, s resource.Schema, e resource.Entity) error
}

// Ensure Client implements Collections at compile time.
var _ Collections = (*Client)(nil)

// Client talks to the songrater REST API.
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	userAgent  string
	logger     *slog.Logger
	retryDelay time.Duration
	requestID  func() string
}

const (
	defaultAPIURL     = "127.0.0.1:8000"
	defaultUserAgent  = "songrater/0.1"
	requestTimeout    = 5 * time.Second
	readRetryDelay    = 200 * time.Millisecond
	maxErrorBodyBytes = 512
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetryDelay sets the pause before a failed read is retried.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.retryDelay = d
		}
	}
}

// NewClient builds a Client for the API at apiURL. A bare host:port is
// treated as http.
func NewClient(apiURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent:  defaultUserAgent,
		logger:     slog.New(slog.DiscardHandler),
		retryDelay: readRetryDelay,
		requestID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL.String()
}

// List retrieves the full collection. A transient failure is retried once.
func (c *Client) List(ctx context.Context, s resource.Schema) ([]resource.Entity, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	rel := collectionURL(s)

	var items []resource.Entity
	err := c.do(ctx, http.MethodGet, rel, nil, &items)
	if err != nil && IsTransient(err) && ctx.Err() == nil {
		c.logger.Warn("read failed, retrying once",
			slog.String("resource", s.Name),
			slog.String("error", err.Error()))
		timer := time.NewTimer(c.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("list %s: %w", s.Name, ctx.Err())
		case <-timer.C:
		}
		items = nil
		err = c.do(ctx, http.MethodGet, rel, nil, &items)
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.Name, err)
	}
	return items, nil
}

// Create posts a new entity and returns the server's copy. Entities that
// already carry an id are rejected; use Update for those.
func (c *Client) Create(ctx context.Context, s resource.Schema, e resource.Entity) (resource.Entity, error) {
	if c == nil {
		return resource.Entity{}, fmt.Errorf("client is nil")
	}
	if e.Persisted() {
		return resource.Entity{}, fmt.Errorf("create %s: entity already has an id", s.Name)
	}
	created := e
	if err := c.do(ctx, http.MethodPost, collectionURL(s), e, &created); err != nil {
		return resource.Entity{}, fmt.Errorf("create %s: %w", s.Name, err)
	}
	return created, nil
}

// Update replaces the entity identified by e's id.
func (c *Client) Update(ctx context.Context, s resource.Schema, e resource.Entity) (resource.Entity, error) {
	if c == nil {
		return resource.Entity{}, fmt.Errorf("client is nil")
	}
	id, ok := e.ID()
	if !ok {
		return resource.Entity{}, fmt.Errorf("update %s: %w", s.Name, ErrNoID)
	}
	updated := e
	if err := c.do(ctx, http.MethodPut, itemURL(s, id), e, &updated); err != nil {
		return resource.Entity{}, fmt.Errorf("update %s %d: %w", s.Name, id, err)
	}
	return updated, nil
}

// Delete removes the entity identified by e's id.
func (c *Client) Delete(ctx context.Context, s resource.Schema, e resource.Entity) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	id, ok := e.ID()
	if !ok {
		return fmt.Errorf("delete %s: %w", s.Name, ErrNoID)
	}
	if err := c.do(ctx, http.MethodDelete, itemURL(s, id), nil, nil); err != nil {
		return fmt.Errorf("delete %s %d: %w", s.Name, id, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := c.requestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			slog.String("request_id", requestID),
			slog.String("method", method),
			slog.String("path", rel.Path),
			slog.String("error", err.Error()))
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request complete",
		slog.String("request_id", requestID),
		slog.String("method", method),
		slog.String("path", rel.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &StatusError{
			Method: method,
			Path:   rel.Path,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(snippet)),
		}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty body; keep whatever the caller seeded dest with.
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func collectionURL(s resource.Schema) *url.URL {
	return &url.URL{Path: collectionPath(s)}
}

func itemURL(s resource.Schema, id int64) *url.URL {
	return &url.URL{Path: collectionPath(s) + strconv.FormatInt(id, 10) + "/"}
}

func collectionPath(s resource.Schema) string {
	p := strings.TrimSpace(s.Path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
