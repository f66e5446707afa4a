package api

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

	"github.com/five82/storeadmin/internal/catalog"
	"github.com/five82/storeadmin/internal/requestid"
	"github.com/five82/storeadmin/internal/state"
)

// Ensure Client satisfies the backend interfaces at compile time.
var (
	_ state.ProductAPI = (*Client)(nil)
	_ state.UserAPI    = (*Client)(nil)
)

// Client talks to the admin REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	// DefaultBaseURL is used when no base is configured. It only resolves
	// through the in-process mock transport.
	DefaultBaseURL   = "http://storeadmin.mock"
	defaultUserAgent = "storeadmin/0.1"
	requestTimeout   = 5 * time.Second
)

// Option configures a Client.
type Option func(*Client)

// WithTransport routes requests through rt instead of the network.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = rt
	}
}

// WithTimeout bounds every request. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// NewClient builds a Client for baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// StatusError is returned for responses with status >= 400.
type StatusError struct {
	Status int
	Method string
	Path   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.Status)
}

// StatusCode exposes the HTTP status for error classification.
func (e *StatusError) StatusCode() int {
	return e.Status
}

// ListProducts retrieves every product.
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var payload []catalog.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetProduct retrieves one product.
func (c *Client) GetProduct(ctx context.Context, id int) (catalog.Product, error) {
	var payload catalog.Product
	if err := c.do(ctx, http.MethodGet, productPath(id), nil, &payload); err != nil {
		return catalog.Product{}, err
	}
	return payload, nil
}

// CreateProduct submits a new product and returns it with its assigned id.
func (c *Client) CreateProduct(ctx context.Context, input catalog.ProductInput) (catalog.Product, error) {
	var payload catalog.Product
	if err := c.do(ctx, http.MethodPost, "/products", input, &payload); err != nil {
		return catalog.Product{}, err
	}
	return payload, nil
}

// UpdateProduct patches one product and returns the stored result.
func (c *Client) UpdateProduct(ctx context.Context, id int, patch catalog.ProductPatch) (catalog.Product, error) {
	var payload catalog.Product
	if err := c.do(ctx, http.MethodPatch, productPath(id), patch, &payload); err != nil {
		return catalog.Product{}, err
	}
	return payload, nil
}

// DeleteProduct removes one product. The backend echoes the deleted record
// when it has one.
func (c *Client) DeleteProduct(ctx context.Context, id int) (*catalog.Product, error) {
	var payload *catalog.Product
	if err := c.do(ctx, http.MethodDelete, productPath(id), nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ListCategories retrieves the distinct product categories.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var payload []string
	if err := c.do(ctx, http.MethodGet, "/products/categories", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ListUsers retrieves every user.
func (c *Client) ListUsers(ctx context.Context) ([]catalog.User, error) {
	var payload []catalog.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetUser retrieves one user.
func (c *Client) GetUser(ctx context.Context, id int) (catalog.User, error) {
	var payload catalog.User
	if err := c.do(ctx, http.MethodGet, userPath(id), nil, &payload); err != nil {
		return catalog.User{}, err
	}
	return payload, nil
}

// UpdateUser patches one user.
func (c *Client) UpdateUser(ctx context.Context, id int, patch catalog.UserPatch) (catalog.User, error) {
	var payload catalog.User
	if err := c.do(ctx, http.MethodPatch, userPath(id), patch, &payload); err != nil {
		return catalog.User{}, err
	}
	return payload, nil
}

// DeleteUser removes one user.
func (c *Client) DeleteUser(ctx context.Context, id int) (*catalog.User, error) {
	var payload *catalog.User
	if err := c.do(ctx, http.MethodDelete, userPath(id), nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func productPath(id int) string { return "/products/" + strconv.Itoa(id) }
func userPath(id int) string    { return "/users/" + strconv.Itoa(id) }

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := requestid.From(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &StatusError{Status: resp.StatusCode, Method: method, Path: path}
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
