// Package client talks to the ems API the way the web front end does: it logs in, keeps
// the bearer token in a local session file, gates screens with route guards, and drives
// the department list and form views.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/user/ems-go/auth"
	"github.com/user/ems-go/dashboard"
	"github.com/user/ems-go/departments"
	"github.com/user/ems-go/users"
)

// FallbackErrorMessage is shown when the server gave no usable error text.
const FallbackErrorMessage = "Server error occurred. Please try again later."

// APIError is a non-2xx answer from the API. Message is the server's `error` field,
// meant to be shown to the user verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// ErrorMessage returns the text a view should display for err.
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return FallbackErrorMessage
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client is a small typed wrapper over the REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a Client for the API at baseURL (for example http://localhost:5000).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current bearer token.
func (c *Client) Token() string { return c.token }

// Login exchanges credentials for a token. On success the token is kept for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*auth.LoginResponse, error) {
	var resp auth.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", auth.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// Verify returns the user the current token belongs to.
func (c *Client) Verify(ctx context.Context) (*users.User, error) {
	var resp auth.VerifyResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/verify", nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) ListDepartments(ctx context.Context) ([]*departments.Department, error) {
	var resp departments.ListResponse
	if err := c.do(ctx, http.MethodGet, "/api/department", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Departments, nil
}

func (c *Client) GetDepartment(ctx context.Context, id string) (*departments.Department, error) {
	var resp departments.ItemResponse
	if err := c.do(ctx, http.MethodGet, "/api/department/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Department, nil
}

func (c *Client) CreateDepartment(ctx context.Context, req departments.CreateRequest) (*departments.Department, error) {
	var resp departments.ItemResponse
	if err := c.do(ctx, http.MethodPost, "/api/department/add", req, &resp); err != nil {
		return nil, err
	}
	return resp.Department, nil
}

func (c *Client) UpdateDepartment(ctx context.Context, id string, req departments.UpdateRequest) (*departments.Department, error) {
	var resp departments.ItemResponse
	if err := c.do(ctx, http.MethodPut, "/api/department/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, err
	}
	return resp.Department, nil
}

// DeleteDepartment deletes the department and returns the record as it was.
func (c *Client) DeleteDepartment(ctx context.Context, id string) (*departments.Department, error) {
	var resp departments.ItemResponse
	if err := c.do(ctx, http.MethodDelete, "/api/department/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Department, nil
}

func (c *Client) DashboardSummary(ctx context.Context) (*dashboard.Summary, error) {
	var resp dashboard.SummaryResponse
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/summary", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Summary, nil
}

// do sends one request and decodes a 2xx body into out. Non-2xx answers become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &envelope)
		return &APIError{Status: resp.StatusCode, Message: envelope.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
