// Package client is a typed client for the gateway's admin and citizen APIs,
// with the session handling and list state a portal needs.
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
)

// User-facing errors. Their text is shown to the user as is.
var (
	// ErrSessionExpired means the gateway answered 401; the caller should log in again.
	ErrSessionExpired     = errors.New("Session expired. Please log in again")
	ErrSubmissionNotFound = errors.New("Submission Not Found")
	ErrEmptyText          = errors.New("Please enter some text to process")
	ErrInvalidFileType    = errors.New("Invalid file type. Please upload a PNG, JPEG, or PDF file.")
	ErrFileTooLarge       = errors.New("File is too large. The maximum upload size is 10 MB.")
	ErrNoFile             = errors.New("Please select a file to upload")
	ErrInvalidStatus      = errors.New("Please select a status")
	ErrEmptyComment       = errors.New("Please enter a comment")
)

// APIError is a non-2xx reply. Detail is the backend's detail message when
// one was sent.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("gateway returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("gateway returned %d", e.Status)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Client talks to one gateway on behalf of one session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

type Option func(*Client)

// WithHTTPClient replaces the default client, which has no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, session *Session, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		session:    session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *Session {
	return c.session
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	// token overrides the session token when set
	token string
	// anonymous suppresses the Authorization header
	anonymous bool
}

// do sends req and decodes a 2xx JSON reply into out (which may be nil).
func (c *Client) do(ctx context.Context, req request, out any) error {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, req.body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	httpReq.Header.Set("Accept", "application/json")

	if !req.anonymous {
		token := req.token
		if token == "" {
			if token, err = c.session.Token(); err != nil {
				return fmt.Errorf("failed to read token: %w", err)
			}
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Detail: parseDetail(body)}
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query}, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, request{
		method:      method,
		path:        path,
		body:        bytes.NewReader(data),
		contentType: "application/json",
	}, out)
}

// parseDetail extracts "detail" (or "message") from an error body. Validation
// errors arrive as a list and are returned as raw JSON.
func parseDetail(body []byte) string {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			return s
		}
		return string(payload.Detail)
	}
	return payload.Message
}

// expire applies the 401 policy of a call: with logout the session is cleared.
// Any other error is returned unchanged.
func (c *Client) expire(err error, logout bool) error {
	if StatusOf(err) != http.StatusUnauthorized {
		return err
	}
	if logout {
		c.session.Clear()
	}
	return ErrSessionExpired
}

func escape(id string) string {
	return url.PathEscape(id)
}
