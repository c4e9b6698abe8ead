package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sahilmate/multi-agent-form-processing-system/pkg/logger"
)

// BackendService forwards gateway requests to the form-processing backend
type BackendService struct {
	baseURL    string
	httpClient *http.Client
}

// ForwardRequest describes one outbound call. Body may be nil.
type ForwardRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	ContentType   string
	Body          io.Reader
}

// ForwardResponse is the backend's reply, read fully into memory
type ForwardResponse struct {
	StatusCode int
	Body       []byte
}

// NewBackendService targets baseURL. A zero timeout leaves each request
// bounded only by the caller's context.
func NewBackendService(baseURL string, timeout time.Duration) *BackendService {
	return &BackendService{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Forward sends req to the backend and returns its status and body unchanged.
// Only transport and read failures are errors; any HTTP status is a result.
func (s *BackendService) Forward(ctx context.Context, req *ForwardRequest) (*ForwardResponse, error) {
	target := s.baseURL + req.Path
	if req.RawQuery != "" {
		target += "?" + req.RawQuery
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if req.Authorization != "" {
		httpReq.Header.Set("Authorization", req.Authorization)
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	if requestID, ok := ctx.Value(logger.RequestIDKey).(string); ok && requestID != "" {
		httpReq.Header.Set("X-Request-ID", requestID)
	}

	logger.Debug(ctx, "forwarding request to backend", "method", req.Method, "url", target)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	logger.Debug(ctx, "backend responded", "status", resp.StatusCode, "bytes", len(body))

	return &ForwardResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

// OK reports a 2xx status.
func (r *ForwardResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsJSON reports whether the body is a single well-formed JSON value.
func (r *ForwardResponse) IsJSON() bool {
	body := bytes.TrimSpace(r.Body)
	return len(body) > 0 && json.Valid(body)
}

// JSONBody wraps v as a forward body.
func JSONBody(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return bytes.NewReader(data), nil
}

// FormBody encodes values as application/x-www-form-urlencoded.
func FormBody(values url.Values) io.Reader {
	return bytes.NewBufferString(values.Encode())
}
