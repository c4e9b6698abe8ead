package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/sahilmate/multi-agent-form-processing-system/pkg/logger"
)

func TestNewBackendService(t *testing.T) {
	svc := NewBackendService("http://backend.test:8000", 15*time.Second)
	if svc == nil {
		t.Fatal("Expected non-nil service")
	}
	if svc.baseURL != "http://backend.test:8000" {
		t.Errorf("Expected base URL to be set, got %s", svc.baseURL)
	}
	if svc.httpClient.Timeout.Seconds() != 15 {
		t.Errorf("Expected 15s timeout, got %v", svc.httpClient.Timeout)
	}

	if NewBackendService("http://x", 0).httpClient.Timeout != 0 {
		t.Error("Expected no timeout when unset")
	}
}

func TestBackendServiceForward(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PUT" {
			t.Errorf("Expected PUT, got %s", r.Method)
		}
		if r.URL.Path != "/api/admin/submissions/abc/status" {
			t.Errorf("Expected submission status path, got %s", r.URL.Path)
		}
		if r.URL.RawQuery != "note=x" {
			t.Errorf("Expected query to be preserved, got %s", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Error("Expected Authorization header")
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected JSON content type, got %s", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"status":"completed"}` {
			t.Errorf("Unexpected body: %s", body)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer server.Close()

	svc := NewBackendService(server.URL, 0)
	body, err := JSONBody(map[string]string{"status": "completed"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	resp, err := svc.Forward(context.Background(), &ForwardRequest{
		Method:        "PUT",
		Path:          "/api/admin/submissions/abc/status",
		RawQuery:      "note=x",
		Authorization: "Bearer test-token",
		ContentType:   "application/json",
		Body:          body,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("Expected status 202, got %d", resp.StatusCode)
	}
	if !resp.OK() {
		t.Error("Expected OK for 202")
	}
	if string(resp.Body) != `{"message":"ok"}` {
		t.Errorf("Unexpected body: %s", resp.Body)
	}
}

func TestBackendServiceForwardRelaysErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Submission not found"}`))
	}))
	defer server.Close()

	svc := NewBackendService(server.URL, 0)
	resp, err := svc.Forward(context.Background(), &ForwardRequest{Method: "GET", Path: "/api/citizens/submissions/missing"})
	if err != nil {
		t.Fatalf("Expected non-2xx to be a result, got error %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}
	if resp.OK() {
		t.Error("Expected OK to be false")
	}
}

func TestBackendServiceForwardPropagatesRequestID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") != "req-42" {
			t.Errorf("Expected request id header, got %q", r.Header.Get("X-Request-ID"))
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("Expected no Authorization header when none supplied")
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	ctx := context.WithValue(context.Background(), logger.RequestIDKey, "req-42")
	svc := NewBackendService(server.URL, 0)
	resp, err := svc.Forward(ctx, &ForwardRequest{Method: "GET", Path: "/health"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(resp.Body) != 0 {
		t.Errorf("Expected empty body, got %q", resp.Body)
	}
}

func TestBackendServiceForwardTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	svc := NewBackendService(addr, 0)
	_, err := svc.Forward(context.Background(), &ForwardRequest{Method: "GET", Path: "/api/admin/me"})
	if err == nil {
		t.Fatal("Expected error for unreachable backend")
	}
	if !strings.Contains(err.Error(), "failed to send request") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestBackendServiceForwardCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewBackendService(server.URL, 0)
	if _, err := svc.Forward(ctx, &ForwardRequest{Method: "GET", Path: "/"}); err == nil {
		t.Error("Expected error with cancelled context")
	}
}

func TestForwardResponseIsJSON(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected bool
	}{
		{"object", `{"a":1}`, true},
		{"array", `[1,2]`, true},
		{"padded", "  {\"a\":1}\n", true},
		{"empty", "", false},
		{"whitespace", "   ", false},
		{"html", "<html>Bad Gateway</html>", false},
		{"truncated", `{"a":`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &ForwardResponse{StatusCode: 200, Body: []byte(tt.body)}
			if resp.IsJSON() != tt.expected {
				t.Errorf("Expected IsJSON %v for %q", tt.expected, tt.body)
			}
		})
	}
}

func TestFormBody(t *testing.T) {
	body, _ := io.ReadAll(FormBody(url.Values{"username": {"jane doe"}, "password": {"p&ss"}}))
	values, err := url.ParseQuery(string(body))
	if err != nil {
		t.Fatalf("Failed to parse encoded form: %v", err)
	}
	if values.Get("username") != "jane doe" || values.Get("password") != "p&ss" {
		t.Errorf("Unexpected form values: %v", values)
	}
}
