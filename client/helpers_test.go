package client

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

type gatewayCall struct {
	Method        string
	Path          string
	Query         url.Values
	Authorization string
	ContentType   string
	Body          []byte
}

// fakeGateway answers registered "METHOD /path" routes and records every call.
// Unregistered routes get 404.
type fakeGateway struct {
	*httptest.Server

	mu     sync.Mutex
	calls  []gatewayCall
	routes map[string]http.HandlerFunc
}

func newFakeGateway(t *testing.T) *fakeGateway {
	t.Helper()
	g := &fakeGateway{routes: make(map[string]http.HandlerFunc)}
	g.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		key := r.Method + " " + r.URL.Path

		g.mu.Lock()
		g.calls = append(g.calls, gatewayCall{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.Query(),
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			Body:          body,
		})
		handler, ok := g.routes[key]
		g.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"Not Found"}`))
			return
		}
		handler(w, r)
	}))
	t.Cleanup(g.Close)
	return g
}

func (g *fakeGateway) reply(route string, status int, body string) {
	g.handle(route, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	})
}

func (g *fakeGateway) handle(route string, fn http.HandlerFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.routes[route] = fn
}

func (g *fakeGateway) Calls() []gatewayCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]gatewayCall(nil), g.calls...)
}

func (g *fakeGateway) count(route string) int {
	n := 0
	for _, c := range g.Calls() {
		if c.Method+" "+c.Path == route {
			n++
		}
	}
	return n
}

func newTestClient(t *testing.T, g *fakeGateway, scope Scope, token string) *Client {
	t.Helper()
	session := NewSession(scope, NewMemoryStore())
	if token != "" {
		if err := session.SetToken(token); err != nil {
			t.Fatalf("failed to seed token: %v", err)
		}
	}
	return New(g.URL, session)
}

// recordingNotifier keeps every notice.
type recordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recordingNotifier) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingNotifier) all() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}
