package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/sahilmate/multi-agent-form-processing-system/middleware"
	"github.com/sahilmate/multi-agent-form-processing-system/pkg/logger"
	"github.com/sahilmate/multi-agent-form-processing-system/service"
)

const (
	detailInternalError   = "Internal server error"
	detailInvalidResponse = "Invalid response from server"
)

var errInvalidBackendJSON = errors.New("backend returned a body that is not JSON")

// Forwarder sends one request to the backend. *service.BackendService is the
// production implementation.
type Forwarder interface {
	Forward(ctx context.Context, req *service.ForwardRequest) (*service.ForwardResponse, error)
}

// Proxy holds what every route needs to forward and relay.
type Proxy struct {
	backend Forwarder
}

func NewProxy(backend Forwarder) *Proxy {
	return &Proxy{backend: backend}
}

// forward sends req with the caller's Authorization header and writes the
// backend reply back to the client.
func (p *Proxy) forward(c *gin.Context, req *service.ForwardRequest) {
	if req.Authorization == "" {
		req.Authorization = middleware.GetAuthorization(c)
	}
	resp, err := p.backend.Forward(c.Request.Context(), req)
	p.relay(c, req, resp, err)
}

// relay is the single place backend replies become client responses. The
// status is always the backend's own; only the body may be replaced.
func (p *Proxy) relay(c *gin.Context, req *service.ForwardRequest, resp *service.ForwardResponse, err error) {
	ctx := c.Request.Context()

	if err != nil {
		logger.Error(ctx, "backend request failed", "method", req.Method, "path", req.Path, "error", err)
		internalError(c, err)
		return
	}
	middleware.SetUpstream(c, req.Path, resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusNoContent:
		c.Status(http.StatusNoContent)
	case resp.IsJSON():
		c.Data(resp.StatusCode, "application/json; charset=utf-8", resp.Body)
	case resp.OK():
		logger.Error(ctx, "backend returned non-JSON success body", "path", req.Path, "status", resp.StatusCode)
		internalError(c, errInvalidBackendJSON)
	default:
		logger.Warn(ctx, "backend returned non-JSON error body", "path", req.Path, "status", resp.StatusCode)
		c.JSON(resp.StatusCode, gin.H{"detail": detailInvalidResponse})
	}
}

func internalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"detail": detailInternalError,
		"error":  err.Error(),
	})
}

// bodyError answers a failed read of the client's body: 413 past the body
// limit, 500 otherwise.
func bodyError(c *gin.Context, err error) {
	if middleware.IsBodyTooLarge(err) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": middleware.BodyTooLargeDetail})
		return
	}
	internalError(c, err)
}

func badRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": detail})
}

// get forwards a bodiless request, keeping the client's query string.
func (p *Proxy) get(c *gin.Context, path string) {
	p.forward(c, &service.ForwardRequest{
		Method:   http.MethodGet,
		Path:     path,
		RawQuery: c.Request.URL.RawQuery,
	})
}

// send forwards a bodiless non-GET request.
func (p *Proxy) send(c *gin.Context, method, path string) {
	p.forward(c, &service.ForwardRequest{Method: method, Path: path})
}

// sendJSON re-encodes the client's JSON body and forwards it.
func (p *Proxy) sendJSON(c *gin.Context, method, path string) {
	payload, err := readJSON(c)
	if err != nil {
		logger.Warn(c.Request.Context(), "unreadable JSON request body", "path", path, "error", err)
		bodyError(c, err)
		return
	}
	p.forwardJSON(c, method, path, payload)
}

func (p *Proxy) forwardJSON(c *gin.Context, method, path string, payload any) {
	body, err := service.JSONBody(payload)
	if err != nil {
		internalError(c, err)
		return
	}
	p.forward(c, &service.ForwardRequest{
		Method:      method,
		Path:        path,
		ContentType: "application/json",
		Body:        body,
	})
}

// readJSON decodes the request body into a generic value, keeping numbers
// exactly as sent.
func readJSON(c *gin.Context) (any, error) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// readForm returns the fields of a multipart or urlencoded body. ParseForm
// runs first so that urlencoded read errors are not masked by ErrNotMultipart.
func readForm(c *gin.Context) (url.Values, error) {
	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	return c.Request.PostForm, nil
}

// param returns a path parameter escaped for reuse in a backend path.
func param(c *gin.Context, name string) string {
	return url.PathEscape(c.Param(name))
}
