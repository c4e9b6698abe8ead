package handler

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sahilmate/multi-agent-form-processing-system/middleware"
	"github.com/sahilmate/multi-agent-form-processing-system/pkg/logger"
	"github.com/sahilmate/multi-agent-form-processing-system/service"
)

// maxUploadMemory bounds the in-memory part of a parsed multipart body;
// larger files spill to temp files.
const maxUploadMemory = 32 << 20

const (
	detailCredentialsRequired = "Username and password are required"
	detailNoFile              = "No file uploaded"
	detailNoText              = "No text provided"
)

// CitizenHandler serves /api/citizens/*, which maps one to one onto the
// backend's /api/citizens/*.
type CitizenHandler struct {
	proxy   *Proxy
	archive service.UploadArchiver
}

// NewCitizenHandler builds the handler. archive may be nil.
func NewCitizenHandler(proxy *Proxy, archive service.UploadArchiver) *CitizenHandler {
	return &CitizenHandler{proxy: proxy, archive: archive}
}

// Token exchanges citizen credentials for a bearer token.
func (h *CitizenHandler) Token(c *gin.Context) {
	form, err := readForm(c)
	if err != nil {
		logger.Warn(c.Request.Context(), "unreadable login form", "error", err)
		bodyError(c, err)
		return
	}

	username, password := form.Get("username"), form.Get("password")
	if username == "" || password == "" {
		badRequest(c, detailCredentialsRequired)
		return
	}

	h.proxy.forward(c, &service.ForwardRequest{
		Method:      http.MethodPost,
		Path:        "/api/citizens/token",
		ContentType: "application/x-www-form-urlencoded",
		Body:        service.FormBody(url.Values{"username": {username}, "password": {password}}),
	})
}

func (h *CitizenHandler) Register(c *gin.Context) {
	h.proxy.sendJSON(c, http.MethodPost, "/api/citizens/register")
}

func (h *CitizenHandler) Profile(c *gin.Context) {
	h.proxy.get(c, "/api/citizens/profile")
}

func (h *CitizenHandler) UpdateProfile(c *gin.Context) {
	h.proxy.sendJSON(c, http.MethodPut, "/api/citizens/profile")
}

func (h *CitizenHandler) ListSubmissions(c *gin.Context) {
	h.proxy.get(c, "/api/citizens/submissions")
}

func (h *CitizenHandler) GetSubmission(c *gin.Context) {
	h.proxy.get(c, "/api/citizens/submissions/"+param(c, "id"))
}

func (h *CitizenHandler) AddComment(c *gin.Context) {
	h.proxy.sendJSON(c, http.MethodPost, "/api/citizens/submissions/"+param(c, "id")+"/comments")
}

func (h *CitizenHandler) Notifications(c *gin.Context) {
	h.proxy.get(c, "/api/citizens/notifications")
}

func (h *CitizenHandler) MarkNotificationRead(c *gin.Context) {
	h.proxy.send(c, http.MethodPost, "/api/citizens/notifications/"+param(c, "notification_id")+"/read")
}

// SubmitText forwards a free-text submission. A missing or empty text field
// is rejected here without contacting the backend.
func (h *CitizenHandler) SubmitText(c *gin.Context) {
	payload, err := readJSON(c)
	if err != nil {
		logger.Warn(c.Request.Context(), "unreadable JSON request body", "error", err)
		bodyError(c, err)
		return
	}

	fields, _ := payload.(map[string]any)
	if text, _ := fields["text"].(string); text == "" {
		badRequest(c, detailNoText)
		return
	}

	h.proxy.forwardJSON(c, http.MethodPost, "/api/citizens/submit-text", fields)
}

// SubmitForm re-packs the uploaded file into a fresh multipart body with the
// same field name and filename, optionally archiving a copy first.
func (h *CitizenHandler) SubmitForm(c *gin.Context) {
	ctx := c.Request.Context()

	header, err := c.FormFile("file")
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			bodyError(c, err)
			return
		}
		badRequest(c, detailNoFile)
		return
	}

	file, err := header.Open()
	if err != nil {
		internalError(c, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if h.archive != nil {
		h.archiveUpload(c, header, contentType)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreatePart(filePartHeader(header.Filename, contentType))
	if err != nil {
		internalError(c, err)
		return
	}
	if _, err := io.Copy(part, file); err != nil {
		internalError(c, fmt.Errorf("failed to read upload: %w", err))
		return
	}
	if err := writer.Close(); err != nil {
		internalError(c, err)
		return
	}

	logger.Info(ctx, "forwarding citizen upload", "filename", header.Filename, "size", header.Size, "content_type", contentType)

	h.proxy.forward(c, &service.ForwardRequest{
		Method:      http.MethodPost,
		Path:        "/api/citizens/submit-form",
		ContentType: writer.FormDataContentType(),
		Body:        &body,
	})
}

// archiveUpload stores a copy of the upload. Failures are logged only; the
// relayed response never depends on the archive.
func (h *CitizenHandler) archiveUpload(c *gin.Context, header *multipart.FileHeader, contentType string) {
	ctx := c.Request.Context()

	file, err := header.Open()
	if err != nil {
		logger.Warn(ctx, "failed to open upload for archiving", "error", err)
		return
	}
	defer file.Close()

	location, err := h.archive.Archive(ctx, middleware.GetRequestID(c), header.Filename, file, header.Size, contentType)
	if err != nil {
		logger.Warn(ctx, "failed to archive upload", "filename", header.Filename, "error", err)
		return
	}
	logger.Info(ctx, "archived upload", "location", location)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func filePartHeader(filename, contentType string) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", contentType)
	return h
}
