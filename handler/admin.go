package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahilmate/multi-agent-form-processing-system/pkg/logger"
	"github.com/sahilmate/multi-agent-form-processing-system/service"
)

// AdminHandler serves /api/admin/*. Backend admin routes live under /admin.
type AdminHandler struct {
	proxy *Proxy
}

func NewAdminHandler(proxy *Proxy) *AdminHandler {
	return &AdminHandler{proxy: proxy}
}

// Token exchanges admin credentials for a bearer token. Every submitted
// form field is passed on as urlencoded form data.
func (h *AdminHandler) Token(c *gin.Context) {
	form, err := readForm(c)
	if err != nil {
		logger.Warn(c.Request.Context(), "unreadable login form", "error", err)
		bodyError(c, err)
		return
	}

	h.proxy.forward(c, &service.ForwardRequest{
		Method:      http.MethodPost,
		Path:        "/admin/token",
		ContentType: "application/x-www-form-urlencoded",
		Body:        service.FormBody(form),
	})
}

func (h *AdminHandler) Me(c *gin.Context) {
	h.proxy.get(c, "/admin/me")
}

func (h *AdminHandler) DashboardStats(c *gin.Context) {
	h.proxy.get(c, "/admin/dashboard/stats")
}

func (h *AdminHandler) DepartmentStats(c *gin.Context) {
	h.proxy.get(c, "/admin/departments/stats")
}

func (h *AdminHandler) SystemHealth(c *gin.Context) {
	h.proxy.get(c, "/admin/system/health")
}

// ListSubmissions forwards filters and pagination untouched.
func (h *AdminHandler) ListSubmissions(c *gin.Context) {
	h.proxy.get(c, "/admin/submissions")
}

func (h *AdminHandler) GetSubmission(c *gin.Context) {
	h.proxy.get(c, "/admin/submissions/"+param(c, "id"))
}

func (h *AdminHandler) UpdateSubmission(c *gin.Context) {
	h.proxy.sendJSON(c, http.MethodPut, "/admin/submissions/"+param(c, "id"))
}

// UpdateStatus forwards {status, notes}. Status values are validated by the backend.
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	h.proxy.sendJSON(c, http.MethodPut, "/admin/submissions/"+param(c, "id")+"/status")
}

func (h *AdminHandler) ListComments(c *gin.Context) {
	h.proxy.get(c, "/admin/submissions/"+param(c, "id")+"/comments")
}

func (h *AdminHandler) AddComment(c *gin.Context) {
	h.proxy.sendJSON(c, http.MethodPost, "/admin/submissions/"+param(c, "id")+"/comments")
}
