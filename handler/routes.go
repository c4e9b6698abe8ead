package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sahilmate/multi-agent-form-processing-system/middleware"
)

// RegisterRoutes mounts the health check and both portal APIs on router.
// Token and registration routes are public; everything else requires an
// Authorization header. limit, which may be nil, runs after the
// Authorization check so a missing header is always a 401.
func RegisterRoutes(router gin.IRouter, admin *AdminHandler, citizen *CitizenHandler, limit gin.HandlerFunc) {
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}

	router.GET("/health", Health)

	adminAPI := router.Group("/api/admin", middleware.Scope("admin"))
	adminAPI.POST("/token", limit, admin.Token)

	adminProtected := adminAPI.Group("", middleware.RequireAuthorization(), limit)
	{
		adminProtected.GET("/me", admin.Me)
		adminProtected.GET("/dashboard/stats", admin.DashboardStats)
		adminProtected.GET("/departments/stats", admin.DepartmentStats)
		adminProtected.GET("/system/health", admin.SystemHealth)
		adminProtected.GET("/submissions", admin.ListSubmissions)
		adminProtected.GET("/submissions/:id", admin.GetSubmission)
		adminProtected.PUT("/submissions/:id", admin.UpdateSubmission)
		adminProtected.PUT("/submissions/:id/status", admin.UpdateStatus)
		adminProtected.GET("/submissions/:id/comments", admin.ListComments)
		adminProtected.POST("/submissions/:id/comments", admin.AddComment)
	}

	citizenAPI := router.Group("/api/citizens", middleware.Scope("citizen"))
	citizenAPI.POST("/token", limit, citizen.Token)
	citizenAPI.POST("/register", limit, citizen.Register)

	citizenProtected := citizenAPI.Group("", middleware.RequireAuthorization(), limit)
	{
		citizenProtected.GET("/profile", citizen.Profile)
		citizenProtected.PUT("/profile", citizen.UpdateProfile)
		citizenProtected.GET("/submissions", citizen.ListSubmissions)
		citizenProtected.GET("/submissions/:id", citizen.GetSubmission)
		citizenProtected.POST("/submissions/:id/comments", citizen.AddComment)
		citizenProtected.POST("/submit-form", citizen.SubmitForm)
		citizenProtected.POST("/submit-text", citizen.SubmitText)
		citizenProtected.GET("/notifications", citizen.Notifications)
		citizenProtected.POST("/notifications/:notification_id/read", citizen.MarkNotificationRead)
	}
}

// Health reports gateway liveness only; the backend is not contacted.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
