package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminReadsTokenPerCall(t *testing.T) {
	g := newFakeGateway(t)
	g.reply("GET /api/admin/system/health", http.StatusOK, `{"database":{"status":"online"},"services":{"ocr":true}}`)

	c := newTestClient(t, g, ScopeAdmin, "first")
	admin := NewAdmin(c)

	health, err := admin.SystemHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "online", health.Database.Status)
	assert.True(t, health.Services["ocr"])

	require.NoError(t, c.Session().SetToken("second"))
	_, err = admin.SystemHealth(context.Background())
	require.NoError(t, err)

	calls := g.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "Bearer first", calls[0].Authorization)
	assert.Equal(t, "Bearer second", calls[1].Authorization)
}

func TestAdminUnauthorizedPolicy(t *testing.T) {
	tests := []struct {
		name   string
		route  string
		call   func(*Admin) error
		logout bool
	}{
		{
			name:  "dashboard stats logs out",
			route: "GET /api/admin/dashboard/stats",
			call: func(a *Admin) error {
				_, err := a.DashboardStats(context.Background())
				return err
			},
			logout: true,
		},
		{
			name:  "department stats keeps session",
			route: "GET /api/admin/departments/stats",
			call: func(a *Admin) error {
				_, err := a.DepartmentStats(context.Background())
				return err
			},
		},
		{
			name:  "system health keeps session",
			route: "GET /api/admin/system/health",
			call: func(a *Admin) error {
				_, err := a.SystemHealth(context.Background())
				return err
			},
		},
		{
			name:  "submission detail logs out",
			route: "GET /api/admin/submissions/s1",
			call: func(a *Admin) error {
				_, err := a.Submission(context.Background(), "s1")
				return err
			},
			logout: true,
		},
		{
			name:  "status update logs out",
			route: "PUT /api/admin/submissions/s1/status",
			call: func(a *Admin) error {
				return a.UpdateStatus(context.Background(), "s1", "completed", "")
			},
			logout: true,
		},
		{
			name:  "comments log out",
			route: "GET /api/admin/submissions/s1/comments",
			call: func(a *Admin) error {
				_, err := a.Comments(context.Background(), "s1")
				return err
			},
			logout: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newFakeGateway(t)
			g.reply(tt.route, http.StatusUnauthorized, `{"detail":"Not authenticated"}`)

			c := newTestClient(t, g, ScopeAdmin, "tok")
			err := tt.call(NewAdmin(c))
			assert.ErrorIs(t, err, ErrSessionExpired)

			token, _ := c.Session().Token()
			if tt.logout {
				assert.Empty(t, token)
			} else {
				assert.Equal(t, "tok", token)
			}
		})
	}
}

func TestAdminSubmissionNotFound(t *testing.T) {
	g := newFakeGateway(t)
	g.reply("GET /api/admin/submissions/missing", http.StatusNotFound, `{"detail":"Submission not found"}`)

	_, err := NewAdmin(newTestClient(t, g, ScopeAdmin, "tok")).Submission(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestAdminSubmission(t *testing.T) {
	g := newFakeGateway(t)
	g.reply("GET /api/admin/submissions/s1", http.StatusOK, `{
		"_id": "s1",
		"status": "pending",
		"form_type": "land_record",
		"department": {"department_id": "rev", "department_name": "Revenue"}
	}`)

	sub, err := NewAdmin(newTestClient(t, g, ScopeAdmin, "tok")).Submission(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", sub.ID)
	assert.Equal(t, "Revenue", sub.Department.String())
}

func TestAdminErrorDetail(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"string detail", `{"detail":"Invalid status"}`, "Invalid status"},
		{"validation list", `{"detail":[{"loc":["body","status"],"msg":"field required"}]}`, `[{"loc":["body","status"],"msg":"field required"}]`},
		{"message field", `{"message":"Failed"}`, "Failed"},
		{"not JSON", `oops`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newFakeGateway(t)
			g.reply("GET /api/admin/dashboard/stats", http.StatusUnprocessableEntity, tt.body)

			_, err := NewAdmin(newTestClient(t, g, ScopeAdmin, "tok")).DashboardStats(context.Background())

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
			assert.Equal(t, tt.expected, apiErr.Detail)
			assert.Equal(t, http.StatusUnprocessableEntity, StatusOf(err))
		})
	}
}

func TestAdminUpdateStatus(t *testing.T) {
	g := newFakeGateway(t)
	g.reply("PUT /api/admin/submissions/s1/status", http.StatusOK, `{"message":"Status updated"}`)
	admin := NewAdmin(newTestClient(t, g, ScopeAdmin, "tok"))

	assert.ErrorIs(t, admin.UpdateStatus(context.Background(), "s1", " ", "x"), ErrInvalidStatus)
	assert.Empty(t, g.Calls(), "empty status is rejected locally")

	require.NoError(t, admin.UpdateStatus(context.Background(), "s1", "rejected", "illegible scan"))

	calls := g.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "application/json", calls[0].ContentType)
	var body map[string]string
	require.NoError(t, json.Unmarshal(calls[0].Body, &body))
	assert.Equal(t, map[string]string{"status": "rejected", "notes": "illegible scan"}, body)
}

func TestAdminComments(t *testing.T) {
	g := newFakeGateway(t)
	g.reply("GET /api/admin/submissions/s1/comments", http.StatusOK, `{"comments":[{"id":"c1","user_name":"Alex","text":"Need a clearer scan"}]}`)
	g.reply("POST /api/admin/submissions/s1/comments", http.StatusOK, `{"message":"Comment added"}`)
	admin := NewAdmin(newTestClient(t, g, ScopeAdmin, "tok"))

	comments, err := admin.Comments(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Need a clearer scan", comments[0].Text)

	assert.ErrorIs(t, admin.AddComment(context.Background(), "s1", "   "), ErrEmptyComment)
	require.NoError(t, admin.AddComment(context.Background(), "s1", "Please resubmit"))

	assert.Equal(t, 1, g.count("POST /api/admin/submissions/s1/comments"))
	last := g.Calls()[len(g.Calls())-1]
	assert.JSONEq(t, `{"comment":"Please resubmit"}`, string(last.Body))
}

func TestAdminListSubmissionsQuery(t *testing.T) {
	g := newFakeGateway(t)
	g.reply("GET /api/admin/submissions", http.StatusOK, `{"items":[{"_id":"a"}],"total":31,"page":2,"page_size":10,"total_pages":4}`)

	filters := SubmissionFilters{Status: "pending", Department: "Health"}
	page, err := NewAdmin(newTestClient(t, g, ScopeAdmin, "tok")).ListSubmissions(context.Background(), filters, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 31, page.Total)
	assert.Equal(t, 4, page.TotalPages)

	q := g.Calls()[0].Query
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "10", q.Get("page_size"))
	assert.Equal(t, "pending", q.Get("status"))
	assert.Equal(t, "Health", q.Get("department"))
	assert.NotContains(t, q, "form_type")
	assert.NotContains(t, q, "start_date")
}

func TestSubmissionFiltersSet(t *testing.T) {
	var f SubmissionFilters
	require.NoError(t, f.Set("status", "completed"))
	require.NoError(t, f.Set("form_type", "all"))
	require.NoError(t, f.Set("end_date", "2025-03-31"))
	assert.Error(t, f.Set("priority", "high"))

	assert.Equal(t, SubmissionFilters{Status: "completed", EndDate: "2025-03-31"}, f)

	require.NoError(t, f.Set("status", "all"))
	assert.Empty(t, f.Status)
}
