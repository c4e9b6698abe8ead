package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sahilmate/multi-agent-form-processing-system/model"
)

// Admin wraps the /api/admin routes.
//
// On 401 every call returns ErrSessionExpired. Calls backing the dashboard
// overview and the submission views also log the session out; department
// stats and system health leave it in place.
type Admin struct {
	c *Client
}

func NewAdmin(c *Client) *Admin {
	return &Admin{c: c}
}

func (a *Admin) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	if err := a.c.getJSON(ctx, "/api/admin/dashboard/stats", nil, &stats); err != nil {
		return nil, a.c.expire(err, true)
	}
	return &stats, nil
}

func (a *Admin) DepartmentStats(ctx context.Context) ([]model.DepartmentStats, error) {
	var stats []model.DepartmentStats
	if err := a.c.getJSON(ctx, "/api/admin/departments/stats", nil, &stats); err != nil {
		return nil, a.c.expire(err, false)
	}
	return stats, nil
}

func (a *Admin) SystemHealth(ctx context.Context) (*model.SystemHealth, error) {
	var health model.SystemHealth
	if err := a.c.getJSON(ctx, "/api/admin/system/health", nil, &health); err != nil {
		return nil, a.c.expire(err, false)
	}
	return &health, nil
}

// SubmissionFilters narrows the admin submissions list. Empty fields are omitted.
type SubmissionFilters struct {
	Status     string
	FormType   string
	Department string
	StartDate  string
	EndDate    string
}

// Set assigns one filter by its query name. "all" clears the filter.
func (f *SubmissionFilters) Set(key, value string) error {
	if value == "all" {
		value = ""
	}
	switch key {
	case "status":
		f.Status = value
	case "form_type":
		f.FormType = value
	case "department":
		f.Department = value
	case "start_date":
		f.StartDate = value
	case "end_date":
		f.EndDate = value
	default:
		return errors.New("unknown filter: " + key)
	}
	return nil
}

func (f SubmissionFilters) values() url.Values {
	q := url.Values{}
	for key, value := range map[string]string{
		"status":     f.Status,
		"form_type":  f.FormType,
		"department": f.Department,
		"start_date": f.StartDate,
		"end_date":   f.EndDate,
	} {
		if value != "" {
			q.Set(key, value)
		}
	}
	return q
}

// ListSubmissions fetches one 1-indexed page.
func (a *Admin) ListSubmissions(ctx context.Context, filters SubmissionFilters, page, pageSize int) (*model.SubmissionPage, error) {
	q := filters.values()
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	var result model.SubmissionPage
	if err := a.c.getJSON(ctx, "/api/admin/submissions", q, &result); err != nil {
		return nil, a.c.expire(err, true)
	}
	return &result, nil
}

func (a *Admin) Submission(ctx context.Context, id string) (*model.Submission, error) {
	var sub model.Submission
	if err := a.c.getJSON(ctx, "/api/admin/submissions/"+escape(id), nil, &sub); err != nil {
		return nil, submissionError(a.c.expire(err, true))
	}
	return &sub, nil
}

// UpdateSubmission sends a partial update of arbitrary submission fields.
func (a *Admin) UpdateSubmission(ctx context.Context, id string, fields map[string]any) (*model.Submission, error) {
	var sub model.Submission
	if err := a.c.sendJSON(ctx, http.MethodPut, "/api/admin/submissions/"+escape(id), fields, &sub); err != nil {
		return nil, submissionError(a.c.expire(err, true))
	}
	return &sub, nil
}

// UpdateStatus moves a submission to status. An empty status is rejected
// locally; other values are checked by the backend.
func (a *Admin) UpdateStatus(ctx context.Context, id, status, notes string) error {
	if strings.TrimSpace(status) == "" {
		return ErrInvalidStatus
	}
	body := map[string]string{"status": status, "notes": notes}
	err := a.c.sendJSON(ctx, http.MethodPut, "/api/admin/submissions/"+escape(id)+"/status", body, nil)
	return submissionError(a.c.expire(err, true))
}

func (a *Admin) Comments(ctx context.Context, id string) ([]model.Comment, error) {
	var resp struct {
		Comments []model.Comment `json:"comments"`
	}
	if err := a.c.getJSON(ctx, "/api/admin/submissions/"+escape(id)+"/comments", nil, &resp); err != nil {
		return nil, submissionError(a.c.expire(err, true))
	}
	return resp.Comments, nil
}

func (a *Admin) AddComment(ctx context.Context, id, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyComment
	}
	err := a.c.sendJSON(ctx, http.MethodPost, "/api/admin/submissions/"+escape(id)+"/comments", map[string]string{"comment": text}, nil)
	return submissionError(a.c.expire(err, true))
}

// submissionError maps a 404 on a submission route to ErrSubmissionNotFound.
func submissionError(err error) error {
	if StatusOf(err) == http.StatusNotFound {
		return ErrSubmissionNotFound
	}
	return err
}
