package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/sahilmate/multi-agent-form-processing-system/model"
)

// Citizen wraps the /api/citizens routes. A 401 from any of them logs the
// session out and returns ErrSessionExpired.
type Citizen struct {
	c *Client
}

func NewCitizen(c *Client) *Citizen {
	return &Citizen{c: c}
}

// Registration is the sign-up form.
type Registration struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	IDNumber string `json:"id_number,omitempty"`
}

var (
	ErrMissingFields    = errors.New("Please fill in all required fields")
	ErrPasswordMismatch = errors.New("Passwords do not match")
)

// Validate applies the sign-up form rules.
func (r Registration) Validate(confirmPassword string) error {
	if r.Username == "" || r.Password == "" || r.FullName == "" || r.Email == "" {
		return ErrMissingFields
	}
	if r.Password != confirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

// Register creates a citizen account. It does not log in.
func (ci *Citizen) Register(ctx context.Context, reg Registration, confirmPassword string) error {
	if err := reg.Validate(confirmPassword); err != nil {
		return err
	}
	data, err := jsonReader(reg)
	if err != nil {
		return err
	}
	return ci.c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/citizens/register",
		body:        data,
		contentType: "application/json",
		anonymous:   true,
	}, nil)
}

func (ci *Citizen) Profile(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := ci.c.getJSON(ctx, "/api/citizens/profile", nil, &user); err != nil {
		return nil, ci.c.expire(err, true)
	}
	return &user, nil
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// UpdateProfile saves the profile and refreshes the session's user from the reply.
func (ci *Citizen) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	var user model.User
	if err := ci.c.sendJSON(ctx, http.MethodPut, "/api/citizens/profile", update, &user); err != nil {
		return ci.c.expire(err, true)
	}
	if user.Username != "" {
		ci.c.session.SetUser(&user)
	}
	return nil
}

func (ci *Citizen) Submissions(ctx context.Context) ([]model.Submission, error) {
	var resp struct {
		Submissions []model.Submission `json:"submissions"`
	}
	if err := ci.c.getJSON(ctx, "/api/citizens/submissions", nil, &resp); err != nil {
		return nil, ci.c.expire(err, true)
	}
	return resp.Submissions, nil
}

func (ci *Citizen) Submission(ctx context.Context, id string) (*model.Submission, error) {
	var sub model.Submission
	if err := ci.c.getJSON(ctx, "/api/citizens/submissions/"+escape(id), nil, &sub); err != nil {
		return nil, submissionError(ci.c.expire(err, true))
	}
	return &sub, nil
}

func (ci *Citizen) AddComment(ctx context.Context, id, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyComment
	}
	err := ci.c.sendJSON(ctx, http.MethodPost, "/api/citizens/submissions/"+escape(id)+"/comments", map[string]string{"comment": text}, nil)
	return submissionError(ci.c.expire(err, true))
}

func (ci *Citizen) Notifications(ctx context.Context) ([]model.Notification, error) {
	var resp struct {
		Notifications []model.Notification `json:"notifications"`
	}
	if err := ci.c.getJSON(ctx, "/api/citizens/notifications", nil, &resp); err != nil {
		return nil, ci.c.expire(err, true)
	}
	return resp.Notifications, nil
}

func (ci *Citizen) MarkNotificationRead(ctx context.Context, id string) error {
	err := ci.c.do(ctx, request{method: http.MethodPost, path: "/api/citizens/notifications/" + escape(id) + "/read"}, nil)
	return ci.c.expire(err, true)
}

// SubmitText sends a free-text submission. Blank text never reaches the network.
func (ci *Citizen) SubmitText(ctx context.Context, text string) (*model.SubmitResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	var result model.SubmitResult
	if err := ci.c.sendJSON(ctx, http.MethodPost, "/api/citizens/submit-text", map[string]string{"text": text}, &result); err != nil {
		return nil, ci.c.expire(err, true)
	}
	return &result, nil
}

// SubmitFile uploads a validated file as the multipart field "file".
func (ci *Citizen) SubmitFile(ctx context.Context, upload *Upload) (*model.SubmitResult, error) {
	if upload == nil {
		return nil, ErrNoFile
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(upload.Filename)))
	header.Set("Content-Type", upload.ContentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(upload.Data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	var result model.SubmitResult
	err = ci.c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/citizens/submit-form",
		body:        &body,
		contentType: writer.FormDataContentType(),
	}, &result)
	if err != nil {
		return nil, ci.c.expire(err, true)
	}
	return &result, nil
}

// Destination is where a portal goes after a submission: the new submission
// when the backend returned its id, otherwise the dashboard.
func Destination(result *model.SubmitResult) string {
	if result != nil && result.LogID != "" {
		return "/citizen/submissions/" + result.LogID
	}
	return "/citizen/dashboard"
}

func jsonReader(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return bytes.NewReader(data), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
