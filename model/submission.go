package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// Submission statuses reported by the backend
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusRejected   = "rejected"
)

// ValidStatus reports whether s is one of the four backend statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// Submission is a citizen-originated form plus the backend's processing results.
type Submission struct {
	ID               string               `json:"_id"`
	OriginalFilename string               `json:"original_filename,omitempty"`
	Timestamp        string               `json:"timestamp"`
	Status           string               `json:"status"`
	FormType         string               `json:"form_type"`
	Department       *Department          `json:"department,omitempty"`
	ProcessingTime   float64              `json:"processing_time,omitempty"`
	ExtractedFields  map[string]any       `json:"extracted_fields,omitempty"`
	OCRText          string               `json:"ocr_text,omitempty"`
	InputText        string               `json:"input_text,omitempty"`
	FilledForm       map[string]any       `json:"filled_form,omitempty"`
	Notes            string               `json:"notes,omitempty"`
	StatusHistory    []StatusHistoryEntry `json:"status_history,omitempty"`
	UpdatedBy        string               `json:"updated_by,omitempty"`
	Comments         []Comment            `json:"comments,omitempty"`
}

// UnmarshalJSON accepts both "_id" and "id" as the submission identifier.
func (s *Submission) UnmarshalJSON(data []byte) error {
	type alias Submission
	aux := struct {
		*alias
		AltID string `json:"id"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = aux.AltID
	}
	return nil
}

// Text returns the OCR text for uploads or the input text for typed submissions.
func (s *Submission) Text() string {
	if s.OCRText != "" {
		return s.OCRText
	}
	return s.InputText
}

type StatusHistoryEntry struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Notes     string `json:"notes,omitempty"`
	UpdatedBy string `json:"updated_by,omitempty"`
}

type Comment struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	UserRole  string `json:"user_role"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// CreatedTime parses CreatedAt, returning the zero time when it is not RFC 3339.
func (c Comment) CreatedTime() time.Time {
	t, err := time.Parse(time.RFC3339, c.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Department is the canonical form of the backend's department field, which
// arrives either as a bare string or as {department_id, department_name}.
type Department struct {
	ID   string `json:"department_id"`
	Name string `json:"department_name"`
}

var errDepartmentShape = errors.New("department must be a string or an object")

func (d *Department) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		d.ID, d.Name = s, s
		return nil
	case '{':
		type alias Department
		var obj alias
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*d = Department(obj)
		if d.Name == "" {
			d.Name = d.ID
		}
		return nil
	default:
		return errDepartmentShape
	}
}

// String returns the display name.
func (d *Department) String() string {
	if d == nil {
		return ""
	}
	return d.Name
}
