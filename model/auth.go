package model

// TokenResponse is returned by both token routes
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	UserName    string `json:"user_name,omitempty"`
	UserRole    string `json:"user_role,omitempty"`
}

// User is the logged-in identity held by a session. Admin users carry Role,
// citizens carry the contact fields.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	Role         string `json:"role,omitempty"`
	DepartmentID string `json:"department_id,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	IDNumber     string `json:"id_number,omitempty"`
}

// DisplayName prefers the full name.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

type Notification struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	SubmissionID string `json:"submission_id,omitempty"`
	Read         bool   `json:"read"`
	CreatedAt    string `json:"created_at"`
}

// SubmitResult is the backend's answer to a new submission.
type SubmitResult struct {
	LogID    string `json:"log_id"`
	Status   string `json:"status,omitempty"`
	FormType string `json:"form_type,omitempty"`
	Message  string `json:"message,omitempty"`
}
