package model

// StatusCounts is the per-status tally in dashboard stats
type StatusCounts struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Rejected   int `json:"rejected"`
}

type DashboardStats struct {
	TotalSubmissions       int            `json:"total_submissions"`
	DepartmentSubmissions  int            `json:"department_submissions,omitempty"`
	StatusCounts           StatusCounts   `json:"status_counts"`
	FormTypeDistribution   map[string]int `json:"form_type_distribution"`
	DepartmentDistribution map[string]int `json:"department_distribution"`
	AvgProcessingTime      float64        `json:"avg_processing_time"`
	RecentActivity         []Submission   `json:"recent_activity"`
}

type DepartmentStats struct {
	DepartmentID      string         `json:"department_id"`
	DepartmentName    string         `json:"department_name"`
	TotalSubmissions  int            `json:"total_submissions"`
	Pending           int            `json:"pending"`
	Processing        int            `json:"processing"`
	Completed         int            `json:"completed"`
	Rejected          int            `json:"rejected"`
	AvgProcessingTime float64        `json:"avg_processing_time"`
	FormTypes         map[string]int `json:"form_types"`
}

type SystemHealth struct {
	Database struct {
		Status       string  `json:"status"`
		ResponseTime float64 `json:"response_time"`
	} `json:"database"`
	Services map[string]bool `json:"services"`
	System   struct {
		Version     string `json:"version"`
		Environment string `json:"environment"`
		ServerTime  string `json:"server_time"`
	} `json:"system"`
}

// SubmissionPage is one page of the admin submissions list. Total and
// TotalPages are the backend's values and are never recomputed locally.
type SubmissionPage struct {
	Items      []Submission `json:"items"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}
