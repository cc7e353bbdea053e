// internal/models/job.go
package models

import "time"

// JobStatus is the lifecycle state of a tracked job application.
type JobStatus string

const (
	StatusWishlist     JobStatus = "wishlist"
	StatusInterested   JobStatus = "interested"
	StatusApplied      JobStatus = "applied"
	StatusInterviewing JobStatus = "interviewing"
	StatusOffer        JobStatus = "offer"
	StatusRejected     JobStatus = "rejected"
	StatusAccepted     JobStatus = "accepted"
	StatusWithdrawn    JobStatus = "withdrawn"
)

// ActiveStatuses are the states in which a deadline is still actionable.
// Jobs outside this set never receive deadline reminders.
var ActiveStatuses = []JobStatus{
	StatusApplied,
	StatusInterviewing,
	StatusWishlist,
	StatusInterested,
}

// IsActive reports whether the status is in the reminder-eligible set.
func (s JobStatus) IsActive() bool {
	for _, active := range ActiveStatuses {
		if s == active {
			return true
		}
	}
	return false
}

// JobApplication represents one tracked job application belonging to a user.
type JobApplication struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Company        string     `json:"company"`
	Position       string     `json:"position"`
	Status         JobStatus  `json:"status"`
	JobURL         string     `json:"job_url,omitempty"`
	Location       string     `json:"location,omitempty"`
	SalaryRange    string     `json:"salary_range,omitempty"`
	JobDescription string     `json:"job_description,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	AppliedDate    *time.Time `json:"applied_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// JobCreateRequest is the payload for creating a job application.
type JobCreateRequest struct {
	Company        string  `json:"company"`
	Position       string  `json:"position"`
	Status         string  `json:"status"`
	JobURL         string  `json:"job_url,omitempty"`
	Location       string  `json:"location,omitempty"`
	SalaryRange    string  `json:"salary_range,omitempty"`
	JobDescription string  `json:"job_description,omitempty"`
	Notes          string  `json:"notes,omitempty"`
	Deadline       *string `json:"deadline,omitempty"`     // YYYY-MM-DD
	AppliedDate    *string `json:"applied_date,omitempty"` // YYYY-MM-DD
}

// JobUpdateRequest is the payload for partially updating a job application.
// Nil pointers mean "leave unchanged".
type JobUpdateRequest struct {
	Company        *string `json:"company,omitempty"`
	Position       *string `json:"position,omitempty"`
	Status         *string `json:"status,omitempty"`
	JobURL         *string `json:"job_url,omitempty"`
	Location       *string `json:"location,omitempty"`
	SalaryRange    *string `json:"salary_range,omitempty"`
	JobDescription *string `json:"job_description,omitempty"`
	Notes          *string `json:"notes,omitempty"`
	Deadline       *string `json:"deadline,omitempty"`
	AppliedDate    *string `json:"applied_date,omitempty"`
}
