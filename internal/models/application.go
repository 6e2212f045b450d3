package models

import (
	"encoding/json"
	"time"
)

// ApplicationStatus is the lifecycle state of a service application.
type ApplicationStatus string

const (
	StatusPending    ApplicationStatus = "pending"
	StatusProcessing ApplicationStatus = "processing"
	StatusApproved   ApplicationStatus = "approved"
	StatusRejected   ApplicationStatus = "rejected"
	StatusCompleted  ApplicationStatus = "completed"
)

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusApproved, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// applicationTransitions describes the allowed forward moves. Rejected and
// completed are terminal.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusPending:    {StatusProcessing},
	StatusProcessing: {StatusApproved, StatusRejected},
	StatusApproved:   {StatusCompleted},
}

// CanTransition reports whether an application may move from s to next.
func (s ApplicationStatus) CanTransition(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Application is a citizen's application for a government service.
type Application struct {
	ID              int64             `json:"id" db:"id"`
	UserID          int64             `json:"user_id" db:"user_id"`
	ServiceID       int64             `json:"service_id" db:"service_id"`
	Status          ApplicationStatus `json:"status" db:"status"`
	ReferenceNumber string            `json:"reference_number" db:"reference_number"`
	FormData        json.RawMessage   `json:"form_data,omitempty" db:"form_data"`
	Documents       string            `json:"documents,omitempty" db:"documents"`
	DepartmentNotes string            `json:"department_notes,omitempty" db:"department_notes"`
	AppointmentDate *time.Time        `json:"appointment_date,omitempty" db:"appointment_date"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`

	// Populated by joins for listing endpoints, never stored.
	ServiceName     string `json:"service_name,omitempty" db:"-"`
	ServiceCategory string `json:"service_category,omitempty" db:"-"`
}

// DashboardSummary aggregates a user's activity for the landing view.
type DashboardSummary struct {
	TotalApplications     int           `json:"total_applications"`
	PendingApplications   int           `json:"pending_applications"`
	CompletedApplications int           `json:"completed_applications"`
	RecentApplications    []Application `json:"recent_applications"`
	ComplaintCount        int           `json:"complaint_count"`
}
