package models

import "time"

// ComplaintStatus is the lifecycle state of a citizen complaint.
type ComplaintStatus string

const (
	ComplaintOpen          ComplaintStatus = "open"
	ComplaintInvestigating ComplaintStatus = "investigating"
	ComplaintResolved      ComplaintStatus = "resolved"
	ComplaintClosed        ComplaintStatus = "closed"
)

// Valid reports whether s is a known complaint status.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintOpen, ComplaintInvestigating, ComplaintResolved, ComplaintClosed:
		return true
	}
	return false
}

// Complaint is a grievance filed by a citizen against a department or service.
type Complaint struct {
	ID              int64           `json:"id" db:"id"`
	UserID          int64           `json:"user_id" db:"user_id"`
	Subject         string          `json:"subject" db:"subject"`
	Description     string          `json:"description" db:"description"`
	Status          ComplaintStatus `json:"status" db:"status"`
	AssignedOfficer string          `json:"assigned_officer,omitempty" db:"assigned_officer"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}
