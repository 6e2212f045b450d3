package models

import (
	"encoding/json"
	"time"
)

// Service is a government service citizens can apply for.
type Service struct {
	ID                int64           `json:"id" db:"id"`
	Category          string          `json:"category" db:"category"`
	Name              string          `json:"name" db:"name"`
	Description       string          `json:"description" db:"description"`
	Requirements      string          `json:"requirements" db:"requirements"`
	Fees              float64         `json:"fees" db:"fees"`
	ProcessingTime    string          `json:"processing_time" db:"processing_time"`
	Department        string          `json:"department" db:"department"`
	DepartmentContact string          `json:"department_contact,omitempty" db:"department_contact"`
	DepartmentEmail   string          `json:"department_email,omitempty" db:"department_email"`
	FormFields        json.RawMessage `json:"form_fields,omitempty" db:"form_fields"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
}
