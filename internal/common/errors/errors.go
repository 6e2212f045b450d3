// Package errors provides standardized error handling for the portal API.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// As wraps the standard library's errors.As so callers importing this
// package don't need a second errors import.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Is wraps the standard library's errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeServiceNotFound ErrorCode = "SERVICE_NOT_FOUND"
	ErrCodeUserNotFound    ErrorCode = "USER_NOT_FOUND"
	ErrCodeRecordNotFound  ErrorCode = "RECORD_NOT_FOUND"

	ErrCodeMissingRequiredField ErrorCode = "MISSING_REQUIRED_FIELD"
	ErrCodeInvalidNICFormat     ErrorCode = "INVALID_NIC_FORMAT"
	ErrCodeAppointmentInPast    ErrorCode = "APPOINTMENT_IN_PAST"
	ErrCodeInvalidAppointment   ErrorCode = "INVALID_APPOINTMENT"
	ErrCodeInvalidFormPayload   ErrorCode = "INVALID_FORM_PAYLOAD"
	ErrCodeInvalidTransition    ErrorCode = "INVALID_STATUS_TRANSITION"
	ErrCodeTooManyDocuments     ErrorCode = "TOO_MANY_DOCUMENTS"
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"

	ErrCodeStorageFailure     ErrorCode = "STORAGE_FAILURE"
	ErrCodeReferenceExhausted ErrorCode = "REFERENCE_GENERATION_EXHAUSTED"

	ErrCodeDeliveryFailed ErrorCode = "DELIVERY_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Field     string                 `json:"field,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// IsNotFound reports whether the error identifies a missing referenced entity.
func (e *StandardError) IsNotFound() bool {
	switch e.Code {
	case ErrCodeServiceNotFound, ErrCodeUserNotFound, ErrCodeRecordNotFound:
		return true
	}
	return false
}

// IsValidation reports whether the error is caused by client-side input.
func (e *StandardError) IsValidation() bool {
	switch e.Code {
	case ErrCodeMissingRequiredField, ErrCodeInvalidNICFormat, ErrCodeAppointmentInPast,
		ErrCodeInvalidAppointment, ErrCodeInvalidFormPayload, ErrCodeInvalidTransition,
		ErrCodeTooManyDocuments, ErrCodeValidationFailed:
		return true
	}
	return false
}

// NewServiceNotFoundError creates a non-retryable lookup error.
func NewServiceNotFoundError(serviceID int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeServiceNotFound,
		Message:   "Service not found",
		Details:   fmt.Sprintf("serviceId: %d", serviceID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUserNotFoundError creates a non-retryable lookup error.
func NewUserNotFoundError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUserNotFound,
		Message:   "User not found",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordNotFoundError creates a non-retryable lookup error for any record.
func NewRecordNotFoundError(resource string, id int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   fmt.Sprintf("id: %d", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingFieldError names the first missing required form field.
func NewMissingFieldError(field string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingRequiredField,
		Message:   fmt.Sprintf("Required field %q is missing or empty", field),
		Field:     field,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidNICError reports a malformed national identity number.
func NewInvalidNICError(field string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidNICFormat,
		Message:   fmt.Sprintf("Field %q must be 9 digits followed by V or X", field),
		Field:     field,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAppointmentInPastError reports a non-future appointment date.
func NewAppointmentInPastError(value string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAppointmentInPast,
		Message:   "Appointment date must be in the future",
		Details:   fmt.Sprintf("appointmentDate: %s", value),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidAppointmentError reports an unparseable appointment date.
func NewInvalidAppointmentError(value string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidAppointment,
		Message:   "Appointment date is not a valid date/time",
		Details:   fmt.Sprintf("appointmentDate: %s", value),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidFormPayloadError reports a structurally invalid form payload.
func NewInvalidFormPayloadError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFormPayload,
		Message:   "Form data payload could not be parsed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTransitionError rejects an illegal status transition request.
func NewInvalidTransitionError(from, to string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTransition,
		Message:   fmt.Sprintf("Cannot transition application from %q to %q", from, to),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTooManyDocumentsError rejects submissions over the upload limit.
func NewTooManyDocumentsError(count, limit int) *StandardError {
	return &StandardError{
		Code:      ErrCodeTooManyDocuments,
		Message:   fmt.Sprintf("At most %d documents may be attached", limit),
		Details:   fmt.Sprintf("documents: %d", count),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError creates a generic client-input error.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageError wraps a storage layer failure. Internal detail stays in
// Details and is logged, never surfaced to the caller.
func NewStorageError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageFailure,
		Message:   "Storage operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewReferenceExhaustedError reports that reference number generation kept
// colliding past the retry budget.
func NewReferenceExhaustedError(attempts int) *StandardError {
	return &StandardError{
		Code:      ErrCodeReferenceExhausted,
		Message:   "Could not allocate a unique reference number",
		Details:   fmt.Sprintf("attempts: %d", attempts),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeliveryError wraps a realtime fan-out failure. Always swallowed and
// logged by callers, never returned to the submitting request.
func NewDeliveryError(event string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDeliveryFailed,
		Message:   "Realtime event delivery failed",
		Details:   fmt.Sprintf("event: %s, error: %s", event, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
