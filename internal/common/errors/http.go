package errors

import (
	"encoding/json"
	"errors"
	"net/http"
)

// errorResponse is the JSON shape every failed API request returns.
type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// HTTPStatus maps an error to the status code the API should answer with.
func HTTPStatus(err error) int {
	var stdErr *StandardError
	if !errors.As(err, &stdErr) {
		return http.StatusInternalServerError
	}

	switch {
	case stdErr.IsNotFound():
		return http.StatusNotFound
	case stdErr.IsValidation():
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteHTTP renders err as a JSON error response. Validation and not-found
// errors keep their actionable detail; anything else is reported as a generic
// failure so internal detail never leaks to the client.
func WriteHTTP(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)

	resp := errorResponse{Error: "Server error"}

	var stdErr *StandardError
	if errors.As(err, &stdErr) && status != http.StatusInternalServerError {
		resp = errorResponse{
			Error:   stdErr.Message,
			Code:    string(stdErr.Code),
			Field:   stdErr.Field,
			Details: stdErr.Details,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
