// Package handlers binds the portal's operations to HTTP.
package handlers

import (
	"encoding/json"
	"net/http"

	"govportal/internal/common/errors"
)

var errInvalidBody = errors.NewValidationError("invalid request body")

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	errors.WriteHTTP(w, err)
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": message})
}
