package handlers

import (
	"encoding/json"
	"net/http"

	"govportal/internal/models"
)

type registerRequest struct {
	NIC      string `json:"nic"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Language string `json:"language"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	user, err := a.users.Register(r.Context(), req.NIC, req.Name, req.Email, req.Phone, models.Language(req.Language))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	NIC string `json:"nic"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// handleLogin authenticates by NIC lookup and issues a signed token. The
// portal has no password credential; possession of a registered NIC is the
// identity claim, matching the kiosk-style frontend.
func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	user, err := a.users.GetByNIC(r.Context(), req.NIC)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := a.auth.IssueToken(user.ID, user.NIC)
	if err != nil {
		a.logger.Error("Token signing failed", map[string]interface{}{
			"error": err.Error(),
		})
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}
