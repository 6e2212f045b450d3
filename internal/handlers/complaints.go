package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"govportal/internal/models"

	"github.com/go-chi/chi/v5"
)

type complaintRequest struct {
	UserID      int64  `json:"user_id"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

func (a *API) handleSubmitComplaint(w http.ResponseWriter, r *http.Request) {
	var req complaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	complaint, err := a.complaints.Submit(r.Context(), req.UserID, req.Subject, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	if a.notifier != nil {
		go func(userID int64, c *models.Complaint) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			user, err := a.users.GetByID(ctx, userID)
			if err != nil {
				return
			}
			a.notifier.ComplaintFiled(ctx, user, c)
		}(req.UserID, complaint)
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"complaint_id": complaint.ID,
		"status":       complaint.Status,
	})
}

func (a *API) handleListComplaints(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		badRequest(w, "Invalid user id")
		return
	}

	complaints, err := a.complaints.ListForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if complaints == nil {
		complaints = []models.Complaint{}
	}
	writeJSON(w, http.StatusOK, complaints)
}

func (a *API) handleComplaintCount(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		badRequest(w, "Invalid user id")
		return
	}

	count, err := a.complaints.CountForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}
