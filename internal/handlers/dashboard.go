package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"govportal/internal/chat"
	"govportal/internal/models"

	"github.com/go-chi/chi/v5"
)

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		badRequest(w, "Invalid user id")
		return
	}

	summary, err := a.applications.DashboardSummary(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if summary.RecentApplications == nil {
		summary.RecentApplications = []models.Application{}
	}
	writeJSON(w, http.StatusOK, summary)
}

const nearestOfficesLimit = 5

// handleNearestOffices returns up to five offices. With latitude and
// longitude given they are distance-sorted; without, the office list is
// returned as-is. An optional department parameter filters first.
func (a *API) handleNearestOffices(w http.ResponseWriter, r *http.Request) {
	department := r.URL.Query().Get("department")
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("latitude"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("longitude"), 64)

	var offices []models.Office
	var err error
	if errLat == nil && errLng == nil {
		offices, err = a.offices.Nearest(r.Context(), lat, lng, department, nearestOfficesLimit)
	} else {
		offices, err = a.offices.List(r.Context(), department)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if len(offices) > nearestOfficesLimit {
		offices = offices[:nearestOfficesLimit]
	}
	if offices == nil {
		offices = []models.Office{}
	}
	writeJSON(w, http.StatusOK, offices)
}

type chatRequest struct {
	Message  string `json:"message"`
	Language string `json:"language"`
	UserID   int64  `json:"user_id"`
}

func (a *API) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	if req.Message == "" {
		badRequest(w, "Message is required")
		return
	}

	answer, lang := chat.Respond(req.Message, models.Language(req.Language))

	reply := models.ChatReply{Response: answer, Language: string(lang)}

	// A session is only recorded for identified users; recording failures
	// never break the reply.
	if req.UserID > 0 {
		session, err := a.sessions.Create(r.Context(), req.UserID, lang)
		if err != nil {
			a.logger.Warn("Chat session not recorded", map[string]interface{}{
				"user_id": req.UserID,
				"error":   err.Error(),
			})
		} else {
			reply.SessionID = session.SessionID
		}
	}

	writeJSON(w, http.StatusOK, reply)
}
