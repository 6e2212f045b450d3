package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"govportal/internal/models"
	"govportal/internal/repository"
	"govportal/internal/uploads"

	"github.com/go-chi/chi/v5"
)

// handleSubmitApplication accepts a multipart submission: form fields
// user_id, service_id, appointment_date and form_data, plus zero or more
// files under documents. A plain JSON body without attachments is also
// accepted.
func (a *API) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	input, err := a.parseSubmission(r)
	if err != nil {
		writeError(w, err)
		return
	}

	app, err := a.applications.Submit(r.Context(), *input)
	if err != nil {
		writeError(w, err)
		return
	}

	a.sendConfirmation(input.UserID, app)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"application_id":   app.ID,
		"reference_number": app.ReferenceNumber,
		"status":           app.Status,
	})
}

func (a *API) parseSubmission(r *http.Request) (*repository.SubmitInput, error) {
	contentType := r.Header.Get("Content-Type")
	if len(contentType) >= 16 && contentType[:16] == "application/json" {
		var body struct {
			UserID          int64  `json:"user_id"`
			ServiceID       int64  `json:"service_id"`
			AppointmentDate string `json:"appointment_date"`
			FormData        string `json:"form_data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, errInvalidBody
		}
		return &repository.SubmitInput{
			UserID:          body.UserID,
			ServiceID:       body.ServiceID,
			AppointmentDate: body.AppointmentDate,
			FormData:        body.FormData,
		}, nil
	}

	if err := r.ParseMultipartForm(a.cfg.Uploads.MaxSizeBytes); err != nil {
		return nil, errInvalidBody
	}

	userID, err := strconv.ParseInt(r.FormValue("user_id"), 10, 64)
	if err != nil {
		return nil, errInvalidBody
	}
	serviceID, err := strconv.ParseInt(r.FormValue("service_id"), 10, 64)
	if err != nil {
		return nil, errInvalidBody
	}

	input := &repository.SubmitInput{
		UserID:          userID,
		ServiceID:       serviceID,
		AppointmentDate: r.FormValue("appointment_date"),
		FormData:        r.FormValue("form_data"),
	}

	files := r.MultipartForm.File["documents"]
	if len(files) > 0 {
		docs := make([]uploads.Document, 0, len(files))
		opened := make([]interface{ Close() error }, 0, len(files))
		defer func() {
			for _, f := range opened {
				_ = f.Close()
			}
		}()
		for _, header := range files {
			f, err := header.Open()
			if err != nil {
				return nil, errInvalidBody
			}
			opened = append(opened, f)
			docs = append(docs, uploads.Document{Filename: header.Filename, Content: f})
		}

		refs, err := a.documents.SaveAll(docs)
		if err != nil {
			return nil, err
		}
		input.DocumentRefs = refs
	}

	return input, nil
}

// sendConfirmation delivers optional email/SMS confirmations off the
// request path; failures never affect the submitting caller.
func (a *API) sendConfirmation(userID int64, app *models.Application) {
	if a.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		user, err := a.users.GetByID(ctx, userID)
		if err != nil {
			return
		}
		a.notifier.ApplicationSubmitted(ctx, user, app)
	}()
}

func (a *API) handleListApplications(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		badRequest(w, "Invalid user id")
		return
	}

	apps, err := a.applications.ListForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if apps == nil {
		apps = []models.Application{}
	}
	writeJSON(w, http.StatusOK, apps)
}

func (a *API) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		badRequest(w, "Invalid application id")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	if err := a.applications.UpdateStatus(r.Context(), id, models.ApplicationStatus(body.Status)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": body.Status})
}
