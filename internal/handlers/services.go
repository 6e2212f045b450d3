package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"govportal/internal/forms"
	"govportal/internal/models"

	"github.com/go-chi/chi/v5"
)

// serviceDetail is a service plus its parsed, renderable form.
type serviceDetail struct {
	models.Service
	Form []forms.Field `json:"form"`
}

func (a *API) handleListServices(w http.ResponseWriter, r *http.Request) {
	services, err := a.services.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

func (a *API) handleListServicesByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	services, err := a.services.ListByCategory(r.Context(), category)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

// handleGetService returns one service with its form schema expanded into
// the ordered input list, so clients render from structured data rather
// than a pre-baked fragment.
func (a *API) handleGetService(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		badRequest(w, "Invalid service id")
		return
	}

	svc, err := a.services.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	schema, err := forms.ParseSchema(svc.FormFields)
	if err != nil {
		a.logger.Warn("Stored form schema unparseable, rendering fallback", map[string]interface{}{
			"service_id": id,
			"error":      err.Error(),
		})
		schema = forms.Schema{}
	}

	writeJSON(w, http.StatusOK, serviceDetail{
		Service: *svc,
		Form:    forms.Render(schema),
	})
}

func (a *API) handleSearchServices(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		badRequest(w, "Query parameter q is required")
		return
	}

	services, err := a.services.Search(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}
