package handlers

import (
	"net/http"

	"govportal/internal/chat"
	"govportal/internal/common/config"
	"govportal/internal/common/logger"
	"govportal/internal/common/observability"
	"govportal/internal/middleware"
	"govportal/internal/notify"
	"govportal/internal/realtime"
	"govportal/internal/repository"
	"govportal/internal/uploads"

	"github.com/go-chi/chi/v5"
)

// API aggregates the portal's handlers and their dependencies.
type API struct {
	cfg          *config.Config
	logger       logger.Logger
	auth         *middleware.Auth
	users        *repository.UserRepository
	services     *repository.ServiceRepository
	applications *repository.ApplicationRepository
	complaints   *repository.ComplaintRepository
	offices      *repository.OfficeRepository
	sessions     *chat.SessionStore
	documents    *uploads.Store
	hub          *realtime.Hub
	notifier     *notify.Notifier
}

// Deps carries everything the API needs; all fields except notifier are
// required.
type Deps struct {
	Config       *config.Config
	Logger       logger.Logger
	Auth         *middleware.Auth
	Users        *repository.UserRepository
	Services     *repository.ServiceRepository
	Applications *repository.ApplicationRepository
	Complaints   *repository.ComplaintRepository
	Offices      *repository.OfficeRepository
	Sessions     *chat.SessionStore
	Documents    *uploads.Store
	Hub          *realtime.Hub
	Notifier     *notify.Notifier
}

// New creates the API.
func New(deps Deps) *API {
	return &API{
		cfg:          deps.Config,
		logger:       deps.Logger,
		auth:         deps.Auth,
		users:        deps.Users,
		services:     deps.Services,
		applications: deps.Applications,
		complaints:   deps.Complaints,
		offices:      deps.Offices,
		sessions:     deps.Sessions,
		documents:    deps.Documents,
		hub:          deps.Hub,
		notifier:     deps.Notifier,
	}
}

// Router assembles the route tree with the standard middleware stack.
func (a *API) Router(obs *observability.Observability) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestLogging(a.logger))
	if obs != nil {
		r.Use(middleware.Metrics(obs))
	}

	r.Get("/health", a.handleHealth)
	r.Get("/ws", a.handleWebsocket)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", a.handleRegister)
		r.Post("/login", a.handleLogin)

		r.Route("/services", func(r chi.Router) {
			r.Get("/", a.handleListServices)
			r.Get("/search", a.handleSearchServices)
			r.Get("/id/{id}", a.handleGetService)
			r.Get("/{category}", a.handleListServicesByCategory)
		})

		r.Route("/applications", func(r chi.Router) {
			r.Post("/", a.handleSubmitApplication)
			r.Get("/user/{userID}", a.handleListApplications)
			r.Patch("/{id}/status", a.handleUpdateApplicationStatus)
		})

		r.Route("/complaints", func(r chi.Router) {
			r.Post("/", a.handleSubmitComplaint)
			r.Get("/user/{userID}", a.handleListComplaints)
			r.Get("/user/{userID}/count", a.handleComplaintCount)
		})

		r.Get("/dashboard/user/{userID}", a.handleDashboard)
		r.Get("/offices/nearest", a.handleNearestOffices)
		r.Post("/chat", a.handleChat)
	})

	return r
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	realtime.ServeWS(a.hub, a.logger, w, r)
}
