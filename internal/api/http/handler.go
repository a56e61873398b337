package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"rentdesk-backend/internal/security"
	"rentdesk-backend/internal/service"
	"rentdesk-backend/internal/storage"
)

// Dependencies groups everything the HTTP API needs.
type Dependencies struct {
	Auth          service.AuthService
	Properties    service.PropertyService
	Applications  service.ApplicationService
	Incidents     service.IncidentService
	Notifications service.NotificationService
	Storage       storage.Storage
	Tokens        security.TokenManager
	// Ping reports database health
	Ping           func(ctx context.Context) error
	MaxUploadBytes int64
}

type Handler struct {
	deps Dependencies
}

// NewRouter builds the API router with authentication and request logging.
func NewRouter(deps Dependencies) *mux.Router {
	h := &Handler{deps: deps}
	r := mux.NewRouter()
	r.Use(LoggingMiddleware, AuthMiddleware(deps.Tokens))

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)

	api.HandleFunc("/properties", h.ListMyProperties).Methods(http.MethodGet)
	api.HandleFunc("/properties", h.CreateProperty).Methods(http.MethodPost)
	api.HandleFunc("/properties/available", h.ListAvailableProperties).Methods(http.MethodGet)
	api.HandleFunc("/properties/{id:[0-9]+}", h.GetProperty).Methods(http.MethodGet)
	api.HandleFunc("/properties/{id:[0-9]+}", h.UpdateProperty).Methods(http.MethodPut)
	api.HandleFunc("/properties/{id:[0-9]+}", h.DeleteProperty).Methods(http.MethodDelete)
	api.HandleFunc("/properties/{id:[0-9]+}/criteria", h.SetCriteria).Methods(http.MethodPut)
	api.HandleFunc("/properties/{id:[0-9]+}/end-tenancy", h.EndTenancy).Methods(http.MethodPost)
	api.HandleFunc("/properties/{id:[0-9]+}/applications", h.SubmitApplication).Methods(http.MethodPost)
	api.HandleFunc("/properties/{id:[0-9]+}/applications", h.ListPropertyApplications).Methods(http.MethodGet)
	api.HandleFunc("/properties/{id:[0-9]+}/incidents", h.ListPropertyIncidents).Methods(http.MethodGet)

	api.HandleFunc("/applications/mine", h.ListMyApplications).Methods(http.MethodGet)
	api.HandleFunc("/applications/{id:[0-9]+}", h.GetApplication).Methods(http.MethodGet)
	api.HandleFunc("/applications/{id:[0-9]+}/match", h.EvaluateApplication).Methods(http.MethodGet)
	api.HandleFunc("/applications/{id:[0-9]+}/accept", h.AcceptApplication).Methods(http.MethodPost)
	api.HandleFunc("/applications/{id:[0-9]+}/reject", h.RejectApplication).Methods(http.MethodPost)
	api.HandleFunc("/applications/{id:[0-9]+}/cancel", h.CancelApplication).Methods(http.MethodPost)

	api.HandleFunc("/incidents", h.CreateIncident).Methods(http.MethodPost)
	api.HandleFunc("/incidents/mine", h.ListMyIncidents).Methods(http.MethodGet)
	api.HandleFunc("/incidents/{id:[0-9]+}", h.GetIncident).Methods(http.MethodGet)
	api.HandleFunc("/incidents/{id:[0-9]+}", h.DeleteIncident).Methods(http.MethodDelete)
	api.HandleFunc("/incidents/{id:[0-9]+}/transition", h.TransitionIncident).Methods(http.MethodPost)
	api.HandleFunc("/incidents/{id:[0-9]+}/schedule", h.ScheduleIncident).Methods(http.MethodPost)
	api.HandleFunc("/incidents/{id:[0-9]+}/comments", h.AddIncidentComment).Methods(http.MethodPost)
	api.HandleFunc("/incidents/{id:[0-9]+}/photos", h.AddIncidentPhoto).Methods(http.MethodPost)

	api.HandleFunc("/notifications", h.ListNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id:[0-9]+}/read", h.MarkNotificationRead).Methods(http.MethodPost)

	r.HandleFunc("/uploads/{key:.+}", h.DownloadFile).Methods(http.MethodGet)
	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.deps.Ping != nil {
		if err := h.deps.Ping(r.Context()); err != nil {
			writeMessage(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
