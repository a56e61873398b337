package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/service"
)

type transitionRequest struct {
	Status domain.IncidentStatus `json:"status"`
	Note   string                `json:"note"`
}

type scheduleRequest struct {
	ScheduledDate      *time.Time `json:"scheduled_date"`
	EstimatedCostCents *int32     `json:"estimated_cost_cents"`
}

type commentRequest struct {
	Content string `json:"content"`
}

const photoField = "photo"

func (h *Handler) CreateIncident(w http.ResponseWriter, r *http.Request) {
	var req service.CreateIncidentInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	incident, err := h.deps.Incidents.CreateIncident(r.Context(), currentUserID(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, incident)
}

func (h *Handler) GetIncident(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	incident, err := h.deps.Incidents.GetIncident(r.Context(), currentUserID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, incident)
}

func (h *Handler) ListMyIncidents(w http.ResponseWriter, r *http.Request) {
	incidents, err := h.deps.Incidents.ListMine(r.Context(), currentUserID(r), queryStatuses(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"incidents": incidents})
}

func (h *Handler) ListPropertyIncidents(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	incidents, err := h.deps.Incidents.ListByProperty(r.Context(), currentUserID(r), propertyID, queryStatuses(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"incidents": incidents})
}

func (h *Handler) TransitionIncident(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req transitionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	incident, err := h.deps.Incidents.Transition(r.Context(), currentUserID(r), id, req.Status, req.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, incident)
}

func (h *Handler) ScheduleIncident(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	incident, err := h.deps.Incidents.Schedule(r.Context(), currentUserID(r), id, req.ScheduledDate, req.EstimatedCostCents)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, incident)
}

func (h *Handler) AddIncidentComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	incident, err := h.deps.Incidents.AddComment(r.Context(), currentUserID(r), id, req.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, incident)
}

// AddIncidentPhoto takes a multipart form with the image in the "photo" field.
func (h *Handler) AddIncidentPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if h.deps.MaxUploadBytes > 0 {
		// room for the multipart envelope
		r.Body = http.MaxBytesReader(w, r.Body, h.deps.MaxUploadBytes+1<<20)
	}
	file, header, err := r.FormFile(photoField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMessage(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, r, fmt.Errorf("%w: missing %q file: %v", domain.ErrInvalidInput, photoField, err))
		return
	}
	defer file.Close()

	incident, err := h.deps.Incidents.AddPhoto(r.Context(), currentUserID(r), id, service.PhotoUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, incident)
}

func (h *Handler) DeleteIncident(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.deps.Incidents.DeleteIncident(r.Context(), currentUserID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
