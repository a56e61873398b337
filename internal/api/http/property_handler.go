package http

import (
	"net/http"

	"rentdesk-backend/internal/domain"
)

type propertyPage struct {
	Properties []domain.Property `json:"properties"`
	Total      int32             `json:"total"`
}

func (h *Handler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	if err := requireRole(r, domain.UserRoleOwner, domain.UserRoleAdmin); err != nil {
		writeError(w, r, err)
		return
	}
	var property domain.Property
	if err := decodeJSON(r, &property); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.deps.Properties.CreateProperty(r.Context(), currentUserID(r), &property); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, property)
}

func (h *Handler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	property, err := h.deps.Properties.GetProperty(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, property)
}

func (h *Handler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var property domain.Property
	if err := decodeJSON(r, &property); err != nil {
		writeError(w, r, err)
		return
	}
	property.ID = id
	if err := h.deps.Properties.UpdateProperty(r.Context(), currentUserID(r), &property); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, property)
}

func (h *Handler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.deps.Properties.DeleteProperty(r.Context(), currentUserID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListMyProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := h.deps.Properties.ListMyProperties(r.Context(), currentUserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, propertyPage{Properties: properties, Total: int32(len(properties))})
}

func (h *Handler) ListAvailableProperties(w http.ResponseWriter, r *http.Request) {
	properties, total, err := h.deps.Properties.ListAvailable(r.Context(),
		r.URL.Query().Get("city"), queryInt32(r, "page"), queryInt32(r, "page_size"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, propertyPage{Properties: properties, Total: total})
}

func (h *Handler) SetCriteria(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var criteria *domain.TenantCriteria
	if err := decodeJSON(r, &criteria); err != nil {
		writeError(w, r, err)
		return
	}
	property, err := h.deps.Properties.SetCriteria(r.Context(), currentUserID(r), id, criteria)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, property)
}

func (h *Handler) EndTenancy(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	property, err := h.deps.Properties.EndTenancy(r.Context(), currentUserID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, property)
}
