package http

import (
	"net/http"

	"rentdesk-backend/internal/domain"
)

type notificationPage struct {
	Notifications []domain.Notification `json:"notifications"`
	Total         int32                 `json:"total"`
	Unread        int32                 `json:"unread"`
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	notes, total, unread, err := h.deps.Notifications.GetNotifications(r.Context(), currentUserID(r),
		queryInt32(r, "page"), queryInt32(r, "page_size"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notificationPage{Notifications: notes, Total: total, Unread: unread})
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.deps.Notifications.MarkAsRead(r.Context(), currentUserID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
