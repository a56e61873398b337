package http

import (
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gorilla/mux"

	"rentdesk-backend/internal/logger"
)

// DownloadFile streams a stored incident photo.
func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	file, err := h.deps.Storage.ReadFile(r.Context(), key)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "file not found")
		return
	}
	defer file.Close()

	contentType := "application/octet-stream"
	switch strings.ToLower(path.Ext(key)) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".webp":
		contentType = "image/webp"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if _, err := io.Copy(w, file); err != nil {
		logger.Warn("Failed to stream file", "key", key, "error", err)
	}
}
