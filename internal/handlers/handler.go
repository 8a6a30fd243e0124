// Package handlers exposes the management HTTP API consumed by the
// kiosk presentation layer and the on-site configuration tooling.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cesargomez89/bookwall/internal/constants"
	"github.com/cesargomez89/bookwall/internal/logger"
	"github.com/cesargomez89/bookwall/internal/service"
)

type Handler struct {
	Catalog *service.Catalog
	Log     *logger.Logger
}

func NewHandler(catalog *service.Catalog, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		Catalog: catalog,
		Log:     log.WithComponent("http"),
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", constants.MimeTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
