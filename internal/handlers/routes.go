package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/bookwall/internal/constants"
)

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Health)
	r.Get("/api/publications", h.ListPublications)
	r.Get("/api/publications/{id}/cover", h.PublicationCover)
	r.Post("/api/refresh", h.StartRefresh)
	r.Get("/api/refresh/{id}", h.RefreshStatus)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListPublications returns the cached catalog. The first call against a
// brand-new store runs a full refresh, so it can take a while.
func (h *Handler) ListPublications(w http.ResponseWriter, r *http.Request) {
	pubs, err := h.Catalog.Publications(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, pubs)
}

func (h *Handler) PublicationCover(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid publication id")
		return
	}

	cover, err := h.Catalog.Cover(id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(cover) == 0 {
		h.writeError(w, http.StatusNotFound, "no cover")
		return
	}

	w.Header().Set("Content-Type", constants.MimeTypePNG)
	_, _ = w.Write(cover)
}

// StartRefresh triggers an async full refresh. While one is already
// running the running job is returned.
func (h *Handler) StartRefresh(w http.ResponseWriter, r *http.Request) {
	job := h.Catalog.StartRefresh(r.Context())
	h.writeJSON(w, http.StatusAccepted, job)
}

func (h *Handler) RefreshStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := h.Catalog.Job(chi.URLParam(r, "id"))
	if !ok {
		h.writeError(w, http.StatusNotFound, "unknown refresh job")
		return
	}
	h.writeJSON(w, http.StatusOK, job)
}
