package timespechttp

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the normalization endpoints on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Post("/periods/normalize", h.handleNormalizePeriod)
	r.Post("/instants/normalize", h.handleNormalizeInstant)
	r.Post("/instants/sort", h.handleSortInstants)
}
