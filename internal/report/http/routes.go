package reporthttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers season comparison endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(30, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/season/compare", h.handleSeasonCompare)
	})
}

// MountAdminRoutes registers the token-guarded maintenance endpoints.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Post("/cache/bump", h.handleCacheBump)
}
