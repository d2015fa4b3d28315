package familyhttp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/say-dao/dao-analytics/internal/family"
	"github.com/say-dao/dao-analytics/internal/platform/httpx"
)

const requestTimeout = 5 * time.Second

// FamilyService defines the scattered-roles contract used by the handler.
type FamilyService interface {
	GetScatteredRoles(ctx context.Context) ([]family.RoleSeries, error)
}

// Handler serves virtual-family role statistics.
type Handler struct {
	logger  *slog.Logger
	service FamilyService
}

// NewHandler constructs the family HTTP handler.
func NewHandler(logger *slog.Logger, service FamilyService) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers family analytics endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Get("/family/scattered", h.handleScattered)
}

func (h *Handler) handleScattered(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	series, err := h.service.GetScatteredRoles(ctx)
	if err != nil {
		h.logger.Error("load scattered roles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"roles": series})
}
