package networkhttp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/say-dao/dao-analytics/internal/network"
	"github.com/say-dao/dao-analytics/internal/platform/httpx"
)

const requestTimeout = 10 * time.Second

// NetworkService defines the graph contract used by the handler.
type NetworkService interface {
	BaseGraph(ctx context.Context) (network.Graph, error)
	FamilySubgraph(ctx context.Context, childID int64) (network.Graph, bool, error)
	Reload()
}

// Handler serves the children/family network graph.
type Handler struct {
	logger  *slog.Logger
	service NetworkService
}

// NewHandler constructs the network HTTP handler.
func NewHandler(logger *slog.Logger, service NetworkService) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers network graph endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Get("/children/network", h.handleBaseGraph)
	r.Get("/children/network/{childID}/family", h.handleFamily)
	r.Post("/children/network/reload", h.handleReload)
}

func (h *Handler) handleBaseGraph(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	graph, err := h.service.BaseGraph(ctx)
	if err != nil {
		h.logger.Error("load children network", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, graph)
}

func (h *Handler) handleFamily(w http.ResponseWriter, r *http.Request) {
	childID, err := strconv.ParseInt(chi.URLParam(r, "childID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: child id must be numeric", httpx.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	graph, ok, err := h.service.FamilySubgraph(ctx, childID)
	if err != nil {
		h.logger.Error("load family subgraph", slog.Int64("child_id", childID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if !ok {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	httpx.JSON(w, http.StatusOK, graph)
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	h.service.Reload()
	httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "reloading"})
}
