package needhttp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/say-dao/dao-analytics/internal/needs"
	"github.com/say-dao/dao-analytics/internal/platform/httpx"
)

const requestTimeout = 5 * time.Second

// NeedService defines the delivered-needs contract used by the handler.
type NeedService interface {
	ListDelivered(ctx context.Context, filter needs.ListFilter) (needs.DeliveredList, error)
}

// Handler serves the delivered-needs table data.
type Handler struct {
	logger   *slog.Logger
	service  NeedService
	validate *validator.Validate
}

// NewHandler constructs the needs HTTP handler.
func NewHandler(logger *slog.Logger, service NeedService) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers delivered-need endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Get("/needs/delivered/{needType}", h.handleDelivered)
}

func (h *Handler) handleDelivered(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	list, err := h.service.ListDelivered(ctx, filter)
	if err != nil {
		h.logger.Error("load delivered needs", slog.Int("type", int(filter.Type)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) parseFilter(r *http.Request) (needs.ListFilter, error) {
	needType, err := needs.ParseNeedType(chi.URLParam(r, "needType"))
	if err != nil {
		return needs.ListFilter{}, err
	}

	q := r.URL.Query()
	filter := needs.ListFilter{
		Type:      needType,
		Page:      intQuery(q.Get("page"), 1),
		Limit:     intQuery(q.Get("limit"), 10),
		SortField: q.Get("sort"),
		SortDir:   needs.SortDirection(q.Get("dir")),
	}
	if err := h.validate.Struct(filter); err != nil {
		return needs.ListFilter{}, err
	}
	return filter, nil
}

func intQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
