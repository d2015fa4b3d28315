package paymenthttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/say-dao/dao-analytics/internal/payments"
	"github.com/say-dao/dao-analytics/internal/platform/httpx"
	"github.com/say-dao/dao-analytics/internal/shared"
)

const requestTimeout = 5 * time.Second

// PaymentService defines the payer breakdown contract used by the handler.
type PaymentService interface {
	GetPayerBreakdown(ctx context.Context, needID int64) (payments.PayerBreakdown, error)
}

// Handler serves aggregated payer breakdowns per need.
type Handler struct {
	logger  *slog.Logger
	service PaymentService
}

// NewHandler constructs the payments HTTP handler.
func NewHandler(logger *slog.Logger, service PaymentService) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers payment endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Get("/payments/{needID}/payers", h.handlePayers)
}

func (h *Handler) handlePayers(w http.ResponseWriter, r *http.Request) {
	needID, err := strconv.ParseInt(chi.URLParam(r, "needID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: need id must be numeric", httpx.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	breakdown, err := h.service.GetPayerBreakdown(ctx, needID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("load payer breakdown", slog.Int64("need_id", needID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, breakdown)
}
