package reporthttp

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/say-dao/dao-analytics/internal/platform/httpx"
	"github.com/say-dao/dao-analytics/internal/report"
)

const requestTimeout = 5 * time.Second

// ReportService defines the season comparison contract used by the handler.
type ReportService interface {
	GetSeasonComparison(ctx context.Context, filter report.SeasonFilter) (report.SeasonComparison, error)
}

// CacheBumper invalidates derived analytics after a platform data refresh.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// WarmupEnqueuer schedules a background cache warmup.
type WarmupEnqueuer interface {
	EnqueueWarmup(ctx context.Context) error
}

// Handler coordinates HTTP requests for the season comparison chart.
type Handler struct {
	logger     *slog.Logger
	service    ReportService
	bumper     CacheBumper
	enqueuer   WarmupEnqueuer
	validate   *validator.Validate
	adminToken string
	now        func() time.Time
}

// NewHandler constructs the report HTTP handler. adminToken guards the cache
// bump endpoint; when empty the endpoint always rejects. enqueuer may be nil,
// in which case a bump does not trigger a warmup.
func NewHandler(logger *slog.Logger, service ReportService, bumper CacheBumper, enqueuer WarmupEnqueuer, adminToken string) *Handler {
	return &Handler{
		logger:     logger,
		service:    service,
		bumper:     bumper,
		enqueuer:   enqueuer,
		validate:   validator.New(),
		adminToken: adminToken,
		now:        time.Now,
	}
}

func (h *Handler) handleSeasonCompare(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	cmp, err := h.service.GetSeasonComparison(ctx, filter)
	if err != nil {
		h.logger.Error("load season comparison", slog.Int("season", filter.Season), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cmp)
}

func (h *Handler) parseFilter(r *http.Request) (report.SeasonFilter, error) {
	q := r.URL.Query()
	season := h.now().Year()
	if raw := q.Get("season"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return report.SeasonFilter{}, fmt.Errorf("season must be a year: %q", raw)
		}
		season = parsed
	}
	filter := report.SeasonFilter{Season: season, Locale: q.Get("locale")}
	if err := h.validate.Struct(filter); err != nil {
		return report.SeasonFilter{}, err
	}
	return filter, nil
}

func (h *Handler) handleCacheBump(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Admin-Token")
	if h.adminToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.adminToken)) != 1 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	if err := h.bumper.Bump(r.Context()); err != nil {
		h.logger.Error("cache bump", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if h.enqueuer != nil {
		if err := h.enqueuer.EnqueueWarmup(r.Context()); err != nil {
			// The bump already succeeded; warmup is best effort.
			h.logger.Warn("schedule warmup", slog.Any("error", err))
		}
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "bumped"})
}
