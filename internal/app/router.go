package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	familyhttp "github.com/say-dao/dao-analytics/internal/family/http"
	needhttp "github.com/say-dao/dao-analytics/internal/needs/http"
	networkhttp "github.com/say-dao/dao-analytics/internal/network/http"
	"github.com/say-dao/dao-analytics/internal/observability"
	paymenthttp "github.com/say-dao/dao-analytics/internal/payments/http"
	reporthttp "github.com/say-dao/dao-analytics/internal/report/http"
	"github.com/say-dao/dao-analytics/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	ReportHandler   *reporthttp.Handler
	NeedsHandler    *needhttp.Handler
	PaymentsHandler *paymenthttp.Handler
	NetworkHandler  *networkhttp.Handler
	FamilyHandler   *familyhttp.Handler
	JobsHandler     *jobs.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router serving the dashboard API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/dao/analytic/public", func(pr chi.Router) {
		params.ReportHandler.MountRoutes(pr)
		params.NeedsHandler.MountRoutes(pr)
		params.PaymentsHandler.MountRoutes(pr)
		params.NetworkHandler.MountRoutes(pr)
		params.FamilyHandler.MountRoutes(pr)
	})

	r.Route("/api/dao/analytic/admin", func(ar chi.Router) {
		params.ReportHandler.MountAdminRoutes(ar)
	})

	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
