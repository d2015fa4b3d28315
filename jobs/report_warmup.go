package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	jobmetrics "github.com/say-dao/dao-analytics/internal/jobs"
	"github.com/say-dao/dao-analytics/internal/report"
	"github.com/say-dao/dao-analytics/internal/shared"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ReportWarmupJob pre-populates the season comparison caches so the first
// dashboard visitor after a cache bump does not pay the query cost.
type ReportWarmupJob struct {
	Report  *report.Service
	Gate    *shared.RequestGate
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewReportWarmupJob wires dependencies for the warmup handler.
func NewReportWarmupJob(reportSvc *report.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportWarmupJob {
	return &ReportWarmupJob{
		Report:  reportSvc,
		Gate:    shared.NewRequestGate(),
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes report warmup tasks. Overlapping warmups of the same
// season/locale scope are keyed through the gate: a run that has been
// superseded stops warming that scope instead of racing the newer run.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload ReportWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	seasons := payload.Seasons
	if len(seasons) == 0 {
		seasons = []int{j.now().Year()}
	}
	locales := payload.Locales
	if len(locales) == 0 {
		locales = []string{"fa", "en"}
	}

	tracker := j.metrics().Track(TaskReportWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int("seasons", len(seasons)))
	logger.Info("starting report warmup")

	start := j.now()
	j.gate() // initialise before the fan-out
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, season := range seasons {
		for _, locale := range locales {
			season, locale := season, locale
			g.Go(func() error {
				if err := j.warmScope(gctx, season, locale); err != nil {
					logger.Error("warm season", slog.Int("season", season), slog.String("locale", locale), slog.Any("error", err))
					return err
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		resultErr = err
		return resultErr
	}

	logger.Info("completed report warmup", slog.Int("scopes", len(seasons)*len(locales)), slog.Duration("duration", time.Since(start)))
	return resultErr
}

func (j *ReportWarmupJob) warmScope(ctx context.Context, season int, locale string) error {
	if j.Report == nil {
		return nil
	}
	scope := fmt.Sprintf("warmup:%d:%s", season, locale)
	key := j.gate().Begin(scope)

	scopeCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	_, err := j.Report.GetSeasonComparison(scopeCtx, report.SeasonFilter{Season: season, Locale: locale})
	if err != nil {
		return err
	}
	if !j.gate().Current(scope, key) {
		j.logger().Info("warmup superseded", slog.Int("season", season), slog.String("locale", locale))
		return nil
	}
	j.gate().Finish(scope, key)
	return nil
}

func (j *ReportWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *ReportWarmupJob) gate() *shared.RequestGate {
	if j.Gate == nil {
		j.Gate = shared.NewRequestGate()
	}
	return j.Gate
}

func (j *ReportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *ReportWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
