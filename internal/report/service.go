package report

import (
	"context"
	"log/slog"
	"time"
)

// Repository exposes the raw season-comparison rows the service transforms.
type Repository interface {
	SeasonComparison(ctx context.Context, season int, locale string) ([]PeriodRecord, error)
}

// SeasonFilter scopes a season comparison request.
type SeasonFilter struct {
	Season int    `validate:"required,gte=2015,lte=2100"`
	Locale string `validate:"omitempty,bcp47_language_tag"`
}

// SeasonComparison is the display-ready payload for the comparison chart.
type SeasonComparison struct {
	Season  int                      `json:"season"`
	Records []NormalizedPeriodRecord `json:"records"`
	KPI     SeasonKPI                `json:"kpi"`
	Trend   string                   `json:"trend"`
	Domain  [2]int                   `json:"domain"`
}

// Service coordinates transform execution with the cache layer.
type Service struct {
	repo   Repository
	cache  *Cache
	logger *slog.Logger
	anchor Anchor
	now    func() time.Time
}

// NewService wires a Repository with a Cache helper.
func NewService(repo Repository, cache *Cache, logger *slog.Logger, anchor Anchor) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
		anchor: anchor,
		now:    time.Now,
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// GetSeasonComparison resolves the comparison chart payload using
// cache-aware lookups: fetch raw monthly pairs, normalize the rates, drop
// unfinished months of the current season, then derive KPI and axis bounds.
func (s *Service) GetSeasonComparison(ctx context.Context, filter SeasonFilter) (SeasonComparison, error) {
	locale := filter.Locale
	if locale == "" {
		locale = "fa"
	}
	loader := func(ctx context.Context) (interface{}, error) {
		raw, err := s.repo.SeasonComparison(ctx, filter.Season, locale)
		if err != nil {
			return SeasonComparison{}, err
		}
		return s.build(filter.Season, locale, raw), nil
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return SeasonComparison{}, err
		}
		return value.(SeasonComparison), nil
	}

	key, err := s.cache.BuildKey(ctx, keySeason(filter.Season, locale))
	if err != nil {
		return SeasonComparison{}, err
	}
	var cmp SeasonComparison
	if err := s.cache.FetchJSON(ctx, key, &cmp, loader); err != nil {
		return SeasonComparison{}, err
	}
	return cmp, nil
}

func (s *Service) build(season int, locale string, raw []PeriodRecord) SeasonComparison {
	cal := CalendarForLocale(locale, s.anchor)
	records := FilterElapsedPeriods(Normalize(raw), season, cal, s.now())
	kpi := AggregateKPI(records)
	return SeasonComparison{
		Season:  season,
		Records: records,
		KPI:     kpi,
		Trend:   kpi.Direction().String(),
		Domain:  AxisDomain(CurrentValues(records)),
	}
}
