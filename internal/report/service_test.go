package report

import (
	"context"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type mockRepo struct {
	rows   []PeriodRecord
	err    error
	calls  int
	season int
	locale string
}

func (m *mockRepo) SeasonComparison(ctx context.Context, season int, locale string) ([]PeriodRecord, error) {
	m.calls++
	m.season = season
	m.locale = locale
	return m.rows, m.err
}

func newTestService(t *testing.T, repo Repository) (*Service, func()) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)
	svc := NewService(repo, cache, slog.Default(), DefaultAnchor)
	svc.WithNow(func() time.Time {
		return time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	})
	return svc, func() {
		_ = client.Close()
		mr.Close()
	}
}

func TestGetSeasonComparisonPipeline(t *testing.T) {
	repo := &mockRepo{rows: []PeriodRecord{
		{Period: "January", Previous: 0, Current: 0},
		{Period: "February", Previous: 10, Current: 20},
	}}
	svc, cleanup := newTestService(t, repo)
	defer cleanup()

	cmp, err := svc.GetSeasonComparison(context.Background(), SeasonFilter{Season: 2025, Locale: "en"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.season != 2025 || repo.locale != "en" {
		t.Fatalf("repo called with %d/%q", repo.season, repo.locale)
	}
	if len(cmp.Records) != 2 {
		t.Fatalf("expected 2 records for a past season, got %d", len(cmp.Records))
	}
	if cmp.Records[0].Rate == nil || *cmp.Records[0].Rate != 0 {
		t.Fatalf("expected explicit zero rate for January, got %v", cmp.Records[0].Rate)
	}
	if cmp.Records[1].Rate == nil || *cmp.Records[1].Rate != 100 {
		t.Fatalf("expected rate 100 for February, got %v", cmp.Records[1].Rate)
	}
	if cmp.KPI.PrevTotal != 10 || cmp.KPI.CurrTotal != 20 {
		t.Fatalf("expected totals 10/20, got %.2f/%.2f", cmp.KPI.PrevTotal, cmp.KPI.CurrTotal)
	}
	if cmp.KPI.Pct == nil || *cmp.KPI.Pct != 100 {
		t.Fatalf("expected aggregate pct 100, got %v", cmp.KPI.Pct)
	}
	if cmp.Trend != "up" {
		t.Fatalf("expected trend up, got %q", cmp.Trend)
	}
	// Current values 0 and 20: range 20, pad 2.
	if cmp.Domain != [2]int{-2, 22} {
		t.Fatalf("expected domain [-2,22], got %v", cmp.Domain)
	}
}

func TestGetSeasonComparisonDefaultsLocale(t *testing.T) {
	repo := &mockRepo{}
	svc, cleanup := newTestService(t, repo)
	defer cleanup()

	if _, err := svc.GetSeasonComparison(context.Background(), SeasonFilter{Season: 2024}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.locale != "fa" {
		t.Fatalf("expected fa default locale, got %q", repo.locale)
	}
}

func TestGetSeasonComparisonFiltersCurrentSeason(t *testing.T) {
	repo := &mockRepo{rows: []PeriodRecord{
		{Period: "فروردین", Previous: 1, Current: 2},
		{Period: "مرداد", Previous: 3, Current: 4},
	}}
	svc, cleanup := newTestService(t, repo)
	defer cleanup()

	// July 2026 sits in Tir 1405; Mordad has not elapsed yet.
	cmp, err := svc.GetSeasonComparison(context.Background(), SeasonFilter{Season: 2026, Locale: "fa"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cmp.Records) != 1 || cmp.Records[0].Period != "فروردین" {
		t.Fatalf("expected only فروردین to survive, got %+v", cmp.Records)
	}
}

func TestGetSeasonComparisonCaches(t *testing.T) {
	repo := &mockRepo{rows: []PeriodRecord{{Period: "January", Previous: 5, Current: 10}}}
	svc, cleanup := newTestService(t, repo)
	defer cleanup()

	ctx := context.Background()
	filter := SeasonFilter{Season: 2025, Locale: "en"}
	if _, err := svc.GetSeasonComparison(ctx, filter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected 1 repo call, got %d", repo.calls)
	}

	// Second call should hit cache.
	if _, err := svc.GetSeasonComparison(ctx, filter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected cached result, repo called %d times", repo.calls)
	}

	// A different locale is a different cache key.
	if _, err := svc.GetSeasonComparison(ctx, SeasonFilter{Season: 2025, Locale: "fa"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.calls != 2 {
		t.Fatalf("expected per-locale keys, repo called %d times", repo.calls)
	}

	// Bumping the cache should trigger reload.
	if err := svc.cache.Bump(ctx); err != nil {
		t.Fatalf("bump failed: %v", err)
	}
	repo.rows[0].Current = 15
	cmp, err := svc.GetSeasonComparison(ctx, filter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.Records[0].Current != 15 {
		t.Fatalf("expected refreshed current 15, got %.2f", cmp.Records[0].Current)
	}
	if repo.calls != 3 {
		t.Fatalf("expected repo to refresh, calls %d", repo.calls)
	}
}
