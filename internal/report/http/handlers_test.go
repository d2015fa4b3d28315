package reporthttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/say-dao/dao-analytics/internal/platform/httpx"
	"github.com/say-dao/dao-analytics/internal/report"
)

type stubReportService struct {
	result     report.SeasonComparison
	err        error
	lastFilter report.SeasonFilter
}

func (s *stubReportService) GetSeasonComparison(ctx context.Context, filter report.SeasonFilter) (report.SeasonComparison, error) {
	s.lastFilter = filter
	return s.result, s.err
}

type stubBumper struct {
	calls int
	err   error
}

func (b *stubBumper) Bump(ctx context.Context) error {
	b.calls++
	return b.err
}

type stubEnqueuer struct {
	calls int
	err   error
}

func (e *stubEnqueuer) EnqueueWarmup(ctx context.Context) error {
	e.calls++
	return e.err
}

func newReportHandler(service *stubReportService, bumper *stubBumper, token string) *Handler {
	handler := NewHandler(slog.Default(), service, bumper, nil, token)
	handler.now = func() time.Time { return time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC) }
	return handler
}

func TestSeasonCompareDefaultsToCurrentYear(t *testing.T) {
	service := &stubReportService{result: report.SeasonComparison{Season: 2026, Trend: "up"}}
	handler := newReportHandler(service, &stubBumper{}, "")

	req := httptest.NewRequest(http.MethodGet, "/season/compare", nil)
	rr := httptest.NewRecorder()
	handler.handleSeasonCompare(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if service.lastFilter.Season != 2026 {
		t.Fatalf("expected season to default to 2026, got %d", service.lastFilter.Season)
	}
	var payload report.SeasonComparison
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Trend != "up" {
		t.Fatalf("expected trend up, got %q", payload.Trend)
	}
}

func TestSeasonCompareParsesQuery(t *testing.T) {
	service := &stubReportService{}
	handler := newReportHandler(service, &stubBumper{}, "")

	req := httptest.NewRequest(http.MethodGet, "/season/compare?season=2024&locale=en", nil)
	rr := httptest.NewRecorder()
	handler.handleSeasonCompare(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if service.lastFilter.Season != 2024 || service.lastFilter.Locale != "en" {
		t.Fatalf("unexpected filter %+v", service.lastFilter)
	}
}

func TestSeasonCompareRejectsBadSeason(t *testing.T) {
	handler := newReportHandler(&stubReportService{}, &stubBumper{}, "")

	for _, q := range []string{"season=abc", "season=1990", "locale=!!"} {
		req := httptest.NewRequest(http.MethodGet, "/season/compare?"+q, nil)
		rr := httptest.NewRecorder()
		handler.handleSeasonCompare(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, rr.Code)
		}
	}
}

func TestSeasonCompareServiceError(t *testing.T) {
	service := &stubReportService{err: errors.New("boom")}
	handler := newReportHandler(service, &stubBumper{}, "")

	req := httptest.NewRequest(http.MethodGet, "/season/compare?season=2024", nil)
	rr := httptest.NewRecorder()
	handler.handleSeasonCompare(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func TestSeasonCompareUpstreamFailureIsBadGateway(t *testing.T) {
	service := &stubReportService{err: fmt.Errorf("%w: report: season comparison query: connection refused", httpx.ErrUpstream)}
	handler := newReportHandler(service, &stubBumper{}, "")

	req := httptest.NewRequest(http.MethodGet, "/season/compare?season=2024", nil)
	rr := httptest.NewRecorder()
	handler.handleSeasonCompare(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for upstream failure, got %d", rr.Code)
	}
}

func TestCacheBumpRequiresToken(t *testing.T) {
	bumper := &stubBumper{}
	handler := newReportHandler(&stubReportService{}, bumper, "secret")

	req := httptest.NewRequest(http.MethodPost, "/cache/bump", nil)
	rr := httptest.NewRecorder()
	handler.handleCacheBump(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}
	if bumper.calls != 0 {
		t.Fatalf("bump must not run unauthorized")
	}

	req = httptest.NewRequest(http.MethodPost, "/cache/bump", nil)
	req.Header.Set("X-Admin-Token", "secret")
	rr = httptest.NewRecorder()
	handler.handleCacheBump(rr, req)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202 with token, got %d", rr.Code)
	}
	if bumper.calls != 1 {
		t.Fatalf("expected 1 bump call, got %d", bumper.calls)
	}
}

func TestCacheBumpSchedulesWarmup(t *testing.T) {
	bumper := &stubBumper{}
	enqueuer := &stubEnqueuer{}
	handler := newReportHandler(&stubReportService{}, bumper, "secret")
	handler.enqueuer = enqueuer

	req := httptest.NewRequest(http.MethodPost, "/cache/bump", nil)
	req.Header.Set("X-Admin-Token", "secret")
	rr := httptest.NewRecorder()
	handler.handleCacheBump(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rr.Code)
	}
	if enqueuer.calls != 1 {
		t.Fatalf("expected 1 warmup enqueue, got %d", enqueuer.calls)
	}
}

func TestCacheBumpWarmupErrorStillAccepted(t *testing.T) {
	enqueuer := &stubEnqueuer{err: errors.New("queue down")}
	handler := newReportHandler(&stubReportService{}, &stubBumper{}, "secret")
	handler.enqueuer = enqueuer

	req := httptest.NewRequest(http.MethodPost, "/cache/bump", nil)
	req.Header.Set("X-Admin-Token", "secret")
	rr := httptest.NewRecorder()
	handler.handleCacheBump(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202 when warmup enqueue fails, got %d", rr.Code)
	}
}

func TestCacheBumpNoWarmupWhenUnauthorized(t *testing.T) {
	enqueuer := &stubEnqueuer{}
	handler := newReportHandler(&stubReportService{}, &stubBumper{}, "secret")
	handler.enqueuer = enqueuer

	req := httptest.NewRequest(http.MethodPost, "/cache/bump", nil)
	rr := httptest.NewRecorder()
	handler.handleCacheBump(rr, req)

	if enqueuer.calls != 0 {
		t.Fatalf("warmup must not be scheduled unauthorized")
	}
}

func TestCacheBumpNoWarmupOnBumpFailure(t *testing.T) {
	enqueuer := &stubEnqueuer{}
	handler := newReportHandler(&stubReportService{}, &stubBumper{err: errors.New("redis down")}, "secret")
	handler.enqueuer = enqueuer

	req := httptest.NewRequest(http.MethodPost, "/cache/bump", nil)
	req.Header.Set("X-Admin-Token", "secret")
	rr := httptest.NewRecorder()
	handler.handleCacheBump(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if enqueuer.calls != 0 {
		t.Fatalf("warmup must not be scheduled when bump fails")
	}
}

func TestCacheBumpEmptyTokenAlwaysRejects(t *testing.T) {
	bumper := &stubBumper{}
	handler := newReportHandler(&stubReportService{}, bumper, "")

	req := httptest.NewRequest(http.MethodPost, "/cache/bump", nil)
	req.Header.Set("X-Admin-Token", "")
	rr := httptest.NewRecorder()
	handler.handleCacheBump(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
