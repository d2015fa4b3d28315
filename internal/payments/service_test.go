package payments

import (
	"context"
	"log/slog"
	"testing"

	"github.com/say-dao/dao-analytics/internal/shared"
)

type mockContribRepo struct {
	rows   []Contribution
	err    error
	needID int64
}

func (m *mockContribRepo) NeedContributions(ctx context.Context, needID int64) ([]Contribution, error) {
	m.needID = needID
	return m.rows, m.err
}

func TestGetPayerBreakdown(t *testing.T) {
	repo := &mockContribRepo{rows: []Contribution{
		{ID: int64Ptr(1), UserID: 99, NeedAmount: 500, Verified: true}, // org user
		{ID: int64Ptr(2), UserID: 1, NeedAmount: 100, CreditAmount: 100, Verified: true},
		{ID: int64Ptr(3), UserID: 2, DonationAmount: 40, Verified: true},
	}}
	svc := NewService(repo, slog.Default(), 99)

	breakdown, err := svc.GetPayerBreakdown(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.needID != 7 {
		t.Fatalf("expected need id 7, got %d", repo.needID)
	}
	if len(breakdown.Rows) != 2 {
		t.Fatalf("expected 2 payers, got %d", len(breakdown.Rows))
	}
	// Only user 1 has a positive need amount.
	if breakdown.NeedPayers != 1 {
		t.Fatalf("expected 1 need payer, got %d", breakdown.NeedPayers)
	}
}

func TestGetPayerBreakdownNotFound(t *testing.T) {
	repo := &mockContribRepo{err: shared.ErrNotFound}
	svc := NewService(repo, slog.Default(), 99)

	if _, err := svc.GetPayerBreakdown(context.Background(), 404); err != shared.ErrNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestGetPayerBreakdownEmptyContributions(t *testing.T) {
	repo := &mockContribRepo{}
	svc := NewService(repo, slog.Default(), 99)

	breakdown, err := svc.GetPayerBreakdown(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(breakdown.Rows) != 0 || breakdown.NeedPayers != 0 {
		t.Fatalf("expected empty breakdown, got %+v", breakdown)
	}
}
