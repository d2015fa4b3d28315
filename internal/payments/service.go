package payments

import (
	"context"
	"log/slog"
)

// Repository exposes the contribution records attached to a need.
type Repository interface {
	NeedContributions(ctx context.Context, needID int64) ([]Contribution, error)
}

// Service resolves aggregated payer breakdowns for a need.
type Service struct {
	repo      Repository
	logger    *slog.Logger
	orgUserID int64
}

// NewService wires the repository with the platform's own ledger user id,
// whose pass-through entries are excluded from every breakdown.
func NewService(repo Repository, logger *slog.Logger, orgUserID int64) *Service {
	return &Service{repo: repo, logger: logger, orgUserID: orgUserID}
}

// PayerBreakdown is an Aggregation plus the payer count the card displays.
type PayerBreakdown struct {
	Aggregation
	NeedPayers int `json:"needPayers"`
}

// GetPayerBreakdown aggregates a need's contributions per payer.
func (s *Service) GetPayerBreakdown(ctx context.Context, needID int64) (PayerBreakdown, error) {
	contributions, err := s.repo.NeedContributions(ctx, needID)
	if err != nil {
		return PayerBreakdown{}, err
	}
	agg := Aggregate(contributions, s.orgUserID)
	return PayerBreakdown{Aggregation: agg, NeedPayers: CountNeedPayers(agg)}, nil
}
