package family

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
)

// Repository exposes the raw scattered role series per role name.
type Repository interface {
	ScatteredRoles(ctx context.Context) (map[string]json.RawMessage, error)
}

// RoleSeries is one role's normalized series plus its stats.
type RoleSeries struct {
	Role  string     `json:"role"`
	Pairs []RolePair `json:"pairs"`
	Stats RoleStat   `json:"stats"`
}

// Service resolves the scattered-roles payload.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService wires the scattered-roles repository.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetScatteredRoles normalizes every role series and attaches stats. Roles
// come back sorted by name so the chart ordering is deterministic.
func (s *Service) GetScatteredRoles(ctx context.Context) ([]RoleSeries, error) {
	raw, err := s.repo.ScatteredRoles(ctx)
	if err != nil {
		return nil, err
	}
	series := make([]RoleSeries, 0, len(raw))
	for role, payload := range raw {
		pairs := NormalizePairs(payload)
		if pairs == nil {
			s.logger.Warn("unexpected role series shape", slog.String("role", role))
			pairs = []RolePair{}
		}
		series = append(series, RoleSeries{
			Role:  role,
			Pairs: pairs,
			Stats: Stats(role, pairs),
		})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Role < series[j].Role })
	return series, nil
}
