package network

import (
	"context"
	"log/slog"
	"sync"
)

// Repository exposes the child/family records the graph is built from.
type Repository interface {
	ChildrenNetworks(ctx context.Context) ([]Child, error)
}

// Service resolves graphs for the network visualization. The builder (and
// its per-child family cache) lives until Reload; expansion of an already
// expanded child is therefore O(1).
type Service struct {
	repo   Repository
	logger *slog.Logger
	cfg    Config

	mu      sync.Mutex
	builder *Builder
}

// NewService wires the repository with the layout configuration.
func NewService(repo Repository, logger *slog.Logger, cfg Config) *Service {
	return &Service{repo: repo, logger: logger, cfg: cfg}
}

// BaseGraph returns the root-plus-children graph.
func (s *Service) BaseGraph(ctx context.Context) (Graph, error) {
	b, err := s.getBuilder(ctx)
	if err != nil {
		return Graph{}, err
	}
	return b.BaseGraph(), nil
}

// FamilySubgraph returns the expansion nodes and links for one child. The
// second return is false when the child is unknown or has no family.
func (s *Service) FamilySubgraph(ctx context.Context, childID int64) (Graph, bool, error) {
	b, err := s.getBuilder(ctx)
	if err != nil {
		return Graph{}, false, err
	}
	g, ok := b.FamilySubgraph(childID)
	return g, ok, nil
}

// Reload discards the builder and its family cache; the next request
// rebuilds from fresh records. This is the only invalidation path.
func (s *Service) Reload() {
	s.mu.Lock()
	s.builder = nil
	s.mu.Unlock()
}

func (s *Service) getBuilder(ctx context.Context) (*Builder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.builder != nil {
		return s.builder, nil
	}
	children, err := s.repo.ChildrenNetworks(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("children network loaded", slog.Int("children", len(children)))
	s.builder = NewBuilder(children, s.cfg)
	return s.builder, nil
}
