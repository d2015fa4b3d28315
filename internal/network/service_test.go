package network

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

type mockNetworkRepo struct {
	children []Child
	err      error
	calls    int
}

func (m *mockNetworkRepo) ChildrenNetworks(ctx context.Context) ([]Child, error) {
	m.calls++
	return m.children, m.err
}

func TestServiceBuildsOnce(t *testing.T) {
	repo := &mockNetworkRepo{children: testChildren()}
	svc := NewService(repo, slog.Default(), DefaultConfig())

	ctx := context.Background()
	if _, err := svc.BaseGraph(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := svc.FamilySubgraph(ctx, 101); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected a single repository load, got %d", repo.calls)
	}
}

func TestServiceReloadRebuilds(t *testing.T) {
	repo := &mockNetworkRepo{children: testChildren()}
	svc := NewService(repo, slog.Default(), DefaultConfig())

	ctx := context.Background()
	if _, err := svc.BaseGraph(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.Reload()
	repo.children = repo.children[:1]
	g, err := svc.BaseGraph(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.calls != 2 {
		t.Fatalf("expected reload to hit the repository, calls %d", repo.calls)
	}
	if len(g.Nodes) != 2 {
		t.Fatalf("expected root plus 1 child after reload, got %d", len(g.Nodes))
	}
}

func TestServiceRepoError(t *testing.T) {
	repo := &mockNetworkRepo{err: errors.New("db down")}
	svc := NewService(repo, slog.Default(), DefaultConfig())

	if _, err := svc.BaseGraph(context.Background()); err == nil {
		t.Fatalf("expected repository error to propagate")
	}
}

func TestServiceFamilySubgraphMissing(t *testing.T) {
	repo := &mockNetworkRepo{children: testChildren()}
	svc := NewService(repo, slog.Default(), DefaultConfig())

	_, ok, err := svc.FamilySubgraph(context.Background(), 999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("unknown child must report false")
	}
}
