package shared

import "testing"

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 25)
	if p.Page != 2 || p.PerPage != 10 || p.Total != 25 {
		t.Fatalf("unexpected pagination %+v", p)
	}
	if p.TotalPages != 3 {
		t.Fatalf("expected 3 total pages, got %d", p.TotalPages)
	}
}

func TestNewPaginationDefaults(t *testing.T) {
	p := NewPagination(0, 0, 5)
	if p.Page != 1 {
		t.Fatalf("expected page default 1, got %d", p.Page)
	}
	if p.PerPage != 10 {
		t.Fatalf("expected per-page default 10, got %d", p.PerPage)
	}
	if p.TotalPages != 1 {
		t.Fatalf("expected 1 total page, got %d", p.TotalPages)
	}
}

func TestPaginationServerSide(t *testing.T) {
	if (Pagination{}).ServerSide() {
		t.Fatalf("zero pagination must not look server-side")
	}
	if !(Pagination{Page: 1}).ServerSide() {
		t.Fatalf("page 1 metadata marks server-side rows")
	}
}
