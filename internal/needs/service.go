package needs

import (
	"context"
	"log/slog"

	"github.com/say-dao/dao-analytics/internal/shared"
)

// Repository exposes delivered-need persistence operations.
type Repository interface {
	DeliveredNeeds(ctx context.Context, needType NeedType, limit, offset int) ([]Transaction, int, error)
}

// ListFilter scopes a delivered-needs listing.
type ListFilter struct {
	Type      NeedType
	Page      int           `validate:"gte=1"`
	Limit     int           `validate:"gte=0,lte=200"`
	SortField string        `validate:"omitempty,oneof=id title _cost purchase_cost created updated confirmDate doneAt purchase_date status_updated_at expected_delivery_date ngo_delivery_date child_delivery_date"`
	SortDir   SortDirection `validate:"omitempty,oneof=asc desc"`
}

// Service resolves delivered-need pages for the payment table.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService wires the delivered-needs repository.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListDelivered returns one page of delivered needs with pagination
// metadata. The repository pages server-side; sorting applies to the page
// the client sees, matching the table's column sort.
func (s *Service) ListDelivered(ctx context.Context, filter ListFilter) (DeliveredList, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}

	rows, total, err := s.repo.DeliveredNeeds(ctx, filter.Type, limit, (page-1)*limit)
	if err != nil {
		return DeliveredList{}, err
	}
	if filter.SortField != "" {
		rows = SortRows(rows, filter.SortField, filter.SortDir)
	}

	meta := shared.NewPagination(page, limit, total)
	// Rows are already the requested page; Paginate stays a passthrough here
	// and only slices when a caller hands it a full client-side dataset.
	rows = Paginate(rows, page-1, limit, meta.ServerSide())
	return DeliveredList{Delivered: rows, Meta: meta}, nil
}
