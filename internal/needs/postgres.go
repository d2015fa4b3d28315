package needs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/say-dao/dao-analytics/internal/payments"
	"github.com/say-dao/dao-analytics/internal/platform/httpx"
)

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const deliveredNeedsQuery = `
SELECT id, COALESCE(title, ''), COALESCE(img, ''), type, status,
       COALESCE(cost, 0)::float8, COALESCE(purchase_cost, 0)::float8,
       COALESCE(created, ''), COALESCE(updated, ''), COALESCE(confirm_date, ''),
       COALESCE(done_at, ''), COALESCE(purchase_date, ''),
       COALESCE(status_updated_at, ''), COALESCE(expected_delivery_date, ''),
       COALESCE(ngo_delivery_date, ''), COALESCE(child_delivery_date, ''),
       payments,
       COUNT(*) OVER() AS total
FROM say_needs
WHERE type = $1 AND status = $2
ORDER BY child_delivery_date DESC NULLS LAST, id DESC
LIMIT $3 OFFSET $4`

// DeliveredNeeds returns one page of delivered needs of the given type and
// the total delivered count. Contribution payloads that are not arrays
// decode to no payers rather than failing the page.
func (r *PGRepository) DeliveredNeeds(ctx context.Context, needType NeedType, limit, offset int) ([]Transaction, int, error) {
	rows, err := r.pool.Query(ctx, deliveredNeedsQuery, int(needType), DoneStatus(needType), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: needs: delivered query: %w", httpx.ErrUpstream, err)
	}
	defer rows.Close()

	var (
		list  []Transaction
		total int
	)
	for rows.Next() {
		var (
			t   Transaction
			raw []byte
		)
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Img, &t.Type, &t.Status,
			&t.Cost, &t.PurchaseCost,
			&t.Created, &t.Updated, &t.ConfirmDate, &t.DoneAt, &t.PurchaseDate,
			&t.StatusUpdatedAt, &t.ExpectedDeliveryDate,
			&t.NGODeliveryDate, &t.ChildDeliveryDate,
			&raw,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: needs: scan delivered row: %w", httpx.ErrUpstream, err)
		}
		if len(raw) > 0 {
			var contributions []payments.Contribution
			if err := json.Unmarshal(raw, &contributions); err == nil {
				t.Payments = contributions
			}
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: needs: delivered rows: %w", httpx.ErrUpstream, err)
	}
	return list, total, nil
}
