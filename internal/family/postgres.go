package family

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

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

const scatteredRolesQuery = `
SELECT role, series FROM say_family_role_series`

// ScatteredRoles loads the raw series per role. The series column is JSONB
// mirrored from the platform backend; its shape is deliberately untyped
// here and normalized by the transform layer.
func (r *PGRepository) ScatteredRoles(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := r.pool.Query(ctx, scatteredRolesQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: family: scattered roles query: %w", httpx.ErrUpstream, err)
	}
	defer rows.Close()

	series := make(map[string]json.RawMessage)
	for rows.Next() {
		var (
			role string
			raw  []byte
		)
		if err := rows.Scan(&role, &raw); err != nil {
			return nil, fmt.Errorf("%w: family: scan role series: %w", httpx.ErrUpstream, err)
		}
		series[role] = json.RawMessage(raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: family: role rows: %w", httpx.ErrUpstream, err)
	}
	return series, nil
}
