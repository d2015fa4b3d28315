package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/say-dao/dao-analytics/internal/platform/httpx"
	"github.com/say-dao/dao-analytics/internal/shared"
)

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const needContributionsQuery = `
SELECT payments FROM say_needs WHERE id = $1`

// NeedContributions loads the contribution records attached to a need. The
// payments column is JSONB mirrored from the platform backend; a payload
// that is not an array decodes to no contributions rather than failing.
func (r *PGRepository) NeedContributions(ctx context.Context, needID int64) ([]Contribution, error) {
	var raw []byte
	if err := r.pool.QueryRow(ctx, needContributionsQuery, needID).Scan(&raw); err != nil {
		if err == pgx.ErrNoRows {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("%w: payments: contributions query: %w", httpx.ErrUpstream, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var contributions []Contribution
	if err := json.Unmarshal(raw, &contributions); err != nil {
		// Unexpected shape degrades to "no payers", not an error page.
		return nil, nil
	}
	return contributions, nil
}
