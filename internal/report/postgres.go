package report

import (
	"context"
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

const seasonComparisonQuery = `
SELECT CASE WHEN $2 = 'en' THEN cur.label_en ELSE cur.label_fa END AS period,
       COALESCE(prev.total, 0)::float8 AS previous,
       cur.total::float8 AS current
FROM say_season_counts cur
LEFT JOIN say_season_counts prev
       ON prev.month_index = cur.month_index
      AND prev.season_year = cur.season_year - 1
WHERE cur.season_year = $1
ORDER BY cur.month_index`

// SeasonComparison loads the raw monthly previous/current pairs for a season.
func (r *PGRepository) SeasonComparison(ctx context.Context, season int, locale string) ([]PeriodRecord, error) {
	rows, err := r.pool.Query(ctx, seasonComparisonQuery, season, locale)
	if err != nil {
		return nil, fmt.Errorf("%w: report: season comparison query: %w", httpx.ErrUpstream, err)
	}
	defer rows.Close()

	var records []PeriodRecord
	for rows.Next() {
		var rec PeriodRecord
		if err := rows.Scan(&rec.Period, &rec.Previous, &rec.Current); err != nil {
			return nil, fmt.Errorf("%w: report: scan season row: %w", httpx.ErrUpstream, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: report: season rows: %w", httpx.ErrUpstream, err)
	}
	return records, nil
}
