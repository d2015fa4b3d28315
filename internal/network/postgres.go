package network

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/say-dao/dao-analytics/internal/platform/db"
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

const childrenQuery = `
SELECT id, COALESCE(say_name, ''), COALESCE(awake_avatar_url, '')
FROM say_children
ORDER BY id`

const familyMembersQuery = `
SELECT child_id, role, user_id, COALESCE(user_avatar_url, '')
FROM say_family_members
ORDER BY child_id, id`

// ChildrenNetworks loads every child with its current family members. Both
// reads run inside one repeatable-read transaction so the graph never mixes
// children from one snapshot with members from another.
func (r *PGRepository) ChildrenNetworks(ctx context.Context) ([]Child, error) {
	var children []Child
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, childrenQuery)
		if err != nil {
			return fmt.Errorf("network: children query: %w", err)
		}
		byID := make(map[int64]int)
		for rows.Next() {
			var c Child
			if err := rows.Scan(&c.ID, &c.SayName, &c.AwakeAvatarURL); err != nil {
				rows.Close()
				return fmt.Errorf("network: scan child: %w", err)
			}
			byID[c.ID] = len(children)
			children = append(children, c)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("network: children rows: %w", err)
		}

		rows, err = tx.Query(ctx, familyMembersQuery)
		if err != nil {
			return fmt.Errorf("network: family query: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var (
				childID int64
				m       Member
			)
			if err := rows.Scan(&childID, &m.Role, &m.User.ID, &m.User.AvatarURL); err != nil {
				return fmt.Errorf("network: scan member: %w", err)
			}
			idx, ok := byID[childID]
			if !ok {
				continue
			}
			if children[idx].Family == nil {
				children[idx].Family = &Family{}
			}
			children[idx].Family.CurrentMembers = append(children[idx].Family.CurrentMembers, m)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", httpx.ErrUpstream, err)
	}
	return children, nil
}
