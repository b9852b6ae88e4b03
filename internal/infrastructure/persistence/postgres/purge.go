package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Anonymous rows never carry a user_id.
const purgeTemporarySQL = `DELETE FROM %s WHERE is_temporary AND user_id IS NULL AND created_at < $1`

func purgeTemporary(ctx context.Context, pool *pgxpool.Pool, table string, before time.Time) (int64, error) {
	tag, err := pool.Exec(ctx, fmt.Sprintf(purgeTemporarySQL, table), before)
	if err != nil {
		return 0, fmt.Errorf("purge %s: %w", table, err)
	}
	return tag.RowsAffected(), nil
}

func (r *TaskRepository) PurgeTemporary(ctx context.Context, before time.Time) (int64, error) {
	return purgeTemporary(ctx, r.pool, "tasks", before)
}

func (r *ProjectRepository) PurgeTemporary(ctx context.Context, before time.Time) (int64, error) {
	return purgeTemporary(ctx, r.pool, "projects", before)
}

func (r *LabelRepository) PurgeTemporary(ctx context.Context, before time.Time) (int64, error) {
	return purgeTemporary(ctx, r.pool, "labels", before)
}
