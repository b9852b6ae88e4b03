package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	taskColumns   = `id, title, project_id, parent_task_id, sort_order, completed, user_id, session_id, is_temporary, created_at, updated_at`
	insertTaskSQL = `INSERT INTO tasks (` + taskColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	// applyOrderSQL reports (matched, modified) for a single reorder entry.
	applyOrderSQL = `
WITH target AS (
	SELECT id, (sort_order <> $3 OR ($4::text IS NOT NULL AND project_id <> $4)) AS changed
	FROM tasks WHERE %s AND id = $2
), upd AS (
	UPDATE tasks SET sort_order = $3, project_id = COALESCE($4, project_id), updated_at = NOW()
	WHERE id IN (SELECT id FROM target WHERE changed)
	RETURNING id
)
SELECT (SELECT COUNT(*) FROM target), (SELECT COUNT(*) FROM upd)`
)

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Insert(ctx context.Context, t *domain.Task) error {
	_, err := r.pool.Exec(ctx, insertTaskSQL, t.ID, t.Title, t.ProjectID, nullable(t.ParentTaskID), t.Order, t.Completed,
		nullable(t.Owner.UserID), nullable(t.Owner.SessionID), t.Owner.IsTemporary, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *TaskRepository) Get(ctx context.Context, scope domain.Scope, id string) (*domain.Task, error) {
	pred, err := scopePredicate(scope)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM tasks WHERE %s AND id = $2`, taskColumns, pred), scope.ID(), id)
	return scanTaskRow(row)
}

func (r *TaskRepository) List(ctx context.Context, scope domain.Scope, filter ports.TaskFilter) ([]*domain.Task, error) {
	pred, err := scopePredicate(scope)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT %s FROM tasks WHERE %s AND ($2 = '' OR project_id = $2) ORDER BY sort_order ASC, created_at ASC`, taskColumns, pred)
	rows, err := r.pool.Query(ctx, q, scope.ID(), filter.ProjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TaskRepository) MaxOrder(ctx context.Context, scope domain.Scope, b domain.Bucket) (int, bool, error) {
	pred, err := scopePredicate(scope)
	if err != nil {
		return 0, false, err
	}
	q := fmt.Sprintf(`SELECT MAX(sort_order) FROM tasks
WHERE %s AND project_id = $2 AND parent_task_id IS NOT DISTINCT FROM $3 AND completed = $4`, pred)
	var max *int
	if err := r.pool.QueryRow(ctx, q, scope.ID(), b.ProjectID, nullable(b.ParentTaskID), b.Completed).Scan(&max); err != nil {
		return 0, false, err
	}
	if max == nil {
		return 0, false, nil
	}
	return *max, true, nil
}

func (r *TaskRepository) SetCompleted(ctx context.Context, scope domain.Scope, id string, completed bool, order int) (*domain.Task, error) {
	pred, err := scopePredicate(scope)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`UPDATE tasks SET completed = $3, sort_order = $4, updated_at = NOW() WHERE %s AND id = $2 RETURNING %s`, pred, taskColumns)
	return scanTaskRow(r.pool.QueryRow(ctx, q, scope.ID(), id, completed, order))
}

func (r *TaskRepository) CloseGap(ctx context.Context, scope domain.Scope, b domain.Bucket, order int) error {
	pred, err := scopePredicate(scope)
	if err != nil {
		return err
	}
	q := fmt.Sprintf(`UPDATE tasks SET sort_order = sort_order - 1, updated_at = NOW()
WHERE %s AND project_id = $2 AND parent_task_id IS NOT DISTINCT FROM $3 AND completed = $4 AND sort_order > $5`, pred)
	_, err = r.pool.Exec(ctx, q, scope.ID(), b.ProjectID, nullable(b.ParentTaskID), b.Completed, order)
	return err
}

// ApplyOrder runs each entry as its own statement so a failure leaves the rest applied.
func (r *TaskRepository) ApplyOrder(ctx context.Context, scope domain.Scope, updates []ports.OrderUpdate) (ports.BulkResult, error) {
	var res ports.BulkResult
	pred, err := scopePredicate(scope)
	if err != nil {
		return res, err
	}
	q := fmt.Sprintf(applyOrderSQL, pred)
	var (
		firstErr error
		failed   int
	)
	for _, u := range updates {
		var matched, modified int64
		if err := r.pool.QueryRow(ctx, q, scope.ID(), u.ID, u.Order, nullable(u.ProjectID)).Scan(&matched, &modified); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			failed++
			continue
		}
		res.Matched += matched
		res.Modified += modified
	}
	switch {
	case failed == 0:
		return res, nil
	case failed == len(updates):
		return res, firstErr
	}
	return res, &ports.PartialWriteError{Failed: failed, Err: firstErr}
}

func (r *TaskRepository) ChildIDs(ctx context.Context, scope domain.Scope, parentIDs []string, limit int) ([]string, error) {
	pred, err := scopePredicate(scope)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT id FROM tasks WHERE %s AND parent_task_id = ANY($2) ORDER BY created_at LIMIT $3`, pred)
	rows, err := r.pool.Query(ctx, q, scope.ID(), parentIDs, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *TaskRepository) DeleteMany(ctx context.Context, scope domain.Scope, ids []string) (int64, error) {
	pred, err := scopePredicate(scope)
	if err != nil {
		return 0, err
	}
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM tasks WHERE %s AND id = ANY($2)`, pred), scope.ID(), ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *TaskRepository) DeleteByProject(ctx context.Context, scope domain.Scope, projectID string) (int64, error) {
	pred, err := scopePredicate(scope)
	if err != nil {
		return 0, err
	}
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM tasks WHERE %s AND project_id = $2`, pred), scope.ID(), projectID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanTaskRow(row pgx.Row) (*domain.Task, error) {
	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t         domain.Task
		parentID  *string
		userID    *string
		sessionID *string
	)
	err := row.Scan(&t.ID, &t.Title, &t.ProjectID, &parentID, &t.Order, &t.Completed,
		&userID, &sessionID, &t.Owner.IsTemporary, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.ParentTaskID = deref(parentID)
	t.Owner.UserID = deref(userID)
	t.Owner.SessionID = deref(sessionID)
	return &t, nil
}

var _ ports.TaskRepository = (*TaskRepository)(nil)
