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
	projectColumns   = `id, name, header_color, user_id, session_id, is_temporary, created_at, updated_at`
	insertProjectSQL = `INSERT INTO projects (` + projectColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
)

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func (r *ProjectRepository) Insert(ctx context.Context, p *domain.Project) error {
	_, err := r.pool.Exec(ctx, insertProjectSQL, p.ID, p.Name, string(p.HeaderColor),
		nullable(p.Owner.UserID), nullable(p.Owner.SessionID), p.Owner.IsTemporary, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *ProjectRepository) Get(ctx context.Context, scope domain.Scope, id string) (*domain.Project, error) {
	pred, err := scopePredicate(scope)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM projects WHERE %s AND id = $2`, projectColumns, pred), scope.ID(), id)
	return scanProjectRow(row)
}

func (r *ProjectRepository) List(ctx context.Context, scope domain.Scope) ([]*domain.Project, error) {
	pred, err := scopePredicate(scope)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`SELECT %s FROM projects WHERE %s ORDER BY created_at ASC`, projectColumns, pred), scope.ID())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*domain.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) UpdateHeaderColor(ctx context.Context, scope domain.Scope, id string, color domain.HeaderColor) (*domain.Project, error) {
	pred, err := scopePredicate(scope)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`UPDATE projects SET header_color = $3, updated_at = NOW() WHERE %s AND id = $2 RETURNING %s`, pred, projectColumns)
	return scanProjectRow(r.pool.QueryRow(ctx, q, scope.ID(), id, string(color)))
}

func (r *ProjectRepository) Delete(ctx context.Context, scope domain.Scope, id string) (bool, error) {
	pred, err := scopePredicate(scope)
	if err != nil {
		return false, err
	}
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM projects WHERE %s AND id = $2`, pred), scope.ID(), id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanProjectRow(row pgx.Row) (*domain.Project, error) {
	p, err := scanProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var (
		p         domain.Project
		color     string
		userID    *string
		sessionID *string
	)
	if err := row.Scan(&p.ID, &p.Name, &color, &userID, &sessionID, &p.Owner.IsTemporary, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.HeaderColor = domain.HeaderColor(color)
	p.Owner.UserID = deref(userID)
	p.Owner.SessionID = deref(sessionID)
	return &p, nil
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)
