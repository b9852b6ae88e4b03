package postgres

import (
	"context"
	"fmt"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

const insertLabelSQL = `INSERT INTO labels (id, kind, name, user_id, session_id, is_temporary, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`

type LabelRepository struct {
	pool *pgxpool.Pool
}

func NewLabelRepository(pool *pgxpool.Pool) *LabelRepository {
	return &LabelRepository{pool: pool}
}

func (r *LabelRepository) Insert(ctx context.Context, l *domain.Label) error {
	_, err := r.pool.Exec(ctx, insertLabelSQL, l.ID, string(l.Kind), l.Name,
		nullable(l.Owner.UserID), nullable(l.Owner.SessionID), l.Owner.IsTemporary, l.CreatedAt)
	return err
}

func (r *LabelRepository) List(ctx context.Context, scope domain.Scope, kind domain.LabelKind) ([]*domain.Label, error) {
	pred, err := scopePredicate(scope)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT id, name, user_id, session_id, is_temporary, created_at FROM labels WHERE %s AND kind = $2 ORDER BY created_at`, pred)
	rows, err := r.pool.Query(ctx, q, scope.ID(), string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*domain.Label, 0)
	for rows.Next() {
		l := domain.Label{Kind: kind}
		var userID, sessionID *string
		if err := rows.Scan(&l.ID, &l.Name, &userID, &sessionID, &l.Owner.IsTemporary, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Owner.UserID = deref(userID)
		l.Owner.SessionID = deref(sessionID)
		out = append(out, &l)
	}
	return out, rows.Err()
}

var _ ports.LabelRepository = (*LabelRepository)(nil)
