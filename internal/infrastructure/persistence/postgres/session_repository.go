package postgres

import (
	"context"
	"encoding/json"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	sessionColumns   = `id, user_id, focus_time, break_time, tasks, current_project, date`
	insertSessionSQL = `INSERT INTO sessions (` + sessionColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	listSessionsSQL  = `SELECT ` + sessionColumns + ` FROM sessions WHERE user_id = ANY($1) ORDER BY date DESC`
	rangeSessionsSQL = `SELECT ` + sessionColumns + ` FROM sessions WHERE user_id = ANY($1) AND date >= $2 AND date <= $3 ORDER BY date ASC`
)

// labelDoc is the JSONB shape of a brand or current project.
type labelDoc struct {
	Title     string `json:"title"`
	Milestone string `json:"milestone,omitempty"`
}

type sessionTaskDoc struct {
	Task      string   `json:"task"`
	Completed bool     `json:"completed"`
	Brand     labelDoc `json:"brand"`
}

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Insert(ctx context.Context, s *domain.Session) error {
	docs := make([]sessionTaskDoc, len(s.Tasks))
	for i, t := range s.Tasks {
		docs[i] = sessionTaskDoc{Task: t.TaskID, Completed: t.Completed, Brand: labelDoc(t.Brand)}
	}
	tasks, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	var current []byte
	if s.CurrentProject != nil {
		if current, err = json.Marshal(labelDoc(*s.CurrentProject)); err != nil {
			return err
		}
	}
	_, err = r.pool.Exec(ctx, insertSessionSQL, s.ID, s.UserID, s.FocusTime, s.BreakTime, tasks, current, s.Date)
	return err
}

func (r *SessionRepository) ListByUsers(ctx context.Context, userIDs []string) ([]*domain.Session, error) {
	rows, err := r.pool.Query(ctx, listSessionsSQL, userIDs)
	if err != nil {
		return nil, err
	}
	return collectSessions(rows)
}

func (r *SessionRepository) ListInRange(ctx context.Context, userIDs []string, tr domain.TimeRange) ([]*domain.Session, error) {
	rows, err := r.pool.Query(ctx, rangeSessionsSQL, userIDs, tr.Start, tr.End)
	if err != nil {
		return nil, err
	}
	return collectSessions(rows)
}

func collectSessions(rows pgx.Rows) ([]*domain.Session, error) {
	defer rows.Close()
	out := make([]*domain.Session, 0)
	for rows.Next() {
		var (
			s       domain.Session
			tasks   []byte
			current []byte
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.FocusTime, &s.BreakTime, &tasks, &current, &s.Date); err != nil {
			return nil, err
		}
		var docs []sessionTaskDoc
		if len(tasks) > 0 {
			if err := json.Unmarshal(tasks, &docs); err != nil {
				return nil, err
			}
		}
		s.Tasks = make([]domain.SessionTask, len(docs))
		for i, d := range docs {
			s.Tasks[i] = domain.SessionTask{TaskID: d.Task, Completed: d.Completed, Brand: domain.LabelRef(d.Brand)}
		}
		if len(current) > 0 {
			var cp labelDoc
			if err := json.Unmarshal(current, &cp); err != nil {
				return nil, err
			}
			ref := domain.LabelRef(cp)
			s.CurrentProject = &ref
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

var _ ports.SessionRepository = (*SessionRepository)(nil)
