package ports

import (
	"context"
	"fmt"
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
)

// OrderUpdate is one entry of a bulk reorder. An empty ProjectID leaves the project unchanged.
type OrderUpdate struct {
	ID        string
	Order     int
	ProjectID string
}

// BulkResult counts documents matched and modified by a bulk write.
type BulkResult struct {
	Matched  int64
	Modified int64
}

// PartialWriteError accompanies a BulkResult when some entries failed and the rest were applied.
type PartialWriteError struct {
	Failed int
	Err    error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("%d bulk entries failed: %v", e.Failed, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

// TaskFilter narrows a task listing. An empty ProjectID lists every task in scope.
type TaskFilter struct {
	ProjectID string
}

// TaskRepository persists the task forest. Every method filters by scope.
// Get and SetCompleted return nil, nil when the task is absent from the scope.
type TaskRepository interface {
	Insert(ctx context.Context, task *domain.Task) error
	Get(ctx context.Context, scope domain.Scope, id string) (*domain.Task, error)
	List(ctx context.Context, scope domain.Scope, filter TaskFilter) ([]*domain.Task, error)
	// MaxOrder returns the highest order in the bucket; ok is false when the bucket is empty.
	MaxOrder(ctx context.Context, scope domain.Scope, bucket domain.Bucket) (max int, ok bool, err error)
	SetCompleted(ctx context.Context, scope domain.Scope, id string, completed bool, order int) (*domain.Task, error)
	// CloseGap decrements the order of every task in bucket ordered after order, keeping the bucket contiguous
	// once the task that held order has left it.
	CloseGap(ctx context.Context, scope domain.Scope, bucket domain.Bucket, order int) error
	// ApplyOrder writes every update independently; one failing entry does not stop the others.
	// When only some entries fail the counts of the rest come back with a *PartialWriteError.
	ApplyOrder(ctx context.Context, scope domain.Scope, updates []OrderUpdate) (BulkResult, error)
	// ChildIDs returns ids of tasks whose parent is one of parentIDs, at most limit of them.
	ChildIDs(ctx context.Context, scope domain.Scope, parentIDs []string, limit int) ([]string, error)
	DeleteMany(ctx context.Context, scope domain.Scope, ids []string) (int64, error)
	DeleteByProject(ctx context.Context, scope domain.Scope, projectID string) (int64, error)
}

// ProjectRepository persists projects. Get, UpdateHeaderColor return nil, nil when absent.
type ProjectRepository interface {
	Insert(ctx context.Context, project *domain.Project) error
	Get(ctx context.Context, scope domain.Scope, id string) (*domain.Project, error)
	// List returns projects sorted by creation time ascending.
	List(ctx context.Context, scope domain.Scope) ([]*domain.Project, error)
	UpdateHeaderColor(ctx context.Context, scope domain.Scope, id string, color domain.HeaderColor) (*domain.Project, error)
	Delete(ctx context.Context, scope domain.Scope, id string) (bool, error)
}

// SessionRepository persists completed pomodoro sessions.
type SessionRepository interface {
	Insert(ctx context.Context, session *domain.Session) error
	// ListByUsers returns sessions recorded under any of userIDs, newest first.
	ListByUsers(ctx context.Context, userIDs []string) ([]*domain.Session, error)
	// ListInRange returns sessions under any of userIDs with Date inside r, oldest first.
	ListInRange(ctx context.Context, userIDs []string, r domain.TimeRange) ([]*domain.Session, error)
}

// LabelRepository persists brands and milestones.
type LabelRepository interface {
	Insert(ctx context.Context, label *domain.Label) error
	List(ctx context.Context, scope domain.Scope, kind domain.LabelKind) ([]*domain.Label, error)
}

// UserRepository persists accounts. Lookups return nil, nil when absent.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
	SetGoogleTokens(ctx context.Context, userID string, tokens domain.GoogleTokens) error
}

// RefreshLedger records consumed refresh tokens so each can be rotated once.
type RefreshLedger interface {
	// Consume marks tokenID used until expiresAt; first is false if it was already consumed.
	Consume(ctx context.Context, tokenID string, expiresAt time.Time) (first bool, err error)
}

// Pinger is implemented by backends that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TemporaryPurger deletes anonymous-scope rows created before a cutoff.
type TemporaryPurger interface {
	PurgeTemporary(ctx context.Context, before time.Time) (int64, error)
}
