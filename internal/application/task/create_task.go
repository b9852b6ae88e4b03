package task

import (
	"context"
	"strings"
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

// MaxTitleLength bounds task titles.
const MaxTitleLength = 500

// CreateTaskInput is a new task for the caller's scope. ParentTaskID is optional.
type CreateTaskInput struct {
	Scope        domain.Scope
	ProjectID    string
	Title        string
	ParentTaskID string
}

// CreateTask appends a task to the tail of its active bucket.
type CreateTask struct {
	tasks ports.TaskRepository
	now   func() time.Time
}

// NewCreateTask builds the use case.
func NewCreateTask(tasks ports.TaskRepository) *CreateTask {
	return &CreateTask{tasks: tasks, now: time.Now}
}

// Execute validates ids, checks the parent exists in scope, and inserts the task.
// The order is read-max-then-write; concurrent creators in one bucket may collide.
func (uc *CreateTask) Execute(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	if input.Scope.IsZero() {
		return nil, domerrors.ErrUnauthorized
	}
	title := strings.TrimSpace(input.Title)
	var details []domerrors.FieldError
	if title == "" || len(title) > MaxTitleLength {
		details = append(details, domerrors.FieldError{Path: "title", Message: "must be 1-500 characters"})
	}
	if !domain.IsValidID(input.ProjectID) {
		details = append(details, domerrors.FieldError{Path: "projectId", Message: "must be a valid id"})
	}
	if input.ParentTaskID != "" && !domain.IsValidID(input.ParentTaskID) {
		details = append(details, domerrors.FieldError{Path: "parentTaskId", Message: "must be a valid id"})
	}
	if len(details) > 0 {
		return nil, &domerrors.ValidationError{Details: details}
	}
	if input.ParentTaskID != "" {
		parent, err := uc.tasks.Get(ctx, input.Scope, input.ParentTaskID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domerrors.ErrParentNotFound
		}
	}
	bucket := domain.Bucket{ProjectID: input.ProjectID, ParentTaskID: input.ParentTaskID}
	maxOrder, ok, err := uc.tasks.MaxOrder(ctx, input.Scope, bucket)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	t := &domain.Task{
		ID:           domain.NewID(),
		Title:        title,
		ProjectID:    input.ProjectID,
		ParentTaskID: input.ParentTaskID,
		Order:        domain.NextOrder(maxOrder, ok),
		Owner:        input.Scope.Owner(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.tasks.Insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
