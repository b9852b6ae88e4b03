package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

// RecordSessionInput is a finished pomodoro run. A zero Date means now.
type RecordSessionInput struct {
	Scope          domain.Scope
	FocusTime      int
	BreakTime      int
	Tasks          []domain.SessionTask
	CurrentProject *domain.LabelRef
	Date           time.Time
}

// RecordSession stores a session for a registered user. Anonymous scopes cannot record sessions.
type RecordSession struct {
	sessions ports.SessionRepository
	events   ports.EventEnqueuer
	now      func() time.Time
}

// NewRecordSession builds the use case. events may be nil.
func NewRecordSession(sessions ports.SessionRepository, events ports.EventEnqueuer) *RecordSession {
	return &RecordSession{sessions: sessions, events: events, now: time.Now}
}

// Execute validates durations and task references and inserts the session.
func (uc *RecordSession) Execute(ctx context.Context, input RecordSessionInput) (*domain.Session, error) {
	userID, ok := input.Scope.UserID()
	if !ok || userID == "" {
		return nil, domerrors.ErrUnauthorized
	}
	var details []domerrors.FieldError
	if input.FocusTime < 0 || input.FocusTime > domain.MaxSessionSeconds {
		details = append(details, domerrors.FieldError{Path: "focusTime", Message: "must be between 0 and 86400"})
	}
	if input.BreakTime < 0 || input.BreakTime > domain.MaxSessionSeconds {
		details = append(details, domerrors.FieldError{Path: "breakTime", Message: "must be between 0 and 86400"})
	}
	tasks := make([]domain.SessionTask, 0, len(input.Tasks))
	for i, t := range input.Tasks {
		if t.TaskID != "" && !domain.IsValidID(t.TaskID) {
			details = append(details, domerrors.FieldError{Path: fmt.Sprintf("tasks[%d].task", i), Message: "must be a valid id"})
		}
		t.Brand.Title = strings.TrimSpace(t.Brand.Title)
		if t.Brand.Title == "" {
			details = append(details, domerrors.FieldError{Path: fmt.Sprintf("tasks[%d].brand.title", i), Message: "is required"})
		}
		tasks = append(tasks, t)
	}
	if input.CurrentProject != nil && strings.TrimSpace(input.CurrentProject.Title) == "" {
		details = append(details, domerrors.FieldError{Path: "currentProject.title", Message: "is required"})
	}
	if len(details) > 0 {
		return nil, &domerrors.ValidationError{Details: details}
	}
	date := input.Date
	if date.IsZero() {
		date = uc.now()
	}
	s := &domain.Session{
		ID:             domain.NewID(),
		UserID:         userID,
		FocusTime:      input.FocusTime,
		BreakTime:      input.BreakTime,
		Tasks:          tasks,
		CurrentProject: input.CurrentProject,
		Date:           date,
	}
	if err := uc.sessions.Insert(ctx, s); err != nil {
		return nil, err
	}
	if uc.events != nil {
		_ = uc.events.EnqueueEvent(ctx, ports.EventSessionRecorded, map[string]interface{}{
			"session_id": s.ID,
			"user_id":    userID,
			"focus_time": s.FocusTime,
			"break_time": s.BreakTime,
		})
	}
	return s, nil
}
