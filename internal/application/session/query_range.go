package session

import (
	"context"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

// Period selects the calendar unit of a range query.
type Period int

const (
	PeriodWeek Period = iota + 1
	PeriodMonth
	PeriodYear
)

// QueryRangeInput selects a week of the current year, a month of a year, or a whole year.
type QueryRangeInput struct {
	Scope  domain.Scope
	Period Period
	Week   int
	Year   int
	Month  int
}

// QueryRangeResult is the resolved range and the sessions inside it.
type QueryRangeResult struct {
	Range    domain.TimeRange
	Sessions []*domain.Session
}

// QueryRange loads a user's sessions for a calendar range, including those under the legacy id.
type QueryRange struct {
	sessions ports.SessionRepository
	users    ports.UserRepository
	calendar Calendar
}

// NewQueryRange builds the use case.
func NewQueryRange(sessions ports.SessionRepository, users ports.UserRepository, calendar Calendar) *QueryRange {
	return &QueryRange{sessions: sessions, users: users, calendar: calendar}
}

func (uc *QueryRange) Execute(ctx context.Context, input QueryRangeInput) (*QueryRangeResult, error) {
	userID, ok := input.Scope.UserID()
	if !ok {
		return nil, domerrors.ErrUnauthorized
	}
	var (
		r   domain.TimeRange
		err error
	)
	switch input.Period {
	case PeriodWeek:
		r, err = uc.calendar.Week(input.Week)
	case PeriodMonth:
		r, err = uc.calendar.Month(input.Year, input.Month)
	case PeriodYear:
		r, err = uc.calendar.Year(input.Year)
	default:
		err = domerrors.NewValidationError("period", "must be week, month or year")
	}
	if err != nil {
		return nil, err
	}
	ids, err := identityIDs(ctx, uc.users, userID)
	if err != nil {
		return nil, err
	}
	list, err := uc.sessions.ListInRange(ctx, ids, r)
	if err != nil {
		return nil, err
	}
	return &QueryRangeResult{Range: r, Sessions: list}, nil
}
