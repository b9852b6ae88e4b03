package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/persistence/memory"
)

func fixedCalendar(now time.Time) Calendar {
	return Calendar{Location: time.UTC, Now: func() time.Time { return now }}
}

func TestFirstWeekStart(t *testing.T) {
	// 2024-01-01 is a Monday, 2023-01-01 a Sunday, 2025-01-01 a Wednesday
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), FirstWeekStart(2024, time.UTC))
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), FirstWeekStart(2023, time.UTC))
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), FirstWeekStart(2025, time.UTC))
}

func TestCalendarWeek_YearStartingMidweek(t *testing.T) {
	cal := fixedCalendar(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	r, err := cal.Week(1)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2025, 1, 12, 23, 59, 59, int(999*time.Millisecond), time.UTC), r.End)
}

func TestCalendarWeek(t *testing.T) {
	cal := fixedCalendar(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))

	r, err := cal.Week(1)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2024, 1, 7, 23, 59, 59, int(999*time.Millisecond), time.UTC), r.End)

	r, err = cal.Week(3)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), r.Start)

	for _, bad := range []int{0, 54, -1} {
		_, err := cal.Week(bad)
		var verr *domerrors.ValidationError
		assert.True(t, errors.As(err, &verr), bad)
	}
}

func TestCalendarMonthAndYear(t *testing.T) {
	cal := fixedCalendar(time.Now())

	r, err := cal.Month(2024, 2)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, 29, r.End.Day(), "leap year")
	assert.True(t, r.Contains(time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))

	r, err = cal.Year(2023)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.December, r.End.Month())
	assert.Equal(t, 31, r.End.Day())

	_, err = cal.Month(2024, 13)
	assert.Error(t, err)
	_, err = cal.Year(1969)
	assert.Error(t, err)
}

func TestRecordSession(t *testing.T) {
	repo := memory.NewSessionRepository()
	uc := NewRecordSession(repo, nil)
	now := time.Date(2024, 5, 5, 10, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }
	ctx := context.Background()

	s, err := uc.Execute(ctx, RecordSessionInput{
		Scope:     domain.UserScope("alice"),
		FocusTime: 1500,
		BreakTime: 300,
		Tasks: []domain.SessionTask{
			{TaskID: domain.NewID(), Completed: true, Brand: domain.LabelRef{Title: " Acme ", Milestone: "v1"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", s.UserID)
	assert.Equal(t, now, s.Date)
	assert.Equal(t, "Acme", s.Tasks[0].Brand.Title)

	_, err = uc.Execute(ctx, RecordSessionInput{Scope: domain.AnonymousScope("browser"), FocusTime: 10})
	assert.ErrorIs(t, err, domerrors.ErrUnauthorized)

	_, err = uc.Execute(ctx, RecordSessionInput{
		Scope:     domain.UserScope("alice"),
		FocusTime: domain.MaxSessionSeconds + 1,
		Tasks:     []domain.SessionTask{{TaskID: "bad"}},
	})
	var verr *domerrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Details, 3)
}

func TestQueryRange_UnionsLegacyID(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	sessions := memory.NewSessionRepository()
	user := &domain.User{ID: domain.NewID(), Email: "a@example.com", GoogleSub: "1098765"}
	require.NoError(t, users.Create(ctx, user))

	in := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	for _, s := range []*domain.Session{
		{ID: domain.NewID(), UserID: user.ID, Date: in},
		{ID: domain.NewID(), UserID: "1098765", Date: in.Add(-time.Hour)},
		{ID: domain.NewID(), UserID: user.ID, Date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		{ID: domain.NewID(), UserID: "someone-else", Date: in},
	} {
		require.NoError(t, sessions.Insert(ctx, s))
	}

	uc := NewQueryRange(sessions, users, fixedCalendar(in))
	res, err := uc.Execute(ctx, QueryRangeInput{Scope: domain.UserScope(user.ID), Period: PeriodMonth, Year: 2024, Month: 3})
	require.NoError(t, err)
	require.Len(t, res.Sessions, 2)
	assert.Equal(t, "1098765", res.Sessions[0].UserID, "oldest first")

	all, err := NewListSessions(sessions, users).Execute(ctx, domain.UserScope(user.ID))
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].Date.After(all[1].Date), "newest first")
}

func TestQueryRange_RejectsAnonymous(t *testing.T) {
	uc := NewQueryRange(memory.NewSessionRepository(), nil, NewCalendar())
	_, err := uc.Execute(context.Background(), QueryRangeInput{Scope: domain.AnonymousScope("s"), Period: PeriodYear, Year: 2024})
	assert.ErrorIs(t, err, domerrors.ErrUnauthorized)
}
