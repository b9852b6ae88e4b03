package session

import (
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

// Calendar computes inclusive local-time ranges for the analytics views.
type Calendar struct {
	Location *time.Location
	Now      func() time.Time
}

// NewCalendar returns a calendar in the server's local time zone.
func NewCalendar() Calendar {
	return Calendar{Location: time.Local, Now: time.Now}
}

// FirstWeekStart returns the first Monday on or after January 1 of year.
func FirstWeekStart(year int, loc *time.Location) time.Time {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	offset := (int(time.Monday) - int(jan1.Weekday()) + 7) % 7
	return jan1.AddDate(0, 0, offset)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// Week returns the range of week number week (1-53) of the current year.
func (c Calendar) Week(week int) (domain.TimeRange, error) {
	if week < 1 || week > 53 {
		return domain.TimeRange{}, domerrors.NewValidationError("week", "must be between 1 and 53")
	}
	year := c.Now().In(c.Location).Year()
	start := FirstWeekStart(year, c.Location).AddDate(0, 0, (week-1)*7)
	return domain.TimeRange{Start: start, End: endOfDay(start.AddDate(0, 0, 6))}, nil
}

// Month returns the range of a calendar month; month is 1-based.
func (c Calendar) Month(year, month int) (domain.TimeRange, error) {
	if err := checkYear(year); err != nil {
		return domain.TimeRange{}, err
	}
	if month < 1 || month > 12 {
		return domain.TimeRange{}, domerrors.NewValidationError("month", "must be between 1 and 12")
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, c.Location)
	return domain.TimeRange{Start: start, End: endOfDay(start.AddDate(0, 1, -1))}, nil
}

// Year returns January 1 through December 31 of year.
func (c Calendar) Year(year int) (domain.TimeRange, error) {
	if err := checkYear(year); err != nil {
		return domain.TimeRange{}, err
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, c.Location)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, c.Location)
	return domain.TimeRange{Start: start, End: endOfDay(end)}, nil
}

func checkYear(year int) error {
	if year < 1970 || year > 9999 {
		return domerrors.NewValidationError("year", "must be between 1970 and 9999")
	}
	return nil
}
