package domain

import "time"

// MaxSessionSeconds caps focus and break durations at one day.
const MaxSessionSeconds = 86400

// LabelRef names a brand or project with an optional milestone, as captured on a session.
type LabelRef struct {
	Title     string
	Milestone string
}

// SessionTask is one task worked on during a session.
type SessionTask struct {
	TaskID    string
	Completed bool
	Brand     LabelRef
}

// Session is a completed focus/break run. It is write-once.
type Session struct {
	ID             string
	UserID         string
	FocusTime      int
	BreakTime      int
	Tasks          []SessionTask
	CurrentProject *LabelRef
	Date           time.Time
}

// TimeRange is an inclusive [Start, End] window.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies within the inclusive range.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}
