package handlers

import (
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
)

type projectJSON struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	HeaderColor string    `json:"headerColor"`
	UserID      string    `json:"userId,omitempty"`
	SessionID   string    `json:"sessionId,omitempty"`
	IsTemporary bool      `json:"isTemporary,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toProjectJSON(p *domain.Project) projectJSON {
	return projectJSON{
		ID:          p.ID,
		Name:        p.Name,
		HeaderColor: string(p.HeaderColor),
		UserID:      p.Owner.UserID,
		SessionID:   p.Owner.SessionID,
		IsTemporary: p.Owner.IsTemporary,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type taskJSON struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ProjectID    string    `json:"projectId"`
	ParentTaskID *string   `json:"parentTaskId"`
	Order        int       `json:"order"`
	Completed    bool      `json:"completed"`
	UserID       string    `json:"userId,omitempty"`
	SessionID    string    `json:"sessionId,omitempty"`
	IsTemporary  bool      `json:"isTemporary,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toTaskJSON(t *domain.Task) taskJSON {
	out := taskJSON{
		ID:          t.ID,
		Title:       t.Title,
		ProjectID:   t.ProjectID,
		Order:       t.Order,
		Completed:   t.Completed,
		UserID:      t.Owner.UserID,
		SessionID:   t.Owner.SessionID,
		IsTemporary: t.Owner.IsTemporary,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.ParentTaskID != "" {
		parent := t.ParentTaskID
		out.ParentTaskID = &parent
	}
	return out
}

func toTaskList(tasks []*domain.Task) []taskJSON {
	out := make([]taskJSON, len(tasks))
	for i, t := range tasks {
		out[i] = toTaskJSON(t)
	}
	return out
}

type labelRefJSON struct {
	Title     string `json:"title" validate:"max=200"`
	Milestone string `json:"milestone,omitempty" validate:"max=200"`
}

type sessionTaskJSON struct {
	Task      string       `json:"task,omitempty"`
	Completed bool         `json:"completed"`
	Brand     labelRefJSON `json:"brand"`
}

type sessionJSON struct {
	ID             string            `json:"id"`
	User           string            `json:"user"`
	FocusTime      int               `json:"focusTime"`
	BreakTime      int               `json:"breakTime"`
	Tasks          []sessionTaskJSON `json:"tasks"`
	CurrentProject *labelRefJSON     `json:"currentProject,omitempty"`
	Date           time.Time         `json:"date"`
}

func toSessionJSON(s *domain.Session) sessionJSON {
	out := sessionJSON{
		ID:        s.ID,
		User:      s.UserID,
		FocusTime: s.FocusTime,
		BreakTime: s.BreakTime,
		Tasks:     make([]sessionTaskJSON, len(s.Tasks)),
		Date:      s.Date,
	}
	for i, t := range s.Tasks {
		out.Tasks[i] = sessionTaskJSON{Task: t.TaskID, Completed: t.Completed, Brand: labelRefJSON(t.Brand)}
	}
	if s.CurrentProject != nil {
		cp := labelRefJSON(*s.CurrentProject)
		out.CurrentProject = &cp
	}
	return out
}

func toSessionList(sessions []*domain.Session) []sessionJSON {
	out := make([]sessionJSON, len(sessions))
	for i, s := range sessions {
		out[i] = toSessionJSON(s)
	}
	return out
}

type labelJSON struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	UserID      string    `json:"userId,omitempty"`
	SessionID   string    `json:"sessionId,omitempty"`
	IsTemporary bool      `json:"isTemporary,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toLabelJSON(l *domain.Label) labelJSON {
	return labelJSON{
		ID:          l.ID,
		Name:        l.Name,
		UserID:      l.Owner.UserID,
		SessionID:   l.Owner.SessionID,
		IsTemporary: l.Owner.IsTemporary,
		CreatedAt:   l.CreatedAt,
	}
}

// userJSON never exposes stored Google tokens.
type userJSON struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	GoogleConnected bool      `json:"googleConnected"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toUserJSON(u *domain.User) userJSON {
	return userJSON{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		ImageURL:        u.ImageURL,
		GoogleConnected: u.HasGoogleAccess(),
		CreatedAt:       u.CreatedAt,
	}
}
