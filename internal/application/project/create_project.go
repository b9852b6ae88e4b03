package project

import (
	"context"
	"strings"
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

// MaxNameLength bounds project names.
const MaxNameLength = 100

// CreateProjectInput is the project name and optional color.
type CreateProjectInput struct {
	Scope       domain.Scope
	Name        string
	HeaderColor string
}

// CreateProject creates a project owned by the caller's scope.
type CreateProject struct {
	projects ports.ProjectRepository
	now      func() time.Time
}

// NewCreateProject builds the use case.
func NewCreateProject(projects ports.ProjectRepository) *CreateProject {
	return &CreateProject{projects: projects, now: time.Now}
}

// Execute validates the input and stores the project; the color defaults to blue.
func (uc *CreateProject) Execute(ctx context.Context, input CreateProjectInput) (*domain.Project, error) {
	if input.Scope.IsZero() {
		return nil, domerrors.ErrUnauthorized
	}
	name := strings.TrimSpace(input.Name)
	var details []domerrors.FieldError
	if name == "" || len(name) > MaxNameLength {
		details = append(details, domerrors.FieldError{Path: "name", Message: "must be 1-100 characters"})
	}
	color := domain.HeaderColor(input.HeaderColor)
	if color == "" {
		color = domain.DefaultHeaderColor
	}
	if !color.Valid() {
		details = append(details, domerrors.FieldError{Path: "headerColor", Message: "must be one of blue, green, red, orange, purple, gray"})
	}
	if len(details) > 0 {
		return nil, &domerrors.ValidationError{Details: details}
	}
	now := uc.now()
	p := &domain.Project{
		ID:          domain.NewID(),
		Name:        name,
		HeaderColor: color,
		Owner:       input.Scope.Owner(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.projects.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
