package project

import (
	"context"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

// UpdateColorInput patches a project's header color. An empty color leaves the project untouched.
type UpdateColorInput struct {
	Scope       domain.Scope
	ProjectID   string
	HeaderColor string
}

// UpdateColor changes the only mutable project field.
type UpdateColor struct {
	projects ports.ProjectRepository
}

// NewUpdateColor builds the use case.
func NewUpdateColor(projects ports.ProjectRepository) *UpdateColor {
	return &UpdateColor{projects: projects}
}

// Execute returns the updated project.
func (uc *UpdateColor) Execute(ctx context.Context, input UpdateColorInput) (*domain.Project, error) {
	if input.Scope.IsZero() {
		return nil, domerrors.ErrUnauthorized
	}
	if !domain.IsValidID(input.ProjectID) {
		return nil, domerrors.NewValidationError("id", "must be a valid id")
	}
	if input.HeaderColor == "" {
		p, err := uc.projects.Get(ctx, input.Scope, input.ProjectID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domerrors.ErrProjectNotFound
		}
		return p, nil
	}
	color := domain.HeaderColor(input.HeaderColor)
	if !color.Valid() {
		return nil, domerrors.NewValidationError("headerColor", "must be one of blue, green, red, orange, purple, gray")
	}
	p, err := uc.projects.UpdateHeaderColor(ctx, input.Scope, input.ProjectID, color)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domerrors.ErrProjectNotFound
	}
	return p, nil
}
