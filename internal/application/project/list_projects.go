package project

import (
	"context"
	"sort"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

// ListProjects returns the scope's projects, oldest first.
type ListProjects struct {
	projects ports.ProjectRepository
}

// NewListProjects builds the use case.
func NewListProjects(projects ports.ProjectRepository) *ListProjects {
	return &ListProjects{projects: projects}
}

// Execute lists projects sorted by creation time ascending.
func (uc *ListProjects) Execute(ctx context.Context, scope domain.Scope) ([]*domain.Project, error) {
	if scope.IsZero() {
		return nil, domerrors.ErrUnauthorized
	}
	list, err := uc.projects.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}
