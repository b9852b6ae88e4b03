package label

import (
	"context"
	"strings"
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

// MaxNameLength bounds brand and milestone names.
const MaxNameLength = 100

// CreateLabelInput is a brand or milestone name.
type CreateLabelInput struct {
	Scope domain.Scope
	Kind  domain.LabelKind
	Name  string
}

// CreateLabel stores a brand or milestone for the caller's scope. Names are not deduplicated.
type CreateLabel struct {
	labels ports.LabelRepository
}

// NewCreateLabel builds the use case.
func NewCreateLabel(labels ports.LabelRepository) *CreateLabel {
	return &CreateLabel{labels: labels}
}

func (uc *CreateLabel) Execute(ctx context.Context, input CreateLabelInput) (*domain.Label, error) {
	if input.Scope.IsZero() {
		return nil, domerrors.ErrUnauthorized
	}
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > MaxNameLength {
		return nil, domerrors.NewValidationError("name", "must be 1-100 characters")
	}
	l := &domain.Label{
		ID:        domain.NewID(),
		Kind:      input.Kind,
		Name:      name,
		Owner:     input.Scope.Owner(),
		CreatedAt: time.Now(),
	}
	if err := uc.labels.Insert(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ListLabels returns the scope's brands or milestones, oldest first.
type ListLabels struct {
	labels ports.LabelRepository
}

// NewListLabels builds the use case.
func NewListLabels(labels ports.LabelRepository) *ListLabels {
	return &ListLabels{labels: labels}
}

func (uc *ListLabels) Execute(ctx context.Context, scope domain.Scope, kind domain.LabelKind) ([]*domain.Label, error) {
	if scope.IsZero() {
		return nil, domerrors.ErrUnauthorized
	}
	return uc.labels.List(ctx, scope, kind)
}
