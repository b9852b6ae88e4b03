package label

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/persistence/memory"
)

func TestLabels_KindsAndScopes(t *testing.T) {
	repo := memory.NewLabelRepository()
	create := NewCreateLabel(repo)
	list := NewListLabels(repo)
	ctx := context.Background()
	alice := domain.UserScope("alice")

	_, err := create.Execute(ctx, CreateLabelInput{Scope: alice, Kind: domain.LabelBrand, Name: "Acme"})
	require.NoError(t, err)
	_, err = create.Execute(ctx, CreateLabelInput{Scope: alice, Kind: domain.LabelBrand, Name: "Acme"})
	require.NoError(t, err, "duplicates are allowed")
	_, err = create.Execute(ctx, CreateLabelInput{Scope: alice, Kind: domain.LabelMilestone, Name: "v1"})
	require.NoError(t, err)
	_, err = create.Execute(ctx, CreateLabelInput{Scope: domain.AnonymousScope("s"), Kind: domain.LabelBrand, Name: "Other"})
	require.NoError(t, err)

	brands, err := list.Execute(ctx, alice, domain.LabelBrand)
	require.NoError(t, err)
	assert.Len(t, brands, 2)

	milestones, err := list.Execute(ctx, alice, domain.LabelMilestone)
	require.NoError(t, err)
	require.Len(t, milestones, 1)
	assert.Equal(t, "v1", milestones[0].Name)
}

func TestCreateLabel_Validation(t *testing.T) {
	_, err := NewCreateLabel(memory.NewLabelRepository()).Execute(context.Background(), CreateLabelInput{
		Scope: domain.UserScope("alice"),
		Kind:  domain.LabelBrand,
		Name:  "   ",
	})
	var verr *domerrors.ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = NewListLabels(memory.NewLabelRepository()).Execute(context.Background(), domain.Scope{}, domain.LabelBrand)
	assert.ErrorIs(t, err, domerrors.ErrUnauthorized)
}
