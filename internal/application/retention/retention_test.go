package retention

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/persistence/memory"
)

type purgeFunc func(ctx context.Context, before time.Time) (int64, error)

func (f purgeFunc) PurgeTemporary(ctx context.Context, before time.Time) (int64, error) {
	return f(ctx, before)
}

func TestPurgeTemporary_OnlyOldAnonymousRows(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -40)
	recent := now.AddDate(0, 0, -5)
	anon := domain.AnonymousScope("browser").Owner()
	user := domain.UserScope("alice").Owner()

	tasks := memory.NewTaskRepository()
	projects := memory.NewProjectRepository()
	labels := memory.NewLabelRepository()
	for _, task := range []*domain.Task{
		{ID: domain.NewID(), Owner: anon, CreatedAt: old},
		{ID: domain.NewID(), Owner: anon, CreatedAt: recent},
		{ID: domain.NewID(), Owner: user, CreatedAt: old},
	} {
		require.NoError(t, tasks.Insert(ctx, task))
	}
	require.NoError(t, projects.Insert(ctx, &domain.Project{ID: domain.NewID(), Owner: anon, CreatedAt: old}))
	require.NoError(t, labels.Insert(ctx, &domain.Label{ID: domain.NewID(), Kind: domain.LabelBrand, Owner: anon, CreatedAt: old}))
	require.NoError(t, labels.Insert(ctx, &domain.Label{ID: domain.NewID(), Kind: domain.LabelBrand, Owner: user, CreatedAt: old}))

	res, err := PurgeTemporary(ctx, []Target{
		{Name: "tasks", Purger: tasks},
		{Name: "projects", Purger: projects},
		{Name: "labels", Purger: labels},
	}, 30, now)
	require.NoError(t, err)
	assert.Equal(t, []Result{{"tasks", 1}, {"projects", 1}, {"labels", 1}}, res)

	left, err := tasks.List(ctx, domain.AnonymousScope("browser"), ports.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestPurgeTemporary_Disabled(t *testing.T) {
	called := false
	res, err := PurgeTemporary(context.Background(), []Target{{Name: "x", Purger: purgeFunc(func(context.Context, time.Time) (int64, error) {
		called = true
		return 0, nil
	})}}, 0, time.Now())
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.False(t, called)
}

func TestPurgeTemporary_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	var cutoff time.Time
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	res, err := PurgeTemporary(context.Background(), []Target{
		{Name: "a", Purger: purgeFunc(func(_ context.Context, before time.Time) (int64, error) {
			cutoff = before
			return 3, nil
		})},
		{Name: "b", Purger: purgeFunc(func(context.Context, time.Time) (int64, error) { return 0, boom })},
		{Name: "c", Purger: purgeFunc(func(context.Context, time.Time) (int64, error) { return 9, nil })},
	}, 7, now)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []Result{{"a", 3}}, res)
	assert.Equal(t, now.AddDate(0, 0, -7), cutoff)
}
