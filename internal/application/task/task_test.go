package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/persistence/memory"
)

var (
	alice = domain.UserScope("alice")
	anon  = domain.AnonymousScope("browser-1")
)

func boolPtr(b bool) *bool { return &b }

type fixture struct {
	repo   *memory.TaskRepository
	create *CreateTask
	clock  time.Time
}

func newFixture() *fixture {
	f := &fixture{repo: memory.NewTaskRepository(), clock: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	f.create = NewCreateTask(f.repo)
	f.create.now = func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}
	return f
}

func (f *fixture) add(t *testing.T, scope domain.Scope, projectID, parentID, title string) *domain.Task {
	t.Helper()
	task, err := f.create.Execute(context.Background(), CreateTaskInput{
		Scope:        scope,
		ProjectID:    projectID,
		ParentTaskID: parentID,
		Title:        title,
	})
	require.NoError(t, err)
	return task
}

func TestCreateTask_AppendsToBucketTail(t *testing.T) {
	f := newFixture()
	project := domain.NewID()

	first := f.add(t, alice, project, "", "write report")
	second := f.add(t, alice, project, "", "review")
	sub := f.add(t, alice, project, first.ID, "outline")
	other := f.add(t, alice, domain.NewID(), "", "elsewhere")

	assert.Equal(t, 0, first.Order)
	assert.Equal(t, 1, second.Order)
	assert.Equal(t, 0, sub.Order, "subtasks have their own order space")
	assert.Equal(t, 0, other.Order)
	assert.Equal(t, domain.Owner{UserID: "alice"}, first.Owner)
}

func TestCreateTask_ScopesAreIsolated(t *testing.T) {
	f := newFixture()
	project := domain.NewID()

	f.add(t, alice, project, "", "mine")
	theirs := f.add(t, anon, project, "", "theirs")
	assert.Equal(t, 0, theirs.Order)
	assert.True(t, theirs.Owner.IsTemporary)

	list, err := NewListTasks(f.repo).Execute(context.Background(), anon, project)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "theirs", list[0].Title)
}

func TestCreateTask_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.create.Execute(ctx, CreateTaskInput{Scope: alice, ProjectID: "nope", Title: "  "})
	var verr *domerrors.ValidationError
	require.True(t, errors.As(err, &verr))
	paths := []string{verr.Details[0].Path, verr.Details[1].Path}
	assert.ElementsMatch(t, []string{"title", "projectId"}, paths)

	_, err = f.create.Execute(ctx, CreateTaskInput{Scope: alice, ProjectID: domain.NewID(), ParentTaskID: domain.NewID(), Title: "x"})
	assert.ErrorIs(t, err, domerrors.ErrParentNotFound)

	_, err = f.create.Execute(ctx, CreateTaskInput{ProjectID: domain.NewID(), Title: "x"})
	assert.ErrorIs(t, err, domerrors.ErrUnauthorized)
}

func TestCreateTask_ParentFromOtherScopeIsNotFound(t *testing.T) {
	f := newFixture()
	project := domain.NewID()
	parent := f.add(t, alice, project, "", "parent")

	_, err := f.create.Execute(context.Background(), CreateTaskInput{Scope: anon, ProjectID: project, ParentTaskID: parent.ID, Title: "child"})
	assert.ErrorIs(t, err, domerrors.ErrParentNotFound)
}

func TestSetCompleted_MovesToTailOfNewBucket(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	project := domain.NewID()
	a := f.add(t, alice, project, "", "a")
	b := f.add(t, alice, project, "", "b")
	uc := NewSetCompleted(f.repo)

	done, err := uc.Execute(ctx, SetCompletedInput{Scope: alice, TaskID: a.ID, Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Equal(t, 0, done.Order, "first completed task")

	done, err = uc.Execute(ctx, SetCompletedInput{Scope: alice, TaskID: b.ID, Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, 1, done.Order)

	back, err := uc.Execute(ctx, SetCompletedInput{Scope: alice, TaskID: a.ID, Completed: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, back.Completed)
	assert.Equal(t, 0, back.Order, "active bucket is empty again")
}

func activeOrders(t *testing.T, f *fixture, scope domain.Scope, projectID string) map[string]int {
	t.Helper()
	list, err := f.repo.List(context.Background(), scope, ports.TaskFilter{ProjectID: projectID})
	require.NoError(t, err)
	out := make(map[string]int)
	for _, task := range list {
		if !task.Completed && task.IsTopLevel() {
			out[task.Title] = task.Order
		}
	}
	return out
}

func TestSetCompleted_RoundTripKeepsOrdersContiguous(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	project := domain.NewID()
	f.add(t, alice, project, "", "a")
	b := f.add(t, alice, project, "", "b")
	f.add(t, alice, project, "", "c")
	uc := NewSetCompleted(f.repo)

	_, err := uc.Execute(ctx, SetCompletedInput{Scope: alice, TaskID: b.ID, Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 0, "c": 1}, activeOrders(t, f, alice, project))

	back, err := uc.Execute(ctx, SetCompletedInput{Scope: alice, TaskID: b.ID, Completed: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, 2, back.Order)
	assert.Equal(t, map[string]int{"a": 0, "c": 1, "b": 2}, activeOrders(t, f, alice, project))
}

func TestCreateTask_OrderEqualsActiveSiblingCount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	project := domain.NewID()
	f.add(t, alice, project, "", "a")
	b := f.add(t, alice, project, "", "b")
	f.add(t, alice, project, "", "c")

	_, err := NewSetCompleted(f.repo).Execute(ctx, SetCompletedInput{Scope: alice, TaskID: b.ID, Completed: boolPtr(true)})
	require.NoError(t, err)

	d := f.add(t, alice, project, "", "d")
	assert.Equal(t, 2, d.Order)
	assert.Equal(t, map[string]int{"a": 0, "c": 1, "d": 2}, activeOrders(t, f, alice, project))
}

func TestDeleteTask_ClosesGap(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	project := domain.NewID()
	f.add(t, alice, project, "", "a")
	b := f.add(t, alice, project, "", "b")
	f.add(t, alice, project, b.ID, "b child")
	f.add(t, alice, project, "", "c")
	f.add(t, anon, project, "", "other scope")

	_, err := NewDeleteTask(f.repo).Execute(ctx, DeleteTaskInput{Scope: alice, TaskID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 0, "c": 1}, activeOrders(t, f, alice, project))
	assert.Equal(t, map[string]int{"other scope": 0}, activeOrders(t, f, anon, project))
}

func TestSetCompleted_NoChange(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.add(t, alice, domain.NewID(), "", "a")
	uc := NewSetCompleted(f.repo)

	got, err := uc.Execute(ctx, SetCompletedInput{Scope: alice, TaskID: a.ID})
	require.NoError(t, err)
	assert.Equal(t, a.Order, got.Order)

	got, err = uc.Execute(ctx, SetCompletedInput{Scope: alice, TaskID: a.ID, Completed: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, got.Completed)

	_, err = uc.Execute(ctx, SetCompletedInput{Scope: anon, TaskID: a.ID, Completed: boolPtr(true)})
	assert.ErrorIs(t, err, domerrors.ErrTaskNotFound)
}

func TestDeleteTask_Cascades(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	project := domain.NewID()
	root := f.add(t, alice, project, "", "root")
	child := f.add(t, alice, project, root.ID, "child")
	f.add(t, alice, project, child.ID, "grandchild")
	f.add(t, alice, project, root.ID, "child 2")
	keep := f.add(t, alice, project, "", "sibling")

	n, err := NewDeleteTask(f.repo).Execute(ctx, DeleteTaskInput{Scope: alice, TaskID: root.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	left, err := f.repo.List(ctx, alice, ports.TaskFilter{ProjectID: project})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, keep.ID, left[0].ID)
}

func TestDeleteTask_CapExceededDeletesNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	project := domain.NewID()
	root := f.add(t, alice, project, "", "root")
	for i := 0; i < 4; i++ {
		f.add(t, alice, project, root.ID, "child")
	}

	uc := NewDeleteTask(f.repo)
	uc.maxNodes = 3
	_, err := uc.Execute(ctx, DeleteTaskInput{Scope: alice, TaskID: root.ID})
	assert.ErrorIs(t, err, domerrors.ErrLimitExceeded)

	left, err := f.repo.List(ctx, alice, ports.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, left, 5)
}

func TestDeleteTask_NotFound(t *testing.T) {
	f := newFixture()
	a := f.add(t, alice, domain.NewID(), "", "a")
	_, err := NewDeleteTask(f.repo).Execute(context.Background(), DeleteTaskInput{Scope: anon, TaskID: a.ID})
	assert.ErrorIs(t, err, domerrors.ErrTaskNotFound)

	_, err = NewDeleteTask(f.repo).Execute(context.Background(), DeleteTaskInput{Scope: alice, TaskID: "bad"})
	var verr *domerrors.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestReorder_CountsAndScope(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	project := domain.NewID()
	a := f.add(t, alice, project, "", "a")
	b := f.add(t, alice, project, "", "b")
	foreign := f.add(t, anon, project, "", "foreign")

	res, err := NewReorder(f.repo).Execute(ctx, ReorderInput{Scope: alice, Updates: []ports.OrderUpdate{
		{ID: a.ID, Order: 1},
		{ID: b.ID, Order: 1},
		{ID: foreign.ID, Order: 5},
		{ID: "malformed", Order: 2},
	}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Matched)
	assert.Equal(t, int64(1), res.Modified, "b already had order 1")

	got, err := f.repo.Get(ctx, anon, foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Order)
}

func TestReorder_Empty(t *testing.T) {
	_, err := NewReorder(memory.NewTaskRepository()).Execute(context.Background(), ReorderInput{Scope: alice})
	var verr *domerrors.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func ids(tasks []*domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestPlanMove(t *testing.T) {
	p1, p2 := "p1", "p2"
	a := &domain.Task{ID: "a", ProjectID: p1, Order: 0}
	b := &domain.Task{ID: "b", ProjectID: p1, Order: 1}
	c := &domain.Task{ID: "c", ProjectID: p1, Order: 2}
	x := &domain.Task{ID: "x", ProjectID: p2, Order: 0}
	y := &domain.Task{ID: "y", ProjectID: p2, Order: 1}

	t.Run("within project", func(t *testing.T) {
		list := []*domain.Task{a, b, c}
		updates := PlanMove(list, list, c, p1, "a")
		assert.Equal(t, []ports.OrderUpdate{
			{ID: "c", Order: 0},
			{ID: "a", Order: 1},
			{ID: "b", Order: 2},
		}, updates)
	})

	t.Run("across projects to tail", func(t *testing.T) {
		updates := PlanMove([]*domain.Task{a, b, c}, []*domain.Task{x, y}, b, p2, "")
		assert.Equal(t, []ports.OrderUpdate{
			{ID: "a", Order: 0},
			{ID: "c", Order: 1},
			{ID: "x", Order: 0},
			{ID: "y", Order: 1},
			{ID: "b", Order: 2, ProjectID: p2},
		}, updates)
	})

	t.Run("unknown before id goes to tail", func(t *testing.T) {
		list := []*domain.Task{a, b, c}
		updates := PlanMove(list, list, a, p1, "zzz")
		assert.Equal(t, "a", updates[len(updates)-1].ID)
		assert.Equal(t, 2, updates[len(updates)-1].Order)
	})
}

func TestMoveTask_AcrossProjects(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p1, p2 := domain.NewID(), domain.NewID()
	a := f.add(t, alice, p1, "", "a")
	b := f.add(t, alice, p1, "", "b")
	x := f.add(t, alice, p2, "", "x")

	_, err := NewMoveTask(f.repo).Execute(ctx, MoveTaskInput{Scope: alice, TaskID: a.ID, ToProjectID: p2, BeforeTaskID: x.ID})
	require.NoError(t, err)

	dest, err := f.repo.List(ctx, alice, ports.TaskFilter{ProjectID: p2})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, x.ID}, ids(dest))

	src, err := f.repo.List(ctx, alice, ports.TaskFilter{ProjectID: p1})
	require.NoError(t, err)
	require.Len(t, src, 1)
	assert.Equal(t, b.ID, src[0].ID)
	assert.Equal(t, 0, src[0].Order)
}

func TestMoveTask_RejectsSubtasks(t *testing.T) {
	f := newFixture()
	p := domain.NewID()
	root := f.add(t, alice, p, "", "root")
	sub := f.add(t, alice, p, root.ID, "sub")

	_, err := NewMoveTask(f.repo).Execute(context.Background(), MoveTaskInput{Scope: alice, TaskID: sub.ID, ToProjectID: p})
	var verr *domerrors.ValidationError
	assert.True(t, errors.As(err, &verr))
}
