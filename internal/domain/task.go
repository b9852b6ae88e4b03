package domain

import (
	"sort"
	"time"
)

// Task is a node in a project's task forest. ParentTaskID is empty for top-level tasks.
type Task struct {
	ID           string
	Title        string
	ProjectID    string
	ParentTaskID string
	Order        int
	Completed    bool
	Owner        Owner
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Bucket is the sibling group sharing one contiguous order space.
type Bucket struct {
	ProjectID    string
	ParentTaskID string
	Completed    bool
}

// Bucket returns the bucket the task currently belongs to.
func (t *Task) Bucket() Bucket {
	return Bucket{ProjectID: t.ProjectID, ParentTaskID: t.ParentTaskID, Completed: t.Completed}
}

// IsTopLevel reports whether the task has no parent.
func (t *Task) IsTopLevel() bool { return t.ParentTaskID == "" }

// NextOrder returns the tail slot of a bucket given its current max order.
func NextOrder(maxOrder int, nonEmpty bool) int {
	if !nonEmpty {
		return 0
	}
	return maxOrder + 1
}

// SortTasks orders by Order ascending, ties broken by creation time.
func SortTasks(tasks []*Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Order != tasks[j].Order {
			return tasks[i].Order < tasks[j].Order
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
}
