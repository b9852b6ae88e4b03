package domain

import "time"

// LabelKind distinguishes the free-text label collections.
type LabelKind string

const (
	LabelBrand     LabelKind = "brand"
	LabelMilestone LabelKind = "milestone"
)

// Label is a brand or milestone created on demand by a scope.
type Label struct {
	ID        string
	Kind      LabelKind
	Name      string
	Owner     Owner
	CreatedAt time.Time
}
