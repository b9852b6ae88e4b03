package domain

import "time"

// HeaderColor is the accent shown on a project column.
type HeaderColor string

const (
	ColorBlue   HeaderColor = "blue"
	ColorGreen  HeaderColor = "green"
	ColorRed    HeaderColor = "red"
	ColorOrange HeaderColor = "orange"
	ColorPurple HeaderColor = "purple"
	ColorGray   HeaderColor = "gray"

	DefaultHeaderColor = ColorBlue
)

// Valid reports whether c is one of the six supported colors.
func (c HeaderColor) Valid() bool {
	switch c {
	case ColorBlue, ColorGreen, ColorRed, ColorOrange, ColorPurple, ColorGray:
		return true
	}
	return false
}

// Project groups tasks for one scope.
type Project struct {
	ID          string
	Name        string
	HeaderColor HeaderColor
	Owner       Owner
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
