// Package store defines the record store contract shared by the persistence
// backends: sentinel errors and the list filters of each collection.
package store

import "errors"

// ErrNotFound is returned when an id does not resolve in its collection.
var ErrNotFound = errors.New("record not found")

// Page bounds a list. Zero Limit means unbounded.
type Page struct {
	Limit  int
	Offset int
}

type ProjectFilter struct {
	Status     string
	Department string
	Page
}

type ROIFilter struct {
	ProjectID string
	Page
}

type PromptFilter struct {
	Status string
	Page
}

type ContactFilter struct {
	Status string
	Page
}
