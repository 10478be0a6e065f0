package models

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InvalidLocationError always carries the rejected coordinates.
type InvalidLocationError struct {
	Latitude  float64
	Longitude float64
	Reason    string
}

func (e *InvalidLocationError) Error() string {
	return fmt.Sprintf("invalid location (%v, %v): %s", e.Latitude, e.Longitude, e.Reason)
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
