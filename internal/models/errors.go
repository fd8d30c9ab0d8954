package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrValidation is matched by every field validation failure.
	ErrValidation = errors.New("validation failed")
)

// Entity names used in NotFoundError.
const (
	EntityFilm  = "film"
	EntityUser  = "user"
	EntityGenre = "genre"
	EntityMpa   = "mpa rating"
)

// NotFoundError reports an identifier absent from the relevant store.
type NotFoundError struct {
	Entity string
	ID     int64
}

// NewNotFound returns a NotFoundError for the given entity and id.
func NewNotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) true.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
