// Package store is the persistence access layer. Every method binds the query
// to the caller's context and returns ErrNotFound for missing rows.
package store

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a user with the same email already exists.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Store groups the per-table stores around one connection pool.
type Store struct {
	Users       *UserStore
	Projects    *ProjectStore
	Assignments *AssignmentStore
}

func New(db *gorm.DB) *Store {
	return &Store{
		Users:       &UserStore{db: db},
		Projects:    &ProjectStore{db: db},
		Assignments: &AssignmentStore{db: db},
	}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
