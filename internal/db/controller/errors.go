// Package controller holds the error classes and helpers shared by the entity controllers.
//
// Each entity package declares its own sentinel errors wrapping one of the classes below,
// so callers can match either the precise error or its class with errors.Is.
package controller

import "errors"

var (
	// ErrNotFound is the class of errors for missing or soft deleted rows.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is the class of errors for actors lacking the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is the class of errors for state that already exists or was already changed.
	ErrConflict = errors.New("conflict")
	// ErrInvalid is the class of errors for rejected input.
	ErrInvalid = errors.New("invalid input")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)
