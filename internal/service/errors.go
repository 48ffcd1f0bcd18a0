package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

// NotFoundError is returned when a lookup by id or isbn finds no record.
type NotFoundError struct {
	Entity string
	Key    string
	Value  any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with %s %v not found", e.Entity, e.Key, e.Value)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type ConflictReason string

const (
	ConflictDuplicateISBN  ConflictReason = "duplicate_isbn"
	ConflictAuthorHasBooks ConflictReason = "author_has_books"
)

type ConflictError struct {
	Reason  ConflictReason
	Message string
	// BookCount is set when an author delete is refused.
	BookCount int
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

type FieldError struct {
	Field   string
	Rule    string
	Message string
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	msg := ErrValidation.Error() + ": " + e.Fields[0].Message
	if n := len(e.Fields) - 1; n > 0 {
		msg += fmt.Sprintf(" (and %d more)", n)
	}
	return msg
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func authorNotFound(id uint) error {
	return &NotFoundError{Entity: "author", Key: "id", Value: id}
}

func bookNotFound(key string, value any) error {
	return &NotFoundError{Entity: "book", Key: key, Value: value}
}

func duplicateISBN() error {
	return &ConflictError{
		Reason:  ConflictDuplicateISBN,
		Message: "a book with this ISBN already exists",
	}
}
