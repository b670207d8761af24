package repository

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeRecordNotFound      = "RECORD_NOT_FOUND"
	TextCodeConstraintViolation = "CONSTRAINT_VIOLATION"
)

// NewRecordNotFound builds the structured absent-record error. Callers
// that can tolerate a miss should branch on IsRecordNotFound instead of
// treating it as a failure.
func NewRecordNotFound() *errors.Error {
	return errors.New("record not found", errors.CategoryNotFound).
		WithTextCode(TextCodeRecordNotFound).
		WithCode(errors.CodeNotFound)
}

// IsRecordNotFound reports whether err marks an absent record.
func IsRecordNotFound(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == TextCodeRecordNotFound
	}
	return false
}

// NewConstraintViolation wraps a uniqueness conflict. Unlike not-found,
// this is recoverable by the caller ("email already registered").
func NewConstraintViolation(err error) *errors.Error {
	return errors.Wrap(err, errors.CategoryConflict, "constraint violation").
		WithTextCode(TextCodeConstraintViolation).
		WithCode(errors.CodeConflict)
}

// IsConstraintViolation reports whether err marks a uniqueness
// conflict.
func IsConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == TextCodeConstraintViolation
	}
	return false
}

// isUniqueViolation matches driver-level unique constraint failures for
// the dialects we run on (sqlite in tests, postgres in deployments).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "SQLSTATE=23505") || // postgres
		strings.Contains(msg, "duplicate key value") // postgres
}
