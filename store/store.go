// Package store contains the database facades for books, reviews and users.
// Each facade holds an explicitly injected *sql.DB; connection lifecycle is
// owned by the caller (see main).
package store

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when no row matches the requested id.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateReview is returned when a user already reviewed a book.
	ErrDuplicateReview = errors.New("review already exists for this user and book")

	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)

// uniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func uniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// foreignKeyViolation reports whether err is a Postgres foreign key
// violation (SQLSTATE 23503).
func foreignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

func totalPages(total, limit int) int {
	if total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
