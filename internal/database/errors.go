package database

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres error code for unique constraint violations
const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation. Uniqueness invariants (phone, email, registration number,
// one ongoing trip per user) are enforced at the store level, so this is
// the signal repositories and services use to surface conflicts.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}
	return false
}
