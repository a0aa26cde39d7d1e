package errcodes

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/uptrace/bun/driver/pgdriver"
)

// IsUniqueViolation reports whether err is a unique-constraint violation from
// the database. The importer treats these as idempotent success at every insert
// site, so this predicate has to work for both the Postgres driver used in
// production and the SQLite driver used by the test databases.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		// SQLSTATE 23505 is unique_violation.
		return pgErr.Field('C') == "23505"
	}

	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}
