package errcodes

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	t.Parallel()

	err := NotFound("Book")
	assert.Equal(t, "Book not found.", err.Error())

	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, http.StatusNotFound, e.HTTPCode)
	assert.Equal(t, "not_found", e.Code)
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNotFound(NotFound("Book")))
	// Works across resources and through wrapping.
	assert.True(t, IsNotFound(errors.Wrap(NotFound("Language"), "importing")))

	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(errors.New("boom")))
	assert.False(t, IsNotFound(ConfigError("missing")))
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: books.uuid")))
	assert.True(t, IsUniqueViolation(errors.Wrap(errors.New("constraint failed: UNIQUE constraint failed: authors.name"), "insert")))

	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("NOT NULL constraint failed: books.title")))
}
