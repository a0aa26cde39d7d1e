package errcodes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handleError(t *testing.T, err error) (int, errorBody) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	c := e.NewContext(req, rr)

	NewHandler().Handle(err, c)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return rr.Code, resp.Error
}

func TestHandleTypedError(t *testing.T) {
	t.Parallel()

	code, body := handleError(t, NotFound("Book"))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", body.Code)
	assert.Equal(t, "Book not found.", body.Message)
	assert.Equal(t, http.StatusNotFound, body.StatusCode)
}

func TestHandleWrappedTypedError(t *testing.T) {
	t.Parallel()

	code, body := handleError(t, errors.Wrap(ConfigError("DATABASE_URL is required"), "startup"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "config_error", body.Code)
}

func TestHandleEchoError(t *testing.T) {
	t.Parallel()

	code, body := handleError(t, echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"))
	assert.Equal(t, http.StatusMethodNotAllowed, code)
	assert.Equal(t, "method_not_allowed", body.Code)
	assert.Equal(t, "Method Not Allowed", body.Message)
}

func TestHandleGenericError(t *testing.T) {
	t.Parallel()

	code, body := handleError(t, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal_server_error", body.Code)
	assert.Equal(t, "Internal Server Error", body.Message)
}
