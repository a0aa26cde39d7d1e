package books

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shukubooks/shuku/pkg/binder"
	"github.com/shukubooks/shuku/pkg/catalog"
	"github.com/shukubooks/shuku/pkg/errcodes"
	"github.com/shukubooks/shuku/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newTestServer(t *testing.T, db *bun.DB) *echo.Echo {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle
	RegisterRoutes(e, db)
	return e
}

func executeRequest(t *testing.T, e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)
	return rr
}

func TestListHandler(t *testing.T) {
	t.Parallel()

	db, ctx := newTestDB(t)
	cat := catalog.NewService(db)
	seedBooks(t, ctx, cat)
	e := newTestServer(t, db)

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	rr := executeRequest(t, e, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Books []*models.Book `json:"books"`
		Total int            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Books, 3)
	assert.Equal(t, "Alpha", resp.Books[0].Title)
}

func TestListHandlerPagination(t *testing.T) {
	t.Parallel()

	db, ctx := newTestDB(t)
	cat := catalog.NewService(db)
	seedBooks(t, ctx, cat)
	e := newTestServer(t, db)

	req := httptest.NewRequest(http.MethodGet, "/books?limit=1&offset=1", nil)
	rr := executeRequest(t, e, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Books []*models.Book `json:"books"`
		Total int            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Books, 1)
	assert.Equal(t, "Beta", resp.Books[0].Title)
}

func TestListHandlerValidation(t *testing.T) {
	t.Parallel()

	db, _ := newTestDB(t)
	e := newTestServer(t, db)

	req := httptest.NewRequest(http.MethodGet, "/books?limit=200", nil)
	rr := executeRequest(t, e, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestRetrieveHandler(t *testing.T) {
	t.Parallel()

	db, ctx := newTestDB(t)
	cat := catalog.NewService(db)
	books := seedBooks(t, ctx, cat)
	e := newTestServer(t, db)

	req := httptest.NewRequest(http.MethodGet, "/books/"+strconv.Itoa(books[0].ID), nil)
	rr := executeRequest(t, e, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var detail BookDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
	assert.Equal(t, "Beta", detail.Title)
}

func TestRetrieveHandlerNotFound(t *testing.T) {
	t.Parallel()

	db, _ := newTestDB(t)
	e := newTestServer(t, db)

	req := httptest.NewRequest(http.MethodGet, "/books/999999", nil)
	rr := executeRequest(t, e, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/books/not-a-number", nil)
	rr = executeRequest(t, e, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
