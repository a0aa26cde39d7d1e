package importer

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/robinjoseph08/golib/logger"
	"github.com/shukubooks/shuku/pkg/calibre"
	"github.com/shukubooks/shuku/pkg/catalog"
	"github.com/shukubooks/shuku/pkg/covers"
	"github.com/shukubooks/shuku/pkg/migrations"
	"github.com/shukubooks/shuku/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const sourceSchema = `
CREATE TABLE books (id INTEGER PRIMARY KEY, title TEXT NOT NULL, sort TEXT, timestamp TEXT, pubdate TEXT, series_index REAL NOT NULL DEFAULT 1.0, author_sort TEXT, isbn TEXT, lccn TEXT, path TEXT NOT NULL DEFAULT '', flags INTEGER NOT NULL DEFAULT 1, uuid TEXT, has_cover INTEGER NOT NULL DEFAULT 0, last_modified TEXT NOT NULL DEFAULT '');
CREATE TABLE authors (id INTEGER PRIMARY KEY, name TEXT NOT NULL, sort TEXT, link TEXT NOT NULL DEFAULT '');
CREATE TABLE tags (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE publishers (id INTEGER PRIMARY KEY, name TEXT NOT NULL, sort TEXT);
CREATE TABLE series (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE languages (id INTEGER PRIMARY KEY, lang_code TEXT NOT NULL);
CREATE TABLE ratings (id INTEGER PRIMARY KEY, rating INTEGER NOT NULL);
CREATE TABLE comments (id INTEGER PRIMARY KEY, book INTEGER NOT NULL, text TEXT NOT NULL);
CREATE TABLE identifiers (id INTEGER PRIMARY KEY, book INTEGER NOT NULL, type TEXT NOT NULL, val TEXT NOT NULL);
CREATE TABLE data (id INTEGER PRIMARY KEY, book INTEGER NOT NULL, format TEXT NOT NULL, uncompressed_size INTEGER NOT NULL, name TEXT NOT NULL);
CREATE TABLE books_plugin_data (id INTEGER PRIMARY KEY, book INTEGER NOT NULL, name TEXT NOT NULL, val TEXT NOT NULL);
CREATE TABLE books_authors_link (id INTEGER PRIMARY KEY, book INTEGER NOT NULL, author INTEGER NOT NULL);
CREATE TABLE books_tags_link (id INTEGER PRIMARY KEY, book INTEGER NOT NULL, tag INTEGER NOT NULL);
CREATE TABLE books_languages_link (id INTEGER PRIMARY KEY, book INTEGER NOT NULL, lang_code INTEGER NOT NULL, item_order INTEGER NOT NULL DEFAULT 0);
CREATE TABLE books_publishers_link (id INTEGER PRIMARY KEY, book INTEGER NOT NULL, publisher INTEGER NOT NULL);
CREATE TABLE books_series_link (id INTEGER PRIMARY KEY, book INTEGER NOT NULL, series INTEGER NOT NULL);
CREATE TABLE books_ratings_link (id INTEGER PRIMARY KEY, book INTEGER NOT NULL, rating INTEGER NOT NULL);
`

type testContext struct {
	ctx         context.Context
	db          *bun.DB
	sourceDB    *bun.DB
	catalog     *catalog.Service
	source      *calibre.Reader
	calibreRoot string
	libraryRoot string
}

func newTestContext(t *testing.T) *testContext {
	t.Helper()

	open := func() *bun.DB {
		sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
		require.NoError(t, err)
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New())
	}

	db := open()
	_, err := migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	sourceDB := open()
	_, err = sourceDB.Exec(sourceSchema)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
		_ = sourceDB.Close()
	})

	return &testContext{
		ctx:         logger.New().WithContext(context.Background()),
		db:          db,
		sourceDB:    sourceDB,
		catalog:     catalog.NewService(db),
		source:      calibre.NewReader(sourceDB),
		calibreRoot: t.TempDir(),
		libraryRoot: t.TempDir(),
	}
}

// seedSourceBook writes the Alpha fixture: one book with one epub, an author,
// a tag, a comment, an identifier, a language, a publisher, and a rating.
func (tc *testContext) seedSourceBook(t *testing.T) {
	t.Helper()

	statements := []string{
		`INSERT INTO books (id, title, path, uuid) VALUES (1, 'Alpha', 'Alpha/1', 'uuid-alpha')`,
		`INSERT INTO data (book, format, uncompressed_size, name) VALUES (1, 'EPUB', 12345, 'Alpha')`,
		`INSERT INTO authors (id, name) VALUES (1, 'Ann Leckie')`,
		`INSERT INTO books_authors_link (book, author) VALUES (1, 1)`,
		`INSERT INTO tags (id, name) VALUES (1, 'fiction')`,
		`INSERT INTO books_tags_link (book, tag) VALUES (1, 1)`,
		`INSERT INTO comments (book, text) VALUES (1, '<p>great</p>')`,
		`INSERT INTO identifiers (book, type, val) VALUES (1, 'isbn', '9787115123456')`,
		`INSERT INTO languages (id, lang_code) VALUES (1, 'eng')`,
		`INSERT INTO books_languages_link (book, lang_code) VALUES (1, 1)`,
		`INSERT INTO publishers (id, name) VALUES (1, 'Tor')`,
		`INSERT INTO books_publishers_link (book, publisher) VALUES (1, 1)`,
		`INSERT INTO ratings (id, rating) VALUES (1, 8)`,
		`INSERT INTO books_ratings_link (book, rating) VALUES (1, 1)`,
	}
	for _, stmt := range statements {
		_, err := tc.sourceDB.Exec(stmt)
		require.NoError(t, err)
	}

	bookDir := filepath.Join(tc.calibreRoot, "Alpha", "1")
	require.NoError(t, os.MkdirAll(bookDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bookDir, "Alpha.epub"), []byte("epub bytes"), 0o644))
}

func (tc *testContext) newIngestor(opts Options) *Ingestor {
	return NewIngestor(
		tc.source,
		tc.catalog,
		covers.NewTranscoderWithConvert("/no/such/convert"),
		tc.calibreRoot,
		tc.libraryRoot,
		opts,
	)
}

func TestRunImportsBook(t *testing.T) {
	t.Parallel()

	tc := newTestContext(t)
	tc.seedSourceBook(t)

	require.NoError(t, tc.newIngestor(DefaultOptions()).Run(tc.ctx))

	// The catalog row.
	book, err := tc.catalog.RetrieveBookByUUID(tc.ctx, "uuid-alpha")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", book.Title)
	assert.Equal(t, "Alpha", book.Sort)
	assert.Equal(t, "Alpha/1", book.Path)
	// No author_sort in the source, so the key is derived from the author.
	assert.Equal(t, "Leckie, Ann", book.AuthorSort)

	// The content file was copied and the source kept.
	copied := filepath.Join(tc.libraryRoot, "Alpha", "1", "Alpha.epub")
	data, err := os.ReadFile(copied)
	require.NoError(t, err)
	assert.Equal(t, "epub bytes", string(data))
	_, err = os.Stat(filepath.Join(tc.calibreRoot, "Alpha", "1", "Alpha.epub"))
	assert.NoError(t, err)

	// The file row records the resolved format and the source size.
	var file models.File
	err = tc.db.NewSelect().Model(&file).Where("f.book = ?", book.ID).Scan(tc.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), file.Size)
	assert.Equal(t, "Alpha", file.Name)

	format := &models.FileFormat{}
	err = tc.db.NewSelect().Model(format).Where("ff.id = ?", file.FormatID).Scan(tc.ctx)
	require.NoError(t, err)
	assert.Equal(t, "EPUB", format.Name)

	// Detail rows came over.
	author, err := tc.catalog.RetrieveAuthorByName(tc.ctx, "Ann Leckie")
	require.NoError(t, err)
	links, err := tc.catalog.ListBookAuthorLinks(tc.ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, book.ID, links[0].BookID)

	commentCount, err := tc.db.NewSelect().Model((*models.Comment)(nil)).Where("book = ?", book.ID).Count(tc.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, commentCount)

	ratingCount, err := tc.db.NewSelect().Model((*models.Rating)(nil)).Where("book = ?", book.ID).Count(tc.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, ratingCount)

	tagCount, err := tc.db.NewSelect().Model((*models.BookTag)(nil)).Where("book = ?", book.ID).Count(tc.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, tagCount)
}

func TestRunSkipsAlreadyImportedBook(t *testing.T) {
	t.Parallel()

	tc := newTestContext(t)
	tc.seedSourceBook(t)

	ingestor := tc.newIngestor(DefaultOptions())
	require.NoError(t, ingestor.Run(tc.ctx))
	require.NoError(t, ingestor.Run(tc.ctx))

	count, err := tc.db.NewSelect().Model((*models.Book)(nil)).Count(tc.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRunAllowDuplication(t *testing.T) {
	t.Parallel()

	tc := newTestContext(t)
	tc.seedSourceBook(t)

	opts := DefaultOptions()
	opts.AllowDuplication = true

	ingestor := tc.newIngestor(opts)
	require.NoError(t, ingestor.Run(tc.ctx))
	require.NoError(t, ingestor.Run(tc.ctx))

	count, err := tc.db.NewSelect().Model((*models.Book)(nil)).Count(tc.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRunDoNothingSkipsFilesystem(t *testing.T) {
	t.Parallel()

	tc := newTestContext(t)
	tc.seedSourceBook(t)

	opts := DefaultOptions()
	opts.FileAction = FileActionDoNothing

	require.NoError(t, tc.newIngestor(opts).Run(tc.ctx))

	// No file was written, but the row still exists.
	_, err := os.Stat(filepath.Join(tc.libraryRoot, "Alpha", "1", "Alpha.epub"))
	assert.True(t, os.IsNotExist(err))

	count, err := tc.db.NewSelect().Model((*models.File)(nil)).Count(tc.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRunMoveFiles(t *testing.T) {
	t.Parallel()

	tc := newTestContext(t)
	tc.seedSourceBook(t)

	opts := DefaultOptions()
	opts.FileAction = FileActionMove

	require.NoError(t, tc.newIngestor(opts).Run(tc.ctx))

	_, err := os.Stat(filepath.Join(tc.libraryRoot, "Alpha", "1", "Alpha.epub"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(tc.calibreRoot, "Alpha", "1", "Alpha.epub"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunContinuesAfterFailedBook(t *testing.T) {
	t.Parallel()

	tc := newTestContext(t)
	tc.seedSourceBook(t)

	// A second book whose epub is missing on disk fails, but the run keeps
	// going and still imports the third.
	statements := []string{
		`INSERT INTO books (id, title, path, uuid) VALUES (2, 'Broken', 'Broken/2', 'uuid-broken')`,
		`INSERT INTO data (book, format, uncompressed_size, name) VALUES (2, 'EPUB', 1, 'Broken')`,
		`INSERT INTO books (id, title, path, uuid) VALUES (3, 'Gamma', 'Gamma/3', 'uuid-gamma')`,
	}
	for _, stmt := range statements {
		_, err := tc.sourceDB.Exec(stmt)
		require.NoError(t, err)
	}

	require.NoError(t, tc.newIngestor(DefaultOptions()).Run(tc.ctx))

	_, err := tc.catalog.RetrieveBookByUUID(tc.ctx, "uuid-alpha")
	assert.NoError(t, err)
	_, err = tc.catalog.RetrieveBookByUUID(tc.ctx, "uuid-gamma")
	assert.NoError(t, err)
}

func TestRunPrefersSourceAuthorSort(t *testing.T) {
	t.Parallel()

	tc := newTestContext(t)
	tc.seedSourceBook(t)

	_, err := tc.sourceDB.Exec(`UPDATE books SET author_sort = 'Leckie, A.' WHERE id = 1`)
	require.NoError(t, err)

	require.NoError(t, tc.newIngestor(DefaultOptions()).Run(tc.ctx))

	book, err := tc.catalog.RetrieveBookByUUID(tc.ctx, "uuid-alpha")
	require.NoError(t, err)
	assert.Equal(t, "Leckie, A.", book.AuthorSort)
}

func TestParseSourceTime(t *testing.T) {
	t.Parallel()

	full := "2020-05-01 10:30:00.123456+08:00"
	parsed := parseSourceTime(&full)
	require.NotNil(t, parsed)
	assert.Equal(t, 2020, parsed.Year())

	dateOnly := "2020-05-01"
	parsed = parseSourceTime(&dateOnly)
	require.NotNil(t, parsed)

	garbage := "not a time"
	assert.Nil(t, parseSourceTime(&garbage))
	assert.Nil(t, parseSourceTime(nil))
}
