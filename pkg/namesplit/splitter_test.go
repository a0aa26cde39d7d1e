package namesplit

import (
	"context"
	"database/sql"
	"testing"

	"github.com/robinjoseph08/golib/logger"
	"github.com/shukubooks/shuku/pkg/catalog"
	"github.com/shukubooks/shuku/pkg/errcodes"
	"github.com/shukubooks/shuku/pkg/migrations"
	"github.com/shukubooks/shuku/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) (*bun.DB, context.Context) {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	ctx := logger.New().WithContext(context.Background())
	return db, ctx
}

func TestSplitAuthors(t *testing.T) {
	t.Parallel()

	db, ctx := newTestDB(t)
	svc := catalog.NewService(db)

	composite, err := svc.ResolveAuthor(ctx, "Alice & Bob")
	require.NoError(t, err)

	var bookIDs []int
	for _, title := range []string{"First", "Second", "Third"} {
		book := &models.Book{Title: title, Path: title + "/1", UUID: "uuid-" + title}
		require.NoError(t, svc.CreateBook(ctx, book))
		require.NoError(t, svc.AddBookAuthor(ctx, book.ID, composite.ID))
		bookIDs = append(bookIDs, book.ID)
	}

	require.NoError(t, NewSplitter(svc).SplitAuthors(ctx))

	alice, err := svc.RetrieveAuthorByName(ctx, "Alice")
	require.NoError(t, err)
	bob, err := svc.RetrieveAuthorByName(ctx, "Bob")
	require.NoError(t, err)

	// The composite row and its links are gone.
	_, err = svc.RetrieveAuthorByName(ctx, "Alice & Bob")
	assert.True(t, errcodes.IsNotFound(err))
	oldLinks, err := svc.ListBookAuthorLinks(ctx, composite.ID)
	require.NoError(t, err)
	assert.Empty(t, oldLinks)

	// Each of the three books now links to both atomic authors.
	aliceLinks, err := svc.ListBookAuthorLinks(ctx, alice.ID)
	require.NoError(t, err)
	bobLinks, err := svc.ListBookAuthorLinks(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, aliceLinks, 3)
	require.Len(t, bobLinks, 3)
	for i, bookID := range bookIDs {
		assert.Equal(t, bookID, aliceLinks[i].BookID)
		assert.Equal(t, bookID, bobLinks[i].BookID)
	}

	total, err := db.NewSelect().Model((*models.BookAuthor)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, total)
}

func TestSplitTagsCollapsesEmptyParts(t *testing.T) {
	t.Parallel()

	db, ctx := newTestDB(t)
	svc := catalog.NewService(db)

	// The doubled delimiter produces an empty part, which is dropped.
	composite, err := svc.ResolveTag(ctx, "history;;biography")
	require.NoError(t, err)

	book := &models.Book{Title: "Alpha", Path: "Alpha/1", UUID: "uuid-1"}
	require.NoError(t, svc.CreateBook(ctx, book))
	require.NoError(t, svc.AddBookTag(ctx, book.ID, composite.ID))

	require.NoError(t, NewSplitter(svc).SplitTags(ctx))

	var tags []*models.Tag
	err = db.NewSelect().Model(&tags).Order("t.name ASC").Scan(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "biography", tags[0].Name)
	assert.Equal(t, "history", tags[1].Name)

	total, err := db.NewSelect().Model((*models.BookTag)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestSplitAuthorsTrailingDelimiter(t *testing.T) {
	t.Parallel()

	db, ctx := newTestDB(t)
	svc := catalog.NewService(db)

	// One non-empty part: the composite must still be replaced, not skipped.
	composite, err := svc.ResolveAuthor(ctx, "Alice &")
	require.NoError(t, err)

	book := &models.Book{Title: "Alpha", Path: "Alpha/1", UUID: "uuid-1"}
	require.NoError(t, svc.CreateBook(ctx, book))
	require.NoError(t, svc.AddBookAuthor(ctx, book.ID, composite.ID))

	require.NoError(t, NewSplitter(svc).SplitAuthors(ctx))

	_, err = svc.RetrieveAuthorByName(ctx, "Alice &")
	assert.True(t, errcodes.IsNotFound(err))

	alice, err := svc.RetrieveAuthorByName(ctx, "Alice")
	require.NoError(t, err)
	links, err := svc.ListBookAuthorLinks(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, book.ID, links[0].BookID)
}

func TestSplitTagsAllDelimiters(t *testing.T) {
	t.Parallel()

	db, ctx := newTestDB(t)
	svc := catalog.NewService(db)

	// Zero non-empty parts: the composite and its links just go away.
	composite, err := svc.ResolveTag(ctx, "&&")
	require.NoError(t, err)

	book := &models.Book{Title: "Alpha", Path: "Alpha/1", UUID: "uuid-1"}
	require.NoError(t, svc.CreateBook(ctx, book))
	require.NoError(t, svc.AddBookTag(ctx, book.ID, composite.ID))

	require.NoError(t, NewSplitter(svc).SplitTags(ctx))

	tagCount, err := db.NewSelect().Model((*models.Tag)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, tagCount)

	linkCount, err := db.NewSelect().Model((*models.BookTag)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, linkCount)
}

func TestSplitAuthorsLeavesAtomicNames(t *testing.T) {
	t.Parallel()

	db, ctx := newTestDB(t)
	svc := catalog.NewService(db)

	author, err := svc.ResolveAuthor(ctx, "Ann Leckie")
	require.NoError(t, err)

	require.NoError(t, NewSplitter(svc).Run(ctx))

	kept, err := svc.RetrieveAuthorByName(ctx, "Ann Leckie")
	require.NoError(t, err)
	assert.Equal(t, author.ID, kept.ID)
}

func TestSplitName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Alice", "Bob"}, splitName("Alice & Bob", "&"))
	assert.Equal(t, []string{"history", "biography"}, splitName("history;;biography", ";"))
	assert.Equal(t, []string{"solo"}, splitName("solo", "&"))
	assert.Nil(t, splitName(";;", ";"))
}
