// Package calibre is a read-only view over a Calibre library's metadata.db.
package calibre

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/shukubooks/shuku/pkg/config"
	"github.com/shukubooks/shuku/pkg/errcodes"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// DuplicatesPluginName keys the per-book hash blob written by Calibre's
// find_duplicates plugin.
const DuplicatesPluginName = "find_duplicates"

type Reader struct {
	db *bun.DB
}

// Open opens the metadata.db inside libraryRoot read-only.
func Open(libraryRoot string) (*Reader, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro", filepath.Join(libraryRoot, config.CalibreDatabaseFilename))
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if _, err := db.Exec("SELECT 1"); err != nil {
		_ = db.Close()
		return nil, errors.WithStack(err)
	}

	return &Reader{db: db}, nil
}

// NewReader wraps an existing bun handle. Used by tests.
func NewReader(db *bun.DB) *Reader {
	return &Reader{db: db}
}

func (r *Reader) Close() error {
	return errors.WithStack(r.db.Close())
}

// ListBooks returns books ordered by id.
func (r *Reader) ListBooks(ctx context.Context, offset, limit int) ([]*Book, error) {
	var books []*Book
	err := r.db.NewSelect().
		Model(&books).
		Order("b.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return books, nil
}

// NextBook returns the first book with an id greater than lastID, so a run can
// walk the catalog without holding a cursor open. Returns NotFound when the
// catalog is exhausted.
func (r *Reader) NextBook(ctx context.Context, lastID int) (*Book, error) {
	book := &Book{}
	err := r.db.NewSelect().
		Model(book).
		Where("b.id > ?", lastID).
		Order("b.id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}
	return book, nil
}

func (r *Reader) BookAuthors(ctx context.Context, bookID int) ([]*Author, error) {
	var authors []*Author
	err := r.db.NewSelect().
		Model(&authors).
		Join("JOIN books_authors_link AS bal ON bal.author = a.id").
		Where("bal.book = ?", bookID).
		OrderExpr("bal.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return authors, nil
}

func (r *Reader) BookTags(ctx context.Context, bookID int) ([]*Tag, error) {
	var tags []*Tag
	err := r.db.NewSelect().
		Model(&tags).
		Join("JOIN books_tags_link AS btl ON btl.tag = t.id").
		Where("btl.book = ?", bookID).
		OrderExpr("btl.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return tags, nil
}

func (r *Reader) BookIdentifiers(ctx context.Context, bookID int) ([]*Identifier, error) {
	var identifiers []*Identifier
	err := r.db.NewSelect().
		Model(&identifiers).
		Where("i.book = ?", bookID).
		Order("i.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return identifiers, nil
}

func (r *Reader) BookLanguage(ctx context.Context, bookID int) (*Language, error) {
	language := &Language{}
	err := r.db.NewSelect().
		Model(language).
		Join("JOIN books_languages_link AS bll ON bll.lang_code = l.id").
		Where("bll.book = ?", bookID).
		OrderExpr("bll.item_order ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Language")
		}
		return nil, errors.WithStack(err)
	}
	return language, nil
}

func (r *Reader) BookPublisher(ctx context.Context, bookID int) (*Publisher, error) {
	publisher := &Publisher{}
	err := r.db.NewSelect().
		Model(publisher).
		Join("JOIN books_publishers_link AS bpl ON bpl.publisher = p.id").
		Where("bpl.book = ?", bookID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Publisher")
		}
		return nil, errors.WithStack(err)
	}
	return publisher, nil
}

func (r *Reader) BookSeries(ctx context.Context, bookID int) (*Series, error) {
	series := &Series{}
	err := r.db.NewSelect().
		Model(series).
		Join("JOIN books_series_link AS bsl ON bsl.series = s.id").
		Where("bsl.book = ?", bookID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Series")
		}
		return nil, errors.WithStack(err)
	}
	return series, nil
}

func (r *Reader) BookRating(ctx context.Context, bookID int) (*Rating, error) {
	rating := &Rating{}
	err := r.db.NewSelect().
		Model(rating).
		Join("JOIN books_ratings_link AS brl ON brl.rating = r.id").
		Where("brl.book = ?", bookID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Rating")
		}
		return nil, errors.WithStack(err)
	}
	return rating, nil
}

func (r *Reader) BookComment(ctx context.Context, bookID int) (*Comment, error) {
	comment := &Comment{}
	err := r.db.NewSelect().
		Model(comment).
		Where("c.book = ?", bookID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Comment")
		}
		return nil, errors.WithStack(err)
	}
	return comment, nil
}

func (r *Reader) BookFiles(ctx context.Context, bookID int) ([]*Data, error) {
	var files []*Data
	err := r.db.NewSelect().
		Model(&files).
		Where("d.book = ?", bookID).
		Order("d.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return files, nil
}

// BookHash returns the raw JSON duplicates blob for a book, when the source
// library ran the find_duplicates plugin.
func (r *Reader) BookHash(ctx context.Context, bookID int) (string, error) {
	row := &PluginData{}
	err := r.db.NewSelect().
		Model(row).
		Where("bpd.book = ?", bookID).
		Where("bpd.name = ?", DuplicatesPluginName).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", errcodes.NotFound("BookHash")
		}
		return "", errors.WithStack(err)
	}
	return row.Val, nil
}
