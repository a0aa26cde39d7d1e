package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shukubooks/shuku/pkg/models"
	"github.com/uptrace/bun"
)

// The ingest pipeline relies on these unique indexes for idempotency: entity
// names are unique, and every (book, other) pairing is unique. Insert
// collisions are treated as success at the call sites.
func init() {
	tables := []interface{}{
		(*models.Book)(nil),
		(*models.Author)(nil),
		(*models.Tag)(nil),
		(*models.Publisher)(nil),
		(*models.Series)(nil),
		(*models.Language)(nil),
		(*models.FileFormat)(nil),
		(*models.IdentifierType)(nil),
		(*models.File)(nil),
		(*models.Identifier)(nil),
		(*models.Rating)(nil),
		(*models.Comment)(nil),
		(*models.Category)(nil),
		(*models.BookAuthor)(nil),
		(*models.BookTag)(nil),
		(*models.BookPublisher)(nil),
		(*models.BookSeries)(nil),
		(*models.BookLanguage)(nil),
	}

	uniqueIndexes := []struct {
		name    string
		model   interface{}
		columns []string
	}{
		{"ux_authors_name", (*models.Author)(nil), []string{"name"}},
		{"ux_tags_name", (*models.Tag)(nil), []string{"name"}},
		{"ux_publishers_name", (*models.Publisher)(nil), []string{"name"}},
		{"ux_series_name", (*models.Series)(nil), []string{"name"}},
		{"ux_languages_lang_code", (*models.Language)(nil), []string{"lang_code"}},
		{"ux_file_formats_name", (*models.FileFormat)(nil), []string{"name"}},
		{"ux_identifier_types_name", (*models.IdentifierType)(nil), []string{"name"}},
		{"ux_categories_serial_number", (*models.Category)(nil), []string{"serial_number"}},
		{"ux_books_authors_link", (*models.BookAuthor)(nil), []string{"book", "author"}},
		{"ux_books_tags_link", (*models.BookTag)(nil), []string{"book", "tag"}},
		{"ux_books_publishers_link", (*models.BookPublisher)(nil), []string{"book", "publisher"}},
		{"ux_books_series_link", (*models.BookSeries)(nil), []string{"book", "series"}},
		{"ux_books_languages_link", (*models.BookLanguage)(nil), []string{"book", "language"}},
		{"ux_ratings_book", (*models.Rating)(nil), []string{"book"}},
		{"ux_comments_book", (*models.Comment)(nil), []string{"book"}},
		{"ux_identifiers_book_scheme", (*models.Identifier)(nil), []string{"book", "scheme"}},
	}

	up := func(ctx context.Context, db *bun.DB) error {
		for _, table := range tables {
			_, err := db.NewCreateTable().
				Model(table).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		for _, ix := range uniqueIndexes {
			q := db.NewCreateIndex().
				Model(ix.model).
				Index(ix.name).
				Unique().
				IfNotExists()
			for _, col := range ix.columns {
				q = q.Column(col)
			}
			if _, err := q.Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}

		return nil
	}

	down := func(ctx context.Context, db *bun.DB) error {
		// Link tables first so foreign references never dangle mid-rollback.
		for i := len(tables) - 1; i >= 0; i-- {
			_, err := db.NewDropTable().
				Model(tables[i]).
				IfExists().
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
