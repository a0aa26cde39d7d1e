// Package books is the read surface over the canonical catalog.
package books

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/shukubooks/shuku/pkg/errcodes"
	"github.com/shukubooks/shuku/pkg/models"
	"github.com/uptrace/bun"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

type ListBooksOptions struct {
	Limit    *int
	Offset   *int
	AuthorID *int
	TagID    *int
	Search   *string
}

// ListBooksWithTotal returns one page of books plus the unpaginated count.
func (svc *Service) ListBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	var books []*models.Book
	q := svc.db.NewSelect().
		Model(&books).
		Order("b.sort ASC", "b.id ASC")

	if opts.AuthorID != nil {
		q = q.Where("EXISTS (SELECT 1 FROM books_authors_link bal WHERE bal.book = b.id AND bal.author = ?)", *opts.AuthorID)
	}
	if opts.TagID != nil {
		q = q.Where("EXISTS (SELECT 1 FROM books_tags_link btl WHERE btl.book = b.id AND btl.tag = ?)", *opts.TagID)
	}
	if opts.Search != nil && *opts.Search != "" {
		q = q.Where("LOWER(b.title) LIKE LOWER(?)", "%"+*opts.Search+"%")
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}
	return books, total, nil
}

// BookDetail is a book with its related rows loaded.
type BookDetail struct {
	*models.Book
	Authors []*models.Author `json:"authors"`
	Tags    []*models.Tag    `json:"tags"`
	Files   []*models.File   `json:"files"`
}

func (svc *Service) RetrieveBookDetail(ctx context.Context, id int) (*BookDetail, error) {
	book := &models.Book{}
	err := svc.db.NewSelect().
		Model(book).
		Where("b.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	detail := &BookDetail{Book: book}

	err = svc.db.NewSelect().
		Model(&detail.Authors).
		Join("JOIN books_authors_link AS bal ON bal.author = a.id").
		Where("bal.book = ?", id).
		OrderExpr("bal.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	err = svc.db.NewSelect().
		Model(&detail.Tags).
		Join("JOIN books_tags_link AS btl ON btl.tag = t.id").
		Where("btl.book = ?", id).
		OrderExpr("btl.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	err = svc.db.NewSelect().
		Model(&detail.Files).
		Where("f.book = ?", id).
		Order("f.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return detail, nil
}
