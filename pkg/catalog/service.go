// Package catalog owns all writes to the canonical library database.
package catalog

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
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

// CreateBook inserts a book row and fills in its generated id. Books whose
// source row carried no uuid get a fresh one so every book stays addressable
// by uuid.
func (svc *Service) CreateBook(ctx context.Context, book *models.Book) error {
	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now
	if book.UUID == "" {
		book.UUID = uuid.NewString()
	}

	_, err := svc.db.NewInsert().Model(book).Exec(ctx)
	return errors.WithStack(err)
}

// RetrieveBookByUUID returns the book carrying the given source uuid, or
// NotFound. An empty uuid never matches.
func (svc *Service) RetrieveBookByUUID(ctx context.Context, uuid string) (*models.Book, error) {
	if uuid == "" {
		return nil, errcodes.NotFound("Book")
	}

	book := &models.Book{}
	err := svc.db.NewSelect().
		Model(book).
		Where("b.uuid = ?", uuid).
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
