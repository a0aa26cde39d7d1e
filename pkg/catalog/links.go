package catalog

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/shukubooks/shuku/pkg/errcodes"
	"github.com/shukubooks/shuku/pkg/models"
)

// Link and attachment writers. Re-inserting an existing pairing is treated as
// success so ingest runs are safe to repeat.

func (svc *Service) AddBookAuthor(ctx context.Context, bookID, authorID int) error {
	link := &models.BookAuthor{BookID: bookID, AuthorID: authorID}
	_, err := svc.db.NewInsert().Model(link).Exec(ctx)
	if err != nil && !errcodes.IsUniqueViolation(err) {
		return errors.WithStack(err)
	}
	return nil
}

func (svc *Service) AddBookTag(ctx context.Context, bookID, tagID int) error {
	link := &models.BookTag{BookID: bookID, TagID: tagID}
	_, err := svc.db.NewInsert().Model(link).Exec(ctx)
	if err != nil && !errcodes.IsUniqueViolation(err) {
		return errors.WithStack(err)
	}
	return nil
}

func (svc *Service) AddBookPublisher(ctx context.Context, bookID, publisherID int) error {
	link := &models.BookPublisher{BookID: bookID, PublisherID: publisherID}
	_, err := svc.db.NewInsert().Model(link).Exec(ctx)
	if err != nil && !errcodes.IsUniqueViolation(err) {
		return errors.WithStack(err)
	}
	return nil
}

func (svc *Service) AddBookSeries(ctx context.Context, bookID, seriesID int) error {
	link := &models.BookSeries{BookID: bookID, SeriesID: seriesID}
	_, err := svc.db.NewInsert().Model(link).Exec(ctx)
	if err != nil && !errcodes.IsUniqueViolation(err) {
		return errors.WithStack(err)
	}
	return nil
}

func (svc *Service) AddBookLanguage(ctx context.Context, bookID, languageID int) error {
	link := &models.BookLanguage{BookID: bookID, LanguageID: languageID}
	_, err := svc.db.NewInsert().Model(link).Exec(ctx)
	if err != nil && !errcodes.IsUniqueViolation(err) {
		return errors.WithStack(err)
	}
	return nil
}

func (svc *Service) AddRating(ctx context.Context, bookID, rating int) error {
	now := time.Now()
	row := &models.Rating{BookID: bookID, Rating: rating, CreatedAt: now, UpdatedAt: now}
	_, err := svc.db.NewInsert().Model(row).Exec(ctx)
	if err != nil && !errcodes.IsUniqueViolation(err) {
		return errors.WithStack(err)
	}
	return nil
}

func (svc *Service) AddComment(ctx context.Context, bookID int, text string) error {
	now := time.Now()
	row := &models.Comment{BookID: bookID, Text: text, CreatedAt: now, UpdatedAt: now}
	_, err := svc.db.NewInsert().Model(row).Exec(ctx)
	if err != nil && !errcodes.IsUniqueViolation(err) {
		return errors.WithStack(err)
	}
	return nil
}

func (svc *Service) AddIdentifier(ctx context.Context, identifier *models.Identifier) error {
	now := time.Now()
	identifier.CreatedAt = now
	identifier.UpdatedAt = now
	_, err := svc.db.NewInsert().Model(identifier).Exec(ctx)
	if err != nil && !errcodes.IsUniqueViolation(err) {
		return errors.WithStack(err)
	}
	return nil
}

func (svc *Service) AddFile(ctx context.Context, file *models.File) error {
	now := time.Now()
	file.CreatedAt = now
	file.UpdatedAt = now
	_, err := svc.db.NewInsert().Model(file).Exec(ctx)
	if err != nil && !errcodes.IsUniqueViolation(err) {
		return errors.WithStack(err)
	}
	return nil
}

func (svc *Service) ListBookAuthorLinks(ctx context.Context, authorID int) ([]*models.BookAuthor, error) {
	var links []*models.BookAuthor
	err := svc.db.NewSelect().
		Model(&links).
		Where("bal.author = ?", authorID).
		Order("bal.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return links, nil
}

func (svc *Service) ListBookTagLinks(ctx context.Context, tagID int) ([]*models.BookTag, error) {
	var links []*models.BookTag
	err := svc.db.NewSelect().
		Model(&links).
		Where("btl.tag = ?", tagID).
		Order("btl.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return links, nil
}

func (svc *Service) DeleteBookAuthor(ctx context.Context, id int) error {
	_, err := svc.db.NewDelete().
		Model((*models.BookAuthor)(nil)).
		Where("bal.id = ?", id).
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) DeleteBookTag(ctx context.Context, id int) error {
	_, err := svc.db.NewDelete().
		Model((*models.BookTag)(nil)).
		Where("btl.id = ?", id).
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) DeleteAuthor(ctx context.Context, id int) error {
	_, err := svc.db.NewDelete().
		Model((*models.Author)(nil)).
		Where("a.id = ?", id).
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) DeleteTag(ctx context.Context, id int) error {
	_, err := svc.db.NewDelete().
		Model((*models.Tag)(nil)).
		Where("t.id = ?", id).
		Exec(ctx)
	return errors.WithStack(err)
}

// FindAuthorsByNamePattern matches author names case-insensitively against a
// substring.
func (svc *Service) FindAuthorsByNamePattern(ctx context.Context, pattern string) ([]*models.Author, error) {
	var authors []*models.Author
	err := svc.db.NewSelect().
		Model(&authors).
		Where("LOWER(a.name) LIKE LOWER(?)", "%"+pattern+"%").
		Order("a.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return authors, nil
}

func (svc *Service) FindTagsByNamePattern(ctx context.Context, pattern string) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := svc.db.NewSelect().
		Model(&tags).
		Where("LOWER(t.name) LIKE LOWER(?)", "%"+pattern+"%").
		Order("t.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return tags, nil
}

// RetrieveAuthorByName is a strict lookup used when splitting composite
// names; it does not create.
func (svc *Service) RetrieveAuthorByName(ctx context.Context, name string) (*models.Author, error) {
	author := &models.Author{}
	err := svc.db.NewSelect().Model(author).Where("a.name = ?", name).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Author")
		}
		return nil, errors.WithStack(err)
	}
	return author, nil
}
