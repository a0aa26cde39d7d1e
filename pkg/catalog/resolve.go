package catalog

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shukubooks/shuku/pkg/errcodes"
	"github.com/shukubooks/shuku/pkg/models"
)

// Resolve methods return the existing row for a name or create it. A unique
// violation on insert means another writer won the race, so the row is
// re-selected instead of failing.

func (svc *Service) ResolveAuthor(ctx context.Context, name string) (*models.Author, error) {
	author := &models.Author{}
	err := svc.db.NewSelect().Model(author).Where("a.name = ?", name).Limit(1).Scan(ctx)
	if err == nil {
		return author, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}

	now := time.Now()
	author = &models.Author{Name: name, CreatedAt: now, UpdatedAt: now}
	_, err = svc.db.NewInsert().Model(author).Exec(ctx)
	if err == nil {
		return author, nil
	}
	if !errcodes.IsUniqueViolation(err) {
		return nil, errors.WithStack(err)
	}

	author = &models.Author{}
	err = svc.db.NewSelect().Model(author).Where("a.name = ?", name).Limit(1).Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return author, nil
}

func (svc *Service) ResolveTag(ctx context.Context, name string) (*models.Tag, error) {
	tag := &models.Tag{}
	err := svc.db.NewSelect().Model(tag).Where("t.name = ?", name).Limit(1).Scan(ctx)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}

	now := time.Now()
	tag = &models.Tag{Name: name, CreatedAt: now, UpdatedAt: now}
	_, err = svc.db.NewInsert().Model(tag).Exec(ctx)
	if err == nil {
		return tag, nil
	}
	if !errcodes.IsUniqueViolation(err) {
		return nil, errors.WithStack(err)
	}

	tag = &models.Tag{}
	err = svc.db.NewSelect().Model(tag).Where("t.name = ?", name).Limit(1).Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return tag, nil
}

func (svc *Service) ResolvePublisher(ctx context.Context, name string) (*models.Publisher, error) {
	publisher := &models.Publisher{}
	err := svc.db.NewSelect().Model(publisher).Where("pub.name = ?", name).Limit(1).Scan(ctx)
	if err == nil {
		return publisher, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}

	now := time.Now()
	publisher = &models.Publisher{Name: name, CreatedAt: now, UpdatedAt: now}
	_, err = svc.db.NewInsert().Model(publisher).Exec(ctx)
	if err == nil {
		return publisher, nil
	}
	if !errcodes.IsUniqueViolation(err) {
		return nil, errors.WithStack(err)
	}

	publisher = &models.Publisher{}
	err = svc.db.NewSelect().Model(publisher).Where("pub.name = ?", name).Limit(1).Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return publisher, nil
}

func (svc *Service) ResolveSeries(ctx context.Context, name string) (*models.Series, error) {
	series := &models.Series{}
	err := svc.db.NewSelect().Model(series).Where("s.name = ?", name).Limit(1).Scan(ctx)
	if err == nil {
		return series, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}

	now := time.Now()
	series = &models.Series{Name: name, CreatedAt: now, UpdatedAt: now}
	_, err = svc.db.NewInsert().Model(series).Exec(ctx)
	if err == nil {
		return series, nil
	}
	if !errcodes.IsUniqueViolation(err) {
		return nil, errors.WithStack(err)
	}

	series = &models.Series{}
	err = svc.db.NewSelect().Model(series).Where("s.name = ?", name).Limit(1).Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return series, nil
}

func (svc *Service) ResolveLanguage(ctx context.Context, langCode string) (*models.Language, error) {
	language := &models.Language{}
	err := svc.db.NewSelect().Model(language).Where("l.lang_code = ?", langCode).Limit(1).Scan(ctx)
	if err == nil {
		return language, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}

	language = &models.Language{LangCode: langCode, CreatedAt: time.Now()}
	_, err = svc.db.NewInsert().Model(language).Exec(ctx)
	if err == nil {
		return language, nil
	}
	if !errcodes.IsUniqueViolation(err) {
		return nil, errors.WithStack(err)
	}

	language = &models.Language{}
	err = svc.db.NewSelect().Model(language).Where("l.lang_code = ?", langCode).Limit(1).Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return language, nil
}

// ResolveFileFormat normalizes the name to uppercase before lookup so "epub"
// and "EPUB" map to the same row.
func (svc *Service) ResolveFileFormat(ctx context.Context, name string) (*models.FileFormat, error) {
	name = strings.ToUpper(name)

	format := &models.FileFormat{}
	err := svc.db.NewSelect().Model(format).Where("ff.name = ?", name).Limit(1).Scan(ctx)
	if err == nil {
		return format, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}

	now := time.Now()
	format = &models.FileFormat{Name: name, CreatedAt: now, UpdatedAt: now}
	_, err = svc.db.NewInsert().Model(format).Exec(ctx)
	if err == nil {
		return format, nil
	}
	if !errcodes.IsUniqueViolation(err) {
		return nil, errors.WithStack(err)
	}

	format = &models.FileFormat{}
	err = svc.db.NewSelect().Model(format).Where("ff.name = ?", name).Limit(1).Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return format, nil
}

func (svc *Service) ResolveIdentifierType(ctx context.Context, name string) (*models.IdentifierType, error) {
	identifierType := &models.IdentifierType{}
	err := svc.db.NewSelect().Model(identifierType).Where("it.name = ?", name).Limit(1).Scan(ctx)
	if err == nil {
		return identifierType, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}

	now := time.Now()
	identifierType = &models.IdentifierType{Name: name, CreatedAt: now, UpdatedAt: now}
	_, err = svc.db.NewInsert().Model(identifierType).Exec(ctx)
	if err == nil {
		return identifierType, nil
	}
	if !errcodes.IsUniqueViolation(err) {
		return nil, errors.WithStack(err)
	}

	identifierType = &models.IdentifierType{}
	err = svc.db.NewSelect().Model(identifierType).Where("it.name = ?", name).Limit(1).Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return identifierType, nil
}
