// Package importer walks a Calibre library and ingests every book into the
// canonical catalog.
package importer

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shukubooks/shuku/pkg/calibre"
	"github.com/shukubooks/shuku/pkg/catalog"
	"github.com/shukubooks/shuku/pkg/covers"
	"github.com/shukubooks/shuku/pkg/errcodes"
	"github.com/shukubooks/shuku/pkg/fileutils"
	"github.com/shukubooks/shuku/pkg/models"
	"github.com/shukubooks/shuku/pkg/sortname"
)

const (
	coverFilename    = "cover.jpg"
	metadataFilename = "metadata.opf"
)

type Ingestor struct {
	source      *calibre.Reader
	catalog     *catalog.Service
	transcoder  *covers.Transcoder
	calibreRoot string
	libraryRoot string
	opts        Options
}

func NewIngestor(source *calibre.Reader, cat *catalog.Service, transcoder *covers.Transcoder, calibreRoot, libraryRoot string, opts Options) *Ingestor {
	return &Ingestor{
		source:      source,
		catalog:     cat,
		transcoder:  transcoder,
		calibreRoot: calibreRoot,
		libraryRoot: libraryRoot,
		opts:        opts,
	}
}

// Run iterates the source catalog by ascending book id. A failed book is
// logged and the run continues; cancellation is honored between books.
func (i *Ingestor) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	lastID := 0
	for {
		select {
		case <-ctx.Done():
			return errors.WithStack(ctx.Err())
		default:
		}

		srcBook, err := i.source.NextBook(ctx, lastID)
		if err != nil {
			if errcodes.IsNotFound(err) {
				log.Info("all books imported", logger.Data{"last_book_id": lastID})
				return nil
			}
			return err
		}
		lastID = srcBook.ID

		if err := i.IngestBook(ctx, srcBook); err != nil {
			log.Err(err).Warn("failed to import book", logger.Data{
				"calibre_book_id": srcBook.ID,
				"title":           srcBook.Title,
			})
		}
	}
}

// IngestBook imports one source book: the catalog row, its cover and OPF,
// every content file, then the metadata link rows. Cover and OPF problems
// only warn; a failed content file copy aborts the book.
func (i *Ingestor) IngestBook(ctx context.Context, srcBook *calibre.Book) error {
	log := logger.FromContext(ctx).Data(logger.Data{"calibre_book_id": srcBook.ID})
	ctx = log.WithContext(ctx)

	uuid := ""
	if srcBook.UUID != nil {
		uuid = *srcBook.UUID
	}

	if !i.opts.AllowDuplication && uuid != "" {
		existing, err := i.catalog.RetrieveBookByUUID(ctx, uuid)
		if err == nil {
			log.Info("book already imported", logger.Data{"book_id": existing.ID, "uuid": uuid})
			return nil
		}
		if !errcodes.IsNotFound(err) {
			return err
		}
	}

	authorSort, err := i.authorSortKey(ctx, srcBook)
	if err != nil {
		return err
	}

	book := &models.Book{
		Title:      srcBook.Title,
		Sort:       sortKey(srcBook),
		AuthorSort: authorSort,
		Path:       srcBook.Path,
		UUID:       uuid,
		HasCover:   srcBook.HasCover,
		Pubdate:    parseSourceTime(srcBook.Pubdate),
	}
	if err := i.catalog.CreateBook(ctx, book); err != nil {
		return err
	}
	log.Info("created book", logger.Data{"book_id": book.ID, "title": book.Title})

	if err := i.copyCover(ctx, srcBook, book); err != nil {
		log.Err(err).Warn("failed to copy book cover")
	}
	if err := i.copyMetadataOpf(ctx, srcBook, book); err != nil {
		log.Err(err).Warn("failed to copy metadata.opf")
	}

	if err := i.copyContentFiles(ctx, srcBook, book); err != nil {
		return err
	}

	return i.importDetails(ctx, srcBook.ID, book.ID)
}

func sortKey(srcBook *calibre.Book) string {
	if srcBook.Sort != nil && *srcBook.Sort != "" {
		return *srcBook.Sort
	}
	return sortname.ForTitle(srcBook.Title)
}

// authorSortKey prefers the source row's author_sort; when it is empty the
// key is derived from the book's authors, joined the way Calibre does.
func (i *Ingestor) authorSortKey(ctx context.Context, srcBook *calibre.Book) (string, error) {
	if srcBook.AuthorSort != nil && *srcBook.AuthorSort != "" {
		return *srcBook.AuthorSort, nil
	}

	srcAuthors, err := i.source.BookAuthors(ctx, srcBook.ID)
	if err != nil {
		return "", err
	}

	keys := make([]string, 0, len(srcAuthors))
	for _, srcAuthor := range srcAuthors {
		if srcAuthor.Sort != nil && *srcAuthor.Sort != "" {
			keys = append(keys, *srcAuthor.Sort)
			continue
		}
		keys = append(keys, sortname.ForPerson(srcAuthor.Name))
	}
	return strings.Join(keys, " & "), nil
}

// parseSourceTime handles the timestamp shapes Calibre has used over the
// years. An unparseable value imports as nil rather than failing the book.
func parseSourceTime(value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	layouts := []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05-07:00",
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, *value); err == nil {
			return &t
		}
	}
	return nil
}

// transferFile stages the destination directory, applies the configured file
// action, and fixes ownership.
func (i *Ingestor) transferFile(src, dst string) error {
	if i.opts.FileAction == FileActionDoNothing {
		return nil
	}

	if err := fileutils.CreateDirAllAndChown(filepath.Dir(dst), 0755, i.opts.UID, i.opts.GID); err != nil {
		return err
	}

	if i.opts.FileAction == FileActionMove {
		if err := fileutils.MoveFile(src, dst); err != nil {
			return err
		}
	} else {
		if err := fileutils.CopyFile(src, dst); err != nil {
			return err
		}
	}

	return fileutils.Chown(dst, i.opts.UID, i.opts.GID)
}

func (i *Ingestor) copyCover(ctx context.Context, srcBook *calibre.Book, book *models.Book) error {
	src, err := fileutils.BookMetadataPath(i.calibreRoot, srcBook.Path, coverFilename)
	if err != nil {
		return err
	}
	dst, err := fileutils.BookMetadataPath(i.libraryRoot, book.Path, coverFilename)
	if err != nil {
		return err
	}

	if err := i.transferFile(src, dst); err != nil {
		return err
	}
	if i.opts.FileAction == FileActionDoNothing {
		return nil
	}

	primary, thumbnail, err := i.transcoder.ConvertCover(ctx, dst)
	if err != nil {
		return err
	}
	if err := fileutils.Chown(primary, i.opts.UID, i.opts.GID); err != nil {
		return err
	}
	return fileutils.Chown(thumbnail, i.opts.UID, i.opts.GID)
}

func (i *Ingestor) copyMetadataOpf(ctx context.Context, srcBook *calibre.Book, book *models.Book) error {
	src, err := fileutils.BookMetadataPath(i.calibreRoot, srcBook.Path, metadataFilename)
	if err != nil {
		return err
	}
	dst, err := fileutils.BookMetadataPath(i.libraryRoot, book.Path, metadataFilename)
	if err != nil {
		return err
	}
	return i.transferFile(src, dst)
}

func (i *Ingestor) copyContentFiles(ctx context.Context, srcBook *calibre.Book, book *models.Book) error {
	log := logger.FromContext(ctx)

	srcFiles, err := i.source.BookFiles(ctx, srcBook.ID)
	if err != nil {
		return err
	}
	log.Info("copying book files", logger.Data{"count": len(srcFiles)})

	for _, srcFile := range srcFiles {
		format, err := i.catalog.ResolveFileFormat(ctx, srcFile.Format)
		if err != nil {
			return err
		}

		src, err := fileutils.BookFilePath(i.calibreRoot, srcBook.Path, srcFile.Name, srcFile.Format)
		if err != nil {
			return err
		}
		dst, err := fileutils.BookFilePath(i.libraryRoot, book.Path, srcFile.Name, srcFile.Format)
		if err != nil {
			return err
		}
		if err := i.transferFile(src, dst); err != nil {
			return err
		}

		file := &models.File{
			BookID:   book.ID,
			FormatID: format.ID,
			Size:     srcFile.UncompressedSize,
			Name:     srcFile.Name,
		}
		if err := i.catalog.AddFile(ctx, file); err != nil {
			return err
		}
	}

	return nil
}

// importDetails writes the link rows. The order matches the rest of the
// pipeline's expectations: authors, comment, identifiers, language,
// publisher, series, rating, tags.
func (i *Ingestor) importDetails(ctx context.Context, calibreBookID, bookID int) error {
	if err := i.importAuthors(ctx, calibreBookID, bookID); err != nil {
		return err
	}
	if err := i.importComment(ctx, calibreBookID, bookID); err != nil {
		return err
	}
	if err := i.importIdentifiers(ctx, calibreBookID, bookID); err != nil {
		return err
	}
	if err := i.importLanguage(ctx, calibreBookID, bookID); err != nil {
		return err
	}
	if err := i.importPublisher(ctx, calibreBookID, bookID); err != nil {
		return err
	}
	if err := i.importSeries(ctx, calibreBookID, bookID); err != nil {
		return err
	}
	if err := i.importRating(ctx, calibreBookID, bookID); err != nil {
		return err
	}
	return i.importTags(ctx, calibreBookID, bookID)
}

func (i *Ingestor) importAuthors(ctx context.Context, calibreBookID, bookID int) error {
	srcAuthors, err := i.source.BookAuthors(ctx, calibreBookID)
	if err != nil {
		return err
	}
	for _, srcAuthor := range srcAuthors {
		author, err := i.catalog.ResolveAuthor(ctx, srcAuthor.Name)
		if err != nil {
			return err
		}
		if err := i.catalog.AddBookAuthor(ctx, bookID, author.ID); err != nil {
			return err
		}
	}
	return nil
}

func (i *Ingestor) importComment(ctx context.Context, calibreBookID, bookID int) error {
	srcComment, err := i.source.BookComment(ctx, calibreBookID)
	if err != nil {
		if errcodes.IsNotFound(err) {
			logger.FromContext(ctx).Info("no comment found for book")
			return nil
		}
		return err
	}
	return i.catalog.AddComment(ctx, bookID, srcComment.Text)
}

func (i *Ingestor) importIdentifiers(ctx context.Context, calibreBookID, bookID int) error {
	srcIdentifiers, err := i.source.BookIdentifiers(ctx, calibreBookID)
	if err != nil {
		return err
	}
	for _, srcIdentifier := range srcIdentifiers {
		identifierType, err := i.catalog.ResolveIdentifierType(ctx, srcIdentifier.Type)
		if err != nil {
			return err
		}
		identifier := &models.Identifier{
			BookID:   bookID,
			SchemeID: identifierType.ID,
			Value:    srcIdentifier.Value,
		}
		if err := i.catalog.AddIdentifier(ctx, identifier); err != nil {
			return err
		}
	}
	return nil
}

func (i *Ingestor) importLanguage(ctx context.Context, calibreBookID, bookID int) error {
	srcLanguage, err := i.source.BookLanguage(ctx, calibreBookID)
	if err != nil {
		if errcodes.IsNotFound(err) {
			logger.FromContext(ctx).Info("no language found for book")
			return nil
		}
		return err
	}
	language, err := i.catalog.ResolveLanguage(ctx, srcLanguage.LangCode)
	if err != nil {
		return err
	}
	return i.catalog.AddBookLanguage(ctx, bookID, language.ID)
}

func (i *Ingestor) importPublisher(ctx context.Context, calibreBookID, bookID int) error {
	srcPublisher, err := i.source.BookPublisher(ctx, calibreBookID)
	if err != nil {
		if errcodes.IsNotFound(err) {
			logger.FromContext(ctx).Info("no publisher found for book")
			return nil
		}
		return err
	}
	publisher, err := i.catalog.ResolvePublisher(ctx, srcPublisher.Name)
	if err != nil {
		return err
	}
	return i.catalog.AddBookPublisher(ctx, bookID, publisher.ID)
}

func (i *Ingestor) importSeries(ctx context.Context, calibreBookID, bookID int) error {
	srcSeries, err := i.source.BookSeries(ctx, calibreBookID)
	if err != nil {
		if errcodes.IsNotFound(err) {
			logger.FromContext(ctx).Info("no series found for book")
			return nil
		}
		return err
	}
	series, err := i.catalog.ResolveSeries(ctx, srcSeries.Name)
	if err != nil {
		return err
	}
	return i.catalog.AddBookSeries(ctx, bookID, series.ID)
}

func (i *Ingestor) importRating(ctx context.Context, calibreBookID, bookID int) error {
	srcRating, err := i.source.BookRating(ctx, calibreBookID)
	if err != nil {
		if errcodes.IsNotFound(err) {
			return nil
		}
		return err
	}
	return i.catalog.AddRating(ctx, bookID, srcRating.Rating)
}

func (i *Ingestor) importTags(ctx context.Context, calibreBookID, bookID int) error {
	srcTags, err := i.source.BookTags(ctx, calibreBookID)
	if err != nil {
		return err
	}
	for _, srcTag := range srcTags {
		tag, err := i.catalog.ResolveTag(ctx, srcTag.Name)
		if err != nil {
			return err
		}
		if err := i.catalog.AddBookTag(ctx, bookID, tag.ID); err != nil {
			return err
		}
	}
	return nil
}
