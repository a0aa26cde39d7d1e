package calibre

import (
	"github.com/uptrace/bun"
)

// Row types for the subset of Calibre's metadata.db schema that the importer
// reads. Timestamps are kept as raw text: Calibre stores them with a timezone
// suffix that varies between versions, so parsing is left to the caller.

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID           int     `bun:",pk"`
	Title        string  `bun:"title"`
	Sort         *string `bun:"sort"`
	Timestamp    *string `bun:"timestamp"`
	Pubdate      *string `bun:"pubdate"`
	SeriesIndex  float64 `bun:"series_index"`
	AuthorSort   *string `bun:"author_sort"`
	ISBN         *string `bun:"isbn"`
	LCCN         *string `bun:"lccn"`
	Path         string  `bun:"path"`
	Flags        int     `bun:"flags"`
	UUID         *string `bun:"uuid"`
	HasCover     bool    `bun:"has_cover"`
	LastModified string  `bun:"last_modified"`
}

type Author struct {
	bun.BaseModel `bun:"table:authors,alias:a"`

	ID   int     `bun:",pk"`
	Name string  `bun:"name"`
	Sort *string `bun:"sort"`
	Link string  `bun:"link"`
}

type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:t"`

	ID   int    `bun:",pk"`
	Name string `bun:"name"`
}

type Publisher struct {
	bun.BaseModel `bun:"table:publishers,alias:p"`

	ID   int     `bun:",pk"`
	Name string  `bun:"name"`
	Sort *string `bun:"sort"`
}

type Series struct {
	bun.BaseModel `bun:"table:series,alias:s"`

	ID   int    `bun:",pk"`
	Name string `bun:"name"`
}

type Language struct {
	bun.BaseModel `bun:"table:languages,alias:l"`

	ID       int    `bun:",pk"`
	LangCode string `bun:"lang_code"`
}

type Rating struct {
	bun.BaseModel `bun:"table:ratings,alias:r"`

	ID     int `bun:",pk"`
	Rating int `bun:"rating"`
}

type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:c"`

	ID     int    `bun:",pk"`
	BookID int    `bun:"book"`
	Text   string `bun:"text"`
}

type Identifier struct {
	bun.BaseModel `bun:"table:identifiers,alias:i"`

	ID     int    `bun:",pk"`
	BookID int    `bun:"book"`
	Type   string `bun:"type"`
	Value  string `bun:"val"`
}

// Data is one content file of a book; format is uppercase ("EPUB") and name
// has no extension.
type Data struct {
	bun.BaseModel `bun:"table:data,alias:d"`

	ID               int    `bun:",pk"`
	BookID           int    `bun:"book"`
	Format           string `bun:"format"`
	UncompressedSize int64  `bun:"uncompressed_size"`
	Name             string `bun:"name"`
}

type PluginData struct {
	bun.BaseModel `bun:"table:books_plugin_data,alias:bpd"`

	ID     int    `bun:",pk"`
	BookID int    `bun:"book"`
	Name   string `bun:"name"`
	Val    string `bun:"val"`
}
