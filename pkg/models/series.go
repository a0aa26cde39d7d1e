package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Series struct {
	bun.BaseModel `bun:"table:series,alias:s"`

	ID        int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `bun:",nullzero" json:"name"`
}

type BookSeries struct {
	bun.BaseModel `bun:"table:books_series_link,alias:bsl"`

	ID       int `bun:",pk,autoincrement" json:"id"`
	BookID   int `bun:"book,nullzero" json:"book_id"`
	SeriesID int `bun:"series,nullzero" json:"series_id"`
}
