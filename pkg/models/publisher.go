package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Publisher struct {
	bun.BaseModel `bun:"table:publishers,alias:pub"`

	ID        int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `bun:",nullzero" json:"name"`
}

type BookPublisher struct {
	bun.BaseModel `bun:"table:books_publishers_link,alias:bpl"`

	ID          int `bun:",pk,autoincrement" json:"id"`
	BookID      int `bun:"book,nullzero" json:"book_id"`
	PublisherID int `bun:"publisher,nullzero" json:"publisher_id"`
}
