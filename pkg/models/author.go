package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Author struct {
	bun.BaseModel `bun:"table:authors,alias:a"`

	ID        int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `bun:",nullzero" json:"name"`
	Link      string    `json:"link"`
	BookCount int       `bun:",scanonly" json:"book_count"`
}

type BookAuthor struct {
	bun.BaseModel `bun:"table:books_authors_link,alias:bal"`

	ID       int     `bun:",pk,autoincrement" json:"id"`
	BookID   int     `bun:"book,nullzero" json:"book_id"`
	AuthorID int     `bun:"author,nullzero" json:"author_id"`
	Author   *Author `bun:"rel:belongs-to,join:author=id" json:"author,omitempty"`
}
