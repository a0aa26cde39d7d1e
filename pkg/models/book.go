package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID         int        `bun:",pk,autoincrement" json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Title      string     `bun:",nullzero" json:"title"`
	Sort       string     `json:"sort"`
	AuthorSort string     `json:"author_sort"`
	Path       string     `bun:",nullzero" json:"path"`
	UUID       string     `json:"uuid"`
	HasCover   bool       `json:"has_cover"`
	Pubdate    *time.Time `json:"pubdate"`
}
