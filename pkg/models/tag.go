package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:t"`

	ID         int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	OrderIndex int       `json:"order_index"`
	Name       string    `bun:",nullzero" json:"name"`
	Parent     int       `json:"parent"`
	BookCount  int       `bun:",scanonly" json:"book_count"`
}

type BookTag struct {
	bun.BaseModel `bun:"table:books_tags_link,alias:btl"`

	ID     int  `bun:",pk,autoincrement" json:"id"`
	BookID int  `bun:"book,nullzero" json:"book_id"`
	TagID  int  `bun:"tag,nullzero" json:"tag_id"`
	Tag    *Tag `bun:"rel:belongs-to,join:tag=id" json:"tag,omitempty"`
}
