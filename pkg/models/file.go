package models

import (
	"time"

	"github.com/uptrace/bun"
)

type File struct {
	bun.BaseModel `bun:"table:files,alias:f"`

	ID        int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	BookID    int       `bun:"book,nullzero" json:"book_id"`
	FormatID  int       `bun:"format,nullzero" json:"format_id"`
	Size      int64     `json:"size"`
	Name      string    `bun:",nullzero" json:"name"`
}
