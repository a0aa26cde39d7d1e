package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Rating struct {
	bun.BaseModel `bun:"table:ratings,alias:r"`

	ID        int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	BookID    int       `bun:"book,nullzero" json:"book_id"`
	Rating    int       `json:"rating"`
}
