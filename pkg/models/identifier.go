package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Identifier struct {
	bun.BaseModel `bun:"table:identifiers,alias:i"`

	ID        int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	BookID    int       `bun:"book,nullzero" json:"book_id"`
	SchemeID  int       `bun:"scheme,nullzero" json:"scheme_id"`
	Value     string    `bun:",nullzero" json:"value"`
	URL       *string   `json:"url"`
}
