package models

import (
	"time"

	"github.com/uptrace/bun"
)

type IdentifierType struct {
	bun.BaseModel `bun:"table:identifier_types,alias:it"`

	ID          int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `bun:",nullzero" json:"name"`
	URLTemplate string    `json:"url_template"`
	Description *string   `json:"description"`
}
