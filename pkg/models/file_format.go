package models

import (
	"time"

	"github.com/uptrace/bun"
)

// FileFormat names are stored uppercase ("EPUB"); the filesystem layout uses
// the lowercase form as the file extension.
type FileFormat struct {
	bun.BaseModel `bun:"table:file_formats,alias:ff"`

	ID        int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `bun:",nullzero" json:"name"`
}
