package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Category is a tree of subject classifications imported separately from the
// book ingest pipeline.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	ID           int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	OrderIndex   int       `json:"order_index"`
	SerialNumber string    `bun:",nullzero" json:"serial_number"`
	Name         string    `bun:",nullzero" json:"name"`
	URL          string    `json:"url"`
	Description  *string   `json:"description"`
	Parent       int       `json:"parent"`
}
