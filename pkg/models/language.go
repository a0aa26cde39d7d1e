package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Language struct {
	bun.BaseModel `bun:"table:languages,alias:l"`

	ID        int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	LangCode  string    `bun:",nullzero" json:"lang_code"`
}

type BookLanguage struct {
	bun.BaseModel `bun:"table:books_languages_link,alias:bll"`

	ID         int `bun:",pk,autoincrement" json:"id"`
	BookID     int `bun:"book,nullzero" json:"book_id"`
	LanguageID int `bun:"language,nullzero" json:"language_id"`
}
