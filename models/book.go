package models

import "time"

type Book struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Author      string    `json:"author" db:"author"`
	Genre       *string   `json:"genre" db:"genre"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// BookWithReviews is the shape returned by the books-with-reviews listing:
// a book plus its reviews, each carrying the reviewer's id and name.
type BookWithReviews struct {
	Book
	Reviews []ReviewWithUser `json:"reviews"`
}

func (Book) TableName() string {
	return "books"
}

func (Book) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS books (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		genre TEXT,
		description TEXT,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);`
}
