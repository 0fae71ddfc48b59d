package models

import "time"

type Review struct {
	ID        int64     `json:"id" db:"id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   *string   `json:"comment" db:"comment"`
	UserID    int64     `json:"userId" db:"user_id"`
	BookID    int64     `json:"bookId" db:"book_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ReviewUser is the slice of the users table exposed alongside a review.
type ReviewUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ReviewWithUser struct {
	Review
	User ReviewUser `json:"user"`
}

func (Review) TableName() string {
	return "reviews"
}

// The UNIQUE(user_id, book_id) constraint enforces one review per user per
// book at the store level; duplicate inserts surface as a unique violation.
func (Review) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS reviews (
		id BIGSERIAL PRIMARY KEY,
		rating SMALLINT NOT NULL CHECK (rating >= 1 AND rating <= 5),
		comment TEXT,
		user_id BIGINT NOT NULL REFERENCES users(id),
		book_id BIGINT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		UNIQUE (user_id, book_id)
	);`
}
