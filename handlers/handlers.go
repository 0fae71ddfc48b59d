// Package handlers translates HTTP requests into store calls and maps
// results and errors to JSON responses. Errors always render as {"msg": ...}.
package handlers

import (
	"context"

	"github.com/nishant-deshmukh/book-review-api/models"
	"github.com/nishant-deshmukh/book-review-api/store"
)

// BookStore is the book facade the handlers depend on.
type BookStore interface {
	Create(ctx context.Context, title, author string, genre, description *string) (*models.Book, error)
	Search(ctx context.Context, term string) ([]models.Book, error)
	List(ctx context.Context, page, limit int, filters store.BookFilters) (*store.BookPage, error)
	ListWithReviews(ctx context.Context, page, limit int, filters store.BookFilters) (*store.BookReviewPage, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Update(ctx context.Context, id int64, upd store.BookUpdate) (*models.Book, error)
	Delete(ctx context.Context, id int64) error
}

// ReviewStore is the review facade the handlers depend on.
type ReviewStore interface {
	Create(ctx context.Context, bookID, userID int64, rating int, comment *string) (*models.Review, error)
	GetByID(ctx context.Context, id int64) (*models.Review, error)
	Update(ctx context.Context, id int64, upd store.ReviewUpdate) (*models.Review, error)
	Delete(ctx context.Context, id int64) error
	AverageRating(ctx context.Context, bookID int64) (float64, error)
	ListForBook(ctx context.Context, bookID int64, page, limit int) (*store.ReviewPage, error)
}

// UserStore is the user facade the auth handlers depend on.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
