package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nishant-deshmukh/book-review-api/models"
)

type ReviewStore struct {
	db *sql.DB
}

func NewReviewStore(db *sql.DB) *ReviewStore {
	return &ReviewStore{db: db}
}

// ReviewUpdate carries a partial review update. CommentProvided distinguishes
// clearing the comment (provided as empty or null) from leaving it unchanged.
type ReviewUpdate struct {
	Rating          *int
	Comment         *string
	CommentProvided bool
}

type ReviewPage struct {
	Total      int
	TotalPages int
	Page       int
	Reviews    []models.ReviewWithUser
}

// Create inserts a review. The one-review-per-user-per-book rule is enforced
// by the store's unique constraint, so concurrent duplicate submissions
// surface as ErrDuplicateReview rather than racing a pre-check.
func (s *ReviewStore) Create(ctx context.Context, bookID, userID int64, rating int, comment *string) (*models.Review, error) {
	review := &models.Review{
		Rating:  rating,
		Comment: comment,
		UserID:  userID,
		BookID:  bookID,
	}

	query := `INSERT INTO reviews (rating, comment, user_id, book_id)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at, updated_at`
	err := s.db.QueryRowContext(ctx, query, rating, comment, userID, bookID).
		Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if uniqueViolation(err) {
		return nil, ErrDuplicateReview
	}
	if foreignKeyViolation(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}

	return review, nil
}

func (s *ReviewStore) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	var review models.Review
	query := `SELECT id, rating, comment, user_id, book_id, created_at, updated_at
	          FROM reviews WHERE id = $1`
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&review.ID, &review.Rating, &review.Comment, &review.UserID, &review.BookID,
		&review.CreatedAt, &review.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}

	return &review, nil
}

// Update applies the provided fields and returns the updated review.
func (s *ReviewStore) Update(ctx context.Context, id int64, upd ReviewUpdate) (*models.Review, error) {
	review, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Rating != nil {
		review.Rating = *upd.Rating
	}
	if upd.CommentProvided {
		if upd.Comment == nil || *upd.Comment == "" {
			review.Comment = nil
		} else {
			review.Comment = upd.Comment
		}
	}

	query := `UPDATE reviews SET rating = $1, comment = $2, updated_at = now()
	          WHERE id = $3
	          RETURNING updated_at`
	err = s.db.QueryRowContext(ctx, query, review.Rating, review.Comment, id).
		Scan(&review.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	return review, nil
}

func (s *ReviewStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// AverageRating returns the book's average rating rounded to two decimal
// places, or 0 when the book has no reviews.
func (s *ReviewStore) AverageRating(ctx context.Context, bookID int64) (float64, error) {
	var avg float64
	query := `SELECT COALESCE(ROUND(AVG(rating)::numeric, 2), 0) FROM reviews WHERE book_id = $1`
	if err := s.db.QueryRowContext(ctx, query, bookID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("average rating: %w", err)
	}

	return avg, nil
}

// ListForBook returns one page of a book's reviews, newest first, each with
// the reviewer's id and name.
func (s *ReviewStore) ListForBook(ctx context.Context, bookID int64, page, limit int) (*ReviewPage, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews WHERE book_id = $1`, bookID).Scan(&total); err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	query := `SELECT r.id, r.rating, r.comment, r.user_id, r.book_id, r.created_at, r.updated_at, u.id, u.name
	          FROM reviews r
	          JOIN users u ON u.id = r.user_id
	          WHERE r.book_id = $1
	          ORDER BY r.created_at DESC, r.id DESC
	          LIMIT $2 OFFSET $3`
	rows, err := s.db.QueryContext(ctx, query, bookID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.ReviewWithUser{}
	for rows.Next() {
		var rv models.ReviewWithUser
		if err := rows.Scan(&rv.ID, &rv.Rating, &rv.Comment, &rv.UserID, &rv.BookID,
			&rv.CreatedAt, &rv.UpdatedAt, &rv.User.ID, &rv.User.Name); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return &ReviewPage{
		Total:      total,
		TotalPages: totalPages(total, limit),
		Page:       page,
		Reviews:    reviews,
	}, nil
}
