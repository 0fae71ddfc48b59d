package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/nishant-deshmukh/book-review-api/models"
)

const bookColumns = `id, title, author, genre, description, created_at, updated_at`

type BookStore struct {
	db *sql.DB
}

func NewBookStore(db *sql.DB) *BookStore {
	return &BookStore{db: db}
}

// BookFilters are optional equality filters for book listings.
type BookFilters struct {
	Author string
	Genre  string
}

// where builds the WHERE clause and its arguments for the active filters.
func (f BookFilters) where() (string, []interface{}) {
	clause := ""
	args := []interface{}{}
	if f.Author != "" {
		args = append(args, f.Author)
		clause += fmt.Sprintf(" AND author = $%d", len(args))
	}
	if f.Genre != "" {
		args = append(args, f.Genre)
		clause += fmt.Sprintf(" AND genre = $%d", len(args))
	}
	if clause == "" {
		return "", args
	}
	return " WHERE" + clause[4:], args
}

// BookUpdate carries a partial update. Nil fields keep their current value;
// genre and description provided as empty strings are cleared.
type BookUpdate struct {
	Title       *string
	Author      *string
	Genre       *string
	Description *string
}

type BookPage struct {
	Total      int
	TotalPages int
	Page       int
	Books      []models.Book
}

type BookReviewPage struct {
	Total      int
	TotalPages int
	Page       int
	Books      []models.BookWithReviews
}

func (s *BookStore) Create(ctx context.Context, title, author string, genre, description *string) (*models.Book, error) {
	book := &models.Book{
		Title:       title,
		Author:      author,
		Genre:       genre,
		Description: description,
	}

	query := `INSERT INTO books (title, author, genre, description)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at, updated_at`
	err := s.db.QueryRowContext(ctx, query, title, author, genre, description).
		Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}

	return book, nil
}

// Search returns all books whose title or author contains term,
// case-insensitively. Results are not paginated.
func (s *BookStore) Search(ctx context.Context, term string) ([]models.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books
	          WHERE title ILIKE '%' || $1 || '%' OR author ILIKE '%' || $1 || '%'
	          ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, term)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	defer rows.Close()

	return scanBooks(rows)
}

// List returns one page of books in insertion order, with the total count
// and page arithmetic.
func (s *BookStore) List(ctx context.Context, page, limit int, filters BookFilters) (*BookPage, error) {
	where, args := filters.where()

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	query := fmt.Sprintf(`SELECT `+bookColumns+` FROM books%s ORDER BY id LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	rows, err := s.db.QueryContext(ctx, query, append(args, limit, (page-1)*limit)...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books, err := scanBooks(rows)
	if err != nil {
		return nil, err
	}

	return &BookPage{
		Total:      total,
		TotalPages: totalPages(total, limit),
		Page:       page,
		Books:      books,
	}, nil
}

// ListWithReviews returns one page of books ordered by creation descending,
// each with its reviews and the reviewer's id and name.
func (s *BookStore) ListWithReviews(ctx context.Context, page, limit int, filters BookFilters) (*BookReviewPage, error) {
	where, args := filters.where()

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	query := fmt.Sprintf(`SELECT `+bookColumns+` FROM books%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	rows, err := s.db.QueryContext(ctx, query, append(args, limit, (page-1)*limit)...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books, err := scanBooks(rows)
	if err != nil {
		return nil, err
	}

	result := make([]models.BookWithReviews, len(books))
	ids := make([]int64, len(books))
	byID := make(map[int64]*models.BookWithReviews, len(books))
	for i, b := range books {
		result[i] = models.BookWithReviews{Book: b, Reviews: []models.ReviewWithUser{}}
		ids[i] = b.ID
		byID[b.ID] = &result[i]
	}

	if len(ids) > 0 {
		reviewQuery := `SELECT r.id, r.rating, r.comment, r.user_id, r.book_id, r.created_at, r.updated_at, u.id, u.name
		                FROM reviews r
		                JOIN users u ON u.id = r.user_id
		                WHERE r.book_id = ANY($1)
		                ORDER BY r.created_at DESC, r.id DESC`
		reviewRows, err := s.db.QueryContext(ctx, reviewQuery, pq.Array(ids))
		if err != nil {
			return nil, fmt.Errorf("list reviews for books: %w", err)
		}
		defer reviewRows.Close()

		for reviewRows.Next() {
			var rv models.ReviewWithUser
			if err := reviewRows.Scan(&rv.ID, &rv.Rating, &rv.Comment, &rv.UserID, &rv.BookID,
				&rv.CreatedAt, &rv.UpdatedAt, &rv.User.ID, &rv.User.Name); err != nil {
				return nil, fmt.Errorf("scan review: %w", err)
			}
			if b, ok := byID[rv.BookID]; ok {
				b.Reviews = append(b.Reviews, rv)
			}
		}
		if err := reviewRows.Err(); err != nil {
			return nil, fmt.Errorf("list reviews for books: %w", err)
		}
	}

	return &BookReviewPage{
		Total:      total,
		TotalPages: totalPages(total, limit),
		Page:       page,
		Books:      result,
	}, nil
}

func (s *BookStore) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var book models.Book
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&book.ID, &book.Title, &book.Author, &book.Genre, &book.Description,
		&book.CreatedAt, &book.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	return &book, nil
}

// Update applies the non-nil fields of upd and returns the updated book.
func (s *BookStore) Update(ctx context.Context, id int64, upd BookUpdate) (*models.Book, error) {
	book, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		book.Title = *upd.Title
	}
	if upd.Author != nil {
		book.Author = *upd.Author
	}
	if upd.Genre != nil {
		if *upd.Genre == "" {
			book.Genre = nil
		} else {
			book.Genre = upd.Genre
		}
	}
	if upd.Description != nil {
		if *upd.Description == "" {
			book.Description = nil
		} else {
			book.Description = upd.Description
		}
	}

	query := `UPDATE books SET title = $1, author = $2, genre = $3, description = $4, updated_at = now()
	          WHERE id = $5
	          RETURNING updated_at`
	err = s.db.QueryRowContext(ctx, query, book.Title, book.Author, book.Genre, book.Description, id).
		Scan(&book.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	return book, nil
}

func (s *BookStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func scanBooks(rows *sql.Rows) ([]models.Book, error) {
	books := []models.Book{}
	for rows.Next() {
		var book models.Book
		if err := rows.Scan(&book.ID, &book.Title, &book.Author, &book.Genre,
			&book.Description, &book.CreatedAt, &book.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}
