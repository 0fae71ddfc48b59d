package handlers

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/nishant-deshmukh/book-review-api/models"
	"github.com/nishant-deshmukh/book-review-api/store"
)

// In-memory stores backing the handler tests. They mirror the real facades'
// observable behavior: insertion-order listings, ceil pagination, the
// one-review-per-user-per-book rule and two-decimal average rounding.

type fakeBookStore struct {
	books  []models.Book
	nextID int64
	err    error
}

func (f *fakeBookStore) Create(_ context.Context, title, author string, genre, description *string) (*models.Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	now := time.Now()
	book := models.Book{
		ID: f.nextID, Title: title, Author: author,
		Genre: genre, Description: description,
		CreatedAt: now, UpdatedAt: now,
	}
	f.books = append(f.books, book)
	return &book, nil
}

func (f *fakeBookStore) Search(_ context.Context, term string) ([]models.Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	matches := []models.Book{}
	term = strings.ToLower(term)
	for _, b := range f.books {
		if strings.Contains(strings.ToLower(b.Title), term) || strings.Contains(strings.ToLower(b.Author), term) {
			matches = append(matches, b)
		}
	}
	return matches, nil
}

func (f *fakeBookStore) filtered(filters store.BookFilters) []models.Book {
	matches := []models.Book{}
	for _, b := range f.books {
		if filters.Author != "" && b.Author != filters.Author {
			continue
		}
		if filters.Genre != "" && (b.Genre == nil || *b.Genre != filters.Genre) {
			continue
		}
		matches = append(matches, b)
	}
	return matches
}

func pageWindow(total, page, limit int) (start, end int) {
	start = (page - 1) * limit
	if start > total {
		start = total
	}
	end = start + limit
	if end > total {
		end = total
	}
	return start, end
}

func ceilPages(total, limit int) int {
	if total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func (f *fakeBookStore) List(_ context.Context, page, limit int, filters store.BookFilters) (*store.BookPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	matches := f.filtered(filters)
	start, end := pageWindow(len(matches), page, limit)
	return &store.BookPage{
		Total:      len(matches),
		TotalPages: ceilPages(len(matches), limit),
		Page:       page,
		Books:      matches[start:end],
	}, nil
}

func (f *fakeBookStore) ListWithReviews(_ context.Context, page, limit int, filters store.BookFilters) (*store.BookReviewPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	matches := f.filtered(filters)
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })
	start, end := pageWindow(len(matches), page, limit)
	books := make([]models.BookWithReviews, 0, end-start)
	for _, b := range matches[start:end] {
		books = append(books, models.BookWithReviews{Book: b, Reviews: []models.ReviewWithUser{}})
	}
	return &store.BookReviewPage{
		Total:      len(matches),
		TotalPages: ceilPages(len(matches), limit),
		Page:       page,
		Books:      books,
	}, nil
}

func (f *fakeBookStore) GetByID(_ context.Context, id int64) (*models.Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.books {
		if f.books[i].ID == id {
			return &f.books[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeBookStore) Update(ctx context.Context, id int64, upd store.BookUpdate) (*models.Book, error) {
	book, err := f.GetByID(ctx, id)
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
		book.Genre = upd.Genre
	}
	if upd.Description != nil {
		book.Description = upd.Description
	}
	return book, nil
}

func (f *fakeBookStore) Delete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.books {
		if f.books[i].ID == id {
			f.books = append(f.books[:i], f.books[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeReviewStore struct {
	reviews []models.Review
	users   map[int64]string
	nextID  int64
	err     error
}

func (f *fakeReviewStore) Create(_ context.Context, bookID, userID int64, rating int, comment *string) (*models.Review, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.reviews {
		if r.BookID == bookID && r.UserID == userID {
			return nil, store.ErrDuplicateReview
		}
	}
	f.nextID++
	now := time.Now()
	review := models.Review{
		ID: f.nextID, Rating: rating, Comment: comment,
		UserID: userID, BookID: bookID,
		CreatedAt: now, UpdatedAt: now,
	}
	f.reviews = append(f.reviews, review)
	return &review, nil
}

func (f *fakeReviewStore) GetByID(_ context.Context, id int64) (*models.Review, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.reviews {
		if f.reviews[i].ID == id {
			return &f.reviews[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeReviewStore) Update(ctx context.Context, id int64, upd store.ReviewUpdate) (*models.Review, error) {
	review, err := f.GetByID(ctx, id)
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
	return review, nil
}

func (f *fakeReviewStore) Delete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.reviews {
		if f.reviews[i].ID == id {
			f.reviews = append(f.reviews[:i], f.reviews[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeReviewStore) AverageRating(_ context.Context, bookID int64) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	sum, count := 0, 0
	for _, r := range f.reviews {
		if r.BookID == bookID {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return math.Round(float64(sum)/float64(count)*100) / 100, nil
}

func (f *fakeReviewStore) ListForBook(_ context.Context, bookID int64, page, limit int) (*store.ReviewPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	matches := []models.ReviewWithUser{}
	for _, r := range f.reviews {
		if r.BookID != bookID {
			continue
		}
		matches = append(matches, models.ReviewWithUser{
			Review: r,
			User:   models.ReviewUser{ID: r.UserID, Name: f.users[r.UserID]},
		})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })
	start, end := pageWindow(len(matches), page, limit)
	return &store.ReviewPage{
		Total:      len(matches),
		TotalPages: ceilPages(len(matches), limit),
		Page:       page,
		Reviews:    matches[start:end],
	}, nil
}

type fakeUserStore struct {
	users  []models.User
	nextID int64
	err    error
}

func (f *fakeUserStore) Create(_ context.Context, name, email, passwordHash string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			return nil, store.ErrDuplicateEmail
		}
	}
	f.nextID++
	now := time.Now()
	user := models.User{
		ID: f.nextID, Name: name, Email: email, PasswordHash: passwordHash,
		CreatedAt: now, UpdatedAt: now,
	}
	f.users = append(f.users, user)
	return &user, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if f.users[i].Email == email {
			return &f.users[i], nil
		}
	}
	return nil, store.ErrNotFound
}
