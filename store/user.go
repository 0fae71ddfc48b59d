package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nishant-deshmukh/book-review-api/models"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}

	query := `INSERT INTO users (name, email, password_hash)
	          VALUES ($1, $2, $3)
	          RETURNING id, created_at, updated_at`
	err := s.db.QueryRowContext(ctx, query, name, email, passwordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if uniqueViolation(err) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `SELECT id, name, email, password_hash, created_at, updated_at
	          FROM users WHERE email = $1`
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}
