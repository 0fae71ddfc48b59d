package database

import (
	"database/sql"
	"fmt"

	"github.com/nishant-deshmukh/book-review-api/models"

	_ "github.com/lib/pq"
)

// tabler is implemented by every model that owns a table.
type tabler interface {
	TableName() string
	CreateTableSQL() string
}

// Connect opens a PostgreSQL connection and verifies it with a ping.
// The caller owns the returned handle and is responsible for closing it.
func Connect(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// InitializeTables creates all tables if they don't exist, in foreign key
// dependency order.
func InitializeTables(db *sql.DB) error {
	tables := []tabler{
		models.User{},
		models.Book{},
		models.Review{},
	}

	for _, t := range tables {
		if _, err := db.Exec(t.CreateTableSQL()); err != nil {
			return fmt.Errorf("failed to create table %s: %w", t.TableName(), err)
		}
	}

	return nil
}
