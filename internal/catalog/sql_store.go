package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"bookhub/pkg/models"
)

// SQLStore keeps the catalog in the sqlite books table. Row position holds
// insertion order, so duplicate ids survive a round trip.
type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db}
}

func (s *SQLStore) Load() ([]models.Book, error) {
	return s.LoadContext(context.Background())
}

func (s *SQLStore) Save(books []models.Book) error {
	return s.SaveContext(context.Background(), books)
}

func (s *SQLStore) LoadContext(ctx context.Context) ([]models.Book, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, title, author, category, year, is_borrowed, due_date
		FROM books
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var out []models.Book
	for rows.Next() {
		var (
			b   models.Book
			due sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Category, &b.Year, &b.IsBorrowed, &due); err != nil {
			return nil, fmt.Errorf("scan book row: %w", err)
		}
		if due.Valid {
			d, err := models.ParseDate(due.String)
			if err != nil {
				return nil, fmt.Errorf("book %s: %w", b.ID, err)
			}
			b.DueDate = &d
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// SaveContext replaces every row in a single transaction.
func (s *SQLStore) SaveContext(ctx context.Context, books []models.Book) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM books`); err != nil {
		return fmt.Errorf("clear books: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO books (position, id, title, author, category, year, is_borrowed, due_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for i, b := range books {
		var due sql.NullString
		if b.DueDate != nil {
			due = sql.NullString{String: b.DueDateString(), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, i, b.ID, b.Title, b.Author, b.Category, b.Year, b.IsBorrowed, due); err != nil {
			return fmt.Errorf("insert book %s: %w", b.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
