package models

import (
	"errors"
	"fmt"
	"time"
)

// DefaultLoanDays is how long a borrowed book may be kept.
const DefaultLoanDays = 14

// DateLayout is the on-disk and display form of a due date.
const DateLayout = "2006-01-02"

var (
	ErrAlreadyBorrowed = errors.New("book is already borrowed")
	ErrNotBorrowed     = errors.New("book was not borrowed")
)

// Book is a single catalog record. DueDate is set if and only if IsBorrowed.
type Book struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	Category   string     `json:"category"`
	Year       int        `json:"year"`
	IsBorrowed bool       `json:"is_borrowed"`
	DueDate    *time.Time `json:"due_date,omitempty"`
}

func NewBook(id, title, author, category string, year int) Book {
	return Book{
		ID:       id,
		Title:    title,
		Author:   author,
		Category: category,
		Year:     year,
	}
}

// Borrow marks the book as borrowed with a due date loanDays after the
// calendar day of now. A borrowed book is left untouched.
func (b *Book) Borrow(now time.Time, loanDays int) (time.Time, error) {
	if b.IsBorrowed {
		return time.Time{}, ErrAlreadyBorrowed
	}
	due := Date(now).AddDate(0, 0, loanDays)
	b.IsBorrowed = true
	b.DueDate = &due
	return due, nil
}

func (b *Book) Return() error {
	if !b.IsBorrowed {
		return ErrNotBorrowed
	}
	b.IsBorrowed = false
	b.DueDate = nil
	return nil
}

// DueDateString returns the due date as YYYY-MM-DD, or "" when available.
func (b Book) DueDateString() string {
	if b.DueDate == nil {
		return ""
	}
	return b.DueDate.Format(DateLayout)
}

func (b Book) String() string {
	status := "Available"
	if b.IsBorrowed {
		status = fmt.Sprintf("Borrowed (Due: %s)", b.DueDateString())
	}
	return fmt.Sprintf("ID: %s | %s by %s | %s | Year: %d | %s",
		b.ID, b.Title, b.Author, b.Category, b.Year, status)
}

// Date truncates t to its calendar day at midnight UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD due date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
