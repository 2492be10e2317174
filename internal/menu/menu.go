// Package menu implements the interactive numbered menu that drives a catalog
// from a line-oriented input stream.
package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"bookhub/internal/catalog"
	"bookhub/pkg/models"
)

// ErrInputClosed is returned by Run when input ends before Exit is chosen.
var ErrInputClosed = errors.New("input closed")

const (
	optAdd = iota + 1
	optView
	optSearch
	optBorrow
	optReturn
	optExit
)

type Menu struct {
	Catalog *catalog.Catalog
	NewID   func() string

	in  *bufio.Scanner
	out io.Writer
}

func New(c *catalog.Catalog, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		Catalog: c,
		NewID:   uuid.NewString,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run loops until Exit is chosen (nil) or input runs out (ErrInputClosed).
func (m *Menu) Run() error {
	for {
		m.printMenu()
		line, err := m.readLine("Choose an option: ")
		if err != nil {
			return err
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			choice = 0
		}

		switch choice {
		case optAdd:
			err = m.addBook()
		case optView:
			m.viewBooks()
		case optSearch:
			err = m.searchBooks()
		case optBorrow:
			err = m.borrowBook()
		case optReturn:
			err = m.returnBook()
		case optExit:
			m.println("Exiting Library Management System...")
			return nil
		default:
			m.println("Invalid option. Try again.")
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) printMenu() {
	m.println("")
	m.println("📚 Library Management System")
	m.println("1. Add Book")
	m.println("2. View Books")
	m.println("3. Search Books")
	m.println("4. Borrow Book")
	m.println("5. Return Book")
	m.println("6. Exit")
}

func (m *Menu) addBook() error {
	id, err := m.readField("Enter Book ID: ")
	if err != nil {
		return err
	}
	if id == "" {
		id = m.NewID()
		m.printf("Generated Book ID: %s\n", id)
	}
	title, err := m.readLine("Enter Title: ")
	if err != nil {
		return err
	}
	author, err := m.readLine("Enter Author: ")
	if err != nil {
		return err
	}
	category, err := m.readLine("Enter Category: ")
	if err != nil {
		return err
	}
	year, err := m.readYear()
	if err != nil {
		return err
	}

	m.Catalog.Add(models.NewBook(id, title, author, category, year))
	m.println("Book added successfully!")
	return nil
}

func (m *Menu) viewBooks() {
	if m.Catalog.IsEmpty() {
		m.println("No books available.")
		return
	}
	for b := range m.Catalog.All() {
		m.println(b.String())
	}
}

func (m *Menu) searchBooks() error {
	keyword, err := m.readLine("Enter keyword to search: ")
	if err != nil {
		return err
	}
	found := m.Catalog.Search(keyword)
	if len(found) == 0 {
		m.println("No matching books found.")
		return nil
	}
	for _, b := range found {
		m.println(b.String())
	}
	return nil
}

func (m *Menu) borrowBook() error {
	id, err := m.readField("Enter Book ID to borrow: ")
	if err != nil {
		return err
	}
	due, err := m.Catalog.Borrow(id)
	switch {
	case err == nil:
		m.printf("Book borrowed successfully! Due date: %s\n", due.Format(models.DateLayout))
	case errors.Is(err, catalog.ErrNotFound):
		m.println("Book not found.")
	case errors.Is(err, models.ErrAlreadyBorrowed):
		m.println("Book is already borrowed.")
	default:
		m.printf("Borrow failed: %v\n", err)
	}
	return nil
}

func (m *Menu) returnBook() error {
	id, err := m.readField("Enter Book ID to return: ")
	if err != nil {
		return err
	}
	err = m.Catalog.Return(id)
	switch {
	case err == nil:
		m.println("Book returned successfully!")
	case errors.Is(err, catalog.ErrNotFound):
		m.println("Book not found.")
	case errors.Is(err, models.ErrNotBorrowed):
		m.println("This book was not borrowed.")
	default:
		m.printf("Return failed: %v\n", err)
	}
	return nil
}

func (m *Menu) readYear() (int, error) {
	for {
		raw, err := m.readField("Enter Year: ")
		if err != nil {
			return 0, err
		}
		year, err := strconv.Atoi(raw)
		if err == nil {
			return year, nil
		}
		m.println("Year must be a whole number.")
	}
}

// readField reads an id or number, ignoring surrounding spaces. Free text is
// read with readLine and kept as typed.
func (m *Menu) readField(prompt string) (string, error) {
	line, err := m.readLine(prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (m *Menu) readLine(prompt string) (string, error) {
	fmt.Fprint(m.out, prompt)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", ErrInputClosed
	}
	return m.in.Text(), nil
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}

func (m *Menu) printf(format string, v ...any) {
	fmt.Fprintf(m.out, format, v...)
}
