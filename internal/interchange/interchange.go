// Package interchange converts catalog books to and from headered CSV and JSON
// files used for bulk import and export.
package interchange

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"bookhub/pkg/models"
)

// Header is the column order written by WriteCSV.
var Header = []string{"id", "title", "author", "category", "year", "is_borrowed", "due_date"}

// ReadCSV reads books from a CSV whose first row names the columns. Columns
// are matched by name, rows without a title are skipped and a blank id is
// replaced by a fresh UUID.
func ReadCSV(in io.Reader) ([]models.Book, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var out []models.Book
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}

		line, _ := r.FieldPos(0)
		b, ok, err := bookFromRow(header, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func bookFromRow(header map[string]int, row []string) (models.Book, bool, error) {
	title := valueAt(header, row, "title")
	if title == "" {
		return models.Book{}, false, nil
	}

	id := valueAt(header, row, "id")
	if id == "" {
		id = uuid.NewString()
	}

	year := 0
	if raw := valueAt(header, row, "year"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return models.Book{}, false, fmt.Errorf("parse year for %s: %w", id, err)
		}
		year = n
	}

	b := models.NewBook(id, title, valueAt(header, row, "author"), valueAt(header, row, "category"), year)

	if raw := valueAt(header, row, "is_borrowed"); raw != "" {
		borrowed, err := strconv.ParseBool(raw)
		if err != nil {
			return models.Book{}, false, fmt.Errorf("parse is_borrowed for %s: %w", id, err)
		}
		b.IsBorrowed = borrowed
	}

	rawDue := valueAt(header, row, "due_date")
	if rawDue != "" && rawDue != "null" {
		due, err := models.ParseDate(rawDue)
		if err != nil {
			return models.Book{}, false, fmt.Errorf("parse due_date for %s: %w", id, err)
		}
		b.DueDate = &due
	}

	if b.IsBorrowed != (b.DueDate != nil) {
		return models.Book{}, false, fmt.Errorf("book %s: is_borrowed and due_date disagree", id)
	}
	return b, true, nil
}

func WriteCSV(out io.Writer, books []models.Book) error {
	w := csv.NewWriter(out)
	if err := w.Write(Header); err != nil {
		return err
	}
	for _, b := range books {
		if err := w.Write([]string{
			b.ID,
			b.Title,
			b.Author,
			b.Category,
			strconv.Itoa(b.Year),
			strconv.FormatBool(b.IsBorrowed),
			b.DueDateString(),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// JSONBook is the wire form of a book with the due date as YYYY-MM-DD or null.
type JSONBook struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	Category   string  `json:"category"`
	Year       int     `json:"year"`
	IsBorrowed bool    `json:"is_borrowed"`
	DueDate    *string `json:"due_date"`
}

// ToJSONBook maps a book to its export form with a YYYY-MM-DD due date.
func ToJSONBook(b models.Book) JSONBook {
	out := JSONBook{
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		Category:   b.Category,
		Year:       b.Year,
		IsBorrowed: b.IsBorrowed,
	}
	if b.DueDate != nil {
		due := b.DueDateString()
		out.DueDate = &due
	}
	return out
}

// WriteJSON writes books as an indented JSON array.
func WriteJSON(out io.Writer, books []models.Book) error {
	items := make([]JSONBook, 0, len(books))
	for _, b := range books {
		items = append(items, ToJSONBook(b))
	}
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal books: %w", err)
	}
	data = append(data, '\n')
	_, err = out.Write(data)
	return err
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
