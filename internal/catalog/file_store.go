package catalog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bookhub/pkg/models"
)

const (
	// DefaultDataFile is the backing file used when none is configured.
	DefaultDataFile = "library_books.txt"

	nullDate    = "null"
	fieldsCount = 7
	maxLineSize = 1 << 20
)

var errMalformed = errors.New("malformed record")

// FileStore keeps the catalog in a comma-delimited text file, one book per
// line: id,title,author,category,year,isBorrowed,dueDate.
//
// Fields are quoted only when they contain a comma, quote or line break, so
// files written by older versions without quoting still load. A line that is
// not valid CSV is read the old way, split on commas. Malformed records are
// skipped with a warning.
type FileStore struct {
	Path   string
	Logger Logger
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultDataFile
	}
	return &FileStore{Path: path, Logger: log.Default()}
}

func (s *FileStore) Load() ([]models.Book, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}

	var books []models.Book
	for i := 0; i < len(lines); {
		if lines[i] == "" {
			i++
			continue
		}
		b, n, err := decodeLines(lines[i:])
		if err != nil {
			s.warnf("[catalog] skipping line %d: %v", i+1, err)
			i++
			continue
		}
		books = append(books, b)
		i += n
	}
	return books, nil
}

// Save replaces the file atomically: a temp file in the same directory is
// written, synced and renamed over the target.
func (s *FileStore) Save(books []models.Book) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := writeRecords(tmp, books); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write records: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("replace %s: %w", s.Path, err)
	}
	return nil
}

func (s *FileStore) warnf(format string, v ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, v...)
	}
}

func writeRecords(w io.Writer, books []models.Book) error {
	cw := csv.NewWriter(w)
	for _, b := range books {
		if err := cw.Write(encodeRecord(b)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func encodeRecord(b models.Book) []string {
	due := nullDate
	if b.DueDate != nil {
		due = b.DueDate.Format(models.DateLayout)
	}
	return []string{
		b.ID,
		b.Title,
		b.Author,
		b.Category,
		strconv.Itoa(b.Year),
		strconv.FormatBool(b.IsBorrowed),
		due,
	}
}

// decodeLines decodes the record starting at lines[0] and reports how many
// physical lines it spans. A record continues past its first line only inside
// a quoted field, and only when the joined text decodes cleanly. A line that is
// not valid CSV is read as an unquoted record split on every comma, so a bad
// line never takes the following ones with it.
func decodeLines(lines []string) (models.Book, int, error) {
	first := lines[0]
	if row, err := parseRecord(first); err == nil {
		b, err := decodeRecord(row)
		return b, 1, err
	}

	if strings.Count(first, `"`)%2 == 1 {
		quotes := strings.Count(first, `"`)
		for n := 2; n <= len(lines); n++ {
			quotes += strings.Count(lines[n-1], `"`)
			if quotes%2 == 1 {
				continue
			}
			if row, err := parseRecord(strings.Join(lines[:n], "\n")); err == nil {
				if b, err := decodeRecord(row); err == nil {
					return b, n, nil
				}
			}
			break
		}
	}

	b, err := decodeRecord(strings.Split(first, ","))
	return b, 1, err
}

// parseRecord parses text as exactly one strict CSV record.
func parseRecord(text string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	if _, err := r.Read(); err != io.EOF {
		return nil, fmt.Errorf("%w: more than one record", errMalformed)
	}
	return row, nil
}

func decodeRecord(row []string) (models.Book, error) {
	if len(row) != fieldsCount {
		return models.Book{}, fmt.Errorf("%w: want %d fields, got %d", errMalformed, fieldsCount, len(row))
	}

	year, err := strconv.Atoi(row[4])
	if err != nil {
		return models.Book{}, fmt.Errorf("%w: year %q", errMalformed, row[4])
	}

	var borrowed bool
	switch row[5] {
	case "true":
		borrowed = true
	case "false":
	default:
		return models.Book{}, fmt.Errorf("%w: isBorrowed %q", errMalformed, row[5])
	}

	b := models.NewBook(row[0], row[1], row[2], row[3], year)
	b.IsBorrowed = borrowed
	if row[6] != nullDate {
		due, err := models.ParseDate(row[6])
		if err != nil {
			return models.Book{}, fmt.Errorf("%w: %v", errMalformed, err)
		}
		b.DueDate = &due
	}

	if b.IsBorrowed != (b.DueDate != nil) {
		return models.Book{}, fmt.Errorf("%w: isBorrowed=%t with dueDate %q", errMalformed, b.IsBorrowed, row[6])
	}
	return b, nil
}
