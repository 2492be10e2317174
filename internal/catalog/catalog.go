package catalog

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"strings"
	"time"

	"bookhub/pkg/models"
)

var ErrNotFound = errors.New("book not found")

// Store loads and persists the whole catalog at once.
type Store interface {
	Load() ([]models.Book, error)
	Save(books []models.Book) error
}

// Logger is satisfied by *log.Logger.
type Logger interface {
	Printf(format string, v ...any)
}

// Catalog is the ordered, in-memory collection of books backed by a Store.
// Every mutation rewrites the store. Duplicate ids are kept; lookups use the
// first match.
type Catalog struct {
	store    Store
	books    []models.Book
	now      func() time.Time
	loanDays int
	logger   Logger
}

type Option func(*Catalog)

func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLoanDays sets the loan period. A non-positive value is logged by New
// and replaced with models.DefaultLoanDays.
func WithLoanDays(days int) Option {
	return func(c *Catalog) {
		c.loanDays = days
	}
}

func WithLogger(logger Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a catalog and populates it from store. A load failure is logged
// and leaves the catalog empty.
func New(store Store, opts ...Option) *Catalog {
	c := &Catalog{
		store:    store,
		now:      time.Now,
		loanDays: models.DefaultLoanDays,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.loanDays <= 0 {
		c.logger.Printf("[catalog] invalid loan days %d, using %d", c.loanDays, models.DefaultLoanDays)
		c.loanDays = models.DefaultLoanDays
	}

	books, err := store.Load()
	if err != nil {
		c.logger.Printf("[catalog] error loading books: %v", err)
		return c
	}
	c.books = books
	return c
}

func (c *Catalog) Add(b models.Book) {
	c.books = append(c.books, b)
	c.persist()
	c.logger.Printf("[catalog] book added: %s", b.ID)
}

// All yields every book in insertion order.
func (c *Catalog) All() iter.Seq[models.Book] {
	return func(yield func(models.Book) bool) {
		for _, b := range c.books {
			if !yield(b) {
				return
			}
		}
	}
}

func (c *Catalog) Len() int { return len(c.books) }

func (c *Catalog) IsEmpty() bool { return len(c.books) == 0 }

// Search returns books whose title or author contains keyword, ignoring case.
func (c *Catalog) Search(keyword string) []models.Book {
	out := make([]models.Book, 0)
	for _, b := range c.books {
		if Matches(b, keyword) {
			out = append(out, b)
		}
	}
	return out
}

// Matches reports whether keyword is a case-insensitive substring of the
// book's title or author. The empty keyword matches every book.
func Matches(b models.Book, keyword string) bool {
	kw := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(b.Title), kw) ||
		strings.Contains(strings.ToLower(b.Author), kw)
}

func (c *Catalog) Get(id string) (models.Book, error) {
	i := c.indexOf(id)
	if i < 0 {
		return models.Book{}, fmt.Errorf("get %q: %w", id, ErrNotFound)
	}
	return c.books[i], nil
}

// Borrow lends the first book with the given id and returns its due date.
// Only a successful transition is persisted.
func (c *Catalog) Borrow(id string) (time.Time, error) {
	i := c.indexOf(id)
	if i < 0 {
		return time.Time{}, fmt.Errorf("borrow %q: %w", id, ErrNotFound)
	}
	due, err := c.books[i].Borrow(c.now(), c.loanDays)
	if err != nil {
		return time.Time{}, fmt.Errorf("borrow %q: %w", id, err)
	}
	c.persist()
	return due, nil
}

func (c *Catalog) Return(id string) error {
	i := c.indexOf(id)
	if i < 0 {
		return fmt.Errorf("return %q: %w", id, ErrNotFound)
	}
	if err := c.books[i].Return(); err != nil {
		return fmt.Errorf("return %q: %w", id, err)
	}
	c.persist()
	return nil
}

// Persist writes the full catalog to the store.
func (c *Catalog) Persist() error {
	snapshot := make([]models.Book, len(c.books))
	copy(snapshot, c.books)
	if err := c.store.Save(snapshot); err != nil {
		return fmt.Errorf("save books: %w", err)
	}
	return nil
}

// persist is Persist for mutating operations: the in-memory state stays
// authoritative and a failed write is only logged.
func (c *Catalog) persist() {
	if err := c.Persist(); err != nil {
		c.logger.Printf("[catalog] error saving books: %v", err)
	}
}

func (c *Catalog) indexOf(id string) int {
	for i := range c.books {
		if c.books[i].ID == id {
			return i
		}
	}
	return -1
}
