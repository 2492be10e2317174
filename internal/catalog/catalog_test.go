package catalog_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookhub/internal/catalog"
	"bookhub/pkg/models"
)

var fixedNow = time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC)

type logSpy struct {
	lines []string
}

func (l *logSpy) Printf(format string, v ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

type memStore struct {
	books   []models.Book
	saves   int
	loadErr error
	saveErr error
}

func (s *memStore) Load() ([]models.Book, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return slices.Clone(s.books), nil
}

func (s *memStore) Save(books []models.Book) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.books = slices.Clone(books)
	return nil
}

func newCatalog(t *testing.T, store catalog.Store) (*catalog.Catalog, *logSpy) {
	t.Helper()
	spy := &logSpy{}
	c := catalog.New(store,
		catalog.WithClock(func() time.Time { return fixedNow }),
		catalog.WithLogger(spy),
	)
	return c, spy
}

func dune() models.Book {
	return models.NewBook("1", "Dune", "Herbert", "Sci-Fi", 1965)
}

func Test_New_LoadFailure_StartsEmpty(t *testing.T) {
	// arrange
	store := &memStore{loadErr: errors.New("disk gone")}

	// act
	c, spy := newCatalog(t, store)

	// assert
	assert.True(t, c.IsEmpty())
	require.Len(t, spy.lines, 1)
	assert.Contains(t, spy.lines[0], "disk gone")
}

func Test_Add_ListsSingleAvailableBook(t *testing.T) {
	// arrange
	store := &memStore{}
	c, _ := newCatalog(t, store)
	require.True(t, c.IsEmpty())

	// act
	c.Add(dune())

	// assert
	var lines []string
	for b := range c.All() {
		lines = append(lines, b.String())
	}
	assert.Equal(t, []string{"ID: 1 | Dune by Herbert | Sci-Fi | Year: 1965 | Available"}, lines)
	assert.False(t, c.IsEmpty())
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, []models.Book{dune()}, store.books)
}

func Test_All_StopsWhenYieldReturnsFalse(t *testing.T) {
	// arrange
	store := &memStore{books: []models.Book{
		models.NewBook("1", "A", "x", "c", 1),
		models.NewBook("2", "B", "x", "c", 2),
		models.NewBook("3", "C", "x", "c", 3),
	}}
	c, _ := newCatalog(t, store)

	// act
	var seen []string
	for b := range c.All() {
		seen = append(seen, b.ID)
		if b.ID == "2" {
			break
		}
	}

	// assert
	assert.Equal(t, []string{"1", "2"}, seen)
}

func Test_Borrow_ThenBorrowAgain(t *testing.T) {
	// arrange
	store := &memStore{books: []models.Book{dune()}}
	c, _ := newCatalog(t, store)

	// act
	due, err := c.Borrow("1")

	// assert
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC), due)
	got, err := c.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "ID: 1 | Dune by Herbert | Sci-Fi | Year: 1965 | Borrowed (Due: 2026-11-01)", got.String())
	assert.Equal(t, 1, store.saves)

	// act again
	_, err = c.Borrow("1")

	// assert no-op
	assert.ErrorIs(t, err, models.ErrAlreadyBorrowed)
	got, _ = c.Get("1")
	assert.Equal(t, due, *got.DueDate)
	assert.Equal(t, 1, store.saves)
}

func Test_Borrow_UsesConfiguredLoanDays(t *testing.T) {
	// arrange
	store := &memStore{books: []models.Book{dune()}}
	c := catalog.New(store,
		catalog.WithClock(func() time.Time { return fixedNow }),
		catalog.WithLoanDays(3),
		catalog.WithLogger(&logSpy{}),
	)

	// act
	due, err := c.Borrow("1")

	// assert
	require.NoError(t, err)
	assert.Equal(t, "2026-10-21", due.Format(models.DateLayout))
}

func Test_New_InvalidLoanDays_FallsBackAndLogs(t *testing.T) {
	// arrange
	store := &memStore{books: []models.Book{dune()}}
	spy := &logSpy{}

	// act
	c := catalog.New(store,
		catalog.WithClock(func() time.Time { return fixedNow }),
		catalog.WithLoanDays(0),
		catalog.WithLogger(spy),
	)
	due, err := c.Borrow("1")

	// assert
	require.NoError(t, err)
	assert.Equal(t, "2026-11-01", due.Format(models.DateLayout))
	require.NotEmpty(t, spy.lines)
	assert.Contains(t, spy.lines[0], "invalid loan days 0")
}

func Test_Borrow_UnknownID_ReportsNotFound(t *testing.T) {
	// arrange
	store := &memStore{books: []models.Book{dune()}}
	c, _ := newCatalog(t, store)

	// act
	_, err := c.Borrow("999")

	// assert
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.Zero(t, store.saves)
}

func Test_Return_Transitions(t *testing.T) {
	// arrange
	store := &memStore{books: []models.Book{dune()}}
	c, _ := newCatalog(t, store)

	// act + assert: not borrowed yet
	err := c.Return("1")
	assert.ErrorIs(t, err, models.ErrNotBorrowed)
	assert.Zero(t, store.saves)

	_, err = c.Borrow("1")
	require.NoError(t, err)

	err = c.Return("1")
	require.NoError(t, err)
	got, _ := c.Get("1")
	assert.False(t, got.IsBorrowed)
	assert.Nil(t, got.DueDate)
	assert.Equal(t, 2, store.saves)
	assert.False(t, store.books[0].IsBorrowed)
}

func Test_Return_UnknownID_LeavesFileUnchanged(t *testing.T) {
	// arrange
	path := filepath.Join(t.TempDir(), "library_books.txt")
	store := catalog.NewFileStore(path)
	store.Logger = &logSpy{}
	c, _ := newCatalog(t, store)
	c.Add(dune())
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	// act
	err = c.Return("999")

	// assert
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func Test_DuplicateIDs_FirstMatchWins(t *testing.T) {
	// arrange
	store := &memStore{books: []models.Book{
		models.NewBook("1", "First", "A", "c", 2000),
		models.NewBook("1", "Second", "B", "c", 2001),
	}}
	c, _ := newCatalog(t, store)

	// act
	_, err := c.Borrow("1")
	require.NoError(t, err)
	_, err = c.Borrow("1")

	// assert
	assert.ErrorIs(t, err, models.ErrAlreadyBorrowed)
	assert.True(t, store.books[0].IsBorrowed)
	assert.False(t, store.books[1].IsBorrowed)
	assert.Equal(t, 2, c.Len())
}

func Test_Search_CaseInsensitiveTitleOrAuthorInOrder(t *testing.T) {
	// arrange
	books := []models.Book{
		models.NewBook("1", "Dune", "Frank Herbert", "Sci-Fi", 1965),
		models.NewBook("2", "Emma", "Jane Austen", "Classic", 1815),
		models.NewBook("3", "Children of Dune", "Frank Herbert", "Sci-Fi", 1976),
		models.NewBook("4", "Neuromancer", "William Gibson", "Cyberpunk", 1984),
	}
	c, _ := newCatalog(t, &memStore{books: books})

	cases := []struct {
		keyword string
		want    []string
	}{
		{keyword: "dune", want: []string{"1", "3"}},
		{keyword: "HERBERT", want: []string{"1", "3"}},
		{keyword: "austen", want: []string{"2"}},
		{keyword: "Gibson", want: []string{"4"}},
		{keyword: "", want: []string{"1", "2", "3", "4"}},
		{keyword: "zzz", want: []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.keyword, func(t *testing.T) {
			// act
			got := c.Search(tc.keyword)

			// assert
			ids := make([]string, 0, len(got))
			for _, b := range got {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tc.want, ids)

			for _, b := range books {
				assert.Equal(t, slices.Contains(ids, b.ID), catalog.Matches(b, tc.keyword))
			}
		})
	}
}

func Test_PersistFailure_IsLoggedAndStateKept(t *testing.T) {
	// arrange
	store := &memStore{saveErr: errors.New("read-only fs")}
	c, spy := newCatalog(t, store)

	// act
	c.Add(dune())

	// assert
	assert.Equal(t, 1, c.Len())
	assert.Empty(t, store.books)
	require.NotEmpty(t, spy.lines)
	assert.Contains(t, spy.lines[0], "read-only fs")
	assert.Error(t, c.Persist())
}

func Test_Get_UnknownID(t *testing.T) {
	c, _ := newCatalog(t, &memStore{})

	_, err := c.Get("nope")

	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func Test_NoOpTransitions_AreNotPersisted(t *testing.T) {
	// arrange
	store := &memStore{books: []models.Book{dune()}}
	c, _ := newCatalog(t, store)
	_, err := c.Borrow("1")
	require.NoError(t, err)
	require.Equal(t, 1, store.saves)

	// act
	_, borrowErr := c.Borrow("1")
	require.NoError(t, c.Return("1"))
	returnErr := c.Return("1")

	// assert
	assert.ErrorIs(t, borrowErr, models.ErrAlreadyBorrowed)
	assert.ErrorIs(t, returnErr, models.ErrNotBorrowed)
	assert.Equal(t, 2, store.saves)
}
