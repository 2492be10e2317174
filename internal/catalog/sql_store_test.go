package catalog_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookhub/internal/catalog"
	"bookhub/pkg/database"
	"bookhub/pkg/models"
)

func newSQLStore(t *testing.T) *catalog.SQLStore {
	t.Helper()
	db, err := database.OpenMigrated(database.Config{Path: filepath.Join(t.TempDir(), "library.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return catalog.NewSQLStore(db)
}

func Test_SQLStore_EmptyTable(t *testing.T) {
	store := newSQLStore(t)

	books, err := store.Load()

	require.NoError(t, err)
	assert.Empty(t, books)
}

func Test_SQLStore_RoundTripKeepsOrderAndDuplicates(t *testing.T) {
	// arrange
	store := newSQLStore(t)
	books := []models.Book{
		models.NewBook("2", "Emma", "Austen", "Classic", 1815),
		borrowed(models.NewBook("1", "Dune, Messiah", "Herbert", "Sci-Fi", 1969), "2026-11-01"),
		models.NewBook("2", "Emma (second copy)", "Austen", "Classic", 1815),
	}

	// act
	require.NoError(t, store.Save(books))
	loaded, err := store.Load()

	// assert
	require.NoError(t, err)
	assert.Equal(t, books, loaded)
}

func Test_SQLStore_SaveReplacesPreviousRows(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := newSQLStore(t)
	require.NoError(t, store.SaveContext(ctx, []models.Book{
		models.NewBook("1", "A", "x", "c", 1),
		models.NewBook("2", "B", "x", "c", 2),
	}))

	// act
	require.NoError(t, store.SaveContext(ctx, []models.Book{models.NewBook("3", "C", "x", "c", 3)}))

	// assert
	loaded, err := store.LoadContext(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "3", loaded[0].ID)
}

func Test_Catalog_SQLStore_BorrowPersists(t *testing.T) {
	// arrange
	store := newSQLStore(t)
	c, _ := newCatalog(t, store)
	c.Add(models.NewBook("1", "Dune", "Herbert", "Sci-Fi", 1965))

	// act
	due, err := c.Borrow("1")

	// assert
	require.NoError(t, err)
	reloaded, _ := newCatalog(t, store)
	got, err := reloaded.Get("1")
	require.NoError(t, err)
	assert.True(t, got.IsBorrowed)
	assert.Equal(t, due, *got.DueDate)
}
