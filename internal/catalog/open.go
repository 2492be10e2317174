package catalog

import (
	"fmt"
	"io"

	"bookhub/pkg/database"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStore returns the store for backend. The closer releases the sqlite
// handle and is a no-op for the file backend.
func OpenStore(backend, dataFile, dbPath string) (Store, io.Closer, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(dataFile), nopCloser{}, nil
	case BackendSQLite:
		db, err := database.OpenMigrated(database.Config{Path: dbPath})
		if err != nil {
			return nil, nil, err
		}
		return NewSQLStore(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", backend)
	}
}
