package sync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"bookhub/pkg/models"
)

type Loader interface {
	Load() ([]models.Book, error)
}

type Broadcaster interface {
	BroadcastJSON(v any) error
}

// Watcher polls the catalog's backing file and broadcasts a CatalogEvent
// whenever its size or modification time changes.
type Watcher struct {
	Path     string
	Loader   Loader
	Out      Broadcaster
	Interval time.Duration
	Now      func() time.Time

	seen    bool
	modTime time.Time
	size    int64
}

func NewWatcher(path string, loader Loader, out Broadcaster, interval time.Duration) *Watcher {
	return &Watcher{
		Path:     path,
		Loader:   loader,
		Out:      out,
		Interval: interval,
		Now:      time.Now,
	}
}

// Run polls until ctx is done. The first poll only records the baseline.
func (w *Watcher) Run(ctx context.Context) error {
	if _, err := w.Poll(); err != nil {
		log.Printf("[sync] watch %s: %v", w.Path, err)
	}

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := w.Poll(); err != nil {
				log.Printf("[sync] watch %s: %v", w.Path, err)
			}
		}
	}
}

// Poll checks the file once and reports whether an event was broadcast.
func (w *Watcher) Poll() (bool, error) {
	var (
		modTime time.Time
		size    int64
	)
	info, err := os.Stat(w.Path)
	switch {
	case err == nil:
		modTime, size = info.ModTime(), info.Size()
	case errors.Is(err, fs.ErrNotExist):
	default:
		return false, fmt.Errorf("stat: %w", err)
	}

	if !w.seen {
		w.seen, w.modTime, w.size = true, modTime, size
		return false, nil
	}
	if modTime.Equal(w.modTime) && size == w.size {
		return false, nil
	}
	w.modTime, w.size = modTime, size

	books, err := w.Loader.Load()
	if err != nil {
		return false, fmt.Errorf("load: %w", err)
	}
	ev := CatalogEvent{Type: CatalogChanged, Books: len(books), At: w.Now().UTC()}
	for _, b := range books {
		if b.IsBorrowed {
			ev.Borrowed++
		}
	}
	if err := w.Out.BroadcastJSON(ev); err != nil {
		return false, fmt.Errorf("broadcast: %w", err)
	}
	return true, nil
}
