package sync

import "time"

const CatalogChanged = "catalog.changed"

// CatalogEvent is broadcast whenever the backing file changes on disk.
type CatalogEvent struct {
	Type     string    `json:"type"`
	Books    int       `json:"books"`
	Borrowed int       `json:"borrowed"`
	At       time.Time `json:"at"`
}
