package storage

import (
	"context"

	"github.com/poiesic/concierge/core"
)

// DirectoryStore is what the dispatcher reads candidate records from.
// It never fails: an unavailable directory is an empty list.
type DirectoryStore interface {
	// GetByCategory returns the records filed under category.
	GetByCategory(ctx context.Context, category core.Category) []core.Record

	// GetAll returns every record in the directory.
	GetAll(ctx context.Context) []core.Record
}

// Source is a fallible directory backend (remote API, database, snapshot,
// file). Implementations must be thread-safe.
type Source interface {
	// Name identifies the source in logs.
	Name() string

	// FetchCategory returns the records filed under category.
	FetchCategory(ctx context.Context, category core.Category) ([]core.Record, error)

	// FetchAll returns every record the source holds.
	FetchAll(ctx context.Context) ([]core.Record, error)
}

// Sink receives a full directory copy.
type Sink interface {
	// Replace atomically swaps the stored directory for records.
	Replace(ctx context.Context, records []core.Record) error
}
