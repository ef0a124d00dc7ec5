package filemanager

import (
	"context"

	"github.com/rise-and-shine/filemanager/sorter"
)

// RecordStore persists file records.
//
// The store is expected to provide its own per-row consistency. Operations on
// the same id issued concurrently must be serialized by the caller.
type RecordStore interface {
	// Create inserts the record and returns the id assigned to it.
	Create(ctx context.Context, record FileRecord) (ID, error)
	// FindByID returns the record with the given id, or nil when there is none.
	FindByID(ctx context.Context, id ID) (*FileRecord, error)
	// Update writes the named columns of the record.
	Update(ctx context.Context, record FileRecord, fields []string) error
	// Delete removes the record with the given id.
	Delete(ctx context.Context, id ID) error
	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)
	// List returns one window of records in the requested order.
	List(ctx context.Context, q ListQuery) ([]FileRecord, error)
}

// ListQuery selects a window of records. Sort names columns from
// SortableFields. Stores order by id when Sort is empty.
type ListQuery struct {
	Limit  int
	Offset int
	Sort   sorter.SortOpts
}

