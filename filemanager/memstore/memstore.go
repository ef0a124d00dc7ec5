// Package memstore provides an in-memory filemanager.RecordStore.
//
// It is meant for tests and local development. Records are copied on the way
// in and out, so callers never share memory with the store.
package memstore

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/filemanager/filemanager"
	"github.com/rise-and-shine/filemanager/sorter"
	"github.com/samber/lo"
)

// Error codes returned by the Store.
const (
	CodeRecordNotFound = "RECORD_NOT_FOUND"
	CodeUnknownField   = "UNKNOWN_FIELD"
)

// Verify that Store implements filemanager.RecordStore at compile time.
var _ filemanager.RecordStore = (*Store)(nil)

// Store keeps file records in memory.
type Store struct {
	mu      sync.RWMutex
	records map[filemanager.ID]filemanager.FileRecord
	lastID  filemanager.ID
}

// New creates an empty Store.
func New() *Store {
	return &Store{records: make(map[filemanager.ID]filemanager.FileRecord)}
}

func (s *Store) Create(_ context.Context, record filemanager.FileRecord) (filemanager.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	record.ID = s.lastID
	s.records[record.ID] = clone(record)

	return record.ID, nil
}

func (s *Store) FindByID(_ context.Context, id filemanager.ID) (*filemanager.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, nil //nolint:nilnil // absence is not an error for FindByID
	}
	rec = clone(rec)
	return &rec, nil
}

func (s *Store) Update(_ context.Context, record filemanager.FileRecord, fields []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[record.ID]
	if !ok {
		return errx.New(
			"no file record found to update",
			errx.WithCode(CodeRecordNotFound),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(errx.D{"file_id": record.ID}),
		)
	}

	for _, field := range fields {
		if err := assign(&current, record, field); err != nil {
			return err
		}
	}
	s.records[record.ID] = clone(current)

	return nil
}

func (s *Store) Delete(_ context.Context, id filemanager.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return errx.New(
			"no file record found to delete",
			errx.WithCode(CodeRecordNotFound),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(errx.D{"file_id": id}),
		)
	}
	delete(s.records, id)

	return nil
}

func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records), nil
}

func (s *Store) List(_ context.Context, q filemanager.ListQuery) ([]filemanager.FileRecord, error) {
	s.mu.RLock()
	records := make([]filemanager.FileRecord, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, clone(rec))
	}
	s.mu.RUnlock()

	order := q.Sort
	if !order.Has(filemanager.FieldID) {
		order = append(slices.Clone(order), sorter.Opt{F: filemanager.FieldID, D: sorter.Asc})
	}
	for _, opt := range order {
		if !slices.Contains(filemanager.SortableFields, opt.F) {
			return nil, errx.New(
				"unknown sort field: "+opt.F,
				errx.WithCode(CodeUnknownField),
				errx.WithType(errx.T_Validation),
			)
		}
	}
	slices.SortFunc(records, func(a, b filemanager.FileRecord) int {
		for _, opt := range order {
			c := compareField(a, b, opt.F)
			if opt.D == sorter.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})

	if q.Offset >= len(records) {
		return []filemanager.FileRecord{}, nil
	}
	records = records[q.Offset:]
	if q.Limit > 0 && q.Limit < len(records) {
		records = records[:q.Limit]
	}
	return records, nil
}

// IDs returns the ids of all stored records in ascending order.
func (s *Store) IDs() []filemanager.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := lo.Keys(s.records)
	slices.Sort(ids)
	return ids
}

func assign(dst *filemanager.FileRecord, src filemanager.FileRecord, field string) error {
	switch field {
	case filemanager.FieldName:
		dst.Name = src.Name
	case filemanager.FieldPath:
		dst.Path = src.Path
	case filemanager.FieldExtension:
		dst.Extension = src.Extension
	case filemanager.FieldFilename:
		dst.Filename = src.Filename
	case filemanager.FieldMimeType:
		dst.MimeType = src.MimeType
	case filemanager.FieldByteSize:
		dst.ByteSize = src.ByteSize
	case filemanager.FieldHash:
		dst.Hash = src.Hash
	default:
		return errx.New(
			"unknown file record field: "+field,
			errx.WithCode(CodeUnknownField),
			errx.WithType(errx.T_Validation),
		)
	}
	return nil
}

func compareField(a, b filemanager.FileRecord, field string) int {
	switch field {
	case filemanager.FieldName:
		return cmp.Compare(a.Name, b.Name)
	case filemanager.FieldByteSize:
		return cmp.Compare(a.ByteSize, b.ByteSize)
	case filemanager.FieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return cmp.Compare(a.ID, b.ID)
	}
}

func clone(rec filemanager.FileRecord) filemanager.FileRecord {
	if rec.Path != nil {
		p := *rec.Path
		rec.Path = &p
	}
	return rec
}
