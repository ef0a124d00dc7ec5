package filemanager

import (
	"time"

	"github.com/rise-and-shine/filemanager/pathpolicy"
	"github.com/uptrace/bun"
)

// ID identifies a file record. It is assigned by the RecordStore.
type ID int64

// Column names accepted by RecordStore.Update.
const (
	FieldName      = "name"
	FieldPath      = "path"
	FieldExtension = "extension"
	FieldFilename  = "filename"
	FieldMimeType  = "mime_type"
	FieldByteSize  = "byte_size"
	FieldHash      = "hash"
)

// Column names a record list can be ordered by.
const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"
)

// SortableFields lists the columns accepted in ListQuery.Sort.
//
//nolint:gochecknoglobals // static allow-list
var SortableFields = []string{FieldID, FieldName, FieldByteSize, FieldCreatedAt}

// FileRecord is the persisted metadata of one stored file.
type FileRecord struct {
	bun.BaseModel `bun:"table:file,alias:f" json:"-"`

	ID        ID        `bun:"id,pk,autoincrement"      json:"id"`
	Name      string    `bun:"name,notnull"             json:"name"`
	Path      *string   `bun:"path"                     json:"path"`
	Extension string    `bun:"extension,notnull"        json:"extension"`
	Filename  string    `bun:"filename,notnull"         json:"filename"`
	MimeType  string    `bun:"mime_type,notnull"        json:"mime_type"`
	ByteSize  int64     `bun:"byte_size,notnull"        json:"byte_size"`
	Hash      string    `bun:"hash,notnull"             json:"hash"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// PhysicalFilename returns the on-disk filename {name}-{id}.{extension}.
func (r *FileRecord) PhysicalFilename() string {
	return pathpolicy.PhysicalFilename(r.Name, int64(r.ID), r.Extension)
}

// RelativeDir returns the record's sub-directory with a trailing separator,
// or "" when the record has none.
func (r *FileRecord) RelativeDir() string {
	return pathpolicy.RelativeDir(r.Path)
}

// InternalPath returns the path of the file relative to the files directory.
func (r *FileRecord) InternalPath() string {
	return r.RelativeDir() + r.PhysicalFilename()
}

// HasHash reports whether the content digest has been computed.
func (r *FileRecord) HasHash() bool {
	return r.Hash != ""
}
