// Package filestore provides the filesystem operations used to store managed files.
//
// It defines an FS interface covering exactly what the file manager needs
// (directory creation, unlink, existence check, content digest and reading)
// so that it can be injected into components and replaced in tests.
// Disk is the local filesystem implementation.
package filestore

import (
	"io"
	"os"
)

// DefaultDirMode is the mode used for directories created by the file manager.
const DefaultDirMode os.FileMode = 0o755

// FS defines the filesystem operations used by the file manager.
// Implementations must be safe for concurrent use.
type FS interface {
	// MkdirAll creates the directory and any missing parents.
	// A directory that already exists is not an error, including when it
	// was created concurrently by another caller.
	MkdirAll(path string, perm os.FileMode) error

	// Remove unlinks the file at path.
	// A file that does not exist is not an error.
	Remove(path string) error

	// Exists reports whether anything exists at path.
	Exists(path string) (bool, error)

	// Digest returns the hex encoded MD5 digest of the full file content.
	Digest(path string) (string, error)

	// Open opens the file for reading. The caller must close it.
	Open(path string) (io.ReadCloser, error)
}
