package filestore

import (
	"crypto/md5" //nolint:gosec // digest is used for parity checks, not security
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/code19m/errx"
	"github.com/google/uuid"
)

// Verify that Disk implements FS at compile time.
var _ FS = Disk{}

// Disk is an FS backed by the local filesystem.
type Disk struct{}

// NewDisk returns the local filesystem implementation of FS.
func NewDisk() Disk {
	return Disk{}
}

func (Disk) MkdirAll(path string, perm os.FileMode) error {
	err := os.MkdirAll(path, perm)
	if err != nil && !errors.Is(err, fs.ErrExist) {
		return errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
	}

	// MkdirAll may race with another creator. Only a non-directory at path is fatal.
	info, statErr := os.Stat(path)
	if statErr != nil {
		return errx.Wrap(statErr, errx.WithDetails(errx.D{"path": path}))
	}
	if !info.IsDir() {
		return errx.New("path exists and is not a directory", errx.WithDetails(errx.D{"path": path}))
	}
	return nil
}

func (Disk) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
	}
	return nil
}

func (Disk) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
}

func (Disk) Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", openError(err, path)
	}
	defer f.Close()

	h := md5.New() //nolint:gosec // see import
	if _, err = io.Copy(h, f); err != nil {
		return "", errx.Wrap(err, errx.WithCode(CodeDigestFailed), errx.WithDetails(errx.D{"path": path}))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (Disk) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(err, path)
	}
	return f, nil
}

// WriteAtomic streams r into a temporary file next to path, syncs it and
// renames it into place. The target either holds the full content or is
// left untouched. It returns the number of bytes written.
func WriteAtomic(path string, r io.Reader, perm os.FileMode) (int64, error) {
	tmpPath := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return 0, errx.Wrap(err, errx.WithCode(CodeWriteFailed), errx.WithDetails(errx.D{"path": path}))
	}

	n, err := io.Copy(f, r)
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmpPath, path)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return 0, errx.Wrap(err, errx.WithCode(CodeWriteFailed), errx.WithDetails(errx.D{"path": path}))
	}

	return n, nil
}

func openError(err error, path string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return errx.New(
			"stored file not found",
			errx.WithCode(CodeFileNotFound),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(errx.D{"path": path}),
		)
	}
	return errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
}
