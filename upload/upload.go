// Package upload adapts concrete upload variants to filemanager.UploadSource.
//
// Multipart wraps a file received in a multipart/form-data request, Local
// wraps a file that already exists on disk. Both sniff the MIME type from the
// content and write through filestore.WriteAtomic, so a failed write never
// leaves a truncated file at the target path.
package upload

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/code19m/errx"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rise-and-shine/filemanager/filemanager"
	"github.com/rise-and-shine/filemanager/filestore"
)

// FileMode is the permission mode of written files.
const FileMode = 0o644

// CodeSizeMismatch is returned by SaveAs when fewer or more bytes than announced were written.
const CodeSizeMismatch = "UPLOAD_SIZE_MISMATCH"

// details holds the values every adapter exposes.
type details struct {
	name      string
	extension string
	mimeType  string
	size      int64
	code      filemanager.UploadErrorCode
}

func (m *details) Extension() string    { return m.extension }
func (m *details) OriginalName() string { return m.name }
func (m *details) MimeType() string     { return m.mimeType }
func (m *details) Size() int64          { return m.size }

func (m *details) HasError() (bool, filemanager.UploadErrorCode) {
	return m.code != filemanager.UploadOK, m.code
}

// detect sets the MIME type from r, falling back to declared when the
// content is not recognized, and derives a missing extension from it.
func (m *details) detect(r io.Reader, declared string) {
	m.extension = strings.TrimPrefix(filepath.Ext(m.name), ".")
	m.mimeType = declared

	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return
	}
	if !mt.Is(filestore.ContentTypeOctetStream) || declared == "" {
		m.mimeType = mt.String()
	}
	if m.extension == "" {
		m.extension = strings.TrimPrefix(mt.Extension(), ".")
	}
}

// write copies r to path atomically and checks the written size.
func (m *details) write(path string, r io.Reader) error {
	n, err := filestore.WriteAtomic(path, r, FileMode)
	if err != nil {
		return errx.Wrap(err)
	}
	if n != m.size {
		_ = os.Remove(path)
		return errx.New(
			"written size differs from upload size",
			errx.WithCode(CodeSizeMismatch),
			errx.WithDetails(errx.D{"expected": m.size, "written": n, "path": path}),
		)
	}
	return nil
}
