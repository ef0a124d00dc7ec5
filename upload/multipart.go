package upload

import (
	"mime/multipart"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/filemanager/filemanager"
)

// Verify that Multipart implements filemanager.UploadSource at compile time.
var _ filemanager.UploadSource = (*Multipart)(nil)

// Multipart is an upload received as a multipart/form-data part.
type Multipart struct {
	details

	header *multipart.FileHeader
}

// Option configures a Multipart upload.
type Option func(*Multipart)

// WithMaxSize marks uploads larger than limit bytes as UploadErrFormSize.
// A limit of zero or less disables the check.
func WithMaxSize(limit int64) Option {
	return func(m *Multipart) {
		if limit > 0 && m.size > limit {
			m.code = filemanager.UploadErrFormSize
		}
	}
}

// FromMultipart wraps a form file. A nil header reports UploadErrNoFile.
func FromMultipart(header *multipart.FileHeader, opts ...Option) *Multipart {
	m := &Multipart{header: header}
	if header == nil {
		m.code = filemanager.UploadErrNoFile
		return m
	}

	m.name = header.Filename
	m.size = header.Size

	f, err := header.Open()
	if err != nil {
		m.code = filemanager.UploadErrNoTmpDir
		return m
	}
	m.detect(f, header.Header.Get("Content-Type"))
	_ = f.Close()

	if m.size == 0 && m.name == "" {
		m.code = filemanager.UploadErrNoFile
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SaveAs writes the part content to path.
func (m *Multipart) SaveAs(path string) error {
	if m.header == nil {
		return errx.New("no file was uploaded")
	}

	f, err := m.header.Open()
	if err != nil {
		return errx.Wrap(err)
	}
	defer f.Close()

	return m.write(path, f)
}
