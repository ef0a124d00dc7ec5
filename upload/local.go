package upload

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/filemanager/filemanager"
)

// Verify that Local implements filemanager.UploadSource at compile time.
var _ filemanager.UploadSource = (*Local)(nil)

// Local is an upload taken from a file on the local filesystem.
type Local struct {
	details

	path string
}

// FromPath wraps the file at path. A missing file reports UploadErrNoFile and
// a file that cannot be read reports UploadErrCantWrite.
func FromPath(path string) *Local {
	l := &Local{path: path}
	l.name = filepath.Base(path)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		l.code = filemanager.UploadErrNoFile
		return l
	}
	l.size = info.Size()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			l.code = filemanager.UploadErrCantWrite
		} else {
			l.code = filemanager.UploadErrNoFile
		}
		return l
	}
	defer f.Close()
	l.detect(f, "")

	return l
}

// SaveAs copies the source file to path.
func (l *Local) SaveAs(path string) error {
	f, err := os.Open(l.path)
	if err != nil {
		return errx.Wrap(err, errx.WithDetails(errx.D{"source": l.path}))
	}
	defer f.Close()

	return l.write(path, f)
}
