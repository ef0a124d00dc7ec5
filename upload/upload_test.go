package upload_test

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/filemanager/filemanager"
	"github.com/rise-and-shine/filemanager/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough of a PNG signature for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func formFile(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	require.Len(t, form.File["file"], 1)
	return form.File["file"][0]
}

func TestFromMultipart(t *testing.T) {
	fh := formFile(t, "Photo.PNG", "application/octet-stream", pngHeader)

	src := upload.FromMultipart(fh)

	failed, code := src.HasError()
	assert.False(t, failed)
	assert.Equal(t, filemanager.UploadOK, code)
	assert.Equal(t, "Photo.PNG", src.OriginalName())
	assert.Equal(t, "PNG", src.Extension())
	assert.Equal(t, "image/png", src.MimeType())
	assert.Equal(t, int64(len(pngHeader)), src.Size())

	target := filepath.Join(t.TempDir(), "photo-1.png")
	require.NoError(t, src.SaveAs(target))

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, content)
}

func TestFromMultipart_ExtensionFromContent(t *testing.T) {
	fh := formFile(t, "screenshot", "", pngHeader)

	src := upload.FromMultipart(fh)
	assert.Equal(t, "png", src.Extension())
}

func TestFromMultipart_DeclaredTypeKeptForUnknownContent(t *testing.T) {
	fh := formFile(t, "data.bin", "application/x-custom", []byte{0x00, 0x01, 0x02, 0xff})

	src := upload.FromMultipart(fh)
	assert.Equal(t, "application/x-custom", src.MimeType())
}

func TestFromMultipart_TooLarge(t *testing.T) {
	fh := formFile(t, "big.txt", "text/plain", bytes.Repeat([]byte("a"), 64))

	src := upload.FromMultipart(fh, upload.WithMaxSize(10))

	failed, code := src.HasError()
	assert.True(t, failed)
	assert.Equal(t, filemanager.UploadErrFormSize, code)
}

func TestFromMultipart_Nil(t *testing.T) {
	src := upload.FromMultipart(nil)

	failed, code := src.HasError()
	assert.True(t, failed)
	assert.Equal(t, filemanager.UploadErrNoFile, code)
	assert.Error(t, src.SaveAs(filepath.Join(t.TempDir(), "x")))
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(source, []byte("plain text notes"), 0o600))

	src := upload.FromPath(source)

	failed, _ := src.HasError()
	assert.False(t, failed)
	assert.Equal(t, "notes.txt", src.OriginalName())
	assert.Equal(t, "txt", src.Extension())
	assert.Contains(t, src.MimeType(), "text/plain")
	assert.Equal(t, int64(16), src.Size())

	target := filepath.Join(dir, "copy.txt")
	require.NoError(t, src.SaveAs(target))
	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "plain text notes", string(content))
}

func TestFromPath_SourceChangedAfterInspection(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "log.txt")
	require.NoError(t, os.WriteFile(source, []byte("short"), 0o600))

	src := upload.FromPath(source)
	require.NoError(t, os.WriteFile(source, []byte("much longer now"), 0o600))

	err := src.SaveAs(filepath.Join(dir, "out.txt"))
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, upload.CodeSizeMismatch))
}

func TestFromPath_Missing(t *testing.T) {
	src := upload.FromPath(filepath.Join(t.TempDir(), "missing.txt"))

	failed, code := src.HasError()
	assert.True(t, failed)
	assert.Equal(t, filemanager.UploadErrNoFile, code)
}

func TestFromPath_Directory(t *testing.T) {
	src := upload.FromPath(t.TempDir())

	failed, code := src.HasError()
	assert.True(t, failed)
	assert.Equal(t, filemanager.UploadErrNoFile, code)
}
