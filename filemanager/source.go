package filemanager

// UploadSource is a single pending upload. It is owned by the caller and
// consumed once per Save call.
type UploadSource interface {
	// Extension returns the file extension without the leading dot.
	Extension() string
	// OriginalName returns the filename as sent by the client.
	OriginalName() string
	// MimeType returns the detected or declared MIME type.
	MimeType() string
	// Size returns the content size in bytes.
	Size() int64
	// HasError reports whether the upload failed before reaching the manager.
	HasError() (bool, UploadErrorCode)
	// SaveAs writes the uploaded content to path.
	SaveAs(path string) error
}

// UploadErrorCode describes why an upload is unusable.
type UploadErrorCode int

const (
	UploadOK UploadErrorCode = iota
	UploadErrIniSize
	UploadErrFormSize
	UploadErrPartial
	UploadErrNoFile
	UploadErrNoTmpDir
	UploadErrCantWrite
	UploadErrExtension
)

// String returns a human readable description of the upload error.
func (c UploadErrorCode) String() string {
	switch c {
	case UploadOK:
		return "ok"
	case UploadErrIniSize, UploadErrFormSize:
		return "file too large"
	case UploadErrPartial:
		return "file upload was not completed"
	case UploadErrNoFile:
		return "no file was uploaded"
	case UploadErrNoTmpDir:
		return "temporary folder missing"
	case UploadErrCantWrite:
		return "failed to write to disk"
	case UploadErrExtension:
		return "upload stopped by extension"
	default:
		return "unknown upload error"
	}
}
