package fileapi

import "time"

// Config configures the file HTTP API.
type Config struct {
	// MaxUploadSize rejects uploads larger than this many bytes.
	MaxUploadSize int64 `yaml:"max_upload_size" default:"33554432" validate:"gt=0"`

	// XSendFile delegates download bodies to the fronting web server.
	XSendFile bool `yaml:"x_sendfile"`

	// XSendFileHeader names the header carrying the absolute file path.
	XSendFileHeader string `yaml:"x_sendfile_header" default:"X-Sendfile"`

	// ServeFiles exposes the files directory read-only under its relative URL.
	ServeFiles bool `yaml:"serve_files"`

	// MaxPageSize caps the page_size accepted when listing files.
	MaxPageSize int `yaml:"max_page_size" default:"100" validate:"gt=0"`

	// LockTimeout bounds the wait for another request on the same file.
	LockTimeout time.Duration `yaml:"lock_timeout" default:"5s" validate:"gt=0"`
}
