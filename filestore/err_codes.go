package filestore

// Error codes for filestore operations.
const (
	// CodeFileNotFound is returned when a file does not exist at the specified path.
	CodeFileNotFound = "STORED_FILE_NOT_FOUND"

	// CodeDigestFailed is returned when the content digest of a file cannot be computed.
	CodeDigestFailed = "DIGEST_FAILED"

	// CodeWriteFailed is returned when bytes cannot be written to the target path.
	CodeWriteFailed = "WRITE_FAILED"
)
