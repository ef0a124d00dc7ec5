package fileapi

const (
	CodeInvalidFileID = "INVALID_FILE_ID"
)
