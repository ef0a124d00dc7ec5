package filemanager

// Error codes returned by Manager operations.
const (
	// CodeUploadInvalid is returned when the upload source reports an error. Nothing was persisted.
	CodeUploadInvalid = "UPLOAD_INVALID"

	// CodePersistFailed is returned when the record could not be created. Nothing was persisted.
	CodePersistFailed = "FILE_PERSIST_FAILED"

	// CodeDirectoryCreateFailed is returned when the target directory could not be created.
	// The record exists without a file and is a reconciliation candidate.
	CodeDirectoryCreateFailed = "FILE_DIRECTORY_CREATE_FAILED"

	// CodeFileWriteFailed is returned when the upload could not be written to disk.
	// The record exists without a file and is a reconciliation candidate.
	CodeFileWriteFailed = "FILE_WRITE_FAILED"

	// CodeHashPersistFailed is returned when the digest could not be computed or stored.
	// The record and the file are durable, only the hash is missing. RefreshHash retries it.
	CodeHashPersistFailed = "FILE_HASH_PERSIST_FAILED"

	// CodeNotFound is returned when no record exists for the id.
	CodeNotFound = "FILE_NOT_FOUND"

	// CodeLoadFailed is returned when the record store fails to look up a record.
	CodeLoadFailed = "FILE_LOAD_FAILED"

	// CodeFileDeleteFailed is returned when the file could not be removed from disk.
	// The record is kept so the file can still be found.
	CodeFileDeleteFailed = "FILE_DELETE_FAILED"

	// CodeRecordDeleteFailed is returned when the file was removed but the record was not.
	CodeRecordDeleteFailed = "FILE_RECORD_DELETE_FAILED"

	// CodeListInvalid is returned when a list query has a negative window or orders by an unknown column.
	CodeListInvalid = "FILE_LIST_INVALID"

	// CodeListFailed is returned when the record store fails to list or count records.
	CodeListFailed = "FILE_LIST_FAILED"

	// CodeFileMissing is returned by RefreshHash when the record exists but its file does not.
	CodeFileMissing = "FILE_CONTENT_MISSING"

	// CodeFileOpenFailed is returned when the stored file cannot be opened for reading.
	CodeFileOpenFailed = "FILE_OPEN_FAILED"
)

// reconcileCodes are the failures that leave a record without a valid file.
//
//nolint:gochecknoglobals // static lookup
var reconcileCodes = []string{CodeDirectoryCreateFailed, CodeFileWriteFailed, CodeRecordDeleteFailed}
