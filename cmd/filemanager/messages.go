package main

import (
	"github.com/rise-and-shine/filemanager/filemanager"
	"github.com/rise-and-shine/filemanager/http/fileapi"
	"github.com/rise-and-shine/filemanager/idlock"
	"github.com/rise-and-shine/filemanager/val"
)

const defaultLanguage = "en"

// messages are the user facing texts of error codes, by language.
//
//nolint:gochecknoglobals // static translation table
var messages = map[string]map[string]string{
	defaultLanguage: {
		filemanager.CodeUploadInvalid:         "The file was not uploaded correctly.",
		filemanager.CodePersistFailed:         "The file could not be saved.",
		filemanager.CodeDirectoryCreateFailed: "The file could not be saved.",
		filemanager.CodeFileWriteFailed:       "The file could not be saved.",
		filemanager.CodeHashPersistFailed:     "The file was saved but its checksum is missing.",
		filemanager.CodeNotFound:              "The file does not exist.",
		filemanager.CodeLoadFailed:            "The file could not be loaded.",
		filemanager.CodeFileDeleteFailed:      "The file could not be deleted.",
		filemanager.CodeRecordDeleteFailed:    "The file could not be deleted.",
		filemanager.CodeFileOpenFailed:        "The file could not be read.",
		filemanager.CodeFileMissing:           "The stored file is missing.",
		filemanager.CodeListInvalid:           "The file list request is invalid.",
		filemanager.CodeListFailed:            "The file list could not be loaded.",
		fileapi.CodeInvalidFileID:             "The file id is invalid.",
		idlock.CodeLockTimeout:                "The file is busy, try again later.",
		val.CodeValidationFailed:              "The request is invalid.",
	},
}
