package filemanager

import (
	"os"

	"github.com/rise-and-shine/filemanager/filestore"
)

// Config defines where files are stored and how they are addressed.
type Config struct {
	// FileDir is the name of the files directory below BasePath and BaseURL.
	FileDir string `yaml:"file_dir" default:"files" validate:"required"`

	// BasePath is the filesystem root that absolute paths are built from.
	BasePath string `yaml:"base_path" default:"." validate:"required"`

	// BaseURL is the root that absolute URLs are built from, e.g. "https://cdn.example.com"
	// or "//static.example.com". When empty, absolute URLs equal relative ones and the
	// HTTP layer prefixes the request root.
	BaseURL string `yaml:"base_url"`

	// DirMode is the permission mode used for created directories.
	// Zero means filestore.DefaultDirMode.
	DirMode os.FileMode `yaml:"-"`
}

func (c Config) withDefaults() Config {
	if c.FileDir == "" {
		c.FileDir = "files"
	}
	if c.BasePath == "" {
		c.BasePath = "."
	}
	if c.DirMode == 0 {
		c.DirMode = filestore.DefaultDirMode
	}
	return c
}
