package filemanager

import (
	"net/url"
	"strings"

	"github.com/rise-and-shine/filemanager/pathpolicy"
)

// BasePath returns the files directory, prefixed with Config.BasePath when absolute is true.
func (m *Manager) BasePath(absolute bool) string {
	if absolute {
		return pathpolicy.StoragePath(m.cfg.BasePath, m.cfg.FileDir)
	}
	return pathpolicy.StoragePath(m.cfg.FileDir)
}

// BaseURL returns the URL of the files directory, prefixed with Config.BaseURL
// when absolute is true and a base URL is configured.
func (m *Manager) BaseURL(absolute bool) string {
	dir := pathpolicy.StoragePath(m.cfg.FileDir)
	if absolute && m.cfg.BaseURL != "" {
		return strings.TrimRight(m.cfg.BaseURL, pathpolicy.Separator) + pathpolicy.Separator + dir
	}
	return dir
}

// ResolvePath returns the filesystem path of the record's file.
// The result only depends on the record and the configuration.
func (m *Manager) ResolvePath(rec *FileRecord, absolute bool) string {
	return pathpolicy.StoragePath(m.BasePath(absolute), rec.InternalPath())
}

// ResolveURL returns the URL of the record's file. Path segments are escaped.
// The result only depends on the record and the configuration.
func (m *Manager) ResolveURL(rec *FileRecord, absolute bool) string {
	segments := strings.Split(rec.InternalPath(), pathpolicy.Separator)
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return m.BaseURL(absolute) + pathpolicy.Separator + strings.Join(segments, pathpolicy.Separator)
}

// dirPath returns the absolute directory the record's file is stored in.
func (m *Manager) dirPath(rec *FileRecord) string {
	return pathpolicy.StoragePath(m.BasePath(true), rec.RelativeDir())
}
