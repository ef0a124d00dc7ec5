package filemanager_test

import (
	"testing"

	"github.com/rise-and-shine/filemanager/filemanager"
	"github.com/rise-and-shine/filemanager/filemanager/memstore"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	flat := &filemanager.FileRecord{ID: 42, Name: "report", Extension: "pdf"}
	nested := &filemanager.FileRecord{ID: 7, Name: "résumé", Extension: "pdf", Path: strPtr("docs/2024")}

	tests := []struct {
		name     string
		cfg      filemanager.Config
		rec      *filemanager.FileRecord
		absolute bool
		wantPath string
		wantURL  string
	}{
		{
			name:     "defaults relative",
			cfg:      filemanager.Config{},
			rec:      flat,
			wantPath: "files/report-42.pdf",
			wantURL:  "files/report-42.pdf",
		},
		{
			name:     "defaults absolute without base url",
			cfg:      filemanager.Config{},
			rec:      flat,
			absolute: true,
			wantPath: "./files/report-42.pdf",
			wantURL:  "files/report-42.pdf",
		},
		{
			name:     "absolute roots",
			cfg:      filemanager.Config{FileDir: "uploads", BasePath: "/var/www/", BaseURL: "https://cdn.example.com/"},
			rec:      flat,
			absolute: true,
			wantPath: "/var/www/uploads/report-42.pdf",
			wantURL:  "https://cdn.example.com/uploads/report-42.pdf",
		},
		{
			name:     "sub-directory and escaping",
			cfg:      filemanager.Config{BasePath: "/srv", BaseURL: "//static.example.com"},
			rec:      nested,
			absolute: true,
			wantPath: "/srv/files/docs/2024/résumé-7.pdf",
			wantURL:  "//static.example.com/files/docs/2024/r%C3%A9sum%C3%A9-7.pdf",
		},
		{
			name:     "sub-directory relative",
			cfg:      filemanager.Config{BasePath: "/srv", BaseURL: "//static.example.com"},
			rec:      nested,
			wantPath: "files/docs/2024/résumé-7.pdf",
			wantURL:  "files/docs/2024/r%C3%A9sum%C3%A9-7.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr := filemanager.New(tt.cfg, memstore.New())

			assert.Equal(t, tt.wantPath, mgr.ResolvePath(tt.rec, tt.absolute))
			assert.Equal(t, tt.wantURL, mgr.ResolveURL(tt.rec, tt.absolute))
		})
	}
}

func TestBaseRoots(t *testing.T) {
	mgr := filemanager.New(filemanager.Config{
		FileDir:  "files/",
		BasePath: "/var/www",
		BaseURL:  "https://cdn.example.com//",
	}, memstore.New())

	assert.Equal(t, "files", mgr.BasePath(false))
	assert.Equal(t, "/var/www/files", mgr.BasePath(true))
	assert.Equal(t, "files", mgr.BaseURL(false))
	assert.Equal(t, "https://cdn.example.com/files", mgr.BaseURL(true))
}
