package pathpolicy_test

import (
	"testing"

	"github.com/rise-and-shine/filemanager/pathpolicy"
	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "illegal characters removed", raw: "test/\\?%*:|\"<>.txt", want: "test.txt"},
		{name: "spaces become hyphens", raw: "test 1.png", want: "test-1.png"},
		{name: "clean name untouched", raw: "report-2024", want: "report-2024"},
		{name: "empty", raw: "", want: ""},
		{name: "only illegal", raw: "<>|", want: ""},
		{name: "unicode kept", raw: "отчёт за май", want: "отчёт-за-май"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pathpolicy.SanitizeName(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, pathpolicy.SanitizeName(got), "sanitize must be idempotent")
		})
	}
}

func TestDeriveDefaultName(t *testing.T) {
	tests := []struct {
		original string
		want     string
	}{
		{original: "report.pdf", want: "report"},
		{original: "archive.tar.gz", want: "archive.tar"},
		{original: "README", want: "README"},
		{original: ".env", want: ""},
		{original: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.original, func(t *testing.T) {
			assert.Equal(t, tt.want, pathpolicy.DeriveDefaultName(tt.original))
		})
	}
}

func TestPhysicalFilename(t *testing.T) {
	assert.Equal(t, "report-42.pdf", pathpolicy.PhysicalFilename("report", 42, "pdf"))
	assert.Equal(t, "a-b-1.tar", pathpolicy.PhysicalFilename("a-b", 1, "tar"))
}

func TestRelativeDir(t *testing.T) {
	tests := []struct {
		name string
		path *string
		want string
	}{
		{name: "nil", path: nil, want: ""},
		{name: "empty", path: ptr(""), want: ""},
		{name: "single", path: ptr("avatars"), want: "avatars/"},
		{name: "nested", path: ptr("users/7"), want: "users/7/"},
		{name: "trailing separators", path: ptr("users//"), want: "users/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pathpolicy.RelativeDir(tt.path))
		})
	}
}

func TestTrimPath(t *testing.T) {
	assert.Equal(t, "a/b", pathpolicy.TrimPath("/a/b/"))
	assert.Equal(t, "", pathpolicy.TrimPath("///"))
}

func TestStoragePath(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{name: "relative base", parts: []string{"files", "docs/", "a-1.pdf"}, want: "files/docs/a-1.pdf"},
		{name: "absolute base", parts: []string{"/var/www/", "files", "", "a-1.pdf"}, want: "/var/www/files/a-1.pdf"},
		{name: "double separators", parts: []string{"/srv//data/", "/files/", "x//y/", "/f-2.txt"}, want: "/srv/data/files/x/y/f-2.txt"},
		{name: "root only", parts: []string{"/", "files", "f-3.txt"}, want: "/files/f-3.txt"},
		{name: "no parts", parts: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pathpolicy.StoragePath(tt.parts...)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "//")
		})
	}
}
