// Package pathpolicy derives storage paths and filenames for managed files.
//
// Every function in this package is pure: no filesystem access is performed.
// The derived values are stable for a given input, so callers may cache paths
// and URLs built from them for the whole lifetime of a file record.
package pathpolicy

import (
	"strings"

	"github.com/spf13/cast"
)

// Separator is the separator used in every derived path and URL.
const Separator = "/"

//nolint:gochecknoglobals // static replacer shared by all callers
var nameReplacer = strings.NewReplacer(
	"/", "",
	`\`, "",
	"?", "",
	"%", "",
	"*", "",
	":", "",
	"|", "",
	`"`, "",
	"<", "",
	">", "",
	" ", "-",
)

// SanitizeName removes the characters / \ ? % * : | " < > from raw and
// replaces spaces with hyphens. Applying it twice yields the same result.
func SanitizeName(raw string) string {
	return nameReplacer.Replace(raw)
}

// DeriveDefaultName returns the part of original before its last dot.
// A name without any dot is returned as is.
func DeriveDefaultName(original string) string {
	idx := strings.LastIndex(original, ".")
	if idx < 0 {
		return original
	}
	return original[:idx]
}

// PhysicalFilename returns the on-disk filename {name}-{id}.{extension}.
func PhysicalFilename(name string, id int64, extension string) string {
	return name + "-" + cast.ToString(id) + "." + extension
}

// TrimPath strips leading and trailing separators from a relative path.
func TrimPath(path string) string {
	return strings.Trim(path, Separator)
}

// RelativeDir returns "" for a nil or empty path, otherwise the path with
// exactly one trailing separator.
func RelativeDir(path *string) string {
	if path == nil {
		return ""
	}
	p := strings.TrimRight(*path, Separator)
	if p == "" {
		return ""
	}
	return p + Separator
}

// StoragePath joins the given parts with a single separator between them.
// Empty parts are skipped and a leading separator of the first non-empty
// part is preserved, so absolute roots stay absolute.
func StoragePath(parts ...string) string {
	var (
		segments = make([]string, 0, len(parts))
		rooted   bool
		seen     bool
	)
	for _, part := range parts {
		if part == "" {
			continue
		}
		if !seen {
			rooted = strings.HasPrefix(part, Separator)
			seen = true
		}
		for _, seg := range strings.Split(part, Separator) {
			if seg != "" {
				segments = append(segments, seg)
			}
		}
	}

	joined := strings.Join(segments, Separator)
	if rooted {
		return Separator + joined
	}
	return joined
}
