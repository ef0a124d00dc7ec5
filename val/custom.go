package val

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Custom validation tags.
const (
	// TagRelPath accepts a relative slash separated path without "." or ".."
	// segments and without backslashes. The empty string is accepted.
	TagRelPath = "relpath"
)

func registerCustomValidations(v *validator.Validate) {
	_ = v.RegisterValidation(TagRelPath, func(fl validator.FieldLevel) bool {
		return IsRelPath(fl.Field().String())
	})
}

// IsRelPath reports whether p is safe to use as a sub-directory of a storage root.
func IsRelPath(p string) bool {
	if strings.Contains(p, `\`) {
		return false
	}
	for _, seg := range strings.Split(strings.Trim(p, "/"), "/") {
		if seg == "." || seg == ".." {
			return false
		}
	}
	return true
}
