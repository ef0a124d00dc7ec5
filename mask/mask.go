// Package mask flattens structs into ordered key/value maps with sensitive
// values hidden, for printing configuration and request payloads.
package mask

import (
	"reflect"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	tagName = "mask"

	// Placeholder replaces every masked non-zero value.
	Placeholder = "********"
)

// Fields returns the exported fields of v as an ordered map. Nested structs
// are flattened into dotted keys. Fields tagged `mask:"true"` have non-zero
// values replaced by Placeholder. Keys come from the yaml tag, then the json
// tag, then the field name; fields tagged "-" are left out.
func Fields(v any) *orderedmap.OrderedMap[string, any] {
	if v == nil {
		return nil
	}

	om := orderedmap.New[string, any]()
	flatten(om, reflect.ValueOf(v), "")
	return om
}

func flatten(om *orderedmap.OrderedMap[string, any], val reflect.Value, prefix string) {
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			om.Set(prefix, nil)
			return
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		om.Set(prefix, val.Interface())
		return
	}

	typ := val.Type()
	for i := range val.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		name, skip := fieldName(field)
		if skip {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}

		fv := val.Field(i)
		switch {
		case strings.EqualFold(field.Tag.Get(tagName), "true"):
			om.Set(name, hide(fv))
		case isStruct(fv) && !field.Anonymous:
			flatten(om, fv, name)
		case isStruct(fv):
			flatten(om, fv, prefix)
		default:
			om.Set(name, fv.Interface())
		}
	}
}

func isStruct(val reflect.Value) bool {
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return false
		}
		val = val.Elem()
	}
	return val.Kind() == reflect.Struct && val.Type().PkgPath() != "time"
}

func hide(val reflect.Value) any {
	if val.IsZero() {
		return val.Interface()
	}
	return Placeholder
}

func fieldName(field reflect.StructField) (string, bool) {
	for _, tag := range []string{"yaml", "json"} {
		value, ok := field.Tag.Lookup(tag)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(value, ",")
		if name == "-" {
			return "", true
		}
		if name != "" {
			return name, false
		}
	}
	return field.Name, false
}
