// Package sorter parses client supplied ordering such as "name:asc,id:desc"
// into a list of field/direction pairs restricted to an allow-list.
package sorter

import (
	"slices"
	"strings"
)

// Direction is the ordering direction of a single field.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SQL returns the direction as an SQL keyword. Unknown directions sort ascending.
func (d Direction) SQL() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// Opt orders by one field.
type Opt struct {
	F string
	D Direction
}

// ToSQL renders the option as "field ASC" or "field DESC".
func (o Opt) ToSQL() string {
	return o.F + " " + o.D.SQL()
}

// SortOpts is an ordered list of sort options, the first one being the primary key.
type SortOpts []Opt

// Make is a shorthand for building SortOpts from literals.
func Make(opts ...Opt) SortOpts {
	return opts
}

// MakeFromStr parses a comma separated list of field:direction pairs.
// Pairs that are malformed, name a field outside allowed, use an unknown
// direction or repeat an earlier field are skipped.
func MakeFromStr(s string, allowed ...string) SortOpts {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var opts SortOpts
	for pair := range strings.SplitSeq(s, ",") {
		field, dir, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}

		field = strings.TrimSpace(field)
		if !slices.Contains(allowed, field) || opts.Has(field) {
			continue
		}

		d := Direction(strings.ToLower(strings.TrimSpace(dir)))
		if d != Asc && d != Desc {
			continue
		}

		opts = append(opts, Opt{F: field, D: d})
	}

	return opts
}

// Has reports whether field is already ordered by.
func (s SortOpts) Has(field string) bool {
	return slices.ContainsFunc(s, func(o Opt) bool { return o.F == field })
}

// Fields returns the ordered field names.
func (s SortOpts) Fields() []string {
	fields := make([]string, 0, len(s))
	for _, o := range s {
		fields = append(fields, o.F)
	}
	return fields
}

// String renders the options back into the field:direction form.
func (s SortOpts) String() string {
	parts := make([]string, 0, len(s))
	for _, o := range s {
		parts = append(parts, o.F+":"+string(o.D))
	}
	return strings.Join(parts, ",")
}
