// Package catalog resolves fields and their operators.
package catalog

import (
	"github.com/pkg/errors"

	nt "tamis/entity"
)

// Catalog is the ordered list of filterable fields. It is read-only once handed to an editor.
type Catalog []nt.Field

// Lookup finds a field by name.
func (cat Catalog) Lookup(name string) (field nt.Field, ok bool) {
	for _, fld := range cat {
		if fld.Name == name {
			return fld, true
		}
	}
	return
}

// Operators returns the operators declared for a field, nil for an unknown field.
func (cat Catalog) Operators(name string) []string {
	field, _ := cat.Lookup(name)
	return field.Operators
}

// DefaultOperator is the first operator declared for a field.
// An unknown field, or one without operators, yields "".
func (cat Catalog) DefaultOperator(name string) string {
	ops := cat.Operators(name)
	if len(ops) == 0 {
		return ""
	}
	return ops[0]
}

// First returns the field new filters start out with.
func (cat Catalog) First() (field nt.Field, ok bool) {
	if len(cat) == 0 {
		return
	}
	return cat[0], true
}

// Names lists field names in catalog order.
func (cat Catalog) Names() []string {
	names := make([]string, len(cat))
	for i, fld := range cat {
		names[i] = fld.Name
	}
	return names
}

// Validate checks that names are present and unique and that every field has operators.
func (cat Catalog) Validate() error {

	seen := map[string]bool{}
	for i, fld := range cat {
		if fld.Name == "" {
			return errors.Errorf("field %d has no name", i)
		}
		if seen[fld.Name] {
			return errors.Errorf("field %q declared twice", fld.Name)
		}
		seen[fld.Name] = true

		if len(fld.Operators) == 0 {
			return errors.Errorf("field %q has no operators", fld.Name)
		}
	}
	return nil
}

// Next returns the entry after current in options, wrapping around.
// A current value not in options yields the first option.
func Next(options []string, current string, step int) string {

	if len(options) == 0 {
		return current
	}
	for i, opt := range options {
		if opt == current {
			n := len(options)
			return options[((i+step)%n+n)%n]
		}
	}
	return options[0]
}
