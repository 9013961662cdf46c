package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	nt "tamis/entity"
)

var fields = Catalog{
	{Name: "Age", Operators: []string{"is", "is not"}},
	{Name: "Name", Operators: []string{"contains"}},
}

func TestLookup(t *testing.T) {

	fld, ok := fields.Lookup("Name")
	assert.True(t, ok)
	assert.Equal(t, []string{"contains"}, fld.Operators)

	_, ok = fields.Lookup("Height")
	assert.False(t, ok)

	assert.Equal(t, []string{"is", "is not"}, fields.Operators("Age"))
	assert.Nil(t, fields.Operators("Height"))
}

func TestDefaultOperator(t *testing.T) {

	assert.Equal(t, "is", fields.DefaultOperator("Age"))
	assert.Equal(t, "contains", fields.DefaultOperator("Name"))
	assert.Equal(t, "", fields.DefaultOperator("Height"))
}

func TestFirst(t *testing.T) {

	fld, ok := fields.First()
	assert.True(t, ok)
	assert.Equal(t, "Age", fld.Name)

	_, ok = Catalog{}.First()
	assert.False(t, ok)

	assert.Equal(t, []string{"Age", "Name"}, fields.Names())
}

func TestValidate(t *testing.T) {

	tests := []struct {
		name string
		cat  Catalog
		ok   bool
	}{
		{name: "good", cat: fields, ok: true},
		{name: "empty catalog", cat: Catalog{}, ok: true},
		{name: "no name", cat: Catalog{{Operators: []string{"is"}}}},
		{name: "duplicate", cat: Catalog{{Name: "a", Operators: []string{"is"}}, {Name: "a", Operators: []string{"is"}}}},
		{name: "no operators", cat: Catalog{{Name: "a"}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cat.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNext(t *testing.T) {

	ops := nt.Operators
	assert.Equal(t, nt.OpIsNot, Next(ops, nt.OpIs, 1))
	assert.Equal(t, nt.OpLess, Next(ops, nt.OpIs, -1))
	assert.Equal(t, nt.OpIs, Next(ops, nt.OpLess, 1))
	assert.Equal(t, nt.OpIs, Next(ops, "bogus", 1))
	assert.Equal(t, "x", Next(nil, "x", 1))
}
