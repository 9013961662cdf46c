package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTreeDecode(t *testing.T) {

	data := `
and:
  - id: "1"
    field: Ages
    operator: is less than
    value: ""
  - or:
      - {id: "2", field: Ages, operator: is, value: ""}
      - and:
          - {id: "3", field: Name, operator: is greater than, value: ""}
          - {id: "4", field: Ages, operator: is not, value: "7"}
`
	var tr Tree
	err := yaml.Unmarshal([]byte(data), &tr)
	require.NoError(t, err)

	root, ok := tr.Root.(*Group)
	require.True(t, ok)
	assert.Equal(t, And, root.Condition)
	assert.Equal(t, "", root.ID)
	require.Len(t, root.Children, 2)

	assert.Equal(t, &Leaf{ID: "1", Field: "Ages", Operator: "is less than"}, root.Children[0])

	inner := root.Children[1].(*Group)
	assert.Equal(t, Or, inner.Condition)
	deepest := inner.Children[1].(*Group)
	assert.Equal(t, &Leaf{ID: "4", Field: "Ages", Operator: "is not", Value: "7"}, deepest.Children[1])
}

func TestTreeDecodeRejects(t *testing.T) {

	tests := []struct {
		name string
		data string
	}{
		{name: "both conditions", data: "{and: [], or: []}"},
		{name: "group and leaf keys", data: "{field: a, or: []}"},
		{name: "no keys", data: "{id: x}"},
		{name: "unknown key", data: "{field: a, colour: red}"},
		{name: "scalar", data: "hello"},
		{name: "children not a list", data: "{or: {field: a}}"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var tr Tree
			err := yaml.Unmarshal([]byte(tc.data), &tr)
			assert.Error(t, err)
		})
	}
}

func TestTreeEncode(t *testing.T) {

	tr := Tree{Root: &Group{ID: "r", Condition: Or, Children: []Node{
		&Leaf{ID: "1", Field: "Age", Operator: "is", Value: "5"},
	}}}

	data, err := yaml.Marshal(tr)
	require.NoError(t, err)
	assert.Equal(t, "id: r\nor:\n    - id: \"1\"\n      field: Age\n      operator: is\n      value: \"5\"\n", string(data))

	var back Tree
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, tr, back)
}

func TestWithId(t *testing.T) {

	child := &Leaf{ID: "c", Field: "f"}
	grp := &Group{ID: "g", Condition: And, Children: []Node{child}}

	cp := WithId(grp, "x").(*Group)
	assert.Equal(t, "x", cp.ID)
	assert.Equal(t, "g", grp.ID)
	assert.Same(t, child, cp.Children[0])

	lf := WithId(child, "y").(*Leaf)
	assert.Equal(t, "y", lf.ID)
	assert.Equal(t, "c", child.ID)
}

func TestCondition(t *testing.T) {

	assert.Equal(t, "and", And.String())
	assert.Equal(t, "or", Or.String())
	assert.Equal(t, Or, And.Flip())
	assert.Equal(t, And, Or.Flip())

	cnd, ok := ParseCondition("or")
	assert.True(t, ok)
	assert.Equal(t, Or, cnd)

	_, ok = ParseCondition("xor")
	assert.False(t, ok)
}
