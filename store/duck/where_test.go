package duck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tamis/catalog"
	nt "tamis/entity"
)

func TestWhere(t *testing.T) {

	tests := []struct {
		name   string
		node   nt.Node
		clause string
		args   []any
	}{
		{
			name:   "leaf",
			node:   &nt.Leaf{ID: "1", Field: "level", Operator: nt.OpIs, Value: "error"},
			clause: `"level" = ?`,
			args:   []any{"error"},
		},
		{
			name: "nested",
			node: &nt.Group{ID: "r", Condition: nt.And, Children: []nt.Node{
				&nt.Leaf{ID: "1", Field: "level", Operator: nt.OpIsNot, Value: "debug"},
				&nt.Group{ID: "g", Condition: nt.Or, Children: []nt.Node{
					&nt.Leaf{ID: "2", Field: "age", Operator: nt.OpGreater, Value: "30"},
					&nt.Leaf{ID: "3", Field: "age", Operator: nt.OpLess, Value: "5"},
					&nt.Leaf{ID: "4", Field: "name", Operator: nt.OpMatches, Value: "^B"},
				}},
				&nt.Leaf{ID: "5", Field: "msg", Operator: nt.OpContains, Value: "timeout"},
			}},
			clause: `("level" <> ? AND ("age" > ? OR "age" < ? OR regexp_matches("name"::VARCHAR, ?)) AND contains("msg"::VARCHAR, ?))`,
			args:   []any{"debug", "30", "5", "^B", "timeout"},
		},
		{
			name:   "quoted identifier",
			node:   &nt.Leaf{ID: "1", Field: `we"ird`, Operator: nt.OpIs, Value: "x"},
			clause: `"we""ird" = ?`,
			args:   []any{"x"},
		},
		{
			name:   "empty or",
			node:   &nt.Group{ID: "r", Condition: nt.Or},
			clause: "FALSE",
		},
		{
			name:   "empty and",
			node:   &nt.Group{ID: "r", Condition: nt.And},
			clause: "TRUE",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clause, args, err := Where(tc.node)
			require.NoError(t, err)
			assert.Equal(t, tc.clause, clause)
			assert.Equal(t, tc.args, args)
		})
	}
}

func TestWhereErrors(t *testing.T) {

	_, _, err := Where(&nt.Group{ID: "r", Condition: nt.Or, Children: []nt.Node{
		&nt.Leaf{ID: "1", Field: "a", Operator: "is about", Value: "1"},
	}})
	assert.ErrorContains(t, err, `unknown operator "is about"`)

	_, _, err = Where(&nt.Leaf{ID: "1", Operator: nt.OpIs})
	assert.ErrorContains(t, err, "no field")

	_, _, err = Where(nil)
	assert.Error(t, err)
}

func TestFieldsCatalog(t *testing.T) {

	cat := FieldsCatalog([]Column{
		{Name: "ts", Type: "TIMESTAMP"},
		{Name: "age", Type: "BIGINT"},
		{Name: "level", Type: "VARCHAR"},
	})

	assert.Equal(t, catalog.Catalog{
		{Name: "ts", Operators: orderedOps},
		{Name: "age", Operators: orderedOps},
		{Name: "level", Operators: textOps},
	}, cat)
}
