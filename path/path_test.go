package path

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nt "tamis/entity"
)

func sample() *nt.Group {
	return &nt.Group{ID: "r", Condition: nt.And, Children: []nt.Node{
		&nt.Leaf{ID: "1", Field: "Ages", Operator: "is less than"},
		&nt.Group{ID: "g", Condition: nt.Or, Children: []nt.Node{
			&nt.Leaf{ID: "2", Field: "Ages", Operator: "is"},
			&nt.Group{ID: "h", Condition: nt.And, Children: []nt.Node{
				&nt.Leaf{ID: "3", Field: "Name", Operator: "is greater than"},
				&nt.Leaf{ID: "4", Field: "Ages", Operator: "is not"},
			}},
		}},
	}}
}

func TestResolve(t *testing.T) {

	root := sample()
	grp := root.Children[1].(*nt.Group)

	tests := []struct {
		name string
		pth  Path
		want nt.Node
	}{
		{name: "root", pth: Path{}, want: root},
		{name: "root by condition", pth: Path{Cond(nt.And)}, want: root},
		{name: "first child", pth: Path{Cond(nt.And), Index(0)}, want: root.Children[0]},
		{name: "implicit condition", pth: Path{Index(1), Index(0)}, want: grp.Children[0]},
		{name: "group by condition", pth: Path{Cond(nt.And), Index(1), Cond(nt.Or)}, want: grp},
		{name: "deepest", pth: Path{Cond(nt.And), Index(1), Cond(nt.Or), Index(1), Cond(nt.And), Index(1)},
			want: grp.Children[1].(*nt.Group).Children[1]},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Resolve(root, tc.pth)
			require.NoError(t, err)
			assert.Same(t, tc.want, got)
		})
	}
}

func TestResolveStale(t *testing.T) {

	root := sample()

	tests := []struct {
		name string
		pth  Path
	}{
		{name: "wrong branch", pth: Path{Cond(nt.Or), Index(0)}},
		{name: "index past end", pth: Path{Cond(nt.And), Index(2)}},
		{name: "negative index", pth: Path{Index(-1)}},
		{name: "through a leaf", pth: Path{Index(0), Index(0)}},
		{name: "condition on a leaf", pth: Path{Index(0), Cond(nt.Or)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Resolve(root, tc.pth)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
		})
	}
}

func TestWalkRoundTrip(t *testing.T) {

	root := sample()

	var ids []string
	Walk(root, func(pth Path, node nt.Node) {
		ids = append(ids, node.Id())

		got, err := Resolve(root, pth)
		require.NoError(t, err)
		assert.Same(t, node, got)

		found, ok := To(root, node.Id())
		require.True(t, ok)
		assert.Equal(t, pth, found)
	})

	assert.Equal(t, []string{"r", "1", "g", "2", "h", "3", "4"}, ids)

	_, ok := To(root, "missing")
	assert.False(t, ok)
}

func TestParseString(t *testing.T) {

	pth, err := Parse("and/1/or/0")
	require.NoError(t, err)
	assert.Equal(t, Path{Cond(nt.And), Index(1), Cond(nt.Or), Index(0)}, pth)
	assert.Equal(t, "and/1/or/0", pth.String())

	pth, err = Parse("")
	require.NoError(t, err)
	assert.Empty(t, pth)

	for _, bad := range []string{"and/x", "or/-1", "and//1"} {
		_, err = Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestSplitDepth(t *testing.T) {

	pth := Path{Cond(nt.And), Index(1), Cond(nt.Or), Index(0)}

	parent, idx, ok := pth.Split()
	require.True(t, ok)
	assert.Equal(t, Path{Cond(nt.And), Index(1), Cond(nt.Or)}, parent)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 2, pth.Depth())

	_, _, ok = Path{}.Split()
	assert.False(t, ok)
	_, _, ok = Path{Cond(nt.Or)}.Split()
	assert.False(t, ok)
}

func TestChildDoesNotAlias(t *testing.T) {

	base := make(Path, 0, 8)
	base = append(base, Cond(nt.And), Index(1))

	one := base.Child(nt.Or, 0)
	two := base.Child(nt.Or, 1)
	assert.Equal(t, "and/1/or/0", one.String())
	assert.Equal(t, "and/1/or/1", two.String())
}

func TestKeys(t *testing.T) {

	assert.Equal(t, "root", Key(Path{}))
	assert.Equal(t, "condition-1-condition-0", Key(Path{Cond(nt.And), Index(1), Cond(nt.Or), Index(0)}))

	root := sample()
	assert.Equal(t, "1", GroupKey(root.Children[0]))
	assert.Equal(t, "group-1-group-2-group-3-4", GroupKey(root))
}
