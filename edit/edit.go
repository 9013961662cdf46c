// Package edit implements the structural edits of a filter tree.
//
// Every operation takes the current root and a path, and returns a new root.
// Nodes are never modified in place: the groups on the way down to the
// edited node are copied and all other subtrees are shared with the previous
// root. An operation that cannot apply returns the root it was given together
// with an error, leaving the caller's tree untouched.
package edit

import (
	"slices"

	"github.com/pkg/errors"

	"tamis/catalog"
	nt "tamis/entity"
	"tamis/ident"
	"tamis/path"
)

var (
	// ErrStalePath is returned when a path no longer resolves, typically because an
	// earlier edit moved or removed the node it addressed.
	ErrStalePath = errors.New("stale path")
	// ErrNotLeaf is returned by leaf edits addressed at a group.
	ErrNotLeaf = errors.New("not a leaf")
	// ErrNotGroup is returned by group edits addressed at a leaf.
	ErrNotGroup = errors.New("not a group")
	// ErrLastFilter is returned when removing the only top-level filter.
	ErrLastFilter = errors.New("cannot remove the last top-level filter")
)

// Kind selects what AddFilter appends.
type Kind int

const (
	Single Kind = iota // a default leaf
	Nested             // an or-group holding a default leaf
)

// ParseKind maps "single"/"group" to a Kind.
func ParseKind(str string) (kind Kind, err error) {
	switch str {
	case "single":
		kind = Single
	case "group":
		kind = Nested
	default:
		err = errors.Errorf("unknown filter kind %q", str)
	}
	return
}

// Engine applies edits using a field catalog for defaults and a generator for new ids.
type Engine struct {
	Catalog catalog.Catalog
	Ids     ident.Generator
}

// New creates an Engine.
func New(cat catalog.Catalog, ids ident.Generator) *Engine {
	return &Engine{
		Catalog: cat,
		Ids:     ids,
	}
}

// NewLeaf returns a leaf on the first catalog field with its default operator and an empty value.
func (eng *Engine) NewLeaf() *nt.Leaf {

	leaf := &nt.Leaf{ID: eng.Ids.NewId()}
	if field, ok := eng.Catalog.First(); ok {
		leaf.Field = field.Name
		leaf.Operator = eng.Catalog.DefaultOperator(field.Name)
	}
	return leaf
}

// SetField changes a leaf's field and resets its operator to the field's default.
// The value is kept. An unknown field leaves the operator empty.
func (eng *Engine) SetField(root nt.Node, pth path.Path, field string) (nt.Node, error) {

	return eng.onLeaf(root, pth, "set field", func(leaf nt.Leaf) nt.Node {
		leaf.Field = field
		leaf.Operator = eng.Catalog.DefaultOperator(field)
		return &leaf
	})
}

// SetOperator changes a leaf's operator. It is not checked against the field.
func (eng *Engine) SetOperator(root nt.Node, pth path.Path, operator string) (nt.Node, error) {

	return eng.onLeaf(root, pth, "set operator", func(leaf nt.Leaf) nt.Node {
		leaf.Operator = operator
		return &leaf
	})
}

// SetValue changes a leaf's value.
// Like the other leaf edits, an edit that leaves the leaf as it was returns root itself.
func (eng *Engine) SetValue(root nt.Node, pth path.Path, value string) (nt.Node, error) {

	return eng.onLeaf(root, pth, "set value", func(leaf nt.Leaf) nt.Node {
		leaf.Value = value
		return &leaf
	})
}

// SetCondition switches a group between and/or, keeping its id and children.
// Setting the current condition returns root itself.
func (eng *Engine) SetCondition(root nt.Node, pth path.Path, cnd nt.Condition) (nt.Node, error) {

	return eng.onGroup(root, pth, "set condition", func(grp *nt.Group) (nt.Node, error) {
		if grp.Condition == cnd {
			return grp, nil
		}
		cp := *grp
		cp.Condition = cnd
		return &cp, nil
	})
}

// AddFilter appends a new default filter to the group at pth.
// When pth addresses a leaf, the leaf is first wrapped in an or-group.
func (eng *Engine) AddFilter(root nt.Node, pth path.Path, kind Kind) (nt.Node, error) {

	return eng.on(root, pth, "add filter", func(node nt.Node) (nt.Node, error) {
		added := eng.fresh(kind)

		grp, ok := node.(*nt.Group)
		if !ok {
			return eng.pair(node, added), nil
		}

		cp := *grp
		cp.Children = append(slices.Clip(grp.Children), added)
		return &cp, nil
	})
}

// DuplicateFilter inserts a copy of node at index of the group at pth.
// The copy and all of its descendants get fresh ids.
// When pth addresses a leaf, the leaf and the copy are wrapped in an or-group.
func (eng *Engine) DuplicateFilter(root nt.Node, pth path.Path, index int, node nt.Node) (nt.Node, error) {

	if node == nil {
		return root, errors.Errorf("duplicate at %q: nothing to duplicate", pth)
	}

	return eng.on(root, pth, "duplicate", func(target nt.Node) (nt.Node, error) {
		grp, ok := target.(*nt.Group)
		if !ok {
			return eng.pair(target, eng.deepCopy(node)), nil
		}
		if index < 0 || index > len(grp.Children) {
			return nil, errors.Wrapf(ErrStalePath, "insert index %d out of range", index)
		}

		cp := *grp
		cp.Children = slices.Insert(slices.Clip(grp.Children), index, eng.deepCopy(node))
		return &cp, nil
	})
}

// TurnIntoGroup wraps the child at index in a new single-child or-group.
func (eng *Engine) TurnIntoGroup(root nt.Node, pth path.Path, index int) (nt.Node, error) {

	return eng.onChild(root, pth, index, "turn into group", func(grp *nt.Group, child nt.Node) (nt.Node, error) {
		wrapper := &nt.Group{
			ID:        eng.Ids.NewId(),
			Condition: nt.Or,
			Children:  []nt.Node{child},
		}
		return replaceAt(grp, index, wrapper), nil
	})
}

// UnwrapGroup dissolves the group at index.
// A single child takes the group's place and its id. Several children are
// spliced into the parent at index, in order, keeping their own ids, and from
// then on combine under the parent's condition: unwrapping an and-group inside
// an or-group changes what the filter matches. When the group is the parent's
// only child, the parent takes over the group's condition instead.
func (eng *Engine) UnwrapGroup(root nt.Node, pth path.Path, index int) (nt.Node, error) {

	return eng.onChild(root, pth, index, "unwrap group", func(grp *nt.Group, child nt.Node) (nt.Node, error) {
		inner, ok := child.(*nt.Group)
		if !ok {
			return nil, errors.Wrapf(ErrNotGroup, "child %d is a leaf", index)
		}

		if len(inner.Children) == 1 {
			return replaceAt(grp, index, nt.WithId(inner.Children[0], inner.ID)), nil
		}

		if len(grp.Children) == 1 {
			cp := *grp
			cp.Condition = inner.Condition
			cp.Children = inner.Children
			return &cp, nil
		}

		children := slices.Concat(grp.Children[:index], inner.Children, grp.Children[index+1:])
		if len(children) == 0 {
			return nil, ErrLastFilter
		}

		cp := *grp
		cp.Children = children
		return &cp, nil
	})
}

// RemoveFilter removes the child at index of the group at pth.
//
// A group left with a single child collapses into that child, which takes the
// group's id. Removing from a group that has only one child below the root
// moves the child out of the group instead. At the root a collapse can yield
// a bare leaf: re-wrapping it is up to the caller (see Rooted).
func (eng *Engine) RemoveFilter(root nt.Node, pth path.Path, index int) (nt.Node, error) {

	atRoot := pth.Depth() == 0

	return eng.onChild(root, pth, index, "remove", func(grp *nt.Group, _ nt.Node) (nt.Node, error) {
		switch len(grp.Children) {
		case 1:
			if atRoot {
				return nil, ErrLastFilter
			}
			return nt.WithId(grp.Children[0], grp.ID), nil
		case 2:
			return nt.WithId(grp.Children[1-index], grp.ID), nil
		}

		cp := *grp
		cp.Children = slices.Delete(slices.Clone(grp.Children), index, index+1)
		return &cp, nil
	})
}

// Rooted wraps a bare leaf in a singleton or-group so that the root is always a group.
func (eng *Engine) Rooted(node nt.Node) nt.Node {

	leaf, ok := node.(*nt.Leaf)
	if !ok {
		return node
	}
	return &nt.Group{
		ID:        eng.Ids.NewId(),
		Condition: nt.Or,
		Children:  []nt.Node{leaf},
	}
}

// unexported

func (eng *Engine) fresh(kind Kind) nt.Node {

	if kind == Nested {
		grp := &nt.Group{ID: eng.Ids.NewId(), Condition: nt.Or}
		grp.Children = []nt.Node{eng.NewLeaf()}
		return grp
	}
	return eng.NewLeaf()
}

func (eng *Engine) pair(first, second nt.Node) nt.Node {
	return &nt.Group{
		ID:        eng.Ids.NewId(),
		Condition: nt.Or,
		Children:  []nt.Node{first, second},
	}
}

func (eng *Engine) deepCopy(node nt.Node) nt.Node {

	switch nd := node.(type) {
	case *nt.Leaf:
		cp := *nd
		cp.ID = eng.Ids.NewId()
		return &cp
	case *nt.Group:
		cp := &nt.Group{
			ID:        eng.Ids.NewId(),
			Condition: nd.Condition,
			Children:  make([]nt.Node, len(nd.Children)),
		}
		for i, child := range nd.Children {
			cp.Children[i] = eng.deepCopy(child)
		}
		return cp
	}
	return node
}

func (eng *Engine) on(root nt.Node, pth path.Path, op string, fn func(nt.Node) (nt.Node, error)) (nt.Node, error) {

	next, err := rewrite(root, pth, fn)
	if err != nil {
		return root, errors.Wrapf(err, "%s at %q", op, pth)
	}
	return next, nil
}

func (eng *Engine) onLeaf(root nt.Node, pth path.Path, op string, fn func(nt.Leaf) nt.Node) (nt.Node, error) {

	return eng.on(root, pth, op, func(node nt.Node) (nt.Node, error) {
		leaf, ok := node.(*nt.Leaf)
		if !ok {
			return nil, errors.Wrapf(ErrNotLeaf, "node %s", node.Id())
		}
		next := fn(*leaf)
		if lf, ok := next.(*nt.Leaf); ok && *lf == *leaf {
			return leaf, nil
		}
		return next, nil
	})
}

func (eng *Engine) onGroup(root nt.Node, pth path.Path, op string, fn func(*nt.Group) (nt.Node, error)) (nt.Node, error) {

	return eng.on(root, pth, op, func(node nt.Node) (nt.Node, error) {
		grp, ok := node.(*nt.Group)
		if !ok {
			return nil, errors.Wrapf(ErrNotGroup, "node %s", node.Id())
		}
		return fn(grp)
	})
}

func (eng *Engine) onChild(root nt.Node, pth path.Path, index int, op string, fn func(*nt.Group, nt.Node) (nt.Node, error)) (nt.Node, error) {

	return eng.onGroup(root, pth, op, func(grp *nt.Group) (nt.Node, error) {
		if index < 0 || index >= len(grp.Children) {
			return nil, errors.Wrapf(ErrStalePath, "index %d out of range", index)
		}
		return fn(grp, grp.Children[index])
	})
}

// rewrite returns root with the node at pth replaced by fn's result.
// Groups along pth are copied, everything else is shared.
// When fn returns the node it was given, root itself is returned.
func rewrite(node nt.Node, pth path.Path, fn func(nt.Node) (nt.Node, error)) (nt.Node, error) {

	if len(pth) == 0 {
		return fn(node)
	}

	grp, ok := node.(*nt.Group)
	if !ok {
		return nil, errors.Wrapf(ErrStalePath, "leaf %s has no step %s", node.Id(), pth[0])
	}

	switch step := pth[0].(type) {
	case path.Cond:
		if grp.Condition != nt.Condition(step) {
			return nil, errors.Wrapf(ErrStalePath, "group %s is %s, not %s", grp.ID, grp.Condition, step)
		}
		return rewrite(grp, pth[1:], fn)

	case path.Index:
		idx := int(step)
		if idx < 0 || idx >= len(grp.Children) {
			return nil, errors.Wrapf(ErrStalePath, "group %s has no child %d", grp.ID, idx)
		}

		child, err := rewrite(grp.Children[idx], pth[1:], fn)
		if err != nil {
			return nil, err
		}
		if child == grp.Children[idx] {
			return grp, nil
		}
		return replaceAt(grp, idx, child), nil
	}

	return nil, errors.Errorf("unknown path step %T", pth[0])
}

func replaceAt(grp *nt.Group, idx int, child nt.Node) *nt.Group {

	cp := *grp
	cp.Children = slices.Clone(grp.Children)
	cp.Children[idx] = child
	return &cp
}
