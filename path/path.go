// Package path addresses nodes within a filter tree.
//
// A Path is a sequence of steps taken from the root. A Cond step asserts the
// condition of the group it is applied to, an Index step descends into that
// group's children. Cond steps are optional: an Index without a preceding Cond
// takes whichever branch the group has. The empty path addresses the root.
package path

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	nt "tamis/entity"
)

// ErrNotFound is returned when a path does not resolve against a tree.
var ErrNotFound = errors.New("path not found")

// Step is either a Cond or an Index.
type Step interface {
	isStep()
	String() string
}

// Cond selects the and/or branch of a group.
type Cond nt.Condition

// Index selects a child by position.
type Index int

func (Cond) isStep()  {}
func (Index) isStep() {}

func (cnd Cond) String() string {
	return nt.Condition(cnd).String()
}

func (idx Index) String() string {
	return strconv.Itoa(int(idx))
}

// Path is an ordered list of steps from the root.
type Path []Step

// Child returns a new path extended by cnd and idx.
func (pth Path) Child(cnd nt.Condition, idx int) Path {
	out := make(Path, len(pth), len(pth)+2)
	copy(out, pth)
	return append(out, Cond(cnd), Index(idx))
}

// Split separates a path ending in an Index step into its parent path and index.
func (pth Path) Split() (parent Path, idx int, ok bool) {
	if len(pth) == 0 {
		return
	}
	last, isIndex := pth[len(pth)-1].(Index)
	if !isIndex {
		return
	}
	return pth[:len(pth)-1], int(last), true
}

// Depth counts the Index steps, ie the nesting level of the addressed node.
func (pth Path) Depth() (depth int) {
	for _, step := range pth {
		if _, ok := step.(Index); ok {
			depth++
		}
	}
	return
}

// String renders a path as slash separated steps, eg "and/1/or/0".
func (pth Path) String() string {
	parts := make([]string, len(pth))
	for i, step := range pth {
		parts[i] = step.String()
	}
	return strings.Join(parts, "/")
}

// Parse reads the String form of a path.
func Parse(str string) (pth Path, err error) {

	pth = Path{}
	if str == "" {
		return
	}

	for _, part := range strings.Split(str, "/") {
		if cnd, ok := nt.ParseCondition(part); ok {
			pth = append(pth, Cond(cnd))
			continue
		}

		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 {
			return nil, errors.Errorf("invalid path step %q in %q", part, str)
		}
		pth = append(pth, Index(idx))
	}
	return
}

// Resolve returns the node addressed by pth.
// A stale path, one whose branch or index no longer exists, yields ErrNotFound.
func Resolve(root nt.Node, pth Path) (node nt.Node, err error) {

	node = root
	for i, step := range pth {
		if node == nil {
			return nil, errors.Wrapf(ErrNotFound, "nil node at %s", pth[:i])
		}

		grp, isGroup := node.(*nt.Group)
		if !isGroup {
			return nil, errors.Wrapf(ErrNotFound, "leaf at %q has no step %s", pth[:i].String(), step)
		}

		switch st := step.(type) {
		case Cond:
			if grp.Condition != nt.Condition(st) {
				return nil, errors.Wrapf(ErrNotFound, "group at %q is %s, not %s", pth[:i].String(), grp.Condition, st)
			}
		case Index:
			if int(st) < 0 || int(st) >= len(grp.Children) {
				return nil, errors.Wrapf(ErrNotFound, "index %d out of range at %q", st, pth[:i].String())
			}
			node = grp.Children[st]
		}
	}
	return
}

// Walk visits every node depth first, parents before children, along with its path.
func Walk(root nt.Node, fn func(pth Path, node nt.Node)) {
	walk(root, Path{}, fn)
}

func walk(node nt.Node, pth Path, fn func(Path, nt.Node)) {
	if node == nil {
		return
	}
	fn(pth, node)

	grp, ok := node.(*nt.Group)
	if !ok {
		return
	}
	for i, child := range grp.Children {
		walk(child, pth.Child(grp.Condition, i), fn)
	}
}

// To returns the path of the node with the given id.
func To(root nt.Node, id string) (found Path, ok bool) {

	Walk(root, func(pth Path, node nt.Node) {
		if !ok && node.Id() == id {
			found, ok = pth, true
		}
	})
	return
}

// Key renders a path as a position key: "root" for the root, otherwise the
// steps joined by "-" with conditions rendered as "condition".
func Key(pth Path) string {

	if len(pth) == 0 {
		return "root"
	}

	parts := make([]string, len(pth))
	for i, step := range pth {
		switch st := step.(type) {
		case Cond:
			parts[i] = "condition"
		case Index:
			parts[i] = st.String()
		}
	}
	return strings.Join(parts, "-")
}

// GroupKey derives an identity key from ids alone: a leaf's key is its id, a
// group's key is "group-" followed by its children's keys.
// The key follows a node when it moves, unlike Key.
func GroupKey(node nt.Node) string {

	grp, ok := node.(*nt.Group)
	if !ok {
		return node.Id()
	}

	parts := make([]string, len(grp.Children))
	for i, child := range grp.Children {
		parts[i] = GroupKey(child)
	}
	return "group-" + strings.Join(parts, "-")
}
