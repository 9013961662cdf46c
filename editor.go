package tamis

import (
	"context"

	"tamis/catalog"
	"tamis/edit"
	nt "tamis/entity"
	"tamis/ident"
	"tamis/path"
)

// Observer is told about each committed edit with the new and the previous root.
type Observer func(next, prev nt.Node)

// Editor owns the current filter tree and applies edits to it one at a time.
//
// Edits requested from within the observer are queued and applied, in order,
// once the observer returns; each one sees the tree left by the edit before it.
// A failed edit is a no-op: the tree is unchanged, the error is logged and,
// for edits that were not queued, returned.
//
// Editor is not safe for concurrent use; it belongs to a single event loop.
type Editor struct {
	engine   *edit.Engine
	root     nt.Node
	observer Observer

	pending  []mutation
	draining bool

	ctx    context.Context
	logger nt.Logger
}

type mutation struct {
	op  string
	pth path.Path
	fn  func(nt.Node) (nt.Node, error)
}

// NewEditor creates an Editor holding CreateFilter(eng, initial).
// onChange and lgr are optional. Ids from eng's generator that are already in
// the tree are skipped.
func NewEditor(ctx context.Context, eng *edit.Engine, initial nt.Node, onChange Observer, lgr nt.Logger) *Editor {

	if lgr == nil {
		lgr = discard{}
	}

	edt := &Editor{
		observer: onChange,
		ctx:      ctx,
		logger:   lgr,
	}

	guarded := *eng
	guarded.Ids = unique{ids: eng.Ids, edt: edt}
	edt.engine = &guarded

	edt.root = CreateFilter(edt.engine, initial)
	return edt
}

// Root returns the current tree.
func (edt *Editor) Root() nt.Node {
	return edt.root
}

// Catalog returns the field catalog edits are resolved against.
func (edt *Editor) Catalog() catalog.Catalog {
	return edt.engine.Catalog
}

// Resolve returns the node at pth in the current tree.
func (edt *Editor) Resolve(pth path.Path) (nt.Node, error) {
	return path.Resolve(edt.root, pth)
}

// SetField sets the field of the leaf at pth and resets its operator.
func (edt *Editor) SetField(pth path.Path, field string) error {
	return edt.apply(mutation{op: "set field", pth: pth, fn: func(root nt.Node) (nt.Node, error) {
		return edt.engine.SetField(root, pth, field)
	}})
}

// SetOperator sets the operator of the leaf at pth.
func (edt *Editor) SetOperator(pth path.Path, operator string) error {
	return edt.apply(mutation{op: "set operator", pth: pth, fn: func(root nt.Node) (nt.Node, error) {
		return edt.engine.SetOperator(root, pth, operator)
	}})
}

// SetValue sets the value of the leaf at pth.
func (edt *Editor) SetValue(pth path.Path, value string) error {
	return edt.apply(mutation{op: "set value", pth: pth, fn: func(root nt.Node) (nt.Node, error) {
		return edt.engine.SetValue(root, pth, value)
	}})
}

// SetCondition switches the group at pth to cnd.
func (edt *Editor) SetCondition(pth path.Path, cnd nt.Condition) error {
	return edt.apply(mutation{op: "set condition", pth: pth, fn: func(root nt.Node) (nt.Node, error) {
		return edt.engine.SetCondition(root, pth, cnd)
	}})
}

// AddFilter appends a default leaf or group to the group at pth.
func (edt *Editor) AddFilter(pth path.Path, kind edit.Kind) error {
	return edt.apply(mutation{op: "add filter", pth: pth, fn: func(root nt.Node) (nt.Node, error) {
		return edt.engine.AddFilter(root, pth, kind)
	}})
}

// DuplicateFilter inserts a copy of node at index of the group at pth.
func (edt *Editor) DuplicateFilter(pth path.Path, index int, node nt.Node) error {
	return edt.apply(mutation{op: "duplicate", pth: pth, fn: func(root nt.Node) (nt.Node, error) {
		return edt.engine.DuplicateFilter(root, pth, index, node)
	}})
}

// TurnIntoGroup wraps child index of the group at pth in a new group.
func (edt *Editor) TurnIntoGroup(pth path.Path, index int) error {
	return edt.apply(mutation{op: "turn into group", pth: pth, fn: func(root nt.Node) (nt.Node, error) {
		return edt.engine.TurnIntoGroup(root, pth, index)
	}})
}

// UnwrapGroup dissolves the group at child index of the group at pth.
func (edt *Editor) UnwrapGroup(pth path.Path, index int) error {
	return edt.apply(mutation{op: "unwrap group", pth: pth, fn: func(root nt.Node) (nt.Node, error) {
		return edt.engine.UnwrapGroup(root, pth, index)
	}})
}

// RemoveFilter removes child index of the group at pth.
func (edt *Editor) RemoveFilter(pth path.Path, index int) error {
	return edt.apply(mutation{op: "remove", pth: pth, fn: func(root nt.Node) (nt.Node, error) {
		return edt.engine.RemoveFilter(root, pth, index)
	}})
}

// Reset replaces the whole tree with CreateFilter(initial).
func (edt *Editor) Reset(initial nt.Node) error {
	return edt.apply(mutation{op: "reset", pth: path.Path{}, fn: func(nt.Node) (nt.Node, error) {
		return CreateFilter(edt.engine, initial), nil
	}})
}

// unexported

func (edt *Editor) apply(mut mutation) (err error) {

	edt.pending = append(edt.pending, mut)
	if edt.draining {
		return
	}

	edt.draining = true
	defer func() {
		edt.draining = false
		edt.pending = nil
	}()

	err = edt.commit(edt.pop())
	for len(edt.pending) > 0 {
		_ = edt.commit(edt.pop()) // logged by commit
	}
	return
}

func (edt *Editor) pop() (mut mutation) {
	mut, edt.pending = edt.pending[0], edt.pending[1:]
	return
}

func (edt *Editor) commit(mut mutation) error {

	prev := edt.root
	next, err := mut.fn(prev)
	if err != nil {
		edt.logger.Error(edt.ctx, "filter edit skipped", err, "op", mut.op, "path", mut.pth.String())
		return err
	}

	next = edt.engine.Rooted(next)
	if next == prev {
		return nil
	}

	edt.root = next
	edt.logger.Info(edt.ctx, "filter edited", "op", mut.op, "path", mut.pth.String(), "root", next.Id())

	if edt.observer != nil {
		edt.observer(next, prev)
	}
	return nil
}

// unique skips ids already present in the editor's tree.
type unique struct {
	ids ident.Generator
	edt *Editor
}

const maxIdTries = 1000

func (unq unique) NewId() (id string) {

	for range maxIdTries {
		id = unq.ids.NewId()
		if _, taken := path.To(unq.edt.root, id); !taken {
			return
		}
	}
	return
}

type discard struct{}

func (discard) Info(ctx context.Context, msg string, kv ...any)             {}
func (discard) Error(ctx context.Context, msg string, err error, kv ...any) {}
