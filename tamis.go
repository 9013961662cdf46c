// Package tamis holds a filter tree for the lifetime of an editing session.
//
// The tree is a boolean expression of field/operator/value leaves combined by
// and/or groups. An Editor owns the current root and replaces it wholesale on
// every edit, handing the new and previous roots to an observer. The edits
// themselves live in package edit, the addressing scheme in package path.
package tamis

import (
	"context"

	"github.com/pkg/errors"

	"tamis/catalog"
	"tamis/edit"
	nt "tamis/entity"
	"tamis/ident"
)

// Config is the yaml configuration of an editing session.
type Config struct {
	Ids    string          `yaml:"ids,omitempty"`
	Fields catalog.Catalog `yaml:"fields"`
	Filter nt.Tree         `yaml:"filter,omitempty"`
}

// Validate checks the catalog and id generator kind.
func (cfg *Config) Validate() (err error) {

	err = cfg.Fields.Validate()
	if err != nil {
		return errors.Wrapf(err, "invalid fields")
	}

	_, err = ident.New(cfg.Ids)
	return
}

// New creates an Editor from the configuration.
func (cfg *Config) New(ctx context.Context, onChange Observer, lgr nt.Logger) (edt *Editor, err error) {

	err = cfg.Validate()
	if err != nil {
		return
	}

	ids, err := ident.New(cfg.Ids)
	if err != nil {
		return
	}

	eng := edit.New(cfg.Fields, ids)
	edt = NewEditor(ctx, eng, cfg.Filter.Root, onChange, lgr)
	return
}

// CreateFilter turns initial into a well formed root.
//
// A nil initial yields an or-group holding one default leaf and a bare leaf is
// wrapped in an or-group. Nodes without an id, or repeating an id seen before,
// get a fresh one. Empty groups below the root are dropped and an empty root
// gets a default leaf. The nodes of initial are not modified.
func CreateFilter(eng *edit.Engine, initial nt.Node) nt.Node {

	nrm := normalizer{
		eng:  eng,
		seen: map[string]bool{},
	}

	root := nrm.node(initial)
	if root == nil {
		grp := &nt.Group{ID: nrm.id(""), Condition: nt.Or}
		grp.Children = []nt.Node{nrm.leaf()}
		return grp
	}

	switch nd := root.(type) {
	case *nt.Group:
		if len(nd.Children) == 0 {
			nd.Children = []nt.Node{nrm.leaf()}
		}
	case *nt.Leaf:
		root = &nt.Group{
			ID:        nrm.id(""),
			Condition: nt.Or,
			Children:  []nt.Node{nd},
		}
	}
	return root
}

// unexported

type normalizer struct {
	eng  *edit.Engine
	seen map[string]bool
}

func (nrm normalizer) id(id string) string {

	for id == "" || nrm.seen[id] {
		id = nrm.eng.Ids.NewId()
	}
	nrm.seen[id] = true
	return id
}

func (nrm normalizer) leaf() nt.Node {

	leaf := nrm.eng.NewLeaf()
	leaf.ID = nrm.id(leaf.ID)
	return leaf
}

// node copies a subtree fixing up ids. An empty group comes back empty, but
// only the root keeps one: nested empty groups are dropped by their parent.
func (nrm normalizer) node(node nt.Node) nt.Node {

	switch nd := node.(type) {
	case *nt.Leaf:
		cp := *nd
		cp.ID = nrm.id(nd.ID)
		return &cp

	case *nt.Group:
		cp := &nt.Group{
			ID:        nrm.id(nd.ID),
			Condition: nd.Condition,
			Children:  make([]nt.Node, 0, len(nd.Children)),
		}
		for _, child := range nd.Children {
			norm := nrm.node(child)
			if grp, ok := norm.(*nt.Group); norm == nil || ok && len(grp.Children) == 0 {
				continue
			}
			cp.Children = append(cp.Children, norm)
		}
		return cp
	}

	return nil
}
