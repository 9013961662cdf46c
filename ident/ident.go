// Package ident generates ids for new filter nodes.
package ident

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/xid"
)

// Generator produces collision resistant node ids.
type Generator interface {
	NewId() string
}

// Func adapts a plain function to Generator.
type Func func() string

func (fn Func) NewId() string {
	return fn()
}

// XID generates short, sortable, globally unique ids.
type XID struct{}

func (XID) NewId() string {
	return xid.New().String()
}

// UUID generates random (v4) uuids.
type UUID struct{}

func (UUID) NewId() string {
	return uuid.NewString()
}

// Sequence generates predictable ids: Prefix followed by a counter starting at 1.
// Handy when a test needs to know the next id.
type Sequence struct {
	Prefix string
	count  atomic.Int64
}

func (seq *Sequence) NewId() string {
	return fmt.Sprintf("%s%d", seq.Prefix, seq.count.Add(1))
}

// New returns the generator named by kind, "xid" or "uuid".
// An empty kind selects xid.
func New(kind string) (gen Generator, err error) {

	switch kind {
	case "", "xid":
		gen = XID{}
	case "uuid":
		gen = UUID{}
	default:
		err = errors.Errorf("unknown id generator %q", kind)
	}
	return
}
