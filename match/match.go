// Package match evaluates a filter tree against flat records in memory.
package match

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"

	nt "tamis/entity"
)

// Record maps field names to values.
type Record map[string]string

// FromMap flattens decoded json into a Record, joining nested keys with ".".
func FromMap(data map[string]any) Record {

	rec := Record{}
	flatten(rec, "", data)
	return rec
}

func flatten(rec Record, prefix string, data map[string]any) {

	for key, val := range data {
		if prefix != "" {
			key = prefix + "." + key
		}

		switch vl := val.(type) {
		case map[string]any:
			flatten(rec, key, vl)
		case nil:
			rec[key] = ""
		case string:
			rec[key] = vl
		default:
			rec[key] = fmt.Sprint(vl)
		}
	}
}

// MatchTimeout bounds a single "matches" evaluation; a pattern that runs out of
// time does not match.
var MatchTimeout = time.Second

// Matcher evaluates one filter. Regular expressions are compiled once, up front.
type Matcher struct {
	filter  nt.Node
	regexes map[string]*regexp2.Regexp
}

// New checks every leaf's operator and compiles the patterns of "matches" leaves.
func New(filter nt.Node) (mtc *Matcher, err error) {

	mtc = &Matcher{
		filter:  filter,
		regexes: map[string]*regexp2.Regexp{},
	}

	err = mtc.prepare(filter)
	if err != nil {
		mtc = nil
	}
	return
}

// Match reports whether rec satisfies the filter.
// A field missing from rec compares as the empty string.
func (mtc *Matcher) Match(rec Record) bool {
	return mtc.match(mtc.filter, rec)
}

// Matches is a one-shot New and Match.
func Matches(filter nt.Node, rec Record) (ok bool, err error) {

	mtc, err := New(filter)
	if err != nil {
		return
	}
	ok = mtc.Match(rec)
	return
}

// unexported

func (mtc *Matcher) prepare(node nt.Node) error {

	switch nd := node.(type) {
	case *nt.Group:
		for _, child := range nd.Children {
			if err := mtc.prepare(child); err != nil {
				return err
			}
		}
	case *nt.Leaf:
		switch nd.Operator {
		case nt.OpIs, nt.OpIsNot, nt.OpGreater, nt.OpLess, nt.OpContains:
		case nt.OpMatches:
			if _, ok := mtc.regexes[nd.Value]; ok {
				return nil
			}
			re, err := regexp2.Compile(nd.Value, regexp2.None)
			if err != nil {
				return errors.Wrapf(err, "filter %s: bad pattern %q", nd.ID, nd.Value)
			}
			re.MatchTimeout = MatchTimeout
			mtc.regexes[nd.Value] = re
		default:
			return errors.Errorf("filter %s: unknown operator %q", nd.ID, nd.Operator)
		}
	case nil:
		return errors.New("no filter")
	}
	return nil
}

func (mtc *Matcher) match(node nt.Node, rec Record) bool {

	switch nd := node.(type) {
	case *nt.Group:
		if nd.Condition == nt.And {
			for _, child := range nd.Children {
				if !mtc.match(child, rec) {
					return false
				}
			}
			return true
		}
		for _, child := range nd.Children {
			if mtc.match(child, rec) {
				return true
			}
		}
		return false

	case *nt.Leaf:
		return mtc.leaf(nd, rec[nd.Field])
	}
	return false
}

func (mtc *Matcher) leaf(leaf *nt.Leaf, have string) bool {

	switch leaf.Operator {
	case nt.OpIs:
		return compare(have, leaf.Value) == 0
	case nt.OpIsNot:
		return compare(have, leaf.Value) != 0
	case nt.OpGreater:
		return compare(have, leaf.Value) > 0
	case nt.OpLess:
		return compare(have, leaf.Value) < 0
	case nt.OpContains:
		return strings.Contains(have, leaf.Value)
	case nt.OpMatches:
		ok, err := mtc.regexes[leaf.Value].MatchString(have)
		return err == nil && ok
	}
	return false
}

// compare orders numerically when both sides are numbers, lexically otherwise.
func compare(have, want string) int {

	hv, herr := strconv.ParseFloat(have, 64)
	wv, werr := strconv.ParseFloat(want, 64)
	if herr != nil || werr != nil {
		return strings.Compare(have, want)
	}

	switch {
	case hv < wv:
		return -1
	case hv > wv:
		return 1
	}
	return 0
}
