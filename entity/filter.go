package entity

// Condition is the boolean combinator of a Group.
type Condition int

const (
	And Condition = iota
	Or
)

func (cnd Condition) String() string {
	switch cnd {
	case And:
		return "and"
	case Or:
		return "or"
	}
	return "unknown"
}

// Flip returns the other condition.
func (cnd Condition) Flip() Condition {
	if cnd == And {
		return Or
	}
	return And
}

// ParseCondition maps "and"/"or" to a Condition.
func ParseCondition(str string) (cnd Condition, ok bool) {
	switch str {
	case "and":
		return And, true
	case "or":
		return Or, true
	}
	return
}

// Node is a filter tree node, either a *Leaf or a *Group.
// Nodes are treated as immutable once they are part of a published tree.
type Node interface {
	Id() string
	isNode()
}

// Leaf is a single field/operator/value predicate.
type Leaf struct {
	ID       string
	Field    string
	Operator string
	Value    string
}

// Group combines its children with a Condition.
// Children order is display order.
type Group struct {
	ID        string
	Condition Condition
	Children  []Node
}

func (lf *Leaf) Id() string  { return lf.ID }
func (grp *Group) Id() string { return grp.ID }

func (*Leaf) isNode()  {}
func (*Group) isNode() {}

// WithId returns a shallow copy of node carrying id.
// A group copy shares its children with the original.
func WithId(node Node, id string) Node {
	switch nd := node.(type) {
	case *Leaf:
		cp := *nd
		cp.ID = id
		return &cp
	case *Group:
		cp := *nd
		cp.ID = id
		return &cp
	}
	return node
}

// Field is a catalog entry: a filterable field and its legal operators.
type Field struct {
	Name      string   `yaml:"name"`
	Operators []string `yaml:"operators"`
}

// Operator vocabulary understood by the downstream consumers (store/duck and match).
// The edit engine itself treats operators as opaque strings.
const (
	OpIs       = "is"
	OpIsNot    = "is not"
	OpGreater  = "is greater than"
	OpLess     = "is less than"
	OpContains = "contains"
	OpMatches  = "matches"
)

// Operators lists the vocabulary in menu order.
var Operators = []string{OpIs, OpIsNot, OpContains, OpMatches, OpGreater, OpLess}
