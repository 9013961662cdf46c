package entity

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Tree wraps a root Node so that it can be read from and written to yaml.
// The yaml shape mirrors the in-memory one:
//
//	id: r
//	or:
//	  - {id: "1", field: Age, operator: is, value: "5"}
//
// Ids may be omitted when reading, callers fill them in.
type Tree struct {
	Root Node
}

// IsZero lets yaml omitempty skip an empty tree.
func (tr Tree) IsZero() bool {
	return tr.Root == nil
}

func (tr Tree) MarshalYAML() (any, error) {
	if tr.Root == nil {
		return nil, nil
	}
	return encodeNode(tr.Root), nil
}

func (tr *Tree) UnmarshalYAML(value *yaml.Node) (err error) {
	tr.Root, err = decodeNode(value)
	return
}

func encodeNode(node Node) *yaml.Node {
	out := &yaml.Node{Kind: yaml.MappingNode}

	switch nd := node.(type) {
	case *Leaf:
		if nd.ID != "" {
			out.Content = append(out.Content, scalar("id"), scalar(nd.ID))
		}
		out.Content = append(out.Content,
			scalar("field"), scalar(nd.Field),
			scalar("operator"), scalar(nd.Operator),
			scalar("value"), scalar(nd.Value),
		)
	case *Group:
		if nd.ID != "" {
			out.Content = append(out.Content, scalar("id"), scalar(nd.ID))
		}
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, child := range nd.Children {
			seq.Content = append(seq.Content, encodeNode(child))
		}
		out.Content = append(out.Content, scalar(nd.Condition.String()), seq)
	}

	return out
}

func scalar(str string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: str}
}

func decodeNode(value *yaml.Node) (node Node, err error) {

	switch value.Kind {
	case yaml.DocumentNode:
		if len(value.Content) == 0 {
			return nil, errors.New("empty document")
		}
		return decodeNode(value.Content[0])
	case yaml.AliasNode:
		return decodeNode(value.Alias)
	case yaml.MappingNode:
	default:
		return nil, errors.Errorf("line %d: expected mapping for filter node", value.Line)
	}

	var (
		id, field, operator, val string
		isLeaf                   bool
		groups                   int
		grp                      = &Group{}
	)

	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		item := value.Content[i+1]

		switch key {
		case "id":
			id = item.Value
		case "field":
			field, isLeaf = item.Value, true
		case "operator":
			operator, isLeaf = item.Value, true
		case "value":
			val, isLeaf = item.Value, true
		case "and", "or":
			groups++
			grp.Condition, _ = ParseCondition(key)
			grp.Children, err = decodeChildren(item)
			if err != nil {
				return
			}
		default:
			return nil, errors.Errorf("line %d: unknown filter key %q", item.Line, key)
		}
	}

	switch {
	case groups > 1:
		return nil, errors.Errorf("line %d: filter node has both and and or", value.Line)
	case groups == 1 && isLeaf:
		return nil, errors.Errorf("line %d: filter node mixes group and leaf keys", value.Line)
	case groups == 1:
		grp.ID = id
		return grp, nil
	case !isLeaf:
		return nil, errors.Errorf("line %d: filter node has neither field nor and/or", value.Line)
	}

	return &Leaf{ID: id, Field: field, Operator: operator, Value: val}, nil
}

func decodeChildren(value *yaml.Node) (children []Node, err error) {

	if value.Kind == yaml.AliasNode {
		value = value.Alias
	}
	if value.Kind != yaml.SequenceNode {
		err = errors.Errorf("line %d: expected sequence of filter nodes", value.Line)
		return
	}

	children = make([]Node, 0, len(value.Content))
	for _, item := range value.Content {
		var child Node
		child, err = decodeNode(item)
		if err != nil {
			return
		}
		children = append(children, child)
	}
	return
}
