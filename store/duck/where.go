package duck

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	nt "tamis/entity"
)

// Where renders a filter tree as a parameterised sql expression.
// Values are passed as args and bound to "?" placeholders, field names are quoted identifiers.
func Where(node nt.Node) (clause string, args []any, err error) {

	bld := &builder{}
	clause, err = bld.expr(node)
	if err != nil {
		clause = ""
		return
	}

	args = bld.args
	return
}

type builder struct {
	args []any
}

func (bld *builder) expr(node nt.Node) (string, error) {

	switch nd := node.(type) {
	case *nt.Group:
		return bld.group(nd)
	case *nt.Leaf:
		return bld.leaf(nd)
	}
	return "", errors.Errorf("cannot render %T", node)
}

func (bld *builder) group(grp *nt.Group) (string, error) {

	if len(grp.Children) == 0 {
		if grp.Condition == nt.And {
			return "TRUE", nil
		}
		return "FALSE", nil
	}

	joiner := " AND "
	if grp.Condition == nt.Or {
		joiner = " OR "
	}

	exprs := make([]string, 0, len(grp.Children))
	for _, child := range grp.Children {
		expr, err := bld.expr(child)
		if err != nil {
			return "", err
		}
		exprs = append(exprs, expr)
	}

	return "(" + strings.Join(exprs, joiner) + ")", nil
}

func (bld *builder) leaf(leaf *nt.Leaf) (expr string, err error) {

	if leaf.Field == "" {
		err = errors.Errorf("filter %s has no field", leaf.ID)
		return
	}
	col := quote(leaf.Field)

	switch leaf.Operator {
	case nt.OpIs:
		expr = fmt.Sprintf("%s = ?", col)
	case nt.OpIsNot:
		expr = fmt.Sprintf("%s <> ?", col)
	case nt.OpGreater:
		expr = fmt.Sprintf("%s > ?", col)
	case nt.OpLess:
		expr = fmt.Sprintf("%s < ?", col)
	case nt.OpContains:
		expr = fmt.Sprintf("contains(%s::VARCHAR, ?)", col)
	case nt.OpMatches:
		expr = fmt.Sprintf("regexp_matches(%s::VARCHAR, ?)", col)
	default:
		err = errors.Errorf("filter %s: unknown operator %q", leaf.ID, leaf.Operator)
		return
	}

	bld.args = append(bld.args, leaf.Value)
	return
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
