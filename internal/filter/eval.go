package filter

import (
	"tabproc/internal/dataset"
)

// node is one vertex of the expression tree. Nodes evaluate to a cell
// value; boolean results are Bool-kind values.
type node interface {
	eval(row Row) dataset.Value
}

type columnNode struct {
	name string
}

func (n *columnNode) eval(row Row) dataset.Value {
	return row(n.name)
}

type literalNode struct {
	value dataset.Value
}

func (n *literalNode) eval(Row) dataset.Value {
	return n.value
}

type andNode struct {
	left, right node
}

func (n *andNode) eval(row Row) dataset.Value {
	return dataset.Bool(truthy(n.left.eval(row)) && truthy(n.right.eval(row)))
}

type orNode struct {
	left, right node
}

func (n *orNode) eval(row Row) dataset.Value {
	return dataset.Bool(truthy(n.left.eval(row)) || truthy(n.right.eval(row)))
}

type notNode struct {
	child node
}

func (n *notNode) eval(row Row) dataset.Value {
	return dataset.Bool(!truthy(n.child.eval(row)))
}

type cmpNode struct {
	op          string
	left, right node
}

func (n *cmpNode) eval(row Row) dataset.Value {
	a, b := n.left.eval(row), n.right.eval(row)
	// Any comparison involving null is false, equality included.
	if a.IsNull() || b.IsNull() {
		return dataset.Bool(false)
	}

	switch n.op {
	case "==":
		return dataset.Bool(dataset.Equal(a, b))
	case "!=":
		return dataset.Bool(!dataset.Equal(a, b))
	}

	c := dataset.Compare(a, b)
	switch n.op {
	case "<":
		return dataset.Bool(c < 0)
	case "<=":
		return dataset.Bool(c <= 0)
	case ">":
		return dataset.Bool(c > 0)
	default: // ">="
		return dataset.Bool(c >= 0)
	}
}

type inNode struct {
	operand node
	items   []dataset.Value
}

func (n *inNode) eval(row Row) dataset.Value {
	v := n.operand.eval(row)
	if v.IsNull() {
		return dataset.Bool(false)
	}
	for _, item := range n.items {
		if dataset.Equal(v, item) {
			return dataset.Bool(true)
		}
	}
	return dataset.Bool(false)
}

// truthy reduces a value to a boolean: booleans are themselves, null is
// false, and anything else is false. Comparisons always produce Bool
// values, so non-bool operands only reach here when a bare non-boolean
// column or literal is used as a condition.
func truthy(v dataset.Value) bool {
	if v.Kind() == dataset.KindBool {
		return v.AsBool()
	}
	return false
}
