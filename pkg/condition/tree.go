package condition

import (
	"fmt"
	"strings"
)

// Comparison is the operator a Leaf applies.
type Comparison int

const (
	Equal Comparison = iota
	NotEqual
	Greater
	GreaterOrEqual
	Less
	LessOrEqual
	Truthy
	Falsy
)

var comparisonSymbols = [...]string{"==", "!=", ">", ">=", "<", "<=", "", "!"}

func (c Comparison) String() string {
	if c < 0 || int(c) >= len(comparisonSymbols) {
		return fmt.Sprintf("Comparison(%d)", int(c))
	}
	switch c {
	case Truthy:
		return "truthy"
	case Falsy:
		return "falsy"
	}
	return comparisonSymbols[c]
}

// Negate returns the comparison that is true exactly when c is false.
func (c Comparison) Negate() Comparison {
	switch c {
	case Equal:
		return NotEqual
	case NotEqual:
		return Equal
	case Greater:
		return LessOrEqual
	case GreaterOrEqual:
		return Less
	case Less:
		return GreaterOrEqual
	case LessOrEqual:
		return Greater
	case Truthy:
		return Falsy
	case Falsy:
		return Truthy
	}
	panic(fmt.Sprintf("condition: unknown comparison %d", c))
}

// Unary reports whether c ignores the literal.
func (c Comparison) Unary() bool {
	return c == Truthy || c == Falsy
}

// LeafKind selects what a Leaf reads from the instance.
type LeafKind int

const (
	StateLeaf LeafKind = iota
	PropertyLeaf
)

// StateHorizontal is the only instance state a State leaf can test.
const StateHorizontal = "horizontal"

// Leaf compares one instance value against a literal.
type Leaf struct {
	Kind       LeafKind
	Name       string // property name, or StateHorizontal
	Comparison Comparison
	Value      Value // ignored for Truthy/Falsy
}

// Equal reports structural equality.
func (l Leaf) Equal(o Leaf) bool {
	if l.Kind != o.Kind || l.Name != o.Name || l.Comparison != o.Comparison {
		return false
	}
	return l.Comparison.Unary() || l.Value.Equal(o.Value)
}

// Negate returns the leaf with the opposite truth value.
func (l Leaf) Negate() Leaf {
	l.Comparison = l.Comparison.Negate()
	return l
}

func (l Leaf) String() string {
	name := l.Name
	if l.Kind == PropertyLeaf {
		name = "$" + name
	}
	switch l.Comparison {
	case Truthy:
		return name
	case Falsy:
		return "!" + name
	}
	return name + l.Comparison.String() + l.Value.String()
}

// Op is the node type of a Tree.
type Op int

const (
	OpAlways Op = iota
	OpLeaf
	OpAnd
	OpOr
)

// Tree is an immutable boolean expression. The zero Tree is Always.
type Tree struct {
	Op    Op
	Leaf  Leaf
	Left  *Tree
	Right *Tree
}

// Always is the identity condition; it is met by every instance.
var Always = Tree{}

// NewLeaf wraps a Leaf in a Tree.
func NewLeaf(l Leaf) Tree {
	return Tree{Op: OpLeaf, Leaf: l}
}

// Horizontal returns a tree testing the horizontal state.
func Horizontal(horizontal bool) Tree {
	c := Truthy
	if !horizontal {
		c = Falsy
	}
	return NewLeaf(Leaf{Kind: StateLeaf, Name: StateHorizontal, Comparison: c})
}

// Property returns a tree comparing property name against literal.
func Property(name string, c Comparison, literal Value) Tree {
	return NewLeaf(Leaf{Kind: PropertyLeaf, Name: name, Comparison: c, Value: literal})
}

// IsAlways reports whether t is the Always variant.
func (t Tree) IsAlways() bool {
	return t.Op == OpAlways
}

// And combines a and b. Always is the identity, so And(Always, x) == x.
func And(a, b Tree) Tree {
	if a.IsAlways() {
		return b
	}
	if b.IsAlways() {
		return a
	}
	return Tree{Op: OpAnd, Left: &a, Right: &b}
}

// AndAll folds And over ts from the left.
func AndAll(ts ...Tree) Tree {
	out := Always
	for _, t := range ts {
		out = And(out, t)
	}
	return out
}

// Or combines a and b. Or with Always is Always.
func Or(a, b Tree) Tree {
	if a.IsAlways() || b.IsAlways() {
		return Always
	}
	return Tree{Op: OpOr, Left: &a, Right: &b}
}

// Not negates t using De Morgan's laws so that the result contains only
// And/Or nodes and negated leaves. Always cannot be negated.
func Not(t Tree) Tree {
	switch t.Op {
	case OpLeaf:
		return NewLeaf(t.Leaf.Negate())
	case OpAnd:
		return Or(Not(*t.Left), Not(*t.Right))
	case OpOr:
		return And(Not(*t.Left), Not(*t.Right))
	}
	panic("condition: cannot negate an empty condition")
}

// Equal reports structural equality.
func (t Tree) Equal(o Tree) bool {
	if t.Op != o.Op {
		return false
	}
	switch t.Op {
	case OpAlways:
		return true
	case OpLeaf:
		return t.Leaf.Equal(o.Leaf)
	}
	return t.Left.Equal(*o.Left) && t.Right.Equal(*o.Right)
}

// Leaves returns every leaf in left-to-right order.
func (t Tree) Leaves() []Leaf {
	var out []Leaf
	var walk func(Tree)
	walk = func(n Tree) {
		switch n.Op {
		case OpLeaf:
			out = append(out, n.Leaf)
		case OpAnd, OpOr:
			walk(*n.Left)
			walk(*n.Right)
		}
	}
	walk(t)
	return out
}

// String renders t in the modern infix dialect.
func (t Tree) String() string {
	var b strings.Builder
	t.write(&b, OpAlways)
	return b.String()
}

func (t Tree) write(b *strings.Builder, parent Op) {
	switch t.Op {
	case OpAlways:
		b.WriteString("true")
	case OpLeaf:
		b.WriteString(t.Leaf.String())
	case OpAnd, OpOr:
		sep := " && "
		if t.Op == OpOr {
			sep = " || "
		}
		paren := parent == OpAnd && t.Op == OpOr
		if paren {
			b.WriteByte('(')
		}
		t.Left.write(b, t.Op)
		b.WriteString(sep)
		t.Right.write(b, t.Op)
		if paren {
			b.WriteByte(')')
		}
	}
}
