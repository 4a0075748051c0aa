package syntax

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/condition"
)

// modernLexer tokenizes the infix dialect. A bare Word runs until
// whitespace, an operator or a parenthesis, so values such as 1k or
// IEC-60617 need no quotes. Negative numbers start with "-" and lex as Number.
var modernLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Property", Pattern: `\$[A-Za-z][A-Za-z0-9_]*`},
	{Name: "Word", Pattern: `[A-Za-z0-9_.][A-Za-z0-9_.+\-]*`},
	{Name: "Number", Pattern: `-[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?`},
	{Name: "String", Pattern: `"[^"]*"|'[^']*'`},
	{Name: "Operator", Pattern: `&&|\|\||==|!=|>=|<=|[<>!()]`},
})

type modernDisjunction struct {
	Alternatives []*modernConjunction `@@ ( "||" @@ )*`
}

type modernConjunction struct {
	Terms []*modernTerm `@@ ( "&&" @@ )*`
}

type modernTerm struct {
	Negated    bool               `@"!"?`
	Group      *modernDisjunction `( "(" @@ ")"`
	Comparison *modernComparison  `| @@ )`
}

type modernComparison struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Property string         `( @Property`
	State    string         `| @Word )`
	Operator string         `( @( "==" | "!=" | ">=" | "<=" | ">" | "<" )`
	Literal  *modernLiteral `  @@ )?`
}

type modernLiteral struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Number *string `  @Number`
	Quoted *string `| @String`
	Word   *string `| @Word`
}

func (l *modernLiteral) text() string {
	switch {
	case l.Number != nil:
		return *l.Number
	case l.Quoted != nil:
		return (*l.Quoted)[1 : len(*l.Quoted)-1]
	}
	return *l.Word
}

var modernParser = participle.MustBuild[modernDisjunction](
	participle.Lexer(modernLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

var modernOperators = map[string]condition.Comparison{
	"==": condition.Equal,
	"!=": condition.NotEqual,
	">":  condition.Greater,
	">=": condition.GreaterOrEqual,
	"<":  condition.Less,
	"<=": condition.LessOrEqual,
}

type modernDialect struct{}

// Modern parses format versions 1.2 and later.
var Modern Parser = modernDialect{}

func (modernDialect) Parse(text string, props PropertyTypes) (condition.Tree, error) {
	if strings.TrimSpace(text) == "" {
		return condition.Always, nil
	}
	ast, err := modernParser.ParseString("", text)
	if err != nil {
		return condition.Always, wrapParseError(err)
	}
	return modernDisjunctionTree(ast, props)
}

func modernDisjunctionTree(d *modernDisjunction, props PropertyTypes) (condition.Tree, error) {
	var out condition.Tree
	for i, alt := range d.Alternatives {
		conj := condition.Always
		for _, term := range alt.Terms {
			t, err := modernTermTree(term, props)
			if err != nil {
				return condition.Always, err
			}
			conj = condition.And(conj, t)
		}
		if i == 0 {
			out = conj
		} else {
			out = condition.Or(out, conj)
		}
	}
	return out, nil
}

func modernTermTree(term *modernTerm, props PropertyTypes) (condition.Tree, error) {
	var t condition.Tree
	var err error
	if term.Group != nil {
		t, err = modernDisjunctionTree(term.Group, props)
	} else {
		t, err = modernComparisonTree(term.Comparison, props)
	}
	if err != nil {
		return condition.Always, err
	}
	if term.Negated {
		t = condition.Not(t)
	}
	return t, nil
}

func modernComparisonTree(c *modernComparison, props PropertyTypes) (condition.Tree, error) {
	if c.State != "" {
		if c.State != condition.StateHorizontal {
			return condition.Always, errorAt(c.Pos, c.EndPos, "unknown state %q", c.State)
		}
		if c.Operator != "" {
			return condition.Always, errorAt(c.Pos, c.EndPos, "state %q cannot be compared", c.State)
		}
		return condition.Horizontal(true), nil
	}

	name := strings.TrimPrefix(c.Property, "$")
	kind, ok := props.PropertyKind(name)
	if !ok {
		return condition.Always, errorAt(c.Pos, c.EndPos, "unknown property %q", name)
	}
	if c.Operator == "" {
		return condition.Property(name, condition.Truthy, condition.Value{}), nil
	}
	op := modernOperators[c.Operator]
	if kind == condition.KindBool && op != condition.Equal && op != condition.NotEqual {
		return condition.Always, errorAt(c.Pos, c.EndPos, "operator %s is not defined for booleans", c.Operator)
	}
	v, err := condition.ParseValue(kind, c.Literal.text())
	if err != nil {
		return condition.Always, errorAt(c.Literal.Pos, c.Literal.EndPos, "%s", err)
	}
	return condition.Property(name, op, v), nil
}
