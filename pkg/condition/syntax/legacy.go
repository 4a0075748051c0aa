package syntax

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/condition"
)

// legacyLexer tokenizes the comma-separated dialects (legacy and v1.1).
// A property test such as "(eq_Default)" is a single token.
var legacyLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Test", Pattern: `\([A-Za-z]+(_[^)]*)?\)`},
	{Name: "Property", Pattern: `\$[A-Za-z][A-Za-z0-9_]*`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[,|!]`},
})

// legacyConjunction is a comma-separated list of terms, all of which must hold
type legacyConjunction struct {
	Terms []*legacyTerm `@@ ( "," @@ )*`
}

// v11Disjunction adds "|" alternatives on top of the legacy conjunction
type v11Disjunction struct {
	Alternatives []*legacyConjunction `@@ ( "|" @@ )*`
}

type legacyTerm struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Negated  bool   `@"!"?`
	Property string `( @Property`
	Test     string `  @Test?`
	State    string `| @Ident )`
}

var (
	legacyParser = participle.MustBuild[legacyConjunction](
		participle.Lexer(legacyLexer),
		participle.Elide("Whitespace"),
	)
	v11Parser = participle.MustBuild[v11Disjunction](
		participle.Lexer(legacyLexer),
		participle.Elide("Whitespace"),
	)
)

var legacyOperators = map[string]condition.Comparison{
	"eq":    condition.Equal,
	"ne":    condition.NotEqual,
	"neq":   condition.NotEqual,
	"gt":    condition.Greater,
	"ge":    condition.GreaterOrEqual,
	"gte":   condition.GreaterOrEqual,
	"lt":    condition.Less,
	"le":    condition.LessOrEqual,
	"lte":   condition.LessOrEqual,
	"empty": condition.Falsy,
}

type legacyDialect struct {
	stateName string
	either    bool
}

var (
	// Legacy parses format versions before 1.1.
	Legacy Parser = legacyDialect{stateName: "horizontal"}
	// V11 parses format version 1.1.
	V11 Parser = legacyDialect{stateName: "_horizontal", either: true}
)

func (d legacyDialect) Parse(text string, props PropertyTypes) (condition.Tree, error) {
	if strings.TrimSpace(text) == "" {
		return condition.Always, nil
	}
	var alternatives []*legacyConjunction
	if d.either {
		ast, err := v11Parser.ParseString("", text)
		if err != nil {
			return condition.Always, wrapParseError(err)
		}
		alternatives = ast.Alternatives
	} else {
		ast, err := legacyParser.ParseString("", text)
		if err != nil {
			return condition.Always, wrapParseError(err)
		}
		alternatives = []*legacyConjunction{ast}
	}

	var out condition.Tree
	for i, alt := range alternatives {
		conj := condition.Always
		for _, term := range alt.Terms {
			t, err := d.term(term, props)
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

func (d legacyDialect) term(term *legacyTerm, props PropertyTypes) (condition.Tree, error) {
	if term.State != "" {
		if term.State != d.stateName {
			return condition.Always, errorAt(term.Pos, term.EndPos, "unknown state %q", term.State)
		}
		return condition.Horizontal(!term.Negated), nil
	}

	name := strings.TrimPrefix(term.Property, "$")
	kind, ok := props.PropertyKind(name)
	if !ok {
		return condition.Always, errorAt(term.Pos, term.EndPos, "unknown property %q", name)
	}
	leaf := condition.Leaf{Kind: condition.PropertyLeaf, Name: name, Comparison: condition.Truthy}
	if term.Test != "" {
		test := strings.TrimSuffix(strings.TrimPrefix(term.Test, "("), ")")
		opName, literal, _ := strings.Cut(test, "_")
		op, ok := legacyOperators[strings.ToLower(opName)]
		if !ok {
			return condition.Always, errorAt(term.Pos, term.EndPos, "unknown comparison %q", opName)
		}
		leaf.Comparison = op
		if !op.Unary() {
			v, err := condition.ParseValue(kind, literal)
			if err != nil {
				return condition.Always, errorAt(term.Pos, term.EndPos, "%s", err)
			}
			if kind == condition.KindBool && op != condition.Equal && op != condition.NotEqual {
				return condition.Always, errorAt(term.Pos, term.EndPos, "operator %s is not defined for booleans", opName)
			}
			leaf.Value = v
		}
	}
	if term.Negated {
		leaf = leaf.Negate()
	}
	return condition.NewLeaf(leaf), nil
}
