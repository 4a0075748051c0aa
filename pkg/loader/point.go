package loader

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/description"
)

// Points are written as an anchor applying to both axes followed by signed
// terms, such as "_Middle-20x", or as one anchor per axis, X first:
// "_Middle-20x _Start-8y". Terms are numbers or {variable} references.
var pointLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Anchor", Pattern: `_(Start|Middle|End)`},
	{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?|\.[0-9]+`},
	{Name: "Variable", Pattern: `\{[A-Za-z_][A-Za-z0-9_]*\}`},
	{Name: "Axis", Pattern: `[xy]`},
	{Name: "Sign", Pattern: `[+-]`},
})

type pointAST struct {
	Parts []*pointPart `@@ @@?`
}

type pointPart struct {
	Anchor string     `@Anchor`
	Terms  []*termAST `@@*`
}

type offsetAST struct {
	Terms []*termAST `@@+`
}

type termAST struct {
	Sign     string   `@Sign?`
	Number   *float64 `( @Number`
	Variable *string  `| @Variable )`
	Axis     string   `@Axis?`
}

var (
	pointParser = participle.MustBuild[pointAST](
		participle.Lexer(pointLexer),
		participle.Elide("Whitespace"),
	)
	offsetParser = participle.MustBuild[offsetAST](
		participle.Lexer(pointLexer),
		participle.Elide("Whitespace"),
	)
)

func (t *termAST) term() description.OffsetTerm {
	out := description.OffsetTerm{Negated: t.Sign == "-"}
	if t.Variable != nil {
		out.Variable = strings.Trim(*t.Variable, "{}")
	} else {
		out.Value = *t.Number
	}
	return out
}

// parsePoint parses a point attribute into a template
func parsePoint(s string) (description.PointTemplate, error) {
	ast, err := pointParser.ParseString("", s)
	if err != nil {
		return description.PointTemplate{}, fmt.Errorf("point %q: %w", s, err)
	}

	var p description.PointTemplate
	if len(ast.Parts) == 1 {
		part := ast.Parts[0]
		anchor, _ := description.ParseAnchor(part.Anchor)
		p.RelativeToX, p.RelativeToY = anchor, anchor
		for _, t := range part.Terms {
			switch t.Axis {
			case "x":
				p.OffsetX = append(p.OffsetX, t.term())
			case "y":
				p.OffsetY = append(p.OffsetY, t.term())
			default:
				return p, fmt.Errorf("point %q: term without axis", s)
			}
		}
		return p, nil
	}

	for i, part := range ast.Parts {
		axis := "x"
		if i == 1 {
			axis = "y"
		}
		anchor, _ := description.ParseAnchor(part.Anchor)
		var offset description.OffsetTemplate
		for _, t := range part.Terms {
			if t.Axis != "" && t.Axis != axis {
				return p, fmt.Errorf("point %q: %s term in the %s part", s, t.Axis, axis)
			}
			offset = append(offset, t.term())
		}
		if axis == "x" {
			p.RelativeToX, p.OffsetX = anchor, offset
		} else {
			p.RelativeToY, p.OffsetY = anchor, offset
		}
	}
	return p, nil
}

// parseOffset parses a single-axis quantity such as a width or radius
func parseOffset(s string) (description.OffsetTemplate, error) {
	ast, err := offsetParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("value %q: %w", s, err)
	}
	out := make(description.OffsetTemplate, 0, len(ast.Terms))
	for _, t := range ast.Terms {
		if t.Axis != "" {
			return nil, fmt.Errorf("value %q: unexpected axis", s)
		}
		out = append(out, t.term())
	}
	return out, nil
}
