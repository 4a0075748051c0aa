package description

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var formatLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Escape", Pattern: `\\(u[0-9A-Fa-f]{4}|.)`},
	{Name: "Ref", Pattern: `\$[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Transform", Pattern: `\([a-z]+_[^)]*\)`},
	{Name: "Text", Pattern: `[^\\$]+|\$`},
})

type formatString struct {
	Parts []*formatPart `@@*`
}

type formatPart struct {
	Escape *string    `  @Escape`
	Ref    *formatRef `| @@`
	Text   *string    `| ( @Text | @Transform )`
}

type formatRef struct {
	Name       string   `@Ref`
	Transforms []string `@Transform*`
}

var formatParser = participle.MustBuild[formatString](
	participle.Lexer(formatLexer),
)

// Format is a parsed text template. Literal text is kept verbatim except
// for escapes; $Name inserts a property, optionally followed by numeric
// transforms such as $Name(div_1000) or $Name(round_2).
type Format struct {
	parts []formatSegment
}

type formatSegment struct {
	literal    string
	ref        string
	transforms []transform
}

type transform struct {
	op  string
	arg float64
}

// ParseFormat parses a text template.
func ParseFormat(text string) (Format, error) {
	ast, err := formatParser.ParseString("", text)
	if err != nil {
		return Format{}, fmt.Errorf("description: format %q: %w", text, err)
	}
	var f Format
	for _, p := range ast.Parts {
		switch {
		case p.Escape != nil:
			s, err := unescape(*p.Escape)
			if err != nil {
				return Format{}, err
			}
			f.parts = append(f.parts, formatSegment{literal: s})
		case p.Ref != nil:
			seg := formatSegment{ref: strings.TrimPrefix(p.Ref.Name, "$")}
			for _, raw := range p.Ref.Transforms {
				tr, err := parseTransform(raw)
				if err != nil {
					return Format{}, err
				}
				seg.transforms = append(seg.transforms, tr)
			}
			f.parts = append(f.parts, seg)
		case p.Text != nil:
			f.parts = append(f.parts, formatSegment{literal: *p.Text})
		}
	}
	return f, nil
}

func unescape(s string) (string, error) {
	if strings.HasPrefix(s, `\u`) {
		r, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return "", fmt.Errorf("description: bad escape %q", s)
		}
		return string(rune(r)), nil
	}
	return s[1:], nil
}

func parseTransform(raw string) (transform, error) {
	body := strings.TrimSuffix(strings.TrimPrefix(raw, "("), ")")
	op, arg, _ := strings.Cut(body, "_")
	n, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return transform{}, fmt.Errorf("description: transform %q: bad argument", raw)
	}
	switch op {
	case "div":
		if n == 0 {
			return transform{}, fmt.Errorf("description: transform %q divides by zero", raw)
		}
	case "mul", "round":
	default:
		return transform{}, fmt.Errorf("description: unknown transform %q", raw)
	}
	return transform{op: op, arg: n}, nil
}

func (t transform) apply(v float64) float64 {
	switch t.op {
	case "div":
		return v / t.arg
	case "mul":
		return v * t.arg
	case "round":
		p := math.Pow(10, t.arg)
		return math.Round(v*p) / p
	}
	return v
}

// References returns the property names the template inserts.
func (f Format) References() []string {
	var out []string
	for _, p := range f.parts {
		if p.ref != "" {
			out = append(out, p.ref)
		}
	}
	return out
}

// Expand renders the template. Plain references are resolved with lookup;
// references carrying transforms use the raw numeric value from raw.
func (f Format) Expand(lookup func(name string) string, raw func(name string) (float64, bool)) string {
	var b strings.Builder
	for _, p := range f.parts {
		if p.ref == "" {
			b.WriteString(p.literal)
			continue
		}
		if len(p.transforms) == 0 {
			b.WriteString(lookup(p.ref))
			continue
		}
		v, ok := raw(p.ref)
		if !ok {
			b.WriteString(lookup(p.ref))
			continue
		}
		for _, t := range p.transforms {
			v = t.apply(v)
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return b.String()
}
