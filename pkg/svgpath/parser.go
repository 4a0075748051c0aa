package svgpath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

var pathLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Separator", Pattern: `[\s,]+`},
	{Name: "Letter", Pattern: `[MmLlHhVvCcSsQqTtAaZz]`},
	{Name: "Number", Pattern: `[-+]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][-+]?[0-9]+)?`},
})

type pathData struct {
	Segments []*pathSegment `@@*`
}

type pathSegment struct {
	Pos lexer.Position

	Letter string    `@Letter`
	Args   []float64 `@Number*`
}

var pathParser = participle.MustBuild[pathData](
	participle.Lexer(pathLexer),
	participle.Elide("Separator"),
)

var argCounts = map[byte]int{
	'M': 2, 'L': 2, 'T': 2,
	'H': 1, 'V': 1,
	'C': 6,
	'S': 4, 'Q': 4,
	'A': 7,
	'Z': 0,
}

// Parse reads SVG path data. Lower-case commands are relative to the current
// point; the result is expressed relative to the path origin (0,0). H and V
// become LineTo, repeated argument groups repeat the command (MoveTo repeats
// as LineTo).
func Parse(data string) ([]Command, error) {
	ast, err := pathParser.ParseString("", data)
	if err != nil {
		return nil, fmt.Errorf("svgpath: %w", err)
	}

	var (
		out          []Command
		current      geom.Point
		subpathStart geom.Point
	)
	for _, seg := range ast.Segments {
		letter := seg.Letter[0]
		upper := strings.ToUpper(seg.Letter)[0]
		relative := letter != upper
		n := argCounts[upper]

		if n == 0 {
			if len(seg.Args) != 0 {
				return nil, fmt.Errorf("svgpath: offset %d: %c takes no arguments", seg.Pos.Offset, letter)
			}
			out = append(out, ClosePath{})
			current = subpathStart
			continue
		}
		if len(seg.Args) == 0 || len(seg.Args)%n != 0 {
			return nil, fmt.Errorf("svgpath: offset %d: %c expects a multiple of %d arguments, got %d",
				seg.Pos.Offset, letter, n, len(seg.Args))
		}

		for i := 0; i < len(seg.Args); i += n {
			args := seg.Args[i : i+n]
			pt := func(x, y float64) geom.Point {
				if relative {
					return geom.Point{X: current.X + x, Y: current.Y + y}
				}
				return geom.Point{X: x, Y: y}
			}

			var cmd Command
			switch upper {
			case 'M':
				to := pt(args[0], args[1])
				if i == 0 {
					cmd = MoveTo{To: to}
					subpathStart = to
				} else {
					cmd = LineTo{To: to}
				}
			case 'L':
				cmd = LineTo{To: pt(args[0], args[1])}
			case 'H':
				x := args[0]
				if relative {
					x += current.X
				}
				cmd = LineTo{To: geom.Point{X: x, Y: current.Y}}
			case 'V':
				y := args[0]
				if relative {
					y += current.Y
				}
				cmd = LineTo{To: geom.Point{X: current.X, Y: y}}
			case 'C':
				cmd = CurveTo{Control1: pt(args[0], args[1]), Control2: pt(args[2], args[3]), To: pt(args[4], args[5])}
			case 'S':
				cmd = SmoothCurveTo{Control2: pt(args[0], args[1]), To: pt(args[2], args[3])}
			case 'Q':
				cmd = QuadraticBezierTo{Control: pt(args[0], args[1]), To: pt(args[2], args[3])}
			case 'T':
				cmd = SmoothQuadraticBezierTo{To: pt(args[0], args[1])}
			case 'A':
				sweep := Counterclockwise
				if args[4] != 0 {
					sweep = Clockwise
				}
				cmd = EllipticalArcTo{
					Radii:    geom.Vector{X: args[0], Y: args[1]},
					Rotation: args[2],
					LargeArc: args[3] != 0,
					Sweep:    sweep,
					To:       pt(args[5], args[6]),
				}
			}
			out = append(out, cmd)
			current, _ = End(cmd)
		}
	}
	return out, nil
}

// Format writes commands back as absolute SVG path data.
func Format(cmds []Command) string {
	var b strings.Builder
	num := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	pair := func(p geom.Point) string { return num(p.X) + " " + num(p.Y) }
	for i, c := range cmds {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c.Name())
		switch c := c.(type) {
		case MoveTo:
			b.WriteString(" " + pair(c.To))
		case LineTo:
			b.WriteString(" " + pair(c.To))
		case CurveTo:
			b.WriteString(" " + pair(c.Control1) + " " + pair(c.Control2) + " " + pair(c.To))
		case QuadraticBezierTo:
			b.WriteString(" " + pair(c.Control) + " " + pair(c.To))
		case SmoothCurveTo:
			b.WriteString(" " + pair(c.Control2) + " " + pair(c.To))
		case SmoothQuadraticBezierTo:
			b.WriteString(" " + pair(c.To))
		case EllipticalArcTo:
			large, sweep := 0, 0
			if c.LargeArc {
				large = 1
			}
			if c.Sweep == Clockwise {
				sweep = 1
			}
			fmt.Fprintf(&b, " %s %s %s %d %d %s", num(c.Radii.X), num(c.Radii.Y), num(c.Rotation), large, sweep, pair(c.To))
		case ClosePath:
		}
	}
	return b.String()
}
