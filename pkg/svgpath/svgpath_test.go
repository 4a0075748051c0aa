package svgpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

func TestParseAbsoluteAndRelative(t *testing.T) {
	cmds, err := Parse("M 0 0 L 10,0 h5 v-5 l-5 0 Z")
	require.NoError(t, err)
	assert.Equal(t, []Command{
		MoveTo{To: geom.Pt(0, 0)},
		LineTo{To: geom.Pt(10, 0)},
		LineTo{To: geom.Pt(15, 0)},
		LineTo{To: geom.Pt(15, -5)},
		LineTo{To: geom.Pt(10, -5)},
		ClosePath{},
	}, cmds)
}

func TestParseRepeatedMoveBecomesLine(t *testing.T) {
	cmds, err := Parse("m 1 1 2 2")
	require.NoError(t, err)
	assert.Equal(t, []Command{
		MoveTo{To: geom.Pt(1, 1)},
		LineTo{To: geom.Pt(3, 3)},
	}, cmds)
}

func TestParseCurvesAndArcs(t *testing.T) {
	cmds, err := Parse("M0 0 C 1 2 3 4 5 6 S 7 8 9 10 Q 1 1 2 2 T 3 3 A 5 4 30 1 0 10 0")
	require.NoError(t, err)
	require.Len(t, cmds, 6)
	assert.Equal(t, CurveTo{Control1: geom.Pt(1, 2), Control2: geom.Pt(3, 4), To: geom.Pt(5, 6)}, cmds[1])
	assert.Equal(t, SmoothCurveTo{Control2: geom.Pt(7, 8), To: geom.Pt(9, 10)}, cmds[2])
	assert.Equal(t, QuadraticBezierTo{Control: geom.Pt(1, 1), To: geom.Pt(2, 2)}, cmds[3])
	assert.Equal(t, SmoothQuadraticBezierTo{To: geom.Pt(3, 3)}, cmds[4])
	assert.Equal(t, EllipticalArcTo{
		Radii:    geom.Vector{X: 5, Y: 4},
		Rotation: 30,
		LargeArc: true,
		Sweep:    Counterclockwise,
		To:       geom.Pt(10, 0),
	}, cmds[5])
}

func TestParseErrors(t *testing.T) {
	for _, data := range []string{"M 1", "L 1 2 3", "Z 4", "X 1 2", "M a b"} {
		_, err := Parse(data)
		assert.Error(t, err, data)
	}
}

func TestFlipRoundTrip(t *testing.T) {
	cmds := []Command{
		MoveTo{To: geom.Pt(3, 4)},
		LineTo{To: geom.Pt(-7, 2)},
		CurveTo{Control1: geom.Pt(1, 1), Control2: geom.Pt(2, 2), To: geom.Pt(3, 3)},
		EllipticalArcTo{Radii: geom.Vector{X: 2, Y: 1}, Rotation: 15, Sweep: Clockwise, To: geom.Pt(4, 0)},
		ClosePath{},
	}
	for _, c := range cmds {
		assert.Equal(t, c, c.Flip(true).Flip(true))
		assert.Equal(t, c, c.Flip(false).Flip(false))
		assert.Equal(t, c, c.Reflect().Reflect())
	}

	end, ok := End(LineTo{To: geom.Pt(5, 6)}.Flip(true))
	require.True(t, ok)
	assert.Equal(t, geom.Pt(-5, 6), end)
}

func TestArcReflectSwapsRadii(t *testing.T) {
	arc := EllipticalArcTo{Radii: geom.Vector{X: 6, Y: 2}, Sweep: Clockwise, To: geom.Pt(10, 0)}
	got := arc.Reflect().(EllipticalArcTo)
	assert.Equal(t, geom.Vector{X: 2, Y: 6}, got.Radii)
	assert.Equal(t, geom.Pt(0, 10), got.To)
	assert.Equal(t, Counterclockwise, got.Sweep)
}

func TestFormat(t *testing.T) {
	cmds, err := Parse("M0 0 l 10 0 A 5 5 0 0 1 20 0 z")
	require.NoError(t, err)
	assert.Equal(t, "M 0 0 L 10 0 A 5 5 0 0 1 20 0 Z", Format(cmds))
}
