package description

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

func TestRectangleFlipMirrorsExtent(t *testing.T) {
	r := Rectangle{Location: Point(Start, Start, 10, 0), Width: 20, Height: 4}
	flipped := r.Flip(true).(Rectangle)

	layout := geom.Layout{Size: 60}
	loc := flipped.Location.Resolve(layout, LayoutOptions{})
	assert.Equal(t, geom.Pt(30, 0), loc)
	assert.Equal(t, r, flipped.Flip(true))
}

func TestRectangleReflectSwapsSize(t *testing.T) {
	r := Rectangle{Location: Point(Middle, Start, -20, -8), Width: 40, Height: 16}
	got := r.Reflect().(Rectangle)
	assert.Equal(t, 16.0, got.Width)
	assert.Equal(t, 40.0, got.Height)
	assert.Equal(t, Point(Start, Middle, -8, -20), got.Location)
}

func TestTextAlignment(t *testing.T) {
	assert.Equal(t, TopRight, TopLeft.Flip(true))
	assert.Equal(t, BottomLeft, TopLeft.Flip(false))
	assert.Equal(t, CentreCentre, CentreCentre.Flip(true))
	assert.Equal(t, CentreRight, BottomCentre.Reflect())
	assert.Equal(t, TopLeft, TopLeft.Reflect())

	for a := TopLeft; a <= BottomRight; a++ {
		assert.Equal(t, a, a.Reflect().Reflect())
		assert.Equal(t, a, a.Flip(true).Flip(true))
	}

	got, err := ParseTextAlignment("CenterLeft")
	require.NoError(t, err)
	assert.Equal(t, CentreLeft, got)
	_, err = ParseTextAlignment("Middle")
	assert.Error(t, err)
}

func TestTextFlipMirrorsAlignment(t *testing.T) {
	txt := Text{Location: Point(Middle, Start, 0, -12), Alignment: BottomCentre}
	got := txt.Flip(false).(Text)
	assert.Equal(t, TopCentre, got.Alignment)
	assert.Equal(t, Point(Middle, End, 0, 12), got.Location)
}

func TestParseAutoRotate(t *testing.T) {
	for in, want := range map[string]AutoRotate{
		"": AutoRotateOff, "false": AutoRotateOff, "true": AutoRotateOn, "withflip": AutoRotateWithFlip,
	} {
		got, err := ParseAutoRotate(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseAutoRotate("sideways")
	assert.Error(t, err)
}

func TestConnectionEdge(t *testing.T) {
	assert.True(t, EdgeBoth.IsStart())
	assert.True(t, EdgeBoth.IsEnd())
	assert.False(t, EdgeStart.IsEnd())
	assert.Equal(t, EdgeEnd, EdgeStart.Swap())
	assert.Equal(t, EdgeNone, EdgeNone.Swap())
}
