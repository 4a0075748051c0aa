package render

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceSchem/internal/fixture"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/condition"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/description"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/registry"
)

func place(layout geom.Layout) *circuit.Component {
	return &circuit.Component{ID: "r1", Type: circuit.ComponentType{Name: "Resistor"}, Layout: layout}
}

func textRun(s string) []description.TextRun {
	return []description.TextRun{{Text: s, Formatting: description.TextFormatting{Size: description.DefaultTextSize}}}
}

func TestResolveHorizontalResistor(t *testing.T) {
	got, err := Resolve(fixture.Resistor(), place(geom.Layout{Size: 60}), description.DefaultLayoutOptions())
	require.NoError(t, err)

	want := []Primitive{
		Line{Start: geom.Pt(0, 0), End: geom.Pt(10, 0), Thickness: 2},
		Line{Start: geom.Pt(50, 0), End: geom.Pt(60, 0), Thickness: 2},
		Rectangle{Location: geom.Pt(10, -8), Width: 40, Height: 16, Thickness: 2},
		Text{Location: geom.Pt(30, -12), Alignment: description.BottomCentre, Runs: textRun("4.7kΩ")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected primitives (-want +got):\n%s", diff)
	}
}

func TestResolveVerticalResistor(t *testing.T) {
	c := place(geom.Layout{Location: geom.Pt(100, 0), Size: 60, Orientation: geom.Vertical})
	c.Properties = map[string]condition.Value{"resistance": condition.Number(220)}

	got, err := Resolve(fixture.Resistor(), c, description.DefaultLayoutOptions())
	require.NoError(t, err)

	want := []Primitive{
		Line{Start: geom.Pt(100, 0), End: geom.Pt(100, 10), Thickness: 2},
		Line{Start: geom.Pt(100, 50), End: geom.Pt(100, 60), Thickness: 2},
		Rectangle{Location: geom.Pt(92, 10), Width: 16, Height: 40, Thickness: 2},
		Text{Location: geom.Pt(112, 30), Alignment: description.CentreLeft, Runs: textRun("220Ω")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected primitives (-want +got):\n%s", diff)
	}
}

func TestResolveMiddleAlignsToGrid(t *testing.T) {
	got, err := Resolve(fixture.Resistor(), place(geom.Layout{Size: 50}), description.DefaultLayoutOptions())
	require.NoError(t, err)
	assert.Equal(t, geom.Pt(0, -8), got[2].(Rectangle).Location)

	opts := description.DefaultLayoutOptions()
	opts.AlignMiddle = false
	got, err = Resolve(fixture.Resistor(), place(geom.Layout{Size: 50}), opts)
	require.NoError(t, err)
	assert.Equal(t, geom.Pt(5, -8), got[2].(Rectangle).Location)
}

func TestResolveFlipped(t *testing.T) {
	got, err := Resolve(fixture.Resistor(), place(geom.Layout{Size: 60, Flip: geom.FlipPrimary}), description.DefaultLayoutOptions())
	require.NoError(t, err)

	assert.Equal(t, Line{Start: geom.Pt(60, 0), End: geom.Pt(50, 0), Thickness: 2}, got[0])
	assert.Equal(t, geom.Pt(10, -8), got[2].(Rectangle).Location, "rectangle keeps its extent")

	// the resistor only allows primary flips
	got, err = Resolve(fixture.Resistor(), place(geom.Layout{Size: 60, Flip: geom.FlipSecondary}), description.DefaultLayoutOptions())
	require.NoError(t, err)
	assert.Equal(t, geom.Pt(30, -12), got[3].(Text).Location)
	assert.Equal(t, description.BottomCentre, got[3].(Text).Alignment)
}

func TestResolveAutoRotate(t *testing.T) {
	d := &description.ComponentDescription{
		Name: "Marker",
		Render: []description.RenderDescription{{
			Commands: []description.RenderCommand{
				description.Rectangle{Location: description.Point(description.Middle, description.Start, -20, -8), Width: 40, Height: 16},
				description.Line{Start: description.Point(description.Middle, description.Start, 0, -8), End: description.Point(description.Middle, description.Start, 0, 0)},
			},
		}},
	}
	vertical := place(geom.Layout{Size: 60, Orientation: geom.Vertical})
	opts := description.DefaultLayoutOptions()

	d.Render[0].AutoRotate = description.AutoRotateOn
	got, err := Resolve(d, vertical, opts)
	require.NoError(t, err)
	assert.Equal(t, Rectangle{Location: geom.Pt(-8, 10), Width: 16, Height: 40}, got[0])
	assert.Equal(t, geom.Pt(-8, 30), got[1].(Line).Start)

	d.Render[0].AutoRotate = description.AutoRotateWithFlip
	got, err = Resolve(d, vertical, opts)
	require.NoError(t, err)
	assert.Equal(t, Rectangle{Location: geom.Pt(-8, 10), Width: 16, Height: 40}, got[0])
	assert.Equal(t, geom.Pt(8, 30), got[1].(Line).Start)

	horizontal := place(geom.Layout{Size: 60})
	got, err = Resolve(d, horizontal, opts)
	require.NoError(t, err)
	assert.Equal(t, geom.Pt(30, -8), got[1].(Line).Start, "horizontal instances are not rotated")
}

func TestResolveAllTrueGroupsInOrder(t *testing.T) {
	d := &description.ComponentDescription{
		Render: []description.RenderDescription{
			{Commands: []description.RenderCommand{description.Line{Thickness: 1}}},
			{Conditions: condition.Horizontal(false), Commands: []description.RenderCommand{description.Line{Thickness: 2}}},
			{Conditions: condition.Horizontal(true), Commands: []description.RenderCommand{description.Line{Thickness: 3}, description.Line{Thickness: 4}}},
		},
	}
	got, err := Resolve(d, place(geom.Layout{Size: 10}), description.DefaultLayoutOptions())
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, want := range []float64{1, 3, 4} {
		assert.Equal(t, want, got[i].(Line).Thickness)
	}
}

func TestResolveBadText(t *testing.T) {
	d := &description.ComponentDescription{
		Render: []description.RenderDescription{{
			Commands: []description.RenderCommand{description.Text{Runs: []description.TextRun{{Text: "$Missing"}}}},
		}},
	}
	_, err := Resolve(d, place(geom.Layout{}), description.DefaultLayoutOptions())
	assert.ErrorContains(t, err, "Missing")
}

func TestRenderDocument(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Add(fixture.Resistor()))
	reg.Freeze()

	doc := &circuit.Document{
		Components: []*circuit.Component{
			place(geom.Layout{Size: 60}),
			{ID: "x1", Type: circuit.ComponentType{Name: "Transistor"}},
			{ID: "r2", Type: circuit.ComponentType{ID: fixture.ResistorID}, Layout: geom.Layout{Location: geom.Pt(0, 40), Size: 60}},
		},
		Wires: []*circuit.Wire{{ID: "w1", Layout: geom.Layout{Location: geom.Pt(60, 0), Size: 40}}},
	}

	res := RenderDocument(doc, reg, description.DefaultLayoutOptions())
	require.Len(t, res.Components, 2)
	assert.Equal(t, "r1", res.Components[0].ComponentID)
	assert.Equal(t, "r2", res.Components[1].ComponentID)
	assert.Equal(t, "Resistor", res.Components[1].Description)

	require.Len(t, res.Errors, 1)
	var missing *registry.MissingDescriptionError
	assert.True(t, errors.As(res.Errors[0], &missing))
	assert.Contains(t, res.Errors[0].Error(), "x1")

	require.Len(t, res.Wires, 1)
	assert.Equal(t, Line{Start: geom.Pt(60, 0), End: geom.Pt(100, 0), Thickness: WireThickness}, res.Wires[0].Line)
}
