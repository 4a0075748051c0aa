package connection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceSchem/internal/fixture"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/description"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/registry"
)

func TestShouldRender(t *testing.T) {
	hEdge := ConnectionPoint{Flags: Horizontal | Edge}
	vEdge := ConnectionPoint{Flags: Vertical | Edge}
	h := ConnectionPoint{Flags: Horizontal}
	v := ConnectionPoint{Flags: Vertical}

	tests := []struct {
		name   string
		points []ConnectionPoint
		want   bool
	}{
		{"empty", nil, false},
		{"single edge", []ConnectionPoint{hEdge}, false},
		{"straight through", []ConnectionPoint{hEdge, hEdge}, false},
		{"corner", []ConnectionPoint{hEdge, vEdge}, true},
		{"tee of edges", []ConnectionPoint{hEdge, hEdge, vEdge}, true},
		{"edge onto crossing run", []ConnectionPoint{vEdge, h}, true},
		{"edge onto parallel run", []ConnectionPoint{hEdge, h}, false},
		{"no edges", []ConnectionPoint{h, v}, false},
		{"four edges", []ConnectionPoint{hEdge, hEdge, vEdge, vEdge}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldRender(tt.points))
		})
	}
}

func TestShouldRenderPanicsOnUnorientedPoint(t *testing.T) {
	assert.Panics(t, func() {
		ShouldRender([]ConnectionPoint{{Flags: Edge}, {Flags: Horizontal | Edge}})
	})
}

func resistorRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	require.NoError(t, reg.Add(fixture.Resistor()))
	reg.Freeze()
	return reg
}

func resistorAt(id string, x, y float64, o geom.Orientation) *circuit.Component {
	return &circuit.Component{
		ID:     id,
		Type:   circuit.ComponentType{Name: "Resistor"},
		Layout: geom.Layout{Location: geom.Pt(x, y), Size: 60, Orientation: o},
	}
}

func TestVisualiseCorner(t *testing.T) {
	doc := &circuit.Document{Components: []*circuit.Component{
		resistorAt("r1", 40, 50, geom.Horizontal),
		resistorAt("r2", 100, 50, geom.Vertical),
	}}

	res := Visualise(doc, resistorRegistry(t), description.DefaultLayoutOptions())
	require.Empty(t, res.Errors)
	require.Len(t, res.Connections, 1)

	vc := res.Connections[0]
	assert.Equal(t, geom.Pt(100, 50), vc.Location)
	assert.True(t, vc.Render)
	require.Len(t, vc.Members, 2)

	r1b := Ref{ComponentID: "r1", Name: "b"}
	r2a := Ref{ComponentID: "r2", Name: "a"}
	assert.True(t, res.Netlist.Connected(r1b, r2a))
	assert.False(t, res.Netlist.Connected(r1b, Ref{ComponentID: "r1", Name: "a"}))
	require.Equal(t, 1, res.Netlist.NetCount())
	assert.Equal(t, []Ref{r1b, r2a}, res.Netlist.Nets[0].Refs)
}

func TestVisualiseWires(t *testing.T) {
	wire := func(id string, x, y, size float64, o geom.Orientation) *circuit.Wire {
		return &circuit.Wire{ID: id, Layout: geom.Layout{Location: geom.Pt(x, y), Size: size, Orientation: o}}
	}
	doc := &circuit.Document{Wires: []*circuit.Wire{
		wire("w1", 0, 0, 30, geom.Horizontal),
		wire("w2", 30, 0, 30, geom.Horizontal),
		wire("w3", 10, -20, 20, geom.Vertical),
	}}

	res := Visualise(doc, registry.New(), description.DefaultLayoutOptions())
	require.Empty(t, res.Errors)

	byLocation := make(map[geom.Point]VisualisedConnection)
	for _, c := range res.Connections {
		byLocation[c.Location] = c
	}
	require.Len(t, byLocation, 2)
	assert.False(t, byLocation[geom.Pt(30, 0)].Render, "wire ends meeting in line")
	assert.True(t, byLocation[geom.Pt(10, 0)].Render, "wire ending on another wire")

	w1 := Ref{ComponentID: "w1", Name: WireConnectionName, Wire: true}
	w2 := Ref{ComponentID: "w2", Name: WireConnectionName, Wire: true}
	w3 := Ref{ComponentID: "w3", Name: WireConnectionName, Wire: true}
	assert.True(t, res.Netlist.Connected(w2, w3), "connectivity is transitive")
	assert.True(t, res.Netlist.Connected(w1, w2))

	assert.Len(t, res.Junctions(), 1)
}

func TestVisualiseMissingDescription(t *testing.T) {
	doc := &circuit.Document{Components: []*circuit.Component{
		{ID: "x1", Type: circuit.ComponentType{Name: "Transistor"}},
		resistorAt("r1", 0, 0, geom.Horizontal),
	}}
	res := Visualise(doc, resistorRegistry(t), description.DefaultLayoutOptions())

	require.Len(t, res.Errors, 1)
	var missing *registry.MissingDescriptionError
	assert.True(t, errors.As(res.Errors[0], &missing))
	assert.Empty(t, res.Connections)
}

func TestNetlist(t *testing.T) {
	a := Ref{ComponentID: "a", Name: "1"}
	b := Ref{ComponentID: "b", Name: "1"}
	c := Ref{ComponentID: "c", Name: "1"}
	d := Ref{ComponentID: "d", Name: "1"}

	nl := NewNetlist()
	nl.Add(d)
	nl.Connect(c, b)
	nl.Connect(b, a)
	assert.True(t, nl.Connected(a, c))
	assert.False(t, nl.Connected(a, d))

	nl.Finalize()
	require.Equal(t, 1, nl.NetCount())
	assert.Equal(t, []Ref{a, b, c}, nl.Nets[0].Refs)
}
