package circuit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/condition"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

const sample = `
components:
  - id: r1
    type: {name: Resistor}
    location: {x: 10, y: 20}
    size: 60
    flip: [primary]
    properties:
      Resistance: 4700
      Style: IEC
      Polarised: true
  - id: c1
    type: {collection: "http://example.com/common", item: capacitor}
    configuration: Electrolytic
    orientation: vertical
    location: {x: 100, y: 0}
    size: 40
wires:
  - id: w1
    location: {x: 70, y: 20}
    size: 30
`

func TestReadDocument(t *testing.T) {
	doc, err := ReadDocument(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, doc.Components, 2)
	require.Len(t, doc.Wires, 1)

	r1 := doc.Components[0]
	assert.Equal(t, "Resistor", r1.Type.Name)
	assert.Equal(t, geom.Pt(10, 20), r1.Layout.Location)
	assert.Equal(t, geom.FlipPrimary, r1.Layout.Flip)
	assert.True(t, r1.IsHorizontal())
	assert.True(t, r1.Properties["Resistance"].Equal(condition.Number(4700)))
	assert.True(t, r1.Properties["Style"].Equal(condition.String("IEC")))
	assert.True(t, r1.Properties["Polarised"].Equal(condition.Bool(true)))

	c1, ok := doc.Component("c1")
	require.True(t, ok)
	assert.Equal(t, geom.Vertical, c1.Layout.Orientation)
	assert.Equal(t, "Electrolytic", c1.Configuration)
	assert.Equal(t, "http://example.com/common:capacitor", c1.Type.String())
}

func TestReadDocumentRejectsDuplicates(t *testing.T) {
	_, err := ReadDocument(strings.NewReader(`
components:
  - {id: a, type: {name: X}}
wires:
  - {id: a}
`))
	assert.ErrorContains(t, err, "duplicate")
}

func TestReadDocumentBadGUID(t *testing.T) {
	_, err := ReadDocument(strings.NewReader(`
components:
  - {id: a, type: {guid: nope}}
`))
	assert.ErrorContains(t, err, "bad guid")
}
