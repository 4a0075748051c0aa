// Package fixture provides sample component descriptions shared by tests.
package fixture

import (
	_ "embed"

	"github.com/google/uuid"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/condition"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/description"
)

// ResistorXML is the XML form of Resistor
//
//go:embed resistor.xml
var ResistorXML []byte

// ResistorID is the GUID of the sample resistor.
var ResistorID = uuid.MustParse("dab6ba4e-4b6e-4d0b-9f1c-1c2a8d1b3e01")

// Common is the collection the sample resistor implements items of.
const Common = "http://schemas.opentracelab.org/components/common"

func mustFormat(s string) description.Format {
	f, err := description.ParseFormat(s)
	if err != nil {
		panic(err)
	}
	return f
}

// Resistor builds a two pin resistor: leads from each end to a 40x16 body
// centred on the component, with the formatted resistance above it.
func Resistor() *description.ComponentDescription {
	horizontal := condition.Horizontal(true)
	vertical := condition.Horizontal(false)
	lowR := condition.Property("R", condition.Less, condition.Number(1000))
	midR := condition.Property("R", condition.Less, condition.Number(1e6))

	p := description.Point
	const (
		s = description.Start
		m = description.Middle
		e = description.End
	)

	return &description.ComponentDescription{
		ID:      ResistorID,
		Name:    "Resistor",
		MinSize: 60,
		Properties: []description.Property{{
			Name:           "R",
			SerializedName: "resistance",
			DisplayName:    "Resistance",
			Type:           condition.KindNumber,
			Default:        condition.Number(4700),
			FormatRules: []description.FormatRule{
				{Conditions: lowR, Value: mustFormat(`$RΩ`)},
				{Conditions: midR, Value: mustFormat(`$R(div_1000)kΩ`)},
				{Value: mustFormat(`$R(div_1000000)MΩ`)},
			},
		}},
		Flags: []description.FlagRule{
			{Value: description.MiddleMustAlign | description.FlipPrimary},
		},
		Connections: []description.ConnectionGroup{
			{
				Conditions: horizontal,
				Connections: []description.ConnectionDescription{
					{Start: p(s, s, 0, 0), End: p(m, m, -20, 0), Edge: description.EdgeStart, Name: "a"},
					{Start: p(m, m, 20, 0), End: p(e, e, 0, 0), Edge: description.EdgeEnd, Name: "b"},
				},
			},
			{
				Conditions: vertical,
				Connections: []description.ConnectionDescription{
					{Start: p(s, s, 0, 0), End: p(m, m, 0, -20), Edge: description.EdgeStart, Name: "a"},
					{Start: p(m, m, 0, 20), End: p(e, e, 0, 0), Edge: description.EdgeEnd, Name: "b"},
				},
			},
		},
		Render: []description.RenderDescription{
			{
				Conditions: horizontal,
				Commands: []description.RenderCommand{
					description.Line{Start: p(s, s, 0, 0), End: p(m, m, -20, 0), Thickness: 2},
					description.Line{Start: p(m, m, 20, 0), End: p(e, e, 0, 0), Thickness: 2},
					description.Rectangle{Location: p(m, s, -20, -8), Width: 40, Height: 16, Thickness: 2},
					description.Text{
						Location:  p(m, s, 0, -12),
						Alignment: description.BottomCentre,
						Runs:      []description.TextRun{{Text: "$R", Formatting: description.TextFormatting{Size: description.DefaultTextSize}}},
					},
				},
			},
			{
				Conditions: vertical,
				Commands: []description.RenderCommand{
					description.Line{Start: p(s, s, 0, 0), End: p(m, m, 0, -20), Thickness: 2},
					description.Line{Start: p(m, m, 0, 20), End: p(e, e, 0, 0), Thickness: 2},
					description.Rectangle{Location: p(s, m, -8, -20), Width: 16, Height: 40, Thickness: 2},
					description.Text{
						Location:  p(s, m, 12, 0),
						Alignment: description.CentreLeft,
						Runs:      []description.TextRun{{Text: "$R", Formatting: description.TextFormatting{Size: description.DefaultTextSize}}},
					},
				},
			},
		},
		Metadata: description.Metadata{
			Author:        "OpenTraceLab",
			Version:       "1.0",
			FormatVersion: "1.2",
			ImplementSet:  Common,
			ImplementItem: "resistor",
		},
	}
}
