package description

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/condition"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

func mustFormat(t *testing.T, s string) Format {
	t.Helper()
	f, err := ParseFormat(s)
	require.NoError(t, err)
	return f
}

func resistor(t *testing.T) *ComponentDescription {
	return &ComponentDescription{
		Name: "Resistor",
		Properties: []Property{
			{
				Name:    "Resistance",
				Type:    condition.KindNumber,
				Default: condition.Number(1000),
				FormatRules: []FormatRule{
					{
						Conditions: condition.Property("Resistance", condition.GreaterOrEqual, condition.Number(1000)),
						Value:      mustFormat(t, `$Resistance(div_1000)kΩ`),
					},
					{Value: mustFormat(t, `$ResistanceΩ`)},
				},
			},
			{
				Name:           "Style",
				SerializedName: "style",
				Type:           condition.KindString,
				Default:        condition.String("IEC"),
				Options:        []condition.Value{condition.String("IEC"), condition.String("ANSI")},
			},
		},
		Flags: []FlagRule{
			{Value: MiddleMustAlign},
			{Conditions: condition.Horizontal(true), Value: FlipPrimary},
		},
		Metadata: Metadata{
			ImplementSet: "http://example.com/common",
			Configurations: []Configuration{
				{Name: "US", ImplementationName: "resistor_us", Setters: map[string]condition.Value{"Style": condition.String("ANSI")}},
			},
		},
	}
}

func TestBindResolvesValues(t *testing.T) {
	d := resistor(t)

	b := d.Bind(&circuit.Component{Properties: map[string]condition.Value{
		"Resistance": condition.String("4700"),
		"style":      condition.String("bogus"),
	}})
	r, ok := b.Property("Resistance")
	require.True(t, ok)
	assert.True(t, r.Equal(condition.Number(4700)))
	s, _ := b.Property("Style")
	assert.True(t, s.Equal(condition.String("IEC")), "values outside the options fall back to the default")

	_, ok = b.Property("Missing")
	assert.False(t, ok)
}

func TestBindConfiguration(t *testing.T) {
	d := resistor(t)

	byName := d.Bind(&circuit.Component{Configuration: "US", Properties: map[string]condition.Value{"style": condition.String("IEC")}})
	s, _ := byName.Property("Style")
	assert.True(t, s.Equal(condition.String("ANSI")))

	byItem := d.Bind(&circuit.Component{Type: circuit.ComponentType{Collection: "http://example.com/common", Item: "resistor_us"}})
	s, _ = byItem.Property("Style")
	assert.True(t, s.Equal(condition.String("ANSI")))
}

func TestFormatProperty(t *testing.T) {
	d := resistor(t)

	b := d.Bind(&circuit.Component{Properties: map[string]condition.Value{"Resistance": condition.Number(4700)}})
	assert.Equal(t, "4.7kΩ", b.FormatProperty("Resistance"))

	b = d.Bind(&circuit.Component{Properties: map[string]condition.Value{"Resistance": condition.Number(220)}})
	assert.Equal(t, "220Ω", b.FormatProperty("Resistance"))

	text, err := b.FormatText(`R = $Resistance, style $Style \$x`)
	require.NoError(t, err)
	assert.Equal(t, "R = 220Ω, style IEC $x", text)

	_, err = b.FormatText("$Colour")
	assert.ErrorContains(t, err, "Colour")
}

func TestFormatTransforms(t *testing.T) {
	f := mustFormat(t, "$V(mul_3)(round_1)V")
	got := f.Expand(func(string) string { return "?" }, func(string) (float64, bool) { return 1.234, true })
	assert.Equal(t, "3.7V", got)
	assert.Equal(t, []string{"V"}, f.References())

	_, err := ParseFormat("$V(div_0)")
	assert.Error(t, err)
	_, err = ParseFormat("$V(pow_2)")
	assert.Error(t, err)
}

func TestFlags(t *testing.T) {
	d := resistor(t)

	h := d.Bind(&circuit.Component{Layout: geom.Layout{Flip: geom.FlipBoth}})
	assert.True(t, h.Flags().Has(MiddleMustAlign))
	assert.Equal(t, geom.FlipPrimary, h.EffectiveFlip())

	v := d.Bind(&circuit.Component{Layout: geom.Layout{Orientation: geom.Vertical, Flip: geom.FlipBoth}})
	assert.Equal(t, geom.FlipNone, v.EffectiveFlip())

	opts := h.LayoutOptions(DefaultLayoutOptions())
	assert.True(t, opts.AlignMiddle)

	f, ok := ParseFlag("MiddleMustAlign")
	assert.True(t, ok)
	assert.Equal(t, MiddleMustAlign, f)
}

func TestConditionalCollection(t *testing.T) {
	c := ConditionalCollection[string]{
		{Value: "h", Conditions: condition.Horizontal(true)},
		{Value: "v", Conditions: condition.Horizontal(false)},
		{Value: "any"},
	}
	horizontal := condition.MapState{Horizontal: true}

	assert.Equal(t, []string{"h", "any"}, c.Matching(horizontal))
	first, ok := c.First(condition.MapState{})
	assert.True(t, ok)
	assert.Equal(t, "v", first)
}
