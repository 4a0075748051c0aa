package description

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/condition"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

// Binding is a description bound to a placed instance: the condition.State
// that conditions, flags and text are resolved against.
type Binding struct {
	Description *ComponentDescription
	Instance    *circuit.Component
	values      map[string]condition.Value
}

// Bind resolves the effective property values of c. Configuration setters
// take precedence over instance values, which take precedence over
// defaults. Instance values of the wrong type are coerced; values that
// cannot be coerced or are not among the permitted options fall back to
// the default.
func (d *ComponentDescription) Bind(c *circuit.Component) *Binding {
	b := &Binding{Description: d, Instance: c, values: make(map[string]condition.Value, len(d.Properties))}

	var setters map[string]condition.Value
	if conf := d.configurationFor(c); conf != nil {
		setters = conf.Setters
	}

	for i := range d.Properties {
		p := &d.Properties[i]
		v := p.Default
		if raw, ok := lookupValue(c.Properties, p); ok {
			if cv, err := raw.ConvertTo(p.Type); err == nil && p.Allows(cv) {
				v = cv
			}
		}
		if raw, ok := setters[p.Name]; ok {
			if cv, err := raw.ConvertTo(p.Type); err == nil {
				v = cv
			}
		}
		b.values[p.Name] = v
	}
	return b
}

func (d *ComponentDescription) configurationFor(c *circuit.Component) *Configuration {
	if c == nil {
		return nil
	}
	if c.Configuration != "" {
		if conf, ok := d.Configuration(c.Configuration); ok {
			return conf
		}
	}
	if c.Type.Item != "" && c.Type.Collection == d.Metadata.ImplementSet {
		if conf, ok := d.ConfigurationForItem(c.Type.Item); ok {
			return conf
		}
	}
	return nil
}

func lookupValue(values map[string]condition.Value, p *Property) (condition.Value, bool) {
	if v, ok := values[p.Key()]; ok {
		return v, true
	}
	v, ok := values[p.Name]
	return v, ok
}

// IsHorizontal implements condition.State.
func (b *Binding) IsHorizontal() bool {
	return b.Instance == nil || b.Instance.Layout.Orientation == geom.Horizontal
}

// Property implements condition.State.
func (b *Binding) Property(name string) (condition.Value, bool) {
	v, ok := b.values[name]
	return v, ok
}

// Layout returns the instance layout.
func (b *Binding) Layout() geom.Layout {
	if b.Instance == nil {
		return geom.Layout{}
	}
	return b.Instance.Layout
}

// Flags evaluates the description's flag rules.
func (b *Binding) Flags() FlagOptions {
	return b.Description.FlagsFor(b)
}

// LayoutOptions narrows opts to this instance: middle alignment only
// applies when the description asks for it.
func (b *Binding) LayoutOptions(opts LayoutOptions) LayoutOptions {
	opts.AlignMiddle = opts.AlignMiddle && b.Flags().Has(MiddleMustAlign)
	return opts
}

// EffectiveFlip masks the instance flip state with the axes the
// description allows to be flipped.
func (b *Binding) EffectiveFlip() geom.FlipState {
	flags := b.Flags()
	var allowed geom.FlipState
	if flags.Has(FlipPrimary) {
		allowed |= geom.FlipPrimary
	}
	if flags.Has(FlipSecondary) {
		allowed |= geom.FlipSecondary
	}
	return b.Layout().Flip & allowed
}

// FormatProperty displays a property using the first format rule whose
// condition holds, or the plain value when none does.
func (b *Binding) FormatProperty(name string) string {
	v, ok := b.values[name]
	if !ok {
		panic(fmt.Sprintf("description: property %q is not declared", name))
	}
	if p, ok := b.Description.Property(name); ok {
		for _, r := range p.FormatRules {
			if r.Conditions.IsMet(b) {
				return r.Value.Expand(b.rawText, b.rawNumber)
			}
		}
	}
	return v.Text()
}

// FormatText substitutes $Name references in a text run.
func (b *Binding) FormatText(text string) (string, error) {
	f, err := ParseFormat(text)
	if err != nil {
		return "", err
	}
	for _, ref := range f.References() {
		if _, ok := b.values[ref]; !ok {
			return "", fmt.Errorf("description: %s: text references undeclared property %q", b.Description.Name, ref)
		}
	}
	return f.Expand(b.FormatProperty, b.rawNumber), nil
}

func (b *Binding) rawText(name string) string {
	v, ok := b.values[name]
	if !ok {
		panic(fmt.Sprintf("description: property %q is not declared", name))
	}
	return v.Text()
}

func (b *Binding) rawNumber(name string) (float64, bool) {
	v, ok := b.values[name]
	if !ok || v.Kind() != condition.KindNumber {
		return 0, false
	}
	return v.Num(), true
}
