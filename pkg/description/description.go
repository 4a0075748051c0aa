// Package description provides the resolved component description model:
// the immutable definition of a component type that render and connection
// resolution consume.
//
// Descriptions are normally produced by the loader and the definitions
// flattener; they hold no unresolved variables. Geometry is expressed with
// ComponentPoint anchors that are resolved against a placed instance's
// geom.Layout.
package description

import (
	"github.com/google/uuid"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/condition"
)

// ComponentDescription is the static definition of a component type.
type ComponentDescription struct {
	ID          uuid.UUID
	Name        string
	MinSize     float64
	Properties  []Property
	Flags       []FlagRule
	Connections []ConnectionGroup
	Render      []RenderDescription
	Metadata    Metadata
}

// Metadata carries the descriptive and lookup fields of a description.
type Metadata struct {
	Author         string
	Version        string
	FormatVersion  string
	Summary        string
	ImplementSet   string // collection this description implements items of
	ImplementItem  string
	Configurations []Configuration
	Additional     map[string]string
}

// Configuration is a named preset of property values.
type Configuration struct {
	Name               string
	ImplementationName string // item name within Metadata.ImplementSet
	Setters            map[string]condition.Value
}

// Property looks up a declared property by name.
func (d *ComponentDescription) Property(name string) (*Property, bool) {
	for i := range d.Properties {
		if d.Properties[i].Name == name {
			return &d.Properties[i], true
		}
	}
	return nil, false
}

// PropertyKind reports the declared type of a property. It lets a
// description be passed directly to the condition parsers.
func (d *ComponentDescription) PropertyKind(name string) (condition.Kind, bool) {
	p, ok := d.Property(name)
	if !ok {
		return condition.KindString, false
	}
	return p.Type, true
}

// Configuration looks up a configuration by name.
func (d *ComponentDescription) Configuration(name string) (*Configuration, bool) {
	for i := range d.Metadata.Configurations {
		if d.Metadata.Configurations[i].Name == name {
			return &d.Metadata.Configurations[i], true
		}
	}
	return nil, false
}

// ConfigurationForItem returns the configuration implementing item, if any.
func (d *ComponentDescription) ConfigurationForItem(item string) (*Configuration, bool) {
	for i := range d.Metadata.Configurations {
		if d.Metadata.Configurations[i].ImplementationName == item {
			return &d.Metadata.Configurations[i], true
		}
	}
	return nil, false
}

// Conditional pairs a value with the condition under which it applies.
type Conditional[T any] struct {
	Value      T
	Conditions condition.Tree
}

// ConditionalCollection holds the context dependent candidates of a value.
// Well-formed collections have at most one matching entry per instance
// state; this is not enforced.
type ConditionalCollection[T any] []Conditional[T]

// Matching returns the values whose conditions hold, in declaration order.
func (c ConditionalCollection[T]) Matching(s condition.State) []T {
	var out []T
	for _, v := range c {
		if v.Conditions.IsMet(s) {
			out = append(out, v.Value)
		}
	}
	return out
}

// First returns the first value whose condition holds.
func (c ConditionalCollection[T]) First(s condition.State) (T, bool) {
	for _, v := range c {
		if v.Conditions.IsMet(s) {
			return v.Value, true
		}
	}
	var zero T
	return zero, false
}
