package description

import (
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/condition"
)

// Property is a user-editable value declared by a description.
type Property struct {
	Name           string
	SerializedName string // key used in documents; defaults to Name
	DisplayName    string
	Type           condition.Kind
	Default        condition.Value
	Options        []condition.Value // permitted values for enumerated properties
	FormatRules    []FormatRule
}

// Key returns the name the property is stored under in documents.
func (p *Property) Key() string {
	if p.SerializedName != "" {
		return p.SerializedName
	}
	return p.Name
}

// Allows reports whether v is permitted by Options.
func (p *Property) Allows(v condition.Value) bool {
	if len(p.Options) == 0 {
		return true
	}
	for _, o := range p.Options {
		if o.Equal(v) {
			return true
		}
	}
	return false
}

// FormatRule selects how a property is displayed when Conditions hold.
type FormatRule struct {
	Conditions condition.Tree
	Value      Format
}
