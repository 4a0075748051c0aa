// Package registry holds loaded component descriptions and resolves the
// component type of a placed instance to its description.
//
// A Registry is filled once and then frozen; after Freeze it is read-only
// and safe for concurrent lookups.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/description"
)

// ErrFrozen is returned when adding to a frozen registry.
var ErrFrozen = errors.New("registry: frozen")

// Lookup knows how to find the description for a component type.
type Lookup interface {
	Lookup(t circuit.ComponentType) (*description.ComponentDescription, error)
}

// MissingDescriptionError reports a component type with no description.
type MissingDescriptionError struct {
	Type circuit.ComponentType
}

func (e *MissingDescriptionError) Error() string {
	return fmt.Sprintf("registry: no description for component type %s", e.Type)
}

type itemKey struct {
	collection string
	item       string
}

// Registry is an in-memory Lookup keyed by GUID, name and collection item.
type Registry struct {
	mu     sync.RWMutex
	frozen bool
	all    []*description.ComponentDescription
	byID   map[uuid.UUID]*description.ComponentDescription
	byName map[string]*description.ComponentDescription
	byItem map[itemKey]*description.ComponentDescription
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byID:   make(map[uuid.UUID]*description.ComponentDescription),
		byName: make(map[string]*description.ComponentDescription),
		byItem: make(map[itemKey]*description.ComponentDescription),
	}
}

// Add registers d under its GUID, its name, its implemented item and the
// items its configurations implement. The first description registered
// under a name or item keeps it.
func (r *Registry) Add(d *description.ComponentDescription) error {
	if d == nil {
		return fmt.Errorf("registry: nil description")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrFrozen
	}
	if d.ID != uuid.Nil {
		if prev, ok := r.byID[d.ID]; ok {
			return fmt.Errorf("registry: %s and %s share GUID %s", prev.Name, d.Name, d.ID)
		}
		r.byID[d.ID] = d
	}
	if _, ok := r.byName[d.Name]; !ok && d.Name != "" {
		r.byName[d.Name] = d
	}
	if set := d.Metadata.ImplementSet; set != "" {
		r.addItem(itemKey{set, d.Metadata.ImplementItem}, d)
		for _, c := range d.Metadata.Configurations {
			r.addItem(itemKey{set, c.ImplementationName}, d)
		}
	}
	r.all = append(r.all, d)
	return nil
}

func (r *Registry) addItem(k itemKey, d *description.ComponentDescription) {
	if k.item == "" {
		return
	}
	if _, ok := r.byItem[k]; !ok {
		r.byItem[k] = d
	}
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Lookup implements the Lookup interface. GUID matches win over name
// matches, which win over collection item matches.
func (r *Registry) Lookup(t circuit.ComponentType) (*description.ComponentDescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t.ID != uuid.Nil {
		if d, ok := r.byID[t.ID]; ok {
			return d, nil
		}
	}
	if t.Name != "" {
		if d, ok := r.byName[t.Name]; ok {
			return d, nil
		}
	}
	if t.Collection != "" {
		if d, ok := r.byItem[itemKey{t.Collection, t.Item}]; ok {
			return d, nil
		}
	}
	return nil, &MissingDescriptionError{Type: t}
}

// Len returns the number of registered descriptions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.all)
}

// All returns the registered descriptions sorted by name.
func (r *Registry) All() []*description.ComponentDescription {
	r.mu.RLock()
	out := make([]*description.ComponentDescription, len(r.all))
	copy(out, r.all)
	r.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
