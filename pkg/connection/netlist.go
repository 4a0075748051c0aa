package connection

import (
	"sort"
)

// Ref identifies a logical connection: a named connection of a component,
// or the single connection of a wire.
type Ref struct {
	ComponentID string `json:"component" msgpack:"component"`
	Name        string `json:"name" msgpack:"name"`
	Wire        bool   `json:"wire,omitempty" msgpack:"wire,omitempty"`
}

func (r Ref) String() string {
	if r.Wire {
		return "wire:" + r.ComponentID
	}
	return r.ComponentID + "." + r.Name
}

func (r Ref) less(o Ref) bool {
	if r.Wire != o.Wire {
		return !r.Wire
	}
	if r.ComponentID != o.ComponentID {
		return r.ComponentID < o.ComponentID
	}
	return r.Name < o.Name
}

// Net is a set of connections that are electrically joined.
type Net struct {
	ID   int   `json:"id" msgpack:"id"`
	Refs []Ref `json:"refs" msgpack:"refs"`
}

// Netlist tracks connectivity between connections using union-find.
type Netlist struct {
	parent map[Ref]Ref
	rank   map[Ref]int
	refs   []Ref

	// Nets is populated by Finalize.
	Nets []*Net
}

// NewNetlist creates an empty netlist.
func NewNetlist() *Netlist {
	return &Netlist{
		parent: make(map[Ref]Ref),
		rank:   make(map[Ref]int),
	}
}

// Add registers r as an isolated net if it is not yet known.
func (nl *Netlist) Add(r Ref) {
	if _, ok := nl.parent[r]; ok {
		return
	}
	nl.parent[r] = r
	nl.rank[r] = 0
	nl.refs = append(nl.refs, r)
}

// Connect merges the nets of a and b.
func (nl *Netlist) Connect(a, b Ref) {
	nl.Add(a)
	nl.Add(b)
	rootA := nl.Find(a)
	rootB := nl.Find(b)
	if rootA == rootB {
		return
	}

	// union by rank
	switch {
	case nl.rank[rootA] < nl.rank[rootB]:
		nl.parent[rootA] = rootB
	case nl.rank[rootA] > nl.rank[rootB]:
		nl.parent[rootB] = rootA
	default:
		nl.parent[rootB] = rootA
		nl.rank[rootA]++
	}
}

// Find returns the representative of r's net, compressing the path.
func (nl *Netlist) Find(r Ref) Ref {
	if _, ok := nl.parent[r]; !ok {
		return r
	}
	root := r
	for nl.parent[root] != root {
		root = nl.parent[root]
	}
	for cur := r; cur != root; {
		next := nl.parent[cur]
		nl.parent[cur] = root
		cur = next
	}
	return root
}

// Connected reports whether a and b share a net.
func (nl *Netlist) Connected(a, b Ref) bool {
	return nl.Find(a) == nl.Find(b)
}

// Finalize builds Nets from the union-find state. Single-connection nets
// are skipped. Nets are ordered by their first member.
func (nl *Netlist) Finalize() {
	groups := make(map[Ref][]Ref)
	for _, r := range nl.refs {
		root := nl.Find(r)
		groups[root] = append(groups[root], r)
	}

	nl.Nets = make([]*Net, 0, len(groups))
	for _, refs := range groups {
		if len(refs) < 2 {
			continue
		}
		sort.Slice(refs, func(i, j int) bool { return refs[i].less(refs[j]) })
		nl.Nets = append(nl.Nets, &Net{Refs: refs})
	}
	sort.Slice(nl.Nets, func(i, j int) bool { return nl.Nets[i].Refs[0].less(nl.Nets[j].Refs[0]) })
	for i, n := range nl.Nets {
		n.ID = i
	}
}

// NetCount returns the number of multi-connection nets.
// Only valid after calling Finalize().
func (nl *Netlist) NetCount() int {
	return len(nl.Nets)
}
