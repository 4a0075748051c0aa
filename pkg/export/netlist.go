package export

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/connection"
)

// WriteNetlist writes nets as a KiCad style s-expression netlist.
// Wires carry no pins of their own and are left out of the nodes.
func WriteNetlist(w io.Writer, nl *connection.Netlist) error {
	if nl.Nets == nil {
		return fmt.Errorf("export: netlist not finalized")
	}

	p := &printer{w: w}
	p.printf("(export (version D)\n")
	p.printf("  (design\n")
	p.printf("    (source \"OpenTraceSchem\")\n")
	p.printf("  )\n")

	components := make(map[string]bool)
	for _, n := range nl.Nets {
		for _, r := range n.Refs {
			if !r.Wire {
				components[r.ComponentID] = true
			}
		}
	}
	refs := make([]string, 0, len(components))
	for id := range components {
		refs = append(refs, id)
	}
	sort.Strings(refs)

	p.printf("  (components\n")
	for _, id := range refs {
		p.printf("    (comp (ref %s))\n", atom(id))
	}
	p.printf("  )\n")

	p.printf("  (nets\n")
	for _, n := range nl.Nets {
		p.printf("    (net (code %d) (name Net-%d)\n", n.ID+1, n.ID+1)
		for _, r := range n.Refs {
			if r.Wire {
				continue
			}
			p.printf("      (node (ref %s) (pin %s))\n", atom(r.ComponentID), atom(r.Name))
		}
		p.printf("    )\n")
	}
	p.printf("  )\n")
	p.printf(")\n")
	return p.err
}

// atom returns s as a bare symbol, or quoted when it would not read back
// as a single one.
func atom(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\r\n()\"';\\") {
		return strconv.Quote(s)
	}
	return s
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
