package loader

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/diag"
)

// element is a namespace-agnostic XML element that remembers where it
// started in the source
type element struct {
	Name     string
	Attrs    map[string]string
	Children []*element
	Text     string
	Pos      diag.Position
}

// readTree decodes r into an element tree
func readTree(r io.Reader) (*element, error) {
	dec := xml.NewDecoder(r)
	var (
		root  *element
		stack []*element
	)
	for {
		line, col := dec.InputPos()
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("loader: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{
				Name:  t.Name.Local,
				Attrs: make(map[string]string, len(t.Attr)),
				Pos:   diag.Position{Line: line, Column: col},
			}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				el.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			} else if root == nil {
				root = el
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("loader: empty document")
	}
	return root, nil
}

func (e *element) attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// children returns the direct children named name
func (e *element) children(name string) []*element {
	var out []*element
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// child returns the first direct child named name
func (e *element) child(name string) *element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (e *element) text() string {
	return strings.TrimSpace(e.Text)
}
