package circuit

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/condition"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

type yamlDocument struct {
	Components []yamlComponent `yaml:"components"`
	Wires      []yamlWire      `yaml:"wires"`
}

type yamlType struct {
	GUID       string `yaml:"guid"`
	Name       string `yaml:"name"`
	Collection string `yaml:"collection"`
	Item       string `yaml:"item"`
}

type yamlLayout struct {
	Location    geom.Point `yaml:"location"`
	Size        float64    `yaml:"size"`
	Orientation string     `yaml:"orientation"`
	Flip        []string   `yaml:"flip"`
}

type yamlComponent struct {
	ID            string         `yaml:"id"`
	Type          yamlType       `yaml:"type"`
	Configuration string         `yaml:"configuration"`
	Properties    map[string]any `yaml:"properties"`
	yamlLayout    `yaml:",inline"`
}

type yamlWire struct {
	ID         string `yaml:"id"`
	yamlLayout `yaml:",inline"`
}

func (l yamlLayout) layout() (geom.Layout, error) {
	o, err := geom.ParseOrientation(l.Orientation)
	if err != nil {
		return geom.Layout{}, err
	}
	out := geom.Layout{Location: l.Location, Size: l.Size, Orientation: o}
	for _, f := range l.Flip {
		switch f {
		case "primary":
			out.Flip |= geom.FlipPrimary
		case "secondary":
			out.Flip |= geom.FlipSecondary
		default:
			return geom.Layout{}, fmt.Errorf("circuit: unknown flip %q", f)
		}
	}
	return out, nil
}

// ReadDocument decodes a YAML circuit document.
func ReadDocument(r io.Reader) (*Document, error) {
	var raw yamlDocument
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("circuit: decode: %w", err)
	}

	doc := &Document{}
	for _, rc := range raw.Components {
		layout, err := rc.layout()
		if err != nil {
			return nil, fmt.Errorf("circuit: component %q: %w", rc.ID, err)
		}
		c := &Component{
			ID:            rc.ID,
			Configuration: rc.Configuration,
			Layout:        layout,
			Type: ComponentType{
				Name:       rc.Type.Name,
				Collection: rc.Type.Collection,
				Item:       rc.Type.Item,
			},
			Properties: make(map[string]condition.Value, len(rc.Properties)),
		}
		if rc.Type.GUID != "" {
			id, err := uuid.Parse(rc.Type.GUID)
			if err != nil {
				return nil, fmt.Errorf("circuit: component %q: bad guid: %w", rc.ID, err)
			}
			c.Type.ID = id
		}
		for k, v := range rc.Properties {
			val, err := condition.FromInterface(v)
			if err != nil {
				return nil, fmt.Errorf("circuit: component %q property %q: %w", rc.ID, k, err)
			}
			c.Properties[k] = val
		}
		doc.Components = append(doc.Components, c)
	}
	for _, rw := range raw.Wires {
		layout, err := rw.layout()
		if err != nil {
			return nil, fmt.Errorf("circuit: wire %q: %w", rw.ID, err)
		}
		doc.Wires = append(doc.Wires, &Wire{ID: rw.ID, Layout: layout})
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadDocument reads a YAML circuit document from path.
func LoadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadDocument(f)
}
