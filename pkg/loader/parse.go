package loader

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/condition"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/condition/syntax"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/definitions"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/description"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/diag"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/svgpath"
)

// DefaultThickness is the stroke width of commands that do not set one.
const DefaultThickness = 2.0

// parser turns an element tree into a definitions.Source. Problems are
// recorded as issues; a bad element is dropped and its siblings are kept.
type parser struct {
	version syntax.Version
	desc    *description.ComponentDescription
	defs    definitions.Definitions
	issues  diag.Issues
}

// parseComponent builds the flattened description rooted at root
func parseComponent(root *element) (*description.ComponentDescription, diag.Issues) {
	p := &parser{
		desc: &description.ComponentDescription{},
		defs: definitions.Definitions{},
	}

	if root.Name != "component" {
		p.issues.Errorf(root.Pos, "root element is <%s>, expected <component>", root.Name)
		return nil, p.issues
	}

	raw, ok := root.attr("version")
	if !ok {
		p.issues.Warnf(root.Pos, "no format version, assuming %s", syntax.V1_0)
	}
	v, err := syntax.ParseVersion(raw)
	if err != nil {
		p.issues.Warnf(root.Pos, "%v, assuming %s", err, syntax.V1_0)
		v = syntax.V1_0
	}
	p.version = v
	p.desc.Metadata.FormatVersion = v.String()

	decl := root.child("declaration")
	if decl == nil {
		p.issues.Errorf(root.Pos, "missing <declaration>")
		return nil, p.issues
	}
	p.declaration(decl)

	for _, el := range root.children("definitions") {
		p.definitions(el)
	}

	src := &definitions.Source{Description: p.desc, Definitions: p.defs}
	for _, el := range root.Children {
		switch el.Name {
		case "declaration", "definitions":
		case "connections":
			for _, g := range el.children("group") {
				src.Connections = append(src.Connections, p.connectionGroup(g, connectionScope{})...)
			}
		case "render":
			for _, g := range el.children("group") {
				src.Render = append(src.Render, p.renderGroup(g, renderScope{})...)
			}
		default:
			p.issues.Warnf(el.Pos, "unknown element <%s>", el.Name)
		}
	}

	flat, issues := definitions.Flatten(src)
	p.issues.Append(issues)
	return flat, p.issues
}

func (p *parser) required(el *element, name string) (string, bool) {
	v, ok := el.attr(name)
	if !ok {
		p.issues.Errorf(el.Pos, "<%s> is missing required attribute %q", el.Name, name)
	}
	return v, ok
}

func (p *parser) conditions(el *element) (condition.Tree, bool) {
	text, ok := el.attr("conditions")
	if !ok {
		return condition.Always, true
	}
	t, err := syntax.Parse(p.version, text, p.desc)
	if err != nil {
		p.issues.Errorf(el.Pos, "conditions %q: %v", text, err)
		return condition.Always, false
	}
	return t, true
}

func (p *parser) number(el *element, name string, def float64) float64 {
	raw, ok := el.attr(name)
	if !ok {
		return def
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		p.issues.Warnf(el.Pos, "%s=%q is not a number, using %g", name, raw, def)
		return def
	}
	return n
}

func (p *parser) boolean(el *element, name string) bool {
	raw, ok := el.attr(name)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		p.issues.Warnf(el.Pos, "%s=%q is not a boolean, using false", name, raw)
		return false
	}
	return b
}

func (p *parser) autoRotate(el *element, inherited description.AutoRotate) description.AutoRotate {
	raw, ok := el.attr("autorotate")
	if !ok {
		return inherited
	}
	a, err := description.ParseAutoRotate(raw)
	if err != nil {
		p.issues.Warnf(el.Pos, "%v, using off", err)
		return description.AutoRotateOff
	}
	return a
}

// whenDefined splits a whenDefined list and checks each name has a definition
func (p *parser) whenDefined(el *element, inherited []string) []string {
	out := append([]string(nil), inherited...)
	raw, ok := el.attr("whenDefined")
	if !ok {
		return out
	}
	for _, name := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' }) {
		name = strings.TrimPrefix(name, "$")
		if _, defined := p.defs[name]; !defined {
			p.issues.Warnf(el.Pos, "whenDefined names %q which has no definition", name)
		}
		out = append(out, name)
	}
	return out
}

func (p *parser) declaration(decl *element) {
	d := p.desc
	var guid string
	var guidPos diag.Position
	for _, meta := range decl.children("meta") {
		name, ok := p.required(meta, "name")
		if !ok {
			continue
		}
		value, ok := p.required(meta, "value")
		if !ok {
			continue
		}
		switch strings.ToLower(name) {
		case "name":
			d.Name = value
		case "guid":
			guid, guidPos = value, meta.Pos
		case "author":
			d.Metadata.Author = value
		case "version":
			d.Metadata.Version = value
		case "description":
			d.Metadata.Summary = value
		case "minsize":
			n, err := strconv.ParseFloat(value, 64)
			if err != nil || n < 0 {
				p.issues.Warnf(meta.Pos, "minsize %q is not a non-negative number", value)
				continue
			}
			d.MinSize = n
		case "implementset":
			d.Metadata.ImplementSet = value
		case "implementitem":
			d.Metadata.ImplementItem = value
		default:
			if d.Metadata.Additional == nil {
				d.Metadata.Additional = map[string]string{}
			}
			d.Metadata.Additional[name] = value
		}
	}
	if d.Name == "" {
		p.issues.Errorf(decl.Pos, "description has no name")
	}

	switch id, err := uuid.Parse(guid); {
	case guid == "":
		d.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(d.Name))
		p.issues.Warnf(decl.Pos, "no guid, derived %s from the name", d.ID)
	case err != nil:
		d.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(d.Name))
		p.issues.Warnf(guidPos, "guid %q is invalid, derived %s from the name", guid, d.ID)
	default:
		d.ID = id
	}

	// Declare every property before parsing anything that may reference one.
	props := decl.children("property")
	declared := make([]*element, 0, len(props))
	for _, el := range props {
		if p.property(el) {
			declared = append(declared, el)
		}
	}
	for i, el := range declared {
		p.formatting(&d.Properties[i], el)
	}

	for _, el := range decl.children("flags") {
		p.flags(el)
	}
	for _, el := range decl.children("configurations") {
		p.configurations(el)
	}
}

func (p *parser) property(el *element) bool {
	name, ok := p.required(el, "name")
	if !ok {
		return false
	}
	if _, dup := p.desc.Property(name); dup {
		p.issues.Errorf(el.Pos, "property %q is declared twice", name)
		return false
	}
	prop := description.Property{Name: name}
	prop.SerializedName, _ = el.attr("serialize")
	prop.DisplayName, _ = el.attr("display")

	if raw, ok := el.attr("type"); ok {
		kind, err := condition.ParseKind(raw)
		if err != nil {
			p.issues.Warnf(el.Pos, "%v, using string", err)
		}
		prop.Type = kind
	}

	prop.Default = zeroValue(prop.Type)
	if raw, ok := el.attr("default"); ok {
		v, err := condition.ParseValue(prop.Type, raw)
		if err != nil {
			p.issues.Errorf(el.Pos, "property %q default: %v", name, err)
		} else {
			prop.Default = v
		}
	}

	for _, opt := range el.children("option") {
		raw, ok := opt.attr("value")
		if !ok {
			raw = opt.text()
		}
		v, err := condition.ParseValue(prop.Type, raw)
		if err != nil {
			p.issues.Errorf(opt.Pos, "property %q option: %v", name, err)
			continue
		}
		prop.Options = append(prop.Options, v)
	}
	if len(prop.Options) > 0 && !prop.Allows(prop.Default) {
		p.issues.Warnf(el.Pos, "property %q default %s is not one of its options", name, prop.Default)
	}

	p.desc.Properties = append(p.desc.Properties, prop)
	return true
}

func zeroValue(kind condition.Kind) condition.Value {
	switch kind {
	case condition.KindNumber:
		return condition.Number(0)
	case condition.KindBool:
		return condition.Bool(false)
	}
	return condition.String("")
}

func (p *parser) formatting(prop *description.Property, el *element) {
	for _, block := range el.children("formatting") {
		for _, f := range block.children("format") {
			raw, ok := p.required(f, "value")
			if !ok {
				continue
			}
			cond, ok := p.conditions(f)
			if !ok {
				continue
			}
			format, ok := p.format(f, raw)
			if !ok {
				continue
			}
			prop.FormatRules = append(prop.FormatRules, description.FormatRule{Conditions: cond, Value: format})
		}
	}
}

// format parses a text template and checks it only references declared
// properties
func (p *parser) format(el *element, raw string) (description.Format, bool) {
	f, err := description.ParseFormat(raw)
	if err != nil {
		p.issues.Errorf(el.Pos, "%v", err)
		return description.Format{}, false
	}
	for _, ref := range f.References() {
		if _, ok := p.desc.Property(ref); !ok {
			p.issues.Errorf(el.Pos, "%q references undeclared property %q", raw, ref)
			return description.Format{}, false
		}
	}
	return f, true
}

func (p *parser) flags(el *element) {
	for _, f := range el.Children {
		if f.Name != "flag" && f.Name != "option" {
			p.issues.Warnf(f.Pos, "unknown element <%s> in <flags>", f.Name)
			continue
		}
		cond, ok := p.conditions(f)
		if !ok {
			continue
		}
		var value description.FlagOptions
		for _, name := range strings.Split(f.text(), ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			flag, ok := description.ParseFlag(name)
			if !ok {
				p.issues.Warnf(f.Pos, "unknown flag %q", name)
				continue
			}
			value |= flag
		}
		p.desc.Flags = append(p.desc.Flags, description.FlagRule{Conditions: cond, Value: value})
	}
}

func (p *parser) configurations(el *element) {
	for _, c := range el.children("configuration") {
		name, ok := p.required(c, "name")
		if !ok {
			continue
		}
		cfg := description.Configuration{Name: name, Setters: map[string]condition.Value{}}
		cfg.ImplementationName, _ = c.attr("implements")
		for _, s := range c.children("setter") {
			prop, ok := p.required(s, "name")
			if !ok {
				continue
			}
			raw, ok := p.required(s, "value")
			if !ok {
				continue
			}
			decl, declared := p.desc.Property(prop)
			if !declared {
				p.issues.Errorf(s.Pos, "configuration %q sets undeclared property %q", name, prop)
				continue
			}
			v, err := condition.ParseValue(decl.Type, raw)
			if err != nil {
				p.issues.Errorf(s.Pos, "configuration %q: %v", name, err)
				continue
			}
			cfg.Setters[prop] = v
		}
		p.desc.Metadata.Configurations = append(p.desc.Metadata.Configurations, cfg)
	}
}

func (p *parser) definitions(el *element) {
	for _, def := range el.children("def") {
		name, ok := p.required(def, "name")
		if !ok {
			continue
		}
		var values description.ConditionalCollection[condition.Value]
		for _, v := range def.children("value") {
			cond := condition.Always
			if when, ok := v.attr("when"); ok {
				t, err := syntax.Parse(p.version, when, p.desc)
				if err != nil {
					p.issues.Errorf(v.Pos, "when %q: %v", when, err)
					continue
				}
				cond = t
			}
			raw, ok := v.attr("value")
			if !ok {
				raw = v.text()
			}
			values = append(values, description.Conditional[condition.Value]{
				Value:      condition.InferValue(raw),
				Conditions: cond,
			})
		}
		if len(values) == 0 {
			p.issues.Warnf(def.Pos, "definition %q has no values", name)
		}
		p.defs[name] = values
	}
}

func (p *parser) point(el *element, attr string) (description.PointTemplate, bool) {
	raw, ok := p.required(el, attr)
	if !ok {
		return description.PointTemplate{}, false
	}
	pt, err := parsePoint(raw)
	if err != nil {
		p.issues.Errorf(el.Pos, "%s: %v", attr, err)
		return description.PointTemplate{}, false
	}
	return pt, true
}

func (p *parser) offset(el *element, attrs ...string) (description.OffsetTemplate, bool) {
	for _, attr := range attrs {
		raw, ok := el.attr(attr)
		if !ok {
			continue
		}
		o, err := parseOffset(raw)
		if err != nil {
			p.issues.Errorf(el.Pos, "%s: %v", attr, err)
			return nil, false
		}
		return o, true
	}
	p.issues.Errorf(el.Pos, "<%s> is missing required attribute %q", el.Name, attrs[0])
	return nil, false
}

type connectionScope struct {
	conditions  condition.Tree
	autoRotate  description.AutoRotate
	whenDefined []string
}

// connectionGroup returns the group and any nested groups, in document
// order. Connections following a nested group start a new group under the
// same conditions.
func (p *parser) connectionGroup(el *element, outer connectionScope) []definitions.ConnectionGroup {
	cond, ok := p.conditions(el)
	if !ok {
		return nil
	}
	scope := connectionScope{
		conditions:  condition.And(outer.conditions, cond),
		autoRotate:  p.autoRotate(el, outer.autoRotate),
		whenDefined: p.whenDefined(el, outer.whenDefined),
	}
	newGroup := func() definitions.ConnectionGroup {
		return definitions.ConnectionGroup{
			Conditions:  scope.conditions,
			AutoRotate:  scope.autoRotate,
			WhenDefined: scope.whenDefined,
			Pos:         el.Pos,
		}
	}

	var out []definitions.ConnectionGroup
	current := newGroup()
	for _, c := range el.Children {
		switch c.Name {
		case "group":
			if len(current.Connections) > 0 {
				out = append(out, current)
				current = newGroup()
			}
			out = append(out, p.connectionGroup(c, scope)...)
		case "connection":
			if conn, ok := p.connection(c, scope.whenDefined); ok {
				current.Connections = append(current.Connections, conn)
			}
		default:
			p.issues.Warnf(c.Pos, "unknown element <%s> in connection group", c.Name)
		}
	}
	if len(current.Connections) > 0 || len(out) == 0 {
		out = append(out, current)
	}
	return out
}

func (p *parser) connection(el *element, whenDefined []string) (definitions.Connection, bool) {
	start, ok1 := p.point(el, "start")
	end, ok2 := p.point(el, "end")
	if !ok1 || !ok2 {
		return definitions.Connection{}, false
	}
	conn := definitions.Connection{
		Start:       start,
		End:         end,
		WhenDefined: whenDefined,
		Pos:         el.Pos,
	}
	conn.Name, _ = el.attr("name")
	if raw, ok := el.attr("edge"); ok {
		edge, err := description.ParseConnectionEdge(raw)
		if err != nil {
			p.issues.Warnf(el.Pos, "%v, using none", err)
		}
		conn.Edge = edge
	}
	return conn, true
}

type renderScope = connectionScope

func (p *parser) renderGroup(el *element, outer renderScope) []definitions.RenderGroup {
	cond, ok := p.conditions(el)
	if !ok {
		return nil
	}
	scope := renderScope{
		conditions:  condition.And(outer.conditions, cond),
		autoRotate:  p.autoRotate(el, outer.autoRotate),
		whenDefined: p.whenDefined(el, outer.whenDefined),
	}
	newGroup := func() definitions.RenderGroup {
		return definitions.RenderGroup{
			Conditions:  scope.conditions,
			AutoRotate:  scope.autoRotate,
			WhenDefined: scope.whenDefined,
			Pos:         el.Pos,
		}
	}

	var out []definitions.RenderGroup
	current := newGroup()
	for _, c := range el.Children {
		if c.Name == "group" {
			if len(current.Commands) > 0 {
				out = append(out, current)
				current = newGroup()
			}
			out = append(out, p.renderGroup(c, scope)...)
			continue
		}
		if cmd, ok := p.command(c); ok {
			current.Commands = append(current.Commands, cmd)
		}
	}
	if len(current.Commands) > 0 || len(out) == 0 {
		out = append(out, current)
	}
	return out
}

func (p *parser) command(el *element) (definitions.Command, bool) {
	thickness := p.number(el, "thickness", DefaultThickness)
	switch el.Name {
	case "line":
		start, ok1 := p.point(el, "start")
		end, ok2 := p.point(el, "end")
		if !ok1 || !ok2 {
			return nil, false
		}
		return &definitions.Line{Start: start, End: end, Thickness: thickness, Pos: el.Pos}, true

	case "rect":
		loc, ok1 := p.point(el, "location")
		w, ok2 := p.offset(el, "width")
		h, ok3 := p.offset(el, "height")
		if !ok1 || !ok2 || !ok3 {
			return nil, false
		}
		return &definitions.Rectangle{
			Location:  loc,
			Width:     w,
			Height:    h,
			Thickness: thickness,
			Fill:      p.boolean(el, "fill"),
			Pos:       el.Pos,
		}, true

	case "ellipse":
		attr := "centre"
		if _, ok := el.attr("center"); ok {
			attr = "center"
		}
		centre, ok1 := p.point(el, attr)
		rx, ok2 := p.offset(el, "radiusx", "rx")
		ry, ok3 := p.offset(el, "radiusy", "ry")
		if !ok1 || !ok2 || !ok3 {
			return nil, false
		}
		return &definitions.Ellipse{
			Centre:    centre,
			RadiusX:   rx,
			RadiusY:   ry,
			Thickness: thickness,
			Fill:      p.boolean(el, "fill"),
			Pos:       el.Pos,
		}, true

	case "path":
		start, ok := p.point(el, "start")
		if !ok {
			return nil, false
		}
		data, ok := p.required(el, "data")
		if !ok {
			return nil, false
		}
		cmds, err := svgpath.Parse(data)
		if err != nil {
			p.issues.Errorf(el.Pos, "path data: %v", err)
			return nil, false
		}
		return &definitions.Path{
			Start:     start,
			Thickness: thickness,
			Fill:      p.boolean(el, "fill"),
			Commands:  cmds,
			Pos:       el.Pos,
		}, true

	case "text":
		return p.text(el)
	}
	p.issues.Warnf(el.Pos, "unknown render command <%s>", el.Name)
	return nil, false
}

func (p *parser) text(el *element) (definitions.Command, bool) {
	loc, ok := p.point(el, "location")
	if !ok {
		return nil, false
	}
	cmd := &definitions.Text{Location: loc, Alignment: description.CentreCentre, Pos: el.Pos}
	if raw, ok := el.attr("align"); ok {
		a, err := description.ParseTextAlignment(raw)
		if err != nil {
			p.issues.Warnf(el.Pos, "%v, using %s", err, description.CentreCentre)
		} else {
			cmd.Alignment = a
		}
	}
	if raw, ok := el.attr("rotate"); ok {
		r, err := description.ParseTextRotation(raw)
		if err != nil {
			p.issues.Warnf(el.Pos, "%v, using 0", err)
		}
		cmd.Rotation = r
	}
	size := p.number(el, "size", description.DefaultTextSize)

	if value, ok := el.attr("value"); ok {
		if _, ok := p.format(el, value); !ok {
			return nil, false
		}
		cmd.Runs = append(cmd.Runs, description.TextRun{
			Text:       value,
			Formatting: description.TextFormatting{Size: size},
		})
	}
	for _, run := range el.children("textrun") {
		value, ok := run.attr("value")
		if !ok {
			value = run.Text
		}
		if _, ok := p.format(run, value); !ok {
			return nil, false
		}
		f := description.TextFormatting{Size: p.number(run, "size", size)}
		switch raw, _ := run.attr("baseline"); strings.ToLower(raw) {
		case "", "normal":
		case "super", "superscript":
			f.Mode = description.RunSuperscript
		case "sub", "subscript":
			f.Mode = description.RunSubscript
		default:
			p.issues.Warnf(run.Pos, "unsupported baseline %q, using normal", raw)
		}
		cmd.Runs = append(cmd.Runs, description.TextRun{Text: value, Formatting: f})
	}
	if len(cmd.Runs) == 0 {
		p.issues.Errorf(el.Pos, "<text> has neither a value nor text runs")
		return nil, false
	}
	return cmd, true
}
