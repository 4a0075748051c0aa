package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceSchem/internal/fixture"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/condition"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/description"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/diag"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/registry"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/render"
)

func load(t *testing.T, src string) *Result {
	t.Helper()
	res, err := New(nil).LoadBytes([]byte(src), t.Name())
	require.NoError(t, err)
	return res
}

func issueAt(issues diag.Issues, sev diag.Severity, line int, fragment string) bool {
	for _, i := range issues {
		if i.Severity == sev && i.Pos.Line == line && strings.Contains(i.Message, fragment) {
			return true
		}
	}
	return false
}

func TestLoadResistorMatchesFixture(t *testing.T) {
	res, err := New(nil).LoadBytes(fixture.ResistorXML, "resistor.xml")
	require.NoError(t, err)
	assert.Empty(t, res.Issues)

	got, want := res.Description, fixture.Resistor()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.MinSize, got.MinSize)
	if diff := cmp.Diff(want.Metadata, got.Metadata); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Flags, got.Flags); diff != "" {
		t.Errorf("flags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Connections, got.Connections); diff != "" {
		t.Errorf("connections mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Render, got.Render); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}

	for _, r := range []float64{220, 4700, 2.2e6} {
		c := &circuit.Component{
			ID:         "r1",
			Properties: map[string]condition.Value{"resistance": condition.Number(r)},
			Layout:     geom.Layout{Size: 60},
		}
		assert.Equal(t, want.Bind(c).FormatProperty("R"), got.Bind(c).FormatProperty("R"))
	}
}

func TestLoadedResistorRenders(t *testing.T) {
	res := load(t, string(fixture.ResistorXML))

	got, err := render.Resolve(res.Description, &circuit.Component{ID: "r1", Layout: geom.Layout{Size: 60}}, description.DefaultLayoutOptions())
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, render.Rectangle{Location: geom.Pt(10, -8), Width: 40, Height: 16, Thickness: 2}, got[2])
	assert.Equal(t, "4.7kΩ", got[3].(render.Text).Runs[0].Text)
}

const templated = `<component version="1.2">
  <declaration>
    <meta name="name" value="Fuse" />
    <meta name="guid" value="4f0f8a4e-5a53-4b0c-9f77-0d1f3c2b7a10" />
    <property name="P" type="double" default="100" />
  </declaration>
  <definitions>
    <def name="w">
      <value when="$P &lt; 1000">40</value>
      <value when="$P &gt;= 1000">60</value>
    </def>
  </definitions>
  <render>
    <group conditions="horizontal" whenDefined="w">
      <line start="_Start" end="_End" thickness="1" />
      <rect location="_Middle-20x _Start-8y" width="{w}" height="16" fill="true" />
    </group>
  </render>
</component>`

func TestLoadTemplated(t *testing.T) {
	res := load(t, templated)
	assert.Empty(t, res.Issues)
	require.Len(t, res.Description.Render, 3, "plain line group plus one group per width")

	tests := []struct {
		power float64
		width float64
	}{
		{100, 40},
		{5000, 60},
	}
	for _, tt := range tests {
		c := &circuit.Component{
			ID:         "f1",
			Properties: map[string]condition.Value{"P": condition.Number(tt.power)},
			Layout:     geom.Layout{Size: 60},
		}
		got, err := render.Resolve(res.Description, c, description.DefaultLayoutOptions())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, render.Line{Start: geom.Pt(0, 0), End: geom.Pt(60, 0), Thickness: 1}, got[0])
		assert.Equal(t, render.Rectangle{Location: geom.Pt(10, -8), Width: tt.width, Height: 16, Thickness: 2, Fill: true}, got[1])
	}
}

const broken = `<component version="1.2">
  <declaration>
    <meta name="name" value="Broken" />
    <property name="R" type="double" default="10" />
  </declaration>
  <render>
    <group conditions="horizontal">
      <line start="_Start" />
      <rect location="_Start" width="{h}" height="4" />
      <text location="_Middle" align="Sideways" value="$R" />
      <text location="_Middle" value="$Q" />
      <line start="_Start" end="_End" />
    </group>
    <group conditions="$Nope &lt; 1">
      <line start="_Start" end="_End" />
    </group>
  </render>
</component>`

func TestLoadReportsPositionedIssues(t *testing.T) {
	res := load(t, broken)

	tests := []struct {
		sev      diag.Severity
		line     int
		fragment string
	}{
		{diag.Warning, 2, "no guid"},
		{diag.Error, 8, `"end"`},
		{diag.Error, 9, `"h"`},
		{diag.Warning, 10, "Sideways"},
		{diag.Error, 11, `"Q"`},
		{diag.Error, 14, "Nope"},
	}
	for _, tt := range tests {
		if !issueAt(res.Issues, tt.sev, tt.line, tt.fragment) {
			t.Errorf("no %s at line %d mentioning %s in:\n%v", tt.sev, tt.line, tt.fragment, res.Issues)
		}
	}
	assert.Len(t, res.Issues, len(tests))
	assert.Error(t, res.Issues.Err())

	// the bad elements are dropped, their siblings survive
	d := res.Description
	require.Len(t, d.Render, 1)
	require.Len(t, d.Render[0].Commands, 2)
	text, ok := d.Render[0].Commands[0].(description.Text)
	require.True(t, ok)
	assert.Equal(t, description.CentreCentre, text.Alignment)
	assert.IsType(t, description.Line{}, d.Render[0].Commands[1])
	assert.NotEqual(t, "", d.ID.String())
}

func TestLoadDialects(t *testing.T) {
	tests := []struct {
		name    string
		version string
		state   string
		lowR    string
	}{
		{"legacy", "", "horizontal", "$R(lt_1000)"},
		{"v1.1", ` version="1.1"`, "_horizontal", "$R(lt_1000)"},
		{"modern", ` version="1.2"`, "horizontal", "$R &lt; 1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := `<component` + tt.version + `>
  <declaration>
    <meta name="name" value="R" />
    <meta name="guid" value="0d5e3c77-1f7a-4b8e-a2b4-6c2f6a1b9e42" />
    <property name="R" type="double" default="100">
      <formatting>
        <format conditions="` + tt.lowR + `" value="$R ohm" />
        <format value="big" />
      </formatting>
    </property>
  </declaration>
  <render>
    <group conditions="` + tt.state + `">
      <line start="_Start" end="_End" />
    </group>
  </render>
</component>`
			res := load(t, src)
			assert.False(t, res.Issues.HasErrors(), "%v", res.Issues)
			if tt.version == "" {
				assert.True(t, issueAt(res.Issues, diag.Warning, 1, "no format version"))
			}

			d := res.Description
			require.Len(t, d.Render, 1)
			assert.True(t, d.Render[0].Conditions.Equal(condition.Horizontal(true)))

			c := &circuit.Component{ID: "r1", Layout: geom.Layout{Size: 40}}
			assert.Equal(t, "100 ohm", d.Bind(c).FormatProperty("R"))
			c.Properties = map[string]condition.Value{"R": condition.Number(5000)}
			assert.Equal(t, "big", d.Bind(c).FormatProperty("R"))
		})
	}
}

func TestLoadConfigurationsAndConnections(t *testing.T) {
	src := `<component version="1.2">
  <declaration>
    <meta name="name" value="Diode" />
    <meta name="guid" value="a1b2c3d4-0000-4000-8000-000000000001" />
    <meta name="implementset" value="http://example.org/set" />
    <meta name="implementitem" value="diode" />
    <meta name="colour" value="red" />
    <property name="Type" type="string" default="Standard">
      <option value="Standard" />
      <option value="Zener" />
    </property>
    <flags>
      <option>MiddleMustAlign</option>
      <option conditions="$Type == Zener">NoSizing, Bogus</option>
    </flags>
    <configurations>
      <configuration name="Zener" implements="zener">
        <setter name="Type" value="Zener" />
        <setter name="Missing" value="1" />
      </configuration>
    </configurations>
  </declaration>
  <connections>
    <group conditions="horizontal" autorotate="on">
      <connection name="a" start="_Start" end="_End" edge="both" />
      <group conditions="$Type == Zener">
        <connection name="k" start="_Middle" end="_Middle" edge="sideways" />
      </group>
    </group>
  </connections>
</component>`
	res := load(t, src)
	assert.True(t, issueAt(res.Issues, diag.Warning, 14, "Bogus"))
	assert.True(t, issueAt(res.Issues, diag.Error, 19, "Missing"))
	assert.True(t, issueAt(res.Issues, diag.Warning, 27, "sideways"))

	d := res.Description
	assert.Equal(t, map[string]string{"colour": "red"}, d.Metadata.Additional)
	require.Len(t, d.Properties[0].Options, 2)

	cfg, ok := d.ConfigurationForItem("zener")
	require.True(t, ok)
	assert.True(t, cfg.Setters["Type"].Equal(condition.String("Zener")))
	assert.NotContains(t, cfg.Setters, "Missing")

	zener := &circuit.Component{ID: "d1", Configuration: "Zener", Layout: geom.Layout{Size: 40}}
	assert.Equal(t, description.MiddleMustAlign|description.NoSizing, d.Bind(zener).Flags())

	require.Len(t, d.Connections, 2)
	assert.Equal(t, description.AutoRotateOn, d.Connections[0].AutoRotate)
	assert.Equal(t, description.EdgeBoth, d.Connections[0].Connections[0].Edge)
	assert.Equal(t, description.AutoRotateOn, d.Connections[1].AutoRotate, "nested groups inherit autorotate")
	assert.Equal(t, description.EdgeNone, d.Connections[1].Connections[0].Edge)
}

func TestLoadFailures(t *testing.T) {
	l := New(nil)
	for name, src := range map[string]string{
		"malformed":      `<component><declaration>`,
		"wrong root":     `<symbol version="1.2"/>`,
		"no declaration": `<component version="1.2"><render/></component>`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := l.LoadBytes([]byte(src), name)
			var le *diag.LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, name, le.Source)
		})
	}
}

func TestLoadCachesIdenticalSources(t *testing.T) {
	l := New(nil)
	first, err := l.LoadBytes(fixture.ResistorXML, "a.xml")
	require.NoError(t, err)
	second, err := l.LoadBytes(fixture.ResistorXML, "b.xml")
	require.NoError(t, err)

	assert.Same(t, first.Description, second.Description)
	assert.Equal(t, "b.xml", second.Source)

	third, err := l.Load(strings.NewReader(templated), "c.xml")
	require.NoError(t, err)
	assert.NotSame(t, first.Description, third.Description)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "passive"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resistor.xml"), fixture.ResistorXML, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "passive", "fuse.XML"), []byte(templated), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a description"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.xml"), []byte("<component"), 0o644))

	reg := registry.New()
	n, err := New(nil).LoadDir(context.Background(), dir, reg)
	assert.Error(t, err, "junk.xml fails")
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, reg.Len())

	d, err := reg.Lookup(circuit.ComponentType{Collection: fixture.Common, Item: "resistor"})
	require.NoError(t, err)
	assert.Equal(t, "Resistor", d.Name)
	_, err = reg.Lookup(circuit.ComponentType{Name: "Fuse"})
	assert.NoError(t, err)
}

func TestExampleDescriptionsLoadCleanly(t *testing.T) {
	dir := filepath.Join("..", "..", "examples", "components")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	l := New(nil)
	for _, e := range entries {
		t.Run(e.Name(), func(t *testing.T) {
			res, err := l.LoadFile(context.Background(), filepath.Join(dir, e.Name()))
			require.NoError(t, err)
			assert.Empty(t, res.Issues)
		})
	}

	reg := registry.New()
	n, err := l.LoadDir(context.Background(), dir, reg)
	require.NoError(t, err)
	assert.Equal(t, len(entries), n)

	doc, err := circuit.LoadDocument(filepath.Join("..", "..", "examples", "circuit.yaml"))
	require.NoError(t, err)
	res := render.RenderDocument(doc, reg, description.DefaultLayoutOptions())
	assert.Empty(t, res.Errors)
	assert.Len(t, res.Components, 3)
}
