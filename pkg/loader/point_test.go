package loader

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/description"
)

func TestParsePoint(t *testing.T) {
	const (
		s = description.Start
		m = description.Middle
		e = description.End
	)
	tests := []struct {
		in   string
		want description.PointTemplate
	}{
		{"_Start", description.PointTemplate{RelativeToX: s, RelativeToY: s}},
		{"_Middle-20x", description.PointTemplate{
			RelativeToX: m, RelativeToY: m,
			OffsetX: description.OffsetTemplate{{Value: 20, Negated: true}},
		}},
		{"_End+5x-3y", description.PointTemplate{
			RelativeToX: e, RelativeToY: e,
			OffsetX: description.Offset(5),
			OffsetY: description.OffsetTemplate{{Value: 3, Negated: true}},
		}},
		{"_Middle-20x _Start-8y", description.PointTemplate{
			RelativeToX: m, RelativeToY: s,
			OffsetX: description.OffsetTemplate{{Value: 20, Negated: true}},
			OffsetY: description.OffsetTemplate{{Value: 8, Negated: true}},
		}},
		{"_Start _Middle", description.PointTemplate{RelativeToX: s, RelativeToY: m}},
		{"_Start-{w}x+2.5y", description.PointTemplate{
			RelativeToX: s, RelativeToY: s,
			OffsetX: description.OffsetTemplate{{Variable: "w", Negated: true}},
			OffsetY: description.OffsetTemplate{{Value: 2.5}},
		}},
		{"_Middle+{w}-4 _End", description.PointTemplate{
			RelativeToX: m, RelativeToY: e,
			OffsetX: description.OffsetTemplate{{Variable: "w"}, {Value: 4, Negated: true}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePoint(tt.in)
			if err != nil {
				t.Fatalf("parsePoint(%q) error: %v", tt.in, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parsePoint(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestParsePointErrors(t *testing.T) {
	for _, in := range []string{"", "Start", "_Start-20", "_Start _Middle _End", "_Start-5y _End", "_Start+x"} {
		if _, err := parsePoint(in); err == nil {
			t.Errorf("parsePoint(%q) succeeded, want error", in)
		}
	}
}

func TestParseOffset(t *testing.T) {
	got, err := parseOffset("40")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(description.Offset(40), got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	got, err = parseOffset("{w}+2")
	if err != nil {
		t.Fatal(err)
	}
	want := description.OffsetTemplate{{Variable: "w"}, {Value: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if _, err := parseOffset("40x"); err == nil {
		t.Error("axis on a single-axis value should fail")
	}
}
