package diagram

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/stepflow/pkg/geom"
	"github.com/matzehuels/stepflow/pkg/layout"
	"github.com/matzehuels/stepflow/pkg/process"
	"github.com/matzehuels/stepflow/pkg/route"
	"github.com/matzehuels/stepflow/pkg/style"
)

func build(t *testing.T, rec process.Record) Diagram {
	t.Helper()
	g := process.Adapt(rec)
	res := layout.Compute(g, layout.DefaultConfig())
	return Build(g, res, route.All(g, res, route.DefaultConfig()))
}

func scenario() process.Record {
	return process.Record{Nodes: []process.NodeRecord{
		{ID: "1", Kind: "trigger"},
		{ID: "2", Kind: "action"},
		{ID: "3", Kind: "end"},
	}}
}

func TestBuild_Scenario(t *testing.T) {
	d := build(t, scenario())

	if len(d.Nodes) != 3 {
		t.Fatalf("len(Nodes) = %d, want 3", len(d.Nodes))
	}
	for i := 1; i < len(d.Nodes); i++ {
		if d.Nodes[i].Box.Y <= d.Nodes[i-1].Box.Y {
			t.Errorf("node %s y = %v, not below %s y = %v",
				d.Nodes[i].ID, d.Nodes[i].Box.Y, d.Nodes[i-1].ID, d.Nodes[i-1].Box.Y)
		}
	}

	if len(d.Edges) != 2 {
		t.Fatalf("len(Edges) = %d, want 2", len(d.Edges))
	}
	for _, e := range d.Edges {
		if e.Kind != process.EdgeSequential || !e.Synthesized {
			t.Errorf("edge %s kind = %s synthesized = %v, want synthesized sequential", e.ID, e.Kind, e.Synthesized)
		}
		if e.Style.Stroke != style.StrokeNeutral || e.Style.Dashed {
			t.Errorf("edge %s style = %+v, want solid neutral", e.ID, e.Style)
		}
	}

	want := []style.Variant{style.VariantTrigger, style.VariantDefault, style.VariantDefault}
	for i, n := range d.Nodes {
		if n.Style.Variant != want[i] {
			t.Errorf("node %s variant = %s, want %s", n.ID, n.Style.Variant, want[i])
		}
	}
}

func TestBuild_Handles(t *testing.T) {
	d := build(t, process.Record{Nodes: []process.NodeRecord{
		{ID: "start"},
		{ID: "check", Type: "decision"},
		{ID: "done"},
	}})

	check, ok := d.Node("check")
	if !ok {
		t.Fatal("Node(check) not found")
	}
	if len(check.Handles) != 4 {
		t.Errorf("decision handles = %d, want 4", len(check.Handles))
	}
	if got, want := check.Handles[geom.Right], check.Box.Anchor(geom.Right); !got.Eq(want) {
		t.Errorf("right handle = %v, want %v", got, want)
	}

	start, _ := d.Node("start")
	if _, ok := start.Handles[geom.Top]; ok {
		t.Error("trigger should not expose a top handle")
	}
}

func TestBuild_CanvasCoversRoutes(t *testing.T) {
	d := build(t, process.Record{
		Nodes: []process.NodeRecord{{ID: "x"}, {ID: "y"}},
		Edges: &[]process.EdgeRecord{
			{Source: "x", Target: "y"},
			{Source: "y", Target: "x"},
		},
	})

	if !d.Diagnostics.Has(process.CodeCycleFallback) {
		t.Errorf("diagnostics = %v, want %s", d.Diagnostics, process.CodeCycleFallback)
	}
	for _, e := range d.Edges {
		for _, p := range e.Points {
			if p.X > d.Width || p.Y > d.Height {
				t.Errorf("edge %s point %v outside canvas %vx%v", e.ID, p, d.Width, d.Height)
			}
		}
	}
}

func TestBuild_DiagnosticsOrder(t *testing.T) {
	d := build(t, process.Record{
		Nodes: []process.NodeRecord{{ID: "a", Status: "bogus"}, {ID: "b"}},
		Edges: &[]process.EdgeRecord{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "a"},
		},
	})
	if len(d.Diagnostics) < 2 {
		t.Fatalf("diagnostics = %v, want at least 2", d.Diagnostics)
	}
	if d.Diagnostics[0].Code != process.CodeUnknownStatus {
		t.Errorf("first diagnostic = %s, want %s", d.Diagnostics[0].Code, process.CodeUnknownStatus)
	}
	last := d.Diagnostics[len(d.Diagnostics)-1]
	if last.Code != process.CodeCycleFallback {
		t.Errorf("last diagnostic = %s, want %s", last.Code, process.CodeCycleFallback)
	}
}

func TestWireFormat(t *testing.T) {
	d := build(t, scenario())
	data, err := Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	nodes := raw["nodes"].([]any)
	first := nodes[0].(map[string]any)
	st := first["style"].(map[string]any)
	for _, key := range []string{"variant", "icon", "isLightBackground", "fill", "stroke", "text", "className"} {
		if _, ok := st[key]; !ok {
			t.Errorf("style missing key %q", key)
		}
	}
	if _, ok := first["hasDetails"]; !ok {
		t.Error("node missing hasDetails")
	}
}

func TestFileRoundTrip(t *testing.T) {
	d := build(t, scenario())
	path := filepath.Join(t.TempDir(), "diagram.json")
	if err := WriteFile(d, path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got.Strategy != d.Strategy || len(got.Nodes) != len(d.Nodes) || len(got.Edges) != len(d.Edges) {
		t.Errorf("ReadFile() = %s/%d/%d, want %s/%d/%d",
			got.Strategy, len(got.Nodes), len(got.Edges), d.Strategy, len(d.Nodes), len(d.Edges))
	}
	if !got.Edges[0].Arrow.Tip.Eq(d.Edges[0].Arrow.Tip) {
		t.Errorf("arrow tip = %v, want %v", got.Edges[0].Arrow.Tip, d.Edges[0].Arrow.Tip)
	}
}

func TestWriteRead(t *testing.T) {
	d := build(t, scenario())
	var buf bytes.Buffer
	if err := Write(d, &buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := Read(&buf); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
}

func TestUnmarshal_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"NotJSON", "{", "unmarshal diagram"},
		{"NoStrategy", `{"nodes":[]}`, "strategy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.input))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Unmarshal() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
