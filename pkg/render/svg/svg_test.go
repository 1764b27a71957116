package svg

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/stepflow/pkg/diagram"
	"github.com/matzehuels/stepflow/pkg/layout"
	"github.com/matzehuels/stepflow/pkg/process"
	"github.com/matzehuels/stepflow/pkg/route"
)

func branching() diagram.Diagram {
	gap := "no owner"
	rec := process.Record{
		Name: "Refund <review>",
		Nodes: []process.NodeRecord{
			{ID: "start", Kind: "trigger", Title: "Refund requested"},
			{ID: "check", Kind: "decision", Title: "Amount over limit?"},
			{ID: "approve", Title: "Manager approval", Actors: []string{"Manager"}, Gap: &gap},
			{ID: "pay", Title: "Pay out", Description: "Transfer funds",
				OperationalDetails: &process.OperationalDetails{Timeline: "1d"}},
			{ID: "done", Kind: "end", Title: "Closed"},
		},
	}
	rec.SetEdges([]process.EdgeRecord{
		{Source: "start", Target: "check"},
		{Source: "check", Target: "approve", Condition: "yes"},
		{Source: "check", Target: "pay", Condition: "no"},
		{Source: "approve", Target: "pay"},
		{Source: "pay", Target: "done"},
		{Source: "pay", Target: "approve", Label: "Payment error"},
	})
	g := process.Adapt(rec)
	res := layout.Compute(g, layout.DefaultConfig())
	return diagram.Build(g, res, route.All(g, res, route.DefaultConfig()))
}

func TestRender_WellFormed(t *testing.T) {
	out := Render(branching())

	dec := xml.NewDecoder(strings.NewReader(string(out)))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("output is not well-formed XML: %v", err)
		}
	}
	if !strings.HasPrefix(string(out), "<svg ") {
		t.Error("output does not start with <svg")
	}
	if !strings.Contains(string(out), "<title>Refund &lt;review&gt;</title>") {
		t.Error("diagram name not escaped into title")
	}
}

func TestRender_Shapes(t *testing.T) {
	d := branching()
	out := string(Render(d))

	for _, id := range []string{"start", "check", "approve", "pay", "done"} {
		if !strings.Contains(out, `id="node-`+id+`"`) {
			t.Errorf("missing node group %q", id)
		}
	}
	// one diamond for the decision, one arrowhead polygon per edge
	if got, want := strings.Count(out, "<polygon "), 1+len(d.Edges); got != want {
		t.Errorf("polygon count = %d, want %d", got, want)
	}
	done, _ := d.Node("done")
	if !strings.Contains(out, `rx="50.0"`) || done.Box.H != 100 {
		t.Error("end node not drawn as a pill")
	}
	if !strings.Contains(out, `class="gap"`) {
		t.Error("gap marker missing")
	}
	if strings.Count(out, `class="details"`) != 1 {
		t.Error("details marker should appear once")
	}
}

func TestRender_Edges(t *testing.T) {
	out := string(Render(branching()))

	if !strings.Contains(out, `stroke-dasharray="6 4"`) {
		t.Error("error edge not dashed")
	}
	for _, label := range []string{">Yes<", ">No<", ">Payment error<"} {
		if !strings.Contains(out, label) {
			t.Errorf("missing label %s", label)
		}
	}
	if !strings.Contains(out, `stroke="#16a34a"`) || !strings.Contains(out, `stroke="#dc2626"`) {
		t.Error("branch colours missing")
	}
}

func TestRender_Options(t *testing.T) {
	d := branching()

	out := string(Render(d, WithShowLabels(false), WithBackground(""), WithFontFamily("Courier")))
	if strings.Contains(out, ">Yes<") {
		t.Error("labels rendered with WithShowLabels(false)")
	}
	if strings.Contains(out, `height="100%"`) {
		t.Error("background drawn with WithBackground(\"\")")
	}
	if !strings.Contains(out, `font-family="Courier"`) {
		t.Error("font family not applied")
	}

	out = string(Render(d, WithFontFamily("")))
	if !strings.Contains(out, `font-family="`+DefaultFontFamily+`"`) {
		t.Error("empty font family should keep the default")
	}
	if !strings.Contains(out, `fill="`+DefaultBackground+`"`) {
		t.Error("default background missing")
	}
}

func TestRender_Deterministic(t *testing.T) {
	a := Render(branching())
	b := Render(branching())
	if string(a) != string(b) {
		t.Error("Render() is not deterministic")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		avail float64
		want  string
	}{
		{"short", 200, "short"},
		{"a very long title that will not fit", 60, "a very l.."},
		{"äöüäöüäöüäöü", 40, "äöüäö.."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.avail, 10); got != tt.want {
			t.Errorf("truncate(%q, %v) = %q, want %q", tt.in, tt.avail, got, tt.want)
		}
	}
}

func TestFontSizeFor(t *testing.T) {
	if got := fontSizeFor(1000, 3); got != fontSizeMax {
		t.Errorf("fontSizeFor(short) = %v, want %v", got, fontSizeMax)
	}
	if got := fontSizeFor(10, 100); got != fontSizeMin {
		t.Errorf("fontSizeFor(long) = %v, want %v", got, fontSizeMin)
	}
}
