package export

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/ohmlab/nodal/pkg/component"
	"github.com/ohmlab/nodal/pkg/transient"
)

func TestWriteCSV(t *testing.T) {
	comps := []component.Component{
		component.NewDCVoltageSource("V1", "in", "gnd", 12),
		component.NewResistor("R1", "in", "mid", 1000),
		component.NewResistor("R2", "mid", "gnd", 1000),
	}
	res, err := transient.Simulate(comps, transient.Config{Dt: 1e-4, Duration: 3e-4})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, res); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1+len(res.Times) {
		t.Fatalf("expected header + %d rows, got %d lines", len(res.Times), len(lines))
	}
	if lines[0] != "time,in,mid" {
		t.Errorf("header: got %q", lines[0])
	}
	fields := strings.Split(lines[1], ",")
	if len(fields) != 3 || fields[0] != "0" {
		t.Fatalf("first row: got %q", lines[1])
	}
	for i, want := range []float64{12, 6} {
		got, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("column %d: expected %g, got %g", i+1, want, got)
		}
	}
}

func TestSavePlotUnknownNode(t *testing.T) {
	res, err := transient.Simulate(nil, transient.Config{Dt: 1e-4, Duration: 1e-3})
	if err != nil {
		t.Fatal(err)
	}
	if err := SavePlot(t.TempDir()+"/out.png", "t", res, []string{"nope"}); err == nil {
		t.Fatal("expected unknown-node error")
	}
}
