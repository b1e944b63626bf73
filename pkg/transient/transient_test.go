package transient

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/ohmlab/nodal/pkg/component"
	"github.com/ohmlab/nodal/pkg/linear"
	"github.com/ohmlab/nodal/pkg/netlist"
	"github.com/ohmlab/nodal/pkg/topology"
)

func divider() []component.Component {
	return []component.Component{
		component.NewDCVoltageSource("V1", "in", "gnd", 12),
		component.NewResistor("R1", "in", "mid", 1000),
		component.NewResistor("R2", "mid", "gnd", 1000),
	}
}

func rlcSeries() []component.Component {
	return []component.Component{
		component.NewACVoltageSource("V1", "in", "gnd", 0, 10, 5000, 0),
		component.NewResistor("R1", "in", "a", 10),
		component.NewInductor("L1", "a", "b", 10e-3),
		component.NewCapacitor("C1", "b", "gnd", 100e-9),
	}
}

func TestEmptyNetlist(t *testing.T) {
	res, err := Simulate(nil, Config{Dt: 1e-4, Duration: 1e-3})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Times) != 10 {
		t.Fatalf("expected 10 steps, got %d", len(res.Times))
	}
	if len(res.NodeVoltages) != 0 || len(res.BranchCurrents) != 0 {
		t.Error("expected empty series maps for empty netlist")
	}
}

func TestTimeStepFloor(t *testing.T) {
	res, err := Simulate(nil, Config{Dt: 0, Duration: 3e-6})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Times) != 3 {
		t.Fatalf("expected dt floored to %g giving 3 steps, got %d", MinTimeStep, len(res.Times))
	}
	if res.Times[1] != MinTimeStep {
		t.Errorf("expected t1=%g, got %g", MinTimeStep, res.Times[1])
	}
}

func TestMinimumOneStep(t *testing.T) {
	res, err := Simulate(divider(), Config{Dt: 1e-3, Duration: 0})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Times) != 1 {
		t.Fatalf("expected 1 step, got %d", len(res.Times))
	}
}

func TestNoGroundFails(t *testing.T) {
	comps := []component.Component{
		component.NewResistor("R1", "a", "b", 100),
	}
	_, err := Simulate(comps, Config{Dt: 1e-4, Duration: 1e-3})
	var cfgErr *topology.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestResistiveDividerSteadyState(t *testing.T) {
	res, err := Simulate(divider(), Config{Dt: 1e-4, Duration: 1e-2})
	if err != nil {
		t.Fatal(err)
	}

	mid := res.NodeVoltages["mid"]
	for k, v := range mid {
		if math.Abs(v-6) > 1e-9 {
			t.Fatalf("step %d: expected 6V at midpoint, got %g", k, v)
		}
	}
	in := res.NodeVoltages["in"]
	if math.Abs(in[len(in)-1]-12) > 1e-9 {
		t.Errorf("expected 12V at source node, got %g", in[len(in)-1])
	}
	// Branch current: 12V over 2k, flowing into the source at `in`.
	i := res.BranchCurrents["V1"]
	if math.Abs(i[0]+6e-3) > 1e-9 {
		t.Errorf("expected source branch current -6mA, got %g", i[0])
	}
}

func TestRCChargeCurve(t *testing.T) {
	comps := []component.Component{
		component.NewDCVoltageSource("V1", "in", "gnd", 5),
		component.NewResistor("R1", "in", "out", 1000),
		component.NewCapacitor("C1", "out", "gnd", 100e-9),
	}
	// tau = 100us; run 20 tau.
	res, err := Simulate(comps, Config{Dt: 1e-5, Duration: 2e-3})
	if err != nil {
		t.Fatal(err)
	}

	out := res.NodeVoltages["out"]
	prev := -1.0
	for k, v := range out {
		if v < prev-1e-12 {
			t.Fatalf("step %d: charge curve not monotone (%g -> %g)", k, prev, v)
		}
		prev = v
	}
	final := out[len(out)-1]
	if math.Abs(final-5) > 1e-3 {
		t.Errorf("expected full charge to 5V, got %g", final)
	}

	// Backward Euler first step: v1 = Vin * lambda/(1+lambda), lambda = dt/tau.
	lambda := 1e-5 / 1e-4
	want := 5 * lambda / (1 + lambda)
	if math.Abs(out[0]-want) > 1e-9 {
		t.Errorf("first step: expected %g, got %g", want, out[0])
	}
}

func TestSeriesLengthsAndFinite(t *testing.T) {
	for name, comps := range map[string][]component.Component{
		"divider": divider(),
		"rlc":     rlcSeries(),
	} {
		res, err := Simulate(comps, Config{Dt: 1e-6, Duration: 1e-3})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		steps := len(res.Times)
		check := func(kind string, series map[string][]float64) {
			for id, s := range series {
				if len(s) != steps {
					t.Errorf("%s: %s %s has %d samples, expected %d", name, kind, id, len(s), steps)
				}
				for k, v := range s {
					if math.IsNaN(v) || math.IsInf(v, 0) {
						t.Fatalf("%s: %s %s not finite at step %d: %g", name, kind, id, k, v)
					}
				}
			}
		}
		check("node voltage", res.NodeVoltages)
		check("node current", res.NodeCurrents)
		check("branch current", res.BranchCurrents)
	}
}

func TestKirchhoffCurrentLaw(t *testing.T) {
	for name, comps := range map[string][]component.Component{
		"divider": divider(),
		"rlc":     rlcSeries(),
		"isource": {
			component.NewACCurrentSource("I1", "a", "gnd", 0, 1e-3, 1000, 0),
			component.NewResistor("R1", "a", "gnd", 1000),
			component.NewCapacitor("C1", "a", "gnd", 1e-6),
		},
	} {
		res, err := Simulate(comps, Config{Dt: 1e-5, Duration: 1e-3})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		for node, series := range res.NodeCurrents {
			for k, sum := range series {
				if math.Abs(sum) > 1e-6 {
					t.Fatalf("%s: KCL violated at node %s step %d: %g", name, node, k, sum)
				}
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	cfg := Config{Dt: 1e-5, Duration: 1e-3}
	a, err := Simulate(rlcSeries(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Simulate(rlcSeries(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(a.NodeVoltages, b.NodeVoltages) {
		t.Error("node voltages differ between identical runs")
	}
	if !reflect.DeepEqual(a.BranchCurrents, b.BranchCurrents) {
		t.Error("branch currents differ between identical runs")
	}
	if !reflect.DeepEqual(a.Nodes, b.Nodes) {
		t.Error("node ordering differs between identical runs")
	}
}

func TestACCurrentSourceSeries(t *testing.T) {
	const (
		amp   = 2e-3
		freq  = 250.0
		phase = 0.5
		dt    = 1e-4
	)
	comps := []component.Component{
		component.NewACCurrentSource("I1", "a", "gnd", 0, amp, freq, phase),
		component.NewResistor("R1", "a", "gnd", 100),
	}
	res, err := Simulate(comps, Config{Dt: dt, Duration: 1e-2})
	if err != nil {
		t.Fatal(err)
	}

	series := res.BranchCurrents["I1"]
	for k, got := range series {
		want := amp * math.Sin(2*math.Pi*freq*float64(k)*dt+phase)
		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("step %d: expected %g, got %g", k, want, got)
		}
	}
}

func TestInductorDCRampToSteadyState(t *testing.T) {
	// RL circuit driven by DC: inductor current settles to V/R.
	comps := []component.Component{
		component.NewDCVoltageSource("V1", "in", "gnd", 10),
		component.NewResistor("R1", "in", "a", 100),
		component.NewInductor("L1", "a", "gnd", 10e-3),
	}
	// tau = L/R = 100us; run 20 tau.
	res, err := Simulate(comps, Config{Dt: 1e-5, Duration: 2e-3})
	if err != nil {
		t.Fatal(err)
	}

	il := res.BranchCurrents["L1"]
	final := il[len(il)-1]
	if math.Abs(final-0.1) > 1e-3 {
		t.Errorf("expected steady inductor current 0.1A, got %g", final)
	}
}

func TestStatsReportMNADimension(t *testing.T) {
	res, err := Simulate(rlcSeries(), Config{Dt: 1e-5, Duration: 1e-4})
	if err != nil {
		t.Fatal(err)
	}
	// 3 nodes + 1 voltage source + 1 inductor.
	if res.Stats.MatrixSize != 5 {
		t.Errorf("expected matrix size 5, got %d", res.Stats.MatrixSize)
	}
	if res.Stats.ComponentCount != 4 {
		t.Errorf("expected 4 active components, got %d", res.Stats.ComponentCount)
	}
	if res.Stats.Steps != len(res.Times) {
		t.Errorf("steps stat %d disagrees with time axis %d", res.Stats.Steps, len(res.Times))
	}
}

func TestFloatingSubnetworkIsSingular(t *testing.T) {
	comps := []component.Component{
		component.NewGround("G1", "gnd"),
		component.NewResistor("R1", "a", "b", 100),
	}
	_, err := Simulate(comps, Config{Dt: 1e-4, Duration: 1e-3})
	if !errors.Is(err, linear.ErrSingular) {
		t.Fatalf("expected ErrSingular, got %v", err)
	}
}

func TestWireTiesNodes(t *testing.T) {
	comps := []component.Component{
		component.NewDCVoltageSource("V1", "in", "gnd", 3),
		component.NewWire("W1", "in", "tap"),
		component.NewResistor("R1", "tap", "gnd", 1000),
	}
	res, err := Simulate(comps, Config{Dt: 1e-4, Duration: 1e-3})
	if err != nil {
		t.Fatal(err)
	}
	tap := res.NodeVoltages["tap"]
	if math.Abs(tap[0]-3) > 1e-2 {
		t.Errorf("wire should tie tap to source: got %g", tap[0])
	}
}

func TestSparseBackendMatchesDense(t *testing.T) {
	cfg := Config{Dt: 1e-5, Duration: 1e-3}
	dense, err := Simulate(rlcSeries(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	sparse, err := Simulate(rlcSeries(), cfg, WithSparseSolver())
	if err != nil {
		t.Fatal(err)
	}

	for node, ds := range dense.NodeVoltages {
		ss := sparse.NodeVoltages[node]
		for k := range ds {
			if math.Abs(ds[k]-ss[k]) > 1e-6 {
				t.Fatalf("node %s step %d: dense %g, sparse %g", node, k, ds[k], ss[k])
			}
		}
	}
}

func TestPresetsSimulate(t *testing.T) {
	for _, name := range netlist.Presets() {
		deck, ok := netlist.Preset(name)
		if !ok {
			t.Fatalf("preset %s disappeared", name)
		}
		comps, err := deck.Components()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}

		res, err := Simulate(comps, Config{Dt: 1e-5, Duration: 1e-3})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}

		topo, err := topology.Build(comps, deck.Ground)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if res.Stats.MatrixSize != topo.MatrixSize() {
			t.Errorf("%s: matrix size %d, topology says %d", name, res.Stats.MatrixSize, topo.MatrixSize())
		}
		if res.Stats.ComponentCount != len(topo.Components) {
			t.Errorf("%s: component count %d, topology says %d", name, res.Stats.ComponentCount, len(topo.Components))
		}
	}
}
