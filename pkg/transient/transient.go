// Package transient runs time-stepped Modified Nodal Analysis: per step
// it restamps the coefficient matrix and right-hand side, solves the
// linear system, and rolls the capacitor/inductor companion-model state
// forward (backward Euler).
package transient

import (
	"fmt"
	"math"
	"time"

	"github.com/ohmlab/nodal/pkg/component"
	"github.com/ohmlab/nodal/pkg/matrix"
	"github.com/ohmlab/nodal/pkg/topology"
)

const (
	// MinTimeStep floors dt to keep the companion conductances C/dt
	// and L/dt finite.
	MinTimeStep = 1e-6
	// MinResistance substitutes for ideal wires and zero-valued
	// resistors so their conductance stamp stays well-posed.
	MinResistance = 1e-6
)

// Config sets the time axis of one run.
type Config struct {
	Dt       float64 // seconds per step
	Duration float64 // seconds
}

// Stats carries per-run instrumentation for profiling dense solves at
// high step counts.
type Stats struct {
	MatrixSize     int
	ComponentCount int
	Steps          int
	AssemblyTime   time.Duration
	SolveTime      time.Duration
}

// Result holds one value per time step for every node and component.
type Result struct {
	Times []float64
	Nodes []string

	NodeVoltages   map[string][]float64 // node name -> voltage series
	NodeCurrents   map[string][]float64 // node name -> net KCL current series
	BranchCurrents map[string][]float64 // component id -> through-current series

	Stats Stats
}

type options struct {
	useSparse bool
}

type Option func(*options)

// WithSparseSolver routes the per-step solve through the sparse LU
// backend instead of dense Gaussian elimination.
func WithSparseSolver() Option {
	return func(o *options) { o.useSparse = true }
}

// state is the only thing carried between steps: the previous terminal
// voltage of each capacitor and the previous branch current of each
// inductor. It is owned by one run.
type state struct {
	capVoltage map[string]float64
	indCurrent map[string]float64
}

func newState(topo *topology.Topology) *state {
	st := &state{
		capVoltage: make(map[string]float64),
		indCurrent: make(map[string]float64),
	}
	for _, c := range topo.Components {
		switch c.Kind {
		case component.Capacitor:
			st.capVoltage[c.ID] = 0
		case component.Inductor:
			st.indCurrent[c.ID] = 0
		}
	}
	return st
}

// Simulate runs the transient analysis. An empty component list is a
// valid "no netlist yet" input and yields a zero-filled result; a
// non-empty list without a ground binding fails, and a singular system
// aborts the whole run since the reactive state would be corrupted by
// skipping a step.
func Simulate(comps []component.Component, cfg Config, opts ...Option) (*Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	dt := cfg.Dt
	if dt < MinTimeStep {
		dt = MinTimeStep
	}
	steps := int(math.Floor(cfg.Duration / dt))
	if steps < 1 {
		steps = 1
	}

	res := &Result{
		Times:          make([]float64, steps),
		NodeVoltages:   make(map[string][]float64),
		NodeCurrents:   make(map[string][]float64),
		BranchCurrents: make(map[string][]float64),
	}
	for k := 0; k < steps; k++ {
		res.Times[k] = float64(k) * dt
	}
	res.Stats.Steps = steps

	if len(comps) == 0 {
		return res, nil
	}

	topo, err := topology.Build(comps, topology.DefaultGround)
	if err != nil {
		return nil, fmt.Errorf("transient: %w", err)
	}

	n := topo.MatrixSize()
	var sys matrix.System
	if o.useSparse && n > 0 {
		sp, err := matrix.NewSparse(n)
		if err != nil {
			return nil, fmt.Errorf("transient: %w", err)
		}
		defer sp.Destroy()
		sys = sp
	} else {
		sys = matrix.NewDense(n)
	}

	res.Nodes = topo.Nodes
	for _, name := range topo.Nodes {
		res.NodeVoltages[name] = make([]float64, steps)
		res.NodeCurrents[name] = make([]float64, steps)
	}
	for _, c := range topo.Components {
		res.BranchCurrents[c.ID] = make([]float64, steps)
	}
	res.Stats.MatrixSize = n
	res.Stats.ComponentCount = len(topo.Components)

	st := newState(topo)

	for k := 0; k < steps; k++ {
		t := res.Times[k]

		began := time.Now()
		sys.Clear()
		stampAll(sys, topo, st, t, dt)
		res.Stats.AssemblyTime += time.Since(began)

		began = time.Now()
		x, err := sys.Solve()
		res.Stats.SolveTime += time.Since(began)
		if err != nil {
			return nil, fmt.Errorf("transient: step %d (t=%g): %w", k, t, err)
		}

		record(res, topo, st, x, k, t, dt)
	}

	return res, nil
}

func conductance(c component.Component) float64 {
	return 1.0 / math.Max(c.Value, MinResistance)
}

func stampConductance(sys matrix.Stamper, nf, nt int, g float64) {
	sys.AddElement(nf, nf, g)
	sys.AddElement(nt, nt, g)
	sys.AddElement(nf, nt, -g)
	sys.AddElement(nt, nf, -g)
}

// stampBranch couples a branch-current unknown to its terminal rows.
// The unknown is the current flowing from the `from` terminal through
// the element to `to`.
func stampBranch(sys matrix.Stamper, nf, nt, b int) {
	sys.AddElement(nf, b, 1)
	sys.AddElement(b, nf, 1)
	sys.AddElement(nt, b, -1)
	sys.AddElement(b, nt, -1)
}

func stampAll(sys matrix.Stamper, topo *topology.Topology, st *state, t, dt float64) {
	for _, c := range topo.Components {
		nf := topo.NodeIndex(c.From)
		nt := topo.NodeIndex(c.To)

		switch c.Kind {
		case component.Resistor, component.Wire:
			stampConductance(sys, nf, nt, conductance(c))

		case component.Capacitor:
			geq := c.Value / dt
			stampConductance(sys, nf, nt, geq)
			ieq := geq * st.capVoltage[c.ID]
			sys.AddRHS(nf, ieq)
			sys.AddRHS(nt, -ieq)

		case component.Inductor:
			b := topo.Branches[c.ID]
			stampBranch(sys, nf, nt, b)
			leq := c.Value / dt
			sys.AddElement(b, b, -leq)
			sys.AddRHS(b, -leq*st.indCurrent[c.ID])

		case component.VoltageSource:
			b := topo.Branches[c.ID]
			stampBranch(sys, nf, nt, b)
			sys.AddRHS(b, c.SourceValue(t))

		case component.CurrentSource:
			v := c.SourceValue(t)
			sys.AddRHS(nf, v)
			sys.AddRHS(nt, -v)
		}
	}
}

// record stores node voltages, advances the reactive state, and
// accumulates each component's through-current into its terminal
// nodes' net-current series (positive leaving at from).
func record(res *Result, topo *topology.Topology, st *state, x []float64, k int, t, dt float64) {
	volt := func(idx int) float64 {
		if idx < 0 {
			return 0
		}
		return x[idx]
	}

	for i, name := range topo.Nodes {
		res.NodeVoltages[name][k] = x[i]
	}

	for _, c := range topo.Components {
		nf := topo.NodeIndex(c.From)
		nt := topo.NodeIndex(c.To)
		vd := volt(nf) - volt(nt)

		var through float64 // from -> to, through the component
		recorded := 0.0

		switch c.Kind {
		case component.Resistor, component.Wire:
			through = vd * conductance(c)
			recorded = through

		case component.Capacitor:
			through = (c.Value / dt) * (vd - st.capVoltage[c.ID])
			recorded = through
			st.capVoltage[c.ID] = vd

		case component.Inductor:
			through = x[topo.Branches[c.ID]]
			recorded = through
			st.indCurrent[c.ID] = through

		case component.VoltageSource:
			through = x[topo.Branches[c.ID]]
			recorded = through

		case component.CurrentSource:
			// The RHS stamp injects the excitation into the from
			// terminal, so the through-branch current runs opposite
			// to the recorded excitation value.
			recorded = c.SourceValue(t)
			through = -recorded
		}

		res.BranchCurrents[c.ID][k] = recorded
		if nf >= 0 {
			res.NodeCurrents[c.From][k] += through
		}
		if nt >= 0 {
			res.NodeCurrents[c.To][k] -= through
		}
	}
}
