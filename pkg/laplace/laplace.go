// Package laplace solves the same MNA formulation as the transient
// path, but once, over symbolic admittances in the Laplace variable s:
// resistors stamp 1/R, capacitors s*C, inductors keep their branch
// unknown with -(s*L) on the branch diagonal. The solve yields
// closed-form node-voltage and branch-current expressions.
package laplace

import (
	"fmt"

	"github.com/ohmlab/nodal/pkg/component"
	"github.com/ohmlab/nodal/pkg/linear"
	"github.com/ohmlab/nodal/pkg/symbolic"
	"github.com/ohmlab/nodal/pkg/topology"
)

// Result holds the closed-form solution of one network. Component
// parameters appear under their component id (R1, C1, L1); source
// excitations are folded to constants (DC level, or offset + amplitude
// for AC — frequency and phase live in the time domain, not here).
type Result struct {
	Nodes []string

	NodeVoltages   map[string]symbolic.Expr // node name -> V(s)
	NodeCurrents   map[string]symbolic.Expr // node name -> net KCL current
	BranchCurrents map[string]symbolic.Expr // voltage source / inductor id -> I(s)
}

// Solve computes the symbolic nodal solution. The simplification cache
// lives in an arena created here, so nothing leaks between calls.
func Solve(comps []component.Component) (*Result, error) {
	res := &Result{
		NodeVoltages:   make(map[string]symbolic.Expr),
		NodeCurrents:   make(map[string]symbolic.Expr),
		BranchCurrents: make(map[string]symbolic.Expr),
	}
	if len(comps) == 0 {
		return res, nil
	}

	topo, err := topology.Build(comps, topology.DefaultGround)
	if err != nil {
		return nil, fmt.Errorf("laplace: %w", err)
	}

	arena := symbolic.NewArena()
	alg := symbolic.Algebra{A: arena}
	s := arena.Sym("s")

	n := topo.MatrixSize()
	a := make([][]symbolic.Expr, n)
	b := make([]symbolic.Expr, n)
	for i := range a {
		a[i] = make([]symbolic.Expr, n)
		for j := range a[i] {
			a[i][j] = alg.Zero()
		}
		b[i] = alg.Zero()
	}

	addAt := func(i, j int, v symbolic.Expr) {
		if i < 0 || j < 0 {
			return
		}
		a[i][j] = arena.Add(a[i][j], v)
	}
	addRHS := func(i int, v symbolic.Expr) {
		if i < 0 {
			return
		}
		b[i] = arena.Add(b[i], v)
	}
	stampAdmittance := func(nf, nt int, y symbolic.Expr) {
		addAt(nf, nf, y)
		addAt(nt, nt, y)
		addAt(nf, nt, arena.Neg(y))
		addAt(nt, nf, arena.Neg(y))
	}
	stampBranch := func(nf, nt, br int) {
		addAt(nf, br, arena.Num(1))
		addAt(br, nf, arena.Num(1))
		addAt(nt, br, arena.Num(-1))
		addAt(br, nt, arena.Num(-1))
	}

	for _, c := range topo.Components {
		nf := topo.NodeIndex(c.From)
		nt := topo.NodeIndex(c.To)

		switch c.Kind {
		case component.Resistor:
			stampAdmittance(nf, nt, arena.Div(arena.Num(1), arena.Sym(c.ID)))

		case component.Wire:
			stampAdmittance(nf, nt, arena.Num(1/wireResistance))

		case component.Capacitor:
			stampAdmittance(nf, nt, arena.Mul(s, arena.Sym(c.ID)))

		case component.Inductor:
			br := topo.Branches[c.ID]
			stampBranch(nf, nt, br)
			addAt(br, br, arena.Neg(arena.Mul(s, arena.Sym(c.ID))))

		case component.VoltageSource:
			br := topo.Branches[c.ID]
			stampBranch(nf, nt, br)
			addRHS(br, excitation(arena, c))

		case component.CurrentSource:
			v := excitation(arena, c)
			addRHS(nf, v)
			addRHS(nt, arena.Neg(v))
		}
	}

	x, err := linear.Solve[symbolic.Expr](alg, a, b)
	if err != nil {
		return nil, fmt.Errorf("laplace: %w", err)
	}

	res.Nodes = topo.Nodes
	for i, name := range topo.Nodes {
		res.NodeVoltages[name] = x[i]
	}
	for id, idx := range topo.Branches {
		res.BranchCurrents[id] = x[idx]
	}

	voltAt := func(idx int) symbolic.Expr {
		if idx < 0 {
			return arena.Num(0)
		}
		return x[idx]
	}
	for _, name := range topo.Nodes {
		res.NodeCurrents[name] = arena.Num(0)
	}
	accumulate := func(nf, nt int, c component.Component, through symbolic.Expr) {
		if nf >= 0 {
			res.NodeCurrents[c.From] = arena.Add(res.NodeCurrents[c.From], through)
		}
		if nt >= 0 {
			res.NodeCurrents[c.To] = arena.Sub(res.NodeCurrents[c.To], through)
		}
	}

	for _, c := range topo.Components {
		nf := topo.NodeIndex(c.From)
		nt := topo.NodeIndex(c.To)
		vd := arena.Sub(voltAt(nf), voltAt(nt))

		switch c.Kind {
		case component.Resistor:
			accumulate(nf, nt, c, arena.Div(vd, arena.Sym(c.ID)))
		case component.Wire:
			accumulate(nf, nt, c, arena.Mul(arena.Num(1/wireResistance), vd))
		case component.Capacitor:
			accumulate(nf, nt, c, arena.Mul(arena.Mul(s, arena.Sym(c.ID)), vd))
		case component.Inductor, component.VoltageSource:
			accumulate(nf, nt, c, x[topo.Branches[c.ID]])
		case component.CurrentSource:
			accumulate(nf, nt, c, arena.Neg(excitation(arena, c)))
		}
	}

	return res, nil
}

// wireResistance matches the transient solver's minimum-resistance
// floor so both paths see the same wire admittance.
const wireResistance = 1e-6

func excitation(arena *symbolic.Arena, c component.Component) symbolic.Expr {
	if c.Waveform == component.AC {
		return arena.Num(c.Offset + c.Amplitude)
	}
	return arena.Num(c.Value)
}
