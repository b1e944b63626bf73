package topology

import (
	"fmt"
	"sort"

	"github.com/ohmlab/nodal/pkg/component"
)

// DefaultGround is the canonical reference node name used when the
// caller does not supply one.
const DefaultGround = "gnd"

// ConfigError reports a netlist that cannot be formulated as an MNA
// system, typically because no node is bound to ground.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "topology: " + e.Reason
}

// Topology is the normalized view of a netlist: ground aliases are
// collapsed to the canonical name, ground components are stripped, and
// every remaining node has a deterministic matrix index.
type Topology struct {
	Ground     string
	Components []component.Component // active components, ground-normalized

	Nodes []string       // sorted non-ground node names
	Index map[string]int // node name -> row/column in [0, len(Nodes))

	// Branch unknowns follow the node block: voltage sources first,
	// then inductors, each in input order.
	Branches map[string]int // component id -> matrix index
}

// Build normalizes the component list against the canonical ground name.
// It fails with *ConfigError when components exist but none of them
// binds a node to ground.
func Build(comps []component.Component, ground string) (*Topology, error) {
	if ground == "" {
		ground = DefaultGround
	}

	aliases := map[string]bool{ground: true}
	bound := false
	for _, c := range comps {
		if c.Kind == component.Ground {
			if c.From != "" {
				aliases[c.From] = true
			}
			if c.To != "" {
				aliases[c.To] = true
			}
			bound = true
		}
	}
	if !bound {
		// A terminal wired straight to the canonical name also counts
		// as a ground binding.
		for _, c := range comps {
			if aliases[c.From] || aliases[c.To] {
				bound = true
				break
			}
		}
	}
	if len(comps) > 0 && !bound {
		return nil, &ConfigError{Reason: "no component binds a node to ground"}
	}

	topo := &Topology{
		Ground:   ground,
		Index:    make(map[string]int),
		Branches: make(map[string]int),
	}

	seen := make(map[string]bool)
	for _, c := range comps {
		if c.Kind == component.Ground {
			continue
		}
		if aliases[c.From] {
			c.From = ground
		}
		if aliases[c.To] {
			c.To = ground
		}
		topo.Components = append(topo.Components, c)

		for _, n := range []string{c.From, c.To} {
			if n == ground || n == "" || seen[n] {
				continue
			}
			seen[n] = true
			topo.Nodes = append(topo.Nodes, n)
		}
	}

	sort.Strings(topo.Nodes)
	for i, n := range topo.Nodes {
		topo.Index[n] = i
	}

	branch := len(topo.Nodes)
	for _, c := range topo.Components {
		if c.Kind == component.VoltageSource {
			topo.Branches[c.ID] = branch
			branch++
		}
	}
	for _, c := range topo.Components {
		if c.Kind == component.Inductor {
			topo.Branches[c.ID] = branch
			branch++
		}
	}

	return topo, nil
}

// NodeIndex resolves a normalized node name to its matrix row, or -1
// for the ground reference.
func (t *Topology) NodeIndex(name string) int {
	if name == t.Ground || name == "" {
		return -1
	}
	if idx, ok := t.Index[name]; ok {
		return idx
	}
	return -1
}

// MatrixSize is the full MNA dimension: one unknown per non-ground node
// plus one branch current per voltage source and per inductor.
func (t *Topology) MatrixSize() int {
	return len(t.Nodes) + len(t.Branches)
}

// BranchIndex returns the matrix row of a component's branch-current
// unknown.
func (t *Topology) BranchIndex(id string) (int, error) {
	idx, ok := t.Branches[id]
	if !ok {
		return 0, fmt.Errorf("topology: component %s has no branch unknown", id)
	}
	return idx, nil
}
