// Package netlist loads circuit descriptions from YAML. Numeric fields
// accept SPICE-style unit suffixes (1k, 100n, 2meg), so decks read like
// classic netlists.
package netlist

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ohmlab/nodal/pkg/component"
)

// Netlist is one circuit description.
type Netlist struct {
	Name    string  `yaml:"name"`
	Ground  string  `yaml:"ground"` // canonical ground node, default "gnd"
	Entries []Entry `yaml:"components"`
}

// Entry is one component line. Value fields are strings so unit
// suffixes survive YAML parsing.
type Entry struct {
	ID   string `yaml:"id"`
	Kind string `yaml:"kind"`
	From string `yaml:"from"`
	To   string `yaml:"to,omitempty"`

	Value string `yaml:"value,omitempty"`

	Waveform  string `yaml:"waveform,omitempty"`
	Amplitude string `yaml:"amplitude,omitempty"`
	Frequency string `yaml:"frequency,omitempty"`
	Phase     string `yaml:"phase,omitempty"`
	Offset    string `yaml:"offset,omitempty"`
}

func Load(path string) (*Netlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("netlist: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Netlist, error) {
	var n Netlist
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("netlist: %w", err)
	}
	if n.Ground == "" {
		n.Ground = "gnd"
	}
	return &n, nil
}

// Components materializes the entries into the engine's data model.
func (n *Netlist) Components() ([]component.Component, error) {
	comps := make([]component.Component, 0, len(n.Entries))
	for i, e := range n.Entries {
		c, err := e.build()
		if err != nil {
			return nil, fmt.Errorf("netlist: entry %d (%s): %w", i, e.ID, err)
		}
		comps = append(comps, c)
	}
	return comps, nil
}

func (e Entry) build() (component.Component, error) {
	var c component.Component

	kind, err := component.ParseKind(e.Kind)
	if err != nil {
		return c, err
	}
	wave, err := component.ParseWaveform(e.Waveform)
	if err != nil {
		return c, err
	}

	c = component.Component{
		Kind:     kind,
		ID:       e.ID,
		From:     e.From,
		To:       e.To,
		Waveform: wave,
	}
	if c.ID == "" {
		return c, fmt.Errorf("missing id")
	}

	fields := []struct {
		raw  string
		dst  *float64
		name string
	}{
		{e.Value, &c.Value, "value"},
		{e.Amplitude, &c.Amplitude, "amplitude"},
		{e.Frequency, &c.Frequency, "frequency"},
		{e.Phase, &c.Phase, "phase"},
		{e.Offset, &c.Offset, "offset"},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		v, err := ParseValue(f.raw)
		if err != nil {
			return c, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = v
	}

	switch kind {
	case component.Resistor, component.Capacitor, component.Inductor:
		if e.Value == "" {
			return c, fmt.Errorf("%s requires a value", kind)
		}
	}
	return c, nil
}

// unitFactors follows the SPICE convention; "meg" must be matched
// before "m".
var unitFactors = []struct {
	suffix string
	factor float64
}{
	{"meg", 1e6},
	{"Meg", 1e6},
	{"MEG", 1e6},
	{"T", 1e12},
	{"G", 1e9},
	{"k", 1e3},
	{"K", 1e3},
	{"m", 1e-3},
	{"u", 1e-6},
	{"n", 1e-9},
	{"p", 1e-12},
	{"f", 1e-15},
}

// ParseValue parses a number with an optional SPICE unit suffix.
func ParseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}
	for _, u := range unitFactors {
		if num, ok := strings.CutSuffix(s, u.suffix); ok {
			v, err := strconv.ParseFloat(num, 64)
			if err != nil {
				break
			}
			return v * u.factor, nil
		}
	}
	return 0, fmt.Errorf("cannot parse value %q", s)
}
