package component

import (
	"fmt"
	"math"
)

// Kind discriminates the closed set of two-terminal component variants.
type Kind int

const (
	Wire Kind = iota
	Ground
	Resistor
	Capacitor
	Inductor
	VoltageSource
	CurrentSource
)

var kindNames = map[Kind]string{
	Wire:          "wire",
	Ground:        "ground",
	Resistor:      "resistor",
	Capacitor:     "capacitor",
	Inductor:      "inductor",
	VoltageSource: "voltage-source",
	CurrentSource: "current-source",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown component kind %q", s)
}

// Waveform selects the excitation shape of a source component.
type Waveform int

const (
	DC Waveform = iota
	AC
)

func (w Waveform) String() string {
	if w == AC {
		return "ac"
	}
	return "dc"
}

func ParseWaveform(s string) (Waveform, error) {
	switch s {
	case "", "dc":
		return DC, nil
	case "ac":
		return AC, nil
	}
	return 0, fmt.Errorf("unknown waveform %q", s)
}

// Component is one lumped two-terminal element of a netlist. Passive
// kinds carry Value (ohms, farads, henrys). Source kinds carry Waveform
// plus the AC parameters; Value holds the DC level. A Ground component
// binds From (and To, when set) to the reference node.
type Component struct {
	Kind Kind
	ID   string
	From string
	To   string

	Value float64

	Waveform  Waveform
	Amplitude float64
	Frequency float64 // Hz
	Phase     float64 // radians
	Offset    float64
}

func NewWire(id, from, to string) Component {
	return Component{Kind: Wire, ID: id, From: from, To: to}
}

// NewGround binds a single node to the reference. Use NewGroundPair to
// tie two nodes at once.
func NewGround(id, node string) Component {
	return Component{Kind: Ground, ID: id, From: node}
}

func NewGroundPair(id, a, b string) Component {
	return Component{Kind: Ground, ID: id, From: a, To: b}
}

func NewResistor(id, from, to string, ohms float64) Component {
	return Component{Kind: Resistor, ID: id, From: from, To: to, Value: ohms}
}

func NewCapacitor(id, from, to string, farads float64) Component {
	return Component{Kind: Capacitor, ID: id, From: from, To: to, Value: farads}
}

func NewInductor(id, from, to string, henrys float64) Component {
	return Component{Kind: Inductor, ID: id, From: from, To: to, Value: henrys}
}

func NewDCVoltageSource(id, from, to string, volts float64) Component {
	return Component{Kind: VoltageSource, ID: id, From: from, To: to, Value: volts}
}

func NewACVoltageSource(id, from, to string, offset, amplitude, freq, phase float64) Component {
	return Component{
		Kind: VoltageSource, ID: id, From: from, To: to,
		Waveform: AC, Offset: offset, Amplitude: amplitude, Frequency: freq, Phase: phase,
	}
}

func NewDCCurrentSource(id, from, to string, amps float64) Component {
	return Component{Kind: CurrentSource, ID: id, From: from, To: to, Value: amps}
}

func NewACCurrentSource(id, from, to string, offset, amplitude, freq, phase float64) Component {
	return Component{
		Kind: CurrentSource, ID: id, From: from, To: to,
		Waveform: AC, Offset: offset, Amplitude: amplitude, Frequency: freq, Phase: phase,
	}
}

// IsSource reports whether the component contributes an excitation.
func (c Component) IsSource() bool {
	return c.Kind == VoltageSource || c.Kind == CurrentSource
}

// SourceValue evaluates the excitation at time t. DC sources return the
// constant level; AC sources return offset + amplitude*sin(2*pi*f*t + phase).
func (c Component) SourceValue(t float64) float64 {
	if c.Waveform == AC {
		return c.Offset + c.Amplitude*math.Sin(2.0*math.Pi*c.Frequency*t+c.Phase)
	}
	return c.Value
}

func (c Component) String() string {
	switch c.Kind {
	case Ground:
		if c.To != "" {
			return fmt.Sprintf("%s %s(%s,%s)", c.ID, c.Kind, c.From, c.To)
		}
		return fmt.Sprintf("%s %s(%s)", c.ID, c.Kind, c.From)
	case VoltageSource, CurrentSource:
		if c.Waveform == AC {
			return fmt.Sprintf("%s %s(%s,%s) ac amp=%g freq=%g phase=%g offset=%g",
				c.ID, c.Kind, c.From, c.To, c.Amplitude, c.Frequency, c.Phase, c.Offset)
		}
		return fmt.Sprintf("%s %s(%s,%s) dc=%g", c.ID, c.Kind, c.From, c.To, c.Value)
	default:
		return fmt.Sprintf("%s %s(%s,%s) value=%g", c.ID, c.Kind, c.From, c.To, c.Value)
	}
}
