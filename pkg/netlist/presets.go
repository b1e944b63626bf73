package netlist

import "sort"

// presets are the built-in demonstration networks, in the spirit of the
// example decks classic simulators ship with.
var presets = map[string]*Netlist{
	"divider": {
		Name:   "resistive divider",
		Ground: "gnd",
		Entries: []Entry{
			{ID: "V1", Kind: "voltage-source", From: "in", To: "gnd", Value: "12"},
			{ID: "R1", Kind: "resistor", From: "in", To: "mid", Value: "1k"},
			{ID: "R2", Kind: "resistor", From: "mid", To: "gnd", Value: "1k"},
		},
	},
	"rc-lowpass": {
		Name:   "first-order RC low-pass",
		Ground: "gnd",
		Entries: []Entry{
			{ID: "V1", Kind: "voltage-source", From: "in", To: "gnd",
				Waveform: "ac", Amplitude: "5", Frequency: "1k"},
			{ID: "R1", Kind: "resistor", From: "in", To: "out", Value: "1k"},
			{ID: "C1", Kind: "capacitor", From: "out", To: "gnd", Value: "100n"},
		},
	},
	"rc-highpass": {
		Name:   "first-order RC high-pass",
		Ground: "gnd",
		Entries: []Entry{
			{ID: "V1", Kind: "voltage-source", From: "in", To: "gnd",
				Waveform: "ac", Amplitude: "5", Frequency: "1k"},
			{ID: "C1", Kind: "capacitor", From: "in", To: "out", Value: "100n"},
			{ID: "R1", Kind: "resistor", From: "out", To: "gnd", Value: "1k"},
		},
	},
	"rlc-series": {
		Name:   "series RLC resonator",
		Ground: "gnd",
		Entries: []Entry{
			{ID: "V1", Kind: "voltage-source", From: "in", To: "gnd",
				Waveform: "ac", Amplitude: "10", Frequency: "5k"},
			{ID: "R1", Kind: "resistor", From: "in", To: "a", Value: "10"},
			{ID: "L1", Kind: "inductor", From: "a", To: "b", Value: "10m"},
			{ID: "C1", Kind: "capacitor", From: "b", To: "gnd", Value: "100n"},
		},
	},
	"bridge": {
		Name:   "resistive bridge",
		Ground: "gnd",
		Entries: []Entry{
			{ID: "G1", Kind: "ground", From: "bot"},
			{ID: "V1", Kind: "voltage-source", From: "top", To: "bot", Value: "12"},
			{ID: "R1", Kind: "resistor", From: "top", To: "a", Value: "1k"},
			{ID: "R2", Kind: "resistor", From: "top", To: "b", Value: "2k"},
			{ID: "R3", Kind: "resistor", From: "a", To: "bot", Value: "2k"},
			{ID: "R4", Kind: "resistor", From: "b", To: "bot", Value: "1k"},
			{ID: "R5", Kind: "resistor", From: "a", To: "b", Value: "500"},
		},
	},
}

// Preset returns a built-in netlist by name.
func Preset(name string) (*Netlist, bool) {
	n, ok := presets[name]
	return n, ok
}

// Presets lists the built-in netlist names, sorted.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
