// Package sensor acquires raw readings from lm-sensors and normalizes
// them into a chip/sensor snapshot. It understands both the `sensors -j`
// JSON tree and the human-readable text output, and can also load a
// previously captured JSON dump from disk.
package sensor

// Kind classifies a sensor by what it measures.
type Kind int

const (
	KindOther Kind = iota
	KindTemp
	KindFan
	KindVoltage
)

func (k Kind) String() string {
	switch k {
	case KindTemp:
		return "temperature"
	case KindFan:
		return "fan"
	case KindVoltage:
		return "voltage"
	default:
		return "other"
	}
}

// Reading is a single sensor entry within a chip. A reading may lack a
// value (failed read, "N/A" in text output); it still appears in the
// snapshot so its row can render as n/a.
type Reading struct {
	ID       string // e.g. "Core 0", "fan1"
	Kind     Kind
	Value    float64
	HasValue bool
	High     float64 // warning threshold as reported by the source
	HasHigh  bool
	Crit     float64 // critical threshold as reported by the source
	HasCrit  bool
}

// Chip is one hardware monitoring device with its sensors in a stable order.
type Chip struct {
	ID      string // e.g. "coretemp-isa-0000"
	Adapter string // e.g. "ISA adapter"
	Sensors []Reading
}

// Snapshot is one point-in-time reading set. It is built fresh on every
// acquisition and never mutated afterwards.
type Snapshot []Chip
