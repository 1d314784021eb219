package view

import "github.com/luki/sensormon/internal/sensor"

// Severity is the health classification of one reading.
type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityNormal
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityNormal:
		return "normal"
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Classify maps a reading against its reported thresholds. All kinds are
// treated uniformly as higher-is-worse; threshold comparisons are
// inclusive, so a value sitting exactly on the critical bound is
// critical. A reading without thresholds is normal as long as it has a
// value at all.
func Classify(r sensor.Reading) Severity {
	if !r.HasValue {
		return SeverityUnknown
	}
	if r.HasCrit && r.Value >= r.Crit {
		return SeverityCritical
	}
	if r.HasHigh && r.Value >= r.High {
		return SeverityWarning
	}
	return SeverityNormal
}
