// Package view turns a raw sensor snapshot and a resolved display policy
// into the renderable model: an ordered, filtered, labeled and
// severity-annotated set of rows. The renderer only reads the model.
package view

import (
	"fmt"

	"github.com/luki/sensormon/internal/config"
	"github.com/luki/sensormon/internal/sensor"
)

// AbsentValue is rendered for sensors whose value could not be read.
const AbsentValue = "n/a"

// Row is one renderable line.
type Row struct {
	ChipID    string // raw chip identifier, for grouping
	ChipLabel string // policy label, or the raw identifier
	Sensor    string // the sensor's own identifier
	Kind      sensor.Kind
	Value     string // preformatted, AbsentValue when the reading failed
	High      string // preformatted warning threshold, "" if none
	Crit      string // preformatted critical threshold, "" if none
	Severity  Severity
}

// Model is the data contract between the core and the renderer. Rows are
// ordered chip-then-sensor as the snapshot delivered them; Status is a
// top-level error line shown instead of rows while the source is down.
type Model struct {
	Rows   []Row
	Status string
}

// Merge combines a snapshot with the resolved policy. Chips resolved as
// invisible are skipped entirely, as are sensors on their chip's hidden
// list. Merge never fails; with no policy entry a chip gets defaults.
func Merge(snap sensor.Snapshot, pol *config.Policy) Model {
	var rows []Row

	for _, chip := range snap {
		cp := pol.Chip(chip.ID)
		if !cp.Visible {
			continue
		}
		for _, r := range chip.Sensors {
			if cp.IsHidden(r.ID) {
				continue
			}
			rows = append(rows, Row{
				ChipID:    chip.ID,
				ChipLabel: cp.Label,
				Sensor:    r.ID,
				Kind:      r.Kind,
				Value:     FormatValue(r),
				High:      formatThreshold(r.Kind, r.High, r.HasHigh),
				Crit:      formatThreshold(r.Kind, r.Crit, r.HasCrit),
				Severity:  Classify(r),
			})
		}
	}

	return Model{Rows: rows}
}

// Degraded builds the status-only model shown while the source is down.
func Degraded(status string) Model {
	return Model{Status: status}
}

// FormatValue formats a reading's current value per its kind.
func FormatValue(r sensor.Reading) string {
	if !r.HasValue {
		return AbsentValue
	}
	return formatByKind(r.Kind, r.Value)
}

func formatThreshold(kind sensor.Kind, v float64, has bool) string {
	if !has {
		return ""
	}
	return formatByKind(kind, v)
}

func formatByKind(kind sensor.Kind, v float64) string {
	switch kind {
	case sensor.KindTemp:
		return fmt.Sprintf("%.1f°C", v)
	case sensor.KindFan:
		return fmt.Sprintf("%.0f RPM", v)
	case sensor.KindVoltage:
		return fmt.Sprintf("%.2fV", v)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}
