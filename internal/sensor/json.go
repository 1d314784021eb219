package sensor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const adapterProp = "Adapter"

// ParseJSON parses `sensors -j` output into a snapshot. A malformed chip
// or sensor entry is skipped without aborting the rest; a sensor whose
// value field is present but non-numeric keeps its slot with an absent
// value. Empty input yields an empty snapshot.
func ParseJSON(data []byte) (Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var tree map[string]json.RawMessage
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("decode sensors json: %w", err)
	}

	// JSON object order is not meaningful; rank known chip families first
	// and fall back to the chip ID so the output is stable across ticks.
	chipIDs := make([]string, 0, len(tree))
	for id := range tree {
		chipIDs = append(chipIDs, id)
	}
	sort.Slice(chipIDs, func(i, j int) bool {
		oi, oj := ChipOrder(chipIDs[i]), ChipOrder(chipIDs[j])
		if oi != oj {
			return oi < oj
		}
		return chipIDs[i] < chipIDs[j]
	})

	var snap Snapshot
	for _, chipID := range chipIDs {
		var entries map[string]json.RawMessage
		if err := json.Unmarshal(tree[chipID], &entries); err != nil {
			continue
		}

		chip := Chip{ID: chipID}
		if raw, ok := entries[adapterProp]; ok {
			json.Unmarshal(raw, &chip.Adapter)
		}

		sensorIDs := make([]string, 0, len(entries))
		for id := range entries {
			if id != adapterProp {
				sensorIDs = append(sensorIDs, id)
			}
		}
		sort.Strings(sensorIDs)

		for _, id := range sensorIDs {
			if r, ok := parseJSONSensor(id, entries[id]); ok {
				chip.Sensors = append(chip.Sensors, r)
			}
		}

		snap = append(snap, chip)
	}

	return snap, nil
}

func parseJSONSensor(id string, raw json.RawMessage) (Reading, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Reading{}, false
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	r := Reading{ID: id}
	hasInput := false

	for _, name := range names {
		kind := kindFromField(name)
		if r.Kind == KindOther && kind != KindOther {
			r.Kind = kind
		}

		if strings.HasSuffix(name, "_input") {
			hasInput = true
			var v float64
			// Non-numeric or bogus values leave the reading absent; the
			// row still renders as n/a.
			if err := json.Unmarshal(fields[name], &v); err == nil && plausibleValue(kind, v) {
				r.Value, r.HasValue = v, true
			}
			continue
		}

		var v float64
		if err := json.Unmarshal(fields[name], &v); err != nil {
			continue
		}
		switch {
		case strings.HasSuffix(name, "_max") && plausibleThreshold(kind, v):
			r.High, r.HasHigh = v, true
		case strings.HasSuffix(name, "_crit") && plausibleThreshold(kind, v):
			r.Crit, r.HasCrit = v, true
		}
	}

	// Some drivers report threshold or alarm fields without an _input.
	// If the field names still identify the sensor kind, keep the row
	// with an absent value instead of dropping it.
	if !hasInput && r.Kind == KindOther {
		return Reading{}, false
	}
	return r, true
}

// kindFromField maps a hwmon field name to a sensor kind: temp1_input,
// fan2_min, in0_max and so on.
func kindFromField(name string) Kind {
	switch {
	case strings.HasPrefix(name, "temp"):
		return KindTemp
	case strings.HasPrefix(name, "fan"):
		return KindFan
	case strings.HasPrefix(name, "in"):
		return KindVoltage
	default:
		return KindOther
	}
}

// plausibleValue rejects readings that are clearly sensor noise, such as
// temperatures below absolute zero reported by flaky drivers.
func plausibleValue(kind Kind, v float64) bool {
	if kind == KindTemp {
		return v > -200
	}
	return true
}

// plausibleThreshold filters out filler thresholds some drivers report,
// e.g. NVMe "high = +65261.8°C".
func plausibleThreshold(kind Kind, v float64) bool {
	switch kind {
	case KindTemp:
		return v > 0 && v < 1000
	case KindFan, KindVoltage:
		return v > 0
	default:
		return true
	}
}
