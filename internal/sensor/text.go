package sensor

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	adapterRe = regexp.MustCompile(`^Adapter:\s+(.+)$`)
	tempValRe = regexp.MustCompile(`([+-]?\d+(?:\.\d+)?)\s*°C`)
	fanValRe  = regexp.MustCompile(`([+-]?\d+(?:\.\d+)?)\s*RPM`)
	voltValRe = regexp.MustCompile(`([+-]?\d+(?:\.\d+)?)\s*V\b`)

	// named threshold inside parens: "high = +101.0°C", "max = +1.74 V"
	namedValRe = regexp.MustCompile(`(\w+)\s*=\s*([+-]?\d+(?:\.\d+)?)\s*(?:°C|RPM|V\b)`)
)

// ParseText parses human-readable `sensors` output into a snapshot.
// The unit on the value line decides the kind; a sensor reported as N/A
// keeps its row with an absent value. A line that cannot be made sense
// of is skipped, never failing the whole snapshot.
func ParseText(output string) Snapshot {
	var snap Snapshot
	cur := -1 // index of the chip being filled

	lines := strings.Split(output, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := adapterRe.FindStringSubmatch(line); m != nil {
			if cur >= 0 {
				snap[cur].Adapter = m[1]
			}
			continue
		}

		if idx := strings.Index(line, ":"); idx >= 0 {
			if cur < 0 {
				continue
			}
			next := ""
			if i+1 < len(lines) {
				next = lines[i+1]
			}
			if r, ok := parseTextSensor(line[:idx], line[idx+1:], next); ok {
				snap[cur].Sensors = append(snap[cur].Sensors, r)
			}
			continue
		}

		// Chip header: a non-indented line without a colon.
		if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			snap = append(snap, Chip{ID: strings.TrimSpace(line)})
			cur = len(snap) - 1
		}
	}

	return snap
}

func parseTextSensor(label, rest, next string) (Reading, bool) {
	r := Reading{ID: strings.TrimSpace(label)}

	// The reported unit decides the kind. Only the portion before the
	// first "(" can hold the current value; anything inside the parens is
	// a threshold, so matching the full line would turn an N/A read into
	// its own crit value.
	val := rest
	if p := strings.Index(rest, "("); p >= 0 {
		val = rest[:p]
	}
	type unitMatch struct {
		re   *regexp.Regexp
		kind Kind
	}
	for _, u := range []unitMatch{
		{tempValRe, KindTemp},
		{fanValRe, KindFan},
		{voltValRe, KindVoltage},
	} {
		m := u.re.FindStringSubmatch(val)
		if m == nil {
			continue
		}
		r.Kind = u.kind
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && plausibleValue(u.kind, v) {
			r.Value, r.HasValue = v, true
		}
		break
	}

	if r.Kind == KindOther {
		// No recognizable unit. An N/A reading still gets a row if the
		// identifier itself discriminates the kind (temp1, fan2, in0).
		if !strings.Contains(strings.ToUpper(rest), "N/A") {
			return Reading{}, false
		}
		r.Kind = kindFromField(r.ID)
	}

	applyNamedThresholds(&r, rest)
	// Drivers sometimes continue thresholds on the following line:
	// "(crit = +84.8°C)" with no label of its own.
	if !strings.Contains(next, ":") && strings.Contains(next, "=") {
		applyNamedThresholds(&r, next)
	}

	return r, true
}

func applyNamedThresholds(r *Reading, s string) {
	for _, m := range namedValRe.FindAllStringSubmatch(s, -1) {
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil || !plausibleThreshold(r.Kind, v) {
			continue
		}
		switch m[1] {
		case "high", "max":
			if !r.HasHigh {
				r.High, r.HasHigh = v, true
			}
		case "crit":
			if !r.HasCrit {
				r.Crit, r.HasCrit = v, true
			}
		}
	}
}
