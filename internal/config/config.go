// Package config resolves the monitor configuration: an INI file with
// one section per chip identifier controlling label, visibility and
// hidden sensors, plus a [defaults] section for refresh rate and
// lm-sensors paths. Values can be overridden through SM_-prefixed
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	// DefaultPath is where the monitor looks for its configuration when
	// no --config flag is given.
	DefaultPath = "/etc/sensors-monitor.conf"

	defaultRefresh  = 2 * time.Second
	defaultsSection = "defaults"

	hiddenKey = "hidden_sensor_ids"
	// Historical misspelling, accepted so old config files keep working.
	hiddenKeyLegacy = "hidden_sensoers"
)

// ChipPolicy is the resolved display policy for one chip.
type ChipPolicy struct {
	Label   string
	Visible bool
	Hidden  map[string]struct{}
}

// IsHidden reports whether a sensor of this chip is on the hidden list.
func (p ChipPolicy) IsHidden(sensorID string) bool {
	_, ok := p.Hidden[sensorID]
	return ok
}

// Defaults carries the [defaults] section.
type Defaults struct {
	Refresh       time.Duration
	SensorsConfig string // lm_sensors_config: library config passed to `sensors -c`
	SensorsJSON   string // lm_sensors_json: captured JSON dump to read instead
}

// Policy is an immutable resolved configuration. It is built once by
// Load and shared read-only across all ticks; reloading produces a new
// Policy that replaces the old one between ticks.
type Policy struct {
	Defaults Defaults

	chips map[string]ChipPolicy
}

// Chip returns the policy entry for a chip identifier. Chips without an
// entry default to visible, labeled by their raw identifier, with no
// hidden sensors.
func (p *Policy) Chip(id string) ChipPolicy {
	if p != nil {
		if cp, ok := p.chips[strings.ToLower(id)]; ok {
			if cp.Label == "" {
				cp.Label = id
			}
			return cp
		}
	}
	return ChipPolicy{Label: id, Visible: true}
}

// Default returns the all-default policy used when no config file exists.
func Default() *Policy {
	return &Policy{
		Defaults: Defaults{Refresh: defaultRefresh},
		chips:    map[string]ChipPolicy{},
	}
}

// Load resolves the config file at path. A missing file is not an error:
// the monitor runs with zero configuration. An unparseable file is an
// error, since a half-resolved policy would silently misrepresent chip
// visibility. A malformed individual value falls back to that field's
// default while the rest of its section still applies.
func Load(path string) (*Policy, error) {
	pol := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	v.SetEnvPrefix("SM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
			return pol, nil
		}
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	if r := v.GetFloat64(defaultsSection + ".refresh"); r > 0 {
		pol.Defaults.Refresh = time.Duration(r * float64(time.Second))
	}
	pol.Defaults.SensorsConfig = v.GetString(defaultsSection + ".lm_sensors_config")
	pol.Defaults.SensorsJSON = v.GetString(defaultsSection + ".lm_sensors_json")

	for name, raw := range v.AllSettings() {
		if name == defaultsSection {
			continue
		}
		section, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		pol.chips[name] = parseChipSection(section)
	}

	return pol, nil
}

func parseChipSection(section map[string]interface{}) ChipPolicy {
	cp := ChipPolicy{Visible: true}

	for key, val := range section {
		switch key {
		case "label":
			cp.Label = strings.TrimSpace(cast.ToString(val))
		case "visible":
			s := strings.ToLower(strings.TrimSpace(cast.ToString(val)))
			if b, err := strconv.ParseBool(s); err == nil {
				cp.Visible = b
			}
		case hiddenKey, hiddenKeyLegacy:
			for _, id := range strings.Split(cast.ToString(val), ",") {
				id = strings.TrimSpace(id)
				if id == "" {
					continue
				}
				if cp.Hidden == nil {
					cp.Hidden = make(map[string]struct{})
				}
				cp.Hidden[id] = struct{}{}
			}
		}
		// Unknown keys are ignored for forward compatibility.
	}

	return cp
}
