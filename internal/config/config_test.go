package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sensors-monitor.conf")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[defaults]
refresh = 1.5
lm_sensors_config = /etc/custom-sensors.conf

[coretemp-isa-0000]
label = CPU
visible = true
hidden_sensor_ids = temp3, temp5

[nct6798-isa-0290]
visible = FALSE
`)

	pol, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if pol.Defaults.Refresh != 1500*time.Millisecond {
		t.Errorf("refresh: got %v, want 1.5s", pol.Defaults.Refresh)
	}
	if pol.Defaults.SensorsConfig != "/etc/custom-sensors.conf" {
		t.Errorf("lm_sensors_config: got %q", pol.Defaults.SensorsConfig)
	}

	cpu := pol.Chip("coretemp-isa-0000")
	if cpu.Label != "CPU" {
		t.Errorf("label: got %q, want CPU", cpu.Label)
	}
	if !cpu.Visible {
		t.Error("coretemp should be visible")
	}
	if !cpu.IsHidden("temp3") || !cpu.IsHidden("temp5") {
		t.Error("temp3 and temp5 should be hidden")
	}
	if cpu.IsHidden("temp1") {
		t.Error("temp1 should not be hidden")
	}

	// Boolean spellings are case-insensitive.
	if pol.Chip("nct6798-isa-0290").Visible {
		t.Error("nct6798 should be hidden")
	}
}

func TestLoadUnknownChipDefaults(t *testing.T) {
	path := writeConfig(t, "[coretemp-isa-0000]\nlabel = CPU\n")
	pol, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	cp := pol.Chip("acpitz-acpi-0")
	if !cp.Visible {
		t.Error("unknown chip must default to visible")
	}
	if cp.Label != "acpitz-acpi-0" {
		t.Errorf("unknown chip label: got %q, want raw identifier", cp.Label)
	}
	if cp.IsHidden("temp1") {
		t.Error("unknown chip must have no hidden sensors")
	}
}

func TestLoadMissingFile(t *testing.T) {
	pol, err := Load(filepath.Join(t.TempDir(), "does-not-exist.conf"))
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if !reflect.DeepEqual(pol, Default()) {
		t.Errorf("missing file must resolve to the default policy, got %+v", pol)
	}
}

func TestLoadNoSectionsEqualsEmpty(t *testing.T) {
	empty, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	// Unknown keys outside any chip section are ignored.
	commented, err := Load(writeConfig(t, "; just a comment\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(empty, commented) {
		t.Error("config with no recognized sections must equal the empty config")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	if _, err := Load(writeConfig(t, "[unclosed section\nlabel = x\n")); err == nil {
		t.Error("expected error for unparseable config")
	}
}

func TestLoadMalformedValueFallsBack(t *testing.T) {
	path := writeConfig(t, `
[coretemp-isa-0000]
label = CPU
visible = maybe
hidden_sensor_ids = temp3
`)
	pol, err := Load(path)
	if err != nil {
		t.Fatalf("a malformed value must not fail the whole file: %v", err)
	}

	cp := pol.Chip("coretemp-isa-0000")
	if !cp.Visible {
		t.Error("unparseable boolean must fall back to visible")
	}
	// The rest of the section still applies.
	if cp.Label != "CPU" || !cp.IsHidden("temp3") {
		t.Errorf("valid fields must survive: %+v", cp)
	}
}

func TestLoadLegacyHiddenKey(t *testing.T) {
	path := writeConfig(t, "[coretemp-isa-0000]\nhidden_sensoers = temp3\n")
	pol, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !pol.Chip("coretemp-isa-0000").IsHidden("temp3") {
		t.Error("legacy hidden_sensoers key must still hide sensors")
	}
}

func TestLoadUnknownKeysIgnored(t *testing.T) {
	path := writeConfig(t, `
[coretemp-isa-0000]
label = CPU
future_option = whatever
`)
	pol, err := Load(path)
	if err != nil {
		t.Fatalf("unknown keys must not be an error: %v", err)
	}
	if pol.Chip("coretemp-isa-0000").Label != "CPU" {
		t.Error("section with unknown keys must still apply")
	}
}

func TestLoadMalformedRefreshFallsBack(t *testing.T) {
	pol, err := Load(writeConfig(t, "[defaults]\nrefresh = soon\n"))
	if err != nil {
		t.Fatal(err)
	}
	if pol.Defaults.Refresh != defaultRefresh {
		t.Errorf("refresh: got %v, want built-in default", pol.Defaults.Refresh)
	}
}
