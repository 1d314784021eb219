package sensor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const testSensorsText = `iwlwifi_1-virtual-0
Adapter: Virtual device
temp1:        +35.0°C

nvme-pci-0300
Adapter: PCI adapter
Composite:    +36.9°C  (low  = -273.1°C, high = +81.8°C)
                       (crit = +84.8°C)
Sensor 1:     +36.9°C  (low  = -273.1°C, high = +65261.8°C)

coretemp-isa-0000
Adapter: ISA adapter
Package id 0:  +48.0°C  (high = +101.0°C, crit = +115.0°C)
Core 0:        +46.0°C  (high = +101.0°C, crit = +115.0°C)
Core 1:        +45.0°C  (high = +101.0°C, crit = +115.0°C)

nct6798-isa-0290
Adapter: ISA adapter
in0:           +0.93 V  (min =  +0.00 V, max =  +1.74 V)
fan1:         1184 RPM  (min =    0 RPM)
fan2:            0 RPM  (min =    0 RPM)
temp3:         N/A
`

func TestParseText(t *testing.T) {
	snap := ParseText(testSensorsText)

	if len(snap) != 4 {
		t.Fatalf("expected 4 chips, got %d", len(snap))
	}

	// Text mode keeps the source order.
	if snap[0].ID != "iwlwifi_1-virtual-0" || snap[3].ID != "nct6798-isa-0290" {
		t.Errorf("chip order: got %q ... %q", snap[0].ID, snap[3].ID)
	}

	core := findChip(t, snap, "coretemp-isa-0000")
	if core.Adapter != "ISA adapter" {
		t.Errorf("adapter: got %q", core.Adapter)
	}
	c0 := findSensor(t, core, "Core 0")
	if c0.Kind != KindTemp || !c0.HasValue || c0.Value != 46.0 {
		t.Errorf("Core 0: got %+v", c0)
	}
	if !c0.HasHigh || c0.High != 101.0 || !c0.HasCrit || c0.Crit != 115.0 {
		t.Errorf("Core 0 thresholds: got %+v", c0)
	}
}

func TestParseTextCritContinuation(t *testing.T) {
	snap := ParseText(testSensorsText)
	comp := findSensor(t, findChip(t, snap, "nvme-pci-0300"), "Composite")

	if !comp.HasHigh || comp.High != 81.8 {
		t.Errorf("Composite high: got %v (has=%v), want 81.8", comp.High, comp.HasHigh)
	}
	// crit lives on its own continuation line.
	if !comp.HasCrit || comp.Crit != 84.8 {
		t.Errorf("Composite crit: got %v (has=%v), want 84.8", comp.Crit, comp.HasCrit)
	}

	s1 := findSensor(t, findChip(t, snap, "nvme-pci-0300"), "Sensor 1")
	if s1.HasHigh {
		t.Errorf("Sensor 1 bogus high %v should be dropped", s1.High)
	}
}

func TestParseTextFansAndVoltages(t *testing.T) {
	snap := ParseText(testSensorsText)
	mb := findChip(t, snap, "nct6798-isa-0290")

	in0 := findSensor(t, mb, "in0")
	if in0.Kind != KindVoltage || !in0.HasValue || in0.Value != 0.93 {
		t.Errorf("in0: got %+v", in0)
	}
	if !in0.HasHigh || in0.High != 1.74 {
		t.Errorf("in0 high: got %v (has=%v), want 1.74", in0.High, in0.HasHigh)
	}

	fan1 := findSensor(t, mb, "fan1")
	if fan1.Kind != KindFan || !fan1.HasValue || fan1.Value != 1184 {
		t.Errorf("fan1: got %+v", fan1)
	}

	// A stopped fan is a real reading, not an absent one.
	fan2 := findSensor(t, mb, "fan2")
	if !fan2.HasValue || fan2.Value != 0 {
		t.Errorf("fan2: got %+v", fan2)
	}
}

func TestParseTextAbsentValue(t *testing.T) {
	snap := ParseText(testSensorsText)
	t3 := findSensor(t, findChip(t, snap, "nct6798-isa-0290"), "temp3")

	if t3.HasValue {
		t.Error("N/A reading should have an absent value")
	}
	if t3.Kind != KindTemp {
		t.Errorf("temp3 kind from identifier: got %v, want temperature", t3.Kind)
	}
}

func TestParseTextAbsentValueKeepsThresholds(t *testing.T) {
	// A failed read still reports its thresholds; the crit inside the
	// parens must not be mistaken for the current value.
	const out = `drivetemp-scsi-0-0
Adapter: SCSI adapter
temp1:         N/A  (low  = +0.0°C, high = +60.0°C)
                       (crit low = -40.0°C, crit = +85.0°C)
`
	snap := ParseText(out)
	t1 := findSensor(t, findChip(t, snap, "drivetemp-scsi-0-0"), "temp1")

	if t1.HasValue {
		t.Fatalf("N/A reading must have an absent value, got value=%v", t1.Value)
	}
	if t1.Kind != KindTemp {
		t.Errorf("temp1 kind: got %v, want temperature", t1.Kind)
	}
	if !t1.HasHigh || t1.High != 60.0 {
		t.Errorf("temp1 high: got %+v, want 60.0", t1)
	}
	if !t1.HasCrit || t1.Crit != 85.0 {
		t.Errorf("temp1 crit: got %+v, want 85.0", t1)
	}
}

func TestParseTextEmpty(t *testing.T) {
	if snap := ParseText(""); len(snap) != 0 {
		t.Errorf("expected empty snapshot, got %d chips", len(snap))
	}
}

func TestFriendlyName(t *testing.T) {
	tests := []struct {
		chip string
		want string
	}{
		{"coretemp-isa-0000", "CPU"},
		{"nvme-pci-0300", "NVMe SSD"},
		{"iwlwifi_1-virtual-0", "WiFi"},
		{"pch_cannonlake-virtual-0", "PCH (Chipset)"},
		{"amdgpu-pci-0600", "GPU (AMD)"},
		{"drivetemp-hwmon4", "HDD/SSD"},
		{"some-unknown-chip", "Sensor"},
	}
	for _, tt := range tests {
		if got := FriendlyName(tt.chip); got != tt.want {
			t.Errorf("FriendlyName(%q) = %q, want %q", tt.chip, got, tt.want)
		}
	}
}

func TestChipOrder(t *testing.T) {
	if ChipOrder("coretemp-isa-0000") >= ChipOrder("drivetemp-scsi-0-0") {
		t.Error("coretemp must sort before drivetemp")
	}
	if ChipOrder("acpitz-acpi-0") >= ChipOrder("nct6798-isa-0290") {
		t.Error("acpitz must sort before unranked chips")
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	if err := os.WriteFile(path, []byte(testSensorsJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	src := &FileSource{Path: path}
	snap, err := src.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if len(snap) != 3 {
		t.Errorf("expected 3 chips, got %d", len(snap))
	}
}

func TestFileSourceMissing(t *testing.T) {
	src := &FileSource{Path: filepath.Join(t.TempDir(), "nope.json")}
	_, err := src.Acquire(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable for missing dump file, got %v", err)
	}
}
