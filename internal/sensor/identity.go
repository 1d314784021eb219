package sensor

import (
	"regexp"
	"strings"
)

// chipIdentityMap maps chip name prefixes to friendly component names.
var chipIdentityMap = []struct {
	prefix string
	name   string
}{
	{"coretemp", "CPU"},
	{"k10temp", "CPU"},
	{"zenpower", "CPU"},
	{"amdgpu", "GPU (AMD)"},
	{"radeon", "GPU (AMD)"},
	{"nouveau", "GPU (NVIDIA)"},
	{"nvidia", "GPU (NVIDIA)"},
	{"intel_gpu", "GPU (Intel)"},
	{"i915", "GPU (Intel)"},
	{"nvme", "NVMe SSD"},
	{"drivetemp", "HDD/SSD"},
	{"iwlwifi", "WiFi"},
	{"ath", "WiFi"},
	{"mt7", "WiFi"},
	{"rtw", "WiFi"},
	{"pch", "PCH (Chipset)"},
	{"acpi", "ACPI Thermal"},
	{"it87", "Motherboard"},
	{"nct", "Motherboard"},
	{"w83", "Motherboard"},
	{"f71", "Motherboard"},
	{"asus", "Motherboard"},
	{"thinkpad", "Laptop EC"},
	{"dell", "Laptop EC"},
	{"hp", "Laptop EC"},
	{"bat", "Battery"},
}

// FriendlyName returns a human-readable component name for a chip ID.
func FriendlyName(chip string) string {
	lower := strings.ToLower(chip)
	for _, entry := range chipIdentityMap {
		if strings.HasPrefix(lower, entry.prefix) {
			return entry.name
		}
	}
	return "Sensor"
}

// chipSortOrder ranks well-known chip families so CPU temperatures come
// first regardless of how the source enumerates chips.
var chipSortOrder = []struct {
	re    *regexp.Regexp
	order int
}{
	{regexp.MustCompile(`^coretemp-`), 1},
	{regexp.MustCompile(`^k10temp-`), 1},
	{regexp.MustCompile(`^drivetemp-`), 2},
	{regexp.MustCompile(`^nvme-`), 3},
	{regexp.MustCompile(`^acpitz-`), 4},
}

// ChipOrder returns the sort rank for a chip ID. Unranked chips sort last,
// after all known families.
func ChipOrder(chip string) int {
	for _, entry := range chipSortOrder {
		if entry.re.MatchString(chip) {
			return entry.order
		}
	}
	return 1<<31 - 2
}
