package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/sensormon/internal/sensor"
	"github.com/luki/sensormon/internal/view"
)

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorSection  = lipgloss.Color("51")
	colorChipName = lipgloss.Color("147")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorOk       = lipgloss.Color("78")
	colorWarn     = lipgloss.Color("220")
	colorCrit     = lipgloss.Color("196")
	colorPaused   = lipgloss.Color("196")
)

func severityColor(s view.Severity) lipgloss.Color {
	switch s {
	case view.SeverityCritical:
		return colorCrit
	case view.SeverityWarning:
		return colorWarn
	case view.SeverityNormal:
		return colorOk
	default:
		return colorDim
	}
}

var kindSections = []struct {
	kind  sensor.Kind
	title string
}{
	{sensor.KindTemp, "System Temperatures"},
	{sensor.KindFan, "Fans"},
	{sensor.KindVoltage, "Voltages"},
	{sensor.KindOther, "Other Sensors"},
}

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	contentWidth := m.width - 2
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string

	sections = append(sections, m.renderTitleBar(contentWidth))
	sections = append(sections, RenderPanels(m.vm, contentWidth)...)
	sections = append(sections, m.renderFooter(contentWidth))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	lines := strings.Split(content, "\n")
	visibleLines := m.height
	if visibleLines < 5 {
		visibleLines = 5
	}
	maxScroll := len(lines) - visibleLines
	if maxScroll < 0 {
		maxScroll = 0
	}
	scroll := m.scroll
	if scroll > maxScroll {
		scroll = maxScroll
	}

	end := scroll + visibleLines
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[scroll:end], "\n")
}

// RenderPanels renders the view model as kind-grouped panels. It only
// reads the model, and also backs the one-shot output mode.
func RenderPanels(vm view.Model, totalWidth int) []string {
	if vm.Status != "" {
		statusBox := lipgloss.NewStyle().
			Foreground(colorCrit).
			Bold(true).
			Width(totalWidth).
			Align(lipgloss.Center).
			Padding(2, 0).
			Render(strings.ToUpper(vm.Status))
		return []string{statusBox}
	}

	if len(vm.Rows) == 0 {
		waiting := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(totalWidth).
			Align(lipgloss.Center).
			Padding(2, 0).
			Render("Waiting for sensor data...")
		return []string{waiting}
	}

	var panels []string
	for _, section := range kindSections {
		var rows []view.Row
		for _, row := range vm.Rows {
			if row.Kind == section.kind {
				rows = append(rows, row)
			}
		}
		if len(rows) == 0 {
			continue
		}
		panels = append(panels, renderKindPanel(section.title, rows, totalWidth))
	}
	return panels
}

func renderKindPanel(title string, rows []view.Row, totalWidth int) string {
	labelW := 18
	valueW := 10
	threshW := 9

	titleText := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorSection).
		Render(title)

	colS := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	header := colS.Width(labelW).Render("sensor") + " " +
		colS.Width(valueW).Align(lipgloss.Right).Render("current") + " " +
		colS.Width(threshW).Align(lipgloss.Right).Render("high") + " " +
		colS.Width(threshW).Align(lipgloss.Right).Render("crit")

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	lines := []string{titleText, "  " + header}

	lastChip := ""
	for _, row := range rows {
		if row.ChipID != lastChip {
			chipLine := lipgloss.NewStyle().
				Bold(true).
				Foreground(colorChipName).
				Render(row.ChipLabel)
			if row.ChipLabel != row.ChipID {
				chipLine += "  " + dimS.Render(row.ChipID)
			}
			chipLine += "  " + dimS.Render(sensor.FriendlyName(row.ChipID))
			lines = append(lines, chipLine)
			lastChip = row.ChipID
		}

		label := lipgloss.NewStyle().
			Foreground(colorLabel).
			Width(labelW).
			Render(truncate(row.Sensor, labelW))

		value := lipgloss.NewStyle().
			Foreground(severityColor(row.Severity)).
			Bold(row.Severity >= view.SeverityWarning).
			Width(valueW).
			Align(lipgloss.Right).
			Render(row.Value)

		high := dimS.Width(threshW).Align(lipgloss.Right).Render(row.High)
		crit := dimS.Width(threshW).Align(lipgloss.Right).Render(row.Crit)

		lines = append(lines, "  "+label+" "+value+" "+high+" "+crit)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(totalWidth).
		Render(content)
}

// RenderOnce renders a single frame of the view model for the one-shot
// output mode.
func RenderOnce(vm view.Model, width int) string {
	if width <= 0 {
		width = 100
	}
	return lipgloss.JoinVertical(lipgloss.Left, RenderPanels(vm, width)...)
}

// ── Chrome ───────────────────────────────────────────────────────────

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("SENSORS MONITOR")

	dimS := lipgloss.NewStyle().Foreground(colorDim)

	var statusParts []string
	statusParts = append(statusParts, dimS.Render(fmt.Sprintf("up %s", fmtDuration(time.Since(m.startTime)))))
	statusParts = append(statusParts, dimS.Render(fmt.Sprintf("every %s", m.refresh)))

	if !m.lastPoll.IsZero() {
		statusParts = append(statusParts, dimS.Render(m.lastPoll.Format("15:04:05")))
	}
	if m.degraded {
		statusParts = append(statusParts, lipgloss.NewStyle().
			Foreground(colorCrit).
			Bold(true).
			Render("DEGRADED"))
	}
	if m.paused {
		statusParts = append(statusParts, lipgloss.NewStyle().
			Foreground(colorPaused).
			Bold(true).
			Render("PAUSED"))
	}

	sep := dimS.Render(" │ ")
	right := strings.Join(statusParts, sep)

	gap := width - lipgloss.Width(logo) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + strings.Repeat(" ", gap) + right)
}

func (m Model) renderFooter(width int) string {
	okS := lipgloss.NewStyle().Foreground(colorOk).Render("██")
	warnS := lipgloss.NewStyle().Foreground(colorWarn).Render("██")
	critS := lipgloss.NewStyle().Foreground(colorCrit).Render("██")
	unkS := lipgloss.NewStyle().Foreground(colorDim).Render("██")

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	keyS := lipgloss.NewStyle().Foreground(colorLabel)

	legend := okS + dimS.Render(" ok ") +
		warnS + dimS.Render(" warn ") +
		critS + dimS.Render(" crit ") +
		unkS + dimS.Render(" n/a")

	keys := dimS.Render("q") + keyS.Render(":quit") +
		dimS.Render("  j/k") + keyS.Render(":scroll") +
		dimS.Render("  p") + keyS.Render(":pause") +
		dimS.Render("  r") + keyS.Render(":reload config")

	gap := width - lipgloss.Width(legend) - lipgloss.Width(keys) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(legend + strings.Repeat(" ", gap) + keys)
}

func truncate(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w <= 3 {
		return string(r[:w])
	}
	return string(r[:w-1]) + "…"
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
