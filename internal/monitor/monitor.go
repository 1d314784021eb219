// Package monitor drives the live telemetry view: a BubbleTea model
// that re-acquires sensor readings on a fixed cadence, merges them
// against the display policy and renders the result with lipgloss.
package monitor

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/luki/sensormon/internal/config"
	"github.com/luki/sensormon/internal/sensor"
	"github.com/luki/sensormon/internal/view"
)

// degradedStatus is shown instead of rows while the source is down.
const degradedStatus = "sensor source unavailable"

// ── Messages ─────────────────────────────────────────────────────────

type tickMsg time.Time

type snapshotMsg struct {
	snap sensor.Snapshot
	time time.Time
}

type acquireFailedMsg struct{ err error }

type policyMsg struct {
	policy *config.Policy
	err    error
}

// ── Model ────────────────────────────────────────────────────────────

// Options configures the live monitor.
type Options struct {
	Source     sensor.Source
	Policy     *config.Policy
	ConfigPath string // for on-demand policy reloads
	Refresh    time.Duration
	Log        *zap.Logger // nil means no logging
}

// Model is the BubbleTea model for the live monitor. Exactly one tick
// pipeline runs at a time: the next tick is scheduled only after the
// current one has produced its view model.
type Model struct {
	ctx        context.Context
	src        sensor.Source
	policy     *config.Policy
	configPath string
	refresh    time.Duration
	log        *zap.Logger

	vm        view.Model
	degraded  bool
	lastPoll  time.Time
	startTime time.Time
	width     int
	height    int
	scroll    int
	paused    bool
}

// New creates the initial model. The context bounds in-flight
// acquisitions so a hung `sensors` cannot block shutdown.
func New(ctx context.Context, opts Options) Model {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	return Model{
		ctx:        ctx,
		src:        opts.Source,
		policy:     opts.Policy,
		configPath: opts.ConfigPath,
		refresh:    opts.Refresh,
		log:        log,
		startTime:  time.Now(),
	}
}

// ── Commands ─────────────────────────────────────────────────────────

func (m Model) acquire() tea.Msg {
	snap, err := m.src.Acquire(m.ctx)
	if err != nil {
		return acquireFailedMsg{err}
	}
	return snapshotMsg{snap: snap, time: time.Now()}
}

// tick schedules the next acquisition one refresh interval from now.
// Scheduling happens after a tick completes, so a slow acquisition
// lengthens the effective period instead of overlapping the next one.
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) reloadPolicy() tea.Msg {
	pol, err := config.Load(m.configPath)
	return policyMsg{policy: pol, err: err}
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	// First acquisition runs immediately, without an initial wait.
	return m.acquire
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.log.Info("monitor shutting down")
			return m, tea.Quit
		case "up", "k":
			if m.scroll > 0 {
				m.scroll--
			}
		case "down", "j":
			m.scroll++
		case "home":
			m.scroll = 0
		case " ", "p":
			m.paused = !m.paused
		case "r":
			return m, m.reloadPolicy
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		if m.paused {
			return m, m.tick()
		}
		return m, m.acquire

	case snapshotMsg:
		if m.degraded {
			m.log.Info("sensor source recovered")
		}
		m.degraded = false
		m.vm = view.Merge(msg.snap, m.policy)
		m.lastPoll = msg.time
		return m, m.tick()

	case acquireFailedMsg:
		if !m.degraded {
			m.log.Warn("acquisition failed", zap.Error(msg.err))
		}
		m.degraded = true
		m.vm = view.Degraded(degradedStatus)
		return m, m.tick()

	case policyMsg:
		if msg.err != nil {
			m.log.Warn("policy reload failed", zap.Error(msg.err))
			return m, nil
		}
		// The new policy takes effect on the next tick's merge; the
		// running tick, if any, still sees the old one.
		m.policy = msg.policy
		m.log.Info("policy reloaded", zap.String("path", m.configPath))
		return m, nil
	}

	return m, nil
}
