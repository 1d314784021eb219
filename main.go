// Command sensormon is a terminal-resident hardware telemetry monitor.
// It polls lm-sensors for temperatures, fan speeds and voltages, applies
// the display policy from /etc/sensors-monitor.conf and renders a live
// color-coded view.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/luki/sensormon/internal/config"
	"github.com/luki/sensormon/internal/monitor"
	"github.com/luki/sensormon/internal/sensor"
	"github.com/luki/sensormon/internal/view"
)

const version = "0.3.0"

// width used for --once output, which has no live terminal negotiation.
const onceWidth = 100

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		refreshFlag = pflag.Float64P("refresh", "r", 0, "refresh interval in seconds (default: from config, else 2)")
		lmConfig    = pflag.StringP("lm-sensors-config", "l", "", "lm-sensors library config file passed to sensors -c")
		lmJSON      = pflag.StringP("lm-sensors-json", "j", "", "read a captured sensors -j dump instead of running sensors")
		cfgPath     = pflag.StringP("config", "c", config.DefaultPath, "monitor config file path")
		raw         = pflag.Bool("raw", false, "parse human-readable sensors output instead of JSON")
		once        = pflag.Bool("once", false, "render a single frame to stdout and exit")
		logFile     = pflag.String("log-file", "", "write structured logs to this file")
		showVersion = pflag.BoolP("version", "v", false, "print version and exit")
	)
	pflag.Parse()

	if *showVersion {
		fmt.Printf("sensormon %s\n", version)
		return nil
	}
	if *raw && *lmJSON != "" {
		return fmt.Errorf("--raw and --lm-sensors-json select conflicting acquisition modes")
	}

	// A malformed config aborts before any UI is drawn: a half-resolved
	// policy would silently misrepresent chip visibility.
	pol, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}

	refresh := pol.Defaults.Refresh
	if pflag.CommandLine.Changed("refresh") {
		if *refreshFlag <= 0 {
			return fmt.Errorf("refresh interval must be > 0, got %v", *refreshFlag)
		}
		refresh = time.Duration(*refreshFlag * float64(time.Second))
	}

	logger := zap.NewNop()
	if *logFile != "" {
		lcfg := zap.NewProductionConfig()
		lcfg.OutputPaths = []string{*logFile}
		lcfg.ErrorOutputPaths = []string{*logFile}
		logger, err = lcfg.Build()
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer logger.Sync()
	}

	sensorsCfg := *lmConfig
	if sensorsCfg == "" {
		sensorsCfg = pol.Defaults.SensorsConfig
	}
	jsonPath := *lmJSON
	if jsonPath == "" {
		jsonPath = pol.Defaults.SensorsJSON
	}

	var src sensor.Source
	mode := "json"
	switch {
	case *raw:
		src = &sensor.CommandSource{SensorsConfig: sensorsCfg, Raw: true}
		mode = "raw"
	case jsonPath != "":
		src = &sensor.FileSource{Path: jsonPath}
		mode = "file"
	default:
		src = &sensor.CommandSource{SensorsConfig: sensorsCfg}
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	logger.Info("starting",
		zap.String("version", version),
		zap.String("mode", mode),
		zap.Duration("refresh", refresh),
		zap.String("config", *cfgPath))

	if *once {
		snap, err := src.Acquire(ctx)
		vm := view.Degraded("sensor source unavailable")
		if err == nil {
			vm = view.Merge(snap, pol)
		}
		fmt.Println(monitor.RenderOnce(vm, onceWidth))
		return nil
	}

	p := tea.NewProgram(
		monitor.New(ctx, monitor.Options{
			Source:     src,
			Policy:     pol,
			ConfigPath: *cfgPath,
			Refresh:    refresh,
			Log:        logger,
		}),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		// Signal-driven cancellation is a graceful shutdown.
		if ctx.Err() != nil {
			logger.Info("terminated by signal")
			return nil
		}
		return err
	}

	logger.Info("stopped")
	return nil
}
