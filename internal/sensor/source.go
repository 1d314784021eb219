package sensor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// ErrSourceUnavailable marks a failure to obtain any reading at all:
// the sensors binary is missing, the command failed, or a dump file
// could not be read. The monitor degrades instead of terminating.
var ErrSourceUnavailable = errors.New("sensor source unavailable")

// nullDevice keeps `sensors` from picking up the system-wide
// /etc/sensors3.conf when no explicit library config is given.
const nullDevice = "/dev/null"

const defaultTimeout = 10 * time.Second

// Source yields one fresh snapshot per call. Implementations must not
// cache between calls and must honor context cancellation.
type Source interface {
	Acquire(ctx context.Context) (Snapshot, error)
}

// CommandSource invokes the external `sensors` utility, in structured
// JSON mode by default or in raw text mode when Raw is set.
type CommandSource struct {
	SensorsConfig string        // lm-sensors library config passed via -c
	Raw           bool          // parse human-readable output instead of -j
	Timeout       time.Duration // bound on one invocation; defaultTimeout if zero
}

func (s *CommandSource) Acquire(ctx context.Context) (Snapshot, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cfg := s.SensorsConfig
	if cfg == "" {
		cfg = nullDevice
	}
	args := []string{"-c", cfg}
	if !s.Raw {
		args = append(args, "-j")
	}

	out, err := exec.CommandContext(ctx, "sensors", args...).Output()
	if err != nil {
		return nil, fmt.Errorf("%w: run sensors: %v", ErrSourceUnavailable, err)
	}

	if s.Raw {
		return ParseText(string(out)), nil
	}
	snap, err := ParseJSON(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return snap, nil
}

// FileSource reads a captured `sensors -j` dump. Useful for inspecting a
// snapshot taken on another machine, and for tests.
type FileSource struct {
	Path string
}

func (s *FileSource) Acquire(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	snap, err := ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return snap, nil
}
