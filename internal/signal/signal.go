// Package signal carries the presence and actuator flags shared with the
// sensor and actuator daemons. Both flags are last-write-wins snapshots;
// peers poll them at their own cadence and nothing is acknowledged.
package signal

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// StatusDetected is the presence value a sensor daemon writes.
const StatusDetected = "detected"

// Command is the actuator state requested by the controller.
type Command string

const (
	CommandOpen  Command = "open"
	CommandClose Command = "close"
	// CommandNone is reported when no command has been written yet or the
	// stored value is unrecognized.
	CommandNone Command = ""
)

// ParseCommand maps a stored value to a Command after trimming whitespace.
func ParseCommand(s string) Command {
	switch c := Command(strings.TrimSpace(s)); c {
	case CommandOpen, CommandClose:
		return c
	default:
		return CommandNone
	}
}

// PresenceSensor is the controller's read side of the presence flag.
type PresenceSensor interface {
	Detected(ctx context.Context) (bool, error)
}

// PresenceReporter is the sensor daemon's write side.
type PresenceReporter interface {
	Report(ctx context.Context, detected bool) error
}

// Actuator is the controller's write side of the actuator flag.
type Actuator interface {
	Command(ctx context.Context, cmd Command) error
}

// CommandSource is the actuator daemon's read side.
type CommandSource interface {
	LastCommand(ctx context.Context) (Command, error)
}

// Bus bundles both directions of both flags.
type Bus interface {
	PresenceSensor
	PresenceReporter
	Actuator
	CommandSource
}

func presenceValue(detected bool) string {
	if detected {
		return StatusDetected
	}
	return "clear"
}

func isDetected(raw string) bool {
	return strings.TrimSpace(raw) == StatusDetected
}

func validate(cmd Command) error {
	if cmd != CommandOpen && cmd != CommandClose {
		return fmt.Errorf("unknown actuator command %q", cmd)
	}
	return nil
}

// Poll calls fn immediately and then every interval until ctx is done or
// fn returns an error.
func Poll(ctx context.Context, interval time.Duration, fn func(context.Context) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := fn(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
