package main

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/accessgate/internal/signal"
)

// Servo is the door motor. A GPIO driver implements it on the device.
type Servo interface {
	Max() error
	Min() error
}

// logServo stands in for the motor on development machines.
type logServo struct{}

func (logServo) Max() error {
	slog.Debug("servo moved", "position", "max")
	return nil
}

func (logServo) Min() error {
	slog.Debug("servo moved", "position", "min")
	return nil
}

type daemon struct {
	source signal.CommandSource
	servo  Servo
	last   signal.Command
}

func newDaemon(source signal.CommandSource, servo Servo) *daemon {
	return &daemon{source: source, servo: servo}
}

// step applies the current command. The servo is driven on every poll, as
// the flag is level-triggered; only changes are logged.
func (d *daemon) step(ctx context.Context) error {
	cmd, err := d.source.LastCommand(ctx)
	if err != nil {
		slog.Warn("actuator status read failed", "error", err)
		return nil
	}

	switch cmd {
	case signal.CommandOpen:
		err = d.servo.Max()
	case signal.CommandClose:
		err = d.servo.Min()
	default:
		return nil
	}
	if err != nil {
		slog.Error("servo move failed", "command", string(cmd), "error", err)
		return nil
	}
	if cmd != d.last {
		slog.Info("actuator command applied", "command", string(cmd))
		d.last = cmd
	}
	return nil
}
