package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmetcoskunkizilkaya/accessgate/internal/signal"
)

type recordingServo struct {
	moves []string
	fail  error
}

func (s *recordingServo) Max() error {
	s.moves = append(s.moves, "max")
	return s.fail
}

func (s *recordingServo) Min() error {
	s.moves = append(s.moves, "min")
	return s.fail
}

func TestStepFollowsCommand(t *testing.T) {
	ctx := context.Background()
	ch := signal.NewMemoryChannel()
	servo := &recordingServo{}
	d := newDaemon(ch, servo)

	require.NoError(t, d.step(ctx))
	assert.Empty(t, servo.moves, "no command yet")

	require.NoError(t, ch.Command(ctx, signal.CommandOpen))
	require.NoError(t, d.step(ctx))
	require.NoError(t, d.step(ctx))
	require.NoError(t, ch.Command(ctx, signal.CommandClose))
	require.NoError(t, d.step(ctx))

	assert.Equal(t, []string{"max", "max", "min"}, servo.moves)
	assert.Equal(t, signal.CommandClose, d.last)
}

func TestStepIgnoresUnknownValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "servo_status.txt")
	require.NoError(t, os.WriteFile(path, []byte("half-open"), 0o644))
	servo := &recordingServo{}

	d := newDaemon(signal.NewFileChannel("", path), servo)
	require.NoError(t, d.step(context.Background()))
	assert.Empty(t, servo.moves)
}

func TestStepSurvivesServoFailure(t *testing.T) {
	ctx := context.Background()
	ch := signal.NewMemoryChannel()
	require.NoError(t, ch.Command(ctx, signal.CommandOpen))
	servo := &recordingServo{fail: errors.New("pwm busy")}

	d := newDaemon(ch, servo)
	require.NoError(t, d.step(ctx))
	assert.Equal(t, signal.CommandNone, d.last)
}

func TestRepeatedMovesLogOnlyChanges(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := context.Background()
	ch := signal.NewMemoryChannel()
	require.NoError(t, ch.Command(ctx, signal.CommandOpen))
	d := newDaemon(ch, logServo{})
	for range 3 {
		require.NoError(t, d.step(ctx))
	}

	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
	assert.Contains(t, buf.String(), "actuator command applied")
	assert.NotContains(t, buf.String(), "servo moved")
}

func TestRunRejectsBadFlags(t *testing.T) {
	assert.Error(t, run([]string{"--interval", "0s"}))
	assert.Error(t, run([]string{"--backend", "mqtt"}))
	assert.Error(t, run([]string{"--backend", "redis", "--redis-url", ""}))
}
