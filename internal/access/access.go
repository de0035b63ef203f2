// Package access implements the two doorway workflows: enrollment binds a
// scanned token to a freshly registered participant, and verification
// checks a logged-in participant's token before opening the door.
package access

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"go.opentelemetry.io/otel"

	"github.com/ahmetcoskunkizilkaya/accessgate/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/reader"
)

var tracer = otel.Tracer("github.com/ahmetcoskunkizilkaya/accessgate/internal/access")

// Scanner reads one token from the reader. *reader.Channel implements it.
type Scanner interface {
	Read(ctx context.Context, timeout time.Duration) (string, error)
}

// Options tunes both workflows.
type Options struct {
	// ScanTimeout bounds each reader scan. Zero polls until the context ends.
	ScanTimeout time.Duration
	// Dwell is how long a final message stays on the display before it is
	// cleared.
	Dwell   time.Duration
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// dwell waits d or until ctx ends.
func dwell(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// errorLine is the second display line for a failed scan.
func errorLine(err error) string {
	var hw *reader.HardwareError
	switch {
	case errors.Is(err, reader.ErrTimeout):
		return "Scan timeout"
	case errors.Is(err, context.Canceled):
		return "Cancelled"
	case errors.As(err, &hw):
		return hw.Err.Error()
	default:
		return err.Error()
	}
}

// resultLabel classifies a scan error for metrics.
func resultLabel(err error) string {
	var hw *reader.HardwareError
	switch {
	case errors.Is(err, reader.ErrTimeout):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.As(err, &hw):
		return "hardware"
	default:
		return "error"
	}
}

// reportHardware forwards reader driver failures to Sentry. Timeouts and
// cancellations are expected and stay local.
func reportHardware(workflow, username string, err error) {
	var hw *reader.HardwareError
	if !errors.As(err, &hw) {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("workflow", workflow)
		scope.SetTag("reader_op", hw.Op)
		scope.SetUser(sentry.User{Username: username})
		sentry.CaptureException(err)
	})
}
