// Package reader owns the proximity token reader. The reader is a single
// piece of hardware, so Channel serializes every scan behind one lock and
// always powers the device down before returning.
package reader

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UIDFormatDecimalConcat identifies the token normalization in use:
// decimal byte values of the anticollision reply, no separator.
// Stored tokens depend on it; a new rule needs a new version.
const UIDFormatDecimalConcat = 1

// DefaultPollInterval is the delay between two presentation attempts.
const DefaultPollInterval = 100 * time.Millisecond

var (
	// ErrNoTag is returned by a Device when no token answered. The channel
	// keeps polling.
	ErrNoTag = errors.New("no tag in field")

	// ErrTimeout means no token was presented before the scan deadline.
	ErrTimeout = errors.New("scan timed out")
)

// HardwareError wraps an unrecoverable driver failure.
type HardwareError struct {
	Op  string
	Err error
}

func (e *HardwareError) Error() string {
	return fmt.Sprintf("reader %s: %v", e.Op, e.Err)
}

func (e *HardwareError) Unwrap() error { return e.Err }

// Device is the driver for a proximity reader. Request and Anticoll return
// ErrNoTag while nothing is presented.
type Device interface {
	Init() error
	Request() error
	Anticoll() ([]byte, error)
	Cleanup() error
}

// NormalizeUID renders an anticollision reply as the stored token id.
func NormalizeUID(uid []byte) string {
	var b strings.Builder
	for _, v := range uid {
		b.WriteString(strconv.Itoa(int(v)))
	}
	return b.String()
}

// Channel serializes access to one Device.
type Channel struct {
	device   Device
	interval time.Duration
	sem      chan struct{}
}

func NewChannel(device Device, interval time.Duration) *Channel {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Channel{
		device:   device,
		interval: interval,
		sem:      make(chan struct{}, 1),
	}
}

// Read blocks until a token is resolved, the timeout elapses, or ctx is
// done. A zero timeout polls until ctx is done. The device is cleaned up on
// every path once the lock is held.
func (c *Channel) Read(ctx context.Context, timeout time.Duration) (uid string, err error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, timeout, ErrTimeout)
		defer cancel()
	}

	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return "", cause(ctx)
	}
	defer func() { <-c.sem }()

	defer func() {
		if cerr := c.device.Cleanup(); cerr != nil && err == nil {
			err = &HardwareError{Op: "cleanup", Err: cerr}
		}
	}()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		raw, err := c.attempt()
		if err == nil {
			return NormalizeUID(raw), nil
		}
		if !errors.Is(err, ErrNoTag) {
			return "", err
		}

		select {
		case <-ctx.Done():
			return "", cause(ctx)
		case <-ticker.C:
		}
	}
}

func (c *Channel) attempt() ([]byte, error) {
	if err := c.device.Init(); err != nil {
		return nil, &HardwareError{Op: "init", Err: err}
	}
	if err := c.device.Request(); err != nil {
		if errors.Is(err, ErrNoTag) {
			return nil, ErrNoTag
		}
		return nil, &HardwareError{Op: "request", Err: err}
	}
	raw, err := c.device.Anticoll()
	if err != nil {
		if errors.Is(err, ErrNoTag) {
			return nil, ErrNoTag
		}
		return nil, &HardwareError{Op: "anticoll", Err: err}
	}
	if len(raw) == 0 {
		return nil, ErrNoTag
	}
	return raw, nil
}

func cause(ctx context.Context) error {
	if errors.Is(context.Cause(ctx), ErrTimeout) {
		return ErrTimeout
	}
	return ctx.Err()
}
