package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahmetcoskunkizilkaya/accessgate/internal/display"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/signal"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/storage"
)

type State string

const (
	AwaitingLogin State = "awaiting_login"
	AwaitingScan  State = "awaiting_scan"
	Granted       State = "granted"
	Denied        State = "denied"
)

type Reason string

const (
	ReasonNone          Reason = ""
	ReasonNoPresence    Reason = "no_presence"
	ReasonTokenMismatch Reason = "token_mismatch"
)

// Outcome is where one verification attempt ended.
type Outcome struct {
	State    State
	Reason   Reason
	Username string
}

// Verifier checks that a logged-in participant is physically present and
// holds their bound token, then drives the actuator.
type Verifier struct {
	store    storage.ParticipantStore
	scanner  Scanner
	presence signal.PresenceSensor
	actuator signal.Actuator
	display  display.Sink
	opts     Options
}

func NewVerifier(store storage.ParticipantStore, scanner Scanner, presence signal.PresenceSensor,
	actuator signal.Actuator, sink display.Sink, opts Options) *Verifier {
	return &Verifier{
		store:    store,
		scanner:  scanner,
		presence: presence,
		actuator: actuator,
		display:  sink,
		opts:     opts,
	}
}

// LoginRequired is shown when a scan is attempted without a session.
func (v *Verifier) LoginRequired() State {
	v.display.Show("Login req", "")
	return AwaitingLogin
}

// Prompt asks username to present their token.
func (v *Verifier) Prompt(username string) State {
	v.display.Show("Scan RFID", username)
	return AwaitingScan
}

// Verify runs one attempt. A denial is an Outcome, not an error. A scan that
// does not complete returns its error and leaves the actuator untouched.
func (v *Verifier) Verify(ctx context.Context, username string) (Outcome, error) {
	ctx, span := tracer.Start(ctx, "access.Verify", trace.WithAttributes(attribute.String("username", username)))
	defer span.End()

	log := v.opts.logger().With("workflow", "verify", "username", username)
	out := Outcome{State: AwaitingScan, Username: username}

	detected, err := v.presence.Detected(ctx)
	if err != nil {
		log.Warn("presence read failed", "error", err)
	}
	if !detected {
		v.display.Show("No presence", "detected")
		v.opts.Metrics.IncVerification(string(ReasonNoPresence))
		span.SetAttributes(attribute.String("outcome", string(ReasonNoPresence)))
		out.State, out.Reason = Denied, ReasonNoPresence
		return out, nil
	}
	v.display.Show("Detected", "")

	start := time.Now()
	token, err := v.scanner.Read(ctx, v.opts.ScanTimeout)
	v.opts.Metrics.ObserveScan("verify", time.Since(start))
	if err != nil {
		v.display.Show("Error:", errorLine(err))
		log.Error("verification scan failed", "error", err, "latency_ms", time.Since(start).Milliseconds())
		reportHardware("verify", username, err)
		v.opts.Metrics.IncVerification("error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "scan failed")
		return out, fmt.Errorf("scan token: %w", err)
	}
	v.display.Show("RFID UID:", token)
	span.SetAttributes(attribute.String("token_id", token))

	_, err = v.store.FindByUsernameAndToken(ctx, username, token)
	switch {
	case err == nil:
		v.display.Show("Access granted", username)
		if err := v.actuator.Command(ctx, signal.CommandOpen); err != nil {
			return v.actuatorFailed(out, span, err)
		}
		log.Info("access granted", "token_id", token, "latency_ms", time.Since(start).Milliseconds())
		v.opts.Metrics.IncVerification(string(Granted))
		span.SetAttributes(attribute.String("outcome", string(Granted)))
		dwell(ctx, v.opts.Dwell)
		v.display.Clear()
		out.State = Granted
		return out, nil

	case errors.Is(err, storage.ErrNotFound):
		v.display.Show("Access denied", username)
		if err := v.actuator.Command(ctx, signal.CommandClose); err != nil {
			return v.actuatorFailed(out, span, err)
		}
		log.Info("access denied", "token_id", token, "reason", ReasonTokenMismatch)
		v.opts.Metrics.IncVerification(string(ReasonTokenMismatch))
		span.SetAttributes(attribute.String("outcome", string(ReasonTokenMismatch)))
		out.State, out.Reason = Denied, ReasonTokenMismatch
		return out, nil

	default:
		v.opts.Metrics.IncVerification("error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return out, fmt.Errorf("look up token holder: %w", err)
	}
}

func (v *Verifier) actuatorFailed(out Outcome, span trace.Span, err error) (Outcome, error) {
	v.opts.Metrics.IncVerification("error")
	span.RecordError(err)
	span.SetStatus(codes.Error, "actuator write failed")
	return out, fmt.Errorf("signal actuator: %w", err)
}
