package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahmetcoskunkizilkaya/accessgate/internal/display"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/storage"
)

// Enroller runs enrollment tasks on goroutines it owns. Tasks derive from a
// base context that Stop cancels.
type Enroller struct {
	store   storage.ParticipantStore
	scanner Scanner
	display display.Sink
	opts    Options

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	tasks map[string]*Task // latest task per username
}

func NewEnroller(store storage.ParticipantStore, scanner Scanner, sink display.Sink, opts Options) *Enroller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Enroller{
		store:   store,
		scanner: scanner,
		display: sink,
		opts:    opts,
		ctx:     ctx,
		cancel:  cancel,
		tasks:   make(map[string]*Task),
	}
}

// Start launches enrollment for username and returns its handle. If a task
// for the same user is still pending or running, that task is returned.
func (e *Enroller) Start(username string) *Task {
	e.mu.Lock()
	defer e.mu.Unlock()

	if t, ok := e.tasks[username]; ok && t.active() {
		return t
	}

	t := newTask(username)
	e.tasks[username] = t
	e.wg.Add(1)
	go e.run(e.ctx, t)
	return t
}

// Status returns the latest task started for username.
func (e *Enroller) Status(username string) (*Task, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.tasks[username]
	return t, ok
}

// Wait blocks until every started task has returned.
func (e *Enroller) Wait() {
	e.wg.Wait()
}

// Stop cancels in-flight tasks and waits for them.
func (e *Enroller) Stop() {
	e.cancel()
	e.wg.Wait()
}

func (e *Enroller) run(ctx context.Context, t *Task) {
	defer e.wg.Done()
	defer close(t.done)

	ctx, span := tracer.Start(ctx, "access.Enroll", trace.WithAttributes(
		attribute.String("username", t.Username),
		attribute.String("task_id", t.ID.String()),
	))
	defer span.End()

	log := e.opts.logger().With("workflow", "enroll", "username", t.Username, "task_id", t.ID.String())
	t.setRunning()

	e.display.Show("Assigning UID", t.Username)

	start := time.Now()
	token, err := e.scanner.Read(ctx, e.opts.ScanTimeout)
	e.opts.Metrics.ObserveScan("enroll", time.Since(start))
	if err != nil {
		e.display.Show("Error:", errorLine(err))
		log.Error("enrollment scan failed", "error", err, "latency_ms", time.Since(start).Milliseconds())
		reportHardware("enroll", t.Username, err)
		e.opts.Metrics.IncEnrollment(resultLabel(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "scan failed")
		t.fail(err)
		e.finish(ctx)
		return
	}

	e.display.Show("RFID UID:", token)
	span.SetAttributes(attribute.String("token_id", token))

	evicted, err := e.store.ReassignToken(ctx, token, t.Username)
	if err != nil {
		line := "Store failure"
		if errors.Is(err, storage.ErrTokenContended) {
			line = "Token in use"
		}
		err = fmt.Errorf("reassign token: %w", err)
		e.display.Show("Error:", line)
		log.Error("token binding failed", "token_id", token, "error", err)
		e.opts.Metrics.IncEnrollment("error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "reassign failed")
		t.fail(err)
		e.finish(ctx)
		return
	}

	names := make([]string, 0, len(evicted))
	for _, p := range evicted {
		names = append(names, p.Username)
		log.Warn("participant deleted, token reassigned",
			slog.String("token_id", token),
			slog.String("evicted_username", p.Username),
		)
	}
	e.opts.Metrics.AddEvictions(len(evicted))
	e.opts.Metrics.IncEnrollment("succeeded")

	e.display.Show("UID assigned", token)
	log.Info("token assigned", "token_id", token, "evicted", len(evicted), "latency_ms", time.Since(start).Milliseconds())
	t.succeed(token, names)
	e.finish(ctx)
}

func (e *Enroller) finish(ctx context.Context) {
	dwell(ctx, e.opts.Dwell)
	e.display.Clear()
}
