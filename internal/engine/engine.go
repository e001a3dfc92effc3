// Package engine is the collaborator the REST server drives (the CLI's
// run command calls the loader and driver.Run directly): it turns a
// RunRequest into a driver.Run invocation,
// tracks the run's lifecycle so a client can poll for its events, and
// streams progress onto the shared eventbus. It embeds
// common/service.BaseService so its health reflects whether the last
// ephemeris fetch or detection run succeeded, the way the teacher's
// other long-running services report health.
package engine

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/skywatch/eventline/internal/adapter/ephemeris"
	"github.com/skywatch/eventline/internal/adapter/sink"
	"github.com/skywatch/eventline/internal/astro/catalog"
	"github.com/skywatch/eventline/internal/astro/driver"
	"github.com/skywatch/eventline/internal/astro/event"
	"github.com/skywatch/eventline/internal/common/service"
	"github.com/skywatch/eventline/internal/eventbus"
)

// Status is a run's lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// RunRequest describes one detection run, the body of POST /api/v1/runs.
type RunRequest struct {
	Start     time.Time
	End       time.Time
	Bodies    []catalog.Body
	SubWindow time.Duration
}

// Run is the queryable state of one submitted RunRequest.
type Run struct {
	ID        string
	Status    Status
	Request   RunRequest
	Records   []event.Record
	Err       error
	StartedAt time.Time
	EndedAt   time.Time
}

// Engine coordinates ephemeris loading, the detection driver, and run
// bookkeeping.
type Engine struct {
	*service.BaseService

	loader ephemeris.Loader
	bus    eventbus.EventBus

	mu   sync.RWMutex
	runs map[string]*Run
}

// New builds an Engine backed by loader, publishing run progress onto
// bus.
func New(loader ephemeris.Loader, bus eventbus.EventBus) *Engine {
	e := &Engine{
		BaseService: service.NewBaseService("eventline-engine"),
		loader:      loader,
		bus:         bus,
		runs:        make(map[string]*Run),
	}
	e.SetHealthy("idle")
	return e
}

// Submit registers req as a new run and starts it in the background,
// returning the run's ID immediately.
func (e *Engine) Submit(req RunRequest) (string, error) {
	id, err := newRunID()
	if err != nil {
		return "", fmt.Errorf("generating run id: %w", err)
	}

	run := &Run{ID: id, Status: StatusPending, Request: req}
	e.mu.Lock()
	e.runs[id] = run
	e.mu.Unlock()

	go e.execute(run)

	return id, nil
}

// Get looks up a run by ID.
func (e *Engine) Get(id string) (*Run, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	run, ok := e.runs[id]
	if !ok {
		return nil, false
	}
	cp := *run
	cp.Records = append([]event.Record(nil), run.Records...)
	return &cp, true
}

func (e *Engine) execute(run *Run) {
	ctx := context.Background()

	e.setStatus(run.ID, StatusRunning, nil)
	if e.bus != nil {
		_ = e.bus.Publish(ctx, eventbus.RecordsTopic, []event.Record{})
	}

	view, err := e.loader.Fetch(ctx, run.Request.Bodies, run.Request.Start, run.Request.End)
	if err != nil {
		e.fail(run.ID, fmt.Errorf("loading ephemeris data: %w", err))
		return
	}

	mem := sink.NewMemorySink()
	sinks := []sink.Sink{mem}
	if e.bus != nil {
		sinks = append(sinks, sink.NewStreamSink(e.bus))
	}
	tee := sink.Tee{Sinks: sinks}

	cfg := driver.Config{
		Start:     run.Request.Start,
		End:       run.Request.End,
		Bodies:    run.Request.Bodies,
		SubWindow: run.Request.SubWindow,
	}

	records, err := driver.Run(ctx, cfg, view, tee.AsEventSink())
	if err != nil {
		e.fail(run.ID, err)
		return
	}

	e.complete(run.ID, records)
}

func (e *Engine) setStatus(id string, status Status, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	run, ok := e.runs[id]
	if !ok {
		return
	}
	run.Status = status
	run.Err = err
	if status == StatusRunning {
		run.StartedAt = time.Now().UTC()
	}
}

func (e *Engine) fail(id string, err error) {
	e.mu.Lock()
	if run, ok := e.runs[id]; ok {
		run.Status = StatusFailed
		run.Err = err
		run.EndedAt = time.Now().UTC()
	}
	e.mu.Unlock()
	slog.Error("run failed", "run_id", id, "error", err)
	e.SetDegraded(fmt.Sprintf("run %s failed: %v", id, err))
}

func (e *Engine) complete(id string, records []event.Record) {
	e.mu.Lock()
	if run, ok := e.runs[id]; ok {
		run.Status = StatusCompleted
		run.Records = records
		run.EndedAt = time.Now().UTC()
	}
	e.mu.Unlock()
	e.SetHealthy(fmt.Sprintf("run %s completed with %d events", id, len(records)))
}

// ErrRunNotFound is returned by handlers that look up a run by ID.
var ErrRunNotFound = errors.New("run not found")

// EnsureCacheIncomplete reports whether err is the adapter's
// CacheIncompleteError, letting callers distinguish a transient
// ephemeris gap from any other failure when deciding how to report it.
func EnsureCacheIncomplete(err error) bool {
	var incomplete *ephemeris.CacheIncompleteError
	return errors.As(err, &incomplete)
}

func newRunID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "run_" + hex.EncodeToString(buf), nil
}
