// Package sink implements SPEC_FULL.md §4.9's context-aware Sink
// boundary: the driver's core event.Sink has no context parameter (a
// single in-process run never needs to cancel mid-emit), but the HTTP
// and streaming surfaces wrapping it do need one, so this package's
// Sink interface carries ctx and adapts down to event.Sink where the
// core expects it.
package sink

import (
	"context"
	"fmt"
	"sync"

	"github.com/skywatch/eventline/internal/astro/event"
	"github.com/skywatch/eventline/internal/eventbus"
)

// Sink is the context-aware boundary the API layer programs against.
type Sink interface {
	Emit(ctx context.Context, records []event.Record) error
}

// MemorySink accumulates every emitted record in memory. The REST
// handler for GET /api/v1/runs/:id/events does not read it; it serves
// the records the engine kept from driver.Run's return value.
type MemorySink struct {
	mu      sync.RWMutex
	records []event.Record
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Emit appends records, satisfying Sink.
func (s *MemorySink) Emit(ctx context.Context, records []event.Record) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return nil
}

// Records returns a copy of everything emitted so far.
func (s *MemorySink) Records() []event.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]event.Record, len(s.records))
	copy(out, s.records)
	return out
}

// AsEventSink adapts s down to the core's ctx-less event.Sink, for
// passing directly to driver.Run.
func (s *MemorySink) AsEventSink() event.Sink {
	return eventSinkFunc(func(records []event.Record) error {
		return s.Emit(context.Background(), records)
	})
}

// StreamSink publishes every emitted batch onto an eventbus.EventBus
// under eventbus.RecordsTopic, so the WebSocket hub can forward runs in
// progress to subscribed clients.
type StreamSink struct {
	Bus eventbus.EventBus
}

// NewStreamSink wraps bus.
func NewStreamSink(bus eventbus.EventBus) *StreamSink {
	return &StreamSink{Bus: bus}
}

// Emit publishes records to eventbus.RecordsTopic, satisfying Sink.
func (s *StreamSink) Emit(ctx context.Context, records []event.Record) error {
	if err := s.Bus.Publish(ctx, eventbus.RecordsTopic, records); err != nil {
		return fmt.Errorf("publishing records: %w", err)
	}
	return nil
}

// AsEventSink adapts s down to the core's ctx-less event.Sink.
func (s *StreamSink) AsEventSink() event.Sink {
	return eventSinkFunc(func(records []event.Record) error {
		return s.Emit(context.Background(), records)
	})
}

// Tee fans one emission out to multiple Sinks, so a run can populate a
// MemorySink for later retrieval while also streaming to a StreamSink
// for live subscribers.
type Tee struct {
	Sinks []Sink
}

// Emit calls every wrapped sink, returning the first error encountered
// after attempting all of them.
func (t Tee) Emit(ctx context.Context, records []event.Record) error {
	var firstErr error
	for _, s := range t.Sinks {
		if err := s.Emit(ctx, records); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// AsEventSink adapts t down to the core's ctx-less event.Sink.
func (t Tee) AsEventSink() event.Sink {
	return eventSinkFunc(func(records []event.Record) error {
		return t.Emit(context.Background(), records)
	})
}

type eventSinkFunc func(records []event.Record) error

func (f eventSinkFunc) Emit(records []event.Record) error { return f(records) }
