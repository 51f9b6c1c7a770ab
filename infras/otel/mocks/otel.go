// Package mocks provides in-memory otel.Otel implementations for tests.
package mocks

import (
	"context"
	"hotelbook/infras/otel"
	"sync"
)

// Recorder keeps the span names opened through it and the errors traced on them.
type Recorder struct {
	mu     sync.Mutex
	spans  []string
	errors []error
}

func (r *Recorder) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	r.mu.Lock()
	r.spans = append(r.spans, spanName)
	r.mu.Unlock()

	return ctx, &scope{recorder: r}
}

func (r *Recorder) Spans() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.spans...)
}

func (r *Recorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]error(nil), r.errors...)
}

func (r *Recorder) record(err error) {
	if r == nil || err == nil {
		return
	}

	r.mu.Lock()
	r.errors = append(r.errors, err)
	r.mu.Unlock()
}

type scope struct {
	recorder *Recorder
}

func (s *scope) End() {}
func (s *scope) AddEvent(_ string) {}
func (s *scope) SetAttribute(_ string, _ any) {}
func (s *scope) SetAttributes(_ map[string]any) {}
func (s *scope) TraceError(err error) { s.recorder.record(err) }
func (s *scope) TraceIfError(err error) { s.recorder.record(err) }

func NewRecorder() *Recorder {
	return &Recorder{}
}

// NewOtel returns a tracer that records nothing.
func NewOtel() otel.Otel {
	return noop{}
}

// NewScope returns a scope detached from any recorder.
func NewScope() otel.Scope {
	return &scope{}
}

type noop struct{}

func (noop) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, NewScope()
}
