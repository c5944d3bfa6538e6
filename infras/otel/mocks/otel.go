package mocks

import (
	"context"
	"eventdesk/infras/otel"
	"sync"
)

// Otel is an in-memory otel.Otel that records span names and traced errors.
type Otel struct {
	mu     sync.Mutex
	spans  []string
	errors []error
}

func NewOtel() *Otel {
	return &Otel{}
}

func (o *Otel) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	o.mu.Lock()
	o.spans = append(o.spans, spanName)
	o.mu.Unlock()

	return ctx, &scope{owner: o}
}

// Spans returns the span names in the order they were opened.
func (o *Otel) Spans() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]string(nil), o.spans...)
}

// Errors returns every error recorded on any scope.
func (o *Otel) Errors() []error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]error(nil), o.errors...)
}

func (o *Otel) record(err error) {
	if err == nil {
		return
	}

	o.mu.Lock()
	o.errors = append(o.errors, err)
	o.mu.Unlock()
}

type scope struct {
	owner *Otel
}

func (s *scope) End() {}

func (s *scope) TraceError(err error) {
	s.owner.record(err)
}

func (s *scope) TraceIfError(err *error) {
	if err != nil {
		s.owner.record(*err)
	}
}

func (s *scope) AddEvent(_ string) {}

func (s *scope) SetAttribute(_ string, _ any) {}

func (s *scope) SetAttributes(_ map[string]any) {}
