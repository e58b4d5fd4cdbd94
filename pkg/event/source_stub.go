package event

import (
	"context"
	"sync"
)

type SourceStub struct {
	mu     sync.Mutex
	name   string
	events []Event
	err    error
	calls  int
}

func NewSourceStub(name string, events []Event, err error) *SourceStub {
	return &SourceStub{name: name, events: events, err: err}
}

func (s *SourceStub) Name() string {
	return s.name
}

func (s *SourceStub) FetchEvents(ctx context.Context) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]Event(nil), s.events...), nil
}

func (s *SourceStub) SetResult(events []Event, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
	s.err = err
}

// Calls returns how many times FetchEvents was invoked.
func (s *SourceStub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
