package news

import (
	"context"
	"sync"
)

type ProviderStub struct {
	mu    sync.Mutex
	items []NewsItem
	err   error
	calls int
}

func NewProviderStub(items []NewsItem, err error) *ProviderStub {
	return &ProviderStub{items: items, err: err}
}

func (s *ProviderStub) Name() string { return "stub" }

func (s *ProviderStub) FetchNews(ctx context.Context) ([]NewsItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	items := make([]NewsItem, len(s.items))
	copy(items, s.items)
	return items, nil
}

func (s *ProviderStub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
