package event

import (
	"context"
	"sync"
	"time"

	"github.com/citypulse/citypulse/internal/metrics"
	"github.com/citypulse/citypulse/internal/utils"
	log "github.com/sirupsen/logrus"
)

// Source is an external provider of events, already normalized.
type Source interface {
	Name() string
	FetchEvents(ctx context.Context) ([]Event, error)
}

// CachedSource keeps the last non-empty result of a Source for ttl.
// Failures and empty results are never cached. Only calls that reach the
// wrapped source are recorded as upstream requests.
type CachedSource struct {
	source Source
	ttl    time.Duration
	clock  utils.Clock

	mu      sync.RWMutex
	items   []Event
	expires time.Time
}

func NewCachedSource(source Source, ttl time.Duration, clock utils.Clock) *CachedSource {
	return &CachedSource{source: source, ttl: ttl, clock: clock}
}

func (c *CachedSource) Name() string {
	return c.source.Name()
}

func (c *CachedSource) FetchEvents(ctx context.Context) ([]Event, error) {
	c.mu.RLock()
	if len(c.items) > 0 && c.clock.Now().Before(c.expires) {
		items := append([]Event(nil), c.items...)
		c.mu.RUnlock()
		log.Tracef("serving %d cached events from %s", len(items), c.source.Name())
		return items, nil
	}
	c.mu.RUnlock()

	start := time.Now()
	events, err := c.source.FetchEvents(ctx)
	metrics.ObserveUpstream(c.source.Name(), start, len(events), err)
	if err != nil {
		return nil, err
	}
	if len(events) > 0 && c.ttl > 0 {
		c.mu.Lock()
		c.items = append([]Event(nil), events...)
		c.expires = c.clock.Now().Add(c.ttl)
		c.mu.Unlock()
	}
	return events, nil
}

// Invalidate drops the cached result.
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.expires = time.Time{}
}
