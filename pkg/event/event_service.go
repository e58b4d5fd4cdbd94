package event

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

// FallbackLimit caps how many events the fallback source may contribute.
const FallbackLimit = 20

var ErrNoEvents = errors.New("no events found")

type Service interface {
	// Upcoming returns events from the first source that yields any, or ErrNoEvents.
	Upcoming(ctx context.Context) ([]Event, error)
}

type ServiceImpl struct {
	primary  Source
	fallback Source
}

// NewService builds the aggregator. primary is nil when no ticketing credential is configured.
func NewService(primary Source, fallback Source) *ServiceImpl {
	return &ServiceImpl{primary: primary, fallback: fallback}
}

func (s *ServiceImpl) Upcoming(ctx context.Context) ([]Event, error) {
	if s.primary != nil {
		events, err := s.fetch(ctx, s.primary)
		switch {
		case err != nil:
			log.Warnf("%s lookup failed, falling back: %v", s.primary.Name(), err)
		case len(events) > 0:
			return events, nil
		default:
			log.Infof("%s returned no events, falling back", s.primary.Name())
		}
	}

	if s.fallback != nil {
		events, err := s.fetch(ctx, s.fallback)
		if err != nil {
			log.Warnf("%s fallback failed: %v", s.fallback.Name(), err)
		} else if len(events) > 0 {
			if len(events) > FallbackLimit {
				events = events[:FallbackLimit]
			}
			return events, nil
		}
	}

	return nil, ErrNoEvents
}

func (s *ServiceImpl) fetch(ctx context.Context, source Source) ([]Event, error) {
	start := time.Now()
	events, err := source.FetchEvents(ctx)
	log.Debugf("%s returned %d events in %s", source.Name(), len(events), time.Since(start))
	return events, err
}
