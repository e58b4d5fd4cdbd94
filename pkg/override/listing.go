package override

import (
	"context"

	"github.com/citypulse/citypulse/pkg/event"
	log "github.com/sirupsen/logrus"
)

// Merged is an event list built from fetched and custom events. FetchErr records an
// aggregation failure; custom events are still present in Events when it is set.
type Merged struct {
	Events   []event.Event
	FetchErr error
}

// Listing combines the aggregator with the override store.
type Listing struct {
	events    event.Service
	overrides Service
}

func NewListing(events event.Service, overrides Service) *Listing {
	return &Listing{events: events, overrides: overrides}
}

// Visible returns the public listing.
func (l *Listing) Visible(ctx context.Context) (Merged, error) {
	return l.merge(ctx, Visible)
}

// Admin returns every event with resolved disabled flags.
func (l *Listing) Admin(ctx context.Context) (Merged, error) {
	return l.merge(ctx, AdminView)
}

func (l *Listing) merge(ctx context.Context, combine func([]event.Event, []event.Event, []string) []event.Event) (Merged, error) {
	state, err := l.overrides.Load(ctx)
	if err != nil {
		return Merged{}, err
	}

	fetched, fetchErr := l.events.Upcoming(ctx)
	if fetchErr != nil {
		log.Debugf("listing without fetched events: %v", fetchErr)
		fetched = nil
	}

	return Merged{
		Events:   combine(fetched, state.Custom, state.DisabledIds),
		FetchErr: fetchErr,
	}, nil
}
