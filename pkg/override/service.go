package override

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/citypulse/citypulse/internal/event_bus"
	"github.com/citypulse/citypulse/internal/utils"
	"github.com/citypulse/citypulse/pkg/event"
	"github.com/citypulse/citypulse/pkg/provider"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Load(ctx context.Context) (State, error)
	// AddCustom stores e as a new custom event. The id is the creation time in milliseconds.
	AddCustom(ctx context.Context, e event.Event) (event.Event, error)
	UpdateCustom(ctx context.Context, e event.Event) (event.Event, error)
	DeleteCustom(ctx context.Context, id string) error
	// ToggleDisable flips the disabled state of a custom event, or of a fetched event id
	// when no custom event has that id. It returns the new state.
	ToggleDisable(ctx context.Context, id string) (bool, error)
	SetDisabled(ctx context.Context, id string, disabled bool) error
}

type ServiceImpl struct {
	mu       sync.Mutex
	store    Store
	clock    utils.Clock
	eventBus *event_bus.EventBus
}

func NewService(store Store, clock utils.Clock, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{store: store, clock: clock, eventBus: eventBus}
}

func (s *ServiceImpl) Load(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *ServiceImpl) AddCustom(ctx context.Context, e event.Event) (event.Event, error) {
	if strings.TrimSpace(e.Title) == "" {
		return event.Event{}, provider.Validation(errors.New("title is required"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return event.Event{}, err
	}

	e.ID = s.nextId(state)
	e.Custom = true
	e.Disabled = false
	state.Custom = append(state.Custom, e)

	if err := s.saveCustom(ctx, state.Custom); err != nil {
		return event.Event{}, err
	}

	s.publish(ctx, event_bus.OverrideCustomAdded, event_bus.CustomEventAdded{ID: e.ID, Title: e.Title})
	return e, nil
}

func (s *ServiceImpl) UpdateCustom(ctx context.Context, e event.Event) (event.Event, error) {
	if strings.TrimSpace(e.Title) == "" {
		return event.Event{}, provider.Validation(errors.New("title is required"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return event.Event{}, err
	}

	i := state.customIndex(e.ID)
	if i < 0 {
		return event.Event{}, ErrEventNotFound
	}
	e.Custom = true
	e.Disabled = state.Custom[i].Disabled
	state.Custom[i] = e

	if err := s.saveCustom(ctx, state.Custom); err != nil {
		return event.Event{}, err
	}

	s.publish(ctx, event_bus.OverrideCustomUpdated, event_bus.CustomEventUpdated{ID: e.ID, Title: e.Title})
	return e, nil
}

func (s *ServiceImpl) DeleteCustom(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return err
	}

	i := state.customIndex(id)
	if i < 0 {
		return ErrEventNotFound
	}
	state.Custom = append(state.Custom[:i], state.Custom[i+1:]...)

	if err := s.saveCustom(ctx, state.Custom); err != nil {
		return err
	}

	s.publish(ctx, event_bus.OverrideCustomDeleted, event_bus.CustomEventDeleted{ID: id})
	return nil
}

func (s *ServiceImpl) ToggleDisable(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	var disabled bool
	if i := state.customIndex(id); i >= 0 {
		disabled = !state.Custom[i].Disabled
	} else {
		disabled = !state.isDisabled(id)
	}
	return disabled, s.setDisabled(ctx, state, id, disabled)
}

func (s *ServiceImpl) SetDisabled(ctx context.Context, id string, disabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return err
	}
	return s.setDisabled(ctx, state, id, disabled)
}

func (s *ServiceImpl) setDisabled(ctx context.Context, state State, id string, disabled bool) error {
	custom := false
	if i := state.customIndex(id); i >= 0 {
		custom = true
		if state.Custom[i].Disabled == disabled {
			return nil
		}
		state.Custom[i].Disabled = disabled
		if err := s.saveCustom(ctx, state.Custom); err != nil {
			return err
		}
	} else {
		if state.isDisabled(id) == disabled {
			return nil
		}
		if disabled {
			state.DisabledIds = append(state.DisabledIds, id)
		} else {
			remaining := make([]string, 0, len(state.DisabledIds))
			for _, disabledId := range state.DisabledIds {
				if disabledId != id {
					remaining = append(remaining, disabledId)
				}
			}
			state.DisabledIds = remaining
		}
		if err := s.saveDisabled(ctx, state.DisabledIds); err != nil {
			return err
		}
	}

	s.publish(ctx, event_bus.OverrideToggled, event_bus.EventToggled{ID: id, Custom: custom, Disabled: disabled})
	return nil
}

// nextId derives the id from the clock, moving forward past ids already taken by a
// custom event or listed as a disabled fetched event, so toggles stay unambiguous.
func (s *ServiceImpl) nextId(state State) string {
	ms := s.clock.Now().UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if state.customIndex(id) < 0 && !state.isDisabled(id) {
			return id
		}
		ms++
	}
}

func (s *ServiceImpl) load(ctx context.Context) (State, error) {
	custom, err := read[[]event.Event](ctx, s.store, CustomEventsKey)
	if err != nil {
		return State{}, err
	}
	disabledIds, err := read[[]string](ctx, s.store, DisabledEventIdsKey)
	if err != nil {
		return State{}, err
	}

	state := State{Custom: custom, DisabledIds: disabledIds}
	if state.Custom == nil {
		state.Custom = []event.Event{}
	}
	if state.DisabledIds == nil {
		state.DisabledIds = []string{}
	}
	for i := range state.Custom {
		state.Custom[i].Custom = true
	}
	return state, nil
}

// read decodes the value stored under key. Missing keys and corrupt values yield the zero value.
func read[T any](ctx context.Context, store Store, key string) (T, error) {
	var value T
	data, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return value, nil
		}
		log.Errorf("failed to read %s: %v", key, err)
		return value, provider.Storage(err)
	}

	var decoded T
	if err := json.Unmarshal(data, &decoded); err != nil {
		log.Warnf("ignoring corrupt value stored under %s: %v", key, err)
		return value, nil
	}
	return decoded, nil
}

func (s *ServiceImpl) saveCustom(ctx context.Context, custom []event.Event) error {
	return s.write(ctx, CustomEventsKey, custom)
}

func (s *ServiceImpl) saveDisabled(ctx context.Context, ids []string) error {
	return s.write(ctx, DisabledEventIdsKey, ids)
}

func (s *ServiceImpl) write(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.store.Set(ctx, key, data); err != nil {
		log.Errorf("failed to write %s: %v", key, err)
		return provider.Storage(err)
	}
	return nil
}

func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Warnf("failed to publish %s: %v", eventType, err)
	}
}
