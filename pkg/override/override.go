package override

import (
	"errors"

	"github.com/citypulse/citypulse/pkg/event"
)

// Keys under which the two override lists are persisted.
const (
	CustomEventsKey     = "customEvents"
	DisabledEventIdsKey = "disabledEventIds"
)

var ErrEventNotFound = errors.New("custom event not found")

// State is the full content of the override store.
type State struct {
	Custom      []event.Event
	DisabledIds []string
}

func (s State) customIndex(id string) int {
	for i, e := range s.Custom {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s State) isDisabled(id string) bool {
	for _, disabledId := range s.DisabledIds {
		if disabledId == id {
			return true
		}
	}
	return false
}
