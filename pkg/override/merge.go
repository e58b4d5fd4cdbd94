package override

import "github.com/citypulse/citypulse/pkg/event"

// Visible returns the public listing: fetched events whose id is not disabled, in provider
// order, followed by the custom events that are not disabled, in insertion order.
// No de-duplication is done across the two sets.
func Visible(fetched []event.Event, custom []event.Event, disabledIds []string) []event.Event {
	disabled := make(map[string]struct{}, len(disabledIds))
	for _, id := range disabledIds {
		disabled[id] = struct{}{}
	}

	visible := make([]event.Event, 0, len(fetched)+len(custom))
	for _, e := range fetched {
		if _, ok := disabled[e.ID]; ok {
			continue
		}
		visible = append(visible, e)
	}
	for _, e := range custom {
		if e.Disabled {
			continue
		}
		visible = append(visible, e)
	}
	return visible
}

// AdminView returns every fetched and custom event with its disabled flag resolved.
func AdminView(fetched []event.Event, custom []event.Event, disabledIds []string) []event.Event {
	disabled := make(map[string]struct{}, len(disabledIds))
	for _, id := range disabledIds {
		disabled[id] = struct{}{}
	}

	all := make([]event.Event, 0, len(fetched)+len(custom))
	for _, e := range fetched {
		_, e.Disabled = disabled[e.ID]
		e.Custom = false
		all = append(all, e)
	}
	for _, e := range custom {
		e.Custom = true
		all = append(all, e)
	}
	return all
}
