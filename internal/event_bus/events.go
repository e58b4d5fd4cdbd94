package event_bus

const (
	OverrideCustomAdded   EventType = "override.custom_added"
	OverrideCustomUpdated EventType = "override.custom_updated"
	OverrideCustomDeleted EventType = "override.custom_deleted"
	OverrideToggled       EventType = "override.toggled"
)

type CustomEventAdded struct {
	ID    string
	Title string
}

type CustomEventUpdated struct {
	ID    string
	Title string
}

type CustomEventDeleted struct {
	ID string
}

// EventToggled is published whenever the disabled state of an event changes.
// Custom reports whether the id belongs to a custom event or a fetched one.
type EventToggled struct {
	ID       string
	Custom   bool
	Disabled bool
}
