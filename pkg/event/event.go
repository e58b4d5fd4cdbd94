package event

// Event is the canonical listing record every provider is normalized into.
// String fields are never omitted so the shape stays stable for clients.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Venue       string `json:"venue"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Image       string `json:"image"`
	URL         string `json:"url"`
	Price       string `json:"price"`
	Custom      bool   `json:"custom,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
}
