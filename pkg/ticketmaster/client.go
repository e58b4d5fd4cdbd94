package ticketmaster

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/citypulse/citypulse/internal/utils"
	"github.com/citypulse/citypulse/pkg/event"
	"github.com/citypulse/citypulse/pkg/provider"
	log "github.com/sirupsen/logrus"
)

const (
	ProviderName   = "ticketmaster"
	DefaultBaseURL = "https://app.ticketmaster.com"
	DefaultSize    = 20
)

type Options struct {
	BaseURL     string
	APIKey      string
	City        string
	CountryCode string
	Size        int
	Timeout     time.Duration
}

// Client queries the Ticketmaster Discovery API for upcoming events in one city.
type Client struct {
	baseURL     string
	apiKey      string
	city        string
	countryCode string
	size        int
	client      *http.Client
}

type discoveryResponse struct {
	Embedded struct {
		Events []discoveryEvent `json:"events"`
	} `json:"_embedded"`
}

type discoveryEvent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Info  string `json:"info"`
	Dates struct {
		Start struct {
			LocalDate string `json:"localDate"`
			LocalTime string `json:"localTime"`
		} `json:"start"`
	} `json:"dates"`
	Embedded struct {
		Venues []struct {
			Name string `json:"name"`
		} `json:"venues"`
	} `json:"_embedded"`
	Classifications []struct {
		Segment struct {
			Name string `json:"name"`
		} `json:"segment"`
	} `json:"classifications"`
	PriceRanges []struct {
		Min      float64 `json:"min"`
		Max      float64 `json:"max"`
		Currency string  `json:"currency"`
	} `json:"priceRanges"`
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}

func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}
	return &Client{
		baseURL:     baseURL,
		apiKey:      strings.TrimSpace(opts.APIKey),
		city:        opts.City,
		countryCode: opts.CountryCode,
		size:        size,
		client:      utils.NewHTTPClient(opts.Timeout),
	}
}

func (c *Client) Name() string { return ProviderName }

func (c *Client) FetchEvents(ctx context.Context) ([]event.Event, error) {
	if c.apiKey == "" {
		return nil, provider.MissingConfig(ProviderName, "api key")
	}

	q := url.Values{}
	q.Set("apikey", c.apiKey)
	q.Set("city", c.city)
	q.Set("countryCode", c.countryCode)
	q.Set("size", strconv.Itoa(c.size))
	q.Set("sort", "date,asc")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/discovery/v2/events.json?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, provider.Upstream(ProviderName, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, provider.Upstream(ProviderName, resp.StatusCode, fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	var body discoveryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, provider.Upstream(ProviderName, 0, fmt.Errorf("decoding response: %w", err))
	}

	events := make([]event.Event, 0, len(body.Embedded.Events))
	for _, e := range body.Embedded.Events {
		events = append(events, event.Normalize(toRaw(e)))
	}
	log.Debugf("ticketmaster returned %d events for %s", len(events), c.city)
	return events, nil
}

func toRaw(e discoveryEvent) map[string]any {
	raw := map[string]any{
		"id":          e.ID,
		"title":       e.Name,
		"date":        e.Dates.Start.LocalDate,
		"time":        shortTime(e.Dates.Start.LocalTime),
		"description": e.Info,
		"url":         e.URL,
	}
	if len(e.Embedded.Venues) > 0 {
		raw["venue"] = e.Embedded.Venues[0].Name
	}
	if len(e.Classifications) > 0 {
		raw["category"] = e.Classifications[0].Segment.Name
	}
	if len(e.PriceRanges) > 0 {
		p := e.PriceRanges[0]
		raw["price"] = fmt.Sprintf("%s-%s %s",
			strconv.FormatFloat(p.Min, 'f', -1, 64),
			strconv.FormatFloat(p.Max, 'f', -1, 64),
			p.Currency)
	}
	if len(e.Images) > 0 {
		raw["image"] = e.Images[0].URL
	}
	return raw
}

// shortTime trims "19:30:00" to "19:30".
func shortTime(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}
