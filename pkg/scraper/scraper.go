package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/citypulse/citypulse/internal/utils"
	"github.com/citypulse/citypulse/pkg/event"
	"github.com/citypulse/citypulse/pkg/provider"
	log "github.com/sirupsen/logrus"
)

const (
	ProviderName = "allevents"
	DefaultURL   = "https://allevents.in/chandigarh/all"
	UserAgent    = "Mozilla/5.0 (compatible; EventsBot/1.0; +https://example.com/bot)"
	Timeout      = 30 * time.Second
	DefaultLimit = 20
)

type Options struct {
	URL       string
	UserAgent string
	Limit     int
	Timeout   time.Duration
}

// Scraper fetches and parses a public events listings page
type Scraper struct {
	client    *http.Client
	url       string
	userAgent string
	limit     int
}

// New creates a new Scraper; zero options fall back to the package defaults.
func New(opts Options) *Scraper {
	s := &Scraper{
		url:       opts.URL,
		userAgent: opts.UserAgent,
		limit:     opts.Limit,
	}
	if s.url == "" {
		s.url = DefaultURL
	}
	if s.userAgent == "" {
		s.userAgent = UserAgent
	}
	if s.limit <= 0 {
		s.limit = DefaultLimit
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = Timeout
	}
	s.client = utils.NewHTTPClient(timeout)
	return s
}

func (s *Scraper) Name() string { return ProviderName }

// FetchEvents fetches the listings page and returns at most limit normalized events
func (s *Scraper) FetchEvents(ctx context.Context) ([]event.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, provider.Upstream(ProviderName, 0, fmt.Errorf("fetching page: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, provider.Upstream(ProviderName, resp.StatusCode, fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	events, err := s.parseEvents(resp.Body)
	if err != nil {
		return nil, provider.Upstream(ProviderName, 0, err)
	}
	return events, nil
}

// parseEvents extracts events from HTML
func (s *Scraper) parseEvents(r io.Reader) ([]event.Event, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var raws []map[string]any
	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, sel *goquery.Selection) {
		var payload any
		if err := json.Unmarshal([]byte(sel.Text()), &payload); err != nil {
			log.Debugf("skipping malformed JSON-LD block %d: %v", i, err)
			return
		}
		raws = append(raws, collectEvents(payload)...)
	})

	if len(raws) == 0 {
		raws = parseCards(doc)
	}

	if len(raws) > s.limit {
		raws = raws[:s.limit]
	}

	events := make([]event.Event, 0, len(raws))
	for _, raw := range raws {
		events = append(events, event.Normalize(raw))
	}
	return events, nil
}

// collectEvents walks a decoded JSON-LD payload and returns every Event-typed object.
func collectEvents(payload any) []map[string]any {
	var found []map[string]any
	switch v := payload.(type) {
	case []any:
		for _, item := range v {
			found = append(found, collectEvents(item)...)
		}
	case map[string]any:
		if isEventType(v["@type"]) {
			found = append(found, v)
		}
		if graph, ok := v["@graph"]; ok {
			found = append(found, collectEvents(graph)...)
		}
	}
	return found
}

// isEventType accepts "Event", its schema.org subtypes ("MusicEvent") and arrays of types.
func isEventType(t any) bool {
	switch v := t.(type) {
	case string:
		return strings.HasSuffix(v, "Event")
	case []any:
		for _, item := range v {
			if isEventType(item) {
				return true
			}
		}
	}
	return false
}

// parseCards is the markup fallback for pages that do not embed JSON-LD.
func parseCards(doc *goquery.Document) []map[string]any {
	var raws []map[string]any
	doc.Find("div.event-card").Each(func(i int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find(".event-card-title").First().Text())
		if title == "" {
			return
		}
		id, ok := card.Attr("data-event-id")
		if !ok || strings.TrimSpace(id) == "" {
			id = title
		}
		raw := map[string]any{
			"id":    id,
			"title": title,
			"date":  strings.TrimSpace(card.Find(".event-card-date").First().Text()),
		}
		if href, ok := card.Find("a").First().Attr("href"); ok {
			raw["url"] = href
		}
		raws = append(raws, raw)
	})
	return raws
}
