package app

import (
	"fmt"

	"github.com/citypulse/citypulse/internal/config"
	"github.com/citypulse/citypulse/internal/event_bus"
	"github.com/citypulse/citypulse/internal/utils"
	"github.com/citypulse/citypulse/pkg/board"
	"github.com/citypulse/citypulse/pkg/event"
	"github.com/citypulse/citypulse/pkg/news"
	"github.com/citypulse/citypulse/pkg/override"
	"github.com/citypulse/citypulse/pkg/proxy"
	"github.com/citypulse/citypulse/pkg/scraper"
	"github.com/citypulse/citypulse/pkg/ticketmaster"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus

	TicketmasterSource *event.CachedSource
	ScraperSource      *event.CachedSource
	EventService       *event.ServiceImpl
	EventHandler       *event.EventHandler

	NewsProvider news.Provider
	NewsService  *news.ServiceImpl
	NewsHandler  *news.NewsHandler

	OverrideStore   override.Store
	OverrideService *override.ServiceImpl
	Listing         *override.Listing
	OverrideHandler *override.Handler

	BoardService *board.ServiceImpl
	BoardHandler *board.Handler

	ProxyHandler *proxy.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
// db is nil when the override store is kept in memory.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()
	SubscribeOverrideEvents(deps.EventBus)

	if cfg.Ticketmaster.ApiKey != "" {
		tm := ticketmaster.NewClient(ticketmaster.Options{
			BaseURL:     cfg.Ticketmaster.BaseURL,
			APIKey:      cfg.Ticketmaster.ApiKey,
			City:        cfg.City.Name,
			CountryCode: cfg.City.CountryCode,
		})
		deps.TicketmasterSource = event.NewCachedSource(tm, cfg.Ticketmaster.CacheTTL, deps.Clock)
	} else {
		log.Warn("Ticketmaster API key is not configured, events come from the scraper only")
	}
	deps.ScraperSource = event.NewCachedSource(scraper.New(scraper.Options{
		URL:       cfg.Scraper.URL,
		UserAgent: cfg.Scraper.UserAgent,
	}), cfg.Scraper.CacheTTL, deps.Clock)

	var primary event.Source
	if deps.TicketmasterSource != nil {
		primary = deps.TicketmasterSource
	}
	deps.EventService = event.NewService(primary, deps.ScraperSource)

	deps.NewsProvider = news.NewNewsAPIClient(news.NewsAPIOptions{
		BaseURL:  cfg.News.BaseURL,
		APIKey:   cfg.News.ApiKey,
		Keyword:  cfg.News.Keyword,
		Language: cfg.News.Language,
	})
	deps.NewsService = news.NewService(deps.NewsProvider)
	deps.NewsHandler = news.NewNewsHandler(deps.NewsService)

	if db != nil {
		deps.OverrideStore = override.NewRepository(db)
	} else {
		deps.OverrideStore = override.NewMemoryStore()
	}
	deps.OverrideService = override.NewService(deps.OverrideStore, deps.Clock, deps.EventBus)
	deps.Listing = override.NewListing(deps.EventService, deps.OverrideService)
	deps.OverrideHandler = override.NewHandler(deps.OverrideService, deps.Listing)

	deps.EventHandler = event.NewEventHandler(deps.EventService, deps.OverrideService.AddCustom)

	deps.BoardService = board.NewService(deps.Listing, deps.NewsService)
	deps.BoardHandler = board.NewHandler(deps.BoardService)

	proxyHandler, err := proxy.NewHandler(cfg.Backend.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to configure backend forwarding: %w", err)
	}
	deps.ProxyHandler = proxyHandler

	return deps, nil
}
