package board

import (
	"context"
	"sync"

	"github.com/citypulse/citypulse/pkg/event"
	"github.com/citypulse/citypulse/pkg/news"
	"github.com/citypulse/citypulse/pkg/override"
	log "github.com/sirupsen/logrus"
)

// Board is the public front page: the merged event listing next to the latest news.
// Each half reports its own failure.
type Board struct {
	Events      []event.Event   `json:"events"`
	EventsError string          `json:"eventsError,omitempty"`
	News        []news.NewsItem `json:"news"`
	NewsError   string          `json:"newsError,omitempty"`
}

type Service interface {
	Load(ctx context.Context) Board
}

type ServiceImpl struct {
	listing *override.Listing
	news    news.Service
}

func NewService(listing *override.Listing, news news.Service) *ServiceImpl {
	return &ServiceImpl{listing: listing, news: news}
}

func (s *ServiceImpl) Load(ctx context.Context) Board {
	var (
		wg    sync.WaitGroup
		board Board
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		board.Events, board.EventsError = s.loadEvents(ctx)
	}()
	go func() {
		defer wg.Done()
		board.News, board.NewsError = s.loadNews(ctx)
	}()
	wg.Wait()

	return board
}

func (s *ServiceImpl) loadEvents(ctx context.Context) ([]event.Event, string) {
	merged, err := s.listing.Visible(ctx)
	if err != nil {
		log.Errorf("board: failed to load override store: %v", err)
		return []event.Event{}, "Failed to load events"
	}
	if len(merged.Events) == 0 && merged.FetchErr != nil {
		return merged.Events, "No events found."
	}
	return merged.Events, ""
}

func (s *ServiceImpl) loadNews(ctx context.Context) ([]news.NewsItem, string) {
	items, err := s.news.Latest(ctx)
	if err != nil {
		_, message := news.ErrorStatus(err)
		return []news.NewsItem{}, message
	}
	return items, ""
}
