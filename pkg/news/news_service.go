package news

import (
	"context"
	"time"

	"github.com/citypulse/citypulse/internal/metrics"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Latest(ctx context.Context) ([]NewsItem, error)
}

type ServiceImpl struct {
	provider Provider
}

func NewService(provider Provider) *ServiceImpl {
	return &ServiceImpl{provider: provider}
}

func (s *ServiceImpl) Latest(ctx context.Context) ([]NewsItem, error) {
	start := time.Now()
	items, err := s.provider.FetchNews(ctx)
	metrics.ObserveUpstream(s.provider.Name(), start, len(items), err)
	if err != nil {
		return nil, err
	}
	log.Debugf("%s returned %d articles in %s", s.provider.Name(), len(items), time.Since(start))
	return items, nil
}
