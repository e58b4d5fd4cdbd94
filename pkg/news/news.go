package news

import "context"

type NewsItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"publishedAt"`
	Image       string `json:"image"`
}

// Provider fetches the latest articles for the configured keyword.
type Provider interface {
	Name() string
	FetchNews(ctx context.Context) ([]NewsItem, error)
}
