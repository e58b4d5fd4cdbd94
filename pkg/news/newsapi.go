package news

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
	"github.com/citypulse/citypulse/pkg/provider"
)

const (
	ProviderName    = "newsapi"
	DefaultBaseURL  = "https://newsapi.org"
	DefaultPageSize = 10
	UnknownSource   = "Unknown"
)

type NewsAPIOptions struct {
	BaseURL  string
	APIKey   string
	Keyword  string
	Language string
	PageSize int
	Timeout  time.Duration
}

// NewsAPIClient reads the /v2/everything endpoint of NewsAPI.
type NewsAPIClient struct {
	baseURL  string
	apiKey   string
	keyword  string
	language string
	pageSize int
	client   *http.Client
}

type everythingResponse struct {
	Status   string           `json:"status"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

func NewNewsAPIClient(opts NewsAPIOptions) *NewsAPIClient {
	c := &NewsAPIClient{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		apiKey:   opts.APIKey,
		keyword:  opts.Keyword,
		language: opts.Language,
		pageSize: opts.PageSize,
		client:   utils.NewHTTPClient(opts.Timeout),
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.language == "" {
		c.language = "en"
	}
	if c.pageSize <= 0 {
		c.pageSize = DefaultPageSize
	}
	return c
}

func (c *NewsAPIClient) Name() string { return ProviderName }

func (c *NewsAPIClient) FetchNews(ctx context.Context) ([]NewsItem, error) {
	if c.apiKey == "" {
		return nil, provider.MissingConfig(ProviderName, "news API key")
	}

	query := url.Values{}
	query.Set("q", c.keyword)
	query.Set("language", c.language)
	query.Set("sortBy", "publishedAt")
	query.Set("pageSize", strconv.Itoa(c.pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/everything?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, provider.Upstream(ProviderName, 0, fmt.Errorf("fetching news: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, provider.Upstream(ProviderName, resp.StatusCode, fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	var body everythingResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, provider.Upstream(ProviderName, 0, fmt.Errorf("decoding response: %w", err))
	}

	items := make([]NewsItem, 0, len(body.Articles))
	for i, article := range body.Articles {
		items = append(items, normalize(i, article))
	}
	return items, nil
}

func normalize(index int, a newsAPIArticle) NewsItem {
	source := strings.TrimSpace(a.Source.Name)
	if source == "" {
		source = UnknownSource
	}
	return NewsItem{
		ID:          index,
		Title:       a.Title,
		URL:         a.URL,
		Source:      source,
		PublishedAt: a.PublishedAt,
		Image:       a.URLToImage,
	}
}
