// Package client is the Go client for the citypulse HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/citypulse/citypulse/internal/rest"
	"github.com/citypulse/citypulse/internal/utils"
	"github.com/citypulse/citypulse/pkg/event"
	"github.com/citypulse/citypulse/pkg/news"
)

type Client interface {
	FetchEvents(ctx context.Context) ([]event.Event, error)
	FetchNews(ctx context.Context) ([]news.NewsItem, error)
	CreateEvent(ctx context.Context, dto event.EventDTO) (event.Event, error)
}

// APIError is returned for non-2xx responses and carries the server's error body.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("api error (status %d): %s (%s)", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

var _ Client = (*HTTPClient)(nil)

type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  utils.NewHTTPClient(timeout),
	}
}

// FetchEvents returns the public listing, with custom events merged in and
// disabled events removed.
func (c *HTTPClient) FetchEvents(ctx context.Context) ([]event.Event, error) {
	var events []event.Event
	if err := c.do(ctx, http.MethodGet, "/api/listing", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *HTTPClient) FetchNews(ctx context.Context) ([]news.NewsItem, error) {
	var items []news.NewsItem
	if err := c.do(ctx, http.MethodGet, "/api/news", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) CreateEvent(ctx context.Context, dto event.EventDTO) (event.Event, error) {
	var created event.Event
	if err := c.do(ctx, http.MethodPost, "/api/events", dto, &created); err != nil {
		return event.Event{}, err
	}
	return created, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errBody rest.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
			apiErr.Details = errBody.Details
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
