package ticketmaster

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/citypulse/citypulse/pkg/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const discoveryBody = `{
  "_embedded": {
    "events": [
      {
        "id": "G5diZ9xyz",
        "name": "Sunburn Arena",
        "url": "https://www.ticketmaster.com/event/G5diZ9xyz",
        "info": "Gates open at 5pm",
        "dates": {"start": {"localDate": "2026-11-14", "localTime": "18:00:00"}},
        "_embedded": {"venues": [{"name": "Sector 34 Exhibition Ground"}]},
        "classifications": [{"segment": {"name": "Music"}}],
        "priceRanges": [{"min": 999, "max": 4999.5, "currency": "INR"}],
        "images": [{"url": "https://img.example.com/sunburn.jpg"}]
      },
      {
        "id": "G5diZ9abc",
        "name": "Comedy Night",
        "dates": {"start": {"localDate": "2026-11-20"}}
      }
    ]
  }
}`

func TestFetchEvents_Success(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discovery/v2/events.json", r.URL.Path)
		gotQuery = map[string]string{
			"apikey":      r.URL.Query().Get("apikey"),
			"city":        r.URL.Query().Get("city"),
			"countryCode": r.URL.Query().Get("countryCode"),
			"size":        r.URL.Query().Get("size"),
			"sort":        r.URL.Query().Get("sort"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(discoveryBody))
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, APIKey: "secret", City: "Chandigarh", CountryCode: "IN"})
	events, err := client.FetchEvents(context.Background())

	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"apikey": "secret", "city": "Chandigarh", "countryCode": "IN", "size": "20", "sort": "date,asc",
	}, gotQuery)
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, "G5diZ9xyz", first.ID)
	assert.Equal(t, "Sunburn Arena", first.Title)
	assert.Equal(t, "2026-11-14", first.Date)
	assert.Equal(t, "18:00", first.Time)
	assert.Equal(t, "Sector 34 Exhibition Ground", first.Venue)
	assert.Equal(t, "Music", first.Category)
	assert.Equal(t, "999-4999.5 INR", first.Price)
	assert.Equal(t, "https://img.example.com/sunburn.jpg", first.Image)
	assert.Equal(t, "Gates open at 5pm", first.Description)

	second := events[1]
	assert.Equal(t, "", second.Venue)
	assert.Equal(t, "", second.Time)
	assert.Equal(t, "", second.Price)
}

func TestFetchEvents_UpstreamStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, APIKey: "bad"})
	_, err := client.FetchEvents(context.Background())

	require.Error(t, err)
	assert.Equal(t, provider.KindUpstream, provider.KindOf(err))
	assert.Equal(t, http.StatusUnauthorized, provider.StatusOf(err))
}

func TestFetchEvents_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, APIKey: "key"})
	_, err := client.FetchEvents(context.Background())

	assert.Equal(t, provider.KindUpstream, provider.KindOf(err))
}

func TestFetchEvents_NoEmbeddedEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"page": {"totalElements": 0}}`))
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, APIKey: "key"})
	events, err := client.FetchEvents(context.Background())

	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestFetchEvents_MissingKey(t *testing.T) {
	client := NewClient(Options{})
	_, err := client.FetchEvents(context.Background())

	assert.Equal(t, provider.KindConfig, provider.KindOf(err))
}
