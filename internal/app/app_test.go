package app

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/citypulse/citypulse/internal/config"
	"github.com/citypulse/citypulse/pkg/client"
	"github.com/citypulse/citypulse/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `<html><head><script type="application/ld+json">
[{"@type":"Event","@id":"ae-1","name":"Rock Garden Tour","startDate":"2026-11-02T09:00:00"}]
</script></head></html>`

type testServer struct {
	app     *Application
	backend *httptest.Server
	scraper *httptest.Server
	news    *httptest.Server
}

func setupApp(t *testing.T) testServer {
	t.Helper()
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Upgrade") == "websocket" {
			echoUpgraded(w)
			return
		}
		_, _ = w.Write([]byte("backend:" + r.Method + " " + r.URL.Path))
	}))
	scraperServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listingPage))
	}))
	newsServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","articles":[{"source":{"name":"Daily"},"title":"Headline","url":"https://n.example.com/1","publishedAt":"2026-10-17T08:00:00Z"}]}`))
	}))
	t.Cleanup(func() {
		backend.Close()
		scraperServer.Close()
		newsServer.Close()
	})

	cfg := config.Application{
		Server:  config.Server{Addr: ":0", AllowedOrigin: "*"},
		City:    config.City{Name: "Chandigarh", CountryCode: "IN"},
		Scraper: config.Scraper{URL: scraperServer.URL},
		News:    config.News{BaseURL: newsServer.URL, ApiKey: "news-key", Keyword: "chandigarh"},
		Backend: config.Backend{URL: backend.URL},
		Storage: config.Storage{Type: config.StorageMemory},
	}
	application, err := NewApplication(context.Background(), cfg)
	require.NoError(t, err)
	return testServer{app: application, backend: backend, scraper: scraperServer, news: newsServer}
}

// echoUpgraded switches protocols and echoes one line back.
func echoUpgraded(w http.ResponseWriter) {
	conn, brw, err := http.NewResponseController(w).Hijack()
	if err != nil {
		return
	}
	defer conn.Close()
	_, _ = brw.WriteString("HTTP/1.1 101 Switching Protocols\r\nUpgrade: websocket\r\nConnection: Upgrade\r\n\r\n")
	_ = brw.Flush()
	line, err := brw.ReadString('\n')
	if err != nil {
		return
	}
	_, _ = brw.WriteString("echo:" + line)
	_ = brw.Flush()
}

func (s testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	s.app.Handler().ServeHTTP(rr, req)
	return rr
}

func TestApplication_EventsFromScraper(t *testing.T) {
	s := setupApp(t)

	rr := s.do(t, http.MethodGet, "/api/events", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	var events []event.Event
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Rock Garden Tour", events[0].Title)
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestApplication_CreatedEventAppearsInListing(t *testing.T) {
	s := setupApp(t)

	rr := s.do(t, http.MethodPost, "/api/events", `{"title":"Meetup","date":"2026-10-25","time":"18:00","venue":"Hub"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/listing", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	var events []event.Event
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, "ae-1", events[0].ID)
	assert.Equal(t, "Meetup", events[1].Title)
	assert.True(t, events[1].Custom)
}

func TestApplication_MissingFields(t *testing.T) {
	s := setupApp(t)

	rr := s.do(t, http.MethodPost, "/api/events", `{"title":"Meetup","date":"2026-10-25","time":"18:00"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Missing required fields: venue","details":"title, date, time and venue are required"}`, rr.Body.String())
}

func TestApplication_News(t *testing.T) {
	s := setupApp(t)

	rr := s.do(t, http.MethodGet, "/api/news", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"id":0,"title":"Headline","url":"https://n.example.com/1","source":"Daily","publishedAt":"2026-10-17T08:00:00Z","image":""}]`, rr.Body.String())
}

func TestApplication_ForwardsUnknownAPIRoutes(t *testing.T) {
	s := setupApp(t)

	rr := s.do(t, http.MethodDelete, "/api/bookings/3", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "backend:DELETE /bookings/3", rr.Body.String())
}

func TestApplication_Preflight(t *testing.T) {
	s := setupApp(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/events", nil)
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()

	s.app.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestApplication_HealthAndMetrics(t *testing.T) {
	s := setupApp(t)

	rr := s.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	s.do(t, http.MethodGet, "/api/events", "")
	rr = s.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "citypulse_upstream_requests_total")
	assert.Contains(t, rr.Body.String(), "citypulse_http_requests_total")
}

func TestApplication_ClientSeesListingChanges(t *testing.T) {
	s := setupApp(t)
	server := httptest.NewServer(s.app.Handler())
	defer server.Close()
	apiClient := client.NewHTTPClient(server.URL, 5*time.Second)
	ctx := context.Background()

	// given
	created, err := apiClient.CreateEvent(ctx, event.EventDTO{Title: "Meetup", Date: "2026-10-25", Time: "18:00", Venue: "Hub"})
	require.NoError(t, err)

	// when
	events, err := apiClient.FetchEvents(ctx)

	// then
	require.NoError(t, err)
	assert.Equal(t, []string{"ae-1", created.ID}, eventIds(events))

	// when
	rr := s.do(t, http.MethodPost, "/api/admin/events/ae-1/toggle", "")
	require.Equal(t, http.StatusOK, rr.Code)
	events, err = apiClient.FetchEvents(ctx)

	// then
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, eventIds(events))
}

func TestApplication_ForwardsBareAPIPath(t *testing.T) {
	s := setupApp(t)

	rr := s.do(t, http.MethodGet, "/api", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "backend:GET /", rr.Body.String())
}

func TestApplication_ForwardsUpgradeRequests(t *testing.T) {
	s := setupApp(t)
	server := httptest.NewServer(s.app.Handler())
	defer server.Close()

	conn, err := net.Dial("tcp", server.Listener.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/ws", nil)
	require.NoError(t, err)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	require.NoError(t, req.Write(conn))

	reader := bufio.NewReader(conn)
	resp, err := http.ReadResponse(reader, req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	assert.Equal(t, "websocket", resp.Header.Get("Upgrade"))

	_, err = conn.Write([]byte("hello\n"))
	require.NoError(t, err)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "echo:hello\n", line)
}

func eventIds(events []event.Event) []string {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	return ids
}
