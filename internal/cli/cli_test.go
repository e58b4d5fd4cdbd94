package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/citypulse/citypulse/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/listing":
			_, _ = w.Write([]byte(`[{"id":"tm-1","title":"Concert","date":"2026-11-01","time":"19:00","venue":"Arena","category":"","description":"","image":"","url":"","price":"999 INR"}]`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/news":
			_, _ = w.Write([]byte(`[{"id":0,"title":"Headline","url":"https://n.example.com/1","source":"Daily","publishedAt":"","image":""}]`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/events":
			var dto event.EventDTO
			_ = json.NewDecoder(r.Body).Decode(&dto)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(event.Event{ID: "1792324800000", Title: dto.Title, Custom: true})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEventsCommand_Text(t *testing.T) {
	server := newTestServer(t)

	out, err := execute(t, "events", "--server", server.URL)

	require.NoError(t, err)
	assert.Contains(t, out, "• Concert")
	assert.Contains(t, out, "2026-11-01 19:00")
	assert.Contains(t, out, "Arena")
	assert.Contains(t, out, "999 INR")
}

func TestEventsCommand_JSON(t *testing.T) {
	server := newTestServer(t)

	out, err := execute(t, "events", "--server", server.URL, "--format", "json")

	require.NoError(t, err)
	var events []event.Event
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "tm-1", events[0].ID)
}

func TestNewsCommand(t *testing.T) {
	server := newTestServer(t)

	out, err := execute(t, "news", "--server", server.URL)

	require.NoError(t, err)
	assert.Contains(t, out, "• Headline (Daily)")
}

func TestAddCommand(t *testing.T) {
	server := newTestServer(t)

	out, err := execute(t, "add", "--server", server.URL,
		"--title", "Meetup", "--date", "2026-10-25", "--time", "18:00", "--venue", "Hub")

	require.NoError(t, err)
	assert.Contains(t, out, "Created event 1792324800000: Meetup")
}

func TestAddCommand_MissingFlags(t *testing.T) {
	server := newTestServer(t)

	_, err := execute(t, "add", "--server", server.URL, "--title", "Meetup")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "date, time, venue")
}

func TestInvalidFormat(t *testing.T) {
	server := newTestServer(t)

	_, err := execute(t, "news", "--server", server.URL, "--format", "xml")

	assert.Error(t, err)
}

func TestFormatEvents_Empty(t *testing.T) {
	var out bytes.Buffer
	FormatEvents(&out, nil)
	assert.Equal(t, "No events found.\n", out.String())
}
