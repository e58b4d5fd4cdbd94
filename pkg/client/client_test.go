package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/citypulse/citypulse/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_FetchEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/listing", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":"tm-1","title":"Concert","date":"2026-11-01","time":"19:00","venue":"Arena","category":"","description":"","image":"","url":"","price":""}]`))
	}))
	defer server.Close()

	events, err := NewHTTPClient(server.URL+"/", 0).FetchEvents(context.Background())

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Concert", events[0].Title)
}

func TestHTTPClient_FetchNews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/news", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":0,"title":"Headline","url":"https://n.example.com","source":"Daily","publishedAt":"2026-10-17T08:00:00Z","image":""}]`))
	}))
	defer server.Close()

	items, err := NewHTTPClient(server.URL, 0).FetchNews(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Daily", items[0].Source)
}

func TestHTTPClient_CreateEvent(t *testing.T) {
	var received event.EventDTO
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"1792324800000","title":"Meetup","date":"2026-10-25","time":"18:00","venue":"Hub","category":"","description":"","image":"","url":"","price":"","custom":true}`))
	}))
	defer server.Close()

	created, err := NewHTTPClient(server.URL, 0).CreateEvent(context.Background(),
		event.EventDTO{Title: "Meetup", Date: "2026-10-25", Time: "18:00", Venue: "Hub"})

	require.NoError(t, err)
	assert.Equal(t, "Meetup", received.Title)
	assert.Equal(t, "1792324800000", created.ID)
	assert.True(t, created.Custom)
}

func TestHTTPClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Missing required fields: venue","details":"title, date, time and venue are required"}`))
	}))
	defer server.Close()

	_, err := NewHTTPClient(server.URL, 0).CreateEvent(context.Background(), event.EventDTO{Title: "x"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Missing required fields: venue", apiErr.Message)
	assert.Equal(t, "title, date, time and venue are required", apiErr.Details)
}

func TestHTTPClient_APIErrorWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewHTTPClient(server.URL, 0).FetchEvents(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Service Unavailable", apiErr.Message)
}
