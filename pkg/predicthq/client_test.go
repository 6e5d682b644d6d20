package predicthq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Mubashir-4041/event-compliance-monitor/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpstream(t *testing.T, status int, body string, check func(r *http.Request)) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetchEvents_MissingToken(t *testing.T) {
	srv, hits := newUpstream(t, http.StatusOK, `{"results":[]}`, nil)

	c := NewClient(srv.URL, "   ", time.Second)
	resp, err := c.FetchEvents(context.Background(), Query{})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, entity.ErrTokenNotConfigured)
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestFetchEvents_RequestShape(t *testing.T) {
	tests := []struct {
		name     string
		query    Query
		country  string
		category string
		limit    string
	}{
		{name: "defaults", query: Query{}, country: "IT", category: "concerts", limit: "10"},
		{name: "overrides", query: Query{Country: "FR", Category: "festivals", Limit: "25"}, country: "FR", category: "festivals", limit: "25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newUpstream(t, http.StatusOK, `{"count":0,"results":[]}`, func(r *http.Request) {
				assert.Equal(t, "/v1/events", r.URL.Path)
				assert.Equal(t, tt.country, r.URL.Query().Get("country"))
				assert.Equal(t, tt.category, r.URL.Query().Get("category"))
				assert.Equal(t, tt.limit, r.URL.Query().Get("limit"))
				assert.Equal(t, "start", r.URL.Query().Get("sort"))
				assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
				assert.Equal(t, "application/json", r.Header.Get("Accept"))
			})

			c := NewClient(srv.URL, "secret", time.Second)
			_, err := c.FetchEvents(context.Background(), tt.query)
			require.NoError(t, err)
		})
	}
}

func TestFetchEvents_EmptyResults(t *testing.T) {
	bodies := map[string]string{
		"absent key": `{"count":0}`,
		"null list":  `{"results":null}`,
		"empty list": `{"results":[]}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv, _ := newUpstream(t, http.StatusOK, body, nil)
			c := NewClient(srv.URL, "secret", time.Second)

			resp, err := c.FetchEvents(context.Background(), Query{})
			require.NoError(t, err)
			assert.True(t, resp.Success)
			assert.Equal(t, 0, resp.Count)
			require.NotNil(t, resp.Events)
			assert.Empty(t, resp.Events)

			out, err := json.Marshal(resp)
			require.NoError(t, err)
			assert.JSONEq(t, `{"success":true,"count":0,"events":[]}`, string(out))
		})
	}
}

func TestFetchEvents_MapsRecords(t *testing.T) {
	body := `{"count":3,"results":[
		{"id":"a","title":"Vasco Live","description":"Stadium tour","start":"2025-06-01T19:30:00Z","end":"2025-06-01T23:00:00Z",
		 "category":"concerts","labels":["music"],"location":[12.4964,41.9028],"country":"IT",
		 "entities":[{"entity_id":"x","name":"Rome Promoter","type":"organization"},{"entity_id":"v1","name":"Stadio Olimpico","type":"venue"}],
		 "phq_attendance":45000,"rank":80},
		{"id":"b","title":"Jazz Night","start":"2025-06-02T21:00:00Z","category":"concerts","country":"IT",
		 "entities":[{"name":"Blue Note Milano","type":"venue"}]},
		{"id":"c","title":"Open Air","start":"2025-06-03T18:00:00Z","category":"concerts","country":"IT","location":[],"entities":[]}
	]}`
	srv, _ := newUpstream(t, http.StatusOK, body, nil)
	c := NewClient(srv.URL, "secret", time.Second)

	resp, err := c.FetchEvents(context.Background(), Query{})
	require.NoError(t, err)
	require.Equal(t, 3, resp.Count)
	require.Len(t, resp.Events, 3)

	first := resp.Events[0]
	assert.Equal(t, "a", first.ID)
	assert.Equal(t, "Stadio Olimpico", first.Venue)
	assert.Equal(t, "12.4964, 41.9028", first.Location.Address)
	assert.Equal(t, "IT", first.Location.Country)
	assert.Equal(t, []string{"music"}, first.Labels)
	require.NotNil(t, first.PHQAttendance)
	assert.Equal(t, 45000, *first.PHQAttendance)
	require.NotNil(t, first.Coordinates)
	assert.InDelta(t, 41.9028, first.Coordinates.Lat, 1e-9)
	assert.InDelta(t, 12.4964, first.Coordinates.Lng, 1e-9)

	second := resp.Events[1]
	assert.Equal(t, "Blue Note Milano", second.Venue)
	assert.Equal(t, "No description available", second.Description)
	assert.Equal(t, "Location not specified", second.Location.Address)
	assert.Equal(t, []string{}, second.Labels)
	assert.Nil(t, second.PHQAttendance)
	assert.Nil(t, second.Rank)
	assert.Nil(t, second.Coordinates)

	third := resp.Events[2]
	assert.Equal(t, "Venue not specified", third.Venue)
	assert.Equal(t, "Location not specified", third.Location.Address)
}

func TestFetchEvents_UpstreamError(t *testing.T) {
	srv, hits := newUpstream(t, http.StatusTooManyRequests, `{"error":"rate limited"}`, nil)
	c := NewClient(srv.URL, "secret", time.Second)

	resp, err := c.FetchEvents(context.Background(), Query{})
	assert.Nil(t, resp)

	var upErr *entity.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusTooManyRequests, upErr.StatusCode)
	assert.Equal(t, "Too Many Requests", upErr.StatusText)
	assert.Equal(t, `{"error":"rate limited"}`, upErr.Body)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits), "no retry on upstream failure")
}

func TestFetchEvents_MalformedJSON(t *testing.T) {
	srv, _ := newUpstream(t, http.StatusOK, `{"results":[`, nil)
	c := NewClient(srv.URL, "secret", time.Second)

	_, err := c.FetchEvents(context.Background(), Query{})
	require.Error(t, err)

	var upErr *entity.UpstreamError
	assert.False(t, errors.As(err, &upErr))
	assert.NotErrorIs(t, err, entity.ErrTokenNotConfigured)
}

func TestFetchEvents_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, "secret", time.Second)
	_, err := c.FetchEvents(context.Background(), Query{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "predicthq request failed")
}

func TestClean_VenueWithoutName(t *testing.T) {
	ev := Clean(entity.RawEvent{
		ID:       "z",
		Entities: []entity.RawEntity{{Type: "venue"}, {Type: "venue", Name: "Second"}},
	})
	assert.Equal(t, "Venue not specified", ev.Venue)
}
