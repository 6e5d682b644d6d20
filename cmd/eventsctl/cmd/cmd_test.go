package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/Mubashir-4041/event-compliance-monitor/internal/entity"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/service"
	"github.com/Mubashir-4041/event-compliance-monitor/pkg/predicthq"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	resp *entity.EventsResponse
	err  error
	got  predicthq.Query
}

func (s *stubFetcher) FetchEvents(_ context.Context, q predicthq.Query) (*entity.EventsResponse, error) {
	s.got = q
	return s.resp, s.err
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["fetch"])
	assert.True(t, names["map"])

	for _, flag := range []string{"country", "category", "limit", "query", "status", "source"} {
		assert.NotNil(t, fetchCmd.Flags().Lookup(flag), flag)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("output"))
}

func TestFetchAndFilter(t *testing.T) {
	fetcher := &stubFetcher{resp: &entity.EventsResponse{
		Success: true,
		Count:   2,
		Events: []entity.UpstreamEvent{
			{ID: "a", Title: "Vasco Live", Start: "2025-06-01T19:30:00Z", Venue: "Stadio Olimpico"},
			{ID: "b", Title: "Jazz Night", Start: "2025-06-02T21:00:00Z", Venue: "Blue Note"},
		},
	}}
	normalizer := service.NewNormalizer(time.UTC, rand.New(rand.NewPCG(1, 2)))

	events, err := fetchAndFilter(context.Background(), fetcher, normalizer,
		predicthq.Query{Country: "IT"}, entity.EventFilter{Query: "blue"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Jazz Night", events[0].Name)
	assert.Equal(t, int64(2), events[0].ID)
	assert.Equal(t, "IT", fetcher.got.Country)
}

func TestFetchAndFilter_Error(t *testing.T) {
	fetcher := &stubFetcher{err: entity.ErrTokenNotConfigured}
	normalizer := service.NewNormalizer(time.UTC, nil)

	_, err := fetchAndFilter(context.Background(), fetcher, normalizer, predicthq.Query{}, entity.EventFilter{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrTokenNotConfigured))
}

func TestPrintEvents(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	events := []entity.DashboardEvent{
		{ID: 1, Name: "Vasco Live", Source: "PredictHQ", Licensed: true},
		{ID: 2, Name: "Jazz Night", Source: "PredictHQ", Notes: "pending review"},
	}

	var table bytes.Buffer
	require.NoError(t, printEvents(&table, events, "table"))
	assert.Contains(t, table.String(), "Vasco Live")
	assert.Contains(t, table.String(), "unlicensed")
	assert.Contains(t, table.String(), "2 events: 1 licensed, 1 unlicensed, 1 pending")

	var js bytes.Buffer
	require.NoError(t, printEvents(&js, events, "json"))
	var decoded []entity.DashboardEvent
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Len(t, decoded, 2)

	var empty bytes.Buffer
	require.NoError(t, printEvents(&empty, nil, "table"))
	assert.Equal(t, "No events found\n", empty.String())
}

func TestPrintMap(t *testing.T) {
	points := service.Project([]entity.DashboardEvent{
		{ID: 1, Name: "North", Lat: 45, Lng: 10},
		{ID: 2, Name: "South", Lat: 40, Lng: 15},
	})

	var buf bytes.Buffer
	require.NoError(t, printMap(&buf, points, "table"))
	assert.Contains(t, buf.String(), "North")
	assert.Contains(t, buf.String(), "100.0")
}
