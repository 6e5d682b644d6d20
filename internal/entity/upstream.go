package entity

import "fmt"

// RawEvent is a single PredictHQ result as returned on the wire.
type RawEvent struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Start         string      `json:"start"`
	End           string      `json:"end"`
	Category      string      `json:"category"`
	Labels        []string    `json:"labels"`
	Location      []any       `json:"location"`
	Country       string      `json:"country"`
	Entities      []RawEntity `json:"entities"`
	PHQAttendance *int        `json:"phq_attendance"`
	Rank          *int        `json:"rank"`
}

type RawEntity struct {
	EntityID string `json:"entity_id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
}

type RawEventsResponse struct {
	Count   int        `json:"count"`
	Results []RawEvent `json:"results"`
}

// UpstreamEvent is the cleaned gateway shape handed to clients.
type UpstreamEvent struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Start         string        `json:"start"`
	End           string        `json:"end"`
	Category      string        `json:"category"`
	Labels        []string      `json:"labels"`
	Location      EventLocation `json:"location"`
	Venue         string        `json:"venue"`
	PHQAttendance *int          `json:"phq_attendance,omitempty"`
	Rank          *int          `json:"rank,omitempty"`
	Coordinates   *GeoPoint     `json:"coordinates,omitempty"`
}

type EventLocation struct {
	Address string `json:"address"`
	Country string `json:"country"`
}

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type EventsResponse struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Events  []UpstreamEvent `json:"events"`
}

// UpstreamError carries a non-success answer from PredictHQ verbatim.
type UpstreamError struct {
	StatusCode int
	StatusText string
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("predicthq responded %d %s", e.StatusCode, e.StatusText)
}
