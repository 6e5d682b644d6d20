package predicthq

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Mubashir-4041/event-compliance-monitor/internal/entity"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/metrics"

	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL  = "https://api.predicthq.com"
	DefaultCountry  = "IT"
	DefaultCategory = "concerts"
	DefaultLimit    = "10"

	noDescription = "No description available"
	noLocation    = "Location not specified"
	noVenue       = "Venue not specified"
)

// Query selects which events are requested; empty fields take the defaults.
type Query struct {
	Country  string
	Category string
	Limit    string
}

func (q Query) withDefaults() Query {
	return q.Merge(Query{Country: DefaultCountry, Category: DefaultCategory, Limit: DefaultLimit})
}

// Merge fills q's empty fields from defaults.
func (q Query) Merge(defaults Query) Query {
	if strings.TrimSpace(q.Country) == "" {
		q.Country = defaults.Country
	}
	if strings.TrimSpace(q.Category) == "" {
		q.Category = defaults.Category
	}
	if strings.TrimSpace(q.Limit) == "" {
		q.Limit = defaults.Limit
	}
	return q
}

// Fetcher is the gateway contract consumed by the dashboard service.
type Fetcher interface {
	FetchEvents(ctx context.Context, q Query) (*entity.EventsResponse, error)
}

type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   strings.TrimSpace(token),
		client:  &http.Client{Timeout: timeout, Transport: tr},
	}
}

// FetchEvents issues one authenticated request and reshapes the result list.
// A missing token fails with entity.ErrTokenNotConfigured before any network
// call; a non-2xx answer is returned as *entity.UpstreamError.
func (c *Client) FetchEvents(ctx context.Context, q Query) (*entity.EventsResponse, error) {
	if c.token == "" {
		metrics.GatewayRequests.WithLabelValues("not_configured").Inc()
		return nil, entity.ErrTokenNotConfigured
	}
	q = q.withDefaults()

	params := url.Values{}
	params.Set("country", q.Country)
	params.Set("category", q.Category)
	params.Set("limit", q.Limit)
	params.Set("sort", "start")
	endpoint := c.baseURL + "/v1/events?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build predicthq request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	logrus.WithField("url", endpoint).Debug("Fetching events from PredictHQ")

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GatewayRequests.WithLabelValues("transport_error").Inc()
		return nil, fmt.Errorf("predicthq request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.GatewayRequests.WithLabelValues("transport_error").Inc()
		return nil, fmt.Errorf("failed to read predicthq response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.GatewayRequests.WithLabelValues("upstream_error").Inc()
		logrus.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(body),
		}).Error("PredictHQ API error")
		return nil, &entity.UpstreamError{
			StatusCode: resp.StatusCode,
			StatusText: statusText(resp),
			Body:       string(body),
		}
	}

	var raw entity.RawEventsResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		metrics.GatewayRequests.WithLabelValues("parse_error").Inc()
		return nil, fmt.Errorf("failed to decode predicthq response: %w", err)
	}

	events := make([]entity.UpstreamEvent, 0, len(raw.Results))
	for _, r := range raw.Results {
		events = append(events, Clean(r))
	}

	metrics.GatewayRequests.WithLabelValues("ok").Inc()
	logrus.WithField("count", len(events)).Info("Fetched events from PredictHQ")

	return &entity.EventsResponse{
		Success: true,
		Count:   len(events),
		Events:  events,
	}, nil
}

// Clean maps a raw PredictHQ result onto the gateway shape.
func Clean(r entity.RawEvent) entity.UpstreamEvent {
	ev := entity.UpstreamEvent{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		Start:         r.Start,
		End:           r.End,
		Category:      r.Category,
		Labels:        r.Labels,
		Venue:         noVenue,
		PHQAttendance: r.PHQAttendance,
		Rank:          r.Rank,
		Location: entity.EventLocation{
			Address: noLocation,
			Country: r.Country,
		},
	}
	if ev.Description == "" {
		ev.Description = noDescription
	}
	if ev.Labels == nil {
		ev.Labels = []string{}
	}
	if len(r.Location) > 0 {
		parts := make([]string, 0, len(r.Location))
		for _, p := range r.Location {
			parts = append(parts, locationPart(p))
		}
		ev.Location.Address = strings.Join(parts, ", ")
	}
	ev.Coordinates = coordinates(r.Location)

	for _, e := range r.Entities {
		if e.Type == "venue" {
			if e.Name != "" {
				ev.Venue = e.Name
			}
			break
		}
	}
	return ev
}

func locationPart(p any) string {
	switch v := p.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// PredictHQ encodes location as [lng, lat].
func coordinates(loc []any) *entity.GeoPoint {
	if len(loc) != 2 {
		return nil
	}
	lng, ok1 := loc[0].(float64)
	lat, ok2 := loc[1].(float64)
	if !ok1 || !ok2 || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil
	}
	return &entity.GeoPoint{Lat: lat, Lng: lng}
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
