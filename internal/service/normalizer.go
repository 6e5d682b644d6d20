package service

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Mubashir-4041/event-compliance-monitor/internal/entity"
)

// Reference point used when an event carries no coordinate of its own.
// Imported events are scattered up to ±ImportJitter degrees around it;
// this is a placeholder, not a geocoding result.
const (
	ReferenceLat = 42.665
	ReferenceLng = 14.008

	ImportJitter = 5.0
	ManualJitter = 0.01
)

// Normalizer turns gateway records into dashboard events.
type Normalizer struct {
	loc *time.Location

	mu  sync.Mutex
	rng *rand.Rand
}

func NewNormalizer(loc *time.Location, rng *rand.Rand) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	}
	return &Normalizer{loc: loc, rng: rng}
}

// Normalize never fails: missing optional fields degrade to defaults.
func (n *Normalizer) Normalize(rec entity.UpstreamEvent, index int) entity.DashboardEvent {
	date, clock := n.splitStart(rec.Start)

	ev := entity.DashboardEvent{
		ID:        int64(index) + 1,
		Name:      rec.Title,
		Date:      date,
		Time:      clock,
		Venue:     rec.Venue,
		Licensed:  false,
		Source:    entity.SourcePredictHQ,
		Address:   rec.Location.Address,
		Inspector: entity.InspectorAutoImported,
		Notes:     rec.Description,
	}
	if rec.PHQAttendance != nil && *rec.PHQAttendance > 0 {
		ev.Capacity = *rec.PHQAttendance
	}
	if rec.Coordinates != nil {
		ev.Lat, ev.Lng = rec.Coordinates.Lat, rec.Coordinates.Lng
	} else {
		ev.Lat, ev.Lng = n.Jitter(ImportJitter)
	}
	return ev
}

func (n *Normalizer) NormalizeAll(recs []entity.UpstreamEvent) []entity.DashboardEvent {
	out := make([]entity.DashboardEvent, 0, len(recs))
	for i, rec := range recs {
		out = append(out, n.Normalize(rec, i))
	}
	return out
}

// Jitter returns the reference point moved uniformly by up to ±spread degrees per axis.
func (n *Normalizer) Jitter(spread float64) (lat, lng float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	lat = ReferenceLat + (n.rng.Float64()*2-1)*spread
	lng = ReferenceLng + (n.rng.Float64()*2-1)*spread
	return lat, lng
}

var startLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func (n *Normalizer) splitStart(start string) (string, string) {
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, start); err == nil {
			t = t.In(n.loc)
			return t.Format(time.DateOnly), t.Format("15:04")
		}
	}
	if len(start) >= 10 {
		if _, err := time.Parse(time.DateOnly, start[:10]); err == nil {
			return start[:10], "00:00"
		}
	}
	return "", "00:00"
}
