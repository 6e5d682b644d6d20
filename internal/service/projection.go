package service

import (
	"math"

	"github.com/Mubashir-4041/event-compliance-monitor/internal/entity"
)

// Project places events on a 0-100 plane by linear interpolation over their
// bounding box, north up. A collapsed axis maps to the centre (50).
func Project(events []entity.DashboardEvent) []entity.MapPoint {
	points := make([]entity.MapPoint, 0, len(events))
	if len(events) == 0 {
		return points
	}

	minLat, maxLat := math.Inf(1), math.Inf(-1)
	minLng, maxLng := math.Inf(1), math.Inf(-1)
	for _, ev := range events {
		minLat = math.Min(minLat, ev.Lat)
		maxLat = math.Max(maxLat, ev.Lat)
		minLng = math.Min(minLng, ev.Lng)
		maxLng = math.Max(maxLng, ev.Lng)
	}

	for _, ev := range events {
		points = append(points, entity.MapPoint{
			Event: ev,
			X:     scale(ev.Lng-minLng, maxLng-minLng),
			Y:     scale(maxLat-ev.Lat, maxLat-minLat),
		})
	}
	return points
}

func scale(offset, span float64) float64 {
	if span == 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return 50
	}
	v := offset / span * 100
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 50
	}
	return v
}
