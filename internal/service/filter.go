package service

import (
	"strings"

	"github.com/Mubashir-4041/event-compliance-monitor/internal/entity"
)

// Filter returns, in input order, the events matching the text query and both facets.
// The input slice is never modified.
func Filter(events []entity.DashboardEvent, f entity.EventFilter) []entity.DashboardEvent {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	status := entity.ParseStatusFilter(string(f.Status))
	source := strings.TrimSpace(f.Source)

	out := make([]entity.DashboardEvent, 0, len(events))
	for _, ev := range events {
		if !matchesStatus(ev, status) {
			continue
		}
		if source != "" && source != entity.SourceAll && ev.Source != source {
			continue
		}
		if query != "" && !matchesText(ev, query) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func matchesStatus(ev entity.DashboardEvent, status entity.StatusFilter) bool {
	switch status {
	case entity.StatusLicensed:
		return ev.Licensed
	case entity.StatusUnlicensed:
		return !ev.Licensed
	default:
		return true
	}
}

// query must already be lower-cased
func matchesText(ev entity.DashboardEvent, query string) bool {
	for _, field := range []string{ev.Name, ev.Venue, ev.Source, ev.Address, ev.Inspector} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Sources lists distinct sources in first-seen order, for the source facet.
func Sources(events []entity.DashboardEvent) []string {
	seen := make(map[string]struct{}, len(events))
	out := make([]string, 0)
	for _, ev := range events {
		if _, ok := seen[ev.Source]; ok {
			continue
		}
		seen[ev.Source] = struct{}{}
		out = append(out, ev.Source)
	}
	return out
}

// Stats counts an event set; pending means unlicensed with "pending" in the notes.
func Stats(events []entity.DashboardEvent) entity.EventStats {
	stats := entity.EventStats{Total: len(events)}
	for _, ev := range events {
		if ev.Licensed {
			stats.Licensed++
			continue
		}
		stats.Unlicensed++
		if strings.Contains(strings.ToLower(ev.Notes), "pending") {
			stats.Pending++
		}
	}
	return stats
}
