package entity

import (
	"strings"
	"time"
)

type StatusFilter string

const (
	StatusAll        StatusFilter = "all"
	StatusLicensed   StatusFilter = "licensed"
	StatusUnlicensed StatusFilter = "unlicensed"

	SourceAll = "all"
)

// ParseStatusFilter maps empty or unknown values to StatusAll.
func ParseStatusFilter(s string) StatusFilter {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case StatusLicensed:
		return StatusLicensed
	case StatusUnlicensed:
		return StatusUnlicensed
	default:
		return StatusAll
	}
}

type EventFilter struct {
	Query  string       `json:"query" form:"q"`
	Status StatusFilter `json:"status" form:"status"`
	Source string       `json:"source" form:"source"`
}

type EventStats struct {
	Total      int `json:"total"`
	Licensed   int `json:"licensed"`
	Unlicensed int `json:"unlicensed"`
	Pending    int `json:"pending"`
}

type DashboardView struct {
	Events  []DashboardEvent `json:"events"`
	Sources []string         `json:"sources"`
	Stats   EventStats       `json:"stats"`
	Filter  EventFilter      `json:"filter"`
	Total   int              `json:"total"`
}

// MapPoint positions an event on a 0-100 percent plane, y growing southwards.
type MapPoint struct {
	Event DashboardEvent `json:"event"`
	X     float64        `json:"x"`
	Y     float64        `json:"y"`
}

type AuditAction string

const (
	AuditRefresh    AuditAction = "refresh"
	AuditEventAdded AuditAction = "event_added"
	AuditLicenseSet AuditAction = "license_set"
)

// AuditRecord is published for every operator-visible change to a session's events.
type AuditRecord struct {
	SessionID string      `json:"session_id"`
	Action    AuditAction `json:"action"`
	EventID   int64       `json:"event_id,omitempty"`
	Licensed  *bool       `json:"licensed,omitempty"`
	Count     int         `json:"count,omitempty"`
	At        time.Time   `json:"at"`
}
