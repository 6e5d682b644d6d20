package database

import (
	"time"

	"github.com/Mubashir-4041/event-compliance-monitor/internal/entity"
)

// EventRepository is the ordered in-memory event collection of one session.
type EventRepository interface {
	ReplaceAll(events []entity.DashboardEvent)
	Insert(event entity.DashboardEvent) entity.DashboardEvent
	SetLicensed(id int64, licensed bool) bool
	ToggleLicensed(id int64) (entity.DashboardEvent, bool)
	Get(id int64) (entity.DashboardEvent, bool)
	All() []entity.DashboardEvent
	Len() int

	// load tickets guard against out-of-order refresh completion
	BeginLoad() uint64
	CompleteLoad(ticket uint64, events []entity.DashboardEvent) bool
	Loaded() bool
}

type SessionRepository interface {
	Get(id string) (*Session, bool)
	Create() *Session
	GetOrCreate(id string) (*Session, bool)
	Remove(id string) (*Session, bool)
	RemoveIfIdle(id string, before time.Time) (*Session, bool)
	Expired(before time.Time) []*Session
	Len() int
}
