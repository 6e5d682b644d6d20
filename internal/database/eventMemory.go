package database

import (
	"sync"

	"github.com/Mubashir-4041/event-compliance-monitor/internal/entity"
)

type eventMemory struct {
	mu     sync.RWMutex
	events []entity.DashboardEvent
	ticket uint64
	loaded bool
}

func NewEventRepository() EventRepository {
	return &eventMemory{events: make([]entity.DashboardEvent, 0)}
}

// ReplaceAll discards everything held before, manual additions and license
// changes included.
func (r *eventMemory) ReplaceAll(events []entity.DashboardEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replace(events)
}

func (r *eventMemory) replace(events []entity.DashboardEvent) {
	r.events = make([]entity.DashboardEvent, len(events))
	copy(r.events, events)
	r.loaded = true
}

// Insert assigns max(existing ids, 0)+1 and prepends.
func (r *eventMemory) Insert(event entity.DashboardEvent) entity.DashboardEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	var maxID int64
	for _, ev := range r.events {
		if ev.ID > maxID {
			maxID = ev.ID
		}
	}
	event.ID = maxID + 1

	r.events = append([]entity.DashboardEvent{event}, r.events...)
	return event
}

func (r *eventMemory) SetLicensed(id int64, licensed bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	r.events[i].Licensed = licensed
	return true
}

func (r *eventMemory) ToggleLicensed(id int64) (entity.DashboardEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return entity.DashboardEvent{}, false
	}
	r.events[i].Licensed = !r.events[i].Licensed
	return r.events[i], true
}

func (r *eventMemory) Get(id int64) (entity.DashboardEvent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return entity.DashboardEvent{}, false
	}
	return r.events[i], true
}

// All returns a snapshot; callers may not write through it.
func (r *eventMemory) All() []entity.DashboardEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.DashboardEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *eventMemory) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}

func (r *eventMemory) BeginLoad() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticket++
	return r.ticket
}

// CompleteLoad applies events only if no newer load was begun since ticket was issued.
func (r *eventMemory) CompleteLoad(ticket uint64, events []entity.DashboardEvent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ticket != r.ticket {
		return false
	}
	r.replace(events)
	return true
}

func (r *eventMemory) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

func (r *eventMemory) indexOf(id int64) int {
	for i := range r.events {
		if r.events[i].ID == id {
			return i
		}
	}
	return -1
}
