package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mubashir-4041/event-compliance-monitor/internal/database"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/entity"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/metrics"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/pkg/kafka"
	"github.com/Mubashir-4041/event-compliance-monitor/pkg/predicthq"

	"github.com/sirupsen/logrus"
)

type dashboardService struct {
	gateway    predicthq.Fetcher
	normalizer *Normalizer
	audit      kafka.Producer
	defaults   predicthq.Query
}

func NewDashboardService(
	gateway predicthq.Fetcher,
	normalizer *Normalizer,
	audit kafka.Producer,
	defaults predicthq.Query,
) DashboardService {
	if audit == nil {
		audit = kafka.NewMockProducer()
	}
	return &dashboardService{
		gateway:    gateway,
		normalizer: normalizer,
		audit:      audit,
		defaults:   defaults,
	}
}

// EnsureLoaded performs the initial load of a session that has never been loaded.
// When a concurrent load of the same session wins the race, EnsureLoaded waits
// for it and reports the store's state afterwards rather than success.
func (s *dashboardService) EnsureLoaded(ctx context.Context, sess *database.Session) error {
	for !sess.Events.Loaded() {
		_, err := s.Refresh(ctx, sess, predicthq.Query{})
		if !errors.Is(err, entity.ErrLoadSuperseded) {
			return err
		}
		if err := sess.WaitLoad(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Refresh replaces the session's events with a fresh import. A refresh that
// is overtaken by a newer one on the same session is cancelled and its
// result dropped.
func (s *dashboardService) Refresh(ctx context.Context, sess *database.Session, q predicthq.Query) (int, error) {
	loadCtx, ticket, finish := sess.StartLoad(ctx)
	defer finish()

	resp, err := s.gateway.FetchEvents(loadCtx, q.Merge(s.defaults))
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			metrics.StaleLoads.Inc()
			return 0, entity.ErrLoadSuperseded
		}
		return 0, err
	}

	events := s.normalizer.NormalizeAll(resp.Events)
	if !sess.Events.CompleteLoad(ticket, events) {
		metrics.StaleLoads.Inc()
		logrus.WithField("session", sess.ID).Info("Discarded stale refresh result")
		return 0, entity.ErrLoadSuperseded
	}

	metrics.EventsImported.Add(float64(len(events)))
	logrus.WithFields(logrus.Fields{
		"session": sess.ID,
		"count":   len(events),
	}).Info("Dashboard refreshed")

	s.publish(ctx, entity.AuditRecord{
		SessionID: sess.ID,
		Action:    entity.AuditRefresh,
		Count:     len(events),
		At:        time.Now(),
	})
	return len(events), nil
}

func (s *dashboardService) View(sess *database.Session, f entity.EventFilter) entity.DashboardView {
	all := sess.Events.All()
	f.Status = entity.ParseStatusFilter(string(f.Status))
	if f.Source == "" {
		f.Source = entity.SourceAll
	}

	filtered := Filter(all, f)
	return entity.DashboardView{
		Events:  filtered,
		Sources: Sources(all),
		Stats:   Stats(filtered),
		Filter:  f,
		Total:   len(all),
	}
}

func (s *dashboardService) MapView(sess *database.Session, f entity.EventFilter) []entity.MapPoint {
	return Project(Filter(sess.Events.All(), f))
}

func (s *dashboardService) GetEvent(sess *database.Session, id int64) (entity.DashboardEvent, error) {
	ev, ok := sess.Events.Get(id)
	if !ok {
		return entity.DashboardEvent{}, entity.ErrEventNotFound
	}
	return ev, nil
}

func (s *dashboardService) AddEvent(ctx context.Context, sess *database.Session, req *entity.CreateEventRequest, shot *entity.Screenshot) (entity.DashboardEvent, error) {
	if err := ValidateCreate(req); err != nil {
		return entity.DashboardEvent{}, err
	}

	ev := entity.DashboardEvent{
		Name:      strings.TrimSpace(req.Name),
		Date:      strings.TrimSpace(req.Date),
		Time:      strings.TrimSpace(req.Time),
		Venue:     strings.TrimSpace(req.Venue),
		Licensed:  req.Licensed,
		Source:    strings.TrimSpace(req.Source),
		Address:   strings.TrimSpace(req.Address),
		Capacity:  req.Capacity,
		Inspector: strings.TrimSpace(req.Inspector),
		Notes:     strings.TrimSpace(req.Notes),
	}
	if ev.Source == "" {
		ev.Source = entity.SourceManual
	}
	if ev.Inspector == "" {
		ev.Inspector = entity.InspectorUnassigned
	}
	if req.Lat != nil && req.Lng != nil {
		ev.Lat, ev.Lng = *req.Lat, *req.Lng
	} else {
		ev.Lat, ev.Lng = s.normalizer.Jitter(ManualJitter)
	}
	if shot != nil {
		url, thumb := shot.URL, shot.ThumbnailURL
		ev.Screenshot = &url
		if thumb != "" {
			ev.Thumbnail = &thumb
		}
	}

	ev = sess.Events.Insert(ev)
	metrics.EventsAdded.Inc()

	logrus.WithFields(logrus.Fields{
		"session":  sess.ID,
		"event_id": ev.ID,
		"source":   ev.Source,
	}).Info("Event added")

	licensed := ev.Licensed
	s.publish(ctx, entity.AuditRecord{
		SessionID: sess.ID,
		Action:    entity.AuditEventAdded,
		EventID:   ev.ID,
		Licensed:  &licensed,
		At:        time.Now(),
	})
	return ev, nil
}

func (s *dashboardService) SetLicensed(ctx context.Context, sess *database.Session, id int64, licensed bool) (entity.DashboardEvent, error) {
	if !sess.Events.SetLicensed(id, licensed) {
		return entity.DashboardEvent{}, entity.ErrEventNotFound
	}
	ev, _ := sess.Events.Get(id)
	s.licenseChanged(ctx, sess, ev)
	return ev, nil
}

func (s *dashboardService) ToggleLicense(ctx context.Context, sess *database.Session, id int64) (entity.DashboardEvent, error) {
	ev, ok := sess.Events.ToggleLicensed(id)
	if !ok {
		return entity.DashboardEvent{}, entity.ErrEventNotFound
	}
	s.licenseChanged(ctx, sess, ev)
	return ev, nil
}

func (s *dashboardService) licenseChanged(ctx context.Context, sess *database.Session, ev entity.DashboardEvent) {
	metrics.LicenseChanges.WithLabelValues(fmt.Sprint(ev.Licensed)).Inc()
	logrus.WithFields(logrus.Fields{
		"session":  sess.ID,
		"event_id": ev.ID,
		"licensed": ev.Licensed,
	}).Info("License status changed")

	licensed := ev.Licensed
	s.publish(ctx, entity.AuditRecord{
		SessionID: sess.ID,
		Action:    entity.AuditLicenseSet,
		EventID:   ev.ID,
		Licensed:  &licensed,
		At:        time.Now(),
	})
}

// publish never fails the operator action; a lost audit record is logged.
func (s *dashboardService) publish(ctx context.Context, rec entity.AuditRecord) {
	if err := s.audit.SendMessage(ctx, rec.SessionID, rec); err != nil {
		logrus.WithFields(logrus.Fields{
			"session": rec.SessionID,
			"action":  rec.Action,
		}).Warnf("Failed to publish audit record: %v", err)
	}
}

// ValidateCreate checks an add-event submission before anything is stored.
func ValidateCreate(req *entity.CreateEventRequest) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", entity.ErrInvalidInput)
	}
	required := map[string]string{
		"name":  req.Name,
		"venue": req.Venue,
		"date":  req.Date,
		"time":  req.Time,
	}
	for _, field := range []string{"name", "venue", "date", "time"} {
		if strings.TrimSpace(required[field]) == "" {
			return fmt.Errorf("%w: %s is required", entity.ErrInvalidInput, field)
		}
	}
	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(req.Date)); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", entity.ErrInvalidInput)
	}
	if _, err := time.Parse("15:04", strings.TrimSpace(req.Time)); err != nil {
		return fmt.Errorf("%w: time must be HH:MM", entity.ErrInvalidInput)
	}
	if req.Capacity < 0 {
		return fmt.Errorf("%w: capacity must not be negative", entity.ErrInvalidInput)
	}
	if (req.Lat == nil) != (req.Lng == nil) {
		return fmt.Errorf("%w: lat and lng must be given together", entity.ErrInvalidInput)
	}
	if req.Lat != nil && (*req.Lat < -90 || *req.Lat > 90 || *req.Lng < -180 || *req.Lng > 180) {
		return fmt.Errorf("%w: coordinates out of range", entity.ErrInvalidInput)
	}
	return nil
}
