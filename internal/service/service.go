package service

import (
	"context"
	"io"

	"github.com/Mubashir-4041/event-compliance-monitor/internal/database"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/entity"
	"github.com/Mubashir-4041/event-compliance-monitor/pkg/predicthq"
)

type DashboardService interface {
	// Загрузка
	EnsureLoaded(ctx context.Context, sess *database.Session) error
	Refresh(ctx context.Context, sess *database.Session, q predicthq.Query) (int, error)

	// Представления
	View(sess *database.Session, f entity.EventFilter) entity.DashboardView
	MapView(sess *database.Session, f entity.EventFilter) []entity.MapPoint
	GetEvent(sess *database.Session, id int64) (entity.DashboardEvent, error)

	// Действия оператора
	AddEvent(ctx context.Context, sess *database.Session, req *entity.CreateEventRequest, shot *entity.Screenshot) (entity.DashboardEvent, error)
	SetLicensed(ctx context.Context, sess *database.Session, id int64, licensed bool) (entity.DashboardEvent, error)
	ToggleLicense(ctx context.Context, sess *database.Session, id int64) (entity.DashboardEvent, error)
}

// EvidenceService keeps uploaded screenshots for the lifetime of their session.
type EvidenceService interface {
	SaveScreenshot(sess *database.Session, filename string, src io.Reader) (*entity.Screenshot, error)
	Open(sess *database.Session, name string) (io.ReadCloser, error)
	Purge(sess *database.Session) error
}
