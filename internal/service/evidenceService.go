package service

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/Mubashir-4041/event-compliance-monitor/internal/database"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/entity"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/pkg/processor"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/pkg/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const ScreenshotURLPrefix = "/screenshots/"

type evidenceService struct {
	storage   storage.FileStorage
	processor processor.ScreenshotProcessor
}

func NewEvidenceService(storage storage.FileStorage, processor processor.ScreenshotProcessor) EvidenceService {
	return &evidenceService{
		storage:   storage,
		processor: processor,
	}
}

// SaveScreenshot stores the original upload and its thumbnail under the session's directory.
func (s *evidenceService) SaveScreenshot(sess *database.Session, filename string, src io.Reader) (*entity.Screenshot, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, err := processor.FormatFromExt(ext); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidScreenshot, err)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read screenshot: %w", err)
	}

	thumb, err := s.processor.Thumbnail(bytes.NewReader(data), ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidScreenshot, err)
	}

	id := uuid.New().String()
	original := id + ext
	thumbnail := id + "_thumb" + ext

	if err := s.storage.Save(path.Join(sess.ID, original), bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to save screenshot: %w", err)
	}
	if err := s.storage.Save(path.Join(sess.ID, thumbnail), thumb); err != nil {
		if delErr := s.storage.Delete(path.Join(sess.ID, original)); delErr != nil {
			logrus.WithField("session", sess.ID).Warnf("Failed to remove screenshot %s: %v", original, delErr)
		}
		return nil, fmt.Errorf("failed to save thumbnail: %w", err)
	}
	sess.AddScreenshot(original)
	sess.AddScreenshot(thumbnail)

	logrus.WithFields(logrus.Fields{
		"session": sess.ID,
		"file":    original,
		"bytes":   len(data),
	}).Info("Screenshot stored")

	return &entity.Screenshot{
		URL:          ScreenshotURLPrefix + original,
		ThumbnailURL: ScreenshotURLPrefix + thumbnail,
	}, nil
}

// Open only serves files uploaded in the same session.
func (s *evidenceService) Open(sess *database.Session, name string) (io.ReadCloser, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || !sess.OwnsScreenshot(name) {
		return nil, entity.ErrScreenshotNotFound
	}
	return s.storage.Get(path.Join(sess.ID, name))
}

// Purge removes the session's whole upload directory, including any file
// left behind by a partially failed upload.
func (s *evidenceService) Purge(sess *database.Session) error {
	if len(sess.Screenshots()) == 0 && !s.storage.Exists(sess.ID) {
		return nil
	}
	return s.storage.DeleteDir(sess.ID)
}
