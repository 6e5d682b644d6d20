package service

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Mubashir-4041/event-compliance-monitor/internal/entity"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/pkg/processor"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 80, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestEvidence(t *testing.T) (EvidenceService, storage.FileStorage) {
	t.Helper()
	fs := storage.NewFileStorage(t.TempDir())
	return NewEvidenceService(fs, processor.NewScreenshotProcessor()), fs
}

func TestEvidence_SaveAndOpen(t *testing.T) {
	svc, fs := newTestEvidence(t)
	sess := newSession()
	data := pngBytes(t, 640, 400)

	shot, err := svc.SaveScreenshot(sess, "Permit.PNG", bytes.NewReader(data))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(shot.URL, ScreenshotURLPrefix))
	require.True(t, strings.HasSuffix(shot.ThumbnailURL, "_thumb.png"))

	name := strings.TrimPrefix(shot.URL, ScreenshotURLPrefix)
	assert.True(t, fs.Exists(path.Join(sess.ID, name)))

	rc, err := svc.Open(sess, name)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	thumbName := strings.TrimPrefix(shot.ThumbnailURL, ScreenshotURLPrefix)
	trc, err := svc.Open(sess, thumbName)
	require.NoError(t, err)
	defer trc.Close()
	thumb, _, err := image.Decode(trc)
	require.NoError(t, err)
	assert.Equal(t, 320, thumb.Bounds().Dx())
	assert.Equal(t, 200, thumb.Bounds().Dy())
}

func TestEvidence_OtherSessionCannotOpen(t *testing.T) {
	svc, _ := newTestEvidence(t)
	owner := newSession()
	other := newSession()

	shot, err := svc.SaveScreenshot(owner, "a.png", bytes.NewReader(pngBytes(t, 10, 10)))
	require.NoError(t, err)
	name := strings.TrimPrefix(shot.URL, ScreenshotURLPrefix)

	_, err = svc.Open(other, name)
	assert.ErrorIs(t, err, entity.ErrScreenshotNotFound)

	_, err = svc.Open(owner, "../"+owner.ID+"/"+name)
	assert.ErrorIs(t, err, entity.ErrScreenshotNotFound)

	_, err = svc.Open(owner, "")
	assert.ErrorIs(t, err, entity.ErrScreenshotNotFound)
}

func TestEvidence_RejectsInvalidUploads(t *testing.T) {
	svc, _ := newTestEvidence(t)
	sess := newSession()

	_, err := svc.SaveScreenshot(sess, "notes.txt", strings.NewReader("hello"))
	assert.ErrorIs(t, err, entity.ErrInvalidScreenshot)

	_, err = svc.SaveScreenshot(sess, "fake.png", strings.NewReader("not an image"))
	assert.ErrorIs(t, err, entity.ErrInvalidScreenshot)

	assert.Empty(t, sess.Screenshots())
}

func TestEvidence_Purge(t *testing.T) {
	svc, fs := newTestEvidence(t)
	sess := newSession()

	require.NoError(t, svc.Purge(sess), "nothing uploaded")

	_, err := svc.SaveScreenshot(sess, "a.png", bytes.NewReader(pngBytes(t, 10, 10)))
	require.NoError(t, err)
	require.True(t, fs.Exists(sess.ID))

	require.NoError(t, svc.Purge(sess))
	assert.False(t, fs.Exists(sess.ID))
}

// failingThumbnails refuses to store thumbnails.
type failingThumbnails struct {
	storage.FileStorage
}

func (f failingThumbnails) Save(name string, data io.Reader) error {
	if strings.Contains(name, "_thumb") {
		return errors.New("disk full")
	}
	return f.FileStorage.Save(name, data)
}

func TestEvidence_ThumbnailFailureLeavesNoFiles(t *testing.T) {
	root := t.TempDir()
	fs := storage.NewFileStorage(root)
	svc := NewEvidenceService(failingThumbnails{fs}, processor.NewScreenshotProcessor())
	sess := newSession()

	_, err := svc.SaveScreenshot(sess, "a.png", bytes.NewReader(pngBytes(t, 10, 10)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save thumbnail")

	assert.Empty(t, sess.Screenshots())
	entries, err := os.ReadDir(filepath.Join(root, sess.ID))
	require.NoError(t, err)
	assert.Empty(t, entries, "original upload is removed")

	require.NoError(t, svc.Purge(sess), "purge still clears the session directory")
	assert.False(t, fs.Exists(sess.ID))
}
