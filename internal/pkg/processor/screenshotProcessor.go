package processor

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

const (
	ThumbnailWidth  = 320
	ThumbnailHeight = 200
)

// ScreenshotProcessor validates uploaded evidence and derives a thumbnail for the table view.
type ScreenshotProcessor interface {
	Thumbnail(src io.Reader, ext string) (*bytes.Buffer, error)
}

type screenshotProcessor struct {
	width  int
	height int
}

func NewScreenshotProcessor() ScreenshotProcessor {
	return &screenshotProcessor{width: ThumbnailWidth, height: ThumbnailHeight}
}

func (p *screenshotProcessor) Thumbnail(src io.Reader, ext string) (*bytes.Buffer, error) {
	format, err := FormatFromExt(ext)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode screenshot: %w", err)
	}

	thumb := imaging.Fit(img, p.width, p.height, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, thumb, format); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf, nil
}

func FormatFromExt(ext string) (imaging.Format, error) {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return 0, fmt.Errorf("unsupported screenshot format %q", ext)
	}
	switch format {
	case imaging.JPEG, imaging.PNG, imaging.GIF:
		return format, nil
	default:
		return 0, fmt.Errorf("unsupported screenshot format %q", ext)
	}
}
