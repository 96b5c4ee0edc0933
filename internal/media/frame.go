package media

import (
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xfrr/goffmpeg/transcoder"
)

// FrameGrabber extracts a single frame with ffmpeg and returns it as a
// JPEG thumbnail.
type FrameGrabber struct {
	maxWidth  int
	maxHeight int
	quality   int
	logger    *slog.Logger
}

// NewFrameGrabber creates a grabber fitting frames into maxWidth x maxHeight.
func NewFrameGrabber(maxWidth, maxHeight, quality int, logger *slog.Logger) *FrameGrabber {
	if maxWidth <= 0 {
		maxWidth = DefaultThumbnailWidth
	}
	if maxHeight <= 0 {
		maxHeight = DefaultThumbnailHeight
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FrameGrabber{maxWidth: maxWidth, maxHeight: maxHeight, quality: quality, logger: logger}
}

// Capture grabs the frame of path at offset seconds.
func (g *FrameGrabber) Capture(ctx context.Context, path string, offset float64) ([]byte, error) {
	if offset < 0 {
		offset = 0
	}
	tempDir, err := os.MkdirTemp("", "timestudy_frame_")
	if err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)
	out := filepath.Join(tempDir, "frame.png")

	trans := new(transcoder.Transcoder)
	if err := trans.Initialize(path, out); err != nil {
		return nil, fmt.Errorf("initializing transcoder: %w", err)
	}

	mf := trans.MediaFile()
	mf.SetSeekTime(seekTime(offset))
	for _, stream := range mf.Metadata().Streams {
		if stream.CodecType != "video" {
			continue
		}
		if w, h := FitBox(stream.Width, stream.Height, g.maxWidth, g.maxHeight); w > 0 {
			mf.SetVideoFilter(fmt.Sprintf("scale=%d:%d", w, h))
		}
		break
	}
	mf.SetVideoCodec("png")
	mf.SetSkipAudio(true)
	mf.SetOutputFormat("image2")
	mf.SetVideoBitRate("1")

	done := trans.Run(false)
	select {
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("extracting frame: %w", err)
		}
	case <-ctx.Done():
		go func() { <-done }()
		return nil, ctx.Err()
	}

	f, err := os.Open(out)
	if err != nil {
		return nil, fmt.Errorf("reading frame: %w", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding frame: %w", err)
	}
	data, err := EncodeJPEG(Downscale(img, g.maxWidth, g.maxHeight), g.quality)
	if err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}
	g.logger.Debug("frame captured", "path", path, "offset", offset, "bytes", len(data))
	return data, nil
}

// seekTime renders seconds as the hh:mm:ss.mmm form ffmpeg accepts.
func seekTime(seconds float64) string {
	ms := int64(seconds*1000 + 0.5)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", ms/3_600_000, ms/60_000%60, ms/1000%60, ms%1000)
}
