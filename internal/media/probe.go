// Package media adapts ffmpeg to the study's media collaborators.
package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/rpggio/timestudy/internal/domain/timeline"
	"github.com/xfrr/goffmpeg/transcoder"
)

// FFProbe reads container durations through ffprobe.
type FFProbe struct {
	logger *slog.Logger
}

// NewFFProbe creates a probe.
func NewFFProbe(logger *slog.Logger) *FFProbe {
	if logger == nil {
		logger = slog.Default()
	}
	return &FFProbe{logger: logger}
}

// Probe returns the duration of path in seconds. Missing files, unreadable
// containers and non-positive durations are reported as ErrMediaOpen.
func (p *FFProbe) Probe(ctx context.Context, path string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("%w: %v", timeline.ErrMediaOpen, err)
	}

	trans := new(transcoder.Transcoder)
	if err := trans.Initialize(path, ""); err != nil {
		return 0, fmt.Errorf("%w: probing %q: %v", timeline.ErrMediaOpen, path, err)
	}
	duration, err := parseDuration(trans.MediaFile().Metadata().Format.Duration)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", timeline.ErrMediaOpen, path, err)
	}
	p.logger.Debug("probed media", "path", path, "duration", duration)
	return duration, nil
}

func parseDuration(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "N/A" {
		return 0, fmt.Errorf("no duration reported")
	}
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing duration %q: %w", raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %v is not positive", d)
	}
	return d, nil
}
