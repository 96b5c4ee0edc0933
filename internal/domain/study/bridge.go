package study

import (
	"math"

	"github.com/rpggio/timestudy/internal/domain/viewport"
)

// The scrub controller drives the session through these adapters.

type scrubSeeker struct{ s *Session }

func (b scrubSeeker) Seek(seconds float64) {
	if err := b.s.seek(seconds); err != nil {
		b.s.logger.Debug("scrub seek failed", "position", seconds, "error", err)
	}
}

// scrubClock suspends playback for the length of a gesture.
type scrubClock struct{ s *Session }

func (b scrubClock) Running() bool { return b.s.playing }
func (b scrubClock) Stop()         { b.s.pause() }

func (b scrubClock) Start() {
	if err := b.s.play(); err != nil {
		b.s.logger.Debug("resume after scrub failed", "error", err)
	}
}

type scrubPlayback struct{ s *Session }

func (b scrubPlayback) TogglePlayback() {
	if err := b.s.togglePlayback(); err != nil {
		b.s.logger.Debug("toggle playback failed", "error", err)
	}
}

type scrubSurface struct{ s *Session }

func (b scrubSurface) Capture()               { b.s.captured = true }
func (b scrubSurface) Release()               { b.s.captured = false }
func (b scrubSurface) SetLowFidelity(on bool) { b.s.scrubLowFidelity = on }

// timelineView scrolls the timeline and maps pointer x to seconds.
type timelineView struct{ s *Session }

func (v timelineView) ScrollOffset() float64 { return v.s.timeline.OffsetX() }

func (v timelineView) ScrollTo(offset float64) {
	v.s.timeline.ScrollTo(offset, v.s.timeline.OffsetY())
}

func (v timelineView) TimeAt(x float64) float64 {
	content := v.s.timeline.ContentPointFor(viewport.Point{X: x})
	seconds := content.X / v.s.opts.PixelsPerSecond
	return math.Max(0, math.Min(seconds, v.s.index.Total()))
}
