package study

import (
	"github.com/rpggio/timestudy/internal/domain/scrub"
	"github.com/rpggio/timestudy/internal/domain/timeline"
	"github.com/rpggio/timestudy/internal/domain/viewport"
)

// startRender schedules the render-sync clock for the session lifetime.
func (s *Session) startRender() {
	if s.sched == nil || s.renderTimer != nil {
		return
	}
	s.renderTimer = s.sched.Every(s.opts.RenderInterval, s.renderTick)
}

func (s *Session) stopClocks() {
	s.pause()
	if s.renderTimer != nil {
		s.renderTimer.Stop()
		s.renderTimer = nil
	}
}

// playbackTick moves into the next segment at a file boundary and stops
// at the end of the last one.
func (s *Session) playbackTick() {
	if !s.playing {
		return
	}
	if _, err := s.nav.Advance(); err != nil {
		s.fail(err)
		s.pause()
		return
	}
	s.updateFrame()

	active := s.nav.Active()
	if active != s.index.Len()-1 {
		return
	}
	seg, err := s.index.Segment(active)
	if err != nil {
		return
	}
	if s.player.Position() >= seg.Duration-timeline.FrameStep/2 {
		s.logger.Debug("playback reached end", "position", s.nav.Position())
		s.pause()
	}
}

// renderTick moves the playhead indicator and keeps it in view. Idle
// ticks with an unchanged position do nothing.
func (s *Session) renderTick() {
	pos := s.nav.Position()
	dragging := s.scrub.State() == scrub.Dragging
	if !s.playing && !dragging && pos == s.lastRendered {
		return
	}
	s.lastRendered = pos
	s.renders++
	s.indicator = pos * s.opts.PixelsPerSecond * s.timeline.Zoom()

	if target, ok := viewport.Follow(s.indicator, s.timeline.OffsetX(), s.opts.TimelineViewport.Width, s.opts.EdgeMargin); ok {
		s.timeline.ScrollTo(target, s.timeline.OffsetY())
	}
}
