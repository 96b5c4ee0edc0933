package study

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/rpggio/timestudy/internal/domain/observation"
	"github.com/rpggio/timestudy/internal/domain/project"
	"github.com/rpggio/timestudy/internal/domain/scrub"
	"github.com/rpggio/timestudy/internal/domain/summary"
	"github.com/rpggio/timestudy/internal/domain/timeline"
	"github.com/rpggio/timestudy/internal/domain/viewport"
)

// Session is the state of one time study: the loaded segments, the
// observation log and the two views. It is not safe for concurrent use;
// every method runs on the owning loop.
type Session struct {
	opts   Options
	logger *slog.Logger
	sched  scrub.Scheduler

	index    *timeline.Index
	nav      *timeline.Navigator
	player   timeline.Player
	log      *observation.Log
	preview  *viewport.Transform
	timeline *viewport.Transform
	scrub    *scrub.Controller

	trackNames map[int]string
	elements   []string
	project    Identity
	dirty      bool
	generation uint64

	playing          bool
	speed            float64
	lowFidelity      bool
	scrubLowFidelity bool
	captured         bool
	frame            int
	indicator        float64
	lastRendered     float64
	renders          int
	lastError        string

	playbackTimer scrub.Timer
	renderTimer   scrub.Timer
}

// NewSession creates an empty session driving player. Periodic work is
// scheduled on sched.
func NewSession(player timeline.Player, sched scrub.Scheduler, opts Options, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	opts = opts.withDefaults()
	index := timeline.NewIndex()
	s := &Session{
		opts:         opts,
		logger:       logger,
		sched:        sched,
		index:        index,
		nav:          timeline.NewNavigator(index, player, logger),
		player:       player,
		log:          observation.NewLog(),
		preview:      viewport.New(opts.PreviewLimits, opts.PreviewViewport, opts.PreviewContent),
		timeline:     viewport.New(opts.TimelineLimits, opts.TimelineViewport, viewport.Size{Height: opts.TimelineViewport.Height}),
		trackNames:   observation.DefaultTrackNames(),
		elements:     append([]string(nil), observation.DefaultElements...),
		speed:        1,
		lastRendered: -1,
	}
	s.scrub = scrub.NewController(scrub.Deps{
		Seeker:    scrubSeeker{s},
		Clock:     scrubClock{s},
		Playback:  scrubPlayback{s},
		Surface:   scrubSurface{s},
		Scroller:  timelineView{s},
		Scale:     timelineView{s},
		Scheduler: sched,
	}, opts.Scrub, logger)
	return s
}

func (s *Session) loaded() bool { return s.index.Len() > 0 }

func (s *Session) touch() {
	s.dirty = true
	s.generation++
}

func (s *Session) fail(err error) {
	s.lastError = err.Error()
	s.logger.Warn("media failure", "error", err)
}

// layoutTimeline resizes the timeline content to the current total.
func (s *Session) layoutTimeline() {
	content := viewport.Size{
		Width:  s.index.Total() * s.opts.PixelsPerSecond,
		Height: s.opts.TimelineViewport.Height,
	}
	s.timeline.Resize(s.opts.TimelineViewport, content)
}

// resetForVideo clears everything tied to the previous video.
func (s *Session) resetForVideo() {
	s.pause()
	s.index.Reset()
	s.nav.Detach()
	s.log.Clear()
	s.project = Identity{}
	s.dirty = false
	s.generation++
	s.frame = 0
	s.indicator = 0
	s.lastError = ""
	s.layoutTimeline()
	s.timeline.ScrollTo(0, 0)
}

func (s *Session) appendSegments(paths []string, durations []float64) error {
	for i, d := range durations {
		if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return fmt.Errorf("%w: %v for %q", timeline.ErrInvalidDuration, d, paths[i])
		}
	}
	first := !s.loaded()
	for i, path := range paths {
		if _, err := s.index.AppendSegment(path, durations[i]); err != nil {
			return err
		}
	}
	s.layoutTimeline()
	s.log.RecalculateAll(s.index.Total())
	if first || s.nav.Active() == timeline.NoSegment {
		if err := s.nav.Activate(0, 0); err != nil {
			s.fail(err)
			return fmt.Errorf("%w: %v", ErrMediaOpen, err)
		}
	}
	return nil
}

func (s *Session) videoInfo() VideoInfo {
	return VideoInfo{Segments: s.index.Segments(), Total: s.index.Total()}
}

func (s *Session) play() error {
	if !s.loaded() {
		return ErrNoMedia
	}
	if s.playing {
		return nil
	}
	s.player.Play()
	s.playing = true
	s.lowFidelity = s.speed > s.opts.LowFidelitySpeed
	if s.sched != nil {
		s.playbackTimer = s.sched.Every(s.opts.PlaybackInterval, s.playbackTick)
	}
	return nil
}

func (s *Session) pause() {
	if s.playbackTimer != nil {
		s.playbackTimer.Stop()
		s.playbackTimer = nil
	}
	if !s.playing {
		return
	}
	s.player.Pause()
	s.playing = false
	s.lowFidelity = false
}

func (s *Session) togglePlayback() error {
	if s.playing {
		s.pause()
		return nil
	}
	return s.play()
}

func (s *Session) setSpeed(ratio float64) error {
	if ratio <= 0 || ratio > maxSpeed || math.IsNaN(ratio) {
		return fmt.Errorf("%w: speed %v", ErrInvalidInput, ratio)
	}
	s.speed = ratio
	s.player.SetSpeed(ratio)
	s.lowFidelity = s.playing && ratio > s.opts.LowFidelitySpeed
	return nil
}

func (s *Session) seek(global float64) error {
	if global < 0 || math.IsNaN(global) {
		global = 0
	}
	if total := s.index.Total(); total > 0 && global > total {
		global = total
	}
	if err := s.nav.Seek(global); err != nil {
		s.fail(err)
		return fmt.Errorf("seeking: %w", err)
	}
	s.updateFrame()
	return nil
}

func (s *Session) step(delta float64) error {
	if err := s.nav.Step(delta); err != nil {
		s.fail(err)
		return fmt.Errorf("stepping: %w", err)
	}
	s.updateFrame()
	return nil
}

func (s *Session) updateFrame() {
	s.frame = int(math.Floor(s.nav.Position()*s.opts.FrameRate + 1e-9))
}

func (s *Session) status() Status {
	pos := s.nav.Position()
	res := s.index.Resolve(pos)
	return Status{
		Loaded:        s.loaded(),
		Playing:       s.playing,
		Position:      pos,
		Total:         s.index.Total(),
		Segment:       res.Index,
		SegmentOffset: res.Offset,
		Segments:      s.index.Len(),
		Frame:         s.frame,
		Speed:         s.speed,
		LowFidelity:   s.lowFidelity || s.scrubLowFidelity,
		Scrub:         s.scrub.State().String(),
		Indicator:     s.indicator,
		Entries:       s.log.Len(),
		Dirty:         s.dirty,
		Project:       s.project,
		Timeline:      s.timeline.State(),
		Preview:       s.preview.State(),
		StatusLine:    summary.StatusLine(summary.Summarize(s.log.Entries())),
		LastError:     s.lastError,
	}
}

// mark inserts an entry at the playhead and returns it with the segment
// path and local offset its thumbnail should be captured from.
func (s *Session) mark(req MarkRequest) (observation.Entry, timeline.Segment, float64, error) {
	if !s.loaded() {
		return observation.Entry{}, timeline.Segment{}, 0, ErrNoMedia
	}
	if !observation.ValidTrack(req.Track) {
		return observation.Entry{}, timeline.Segment{}, 0, fmt.Errorf("%w: %d", observation.ErrInvalidTrack, req.Track)
	}
	people := req.People
	if strings.TrimSpace(people) == "" {
		people = observation.DefaultPeople
	}
	pos := s.nav.Position()
	i := s.log.InsertSorted(observation.Entry{
		Timestamp:    observation.Seconds(pos),
		ElementName:  strings.TrimSpace(req.ElementName),
		Description:  req.Description,
		Observations: req.Observations,
		People:       people,
		Category:     req.Category,
		Track:        req.Track,
	})
	s.log.RecalculateAround(i, s.index.Total())
	s.touch()

	res := s.index.Resolve(pos)
	seg, err := s.index.Segment(res.Index)
	if err != nil {
		return s.log.At(i), timeline.Segment{}, 0, nil
	}
	return s.log.At(i), seg, res.Offset, nil
}

func (s *Session) updateEntry(id string, upd EntryUpdate) (observation.Entry, error) {
	if upd.Track != nil && !observation.ValidTrack(*upd.Track) {
		return observation.Entry{}, fmt.Errorf("%w: %d", observation.ErrInvalidTrack, *upd.Track)
	}
	e, err := s.log.Update(id, func(e *observation.Entry) {
		if upd.ElementName != nil {
			e.ElementName = strings.TrimSpace(*upd.ElementName)
		}
		if upd.Description != nil {
			e.Description = *upd.Description
		}
		if upd.Observations != nil {
			e.Observations = *upd.Observations
		}
		if upd.People != nil {
			e.People = *upd.People
		}
		if upd.Category != nil {
			e.Category = *upd.Category
		}
		if upd.Track != nil {
			e.Track = *upd.Track
		}
	})
	if err != nil {
		return observation.Entry{}, err
	}
	s.touch()
	return e, nil
}

func (s *Session) deleteEntry(id string) error {
	if err := s.log.Delete(id); err != nil {
		return err
	}
	s.log.RecalculateAll(s.index.Total())
	s.touch()
	return nil
}

func (s *Session) clearEntries() int {
	n := s.log.Len()
	s.log.Clear()
	if n > 0 {
		s.touch()
	}
	return n
}

func (s *Session) report() Report {
	entries := s.log.Entries()
	tracks := summary.Summarize(entries)
	r := Report{
		Tracks:     summary.Ordered(tracks),
		StatusLine: summary.StatusLine(tracks),
		Captions:   make(map[int]string, len(tracks)),
		TrackNames: make(map[int]string, len(s.trackNames)),
		Elements:   summary.ElementStats(entries),
		Colors:     make(map[string]string),
		Overall:    summary.Overall(entries),
	}
	for track, st := range tracks {
		r.Captions[track] = summary.Caption(st)
	}
	for track, name := range s.trackNames {
		r.TrackNames[track] = name
	}
	for _, st := range r.Elements {
		r.Colors[st.Name] = summary.ElementColor(st.Name, s.elements)
	}
	return r
}

func (s *Session) renameTrack(track int, name string) error {
	if !observation.ValidTrack(track) {
		return fmt.Errorf("%w: %d", observation.ErrInvalidTrack, track)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = observation.TrackLabel(track)
	}
	s.trackNames[track] = name
	s.touch()
	return nil
}

func (s *Session) setElements(names []string) error {
	seen := make(map[string]bool, len(names))
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		cleaned = append(cleaned, n)
	}
	if len(cleaned) == 0 {
		return fmt.Errorf("%w: element library is empty", ErrInvalidInput)
	}
	s.elements = cleaned
	s.touch()
	return nil
}

func (s *Session) addElement(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: element name is empty", ErrInvalidInput)
	}
	for _, e := range s.elements {
		if e == name {
			return nil
		}
	}
	s.elements = append(s.elements, name)
	s.touch()
	return nil
}

// zoomTimelineWheel zooms around the cursor by one wheel notch.
func (s *Session) zoomTimelineWheel(at float64, in bool) {
	factor := s.opts.WheelFactor
	if !in {
		factor = 1 / factor
	}
	s.timeline.ZoomBy(viewport.Point{X: at}, factor)
}

// zoomTimelineStep applies the toolbar zoom. Zooming out stops where the
// whole timeline fits the viewport.
func (s *Session) zoomTimelineStep(in bool) {
	limits := s.timeline.Limits()
	center := viewport.Point{X: s.opts.TimelineViewport.Width / 2}
	if in {
		s.timeline.SetZoom(center, math.Min(s.timeline.Zoom()*viewport.TimelineStepFactor, limits.MaxZoom))
		return
	}
	floor := limits.MinZoom
	if width := s.index.Total() * s.opts.PixelsPerSecond; width > 0 {
		floor = math.Max(floor, s.opts.TimelineViewport.Width/width)
	}
	s.timeline.SetZoom(center, math.Max(s.timeline.Zoom()/viewport.TimelineStepFactor, floor))
}

func (s *Session) fitTimeline() error {
	width := s.index.Total() * s.opts.PixelsPerSecond
	if width <= 0 {
		return ErrNoMedia
	}
	s.timeline.SetZoom(viewport.Point{}, (s.opts.TimelineViewport.Width-fitPadding)/width)
	s.timeline.ScrollTo(0, 0)
	return nil
}

func (s *Session) zoomPreview(at viewport.Point, in bool) {
	delta := s.opts.PreviewStep
	if !in {
		delta = -delta
	}
	s.preview.ZoomAt(at, delta)
}

func (s *Session) pointer(ev PointerEvent) error {
	p := scrub.Point{X: ev.X, Y: ev.Y}
	switch ev.Kind {
	case PointerDown:
		if !s.loaded() {
			return nil
		}
		s.scrub.PointerDown(p)
	case PointerMove:
		s.scrub.PointerMove(p)
	case PointerUp:
		s.scrub.PointerUp()
	case PointerMiddleDown:
		s.scrub.MiddleDown(p)
	case PointerMiddleUp:
		s.scrub.MiddleUp()
	case PointerCaptureLost:
		s.scrub.CaptureLost()
	default:
		return fmt.Errorf("%w: pointer event %q", ErrInvalidInput, ev.Kind)
	}
	return nil
}

func (s *Session) document() *project.Document {
	return project.FromState(s.index.Segments(), s.log.Entries(), s.trackNames, s.elements)
}

// apply replaces the session contents with doc. The first segment is
// loaded; a load failure is reported in the result, not as an error.
func (s *Session) apply(doc *project.Document) (LoadResult, error) {
	if err := s.index.Replace(doc.Segments()); err != nil {
		return LoadResult{}, fmt.Errorf("restoring segments: %w", err)
	}
	s.pause()
	s.nav.Detach()

	entries, skipped := doc.Entries()
	if s.loaded() {
		s.log.Replace(entries, s.index.Total())
	} else {
		s.log.Restore(entries)
	}
	s.trackNames = doc.TrackNames()
	s.elements = doc.Elements()
	s.layoutTimeline()
	s.timeline.ScrollTo(0, 0)
	s.dirty = false
	s.generation++
	s.lastError = ""

	result := LoadResult{
		Segments: s.index.Len(),
		Total:    s.index.Total(),
		Entries:  s.log.Len(),
		Skipped:  skipped,
	}
	for _, e := range s.log.Entries() {
		if !e.HasThumbnail() {
			result.MissingThumbnails++
		}
	}
	if s.loaded() {
		if err := s.nav.Activate(0, 0); err != nil {
			s.fail(err)
			result.MediaError = err.Error()
		}
	}
	s.updateFrame()
	return result, nil
}

// restoreEntries installs imported entries. With media loaded the
// durations are recomputed; otherwise the stored ones are kept.
func (s *Session) restoreEntries(entries []observation.Entry) {
	if s.loaded() {
		s.log.Replace(entries, s.index.Total())
	} else {
		s.log.Restore(entries)
	}
	s.project.FilePath = ""
	s.touch()
}

func (s *Session) snapshot() entrySnapshot {
	var primary string
	if segs := s.index.Segments(); len(segs) > 0 {
		primary = segs[0].FilePath
	}
	return entrySnapshot{primary: primary, entries: s.log.Entries()}
}
