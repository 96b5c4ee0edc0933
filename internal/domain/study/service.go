package study

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rpggio/timestudy/internal/domain/activity"
	"github.com/rpggio/timestudy/internal/domain/observation"
	"github.com/rpggio/timestudy/internal/domain/timeline"
	"github.com/rpggio/timestudy/internal/domain/viewport"
	"github.com/rpggio/timestudy/internal/media"
)

// Deps are the collaborators of a study Service. Capture, Projects and
// Activity are optional.
type Deps struct {
	Loop     Loop
	Player   timeline.Player
	Probe    DurationProbe
	Capture  FrameCapture
	Projects ProjectStore
	Activity ActivityLogger
}

// Service runs study operations against a Session. Session state is only
// touched on the loop; probing, frame capture and storage run on the
// caller's goroutine.
type Service struct {
	session  *Session
	loop     Loop
	probe    DurationProbe
	capture  FrameCapture
	projects ProjectStore
	activity ActivityLogger
	logger   *slog.Logger

	captures sync.WaitGroup
}

// NewService creates a study service with an empty session.
func NewService(deps Deps, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		session:  NewSession(deps.Player, deps.Loop, opts, logger),
		loop:     deps.Loop,
		probe:    deps.Probe,
		capture:  deps.Capture,
		projects: deps.Projects,
		activity: deps.Activity,
		logger:   logger,
	}
}

// Start begins the render-sync clock.
func (s *Service) Start(ctx context.Context) error {
	return s.loop.Call(ctx, func() error {
		s.session.startRender()
		return nil
	})
}

// Close stops playback and the session clocks and waits for in-flight
// thumbnail captures.
func (s *Service) Close(ctx context.Context) error {
	err := s.loop.Call(ctx, func() error {
		s.session.stopClocks()
		return nil
	})
	s.captures.Wait()
	return err
}

// Settle waits for in-flight thumbnail captures to be applied.
func (s *Service) Settle(ctx context.Context) error {
	s.captures.Wait()
	return s.loop.Call(ctx, func() error { return nil })
}

func (s *Service) record(ctx context.Context, typ activity.ActivityType, entryID string, summary string) {
	if s.activity == nil {
		return
	}
	var projectID string
	_ = s.loop.Call(ctx, func() error {
		projectID = s.session.project.ID
		return nil
	})
	entry := &activity.ActivityEntry{ProjectID: projectID, ActivityType: typ, Summary: summary}
	if entryID != "" {
		entry.EntryID = &entryID
	}
	if err := s.activity.LogActivity(ctx, entry); err != nil {
		s.logger.Warn("activity log failed", "type", typ, "error", err)
	}
}

// OpenVideo replaces the study with a single video. The previous study
// is discarded before the file is probed, so a failed open leaves an
// empty session.
func (s *Service) OpenVideo(ctx context.Context, path string) (*VideoInfo, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path is required", ErrInvalidInput)
	}
	if err := s.loop.Call(ctx, func() error {
		s.session.resetForVideo()
		return nil
	}); err != nil {
		return nil, err
	}

	duration, err := s.probe.Probe(ctx, path)
	if err != nil {
		s.reportFailure(ctx, err)
		return nil, fmt.Errorf("probing %q: %w", path, err)
	}

	var info VideoInfo
	err = s.loop.Call(ctx, func() error {
		if err := s.session.appendSegments([]string{path}, []float64{duration}); err != nil {
			return err
		}
		if err := s.session.play(); err != nil {
			return err
		}
		info = s.session.videoInfo()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("video opened", "path", path, "duration", duration)
	s.record(ctx, activity.TypeVideoOpened, "", fmt.Sprintf("Opened %s (%.2fs)", path, duration))
	return &info, nil
}

// AppendVideos adds segments to the end of the timeline in argument
// order. All files are probed first; if any probe fails nothing is added.
func (s *Service) AppendVideos(ctx context.Context, paths ...string) (*VideoInfo, error) {
	cleaned := make([]string, 0, len(paths))
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: at least one path is required", ErrInvalidInput)
	}

	durations, err := media.ProbeAll(ctx, s.probe, cleaned, s.session.opts.ProbeConcurrency)
	if err != nil {
		s.reportFailure(ctx, err)
		return nil, fmt.Errorf("probing videos: %w", err)
	}

	var info VideoInfo
	err = s.loop.Call(ctx, func() error {
		if err := s.session.appendSegments(cleaned, durations); err != nil {
			return err
		}
		s.session.touch()
		info = s.session.videoInfo()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("videos appended", "count", len(cleaned), "total", info.Total)
	s.record(ctx, activity.TypeVideoAppended, "", fmt.Sprintf("Appended %d video(s)", len(cleaned)))
	return &info, nil
}

func (s *Service) reportFailure(ctx context.Context, err error) {
	_ = s.loop.Call(ctx, func() error {
		s.session.fail(err)
		return nil
	})
}

// HandleMediaFailed records a playback failure reported by the player
// and stops playback.
func (s *Service) HandleMediaFailed(ctx context.Context, cause error) error {
	if cause == nil {
		return nil
	}
	return s.loop.Call(ctx, func() error {
		s.session.fail(cause)
		s.session.pause()
		s.session.nav.Detach()
		return nil
	})
}

func (s *Service) Play(ctx context.Context) error {
	return s.loop.Call(ctx, s.session.play)
}

func (s *Service) Pause(ctx context.Context) error {
	return s.loop.Call(ctx, func() error {
		s.session.pause()
		return nil
	})
}

func (s *Service) TogglePlayback(ctx context.Context) error {
	return s.loop.Call(ctx, s.session.togglePlayback)
}

// Seek moves the playhead to a virtual position, clamped to the timeline.
func (s *Service) Seek(ctx context.Context, seconds float64) (*Status, error) {
	return s.statusAfter(ctx, func() error { return s.session.seek(seconds) })
}

// Step moves the playhead by delta seconds. timeline.FrameStep and
// timeline.SkipStep are the usual magnitudes.
func (s *Service) Step(ctx context.Context, delta float64) (*Status, error) {
	return s.statusAfter(ctx, func() error { return s.session.step(delta) })
}

// SetSpeed changes the playback rate. Rates above the low-fidelity
// threshold degrade the preview while playing.
func (s *Service) SetSpeed(ctx context.Context, ratio float64) (*Status, error) {
	return s.statusAfter(ctx, func() error { return s.session.setSpeed(ratio) })
}

func (s *Service) Status(ctx context.Context) (*Status, error) {
	return s.statusAfter(ctx, func() error { return nil })
}

func (s *Service) statusAfter(ctx context.Context, fn func() error) (*Status, error) {
	var st Status
	err := s.loop.Call(ctx, func() error {
		if err := fn(); err != nil {
			return err
		}
		st = s.session.status()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Mark records an observation at the playhead. The thumbnail is captured
// in the background and attached when ready.
func (s *Service) Mark(ctx context.Context, req MarkRequest) (*observation.Entry, error) {
	var (
		entry  observation.Entry
		seg    timeline.Segment
		offset float64
	)
	err := s.loop.Call(ctx, func() error {
		var err error
		entry, seg, offset, err = s.session.mark(req)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("entry marked", "entry_id", entry.ID, "timestamp", observation.FormatTimestamp(entry.Timestamp), "track", entry.Track)
	if seg.FilePath != "" {
		s.captureThumbnail(entry.ID, seg.FilePath, offset)
	}
	s.record(ctx, activity.TypeEntryMarked, entry.ID,
		fmt.Sprintf("Marked %q at %s", entry.ElementName, observation.FormatTimestamp(entry.Timestamp)))
	return &entry, nil
}

// MarkAway records an away/waiting entry at the playhead.
func (s *Service) MarkAway(ctx context.Context, track int) (*observation.Entry, error) {
	return s.Mark(ctx, MarkRequest{ElementName: observation.AwayElement, Track: track})
}

func (s *Service) captureThumbnail(entryID, path string, offset float64) {
	if s.capture == nil {
		return
	}
	s.captures.Add(1)
	go func() {
		defer s.captures.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.session.opts.CaptureTimeout)
		defer cancel()
		data, err := s.capture.Capture(ctx, path, offset)
		if err != nil {
			s.logger.Warn("thumbnail capture failed", "entry_id", entryID, "path", path, "error", err)
			return
		}
		s.loop.Post(func() {
			if !s.session.log.SetThumbnail(entryID, data) {
				s.logger.Debug("thumbnail discarded for deleted entry", "entry_id", entryID)
			}
		})
	}()
}

func (s *Service) UpdateEntry(ctx context.Context, id string, upd EntryUpdate) (*observation.Entry, error) {
	var entry observation.Entry
	err := s.loop.Call(ctx, func() error {
		var err error
		entry, err = s.session.updateEntry(id, upd)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, activity.TypeEntryUpdated, id, fmt.Sprintf("Updated entry at %s", observation.FormatTimestamp(entry.Timestamp)))
	return &entry, nil
}

// DeleteEntry removes an entry and recomputes every duration.
func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	if err := s.loop.Call(ctx, func() error { return s.session.deleteEntry(id) }); err != nil {
		return err
	}
	s.record(ctx, activity.TypeEntryDeleted, id, "Deleted entry")
	return nil
}

// ClearEntries removes every entry and returns how many there were.
func (s *Service) ClearEntries(ctx context.Context) (int, error) {
	var n int
	if err := s.loop.Call(ctx, func() error {
		n = s.session.clearEntries()
		return nil
	}); err != nil {
		return 0, err
	}
	s.record(ctx, activity.TypeEntriesCleared, "", fmt.Sprintf("Cleared %d entries", n))
	return n, nil
}

func (s *Service) Entries(ctx context.Context) ([]observation.Entry, error) {
	var entries []observation.Entry
	err := s.loop.Call(ctx, func() error {
		entries = s.session.log.Entries()
		return nil
	})
	return entries, err
}

// Summary aggregates the log per track and per element.
func (s *Service) Summary(ctx context.Context) (*Report, error) {
	var r Report
	if err := s.loop.Call(ctx, func() error {
		r = s.session.report()
		return nil
	}); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Service) RenameTrack(ctx context.Context, track int, name string) error {
	return s.loop.Call(ctx, func() error { return s.session.renameTrack(track, name) })
}

func (s *Service) SetElements(ctx context.Context, names []string) error {
	return s.loop.Call(ctx, func() error { return s.session.setElements(names) })
}

func (s *Service) AddElement(ctx context.Context, name string) error {
	return s.loop.Call(ctx, func() error { return s.session.addElement(name) })
}

// Elements returns the element library.
func (s *Service) Elements(ctx context.Context) ([]string, error) {
	var out []string
	err := s.loop.Call(ctx, func() error {
		out = append([]string(nil), s.session.elements...)
		return nil
	})
	return out, err
}

// ZoomTimeline applies one wheel notch anchored at viewport x.
func (s *Service) ZoomTimeline(ctx context.Context, at float64, in bool) (*Status, error) {
	return s.statusAfter(ctx, func() error {
		s.session.zoomTimelineWheel(at, in)
		return nil
	})
}

// ZoomTimelineStep applies the toolbar zoom around the viewport centre.
func (s *Service) ZoomTimelineStep(ctx context.Context, in bool) (*Status, error) {
	return s.statusAfter(ctx, func() error {
		s.session.zoomTimelineStep(in)
		return nil
	})
}

// FitTimeline zooms so the whole timeline fits the viewport.
func (s *Service) FitTimeline(ctx context.Context) (*Status, error) {
	return s.statusAfter(ctx, s.session.fitTimeline)
}

func (s *Service) PanTimeline(ctx context.Context, dx float64) (*Status, error) {
	return s.statusAfter(ctx, func() error {
		s.session.timeline.Pan(dx, 0)
		return nil
	})
}

func (s *Service) ZoomPreview(ctx context.Context, at viewport.Point, in bool) (*Status, error) {
	return s.statusAfter(ctx, func() error {
		s.session.zoomPreview(at, in)
		return nil
	})
}

func (s *Service) PanPreview(ctx context.Context, dx, dy float64) (*Status, error) {
	return s.statusAfter(ctx, func() error {
		s.session.preview.Pan(dx, dy)
		return nil
	})
}

func (s *Service) CenterPreview(ctx context.Context) (*Status, error) {
	return s.statusAfter(ctx, func() error {
		s.session.preview.CenterContent()
		return nil
	})
}

// TimelinePointer feeds raw pointer input to the scrub controller.
func (s *Service) TimelinePointer(ctx context.Context, ev PointerEvent) (*Status, error) {
	return s.statusAfter(ctx, func() error { return s.session.pointer(ev) })
}

// RecentActivity lists the audit trail of the current project.
func (s *Service) RecentActivity(ctx context.Context, limit int) ([]activity.ActivityEntry, error) {
	if s.activity == nil {
		return nil, fmt.Errorf("%w: activity log", ErrNotConfigured)
	}
	var projectID string
	if err := s.loop.Call(ctx, func() error {
		projectID = s.session.project.ID
		return nil
	}); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	return s.activity.GetRecentActivity(ctx, activity.ListActivityOptions{ProjectID: projectID, Limit: limit})
}
