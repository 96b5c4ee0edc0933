package study_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rpggio/timestudy/internal/domain/activity"
	"github.com/rpggio/timestudy/internal/domain/observation"
	"github.com/rpggio/timestudy/internal/domain/project"
	"github.com/rpggio/timestudy/internal/domain/study"
	"github.com/rpggio/timestudy/internal/domain/timeline"
	"github.com/rpggio/timestudy/internal/domain/viewport"
	"github.com/rpggio/timestudy/internal/eventloop"
	"github.com/rpggio/timestudy/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakePlayer struct {
	mu      sync.Mutex
	loads   []string
	pos     float64
	playing bool
	speed   float64
}

func (p *fakePlayer) LoadSource(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loads = append(p.loads, path)
	p.pos = 0
	return nil
}

func (p *fakePlayer) Play()  { p.set(func() { p.playing = true }) }
func (p *fakePlayer) Pause() { p.set(func() { p.playing = false }) }

func (p *fakePlayer) Seek(local float64) { p.set(func() { p.pos = local }) }

func (p *fakePlayer) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos
}

func (p *fakePlayer) NaturalDuration() float64 { return 0 }

func (p *fakePlayer) SetSpeed(ratio float64) { p.set(func() { p.speed = ratio }) }

func (p *fakePlayer) set(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn()
}

func (p *fakePlayer) loaded() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.loads...)
}

type memoryStore struct {
	mu       sync.Mutex
	projects map[string]*project.Project
}

func (m *memoryStore) Save(_ context.Context, req project.SaveRequest) (*project.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.projects == nil {
		m.projects = make(map[string]*project.Project)
	}
	if req.ID == "" {
		proj := &project.Project{ID: fmt.Sprintf("p%d", len(m.projects)+1), Name: req.Name, Revision: 1, Document: req.Document}
		m.projects[proj.ID] = proj
		return proj, nil
	}
	existing, ok := m.projects[req.ID]
	if !ok {
		return nil, project.ErrProjectNotFound
	}
	if existing.Revision != req.ExpectedRevision {
		return nil, project.ErrConflict
	}
	proj := &project.Project{ID: req.ID, Name: req.Name, Revision: req.ExpectedRevision + 1, Document: req.Document}
	m.projects[proj.ID] = proj
	return proj, nil
}

func (m *memoryStore) Get(_ context.Context, id string) (*project.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	proj, ok := m.projects[id]
	if !ok {
		return nil, project.ErrProjectNotFound
	}
	return proj, nil
}

func (m *memoryStore) List(context.Context) ([]project.ProjectSummary, error) {
	return nil, nil
}

type fixture struct {
	svc     *study.Service
	player  *fakePlayer
	probe   *mocks.DurationProbe
	capture *mocks.FrameCapture
	store   *memoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loop := eventloop.New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)

	f := &fixture{
		player:  &fakePlayer{},
		probe:   &mocks.DurationProbe{},
		capture: &mocks.FrameCapture{},
		store:   &memoryStore{},
	}
	f.probe.On("Probe", mock.Anything, "a.mp4").Return(60.0, nil).Maybe()
	f.probe.On("Probe", mock.Anything, "b.mp4").Return(40.0, nil).Maybe()
	f.probe.On("Probe", mock.Anything, "short.mp4").Return(20.0, nil).Maybe()
	f.probe.On("Probe", mock.Anything, "bad.mp4").Return(0.0, fmt.Errorf("%w: unreadable", timeline.ErrMediaOpen)).Maybe()

	f.svc = study.NewService(study.Deps{
		Loop:     loop,
		Player:   f.player,
		Probe:    f.probe,
		Capture:  f.capture,
		Projects: f.store,
	}, study.Options{PlaybackInterval: time.Hour}, nil)
	require.NoError(t, f.svc.Start(ctx))

	t.Cleanup(func() {
		_ = f.svc.Close(context.Background())
		cancel()
		<-loop.Done()
	})
	return f
}

func (f *fixture) noThumbnails() {
	f.capture.On("Capture", mock.Anything, mock.Anything, mock.Anything).Return(nil, fmt.Errorf("no frame")).Maybe()
}

func markAt(t *testing.T, f *fixture, seconds float64, element string) *observation.Entry {
	t.Helper()
	ctx := context.Background()
	_, err := f.svc.Seek(ctx, seconds)
	require.NoError(t, err)
	e, err := f.svc.Mark(ctx, study.MarkRequest{ElementName: element})
	require.NoError(t, err)
	return e
}

func durations(t *testing.T, svc *study.Service) []float64 {
	t.Helper()
	entries, err := svc.Entries(context.Background())
	require.NoError(t, err)
	out := make([]float64, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.DurationSeconds)
	}
	return out
}

func TestOpenVideo_LoadsAndPlays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	info, err := f.svc.OpenVideo(ctx, "a.mp4")
	require.NoError(t, err)
	require.Equal(t, 60.0, info.Total)
	require.Len(t, info.Segments, 1)

	st, err := f.svc.Status(ctx)
	require.NoError(t, err)
	require.True(t, st.Loaded)
	require.True(t, st.Playing)
	require.Equal(t, 0, st.Segment)
	require.Equal(t, 600.0, st.Timeline.Content.Width)
	require.Equal(t, []string{"a.mp4"}, f.player.loaded())
}

func TestOpenVideo_FailureKeepsReset(t *testing.T) {
	f := newFixture(t)
	f.noThumbnails()
	ctx := context.Background()

	_, err := f.svc.OpenVideo(ctx, "a.mp4")
	require.NoError(t, err)
	markAt(t, f, 5, "Reach")

	_, err = f.svc.OpenVideo(ctx, "bad.mp4")
	require.ErrorIs(t, err, study.ErrMediaOpen)

	st, err := f.svc.Status(ctx)
	require.NoError(t, err)
	require.False(t, st.Loaded)
	require.False(t, st.Playing)
	require.Zero(t, st.Entries)
	require.NotEmpty(t, st.LastError)

	_, err = f.svc.Mark(ctx, study.MarkRequest{ElementName: "Reach"})
	require.ErrorIs(t, err, study.ErrNoMedia)
}

func TestAppendVideos_SeekAcrossSegments(t *testing.T) {
	f := newFixture(t)
	f.noThumbnails()
	ctx := context.Background()

	_, err := f.svc.OpenVideo(ctx, "a.mp4")
	require.NoError(t, err)
	markAt(t, f, 10, "Reach")
	require.Equal(t, []float64{50}, durations(t, f.svc))

	info, err := f.svc.AppendVideos(ctx, "b.mp4")
	require.NoError(t, err)
	require.Equal(t, 100.0, info.Total)
	require.Equal(t, 60.0, info.Segments[1].StartTime)
	require.Equal(t, []float64{90}, durations(t, f.svc))

	st, err := f.svc.Seek(ctx, 75)
	require.NoError(t, err)
	require.Equal(t, 1, st.Segment)
	require.InDelta(t, 15.0, st.SegmentOffset, 1e-9)
	require.InDelta(t, 75.0, st.Position, 1e-9)
	require.Equal(t, []string{"a.mp4", "b.mp4"}, f.player.loaded())

	st, err = f.svc.Seek(ctx, 500)
	require.NoError(t, err)
	require.InDelta(t, 100.0, st.Position, 1e-9)
}

func TestAppendVideos_ProbeFailureAddsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.OpenVideo(ctx, "a.mp4")
	require.NoError(t, err)

	_, err = f.svc.AppendVideos(ctx, "b.mp4", "bad.mp4")
	require.ErrorIs(t, err, study.ErrMediaOpen)

	st, err := f.svc.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, st.Segments)
	require.Equal(t, 60.0, st.Total)

	_, err = f.svc.AppendVideos(ctx, " ")
	require.ErrorIs(t, err, study.ErrInvalidInput)
}

func TestMark_OutOfOrderDurations(t *testing.T) {
	f := newFixture(t)
	f.noThumbnails()
	ctx := context.Background()
	_, err := f.svc.OpenVideo(ctx, "short.mp4")
	require.NoError(t, err)

	for _, ts := range []float64{5, 15, 10} {
		markAt(t, f, ts, "Move")
	}
	require.Equal(t, []float64{5, 5, 5}, durations(t, f.svc))

	_, err = f.svc.Mark(ctx, study.MarkRequest{ElementName: "Move", Track: 9})
	require.ErrorIs(t, err, observation.ErrInvalidTrack)
}

func TestMark_AttachesThumbnail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.capture.On("Capture", mock.Anything, "b.mp4", mock.Anything).Return([]byte{0xff, 0xd8}, nil)

	_, err := f.svc.OpenVideo(ctx, "a.mp4")
	require.NoError(t, err)
	_, err = f.svc.AppendVideos(ctx, "b.mp4")
	require.NoError(t, err)

	e := markAt(t, f, 70, "Grasp")
	require.NoError(t, f.svc.Settle(ctx))

	entries, err := f.svc.Entries(ctx)
	require.NoError(t, err)
	require.Equal(t, e.ID, entries[0].ID)
	require.Equal(t, []byte{0xff, 0xd8}, entries[0].Thumbnail)
	f.capture.AssertCalled(t, "Capture", mock.Anything, "b.mp4", mock.MatchedBy(func(offset float64) bool {
		return offset > 9.99 && offset < 10.01
	}))
}

func TestMark_ThumbnailForDeletedEntryIsDropped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	release := make(chan time.Time)
	f.capture.On("Capture", mock.Anything, "a.mp4", mock.Anything).
		WaitUntil(release).
		Return([]byte{1}, nil)

	_, err := f.svc.OpenVideo(ctx, "a.mp4")
	require.NoError(t, err)
	e := markAt(t, f, 3, "Reach")
	require.NoError(t, f.svc.DeleteEntry(ctx, e.ID))

	close(release)
	require.NoError(t, f.svc.Settle(ctx))
	entries, err := f.svc.Entries(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestDeleteAndClearEntries(t *testing.T) {
	f := newFixture(t)
	f.noThumbnails()
	ctx := context.Background()
	_, err := f.svc.OpenVideo(ctx, "short.mp4")
	require.NoError(t, err)

	markAt(t, f, 2, "Reach")
	mid := markAt(t, f, 4, "Grasp")
	markAt(t, f, 9, "Move")

	require.NoError(t, f.svc.DeleteEntry(ctx, mid.ID))
	require.Equal(t, []float64{7, 11}, durations(t, f.svc))
	require.ErrorIs(t, f.svc.DeleteEntry(ctx, mid.ID), observation.ErrEntryNotFound)

	n, err := f.svc.ClearEntries(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Empty(t, durations(t, f.svc))
}

func TestUpdateEntry(t *testing.T) {
	f := newFixture(t)
	f.noThumbnails()
	ctx := context.Background()
	_, err := f.svc.OpenVideo(ctx, "short.mp4")
	require.NoError(t, err)
	e := markAt(t, f, 2, "Reach")

	name, track := "Grasp", 3
	updated, err := f.svc.UpdateEntry(ctx, e.ID, study.EntryUpdate{ElementName: &name, Track: &track})
	require.NoError(t, err)
	require.Equal(t, "Grasp", updated.ElementName)
	require.Equal(t, 3, updated.Track)
	require.Equal(t, e.Timestamp, updated.Timestamp)

	bad := 6
	_, err = f.svc.UpdateEntry(ctx, e.ID, study.EntryUpdate{Track: &bad})
	require.ErrorIs(t, err, observation.ErrInvalidTrack)
}

func TestMarkAwayAndSummary(t *testing.T) {
	f := newFixture(t)
	f.noThumbnails()
	ctx := context.Background()
	_, err := f.svc.OpenVideo(ctx, "short.mp4")
	require.NoError(t, err)

	markAt(t, f, 0, "Reach")
	_, err = f.svc.Seek(ctx, 5)
	require.NoError(t, err)
	away, err := f.svc.MarkAway(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, observation.AwayElement, away.ElementName)
	require.Empty(t, away.Description)

	require.NoError(t, f.svc.RenameTrack(ctx, 1, "Operator"))
	report, err := f.svc.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, report.Tracks, 2)
	require.Equal(t, "Segment Totals: [M: 1 entries, 5.00s total, 5.00s avg] [1: 1 entries, 15.00s total, 15.00s avg]", report.StatusLine)
	require.Equal(t, "Operator", report.TrackNames[1])
	require.Equal(t, 20.0, report.Overall.TotalTime)
	require.Equal(t, "#9E9E9E", report.Colors[observation.AwayElement])
	require.Contains(t, report.Captions, 1)

	require.ErrorIs(t, f.svc.RenameTrack(ctx, 7, "x"), observation.ErrInvalidTrack)
}

func TestElementLibrary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SetElements(ctx, []string{" Reach ", "Grasp", "Reach", ""}))
	require.NoError(t, f.svc.AddElement(ctx, "Inspect"))
	require.NoError(t, f.svc.AddElement(ctx, "Grasp"))
	elements, err := f.svc.Elements(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Reach", "Grasp", "Inspect"}, elements)

	require.ErrorIs(t, f.svc.SetElements(ctx, []string{" "}), study.ErrInvalidInput)
}

func TestPlaybackControls(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.ErrorIs(t, f.svc.Play(ctx), study.ErrNoMedia)
	_, err := f.svc.OpenVideo(ctx, "a.mp4")
	require.NoError(t, err)

	st, err := f.svc.SetSpeed(ctx, 2)
	require.NoError(t, err)
	require.True(t, st.LowFidelity)
	require.Equal(t, 2.0, st.Speed)

	require.NoError(t, f.svc.Pause(ctx))
	st, err = f.svc.Status(ctx)
	require.NoError(t, err)
	require.False(t, st.Playing)
	require.False(t, st.LowFidelity)

	require.NoError(t, f.svc.TogglePlayback(ctx))
	st, err = f.svc.Step(ctx, timeline.SkipStep)
	require.NoError(t, err)
	require.True(t, st.Playing)
	require.InDelta(t, 10.0, st.Position, 1e-9)
	require.Equal(t, 300, st.Frame)

	st, err = f.svc.Step(ctx, -2*timeline.SkipStep)
	require.NoError(t, err)
	require.Zero(t, st.Position)

	_, err = f.svc.SetSpeed(ctx, 0)
	require.ErrorIs(t, err, study.ErrInvalidInput)
}

func TestTimelineZoom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.FitTimeline(ctx)
	require.ErrorIs(t, err, study.ErrNoMedia)

	_, err = f.svc.OpenVideo(ctx, "a.mp4")
	require.NoError(t, err)
	_, err = f.svc.AppendVideos(ctx, "b.mp4")
	require.NoError(t, err)

	st, err := f.svc.FitTimeline(ctx)
	require.NoError(t, err)
	require.InDelta(t, 0.7, st.Timeline.Zoom, 1e-9)

	st, err = f.svc.ZoomTimelineStep(ctx, true)
	require.NoError(t, err)
	require.InDelta(t, 1.05, st.Timeline.Zoom, 1e-9)

	st, err = f.svc.ZoomTimelineStep(ctx, false)
	require.NoError(t, err)
	require.InDelta(t, 0.8, st.Timeline.Zoom, 1e-9)

	st, err = f.svc.ZoomTimeline(ctx, 400, true)
	require.NoError(t, err)
	require.InDelta(t, 1.0, st.Timeline.Zoom, 1e-9)

	st, err = f.svc.ZoomPreview(ctx, viewport.Point{X: 320, Y: 180}, true)
	require.NoError(t, err)
	require.InDelta(t, 1.1, st.Preview.Zoom, 1e-9)
}

func TestTimelinePointer_DragSeeks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.OpenVideo(ctx, "a.mp4")
	require.NoError(t, err)

	st, err := f.svc.TimelinePointer(ctx, study.PointerEvent{Kind: study.PointerDown, X: 100})
	require.NoError(t, err)
	require.Equal(t, "armed", st.Scrub)
	require.False(t, st.Playing)
	require.InDelta(t, 10.0, st.Position, 1e-9)

	st, err = f.svc.TimelinePointer(ctx, study.PointerEvent{Kind: study.PointerMove, X: 300})
	require.NoError(t, err)
	require.Equal(t, "dragging", st.Scrub)
	require.True(t, st.LowFidelity)

	st, err = f.svc.TimelinePointer(ctx, study.PointerEvent{Kind: study.PointerUp})
	require.NoError(t, err)
	require.Equal(t, "idle", st.Scrub)
	require.InDelta(t, 30.0, st.Position, 1e-9)
	require.True(t, st.Playing)
	require.False(t, st.LowFidelity)

	_, err = f.svc.TimelinePointer(ctx, study.PointerEvent{Kind: "hover"})
	require.ErrorIs(t, err, study.ErrInvalidInput)
}

func TestTimelinePointer_IgnoredWithoutMedia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	st, err := f.svc.TimelinePointer(ctx, study.PointerEvent{Kind: study.PointerDown, X: 100})
	require.NoError(t, err)
	require.False(t, st.Loaded)
	require.Equal(t, "idle", st.Scrub)
	require.Zero(t, st.Position)

	st, err = f.svc.TimelinePointer(ctx, study.PointerEvent{Kind: study.PointerMove, X: 300})
	require.NoError(t, err)
	require.Equal(t, "idle", st.Scrub)
	require.False(t, st.LowFidelity)

	_, err = f.svc.OpenVideo(ctx, "a.mp4")
	require.NoError(t, err)
	st, err = f.svc.TimelinePointer(ctx, study.PointerEvent{Kind: study.PointerDown, X: 100})
	require.NoError(t, err)
	require.Equal(t, "armed", st.Scrub)
}

func TestSaveProject_TracksRevision(t *testing.T) {
	f := newFixture(t)
	f.noThumbnails()
	ctx := context.Background()
	_, err := f.svc.OpenVideo(ctx, "a.mp4")
	require.NoError(t, err)
	markAt(t, f, 4, "Reach")

	proj, err := f.svc.SaveProject(ctx, "Line 4")
	require.NoError(t, err)
	require.Equal(t, int64(1), proj.Revision)

	st, err := f.svc.Status(ctx)
	require.NoError(t, err)
	require.False(t, st.Dirty)
	require.Equal(t, proj.ID, st.Project.ID)

	markAt(t, f, 8, "Grasp")
	proj, err = f.svc.SaveProject(ctx, "")
	require.NoError(t, err)
	require.Equal(t, int64(2), proj.Revision)
	require.Equal(t, "Line 4", proj.Name)

	_, err = f.svc.OpenVideo(ctx, "b.mp4")
	require.NoError(t, err)
	result, err := f.svc.LoadProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Equal(t, 2, result.Entries)
	require.Equal(t, 2, result.MissingThumbnails)
	require.Equal(t, int64(2), result.Project.Revision)
	require.Equal(t, []float64{4, 52}, durations(t, f.svc))
}

func TestProjectFileRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.noThumbnails()
	ctx := context.Background()
	_, err := f.svc.OpenVideo(ctx, "a.mp4")
	require.NoError(t, err)
	markAt(t, f, 1.5, "Reach")
	require.NoError(t, f.svc.RenameTrack(ctx, 2, "Crane"))

	path, err := f.svc.SaveProjectFile(ctx, filepath.Join(t.TempDir(), "study"))
	require.NoError(t, err)
	require.Equal(t, project.FileExtension, filepath.Ext(path))

	_, err = f.svc.ClearEntries(ctx)
	require.NoError(t, err)

	result, err := f.svc.OpenProjectFile(ctx, path)
	require.NoError(t, err)
	require.Equal(t, 1, result.Entries)
	require.Equal(t, "study", result.Project.Name)
	require.Equal(t, path, result.Project.FilePath)

	report, err := f.svc.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, "Crane", report.TrackNames[2])

	st, err := f.svc.Status(ctx)
	require.NoError(t, err)
	require.False(t, st.Dirty)
	require.False(t, st.Playing)
}

func TestCSVExportImport(t *testing.T) {
	f := newFixture(t)
	f.noThumbnails()
	ctx := context.Background()
	_, err := f.svc.OpenVideo(ctx, "short.mp4")
	require.NoError(t, err)
	markAt(t, f, 2, "Reach")
	markAt(t, f, 12.5, "Grasp")

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "log.csv")
	n, err := f.svc.ExportCSV(ctx, csvPath)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = f.svc.ExportSpreadsheet(ctx, filepath.Join(dir, "log.xml"))
	require.NoError(t, err)
	require.Equal(t, 2, n)

	_, err = f.svc.SaveProjectFile(ctx, filepath.Join(dir, "study.vtsp"))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(csvPath, append(mustRead(t, csvPath), []byte("garbage,0,1,x,,,1,\n")...), 0o644))
	result, err := f.svc.ImportCSV(ctx, csvPath)
	require.NoError(t, err)
	require.Equal(t, 2, result.Imported)
	require.Equal(t, 1, result.Skipped)
	require.Equal(t, []float64{10.5, 7.5}, durations(t, f.svc))

	st, err := f.svc.Status(ctx)
	require.NoError(t, err)
	require.Empty(t, st.Project.FilePath)
	require.True(t, st.Dirty)
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestRegenerateThumbnails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	release := make(chan time.Time)
	f.capture.On("Capture", mock.Anything, "a.mp4", mock.Anything).WaitUntil(release).Return(nil, fmt.Errorf("busy")).Once()

	_, err := f.svc.OpenVideo(ctx, "a.mp4")
	require.NoError(t, err)
	markAt(t, f, 1, "Reach")
	close(release)
	require.NoError(t, f.svc.Settle(ctx))

	f.capture.On("Capture", mock.Anything, "a.mp4", mock.Anything).Return([]byte{7}, nil).Once()
	result, err := f.svc.RegenerateThumbnails(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, result.Regenerated)
	require.Zero(t, result.Failed)

	entries, err := f.svc.Entries(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte{7}, entries[0].Thumbnail)
}

func TestActivityRecorded(t *testing.T) {
	loop := eventloop.New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	repo := &mocks.ActivityRepository{}
	repo.On("Log", mock.Anything, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeVideoOpened
	})).Return(nil).Once()
	repo.On("List", mock.Anything, activity.ListActivityOptions{Limit: 5}).Return([]activity.ActivityEntry{{ActivityType: activity.TypeVideoOpened}}, nil)

	probe := &mocks.DurationProbe{}
	probe.On("Probe", mock.Anything, "a.mp4").Return(60.0, nil)

	svc := study.NewService(study.Deps{
		Loop:     loop,
		Player:   &fakePlayer{},
		Probe:    probe,
		Activity: activity.NewService(repo, nil),
	}, study.Options{PlaybackInterval: time.Hour}, nil)

	_, err := svc.OpenVideo(ctx, "a.mp4")
	require.NoError(t, err)
	list, err := svc.RecentActivity(ctx, 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	repo.AssertExpectations(t)
	require.NoError(t, svc.Close(ctx))
}
