package mocks

import (
	"context"

	"github.com/rpggio/timestudy/internal/domain/activity"
	"github.com/rpggio/timestudy/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, proj *project.Project, expectedRevision int64) error {
	args := m.Called(ctx, proj, expectedRevision)
	return args.Error(0)
}

func (m *ProjectRepository) List(ctx context.Context) ([]project.ProjectSummary, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.ProjectSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Player is a mock for timeline.Player.
type Player struct {
	mock.Mock
}

func (m *Player) LoadSource(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *Player) Play()  { m.Called() }
func (m *Player) Pause() { m.Called() }

func (m *Player) Seek(local float64) { m.Called(local) }

func (m *Player) Position() float64 {
	args := m.Called()
	return args.Get(0).(float64)
}

func (m *Player) NaturalDuration() float64 {
	args := m.Called()
	return args.Get(0).(float64)
}

func (m *Player) SetSpeed(ratio float64) { m.Called(ratio) }

// DurationProbe is a mock for study.DurationProbe.
type DurationProbe struct {
	mock.Mock
}

func (m *DurationProbe) Probe(ctx context.Context, path string) (float64, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(float64), args.Error(1)
}

// FrameCapture is a mock for study.FrameCapture.
type FrameCapture struct {
	mock.Mock
}

func (m *FrameCapture) Capture(ctx context.Context, path string, offset float64) ([]byte, error) {
	args := m.Called(ctx, path, offset)
	if data, ok := args.Get(0).([]byte); ok {
		return data, args.Error(1)
	}
	return nil, args.Error(1)
}
