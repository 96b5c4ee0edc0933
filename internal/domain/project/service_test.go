package project_test

import (
	"context"
	"testing"

	"github.com/rpggio/timestudy/internal/domain/project"
	"github.com/rpggio/timestudy/internal/repository"
	"github.com/rpggio/timestudy/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *project.Document {
	return &project.Document{
		VideoSegments: []project.SegmentData{
			{FilePath: "a.mp4", StartTime: 0, Duration: 60},
			{FilePath: "b.mp4", StartTime: 60, Duration: 40},
		},
		TimeStudyEntries: []project.EntryData{{Timestamp: "00:00:05", TimeInSeconds: 5, People: "1"}},
	}
}

func TestProjectService_SaveCreates(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Create", ctx, mock.AnythingOfType("*project.Project")).Return(nil)

	svc := project.NewService(repo, nil)
	proj, err := svc.Save(ctx, project.SaveRequest{Name: " Line 4 ", Document: sampleDocument()})
	require.NoError(t, err)
	require.NotEmpty(t, proj.ID)
	require.Equal(t, "Line 4", proj.Name)
	require.Equal(t, int64(1), proj.Revision)
	require.Equal(t, "a.mp4", proj.PrimaryVideo)
	require.Equal(t, 1, proj.EntryCount)
	require.Equal(t, 100.0, proj.TotalDuration)
	repo.AssertExpectations(t)
}

func TestProjectService_SaveUpdatesWithRevision(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Update", ctx, mock.AnythingOfType("*project.Project"), int64(3)).Return(nil)

	svc := project.NewService(repo, nil)
	proj, err := svc.Save(ctx, project.SaveRequest{ID: "p1", Name: "Line", ExpectedRevision: 3, Document: sampleDocument()})
	require.NoError(t, err)
	require.Equal(t, int64(4), proj.Revision)
}

func TestProjectService_SaveConflict(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Update", ctx, mock.Anything, int64(1)).Return(repository.ErrConflict)

	svc := project.NewService(repo, nil)
	_, err := svc.Save(ctx, project.SaveRequest{ID: "p1", Name: "Line", ExpectedRevision: 1, Document: sampleDocument()})
	require.ErrorIs(t, err, project.ErrConflict)
}

func TestProjectService_SaveValidation(t *testing.T) {
	svc := project.NewService(&mocks.ProjectRepository{}, nil)
	_, err := svc.Save(context.Background(), project.SaveRequest{Name: "", Document: sampleDocument()})
	require.ErrorIs(t, err, project.ErrInvalidInput)
	_, err = svc.Save(context.Background(), project.SaveRequest{Name: "x"})
	require.ErrorIs(t, err, project.ErrInvalidInput)
}

func TestProjectService_GetNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, "missing").Return((*project.Project)(nil), repository.ErrNotFound)

	svc := project.NewService(repo, nil)
	_, err := svc.Get(ctx, "missing")
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}
