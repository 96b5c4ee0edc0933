package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/timestudy/internal/domain/observation"
	"github.com/rpggio/timestudy/internal/domain/project"
	"github.com/rpggio/timestudy/internal/domain/timeline"
	"github.com/rpggio/timestudy/internal/repository"
	"github.com/stretchr/testify/require"
)

func testDocument(elements ...string) *project.Document {
	segments := []timeline.Segment{{FilePath: "line.mp4", Duration: 90}}
	entries := []observation.Entry{
		{Timestamp: 5 * time.Second, DurationSeconds: 10, ElementName: "Reach", People: "1"},
		{Timestamp: 15 * time.Second, DurationSeconds: 75, ElementName: "Grasp", People: "2", Track: 2},
	}
	return project.FromState(segments, entries, observation.DefaultTrackNames(), elements)
}

func testProject(id, name string, updated time.Time) *project.Project {
	doc := testDocument("Reach", "Grasp")
	return &project.Project{
		ID:            id,
		Name:          name,
		PrimaryVideo:  doc.PrimaryVideo(),
		EntryCount:    len(doc.TimeStudyEntries),
		TotalDuration: 90,
		Revision:      1,
		CreatedAt:     updated,
		UpdatedAt:     updated,
		Document:      doc,
	}
}

func TestProjectRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := testProject("p1", "Line study", time.Now())
	require.NoError(t, repo.Create(ctx, proj))

	retrieved, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "Line study", retrieved.Name)
	require.Equal(t, "line.mp4", retrieved.PrimaryVideo)
	require.Equal(t, 2, retrieved.EntryCount)
	require.Equal(t, 90.0, retrieved.TotalDuration)
	require.Equal(t, int64(1), retrieved.Revision)
	require.NotNil(t, retrieved.Document)

	entries, skipped := retrieved.Document.Entries()
	require.Zero(t, skipped)
	require.Len(t, entries, 2)
	require.Equal(t, 15*time.Second, entries[1].Timestamp)
	require.Equal(t, 2, entries[1].Track)
	require.Equal(t, []string{"Reach", "Grasp"}, retrieved.Document.Elements())
}

func TestProjectRepository_CreateDuplicate(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testProject("p1", "First", time.Now())))
	err := repo.Create(ctx, testProject("p1", "Second", time.Now()))
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestProjectRepository_CreateRequiresDocument(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	proj := testProject("p1", "Empty", time.Now())
	proj.Document = nil
	err := repo.Create(context.Background(), proj)
	require.ErrorIs(t, err, project.ErrInvalidDocument)
}

func TestProjectRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	_, err := repo.Get(context.Background(), "nonexistent")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_Update(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := testProject("p1", "Line study", time.Now())
	require.NoError(t, repo.Create(ctx, proj))

	proj.Name = "Line study v2"
	proj.Document = testDocument("Reach", "Grasp", "Move")
	proj.Revision = 2
	proj.UpdatedAt = time.Now()
	require.NoError(t, repo.Update(ctx, proj, 1))

	retrieved, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "Line study v2", retrieved.Name)
	require.Equal(t, int64(2), retrieved.Revision)
	require.Equal(t, []string{"Reach", "Grasp", "Move"}, retrieved.Document.Elements())
}

func TestProjectRepository_UpdateStaleRevision(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := testProject("p1", "Line study", time.Now())
	require.NoError(t, repo.Create(ctx, proj))

	proj.Revision = 2
	require.NoError(t, repo.Update(ctx, proj, 1))

	// A second writer still holding revision 1.
	proj.Revision = 2
	err := repo.Update(ctx, proj, 1)
	require.ErrorIs(t, err, repository.ErrConflict)

	proj.ID = "missing"
	err = repo.Update(ctx, proj, 1)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_List(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	summaries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, summaries)

	base := time.Now()
	require.NoError(t, repo.Create(ctx, testProject("p1", "Older", base.Add(-time.Hour))))
	require.NoError(t, repo.Create(ctx, testProject("p2", "Newer", base)))

	summaries, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	require.Equal(t, "p2", summaries[0].ID)
	require.Equal(t, "p1", summaries[1].ID)
	require.Equal(t, 2, summaries[0].EntryCount)
	require.Equal(t, "line.mp4", summaries[0].PrimaryVideo)
}

func TestProjectRepository_Delete(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	activityRepo := NewActivityRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testProject("p1", "Line study", time.Now())))
	require.NoError(t, activityRepo.Log(ctx, testActivity("p1", "Saved")))

	require.NoError(t, repo.Delete(ctx, "p1"))

	_, err := repo.Get(ctx, "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM activity_log`).Scan(&count))
	require.Zero(t, count, "activity should be removed with its project")

	require.ErrorIs(t, repo.Delete(ctx, "p1"), repository.ErrNotFound)
}
