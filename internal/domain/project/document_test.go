package project_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rpggio/timestudy/internal/domain/observation"
	"github.com/rpggio/timestudy/internal/domain/project"
	"github.com/rpggio/timestudy/internal/domain/timeline"
	"github.com/stretchr/testify/require"
)

func TestDocument_FileRoundTrip(t *testing.T) {
	segments := []timeline.Segment{{FilePath: "a.mp4", Duration: 60}, {FilePath: "b.mp4", StartTime: 60, Duration: 40}}
	entries := []observation.Entry{
		{Timestamp: 5 * time.Second, DurationSeconds: 7.25, ElementName: "Reach", People: "2", Track: 1, Thumbnail: []byte{0xff, 0xd8, 0x01}},
		{Timestamp: 12250 * time.Millisecond, DurationSeconds: 87.75, ElementName: "Grasp", People: "1", Category: "VA"},
	}
	names := observation.DefaultTrackNames()
	names[1] = "Operator"

	doc := project.FromState(segments, entries, names, []string{"Reach", "Grasp"})
	path := filepath.Join(t.TempDir(), "study"+project.FileExtension)
	require.NoError(t, project.WriteFile(path, doc))

	loaded, err := project.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "a.mp4", loaded.PrimaryVideo())
	require.Equal(t, segments, loaded.Segments())
	require.Equal(t, "Operator", loaded.TrackNames()[1])
	require.Equal(t, []string{"Reach", "Grasp"}, loaded.Elements())

	got, skipped := loaded.Entries()
	require.Zero(t, skipped)
	require.Len(t, got, 2)
	require.Equal(t, entries[0].Timestamp, got[0].Timestamp)
	require.Equal(t, entries[0].Thumbnail, got[0].Thumbnail)
	require.Equal(t, 1, got[0].Track)
	require.Equal(t, entries[1].Timestamp, got[1].Timestamp)
	require.Nil(t, got[1].Thumbnail)
	require.Equal(t, "VA", got[1].Category)
}

func TestDocument_SkipsBadTimestamps(t *testing.T) {
	bad := "not-base64!"
	doc, err := project.Unmarshal([]byte(`{
		"videoSegments": [{"filePath": "a.mp4", "startTime": 0, "duration": 30}],
		"timeStudyEntries": [
			{"timestamp": "00:00:01", "timeInSeconds": 2, "people": "", "segment": 9},
			{"timestamp": "garbage", "timeInSeconds": 1},
			{"timestamp": "00:00:03", "timeInSeconds": 27, "thumbnailBase64": "` + bad + `"}
		]
	}`))
	require.NoError(t, err)

	entries, skipped := doc.Entries()
	require.Equal(t, 1, skipped)
	require.Len(t, entries, 2)
	require.Equal(t, observation.DefaultPeople, entries[0].People)
	require.Equal(t, 0, entries[0].Track)
	require.Nil(t, entries[1].Thumbnail)
	require.Equal(t, observation.DefaultElements, doc.Elements())
	require.Equal(t, "Seg M", doc.TrackNames()[0])
}

func TestDocument_UnmarshalInvalid(t *testing.T) {
	_, err := project.Unmarshal([]byte("{"))
	require.ErrorIs(t, err, project.ErrInvalidDocument)
}
