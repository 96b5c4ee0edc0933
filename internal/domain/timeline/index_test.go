package timeline_test

import (
	"math/rand"
	"testing"

	"github.com/rpggio/timestudy/internal/domain/timeline"
	"github.com/stretchr/testify/require"
)

func TestIndex_ResolveTwoSegments(t *testing.T) {
	idx := timeline.NewIndex()
	_, err := idx.AppendSegment("a.mp4", 60)
	require.NoError(t, err)
	seg, err := idx.AppendSegment("b.mp4", 40)
	require.NoError(t, err)
	require.Equal(t, 60.0, seg.StartTime)
	require.Equal(t, 100.0, idx.Total())

	res := idx.Resolve(59.9)
	require.Equal(t, 0, res.Index)
	require.InDelta(t, 59.9, res.Offset, 1e-9)

	res = idx.Resolve(60)
	require.Equal(t, 1, res.Index)
	require.InDelta(t, 0, res.Offset, 1e-9)

	res = idx.Resolve(150)
	require.Equal(t, 1, res.Index)
	require.InDelta(t, 40, res.Offset, 1e-9)
}

func TestIndex_AppendRejectsNonPositive(t *testing.T) {
	idx := timeline.NewIndex()
	for _, d := range []float64{0, -1} {
		_, err := idx.AppendSegment("x.mp4", d)
		require.ErrorIs(t, err, timeline.ErrInvalidDuration)
	}
	require.Zero(t, idx.Len())
	require.Zero(t, idx.Total())
}

func TestIndex_ResolveWithoutMedia(t *testing.T) {
	idx := timeline.NewIndex()
	res := idx.Resolve(12.5)
	require.False(t, res.HasMedia())
	require.Equal(t, timeline.NoSegment, res.Index)
	require.Equal(t, 12.5, res.Offset)
}

func TestIndex_ResolveIsTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	idx := timeline.NewIndex()
	for i := 0; i < 8; i++ {
		_, err := idx.AppendSegment("seg.mp4", 0.5+rng.Float64()*90)
		require.NoError(t, err)
	}
	segs := idx.Segments()
	for i := 1; i < len(segs); i++ {
		require.Equal(t, segs[i-1].EndTime(), segs[i].StartTime)
	}

	for i := 0; i < 2000; i++ {
		g := rng.Float64() * idx.Total()
		res := idx.Resolve(g)
		require.True(t, res.HasMedia())
		seg := segs[res.Index]
		require.LessOrEqual(t, seg.StartTime, g)
		require.Less(t, g, seg.EndTime())

		back, err := idx.GlobalTimeFor(res.Index, res.Offset)
		require.NoError(t, err)
		require.InDelta(t, g, back, 1e-9)
	}
}

func TestIndex_GlobalTimeForOutOfRange(t *testing.T) {
	idx := timeline.NewIndex()
	_, err := idx.GlobalTimeFor(0, 1)
	require.ErrorIs(t, err, timeline.ErrSegmentOutOfRange)
}

func TestIndex_ReplaceRebuildsStarts(t *testing.T) {
	idx := timeline.NewIndex()
	require.NoError(t, idx.Replace([]timeline.Segment{
		{FilePath: "a.mp4", StartTime: 999, Duration: 10},
		{FilePath: "b.mp4", StartTime: 3, Duration: 5},
	}))
	segs := idx.Segments()
	require.Equal(t, 0.0, segs[0].StartTime)
	require.Equal(t, 10.0, segs[1].StartTime)
	require.Equal(t, 15.0, idx.Total())

	err := idx.Replace([]timeline.Segment{{FilePath: "bad.mp4", Duration: 0}})
	require.ErrorIs(t, err, timeline.ErrInvalidDuration)
	require.Equal(t, 15.0, idx.Total())
}

func TestSegment_Renderable(t *testing.T) {
	require.True(t, timeline.Segment{Duration: 0.002}.Renderable())
	require.False(t, timeline.Segment{Duration: 0.0004}.Renderable())
}
