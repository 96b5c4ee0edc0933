package timeline_test

import (
	"errors"
	"testing"

	"github.com/rpggio/timestudy/internal/domain/timeline"
	"github.com/rpggio/timestudy/internal/repository/mocks"
	"github.com/stretchr/testify/require"
)

func twoSegmentIndex(t *testing.T) *timeline.Index {
	t.Helper()
	idx := timeline.NewIndex()
	_, err := idx.AppendSegment("a.mp4", 60)
	require.NoError(t, err)
	_, err = idx.AppendSegment("b.mp4", 40)
	require.NoError(t, err)
	return idx
}

func TestNavigator_SeekSwitchesSegment(t *testing.T) {
	idx := twoSegmentIndex(t)
	player := &mocks.Player{}
	player.On("LoadSource", "a.mp4").Return(nil).Once()
	player.On("Seek", 10.0).Once()
	player.On("Seek", 20.0).Once()
	player.On("LoadSource", "b.mp4").Return(nil).Once()
	player.On("Seek", 5.0).Once()

	nav := timeline.NewNavigator(idx, player, nil)
	require.NoError(t, nav.Seek(10))
	require.Equal(t, 0, nav.Active())

	require.NoError(t, nav.Seek(20))
	require.Equal(t, 0, nav.Active())

	require.NoError(t, nav.Seek(65))
	require.Equal(t, 1, nav.Active())

	player.AssertExpectations(t)
}

func TestNavigator_LoadFailureDetaches(t *testing.T) {
	idx := twoSegmentIndex(t)
	player := &mocks.Player{}
	player.On("LoadSource", "b.mp4").Return(errors.New("codec")).Once()

	nav := timeline.NewNavigator(idx, player, nil)
	err := nav.Seek(70)
	require.Error(t, err)
	require.Equal(t, timeline.NoSegment, nav.Active())
	player.AssertExpectations(t)
}

func TestNavigator_PositionIsGlobal(t *testing.T) {
	idx := twoSegmentIndex(t)
	player := &mocks.Player{}
	player.On("LoadSource", "b.mp4").Return(nil)
	player.On("Seek", 12.0)
	player.On("Position").Return(12.0)

	nav := timeline.NewNavigator(idx, player, nil)
	require.NoError(t, nav.Activate(1, 12))
	require.Equal(t, 72.0, nav.Position())
}

func TestNavigator_StepClamps(t *testing.T) {
	idx := twoSegmentIndex(t)
	player := &mocks.Player{}
	player.On("LoadSource", "a.mp4").Return(nil)
	player.On("Seek", 3.0).Once()
	player.On("Position").Return(3.0)
	player.On("Seek", 0.0).Once()

	nav := timeline.NewNavigator(idx, player, nil)
	require.NoError(t, nav.Activate(0, 3))
	require.NoError(t, nav.Step(-timeline.SkipStep))
	player.AssertExpectations(t)
}

func TestNavigator_AdvanceAtEndOfSegment(t *testing.T) {
	idx := twoSegmentIndex(t)
	player := &mocks.Player{}
	player.On("LoadSource", "a.mp4").Return(nil)
	player.On("Seek", 59.0).Once()
	player.On("Position").Return(59.0).Once()

	nav := timeline.NewNavigator(idx, player, nil)
	require.NoError(t, nav.Activate(0, 59))

	switched, err := nav.Advance()
	require.NoError(t, err)
	require.False(t, switched)

	player.On("Position").Return(60.0).Once()
	player.On("LoadSource", "b.mp4").Return(nil)
	player.On("Seek", 0.0).Once()

	switched, err = nav.Advance()
	require.NoError(t, err)
	require.True(t, switched)
	require.Equal(t, 1, nav.Active())
}

func TestNavigator_NoMediaPassThrough(t *testing.T) {
	player := &mocks.Player{}
	player.On("Seek", 4.0).Once()
	player.On("Position").Return(4.0)

	nav := timeline.NewNavigator(timeline.NewIndex(), player, nil)
	require.NoError(t, nav.Seek(4))
	require.Equal(t, 4.0, nav.Position())
	player.AssertExpectations(t)
}
