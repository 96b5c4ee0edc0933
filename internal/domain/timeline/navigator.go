package timeline

import (
	"fmt"
	"log/slog"
)

const (
	// FrameStep is one frame at the nominal 30 fps.
	FrameStep = 1.0 / 30.0
	// SkipStep is the rewind/fast-forward distance.
	SkipStep = 10.0
)

// Navigator applies virtual timeline positions to a Player, switching the
// loaded source when a position resolves into another segment.
type Navigator struct {
	index  *Index
	player Player
	active int
	logger *slog.Logger
}

// NewNavigator binds an index to a player. No segment is active yet.
func NewNavigator(index *Index, player Player, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Navigator{index: index, player: player, active: NoSegment, logger: logger}
}

// Active returns the index of the loaded segment, or NoSegment.
func (n *Navigator) Active() int { return n.active }

// Detach forgets the active segment, e.g. after a failed load.
func (n *Navigator) Detach() { n.active = NoSegment }

// Activate loads segment i and seeks to local.
func (n *Navigator) Activate(i int, local float64) error {
	seg, err := n.index.Segment(i)
	if err != nil {
		return err
	}
	if h, ok := n.player.(DurationHinter); ok {
		h.HintDuration(seg.FilePath, seg.Duration)
	}
	if err := n.player.LoadSource(seg.FilePath); err != nil {
		n.active = NoSegment
		return fmt.Errorf("loading %q: %w", seg.FilePath, err)
	}
	n.active = i
	n.player.Seek(local)
	n.logger.Debug("segment switch", "segment", i, "path", seg.FilePath, "offset", local)
	return nil
}

// Seek moves to a virtual position. A position in another segment loads
// that segment's file first; same-segment moves are a plain seek.
func (n *Navigator) Seek(global float64) error {
	res := n.index.Resolve(global)
	if !res.HasMedia() {
		n.player.Seek(res.Offset)
		return nil
	}
	if res.Index != n.active {
		return n.Activate(res.Index, res.Offset)
	}
	n.player.Seek(res.Offset)
	return nil
}

// Position returns the current virtual position.
func (n *Navigator) Position() float64 {
	local := n.player.Position()
	if n.active == NoSegment {
		return local
	}
	global, err := n.index.GlobalTimeFor(n.active, local)
	if err != nil {
		return local
	}
	return global
}

// Step moves by delta seconds, clamped to [0, total].
func (n *Navigator) Step(delta float64) error {
	target := n.Position() + delta
	if target < 0 {
		target = 0
	}
	if total := n.index.Total(); total > 0 && target > total {
		target = total
	}
	return n.Seek(target)
}

// Advance moves playback into the next segment once the active file has
// reached its end. It reports whether a switch happened.
func (n *Navigator) Advance() (bool, error) {
	if n.active == NoSegment || n.active >= n.index.Len()-1 {
		return false, nil
	}
	seg, err := n.index.Segment(n.active)
	if err != nil {
		return false, err
	}
	if n.player.Position() < seg.Duration-FrameStep/2 {
		return false, nil
	}
	if err := n.Activate(n.active+1, 0); err != nil {
		return false, err
	}
	return true, nil
}
