package timeline

import (
	"fmt"
	"math"
	"sort"
)

// Index maps a continuous virtual position across concatenated segments.
type Index struct {
	segments []Segment
	total    float64
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{}
}

// AppendSegment adds a segment starting at the current total duration.
func (x *Index) AppendSegment(path string, duration float64) (Segment, error) {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return Segment{}, fmt.Errorf("%w: %v for %q", ErrInvalidDuration, duration, path)
	}
	seg := Segment{FilePath: path, StartTime: x.total, Duration: duration}
	x.segments = append(x.segments, seg)
	x.total += duration
	return seg, nil
}

// Replace reassigns the whole segment sequence. Start times are rebuilt
// from the durations so the sequence stays contiguous.
func (x *Index) Replace(segments []Segment) error {
	rebuilt := make([]Segment, 0, len(segments))
	total := 0.0
	for _, seg := range segments {
		if seg.Duration <= 0 || math.IsNaN(seg.Duration) || math.IsInf(seg.Duration, 0) {
			return fmt.Errorf("%w: %v for %q", ErrInvalidDuration, seg.Duration, seg.FilePath)
		}
		rebuilt = append(rebuilt, Segment{FilePath: seg.FilePath, StartTime: total, Duration: seg.Duration})
		total += seg.Duration
	}
	x.segments = rebuilt
	x.total = total
	return nil
}

// Reset removes every segment.
func (x *Index) Reset() {
	x.segments = nil
	x.total = 0
}

// Total is the sum of all segment durations.
func (x *Index) Total() float64 { return x.total }

// Len returns the number of segments.
func (x *Index) Len() int { return len(x.segments) }

// Segments returns a copy of the segment sequence.
func (x *Index) Segments() []Segment {
	out := make([]Segment, len(x.segments))
	copy(out, x.segments)
	return out
}

// Segment returns the segment at i.
func (x *Index) Segment(i int) (Segment, error) {
	if i < 0 || i >= len(x.segments) {
		return Segment{}, fmt.Errorf("%w: %d", ErrSegmentOutOfRange, i)
	}
	return x.segments[i], nil
}

// Resolve finds the segment containing global. Positions at or past the
// end clamp to the end of the last segment; negative positions clamp to
// the start. With no segments the position passes through unchanged.
func (x *Index) Resolve(global float64) Resolution {
	n := len(x.segments)
	if n == 0 {
		return Resolution{Index: NoSegment, Offset: global}
	}
	if global >= x.total {
		last := x.segments[n-1]
		return Resolution{Index: n - 1, Offset: last.Duration}
	}
	if global < 0 {
		global = 0
	}
	i := sort.Search(n, func(i int) bool { return x.segments[i].EndTime() > global })
	if i == n {
		i = n - 1
	}
	return Resolution{Index: i, Offset: global - x.segments[i].StartTime}
}

// GlobalTimeFor converts a segment-local offset back to a virtual position.
func (x *Index) GlobalTimeFor(i int, local float64) (float64, error) {
	seg, err := x.Segment(i)
	if err != nil {
		return 0, err
	}
	return seg.StartTime + local, nil
}
