package timeline

import "math"

// NoSegment is the Resolution index reported when no media is loaded.
const NoSegment = -1

// Segment is one source video occupying a contiguous range of the
// virtual timeline.
type Segment struct {
	FilePath  string  `json:"file_path"`
	StartTime float64 `json:"start_time"`
	Duration  float64 `json:"duration"`
}

// EndTime is the exclusive end of the segment on the virtual timeline.
func (s Segment) EndTime() float64 {
	return s.StartTime + s.Duration
}

// Renderable reports whether the segment spans at least one millisecond.
// Shorter segments keep their slot for ordering but draw nothing.
func (s Segment) Renderable() bool {
	return math.Round(s.Duration*1000) > 0
}

// Resolution locates a virtual timeline position inside a segment.
type Resolution struct {
	Index  int     `json:"index"`
	Offset float64 `json:"offset"`
}

// HasMedia reports whether the resolution points at a real segment.
func (r Resolution) HasMedia() bool {
	return r.Index != NoSegment
}
