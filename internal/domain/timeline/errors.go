package timeline

import "errors"

var (
	// ErrInvalidDuration is returned when appending a segment whose duration is not positive.
	ErrInvalidDuration = errors.New("invalid segment duration")

	// ErrSegmentOutOfRange is returned for a segment index outside the index.
	ErrSegmentOutOfRange = errors.New("segment index out of range")

	// ErrNoMedia is returned when an operation needs a loaded video.
	ErrNoMedia = errors.New("no media loaded")
)

// ErrMediaOpen is returned when a source file cannot be opened or probed.
var ErrMediaOpen = errors.New("media open failed")
