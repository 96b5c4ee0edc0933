package scrub

import "time"

// Seeker applies a virtual timeline position.
type Seeker interface {
	Seek(seconds float64)
}

// Clock is the autoplay clock suspended for the duration of a gesture.
type Clock interface {
	Running() bool
	Start()
	Stop()
}

// Playback toggles play/pause on double-click.
type Playback interface {
	TogglePlayback()
}

// Surface is the timeline region receiving pointer input.
type Surface interface {
	Capture()
	Release()
	SetLowFidelity(on bool)
}

// Scroller moves the timeline's primary and label regions together.
type Scroller interface {
	ScrollOffset() float64
	ScrollTo(offset float64)
}

// Scale converts a pointer x coordinate on the timeline to seconds.
type Scale interface {
	TimeAt(x float64) float64
}

// Timer is a running periodic callback.
type Timer interface {
	Stop()
}

// Scheduler runs periodic callbacks on the owning event loop.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Timer
}
