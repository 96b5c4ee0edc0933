package scrub

import (
	"log/slog"
	"math"
	"time"
)

// State is the gesture state of the controller.
type State int

const (
	// Idle means no gesture is in progress.
	Idle State = iota
	// ArmedPending means the button is down and the pointer has not yet
	// moved past the drag threshold. Releasing here is a click.
	ArmedPending
	// Dragging means the pointer crossed the threshold and moves seek,
	// coalesced by the throttle timer.
	Dragging
	// Panning means a middle-button drag is scrolling the timeline.
	Panning
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ArmedPending:
		return "armed"
	case Dragging:
		return "dragging"
	case Panning:
		return "panning"
	default:
		return "unknown"
	}
}

const (
	// DefaultThreshold is the pointer travel in pixels that turns a
	// press into a drag.
	DefaultThreshold = 3.0
	// DefaultDoubleClickWindow is the longest gap between two presses
	// that still counts as a double click.
	DefaultDoubleClickWindow = 500 * time.Millisecond
	// DefaultThrottleInterval is how often pending drag seeks are applied.
	DefaultThrottleInterval = 16 * time.Millisecond
)

// Point is a pointer position in timeline pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Options tunes gesture recognition. Zero values select the defaults.
type Options struct {
	Threshold         float64
	DoubleClickWindow time.Duration
	ThrottleInterval  time.Duration
	Now               func() time.Time
}

// Deps are the collaborators the controller drives.
type Deps struct {
	Seeker    Seeker
	Clock     Clock
	Playback  Playback
	Surface   Surface
	Scroller  Scroller
	Scale     Scale
	Scheduler Scheduler
}

// Controller converts raw timeline pointer input into throttled seeks.
// All methods must be called from the owning event loop.
type Controller struct {
	deps   Deps
	opts   Options
	logger *slog.Logger

	state         State
	start         Point
	resumeClock   bool
	throttle      Timer
	pending       float64
	hasPending    bool
	lastDown      time.Time
	panStart      Point
	panStartValue float64
}

// NewController creates an idle controller.
func NewController(deps Deps, opts Options, logger *slog.Logger) *Controller {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.DoubleClickWindow <= 0 {
		opts.DoubleClickWindow = DefaultDoubleClickWindow
	}
	if opts.ThrottleInterval <= 0 {
		opts.ThrottleInterval = DefaultThrottleInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{deps: deps, opts: opts, logger: logger}
}

// State returns the current gesture state.
func (c *Controller) State() State { return c.state }

// PointerDown handles a primary button press.
func (c *Controller) PointerDown(p Point) {
	if c.state != Idle {
		return
	}
	now := c.opts.Now()
	if !c.lastDown.IsZero() && now.Sub(c.lastDown) <= c.opts.DoubleClickWindow {
		c.lastDown = time.Time{}
		c.deps.Playback.TogglePlayback()
		return
	}
	c.lastDown = now

	c.deps.Seeker.Seek(c.deps.Scale.TimeAt(p.X))
	c.start = p
	c.deps.Surface.Capture()
	c.resumeClock = c.deps.Clock.Running()
	if c.resumeClock {
		c.deps.Clock.Stop()
	}
	c.state = ArmedPending
}

// PointerMove handles pointer motion in any state.
func (c *Controller) PointerMove(p Point) {
	switch c.state {
	case ArmedPending:
		if math.Hypot(p.X-c.start.X, p.Y-c.start.Y) < c.opts.Threshold {
			return
		}
		c.deps.Surface.SetLowFidelity(true)
		c.throttle = c.deps.Scheduler.Every(c.opts.ThrottleInterval, c.Tick)
		c.state = Dragging
		c.setPending(p)
	case Dragging:
		c.setPending(p)
	case Panning:
		c.deps.Scroller.ScrollTo(c.panStartValue + (c.panStart.X - p.X))
	}
}

func (c *Controller) setPending(p Point) {
	c.pending = c.deps.Scale.TimeAt(p.X)
	c.hasPending = true
}

// Tick applies the latest pending position. It runs on the throttle clock.
func (c *Controller) Tick() {
	if c.state != Dragging || !c.hasPending {
		return
	}
	c.flush()
}

func (c *Controller) flush() {
	if !c.hasPending {
		return
	}
	pos := c.pending
	c.hasPending = false
	c.deps.Seeker.Seek(pos)
}

// PointerUp ends a click or drag.
func (c *Controller) PointerUp() {
	if c.state != ArmedPending && c.state != Dragging {
		return
	}
	c.finishGesture()
}

// CaptureLost ends the gesture when pointer capture is taken away.
func (c *Controller) CaptureLost() {
	switch c.state {
	case ArmedPending, Dragging:
		c.logger.Debug("scrub capture lost", "state", c.state.String())
		c.finishGesture()
	case Panning:
		c.state = Idle
	}
}

func (c *Controller) finishGesture() {
	dragging := c.state == Dragging
	c.state = Idle
	c.deps.Surface.Release()
	c.flush()
	if c.throttle != nil {
		c.throttle.Stop()
		c.throttle = nil
	}
	if dragging {
		c.deps.Surface.SetLowFidelity(false)
	}
	if c.resumeClock {
		c.resumeClock = false
		c.deps.Clock.Start()
	}
}

// MiddleDown starts a timeline pan.
func (c *Controller) MiddleDown(p Point) {
	if c.state != Idle {
		return
	}
	c.panStart = p
	c.panStartValue = c.deps.Scroller.ScrollOffset()
	c.state = Panning
}

// MiddleUp ends a timeline pan.
func (c *Controller) MiddleUp() {
	if c.state == Panning {
		c.state = Idle
	}
}
