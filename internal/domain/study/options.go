package study

import (
	"time"

	"github.com/rpggio/timestudy/internal/domain/scrub"
	"github.com/rpggio/timestudy/internal/domain/viewport"
)

const (
	DefaultPixelsPerSecond  = 10.0
	DefaultEdgeMargin       = 100.0
	DefaultFrameRate        = 30.0
	DefaultLowFidelitySpeed = 1.5
	DefaultPlaybackInterval = 100 * time.Millisecond
	DefaultRenderInterval   = 16 * time.Millisecond
	DefaultCaptureTimeout   = 10 * time.Second
	DefaultProbeConcurrency = 4

	fitPadding = 100.0
	maxSpeed   = 16.0
)

// Options configures a study session.
type Options struct {
	PixelsPerSecond  float64
	EdgeMargin       float64
	TimelineViewport viewport.Size
	TimelineLimits   viewport.Limits
	WheelFactor      float64
	PreviewViewport  viewport.Size
	PreviewContent   viewport.Size
	PreviewLimits    viewport.Limits
	PreviewStep      float64
	FrameRate        float64
	LowFidelitySpeed float64
	PlaybackInterval time.Duration
	RenderInterval   time.Duration
	CaptureTimeout   time.Duration
	ProbeConcurrency int
	Scrub            scrub.Options
}

func (o Options) withDefaults() Options {
	if o.PixelsPerSecond <= 0 {
		o.PixelsPerSecond = DefaultPixelsPerSecond
	}
	if o.EdgeMargin <= 0 {
		o.EdgeMargin = DefaultEdgeMargin
	}
	if o.TimelineViewport.Width <= 0 {
		o.TimelineViewport = viewport.Size{Width: 800, Height: 150}
	}
	if o.TimelineLimits.MinZoom <= 0 {
		o.TimelineLimits = viewport.TimelineLimits
	}
	if o.WheelFactor <= 1 {
		o.WheelFactor = viewport.TimelineWheelFactor
	}
	if o.PreviewViewport.Width <= 0 {
		o.PreviewViewport = viewport.Size{Width: 640, Height: 360}
	}
	if o.PreviewContent.Width <= 0 {
		o.PreviewContent = viewport.Size{Width: 1280, Height: 720}
	}
	if o.PreviewLimits.MinZoom <= 0 {
		o.PreviewLimits = viewport.PreviewLimits
	}
	if o.PreviewStep <= 0 {
		o.PreviewStep = viewport.PreviewZoomStep
	}
	if o.FrameRate <= 0 {
		o.FrameRate = DefaultFrameRate
	}
	if o.LowFidelitySpeed <= 0 {
		o.LowFidelitySpeed = DefaultLowFidelitySpeed
	}
	if o.PlaybackInterval <= 0 {
		o.PlaybackInterval = DefaultPlaybackInterval
	}
	if o.RenderInterval <= 0 {
		o.RenderInterval = DefaultRenderInterval
	}
	if o.CaptureTimeout <= 0 {
		o.CaptureTimeout = DefaultCaptureTimeout
	}
	if o.ProbeConcurrency <= 0 {
		o.ProbeConcurrency = DefaultProbeConcurrency
	}
	return o
}
