package viewport

// Point is a 2D coordinate in either viewport or content space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Limits bounds the zoom factor of a Transform.
type Limits struct {
	MinZoom float64 `json:"min_zoom"`
	MaxZoom float64 `json:"max_zoom"`
}

// PreviewLimits are the zoom bounds of the video preview pane.
var PreviewLimits = Limits{MinZoom: 0.1, MaxZoom: 4.0}

// TimelineLimits are the zoom bounds of the timeline pane.
var TimelineLimits = Limits{MinZoom: 0.01, MaxZoom: 10}

const (
	// PreviewZoomStep is the additive zoom applied per wheel notch on the preview.
	PreviewZoomStep = 0.1
	// TimelineWheelFactor is the multiplicative zoom per wheel notch on the timeline.
	TimelineWheelFactor = 1.25
	// TimelineStepFactor is used by the explicit zoom in/out commands.
	TimelineStepFactor = 1.5
)

// State is a read-only snapshot of a Transform.
type State struct {
	Zoom     float64 `json:"zoom"`
	OffsetX  float64 `json:"offset_x"`
	OffsetY  float64 `json:"offset_y"`
	Content  Size    `json:"content"`
	Viewport Size    `json:"viewport"`
}
