package viewport

import "math"

const zoomEpsilon = 1e-6

// Transform maps between a bounded viewport window and a larger content
// space. Offsets are expressed in scaled content pixels and never reveal
// empty space beyond the content edges.
type Transform struct {
	limits   Limits
	zoom     float64
	offsetX  float64
	offsetY  float64
	content  Size
	viewport Size
}

// New creates a transform at zoom 1 with no offset. A zero Limits value
// falls back to PreviewLimits.
func New(limits Limits, viewportSize, contentSize Size) *Transform {
	if limits.MinZoom <= 0 || limits.MaxZoom < limits.MinZoom {
		limits = PreviewLimits
	}
	t := &Transform{
		limits:   limits,
		zoom:     clamp(1, limits.MinZoom, limits.MaxZoom),
		content:  contentSize,
		viewport: viewportSize,
	}
	return t
}

// Zoom returns the current scale factor.
func (t *Transform) Zoom() float64 { return t.zoom }

// OffsetX returns the horizontal pan in content pixels.
func (t *Transform) OffsetX() float64 { return t.offsetX }

// OffsetY returns the vertical pan in content pixels.
func (t *Transform) OffsetY() float64 { return t.offsetY }

// Limits returns the zoom bounds the transform was created with.
func (t *Transform) Limits() Limits { return t.limits }

// State returns a snapshot of the transform.
func (t *Transform) State() State {
	return State{
		Zoom:     t.zoom,
		OffsetX:  t.offsetX,
		OffsetY:  t.offsetY,
		Content:  t.content,
		Viewport: t.viewport,
	}
}

// ZoomAt changes zoom additively, keeping the content point under p fixed.
func (t *Transform) ZoomAt(p Point, delta float64) {
	t.setZoomAt(p, t.zoom+delta)
}

// ZoomBy changes zoom multiplicatively, keeping the content point under p
// fixed. Non-positive factors are ignored.
func (t *Transform) ZoomBy(p Point, factor float64) {
	if factor <= 0 || math.IsNaN(factor) {
		return
	}
	t.setZoomAt(p, t.zoom*factor)
}

// SetZoom sets an absolute zoom anchored at p.
func (t *Transform) SetZoom(p Point, zoom float64) {
	t.setZoomAt(p, zoom)
}

func (t *Transform) setZoomAt(p Point, target float64) {
	if math.IsNaN(target) {
		return
	}
	newZoom := clamp(target, t.limits.MinZoom, t.limits.MaxZoom)
	if math.Abs(newZoom-t.zoom) < zoomEpsilon {
		return
	}

	anchor := t.ContentPointFor(p)
	t.zoom = newZoom
	t.offsetX = anchor.X*newZoom - p.X
	t.offsetY = anchor.Y*newZoom - p.Y
	t.clampOffsets()
}

// Pan moves the offsets by the given delta, clamped to the content bounds.
func (t *Transform) Pan(dx, dy float64) {
	t.offsetX += dx
	t.offsetY += dy
	t.clampOffsets()
}

// ScrollTo sets absolute offsets, clamped to the content bounds.
func (t *Transform) ScrollTo(x, y float64) {
	t.offsetX = x
	t.offsetY = y
	t.clampOffsets()
}

// ContentPointFor maps a viewport coordinate into content space.
func (t *Transform) ContentPointFor(p Point) Point {
	return Point{
		X: (t.offsetX + p.X) / t.zoom,
		Y: (t.offsetY + p.Y) / t.zoom,
	}
}

// ViewportPointFor maps a content coordinate into viewport space.
func (t *Transform) ViewportPointFor(c Point) Point {
	return Point{
		X: c.X*t.zoom - t.offsetX,
		Y: c.Y*t.zoom - t.offsetY,
	}
}

// CenterContent positions the viewport over the middle of the content.
func (t *Transform) CenterContent() {
	t.offsetX = math.Max(0, (t.content.Width*t.zoom-t.viewport.Width)/2)
	t.offsetY = math.Max(0, (t.content.Height*t.zoom-t.viewport.Height)/2)
	t.clampOffsets()
}

// Resize updates viewport and content sizes and re-clamps offsets.
func (t *Transform) Resize(viewportSize, contentSize Size) {
	t.viewport = viewportSize
	t.content = contentSize
	t.clampOffsets()
}

// MaxOffset returns the largest valid offsets at the current zoom.
func (t *Transform) MaxOffset() Point {
	return Point{
		X: math.Max(t.content.Width*t.zoom-t.viewport.Width, 0),
		Y: math.Max(t.content.Height*t.zoom-t.viewport.Height, 0),
	}
}

func (t *Transform) clampOffsets() {
	limit := t.MaxOffset()
	t.offsetX = clamp(t.offsetX, 0, limit.X)
	t.offsetY = clamp(t.offsetY, 0, limit.Y)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
