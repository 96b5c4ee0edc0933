package viewport

// Follow returns the scroll offset that keeps x visible in a window of
// the given width starting at scroll. When x is within margin of the
// right edge the window recentres on x; within margin of the left edge
// it moves so x sits margin pixels in. The second result is false when
// no scroll is needed.
func Follow(x, scroll, width, margin float64) (float64, bool) {
	switch {
	case x > scroll+width-margin:
		target := x - width/2
		if target < 0 {
			target = 0
		}
		return target, target != scroll
	case x < scroll+margin:
		target := x - margin
		if target < 0 {
			target = 0
		}
		return target, target != scroll
	}
	return scroll, false
}
