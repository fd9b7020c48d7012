package arcade

// Rect is an axis-aligned bounding box with its origin at the top left.
type Rect struct {
	X, Y, W, H float64
}

// Overlaps reports whether r and o share any area. Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Bottom is the y coordinate of the lower edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
