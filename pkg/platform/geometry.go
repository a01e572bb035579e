package platform

// Size describes a display area in logical pixels.
type Size struct {
	Width  float64
	Height float64
}

// IsEmpty reports whether either dimension is zero or negative.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}
