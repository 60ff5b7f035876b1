package layout

// Box is an axis-aligned rectangle in page coordinates. Y grows downward,
// matching the document format.
type Box struct {
	X, Y float64
	W, H float64
}

// Right returns the right edge of the box.
func (b Box) Right() float64 { return b.X + b.W }

// Bottom returns the bottom edge of the box.
func (b Box) Bottom() float64 { return b.Y + b.H }

// CenterX returns the horizontal center point of the box.
func (b Box) CenterX() float64 { return b.X + b.W/2 }

// CenterY returns the vertical center point of the box.
func (b Box) CenterY() float64 { return b.Y + b.H/2 }

// union returns the smallest box covering both.
func union(a, b Box) Box {
	x := min(a.X, b.X)
	y := min(a.Y, b.Y)
	r := max(a.Right(), b.Right())
	bt := max(a.Bottom(), b.Bottom())
	return Box{X: x, Y: y, W: r - x, H: bt - y}
}

// expand grows the box outward by the given margin on all sides.
func (b Box) expand(m float64) Box {
	return Box{X: b.X - m, Y: b.Y - m, W: b.W + 2*m, H: b.H + 2*m}
}
