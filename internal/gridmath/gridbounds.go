package gridmath

// GridBounds is a half-open axis-aligned rectangle: [BottomLeft, TopRight).
// The top and right edges are exclusive.
type GridBounds struct {
	BottomLeft GridVec
	TopRight   GridVec
}

// NewGridBoundsCentered builds bounds of the given half-extent around center.
func NewGridBoundsCentered(center, halfExtent GridVec) GridBounds {
	return GridBounds{BottomLeft: center.Sub(halfExtent), TopRight: center.Add(halfExtent)}
}

// NewGridBoundsFromCorner builds bounds starting at bottomLeft with the given size.
func NewGridBoundsFromCorner(bottomLeft, size GridVec) GridBounds {
	return GridBounds{BottomLeft: bottomLeft, TopRight: bottomLeft.Add(size)}
}

// NewGridBoundsFromExtents builds bounds directly from both corners.
func NewGridBoundsFromExtents(bottomLeft, topRight GridVec) GridBounds {
	return GridBounds{BottomLeft: bottomLeft, TopRight: topRight}
}

func (b GridBounds) Bottom() int32 { return b.BottomLeft.Y }
func (b GridBounds) Left() int32   { return b.BottomLeft.X }
func (b GridBounds) Top() int32    { return b.TopRight.Y }
func (b GridBounds) Right() int32  { return b.TopRight.X }

func (b GridBounds) TopLeft() GridVec {
	return GridVec{X: b.BottomLeft.X, Y: b.TopRight.Y}
}

func (b GridBounds) BottomRight() GridVec {
	return GridVec{X: b.TopRight.X, Y: b.BottomLeft.Y}
}

// Width and Height are measured in cells; the rectangle is half-open so a
// bounds from (0,0) to (16,16) has width and height 16, not 15.
func (b GridBounds) Width() int32  { return b.TopRight.X - b.BottomLeft.X }
func (b GridBounds) Height() int32 { return b.TopRight.Y - b.BottomLeft.Y }

// Area is the count of integer cells contained, width*height.
func (b GridBounds) Area() int64 {
	return int64(b.Width()) * int64(b.Height())
}

func (b GridBounds) Center() GridVec {
	return b.TopRight.Add(b.BottomLeft).Div(2)
}

func (b GridBounds) Extent() GridVec {
	return b.TopRight.Sub(b.BottomLeft)
}

func (b GridBounds) HalfExtent() GridVec {
	return b.Extent().Div(2)
}

// Contains reports whether point lies within the half-open rectangle.
func (b GridBounds) Contains(point GridVec) bool {
	return point.X >= b.BottomLeft.X && point.X < b.TopRight.X &&
		point.Y >= b.BottomLeft.Y && point.Y < b.TopRight.Y
}

// IsBoundary reports whether point is contained and lies on the one-cell-thick
// frame of the rectangle.
func (b GridBounds) IsBoundary(point GridVec) bool {
	return b.Contains(point) &&
		(point.X == b.BottomLeft.X ||
			point.X == b.TopRight.X-1 ||
			point.Y == b.BottomLeft.Y ||
			point.Y == b.TopRight.Y-1)
}

// Union returns the smallest bounds containing both b and other.
func (b GridBounds) Union(other GridBounds) GridBounds {
	return GridBounds{
		BottomLeft: GridVec{
			X: min(b.BottomLeft.X, other.BottomLeft.X),
			Y: min(b.BottomLeft.Y, other.BottomLeft.Y),
		},
		TopRight: GridVec{
			X: max(b.TopRight.X, other.TopRight.X),
			Y: max(b.TopRight.Y, other.TopRight.Y),
		},
	}
}

// Intersect returns the overlapping rectangle, or (zero, false) if the two
// bounds do not overlap. Intersection is exclusive on the upper edge.
func (b GridBounds) Intersect(other GridBounds) (GridBounds, bool) {
	overlap := GridBounds{
		BottomLeft: GridVec{
			X: max(b.BottomLeft.X, other.BottomLeft.X),
			Y: max(b.BottomLeft.Y, other.BottomLeft.Y),
		},
		TopRight: GridVec{
			X: min(b.TopRight.X, other.TopRight.X),
			Y: min(b.TopRight.Y, other.TopRight.Y),
		},
	}
	if overlap.Width() <= 0 || overlap.Height() <= 0 {
		return GridBounds{}, false
	}
	return overlap, true
}

// Overlaps reports whether b and other share any cell.
func (b GridBounds) Overlaps(other GridBounds) bool {
	_, ok := b.Intersect(other)
	return ok
}

func absI64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// GridBoundsIterator walks every cell of a GridBounds in row-major order,
// bottom row first, left to right.
type GridBoundsIterator struct {
	bounds  GridBounds
	current GridVec
	started bool
}

// Iter returns a fresh lexicographic iterator over b.
func (b GridBounds) Iter() *GridBoundsIterator {
	return &GridBoundsIterator{bounds: b, current: b.BottomLeft}
}

// Next advances the iterator and reports whether a cell was produced.
func (it *GridBoundsIterator) Next() (GridVec, bool) {
	if it.bounds.Width() <= 0 || it.bounds.Height() <= 0 {
		return GridVec{}, false
	}
	if !it.started {
		it.started = true
		return it.current, true
	}
	it.current.X++
	if it.current.X >= it.bounds.TopRight.X {
		it.current.X = it.bounds.BottomLeft.X
		it.current.Y++
		if it.current.Y >= it.bounds.TopRight.Y {
			return GridVec{}, false
		}
	}
	return it.current, true
}
