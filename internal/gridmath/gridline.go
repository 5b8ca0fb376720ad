package gridmath

// GridLine is an integer segment between two grid points.
type GridLine struct {
	A, B GridVec
}

func NewGridLine(a, b GridVec) GridLine { return GridLine{A: a, B: b} }

func (l GridLine) SqLength() int64 {
	return l.A.SqDistance(l.B)
}

func (l GridLine) ManhattanLength() int32 {
	return l.A.ManhattanDistance(l.B)
}

func (l GridLine) Reversed() GridLine {
	return GridLine{A: l.B, B: l.A}
}

func (l GridLine) Bounds() GridBounds {
	b := GridBounds{
		BottomLeft: GridVec{X: min(l.A.X, l.B.X), Y: min(l.A.Y, l.B.Y)},
		TopRight:   GridVec{X: max(l.A.X, l.B.X), Y: max(l.A.Y, l.B.Y)},
	}
	// GridBounds is half-open; widen by one so the bounds actually contain B.
	return GridBounds{BottomLeft: b.BottomLeft, TopRight: b.TopRight.Add(GridVec{X: 1, Y: 1})}
}

// GridLineIterator walks the staircase path from A to B inclusive, one cell
// per step, advancing along whichever axis gets closer to B when the
// remaining vector isn't axis-aligned.
type GridLineIterator struct {
	current GridVec
	end     GridVec
	done    bool
}

// Along returns a fresh iterator over l's cells, starting at A and ending at B.
func (l GridLine) Along() *GridLineIterator {
	return &GridLineIterator{current: l.A, end: l.B}
}

// Next returns the next cell in the walk, or (zero, false) once B has been
// yielded.
func (it *GridLineIterator) Next() (GridVec, bool) {
	if it.done {
		return GridVec{}, false
	}
	if it.current == it.end {
		it.done = true
		return it.end, true
	}

	last := it.current
	move := it.end.Sub(it.current)
	if move.X == 0 || move.Y == 0 {
		it.current.X += signumI32(move.X)
		it.current.Y += signumI32(move.Y)
	} else {
		xMove := it.current.Add(GridVec{X: signumI32(move.X), Y: 0})
		yMove := it.current.Add(GridVec{X: 0, Y: signumI32(move.Y)})
		if it.end.SqDistance(xMove) < it.end.SqDistance(yMove) {
			it.current = xMove
		} else {
			it.current = yMove
		}
	}
	return last, true
}

// Intersect computes the integer intersection point of l and other using the
// standard two-segment cross-product formulation, returning (point, true) on
// a hit or (zero, false) on a miss.
//
// The u-numerator check below uses an equal-signs-means-miss rule, the
// opposite of the t-numerator check. This asymmetry comes from the reference
// this was ported from and is preserved intentionally: flipping it would
// change behavior on shared-endpoint and collinear cases that tests pin.
func (l GridLine) Intersect(other GridLine) (GridVec, bool) {
	x1, y1 := l.A.X, l.A.Y
	x2, y2 := l.B.X, l.B.Y
	x3, y3 := other.A.X, other.A.Y
	x4, y4 := other.B.X, other.B.Y

	tNum := int64(x1-x3)*int64(y3-y4) - int64(y1-y3)*int64(x3-x4)
	tDen := int64(x1-x2)*int64(y3-y4) - int64(y1-y2)*int64(x3-x4)

	uNum := int64(x1-x2)*int64(y1-y3) - int64(y1-y2)*int64(x1-x3)
	uDen := tDen

	if tDen == 0 || uDen == 0 {
		return GridVec{}, false
	}

	if (tNum != 0 && signumI64(tNum) != signumI64(tDen)) ||
		(uNum != 0 && signumI64(uNum) == signumI64(uDen)) {
		return GridVec{}, false
	}

	if absI64(tNum) > absI64(tDen) || absI64(uNum) > absI64(uDen) {
		return GridVec{}, false
	}

	ix := int64(x1) + (tNum*int64(x2-x1))/tDen
	iy := int64(y1) + (tNum*int64(y2-y1))/tDen

	return GridVec{X: int32(ix), Y: int32(iy)}, true
}

func signumI64(v int64) int64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
