package gridmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAxisIntersect(t *testing.T) {
	x := NewGridLine(NewGridVec(-10, 0), NewGridVec(10, 0))
	y := NewGridLine(NewGridVec(0, -10), NewGridVec(0, 10))
	origin := NewGridVec(0, 0)

	got, ok := x.Intersect(y)
	assert.True(t, ok)
	assert.Equal(t, origin, got)

	got, ok = y.Intersect(x)
	assert.True(t, ok)
	assert.Equal(t, origin, got)
}

func TestOrthogonalNoIntersect(t *testing.T) {
	y := NewGridLine(NewGridVec(0, -10), NewGridVec(0, 10))
	x := NewGridLine(NewGridVec(5, 0), NewGridVec(15, 0))

	_, ok := x.Intersect(y)
	assert.False(t, ok)
	_, ok = y.Intersect(x)
	assert.False(t, ok)
}

func TestOffsetOrthogonalNoIntersect(t *testing.T) {
	y := NewGridLine(NewGridVec(0, 0), NewGridVec(0, 10))
	x := NewGridLine(NewGridVec(5, 5), NewGridVec(15, 5))

	_, ok := x.Intersect(y)
	assert.False(t, ok)
	_, ok = y.Intersect(x)
	assert.False(t, ok)
}

func TestDiagonalIntersect(t *testing.T) {
	a := NewGridLine(NewGridVec(-10, -10), NewGridVec(10, 10))
	b := NewGridLine(NewGridVec(-10, 10), NewGridVec(10, -10))
	origin := NewGridVec(0, 0)

	got, ok := a.Intersect(b)
	assert.True(t, ok)
	assert.Equal(t, origin, got)

	got, ok = b.Intersect(a)
	assert.True(t, ok)
	assert.Equal(t, origin, got)
}

func TestDiagonalIntersectOffset(t *testing.T) {
	a := NewGridLine(NewGridVec(0, -10), NewGridVec(10, 10))
	b := NewGridLine(NewGridVec(0, 10), NewGridVec(10, -10))
	want := NewGridVec(5, 0)

	got, ok := a.Intersect(b)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	got, ok = b.Intersect(a)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestIntersectAtEndpoint(t *testing.T) {
	x := NewGridLine(NewGridVec(-10, 0), NewGridVec(10, 0))
	y1 := NewGridLine(NewGridVec(0, 0), NewGridVec(0, 10))
	y2 := NewGridLine(NewGridVec(0, 10), NewGridVec(0, 0))
	origin := NewGridVec(0, 0)

	for _, l := range []GridLine{y1, y2} {
		got, ok := x.Intersect(l)
		assert.True(t, ok)
		assert.Equal(t, origin, got)

		got, ok = l.Intersect(x)
		assert.True(t, ok)
		assert.Equal(t, origin, got)
	}
}

func collect(it *GridLineIterator) []GridVec {
	var out []GridVec
	for {
		p, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, p)
	}
}

func TestZeroLengthAlongIter(t *testing.T) {
	origin := NewGridVec(0, 0)
	l := NewGridLine(origin, origin)
	pts := collect(l.Along())
	assert.Equal(t, []GridVec{origin}, pts)
}

func TestLengthAlongAxisIter(t *testing.T) {
	l := NewGridLine(NewGridVec(0, 0), NewGridVec(10, 0))
	pts := collect(l.Along())
	assert.Len(t, pts, 11)
	for i, p := range pts {
		assert.Equal(t, NewGridVec(i, 0), p)
	}
}

func TestLengthAlongDiagonalIter(t *testing.T) {
	l := NewGridLine(NewGridVec(0, 0), NewGridVec(5, 5))
	pts := collect(l.Along())
	assert.Len(t, pts, 11)
	assert.Equal(t, NewGridVec(0, 0), pts[0])
	assert.Equal(t, NewGridVec(5, 5), pts[len(pts)-1])
}

// S6 in the scenario list: along() must yield max(|dx|,|dy|)+1 distinct cells
// for arbitrary endpoints, not just the axis-aligned/diagonal special cases.
func TestAlongCoversGeneralCase(t *testing.T) {
	a := NewGridVec(-3, 7)
	b := NewGridVec(4, -2)
	l := NewGridLine(a, b)
	pts := collect(l.Along())

	dx := b.X - a.X
	if dx < 0 {
		dx = -dx
	}
	dy := b.Y - a.Y
	if dy < 0 {
		dy = -dy
	}
	want := int(max(dx, dy)) + 1

	assert.Len(t, pts, want)
	assert.Equal(t, a, pts[0])
	assert.Equal(t, b, pts[len(pts)-1])
}
