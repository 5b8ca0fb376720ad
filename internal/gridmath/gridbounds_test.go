package gridmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundsCorners(t *testing.T) {
	b := NewGridBoundsCentered(NewGridVec(0, 0), NewGridVec(1, 1))
	assert.Equal(t, NewGridVec(-1, -1), b.BottomLeft)
	assert.Equal(t, NewGridVec(1, 1), b.TopRight)
}

func TestBoundsCornersFromCorner(t *testing.T) {
	bottomLeft := NewGridVec(0, 0)
	size := NewGridVec(16, 16)
	b := NewGridBoundsFromCorner(bottomLeft, size)
	assert.Equal(t, bottomLeft, b.BottomLeft)
	assert.Equal(t, NewGridVec(16, 16), b.TopRight)
}

func TestIntersectOverlapNone(t *testing.T) {
	a := NewGridBoundsCentered(NewGridVec(0, 0), NewGridVec(1, 1))
	b := NewGridBoundsCentered(NewGridVec(3, 0), NewGridVec(1, 1))
	_, ok := a.Intersect(b)
	assert.False(t, ok)
}

func TestIntersectOverlapContained(t *testing.T) {
	a := NewGridBoundsCentered(NewGridVec(0, 0), NewGridVec(1, 1))
	b := NewGridBoundsCentered(NewGridVec(0, 0), NewGridVec(10, 10))
	got, ok := a.Intersect(b)
	assert.True(t, ok)
	assert.Equal(t, a, got)
}

func TestIntersectOverlapPartial(t *testing.T) {
	a := NewGridBoundsCentered(NewGridVec(0, 0), NewGridVec(2, 2))
	b := NewGridBoundsCentered(NewGridVec(2, 2), NewGridVec(2, 2))
	got, ok := a.Intersect(b)
	assert.True(t, ok)
	assert.Equal(t, NewGridBoundsCentered(NewGridVec(1, 1), NewGridVec(1, 1)), got)
}

func TestUnionOverlapNone(t *testing.T) {
	a := NewGridBoundsCentered(NewGridVec(0, 0), NewGridVec(1, 1))
	b := NewGridBoundsCentered(NewGridVec(4, 0), NewGridVec(1, 1))
	got := a.Union(b)
	assert.Equal(t, NewGridBoundsCentered(NewGridVec(2, 0), NewGridVec(3, 1)), got)
}

func TestUnionOverlapContained(t *testing.T) {
	a := NewGridBoundsCentered(NewGridVec(0, 0), NewGridVec(1, 1))
	b := NewGridBoundsCentered(NewGridVec(0, 0), NewGridVec(10, 10))
	assert.Equal(t, b, a.Union(b))
}

func TestUnionOverlapPartial(t *testing.T) {
	a := NewGridBoundsCentered(NewGridVec(0, 0), NewGridVec(4, 4))
	b := NewGridBoundsCentered(NewGridVec(2, 2), NewGridVec(4, 4))
	assert.Equal(t, NewGridBoundsCentered(NewGridVec(1, 1), NewGridVec(5, 5)), a.Union(b))
}

func TestBoundsIterCoversAllCells(t *testing.T) {
	b := NewGridBoundsFromCorner(NewGridVec(0, 0), NewGridVec(3, 2))
	seen := map[GridVec]bool{}
	it := b.Iter()
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		seen[p] = true
	}
	assert.Len(t, seen, 6)
	assert.True(t, seen[NewGridVec(0, 0)])
	assert.True(t, seen[NewGridVec(2, 1)])
	assert.False(t, seen[NewGridVec(3, 0)])
}
