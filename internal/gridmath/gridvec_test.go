package gridmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGridVecArithmetic(t *testing.T) {
	a := NewGridVec(1, 0)
	b := NewGridVec(0, 2)

	assert.Equal(t, NewGridVec(1, 2), a.Add(b))
	assert.Equal(t, NewGridVec(1, -2), a.Sub(b))
	assert.Equal(t, NewGridVec(2, 4), NewGridVec(1, 2).Mul(2))
	assert.Equal(t, NewGridVec(0, 1), NewGridVec(1, 2).Div(2))
}

func TestManhattanDistance(t *testing.T) {
	assert.Equal(t, int32(3), NewGridVec(1, 1).ManhattanDistance(NewGridVec(-1, 0)))
	assert.Equal(t, int32(0), NewGridVec(1, 1).ManhattanDistance(NewGridVec(1, 1)))
}

func TestAdjacency(t *testing.T) {
	assert.True(t, NewGridVec(0, 0).IsAdjacent(NewGridVec(0, -1)))
	assert.True(t, NewGridVec(0, 0).IsAdjacent(NewGridVec(1, 1)))
	assert.False(t, NewGridVec(0, 0).IsAdjacent(NewGridVec(0, 2)))
}

func TestCombineRoundTrip(t *testing.T) {
	v := NewGridVec(4, 10)
	assert.Equal(t, uint64(0x0000000A00000004), v.Combined())
	assert.Equal(t, v, Decombined(v.Combined()))
}
