// Package gridmath provides deterministic integer 2D geometry: vectors,
// half-open axis-aligned bounds, and segment rasterization/intersection.
// All arithmetic is exact integer arithmetic; nothing here touches float64.
package gridmath

// GridVec is a signed 2D integer vector. Grid cells, chunk coordinates, and
// region coordinates are all GridVecs in their own coordinate space.
type GridVec struct {
	X, Y int32
}

// NewGridVec builds a GridVec from plain ints, truncating to int32.
func NewGridVec(x, y int) GridVec {
	return GridVec{X: int32(x), Y: int32(y)}
}

func (v GridVec) Add(o GridVec) GridVec { return GridVec{v.X + o.X, v.Y + o.Y} }
func (v GridVec) Sub(o GridVec) GridVec { return GridVec{v.X - o.X, v.Y - o.Y} }
func (v GridVec) Mul(s int32) GridVec   { return GridVec{v.X * s, v.Y * s} }
func (v GridVec) Div(s int32) GridVec   { return GridVec{v.X / s, v.Y / s} }

// Mod divides componentwise with %, on both axes. The reference
// implementation this was ported from mixed % on x with / on y, which looks
// like a copy-paste bug; this diverges intentionally and uses % on both axes.
func (v GridVec) Mod(s int32) GridVec { return GridVec{v.X % s, v.Y % s} }

func absI32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func signumI32(v int32) int32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// SqDistance returns the squared Euclidean distance to other.
func (v GridVec) SqDistance(o GridVec) int64 {
	dx := int64(v.X - o.X)
	dy := int64(v.Y - o.Y)
	return dx*dx + dy*dy
}

// ManhattanDistance returns |dx| + |dy|.
func (v GridVec) ManhattanDistance(o GridVec) int32 {
	return absI32(v.X-o.X) + absI32(v.Y-o.Y)
}

// IsAdjacent reports whether o is one of the 8 cells surrounding v: an
// orthogonal neighbor at Manhattan distance 1, or a diagonal at distance 2
// (a delta of 1 on each axis). v itself and straight offsets of 2, such as
// (0,2), are not adjacent.
func (v GridVec) IsAdjacent(o GridVec) bool {
	switch v.ManhattanDistance(o) {
	case 1:
		return true
	case 2:
		return absI32(v.X-o.X) == 1
	default:
		return false
	}
}

// Combined packs x into the low 32 bits and y into the high 32 bits of a
// single uint64, suitable for use as a map key.
func (v GridVec) Combined() uint64 {
	return uint64(uint32(v.X)) | uint64(uint32(v.Y))<<32
}

// Decombined extracts a GridVec from a value packed by Combined.
func Decombined(combo uint64) GridVec {
	return GridVec{
		X: int32(uint32(combo & 0x00000000FFFFFFFF)),
		Y: int32(uint32((combo & 0xFFFFFFFF00000000) >> 32)),
	}
}

func (v GridVec) String() string {
	return "[" + itoa(int64(v.X)) + ", " + itoa(int64(v.Y)) + "]"
}

func itoa(i int64) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
