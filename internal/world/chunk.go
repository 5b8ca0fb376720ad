package world

import (
	"math/rand"

	"github.com/jakemcleman/sandsim/internal/gridmath"
	"github.com/jakemcleman/sandsim/internal/particle"
)

// ChunkSize is the fixed side length of a Chunk, in particles.
const ChunkSize = 64

// chunkState tracks where a chunk sits in the Idle -> Dirty -> Updating ->
// Idle cycle.
type chunkState uint8

const (
	stateIdle chunkState = iota
	stateDirty
	stateUpdating
)

// direction indexes the eight neighbor slots of a chunk, clockwise from
// north. North is +Y, matching the convention that y positive is up.
type direction int

const (
	dirN direction = iota
	dirNE
	dirE
	dirSE
	dirS
	dirSW
	dirW
	dirNW
	numDirections
)

var directionOffsets = [numDirections]gridmath.GridVec{
	dirN:  {X: 0, Y: 1},
	dirNE: {X: 1, Y: 1},
	dirE:  {X: 1, Y: 0},
	dirSE: {X: 1, Y: -1},
	dirS:  {X: 0, Y: -1},
	dirSW: {X: -1, Y: -1},
	dirW:  {X: -1, Y: 0},
	dirNW: {X: -1, Y: 1},
}

func (d direction) opposite() direction {
	return (d + numDirections/2) % numDirections
}

// directionFromDelta reports which of the eight neighbor directions delta
// points along, if any.
func directionFromDelta(delta gridmath.GridVec) (direction, bool) {
	for d, off := range directionOffsets {
		if off == delta {
			return direction(d), true
		}
	}
	return 0, false
}

// Chunk is a fixed 64x64 tile of particles, the unit of simulation
// parallelism. Chunks link to up to eight neighbors to support moves and
// queries that cross chunk boundaries.
type Chunk struct {
	Position gridmath.GridVec

	particles [ChunkSize * ChunkSize]particle.Particle
	neighbors [numDirections]*Chunk

	kindSet particle.Set
	state   chunkState

	dirtyRect     gridmath.GridBounds
	lastDirtyRect gridmath.GridBounds

	rng *rand.Rand
}

// NewChunk returns an all-Air chunk at the given chunk-coordinate position.
func NewChunk(position gridmath.GridVec, seed int64) *Chunk {
	return &Chunk{
		Position: position,
		kindSet:  particle.Of(particle.Air),
		rng:      rand.New(rand.NewSource(seed)),
	}
}

func localIndex(x, y int32) int {
	return int(x) + int(y)*ChunkSize
}

func inBounds(x, y int32) bool {
	return x >= 0 && x < ChunkSize && y >= 0 && y < ChunkSize
}

// Get returns the particle at local coordinates (x, y). Coordinates outside
// [0,64) are a caller bug; the zero Particle (Air) is returned.
func (c *Chunk) Get(x, y int32) particle.Particle {
	if !inBounds(x, y) {
		return particle.Default()
	}
	return c.particles[localIndex(x, y)]
}

// Set unconditionally replaces the particle at (x, y), expands the
// current-frame dirty rect, and marks the chunk Dirty.
func (c *Chunk) Set(x, y int32, p particle.Particle) {
	if !inBounds(x, y) {
		return
	}
	c.particles[localIndex(x, y)] = p
	c.kindSet = c.kindSet.With(p.Kind)
	c.expandDirty(x, y)
	c.markDirty()
}

// Add sets the particle at (x, y) only if that cell is currently Air.
func (c *Chunk) Add(x, y int32, p particle.Particle) bool {
	if !inBounds(x, y) {
		return false
	}
	if c.particles[localIndex(x, y)].Kind != particle.Air {
		return false
	}
	c.Set(x, y, p)
	return true
}

// ReplaceFiltered sets the particle at (x, y) only if its current kind is in
// mask, returning the displaced kind and whether a replacement occurred.
func (c *Chunk) ReplaceFiltered(x, y int32, p particle.Particle, mask particle.Set) (particle.Kind, bool) {
	if !inBounds(x, y) {
		return particle.Air, false
	}
	cur := c.particles[localIndex(x, y)]
	if !mask.Test(cur.Kind) {
		return cur.Kind, false
	}
	c.Set(x, y, p)
	return cur.Kind, true
}

// KindsPresent returns the chunk's cached, overapproximate particle-kind set.
func (c *Chunk) KindsPresent() particle.Set {
	return c.kindSet
}

// NeedsUpdate reports whether the chunk is Dirty and should run Update this
// frame.
func (c *Chunk) NeedsUpdate() bool {
	return c.state == stateDirty
}

func (c *Chunk) markDirty() {
	if c.state == stateIdle {
		c.state = stateDirty
	}
}

func (c *Chunk) expandDirty(x, y int32) {
	point := gridmath.NewGridBoundsFromCorner(gridmath.GridVec{X: x, Y: y}, gridmath.GridVec{X: 1, Y: 1})
	if c.dirtyRect.Width() <= 0 || c.dirtyRect.Height() <= 0 {
		c.dirtyRect = point
		return
	}
	c.dirtyRect = c.dirtyRect.Union(point)
}

// CheckAddNeighbor links c and other if their positions are adjacent,
// establishing the symmetric neighbor relationship on both sides. Returns
// true if a link was made.
func (c *Chunk) CheckAddNeighbor(other *Chunk) bool {
	if other == nil || other == c {
		return false
	}
	delta := other.Position.Sub(c.Position)
	d, ok := directionFromDelta(delta)
	if !ok {
		return false
	}
	c.neighbors[d] = other
	other.neighbors[d.opposite()] = c
	return true
}

// CheckRemoveNeighbor clears c's own neighbor slot pointing at otherPosition,
// if adjacent. The caller is responsible for clearing the reverse link on the
// other side while it still exists.
func (c *Chunk) CheckRemoveNeighbor(otherPosition gridmath.GridVec) bool {
	delta := otherPosition.Sub(c.Position)
	d, ok := directionFromDelta(delta)
	if !ok {
		return false
	}
	c.neighbors[d] = nil
	return true
}

// resolveCell translates a local offset from (x, y), possibly into a
// neighbor chunk, and returns the owning chunk plus the local coordinates
// there. Offsets reaching more than one chunk away are out of range for this
// simulation's movement templates and resolve to not-found.
func (c *Chunk) resolveCell(x, y int32) (*Chunk, int32, int32, bool) {
	chunkDX := gridmath.FloorDiv(x, ChunkSize)
	chunkDY := gridmath.FloorDiv(y, ChunkSize)
	localX := gridmath.PosMod(x, ChunkSize)
	localY := gridmath.PosMod(y, ChunkSize)

	if chunkDX == 0 && chunkDY == 0 {
		return c, localX, localY, true
	}
	if chunkDX < -1 || chunkDX > 1 || chunkDY < -1 || chunkDY > 1 {
		return nil, 0, 0, false
	}
	d, ok := directionFromDelta(gridmath.GridVec{X: chunkDX, Y: chunkDY})
	if !ok {
		return nil, 0, 0, false
	}
	neighbor := c.neighbors[d]
	if neighbor == nil {
		return nil, 0, 0, false
	}
	return neighbor, localX, localY, true
}

// Update performs one simulation tick: movement for mobile particles, then
// thermal state-change checks for particles that did not move. Cells are
// visited in row-major order; the per-particle Touched flag, not the scan
// order, is what prevents a moved particle from being processed twice.
func (c *Chunk) Update() {
	if c.state != stateDirty {
		return
	}
	c.state = stateUpdating

	for y := int32(0); y < ChunkSize; y++ {
		for x := int32(0); x < ChunkSize; x++ {
			p := c.particles[localIndex(x, y)]
			if p.Touched || p.Kind == particle.Air {
				continue
			}
			if c.tryMove(x, y, p) {
				continue
			}
			c.tryThermal(x, y, p)
		}
	}
}

func (c *Chunk) tryMove(x, y int32, p particle.Particle) bool {
	for _, tier := range particle.MovementTiers(p.Kind) {
		for _, offset := range tier {
			owner, lx, ly, ok := c.resolveCell(x+offset.X, y+offset.Y)
			if !ok {
				continue
			}
			destIdx := localIndex(lx, ly)
			dest := owner.particles[destIdx]
			if dest.Kind != particle.Air && !particle.CanReplace(p.Kind, dest.Kind) {
				continue
			}

			moved := p
			moved.Touched = true
			owner.particles[destIdx] = moved
			owner.kindSet = owner.kindSet.With(moved.Kind)
			owner.expandDirty(lx, ly)
			owner.markDirty()

			c.particles[localIndex(x, y)] = dest
			c.kindSet = c.kindSet.With(dest.Kind)
			c.expandDirty(x, y)
			return true
		}
	}
	return false
}

func (c *Chunk) tryThermal(x, y int32, p particle.Particle) {
	if _, ok := particle.LookupStateChange(p.Kind); !ok {
		return
	}
	temp := c.localTemperature(x, y)
	if newKind, changed := particle.TryStateChange(p.Kind, temp, c.rng); changed {
		c.particles[localIndex(x, y)] = particle.New(newKind)
		c.kindSet = c.kindSet.With(newKind)
		c.expandDirty(x, y)
		c.markDirty()
	}
}

// localTemperature sums heat contributions over the 3x3 Moore neighborhood
// of particles centered on (x, y), reaching into neighbor chunks as needed.
func (c *Chunk) localTemperature(x, y int32) int32 {
	var sum int32
	for dy := int32(-1); dy <= 1; dy++ {
		for dx := int32(-1); dx <= 1; dx++ {
			owner, lx, ly, ok := c.resolveCell(x+dx, y+dy)
			if !ok {
				continue
			}
			sum += owner.particles[localIndex(lx, ly)].Kind.HeatContribution()
		}
	}
	return sum
}

// CommitUpdates rolls dirty state forward one frame: the current dirty rect
// becomes the last-frame dirty rect, touched flags are cleared, and the
// chunk returns to Idle unless it has fresh dirty state of its own to keep
// propagating.
func (c *Chunk) CommitUpdates() {
	updated := c.state == stateUpdating
	c.lastDirtyRect = c.dirtyRect
	c.dirtyRect = gridmath.GridBounds{}

	for i := range c.particles {
		c.particles[i].Touched = false
	}

	if updated && c.lastDirtyRect.Width() > 0 && c.lastDirtyRect.Height() > 0 {
		c.state = stateDirty
	} else {
		c.state = stateIdle
	}
}

// TouchesEdge reports whether c's last-frame dirty rect reaches the chunk
// boundary facing dir, meaning activity near that edge could reach into a
// neighbor on the next update.
func (c *Chunk) TouchesEdge(dir direction) bool {
	r := c.lastDirtyRect
	if r.Width() <= 0 || r.Height() <= 0 {
		return false
	}
	offset := directionOffsets[dir]
	if offset.Y > 0 && r.Top() < ChunkSize {
		return false
	}
	if offset.Y < 0 && r.Bottom() > 0 {
		return false
	}
	if offset.X > 0 && r.Right() < ChunkSize {
		return false
	}
	if offset.X < 0 && r.Left() > 0 {
		return false
	}
	return true
}

// CastRay walks line clipped to the chunk's own bounds, returning the first
// local cell whose kind is in mask.
func (c *Chunk) CastRay(mask particle.Set, line gridmath.GridLine) (gridmath.GridVec, bool) {
	bounds := gridmath.NewGridBoundsFromCorner(gridmath.GridVec{}, gridmath.GridVec{X: ChunkSize, Y: ChunkSize})
	it := line.Along()
	for {
		p, ok := it.Next()
		if !ok {
			return gridmath.GridVec{}, false
		}
		if !bounds.Contains(p) {
			continue
		}
		if mask.Test(c.particles[localIndex(p.X, p.Y)].Kind) {
			return p, true
		}
	}
}

// CountMatchingInBounds clips bounds to the chunk and counts particles whose
// kind is in mask.
func (c *Chunk) CountMatchingInBounds(bounds gridmath.GridBounds, mask particle.Set) int {
	chunkBounds := gridmath.NewGridBoundsFromCorner(gridmath.GridVec{}, gridmath.GridVec{X: ChunkSize, Y: ChunkSize})
	clipped, ok := chunkBounds.Intersect(bounds)
	if !ok {
		return 0
	}
	count := 0
	it := clipped.Iter()
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		if mask.Test(c.particles[localIndex(p.X, p.Y)].Kind) {
			count++
		}
	}
	return count
}

// GetParticleTypesInBounds clips bounds to the chunk and returns the set of
// kinds present within it.
func (c *Chunk) GetParticleTypesInBounds(bounds gridmath.GridBounds) particle.Set {
	chunkBounds := gridmath.NewGridBoundsFromCorner(gridmath.GridVec{}, gridmath.GridVec{X: ChunkSize, Y: ChunkSize})
	clipped, ok := chunkBounds.Intersect(bounds)
	if !ok {
		return particle.None()
	}
	set := particle.None()
	it := clipped.Iter()
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		set = set.With(c.particles[localIndex(p.X, p.Y)].Kind)
	}
	return set
}

// compressedRun is one (kind, run length) pair of a chunk's RLE encoding.
type compressedRun struct {
	kind   particle.Kind
	length uint16
}

// CompressedChunk is the RLE encoding of a chunk's particle array, used as
// the off-simulation storage format for an evicted region.
type CompressedChunk struct {
	Position gridmath.GridVec
	runs     []compressedRun
}

// Compress returns the run-length encoding of the chunk's particle array,
// scanned row-major from (0,0). The sum of run lengths always equals
// ChunkSize*ChunkSize.
func (c *Chunk) Compress() CompressedChunk {
	cc := CompressedChunk{Position: c.Position}
	curKind := c.particles[0].Kind
	var runLen uint16 = 1
	for i := 1; i < len(c.particles); i++ {
		k := c.particles[i].Kind
		if k == curKind && runLen < 65535 {
			runLen++
			continue
		}
		cc.runs = append(cc.runs, compressedRun{kind: curKind, length: runLen})
		curKind = k
		runLen = 1
	}
	cc.runs = append(cc.runs, compressedRun{kind: curKind, length: runLen})
	return cc
}

// Decompress reconstructs a chunk from its RLE encoding. The reconstructed
// chunk has no touched particles and no neighbor links.
func (cc CompressedChunk) Decompress(seed int64) *Chunk {
	c := NewChunk(cc.Position, seed)
	i := 0
	for _, run := range cc.runs {
		for n := uint16(0); n < run.length; n++ {
			c.particles[i] = particle.New(run.kind)
			c.kindSet = c.kindSet.With(run.kind)
			i++
		}
	}
	return c
}

// MarshalBytes encodes the compressed chunk in the little-endian
// (kind_ordinal: u8, run_length: u16) pair format.
func (cc CompressedChunk) MarshalBytes() []byte {
	buf := make([]byte, 0, len(cc.runs)*3)
	for _, run := range cc.runs {
		buf = append(buf, byte(run.kind), byte(run.length&0xFF), byte(run.length>>8))
	}
	return buf
}

// UnmarshalCompressedBytes decodes the little-endian pair format produced by
// MarshalBytes.
func UnmarshalCompressedBytes(position gridmath.GridVec, data []byte) CompressedChunk {
	cc := CompressedChunk{Position: position}
	for i := 0; i+3 <= len(data); i += 3 {
		kind := particle.Kind(data[i])
		length := uint16(data[i+1]) | uint16(data[i+2])<<8
		cc.runs = append(cc.runs, compressedRun{kind: kind, length: length})
	}
	return cc
}
