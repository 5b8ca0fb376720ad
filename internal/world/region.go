package world

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jakemcleman/sandsim/internal/gridmath"
	"github.com/jakemcleman/sandsim/internal/particle"
)

// RegionSize is the fixed side length of a Region, in chunks.
const RegionSize = 16

// HitInfo describes a ray-cast hit: the point of first contact, the kind
// found there, and a normal estimated from the walk direction.
type HitInfo struct {
	Point  gridmath.GridVec
	Normal gridmath.GridVec
	Kind   particle.Kind
}

// Region is a 16x16 tile of chunks, the unit of eviction and priority
// scheduling. Chunk (cx, cy) within the region lives at index cx + cy*16.
type Region struct {
	Position gridmath.GridVec

	chunks [RegionSize * RegionSize]*Chunk

	addedChunks   []gridmath.GridVec
	updatedChunks []gridmath.GridVec

	Staleness        uint64
	LastChunkUpdates uint64
	UpdatePriority   uint64

	generator WorldGenerator
	seedBase  int64
}

// NewRegion builds a region of all-Air chunks at the given region-coordinate
// position, seeding every chunk's random source and linking internal
// neighbors. GenerateTerrain fills it from the generator.
func NewRegion(position gridmath.GridVec, generator WorldGenerator, seedBase int64) *Region {
	r := &Region{
		Position:  position,
		generator: generator,
		seedBase:  seedBase,
	}

	for y := int32(0); y < RegionSize; y++ {
		for x := int32(0); x < RegionSize; x++ {
			chunkpos := gridmath.GridVec{X: x, Y: y}.Add(position.Mul(RegionSize))
			r.addChunk(NewChunk(chunkpos, r.seedBase+int64(localChunkIndex(x, y))))
		}
	}

	return r
}

// RegionFromCompressed resurrects a region from its compressed snapshot.
func RegionFromCompressed(compressed *CompressedRegion, generator WorldGenerator) *Region {
	r := &Region{
		Position:         compressed.Position,
		generator:        generator,
		seedBase:         compressed.seedBase,
		LastChunkUpdates: uint64(len(compressed.chunks)),
	}

	for i, cc := range compressed.chunks {
		r.addExistingChunk(cc.Decompress(r.seedBase + int64(i)))
	}

	return r
}

func localChunkIndex(x, y int32) int {
	return int(x) + int(y)*RegionSize
}

// LocalChunkposToIndex converts a chunk position local to the region (each
// component in [0,16)) to its row-major storage index.
func LocalChunkposToIndex(local gridmath.GridVec) int {
	return localChunkIndex(local.X, local.Y)
}

func (r *Region) chunkposToIndex(chunkpos gridmath.GridVec) (int, bool) {
	local := chunkpos.Sub(r.Position.Mul(RegionSize))
	if local.X < 0 || local.X >= RegionSize || local.Y < 0 || local.Y >= RegionSize {
		return 0, false
	}
	return localChunkIndex(local.X, local.Y), true
}

func (r *Region) addChunk(c *Chunk) {
	for _, existing := range r.chunks {
		if existing != nil {
			existing.CheckAddNeighbor(c)
		}
	}
	idx, _ := r.chunkposToIndex(c.Position)
	r.chunks[idx] = c
	r.addedChunks = append(r.addedChunks, c.Position)
}

func (r *Region) addExistingChunk(c *Chunk) {
	r.addChunk(c)
}

// GenerateTerrain populates every chunk in parallel by calling the region's
// generator once per cell.
func (r *Region) GenerateTerrain() error {
	var g errgroup.Group
	for _, c := range r.chunks {
		c := c
		g.Go(func() error {
			base := c.Position.Mul(ChunkSize)
			for y := int32(0); y < ChunkSize; y++ {
				for x := int32(0); x < ChunkSize; x++ {
					worldPos := base.Add(gridmath.GridVec{X: x, Y: y})
					p := r.generator.Generate(worldPos)
					if p.Kind != particle.Air {
						c.particles[localIndex(x, y)] = p
						c.kindSet = c.kindSet.With(p.Kind)
					}
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// ChunkPositions returns the world-coordinate positions of every chunk this
// region owns.
func (r *Region) ChunkPositions() []gridmath.GridVec {
	positions := make([]gridmath.GridVec, 0, len(r.chunks))
	for _, c := range r.chunks {
		positions = append(positions, c.Position)
	}
	return positions
}

// ChunkAt returns the chunk at the given chunk-coordinate position, if it
// belongs to this region.
func (r *Region) ChunkAt(chunkpos gridmath.GridVec) (*Chunk, bool) {
	idx, ok := r.chunkposToIndex(chunkpos)
	if !ok {
		return nil, false
	}
	return r.chunks[idx], true
}

// Bounds returns the region's world-space extent.
func (r *Region) Bounds() gridmath.GridBounds {
	size := int32(ChunkSize * RegionSize)
	return gridmath.NewGridBoundsFromCorner(r.Position.Mul(size), gridmath.GridVec{X: size, Y: size})
}

// AddedChunks drains and returns chunk positions added since last polled.
func (r *Region) AddedChunks() []gridmath.GridVec {
	added := r.addedChunks
	r.addedChunks = nil
	return added
}

// UpdatedChunks returns chunk positions updated since last polled.
func (r *Region) UpdatedChunks() []gridmath.GridVec {
	return r.updatedChunks
}

// ClearUpdatedChunks empties the updated-chunks list.
func (r *Region) ClearUpdatedChunks() {
	r.updatedChunks = nil
}

func (r *Region) calcUpdatePriority() {
	staleFactor := (r.Staleness + 1) * (r.Staleness + 1)
	r.UpdatePriority = staleFactor * (r.LastChunkUpdates + 1)
}

// SkipUpdate is called for a frame where this region is not advanced: it
// grows staleness and recomputes priority so a long-idle region eventually
// wins the scheduler's attention.
func (r *Region) SkipUpdate() {
	r.Staleness++
	r.calcUpdatePriority()
}

// CommitUpdates resets staleness and per-frame counters, records which
// chunks changed last frame, rolls every chunk's dirty state forward, and
// propagates dirty edges across internal neighbor seams.
func (r *Region) CommitUpdates() {
	r.Staleness = 0
	r.LastChunkUpdates = 0
	r.calcUpdatePriority()

	for _, c := range r.chunks {
		if c.NeedsUpdate() || c.lastDirtyRect.Width() > 0 {
			r.updatedChunks = append(r.updatedChunks, c.Position)
		}
	}

	var g errgroup.Group
	for _, c := range r.chunks {
		c := c
		g.Go(func() error {
			c.CommitUpdates()
			return nil
		})
	}
	_ = g.Wait()

	for _, c := range r.chunks {
		for d, n := range c.neighbors {
			if n != nil && n.TouchesEdge(direction(d).opposite()) {
				c.markDirty()
			}
		}
	}
}

// Update runs one of the region's four 2-colored update phases in parallel
// across eligible chunks and returns how many chunks actually updated.
func (r *Region) Update(phase int) uint64 {
	xMod := int32(phase % 2)
	yMod := int32((phase / 2) % 2)

	var g errgroup.Group
	var updated uint64
	var mu sync.Mutex

	for _, c := range r.chunks {
		c := c
		if absMod2(c.Position.X) != xMod || absMod2(c.Position.Y) != yMod {
			continue
		}
		if !c.NeedsUpdate() {
			continue
		}
		g.Go(func() error {
			c.Update()
			mu.Lock()
			updated++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	r.LastChunkUpdates += updated
	return updated
}

func absMod2(v int32) int32 {
	m := v % 2
	if m < 0 {
		m = -m
	}
	return m
}

// CastRay walks line clipped to the region's bounds, fanning out to chunks
// in parallel and returning the closest hit in world coordinates.
func (r *Region) CastRay(mask particle.Set, line gridmath.GridLine) (HitInfo, bool) {
	if !r.Bounds().Overlaps(line.Bounds()) {
		return HitInfo{}, false
	}

	type result struct {
		worldPoint gridmath.GridVec
		kind       particle.Kind
		ok         bool
	}
	results := make([]result, len(r.chunks))

	var g errgroup.Group
	for i, c := range r.chunks {
		i, c := i, c
		g.Go(func() error {
			origin := c.Position.Mul(ChunkSize)
			localLine := gridmath.NewGridLine(line.A.Sub(origin), line.B.Sub(origin))
			p, ok := c.CastRay(mask, localLine)
			if ok {
				results[i] = result{worldPoint: p.Add(origin), kind: c.Get(p.X, p.Y).Kind, ok: true}
			}
			return nil
		})
	}
	_ = g.Wait()

	var best HitInfo
	var bestDist int64
	found := false
	for _, res := range results {
		if !res.ok {
			continue
		}
		dist := line.A.SqDistance(res.worldPoint)
		if !found || dist < bestDist {
			found = true
			bestDist = dist
			best = HitInfo{Point: res.worldPoint, Kind: res.kind}
		}
	}
	if found {
		// The normal points from the hit back to the cell the walk visited
		// just before it; a hit on line.A gets a zero normal.
		prev := line.A
		for it := line.Along(); ; {
			p, ok := it.Next()
			if !ok || p == best.Point {
				break
			}
			prev = p
		}
		best.Normal = prev.Sub(best.Point)
	}
	return best, found
}

// QueryTypesInBounds clips bounds to the region and unions the particle-kind
// sets of every overlapping chunk.
func (r *Region) QueryTypesInBounds(bounds gridmath.GridBounds) (particle.Set, bool) {
	overlap, ok := r.Bounds().Intersect(bounds)
	if !ok {
		return particle.None(), false
	}
	set := particle.None()
	for _, c := range r.chunks {
		local := toChunkLocalBounds(c, overlap)
		set = set.Union(c.GetParticleTypesInBounds(local))
	}
	return set, true
}

// CountMatchesInBounds clips bounds to the region and sums matching particle
// counts across every overlapping chunk.
func (r *Region) CountMatchesInBounds(bounds gridmath.GridBounds, mask particle.Set) (int, bool) {
	overlap, ok := r.Bounds().Intersect(bounds)
	if !ok {
		return 0, false
	}
	count := 0
	for _, c := range r.chunks {
		local := toChunkLocalBounds(c, overlap)
		count += c.CountMatchingInBounds(local, mask)
	}
	return count, true
}

func toChunkLocalBounds(c *Chunk, worldBounds gridmath.GridBounds) gridmath.GridBounds {
	origin := c.Position.Mul(ChunkSize)
	return gridmath.NewGridBoundsFromExtents(worldBounds.BottomLeft.Sub(origin), worldBounds.TopRight.Sub(origin))
}

// CheckAddNeighbor stitches chunk-to-chunk neighbor links across the seam
// with an adjacent region, if the two regions are adjacent.
func (r *Region) CheckAddNeighbor(other *Region) {
	if !isAdjacentRegion(r.Position, other.Position) {
		return
	}
	delta := other.Position.Sub(r.Position)
	selfPos, otherPos := seamChunkPairs(delta)
	for i := range selfPos {
		selfChunk := r.chunks[LocalChunkposToIndex(selfPos[i])]
		otherChunk := other.chunks[LocalChunkposToIndex(otherPos[i])]
		selfChunk.CheckAddNeighbor(otherChunk)
	}
}

// CheckRemoveNeighbor breaks chunk-to-chunk neighbor links across the seam
// with the region at otherPosition, if adjacent.
func (r *Region) CheckRemoveNeighbor(otherPosition gridmath.GridVec) {
	if !isAdjacentRegion(r.Position, otherPosition) {
		return
	}
	delta := otherPosition.Sub(r.Position)
	selfPos, otherLocalPos := seamChunkPairs(delta)
	for i := range selfPos {
		selfChunk := r.chunks[LocalChunkposToIndex(selfPos[i])]
		otherChunkWorldPos := otherPosition.Mul(RegionSize).Add(otherLocalPos[i])
		selfChunk.CheckRemoveNeighbor(otherChunkWorldPos)
	}
}

func isAdjacentRegion(a, b gridmath.GridVec) bool {
	return a.IsAdjacent(b)
}

// seamChunkPairs enumerates, for a region adjacency delta (each component in
// {-1,0,1}, not both zero), the matching local chunk-position pairs across
// the shared seam: a single corner chunk when both axes are fixed, or a full
//16-chunk edge when one axis ranges.
func seamChunkPairs(delta gridmath.GridVec) (selfPositions, otherPositions []gridmath.GridVec) {
	xSelf, xOther := seamAxisValues(delta.X)
	ySelf, yOther := seamAxisValues(delta.Y)

	n := max(len(xSelf), len(ySelf))
	for i := 0; i < n; i++ {
		sx, ox := xSelf[i%len(xSelf)], xOther[i%len(xOther)]
		sy, oy := ySelf[i%len(ySelf)], yOther[i%len(yOther)]
		selfPositions = append(selfPositions, gridmath.GridVec{X: sx, Y: sy})
		otherPositions = append(otherPositions, gridmath.GridVec{X: ox, Y: oy})
	}
	return selfPositions, otherPositions
}

// seamAxisValues returns the self-side and other-side coordinate lists along
// one axis for a given adjacency delta component: a fixed edge index when
// delta is +-1, or the full 0..RegionSize-1 range when delta is 0.
func seamAxisValues(d int32) (self, other []int32) {
	switch d {
	case -1:
		return []int32{0}, []int32{RegionSize - 1}
	case 1:
		return []int32{RegionSize - 1}, []int32{0}
	default:
		all := make([]int32, RegionSize)
		for i := range all {
			all[i] = int32(i)
		}
		return all, all
	}
}
