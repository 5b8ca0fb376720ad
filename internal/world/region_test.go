package world

import (
	"testing"

	"github.com/jakemcleman/sandsim/internal/gridmath"
	"github.com/jakemcleman/sandsim/internal/particle"
	"github.com/stretchr/testify/assert"
)

func TestRegionSeamNeighborSymmetry(t *testing.T) {
	gen := FlatGenerator{GroundHeight: 0}
	a := NewRegion(gridmath.NewGridVec(0, 0), gen, 1)
	b := NewRegion(gridmath.NewGridVec(1, 0), gen, 2)

	a.CheckAddNeighbor(b)

	aEdge, ok := a.ChunkAt(gridmath.NewGridVec(RegionSize-1, 0))
	assert.True(t, ok)
	bEdge, ok := b.ChunkAt(gridmath.NewGridVec(RegionSize, 0))
	assert.True(t, ok)

	assert.Same(t, bEdge, aEdge.neighbors[dirE])
	assert.Same(t, aEdge, bEdge.neighbors[dirW])

	b.CheckRemoveNeighbor(a.Position)
	assert.Nil(t, bEdge.neighbors[dirW])
}

func TestRegionPriorityMonotonicityUnderInactivity(t *testing.T) {
	gen := FlatGenerator{GroundHeight: 0}
	r := NewRegion(gridmath.NewGridVec(0, 0), gen, 1)
	r.LastChunkUpdates = 3
	r.calcUpdatePriority()

	stalenessInitial := r.Staleness
	for k := uint64(1); k <= 5; k++ {
		prevPriority := r.UpdatePriority
		r.SkipUpdate()
		assert.Greater(t, r.UpdatePriority, prevPriority)

		want := (stalenessInitial + k + 1) * (stalenessInitial + k + 1) * (r.LastChunkUpdates + 1)
		assert.Equal(t, want, r.UpdatePriority)
	}
}

func TestRegionCommitUpdatesResetsStalenessAndPriority(t *testing.T) {
	gen := FlatGenerator{GroundHeight: 0}
	r := NewRegion(gridmath.NewGridVec(0, 0), gen, 1)
	r.Staleness = 7
	r.LastChunkUpdates = 5
	r.calcUpdatePriority()

	r.CommitUpdates()

	assert.Equal(t, uint64(0), r.Staleness)
	assert.Equal(t, uint64(0), r.LastChunkUpdates)
	assert.Equal(t, uint64(1), r.UpdatePriority)
}

func TestGenerateTerrainUsesGenerator(t *testing.T) {
	gen := FlatGenerator{GroundHeight: 10}
	r := NewRegion(gridmath.NewGridVec(0, 0), gen, 1)
	assert.NoError(t, r.GenerateTerrain())

	c, ok := r.ChunkAt(gridmath.NewGridVec(0, 0))
	assert.True(t, ok)
	assert.Equal(t, particle.Stone, c.Get(0, 5).Kind)
	assert.Equal(t, particle.Air, c.Get(0, 20).Kind)
}

func TestRegionCompressDecompressRoundTrip(t *testing.T) {
	gen := FlatGenerator{GroundHeight: 0}
	r := NewRegion(gridmath.NewGridVec(2, -1), gen, 1)
	c, ok := r.ChunkAt(gridmath.NewGridVec(RegionSize*2, -RegionSize))
	assert.True(t, ok)
	c.Set(5, 5, particle.New(particle.Stone))

	compressed := r.CompressRegion()
	restored := RegionFromCompressed(compressed, gen)

	restoredChunk, ok := restored.ChunkAt(gridmath.NewGridVec(RegionSize*2, -RegionSize))
	assert.True(t, ok)
	assert.Equal(t, particle.Stone, restoredChunk.Get(5, 5).Kind)
}

func TestRegionCastRayCrossesChunkSeam(t *testing.T) {
	gen := FlatGenerator{GroundHeight: 0}
	r := NewRegion(gridmath.NewGridVec(0, 0), gen, 1)
	c, ok := r.ChunkAt(gridmath.NewGridVec(1, 0))
	assert.True(t, ok)
	c.Set(10, 10, particle.New(particle.Stone))

	worldHit := gridmath.NewGridVec(ChunkSize+10, 10)
	line := gridmath.NewGridLine(gridmath.NewGridVec(0, 10), gridmath.NewGridVec(ChunkSize*2, 10))

	hit, ok := r.CastRay(particle.Of(particle.Stone), line)
	assert.True(t, ok)
	assert.Equal(t, worldHit, hit.Point)
	assert.Equal(t, particle.Stone, hit.Kind)
}
