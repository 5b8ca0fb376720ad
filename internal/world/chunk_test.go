package world

import (
	"testing"

	"github.com/jakemcleman/sandsim/internal/gridmath"
	"github.com/jakemcleman/sandsim/internal/particle"
	"github.com/stretchr/testify/assert"
)

func tick(c *Chunk) {
	c.Update()
	c.CommitUpdates()
}

// TestSandSettles pins scenario S5: a single grain of sand falls to the
// chunk floor and then stops moving.
func TestSandSettles(t *testing.T) {
	c := NewChunk(gridmath.NewGridVec(0, 0), 1)
	c.Add(32, 32, particle.New(particle.Sand))

	tick(c)
	assert.Equal(t, particle.Sand, c.Get(32, 31).Kind)
	assert.Equal(t, particle.Air, c.Get(32, 32).Kind)

	for i := 0; i < 31; i++ {
		tick(c)
	}
	assert.Equal(t, particle.Sand, c.Get(32, 0).Kind)

	tick(c)
	assert.Equal(t, particle.Sand, c.Get(32, 0).Kind)
}

func TestSetAddReplaceFiltered(t *testing.T) {
	c := NewChunk(gridmath.NewGridVec(0, 0), 1)

	assert.True(t, c.Add(5, 5, particle.New(particle.Water)))
	assert.False(t, c.Add(5, 5, particle.New(particle.Sand)))
	assert.Equal(t, particle.Water, c.Get(5, 5).Kind)

	displaced, ok := c.ReplaceFiltered(5, 5, particle.New(particle.Sand), particle.Of(particle.Water))
	assert.True(t, ok)
	assert.Equal(t, particle.Water, displaced)
	assert.Equal(t, particle.Sand, c.Get(5, 5).Kind)

	_, ok = c.ReplaceFiltered(5, 5, particle.New(particle.Lava), particle.Of(particle.Water))
	assert.False(t, ok)
	assert.Equal(t, particle.Sand, c.Get(5, 5).Kind)
}

func TestNeighborSymmetry(t *testing.T) {
	a := NewChunk(gridmath.NewGridVec(0, 0), 1)
	b := NewChunk(gridmath.NewGridVec(1, 0), 2)

	assert.True(t, a.CheckAddNeighbor(b))
	assert.Same(t, b, a.neighbors[dirE])
	assert.Same(t, a, b.neighbors[dirW])

	assert.True(t, a.CheckRemoveNeighbor(b.Position))
	assert.Nil(t, a.neighbors[dirE])
}

func TestMovementCrossesChunkBoundary(t *testing.T) {
	a := NewChunk(gridmath.NewGridVec(0, 0), 1)
	b := NewChunk(gridmath.NewGridVec(0, -1), 2)
	a.CheckAddNeighbor(b)

	a.Add(0, 0, particle.New(particle.Sand))
	tick(a)

	assert.Equal(t, particle.Sand, b.Get(0, ChunkSize-1).Kind)
	assert.Equal(t, particle.Air, a.Get(0, 0).Kind)
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	c := NewChunk(gridmath.NewGridVec(3, -2), 1)
	c.Set(0, 0, particle.New(particle.Stone))
	c.Set(1, 0, particle.New(particle.Stone))
	c.Set(40, 40, particle.New(particle.Water))
	c.particles[localIndex(10, 10)].Touched = true

	compressed := c.Compress()
	var totalRun int
	for _, r := range compressed.runs {
		totalRun += int(r.length)
	}
	assert.Equal(t, ChunkSize*ChunkSize, totalRun)

	restored := compressed.Decompress(1)
	assert.Equal(t, c.Position, restored.Position)
	for i := range c.particles {
		assert.Equal(t, c.particles[i].Kind, restored.particles[i].Kind, "index %d", i)
		assert.False(t, restored.particles[i].Touched)
	}
}

func TestMarshalUnmarshalBytesRoundTrip(t *testing.T) {
	c := NewChunk(gridmath.NewGridVec(0, 0), 1)
	c.Set(0, 0, particle.New(particle.Lava))
	c.Set(5, 5, particle.New(particle.Ice))

	compressed := c.Compress()
	data := compressed.MarshalBytes()
	roundTripped := UnmarshalCompressedBytes(c.Position, data)

	restored := roundTripped.Decompress(1)
	for i := range c.particles {
		assert.Equal(t, c.particles[i].Kind, restored.particles[i].Kind, "index %d", i)
	}
}

func TestCastRayFindsFirstMatch(t *testing.T) {
	c := NewChunk(gridmath.NewGridVec(0, 0), 1)
	c.Set(10, 10, particle.New(particle.Stone))

	line := gridmath.NewGridLine(gridmath.NewGridVec(0, 10), gridmath.NewGridVec(20, 10))
	hit, ok := c.CastRay(particle.Of(particle.Stone), line)
	assert.True(t, ok)
	assert.Equal(t, gridmath.NewGridVec(10, 10), hit)
}

func TestCountMatchingInBounds(t *testing.T) {
	c := NewChunk(gridmath.NewGridVec(0, 0), 1)
	c.Set(0, 0, particle.New(particle.Stone))
	c.Set(1, 0, particle.New(particle.Stone))
	c.Set(2, 0, particle.New(particle.Water))

	bounds := gridmath.NewGridBoundsFromCorner(gridmath.GridVec{}, gridmath.NewGridVec(3, 1))
	assert.Equal(t, 2, c.CountMatchingInBounds(bounds, particle.Of(particle.Stone)))

	types := c.GetParticleTypesInBounds(bounds)
	assert.True(t, types.Test(particle.Stone))
	assert.True(t, types.Test(particle.Water))
	assert.False(t, types.Test(particle.Sand))
}
