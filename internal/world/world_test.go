package world

import (
	"testing"
	"time"

	"github.com/jakemcleman/sandsim/internal/gridmath"
	"github.com/jakemcleman/sandsim/internal/particle"
	"github.com/stretchr/testify/assert"
)

// TestAddRegionIdempotentUnderRepeatedRequests pins the invariant that
// requesting a region many times before its load completes never enqueues
// more than one generate job, and so never produces more than one resident
// region for that position.
func TestAddRegionIdempotentUnderRepeatedRequests(t *testing.T) {
	w := New(FlatGenerator{GroundHeight: 0}, 1, nil)
	defer w.Close()

	pos := gridmath.NewGridVec(3, 3)
	for i := 0; i < 20; i++ {
		w.mu.Lock()
		w.addRegion(pos)
		w.mu.Unlock()
	}

	assert.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.drainLoads()
		_, ok := w.regions[pos]
		return ok
	}, time.Second, time.Millisecond)

	assert.Equal(t, 1, len(w.regions))
	assert.Equal(t, 0, w.streamer.LoadingCount())
}

// TestFrameBudgetSelectsHighestPriorityRegion pins a frame-budget scenario:
// three regions with last-frame chunk update counts 100, 10, and 1, all
// equally stale, sit outside the visible rect. A budget of 50 selects only
// the first (its own update estimate already clears the budget) and skips
// the other two.
func TestFrameBudgetSelectsHighestPriorityRegion(t *testing.T) {
	w := New(FlatGenerator{GroundHeight: 0}, 1, nil)
	defer w.Close()

	positions := []gridmath.GridVec{
		gridmath.NewGridVec(0, 0),
		gridmath.NewGridVec(5, 0),
		gridmath.NewGridVec(10, 0),
	}
	lastUpdates := []uint64{100, 10, 1}
	for i, pos := range positions {
		r := NewRegion(pos, w.generator, 1)
		r.LastChunkUpdates = lastUpdates[i]
		r.calcUpdatePriority()
		w.regions[pos] = r
	}

	farVisible := gridmath.NewGridBoundsFromCorner(gridmath.NewGridVec(100000, 100000), gridmath.NewGridVec(1, 1))
	stats := w.Update(farVisible, 50, WorldUpdateOptions{})

	assert.Equal(t, uint64(1), stats.RegionUpdates)
	assert.Equal(t, uint64(0), w.regions[positions[0]].Staleness)
	assert.Equal(t, uint64(1), w.regions[positions[1]].Staleness)
	assert.Equal(t, uint64(1), w.regions[positions[2]].Staleness)
}

// TestCompressedRoundTripViaEviction pins a full evict-then-reload cycle: a
// placed particle survives compression to a CompressedRegion and
// decompression back, reached purely through World.Update and the public
// editing/query API.
func TestCompressedRoundTripViaEviction(t *testing.T) {
	w := New(FlatGenerator{GroundHeight: 0}, 1, nil)
	defer w.Close()

	origin := gridmath.GridVec{}
	nearVisible := gridmath.NewGridBoundsFromCorner(gridmath.GridVec{}, gridmath.NewGridVec(1, 1))
	farVisible := gridmath.NewGridBoundsFromCorner(gridmath.NewGridVec(100000, 100000), gridmath.NewGridVec(1, 1))

	assert.Eventually(t, func() bool {
		w.Update(nearVisible, 0, WorldUpdateOptions{})
		w.mu.Lock()
		_, ok := w.regions[origin]
		w.mu.Unlock()
		return ok
	}, time.Second, time.Millisecond)

	markerPos := gridmath.NewGridVec(5, 5)
	w.ReplaceParticle(markerPos, particle.New(particle.Stone))
	assert.Equal(t, particle.Stone, w.GetParticle(markerPos).Kind)

	for i := 0; i < defaultStalenessThreshold+2; i++ {
		w.Update(farVisible, 0, WorldUpdateOptions{})
	}

	assert.Eventually(t, func() bool {
		w.Update(farVisible, 0, WorldUpdateOptions{})
		w.mu.Lock()
		defer w.mu.Unlock()
		_, compressed := w.compressedRegions[origin]
		return compressed
	}, time.Second, time.Millisecond)

	w.mu.Lock()
	_, stillResident := w.regions[origin]
	w.mu.Unlock()
	assert.False(t, stillResident)

	assert.Eventually(t, func() bool {
		w.Update(nearVisible, 0, WorldUpdateOptions{})
		w.mu.Lock()
		_, ok := w.regions[origin]
		w.mu.Unlock()
		return ok
	}, time.Second, time.Millisecond)

	assert.Equal(t, particle.Stone, w.GetParticle(markerPos).Kind)
}
