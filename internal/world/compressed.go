package world

import "github.com/jakemcleman/sandsim/internal/gridmath"

// CompressedRegion is an off-simulation snapshot of a region: its position,
// one compressed blob per chunk, and the generator handle needed to
// resurrect it. Resurrecting a CompressedRegion must reproduce every
// chunk's particle array exactly.
type CompressedRegion struct {
	Position gridmath.GridVec

	chunks   []CompressedChunk
	seedBase int64
}

// CompressRegion snapshots every chunk in the region via RLE compression.
func (r *Region) CompressRegion() *CompressedRegion {
	cr := &CompressedRegion{
		Position: r.Position,
		chunks:   make([]CompressedChunk, len(r.chunks)),
		seedBase: r.seedBase,
	}
	for i, c := range r.chunks {
		cr.chunks[i] = c.Compress()
	}
	return cr
}
