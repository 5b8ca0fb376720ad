package world

import (
	"github.com/aquilax/go-perlin"

	"github.com/jakemcleman/sandsim/internal/gridmath"
	"github.com/jakemcleman/sandsim/internal/particle"
)

// WorldGenerator is the external collaborator that supplies initial terrain.
// Generate must be pure and safe to call concurrently from many worker
// goroutines during region generation.
type WorldGenerator interface {
	Generate(worldPosition gridmath.GridVec) particle.Particle
}

// FlatGenerator fills everything below GroundHeight with Stone and leaves
// the rest Air. Useful for tests and headless smoke runs.
type FlatGenerator struct {
	GroundHeight int32
}

func (g FlatGenerator) Generate(worldPosition gridmath.GridVec) particle.Particle {
	if worldPosition.Y < g.GroundHeight {
		return particle.New(particle.Stone)
	}
	return particle.Default()
}

// PerlinGenerator produces rolling terrain from layered Perlin noise: a
// low-frequency height field carved by a higher-frequency surface layer,
// with a thin sand band over stone.
type PerlinGenerator struct {
	surface *perlin.Perlin
	height  *perlin.Perlin

	baseHeight   float64
	surfaceAmp   float64
	heightAmp    float64
	surfaceFreq  float64
	heightFreq   float64
	sandBandSize int32
}

// NewPerlinGenerator builds a generator seeded deterministically from seed.
func NewPerlinGenerator(seed int64, baseHeight int32) *PerlinGenerator {
	return &PerlinGenerator{
		surface:      perlin.NewPerlin(1.5, 2.0, 3, seed),
		height:       perlin.NewPerlin(2.0, 2.5, 4, seed+1),
		baseHeight:   float64(baseHeight),
		surfaceAmp:   12,
		heightAmp:    40,
		surfaceFreq:  0.02,
		heightFreq:   0.003,
		sandBandSize: 3,
	}
}

func (g *PerlinGenerator) surfaceHeight(x int32) float64 {
	fx := float64(x)
	rolling := g.height.Noise2D(fx*g.heightFreq, 0) * g.heightAmp
	detail := g.surface.Noise2D(fx*g.surfaceFreq, 0) * g.surfaceAmp
	return g.baseHeight + rolling + detail
}

// Generate implements WorldGenerator by comparing worldPosition against a
// 1D rolling surface height: Air above it, a sand band just under it, Stone
// further down.
func (g *PerlinGenerator) Generate(worldPosition gridmath.GridVec) particle.Particle {
	surfaceY := g.surfaceHeight(worldPosition.X)
	if float64(worldPosition.Y) > surfaceY {
		return particle.Default()
	}
	if float64(worldPosition.Y) > surfaceY-float64(g.sandBandSize) {
		return particle.New(particle.Sand)
	}
	return particle.New(particle.Stone)
}
