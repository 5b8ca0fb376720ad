package world

import (
	"github.com/jakemcleman/sandsim/internal/gridmath"
	"github.com/jakemcleman/sandsim/internal/particle"
)

// BrushKind is a pure, UI-free catalogue of the editing tools a host would
// bind to a mouse button: place a particle kind, heat, cool, break, or erase. The
// host owns input and tool selection; this only maps a selected brush and a
// world position to the right World editing call.
type BrushKind uint8

const (
	BrushPlace BrushKind = iota
	BrushMelt
	BrushChill
	BrushBreak
	BrushErase
)

// Brush pairs a BrushKind with the parameters its edit needs.
type Brush struct {
	Kind BrushKind

	// PlaceKind is the particle placed by BrushPlace.
	PlaceKind particle.Kind

	Radius int32
}

const (
	meltTemperature  = 800
	chillTemperature = -100
	thermalStrength  = 0.01
	breakStrength    = 0.1
	eraseRadius      = 10
)

// Apply routes a brush to its World editing call at pos. BrushPlace does not
// overwrite existing particles, matching a left-click paint tool; use
// World.ClearCircle directly for an unconditional erase (the right-click
// tool in the original).
func (b Brush) Apply(w *World, pos gridmath.GridVec) {
	switch b.Kind {
	case BrushPlace:
		w.PlaceCircle(pos, b.Radius, particle.New(b.PlaceKind), false)
	case BrushMelt:
		w.TempChangeCircle(pos, b.Radius, thermalStrength, meltTemperature)
	case BrushChill:
		w.TempChangeCircle(pos, b.Radius, thermalStrength, chillTemperature)
	case BrushBreak:
		w.BreakCircle(pos, b.Radius, breakStrength)
	case BrushErase:
		w.ClearCircle(pos, eraseRadius)
	}
}
