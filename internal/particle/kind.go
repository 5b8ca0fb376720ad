// Package particle defines the particle kinds, movement rules, and thermal
// state-change rules that drive a single chunk update step.
package particle

// Kind is a closed enumeration of every particle type the simulation knows
// about. Boundary and RegionBoundary are sentinels returned by queries
// outside resident territory; Dirty is a debug marker, never placed by the
// simulation itself.
type Kind uint8

const (
	Air Kind = iota
	Sand
	Water
	Stone
	Gravel
	Steam
	Lava
	Ice
	Source
	LSource
	Boundary
	RegionBoundary
	Dirty

	numKinds = iota
)

func (k Kind) String() string {
	switch k {
	case Air:
		return "Air"
	case Sand:
		return "Sand"
	case Water:
		return "Water"
	case Stone:
		return "Stone"
	case Gravel:
		return "Gravel"
	case Steam:
		return "Steam"
	case Lava:
		return "Lava"
	case Ice:
		return "Ice"
	case Source:
		return "Source"
	case LSource:
		return "LSource"
	case Boundary:
		return "Boundary"
	case RegionBoundary:
		return "RegionBoundary"
	case Dirty:
		return "Dirty"
	default:
		return "Unknown"
	}
}

// RGBA is an inert debug color, used only by stats/log output and tests - no
// component here ever produces a pixel.
type RGBA [4]uint8

// DebugColor returns a representative color for a kind, useful for log lines
// and test failure messages.
func (k Kind) DebugColor() RGBA {
	switch k {
	case Sand:
		return RGBA{0xdc, 0xcd, 0x79, 0xff}
	case Water:
		return RGBA{0x6d, 0x95, 0xc9, 0xff}
	case Gravel:
		return RGBA{0xa9, 0xa3, 0xb5, 0xff}
	case Stone:
		return RGBA{0x6b, 0x6f, 0x75, 0xff}
	case Steam:
		return RGBA{0xe6, 0xec, 0xf0, 0xff}
	case Lava:
		return RGBA{0xf0, 0x95, 0x16, 0xff}
	case Ice:
		return RGBA{0xbf, 0xdb, 0xff, 0xff}
	case Air:
		return RGBA{0x1e, 0x1e, 0x1e, 0xff}
	case Source:
		return RGBA{0xf7, 0xdf, 0x00, 0xff}
	case LSource:
		return RGBA{0xff, 0xdf, 0x00, 0xff}
	case Dirty:
		return RGBA{0xff, 0x00, 0xff, 0xff}
	case RegionBoundary:
		return RGBA{0xff, 0xff, 0x00, 0xff}
	default:
		return RGBA{0x00, 0x00, 0x00, 0xff}
	}
}

// HeatContribution is the amount a single particle of this kind adds to a
// neighborhood's local temperature sample.
func (k Kind) HeatContribution() int32 {
	switch k {
	case Ice:
		return -8
	case Water:
		return -3
	case Stone:
		return 2
	case Sand:
		return 1
	case Gravel:
		return 1
	case Lava:
		return 64
	case Steam:
		return 8
	default:
		return 0
	}
}
