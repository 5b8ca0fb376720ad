package particle

import "github.com/jakemcleman/sandsim/internal/gridmath"

func v(x, y int32) gridmath.GridVec { return gridmath.GridVec{X: x, Y: y} }

// movementTemplates holds, per kind, an ordered list of tiers; within a tier,
// offsets are tried in order. The first offset whose destination is Air or a
// kind this kind can replace wins. Tier order is what keeps a liquid column
// from collapsing in one pass while still allowing it to flow.
var movementTemplates = map[Kind][][]gridmath.GridVec{
	Sand: {
		{v(0, -1), v(0, -2)},
		{v(-1, -1), v(1, -1), v(2, -1), v(-2, -1)},
	},
	Gravel: {
		{v(0, -4), v(0, -2), v(0, -3)},
		{v(0, -1)},
		{v(1, -1), v(-1, -1)},
	},
	Water: {
		{v(1, -2), v(-1, -2), v(0, -2), v(1, -1), v(-1, -1), v(0, -1)},
		{v(1, 0), v(-1, 0), v(2, -1), v(-2, -1), v(2, 0), v(-2, 0), v(3, -1), v(-3, -1)},
		{v(3, 0), v(-3, 0), v(5, -1), v(-5, -1), v(5, 0), v(-5, 0), v(5, -1), v(-5, -1)},
	},
	Steam: {
		{v(1, 2), v(-1, 2), v(0, 2), v(1, 1), v(-1, 1), v(0, 1)},
		{v(1, 0), v(-1, 0), v(2, 0), v(-2, 0), v(2, 1), v(-2, 1)},
		{v(1, -1), v(-1, -1)},
	},
	Lava: {
		{v(1, -2), v(-1, -2), v(0, -2), v(0, -1)},
		{v(1, -1), v(-1, -1), v(1, 0), v(-1, 0), v(2, -1), v(-2, -1), v(2, 0), v(-2, 0), v(3, -1), v(-3, -1)},
	},
}

// MovementTiers returns the ordered movement tiers for a kind. All kinds not
// listed in movementTemplates are immobile and return nil.
func MovementTiers(k Kind) [][]gridmath.GridVec {
	return movementTemplates[k]
}

var replacementSets = map[Kind]Set{
	Sand:   Of(Water, Lava),
	Gravel: Of(Water, Steam, Lava),
	Steam:  Of(Water, Lava),
	Lava:   Of(Water, Steam),
}

// CanReplace reports whether a particle of kind k may displace a particle of
// kind other when moving into its cell.
func CanReplace(k, other Kind) bool {
	return replacementSets[k].Test(other)
}
