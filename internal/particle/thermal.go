package particle

import "math/rand"

// thermalRule is one direction of a thermally-driven kind transition: once
// local temperature crosses Threshold (at or above for melt, at or below for
// freeze), a particle has a chance each update to convert into Target,
// scaled by how far past the threshold the local temperature sits.
type thermalRule struct {
	Threshold   int32
	Target      Kind
	Probability float64
}

// StateChange holds a kind's optional melt and freeze rules. Water, for
// instance, has both: it can melt to Steam above one threshold and freeze to
// Ice below another. Either, both, or neither may be set.
type StateChange struct {
	Melt   *thermalRule
	Freeze *thermalRule
}

var stateChanges = map[Kind]StateChange{
	Ice:    {Melt: &thermalRule{Threshold: -28, Target: Water, Probability: 0.5}},
	Water:  {Melt: &thermalRule{Threshold: 64, Target: Steam, Probability: 0.15}, Freeze: &thermalRule{Threshold: -40, Target: Ice, Probability: 0.15}},
	Steam:  {Freeze: &thermalRule{Threshold: 50, Target: Water, Probability: 0.05}},
	Stone:  {Melt: &thermalRule{Threshold: 300, Target: Lava, Probability: 0.2}},
	Gravel: {Melt: &thermalRule{Threshold: 250, Target: Lava, Probability: 0.25}},
	Sand:   {Melt: &thermalRule{Threshold: 180, Target: Lava, Probability: 0.5}},
	Lava:   {Freeze: &thermalRule{Threshold: 196, Target: Stone, Probability: 0.1}},
}

// LookupStateChange returns the thermal transition rule set for k, if any.
func LookupStateChange(k Kind) (StateChange, bool) {
	sc, ok := stateChanges[k]
	return sc, ok
}

// TryStateChange decides, given a local temperature sample, whether a
// particle of kind k should convert this update. Melt is checked first, then
// freeze; each scales its base probability linearly with how far past its
// own threshold the temperature sits, clamped to [0,1], then resolves with a
// single Bernoulli draw.
func TryStateChange(k Kind, localTemp int32, rng *rand.Rand) (Kind, bool) {
	sc, ok := stateChanges[k]
	if !ok {
		return k, false
	}

	if m := sc.Melt; m != nil && localTemp >= m.Threshold {
		scale := 1.0 + float64(localTemp-m.Threshold)/absF(float64(m.Threshold))
		if rng.Float64() < clamp01(m.Probability*scale) {
			return m.Target, true
		}
	}

	if f := sc.Freeze; f != nil && localTemp <= f.Threshold {
		scale := 1.0 + float64(f.Threshold-localTemp)/absF(float64(f.Threshold))
		if rng.Float64() < clamp01(f.Probability*scale) {
			return f.Target, true
		}
	}

	return k, false
}

func absF(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
