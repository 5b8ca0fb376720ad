package particle

// Particle is a single grid cell: a kind plus a one-bit "touched this frame"
// flag that stops a moved particle from being processed twice within the
// same update pass.
type Particle struct {
	Kind    Kind
	Touched bool
}

// New returns a fresh, untouched particle of the given kind.
func New(kind Kind) Particle {
	return Particle{Kind: kind}
}

// Air is the default particle, the zero value of Particle.
var air = Particle{Kind: Air}

func Default() Particle { return air }
