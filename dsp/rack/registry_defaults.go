package rack

// Plugin type names.
const (
	TypeBeep       = "beep"
	TypeBell       = "bell"
	TypeKick       = "kick"
	TypeSnare      = "snare"
	TypeHiHat      = "hihat"
	TypePluck      = "pluck"
	TypeSlicer     = "slicer"
	TypeBitCrusher = "bitcrusher"
	TypeChorus     = "chorus"
	TypePhaser     = "phaser"
	TypeReverb     = "reverb"
	TypeIsolator   = "isolator"
	TypeLimiter    = "limiter"
)

// DefaultRegistry returns a Registry pre-populated with every built-in
// instrument and effect.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(TypeBeep, newBeep)
	r.MustRegister(TypeBell, newBell)
	r.MustRegister(TypeKick, newKick)
	r.MustRegister(TypeSnare, newSnare)
	r.MustRegister(TypeHiHat, newHiHat)
	r.MustRegister(TypePluck, newPluck)
	r.MustRegister(TypeSlicer, newSlicer)

	r.MustRegister(TypeBitCrusher, newBitCrusher)
	r.MustRegister(TypeChorus, newChorus)
	r.MustRegister(TypePhaser, newPhaser)
	r.MustRegister(TypeReverb, newReverb)
	r.MustRegister(TypeIsolator, newIsolator)
	r.MustRegister(TypeLimiter, newLimiter)

	return r
}
