package sound

// Category selects an aircraft profile from the builtin table.
type Category string

const (
	CategorySinglePiston Category = "single-piston"
	CategoryTwinPiston   Category = "twin-piston"
	CategoryTurboprop    Category = "turboprop"
	CategoryJet          Category = "jet"
)

// Profile is the static per-category tuning table. Profiles are loaded
// once and never mutated; layers read them but do not write.
type Profile struct {
	Category     Category
	Harmonics    int // harmonic bank size, 0 for pure jets
	PropBlades   int // 0 when no propeller tone
	IdleRPM      float32
	MaxRPM       float32
	EngineCount  int
	TurbineWhine bool
	N1Tone       bool

	// Stall buffet shaping, consumed by the shake engine.
	BuffetAOA  float32 // degrees AOA where buffet peaks
	BuffetGain float32

	// HarmonicLevels overrides the default harmonic amplitude ladder when
	// non-nil (index = harmonic number). Fitted by cmd/profile-fit.
	HarmonicLevels []float32
	PropLevel      float32 // blade-pass tone level
	TurbineLevel   float32 // turbine whine level

	// Per-layer mix volumes, 0..1.
	EngineMix     float32
	GroundMix     float32
	SystemsMix    float32
	MechanicalMix float32
	WarningMix    float32
}

var profiles = map[Category]*Profile{
	CategorySinglePiston: {
		Category:    CategorySinglePiston,
		Harmonics:   5,
		PropBlades:  2,
		IdleRPM:     700,
		MaxRPM:      2700,
		EngineCount: 1,
		BuffetAOA:   16,
		BuffetGain:  1.0,
		PropLevel:   0.25,
		EngineMix:   0.8, GroundMix: 0.9, SystemsMix: 0.5, MechanicalMix: 0.8, WarningMix: 1.0,
	},
	CategoryTwinPiston: {
		Category:    CategoryTwinPiston,
		Harmonics:   5,
		PropBlades:  3,
		IdleRPM:     800,
		MaxRPM:      2500,
		EngineCount: 2,
		BuffetAOA:   15,
		BuffetGain:  1.0,
		PropLevel:   0.25,
		EngineMix:   0.8, GroundMix: 0.9, SystemsMix: 0.5, MechanicalMix: 0.8, WarningMix: 1.0,
	},
	CategoryTurboprop: {
		Category:     CategoryTurboprop,
		Harmonics:    3,
		PropBlades:   4,
		IdleRPM:      1000,
		MaxRPM:       2200,
		EngineCount:  2,
		TurbineWhine: true,
		BuffetAOA:    14,
		BuffetGain:   0.8,
		PropLevel:    0.25,
		TurbineLevel: 0.3,
		EngineMix:    0.85, GroundMix: 0.9, SystemsMix: 0.55, MechanicalMix: 0.8, WarningMix: 1.0,
	},
	CategoryJet: {
		Category:     CategoryJet,
		Harmonics:    0,
		PropBlades:   0,
		IdleRPM:      0,
		MaxRPM:       0,
		EngineCount:  2,
		TurbineWhine: true,
		N1Tone:       true,
		BuffetAOA:    12,
		BuffetGain:   0.6,
		TurbineLevel: 0.3,
		EngineMix:    0.85, GroundMix: 0.85, SystemsMix: 0.6, MechanicalMix: 0.8, WarningMix: 1.0,
	},
}

// DefaultCategory is used when an unknown category key is requested.
const DefaultCategory = CategorySinglePiston

// ProfileFor returns the profile for a category, falling back to the
// default profile for unknown keys rather than failing.
func ProfileFor(category Category) *Profile {
	if p, ok := profiles[category]; ok {
		return p
	}
	return profiles[DefaultCategory]
}

// Clone returns a mutable copy, used by preset overrides and fitting.
func (p *Profile) Clone() *Profile {
	cp := *p
	if p.HarmonicLevels != nil {
		cp.HarmonicLevels = append([]float32(nil), p.HarmonicLevels...)
	}
	return &cp
}

// defaultHarmonicLevels is the amplitude ladder for the harmonic bank.
var defaultHarmonicLevels = []float32{0.5, 0.3, 0.15, 0.08}

// HarmonicLevel returns the amplitude scale for harmonic i (0-indexed).
func (p *Profile) HarmonicLevel(i int) float32 {
	if i < len(p.HarmonicLevels) {
		return p.HarmonicLevels[i]
	}
	if p.HarmonicLevels == nil && i < len(defaultHarmonicLevels) {
		return defaultHarmonicLevels[i]
	}
	return 0.05
}
