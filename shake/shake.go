// Package shake produces a bounded 2D displacement and rotation for a
// visual target, driven by the same flight-state snapshots as the audio
// layers but with no audio output.
package shake

import (
	"math"
	"math/rand"
	"time"

	"github.com/cobrahjh/simsound/sound"
)

// Transform is one frame's displacement in display units and degrees.
type Transform struct {
	X   float32
	Y   float32
	Rot float32
}

// Target receives the combined transform each tick. Hosts wrap their
// visual element handle in this.
type Target interface {
	Apply(Transform)
}

// Config configures a ShakeEngine. Zero values select defaults.
type Config struct {
	Profile *sound.Profile // buffet shaping; nil uses the default profile
	Rand    *rand.Rand     // nil seeds from the clock
	Target  Target         // optional; Update also returns the transform
}

const (
	maxOffset   = 12.0
	maxRotation = 4.0

	turbulenceMinWind = 5.0
	buffetAOABand     = 5.0
	impulseDecay      = 0.92
)

// Engine accumulates independent displacement contributions once per
// tick. It is a plain accumulator with edge detection, no state machine.
type Engine struct {
	profile *sound.Profile
	rng     *rand.Rand
	target  Target

	wanderPhase float32
	buffetPhase float32
	brakePhase  float32
	impulse     float32

	prevOnGround    bool
	prevGroundSpeed float32
	primed          bool
}

// New creates a shake engine.
func New(cfg Config) *Engine {
	if cfg.Profile == nil {
		cfg.Profile = sound.ProfileFor(sound.DefaultCategory)
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		profile: cfg.Profile,
		rng:     cfg.Rand,
		target:  cfg.Target,
	}
}

// SetProfile swaps the buffet shaping parameters.
func (e *Engine) SetProfile(p *sound.Profile) {
	if p != nil {
		e.profile = p
	}
}

// Update consumes one snapshot, applies the combined transform to the
// target when one is set, and returns it.
func (e *Engine) Update(snap sound.Snapshot) Transform {
	if !e.primed {
		e.prevOnGround = snap.OnGround
		e.prevGroundSpeed = snap.GroundSpeed
		e.primed = true
	}

	var dx, dy, rot float32

	jx, jy := e.engineJitter(snap)
	dx += jx
	dy += jy

	if !snap.OnGround {
		tx, ty := e.turbulence(snap)
		dx += tx
		dy += ty
		dy += e.stallBuffet(snap)
	}

	if snap.OnGround && !e.prevOnGround {
		e.impulse = clampf(absf(snap.VerticalSpeed)/500.0, 0, 1)
	}
	if e.impulse > 0.01 {
		dy += e.impulse * 8.0 * e.signedRand()
		e.impulse *= impulseDecay
	} else {
		e.impulse = 0
	}

	if snap.OnGround {
		rx, ry := e.taxiRumble(snap)
		dx += rx
		dy += ry
		dx += e.braking(snap)
	}

	// Sustained G tilt: lateral acceleration rotates, longitudinal
	// pushes vertically.
	rot += snap.LateralAccel * 2.0
	dy += snap.LongAccel * 3.0

	t := Transform{
		X:   clampf(dx, -maxOffset, maxOffset),
		Y:   clampf(dy, -maxOffset, maxOffset),
		Rot: clampf(rot, -maxRotation, maxRotation),
	}

	e.prevOnGround = snap.OnGround
	e.prevGroundSpeed = snap.GroundSpeed

	if e.target != nil {
		e.target.Apply(t)
	}
	return t
}

// engineJitter is the running-engine micro vibration, scaled by RPM and
// throttle and absent with the engine off.
func (e *Engine) engineJitter(snap sound.Snapshot) (float32, float32) {
	if !snap.EngineRunning {
		return 0, 0
	}
	rpmNorm := float32(1.0)
	if e.profile.MaxRPM > 0 {
		rpmNorm = clampf(snap.EngineRPM/e.profile.MaxRPM, 0, 1)
	}
	tf := clampf(snap.Throttle/100.0, 0, 1)
	amp := 0.3 * (0.5*rpmNorm + 0.5*tf)
	return e.signedRand() * amp, e.signedRand() * amp
}

// turbulence mixes random jitter with a slow sinusoidal wander, scaled
// by wind above the threshold and by body acceleration magnitude.
func (e *Engine) turbulence(snap sound.Snapshot) (float32, float32) {
	var wind float32
	if snap.WindSpeed > turbulenceMinWind {
		wind = (snap.WindSpeed - turbulenceMinWind) / 30.0
	}
	accMag := float32(math.Hypot(float64(snap.LateralAccel), float64(snap.LongAccel)))
	strength := clampf(wind+accMag*0.5, 0, 1.5)
	if strength == 0 {
		return 0, 0
	}

	e.wanderPhase += 0.13
	wander := float32(math.Sin(float64(e.wanderPhase)))
	dx := (e.signedRand()*0.6 + wander*0.4) * strength * 2.5
	dy := (e.signedRand()*0.6 + float32(math.Sin(float64(e.wanderPhase)*0.7))*0.4) * strength * 2.5
	return dx, dy
}

// stallBuffet is the high-frequency airframe shudder near the stall
// angle of attack, growing as AOA closes on the buffet angle.
func (e *Engine) stallBuffet(snap sound.Snapshot) float32 {
	margin := e.profile.BuffetAOA - snap.AngleOfAttack
	if margin > buffetAOABand || margin < -buffetAOABand {
		return 0
	}
	proximity := clampf(1.0-margin/buffetAOABand, 0, 1)
	e.buffetPhase += 2.2
	return float32(math.Sin(float64(e.buffetPhase))) * proximity * e.profile.BuffetGain * 1.5
}

func (e *Engine) taxiRumble(snap sound.Snapshot) (float32, float32) {
	if snap.GroundSpeed <= 2 {
		return 0, 0
	}
	amp := minf(1.0, snap.GroundSpeed/40.0) * surfaceRoughness(snap.Surface) * 0.8
	return e.signedRand() * amp, e.signedRand() * amp
}

func (e *Engine) braking(snap sound.Snapshot) float32 {
	decel := e.prevGroundSpeed - snap.GroundSpeed
	if decel <= 0 || snap.GroundSpeed <= 3 {
		return 0
	}
	e.brakePhase += 0.9
	return float32(math.Sin(float64(e.brakePhase))) * clampf(decel*0.4, 0, 2.0)
}

// surfaceRoughness is the per-surface displacement multiplier.
func surfaceRoughness(s sound.Surface) float32 {
	switch s {
	case sound.SurfaceConcrete:
		return 0.5
	case sound.SurfaceGrass:
		return 1.2
	case sound.SurfaceDirt:
		return 1.5
	case sound.SurfaceGravel:
		return 1.8
	default:
		return 0.4
	}
}

func (e *Engine) signedRand() float32 {
	return e.rng.Float32()*2.0 - 1.0
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
