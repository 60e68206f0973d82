package sound

import (
	"math/rand"
	"time"

	"github.com/cobrahjh/simsound/dsp"
)

// GroundLayer renders ground-contact audio: the touchdown transient
// pair, taxi rumble (sample loops when the bank has tire textures, a
// filtered-noise fallback otherwise), and braking vibration.
type GroundLayer struct {
	layerBase
	rng *rand.Rand

	// Sample path, committed at construction when "tires-asphalt" exists.
	asphalt     *SamplePlayer
	gravel      *SamplePlayer
	asphaltGain *dsp.Smoother
	gravelGain  *dsp.Smoother
	screech     []float32

	// Synthetic fallback path.
	taxiNoise *NoiseSource
	taxiBP    *dsp.Biquad
	taxiGain  *dsp.Smoother

	brakeOsc  *dsp.Oscillator
	brakeGain *dsp.Smoother

	// Previous-frame cache, written once per Update after all edge
	// comparisons.
	prevOnGround    bool
	prevGroundSpeed float32
	primed          bool
}

const (
	touchdownMinForce = 0.05
	taxiMinSpeed      = 2.0
	brakeMinSpeed     = 3.0
)

// NewGroundLayer probes the bank once and commits to the sample or the
// synthetic taxi path for the layer's lifetime.
func NewGroundLayer(sampleRate int, profile *Profile, bank *SampleBank, rng *rand.Rand) *GroundLayer {
	l := &GroundLayer{
		layerBase: newLayerBase(sampleRate, profile.GroundMix),
		rng:       rng,
	}

	if bank.Has("tires-asphalt") {
		l.asphalt = NewSamplePlayer(sampleRate, bank.Buffer("tires-asphalt"), true)
		l.asphaltGain = dsp.NewSmoother(sampleRate, rampTau)
		if bank.Has("tires-gravel") {
			l.gravel = NewSamplePlayer(sampleRate, bank.Buffer("tires-gravel"), true)
			l.gravelGain = dsp.NewSmoother(sampleRate, rampTau)
		}
	} else {
		l.taxiNoise = NewNoiseSource(rng)
		l.taxiBP = dsp.NewBiquad(sampleRate)
		l.taxiBP.SetBandpass(60, 1.2)
		l.taxiGain = dsp.NewSmoother(sampleRate, rampTau)
	}
	l.screech = bank.Buffer("tire-screech")

	l.brakeOsc = dsp.NewOscillator(sampleRate, dsp.ShapeSine, 3)
	l.brakeGain = dsp.NewSmoother(sampleRate, rampTau)

	return l
}

// Name implements Layer.
func (l *GroundLayer) Name() string { return "ground" }

// SetProfile re-tunes the layer mix.
func (l *GroundLayer) SetProfile(p *Profile) {
	l.setMix(p.GroundMix)
}

// Update consumes one snapshot.
func (l *GroundLayer) Update(snap Snapshot) {
	if !l.primed {
		// First tick only seeds the cache so a mid-state attach cannot
		// fire a phantom touchdown.
		l.prevOnGround = snap.OnGround
		l.prevGroundSpeed = snap.GroundSpeed
		l.primed = true
		return
	}

	if snap.OnGround && !l.prevOnGround {
		l.touchdown(snap.VerticalSpeed)
	}
	l.updateTaxi(snap)
	l.updateBraking(snap)

	l.prevOnGround = snap.OnGround
	l.prevGroundSpeed = snap.GroundSpeed
}

// touchdown spawns the staggered gear transients on the airborne to
// grounded edge. Gentle contacts below the force floor stay silent.
func (l *GroundLayer) touchdown(verticalSpeed float32) {
	force := clampf(absf(verticalSpeed)/500.0, 0, 1)
	if force < touchdownMinForce {
		return
	}

	// Main gear thump, then a softer nose-gear thump 200 ms behind it.
	l.spawn(newToneTransient(l.sampleRate, 80, force*0.7, 10*time.Millisecond, 300*time.Millisecond))
	nose := newToneTransient(l.sampleRate, 60, force*0.25, 10*time.Millisecond, 200*time.Millisecond)
	nose.delayBy(200*time.Millisecond, l.sampleRate)
	l.spawn(nose)

	if l.screech != nil {
		l.spawn(newSampleTransient(l.sampleRate, l.screech, force*0.6))
	}
}

func (l *GroundLayer) updateTaxi(snap Snapshot) {
	taxiing := snap.OnGround && snap.GroundSpeed > taxiMinSpeed

	if l.asphalt != nil {
		if taxiing {
			l.asphalt.Start()
			rate := clampf(snap.GroundSpeed/20.0, 0.5, 2.0)
			l.asphalt.SetRate(rate)

			base := minf(0.7, snap.GroundSpeed/30.0)
			var offroad float32
			if snap.Surface.Offroad() {
				offroad = 1.0
			}
			l.asphaltGain.SetTarget(base * (1.0 - offroad))
			if l.gravel != nil {
				l.gravel.Start()
				l.gravel.SetRate(rate)
				l.gravelGain.SetTarget(base * offroad)
			}
		} else {
			l.asphaltGain.SetTarget(0)
			if l.gravelGain != nil {
				l.gravelGain.SetTarget(0)
			}
			// Stop the loops once the fade-out has finished.
			if l.asphaltGain.Value() < 1e-3 {
				l.asphalt.Stop()
				if l.gravel != nil {
					l.gravel.Stop()
				}
			}
		}
		return
	}

	if taxiing {
		l.taxiNoise.Start()
		center, gain, q := surfaceRumble(snap.Surface, snap.GroundSpeed)
		l.taxiBP.SetBandpass(center, q)
		l.taxiGain.SetTarget(gain)
	} else {
		l.taxiGain.SetTarget(0)
		if l.taxiGain.Value() < 1e-3 {
			l.taxiNoise.Stop()
		}
	}
}

// surfaceRumble maps surface category and ground speed to the synthetic
// rumble band: paved surfaces sit high and quiet, grass low and loud,
// loose surfaces widest and loudest.
func surfaceRumble(surface Surface, groundSpeed float32) (center, gain, q float32) {
	switch surface {
	case SurfaceGrass:
		return 5 + groundSpeed*0.5, minf(0.50, groundSpeed*0.014), 0.9
	case SurfaceDirt, SurfaceGravel:
		return 10 + groundSpeed*1.0, minf(0.60, groundSpeed*0.018), 0.5
	default:
		return 60 + groundSpeed*2.0, minf(0.25, groundSpeed*0.008), 1.2
	}
}

func (l *GroundLayer) updateBraking(snap Snapshot) {
	decel := l.prevGroundSpeed - snap.GroundSpeed
	if snap.OnGround && snap.GroundSpeed > brakeMinSpeed && decel > 0 {
		l.brakeOsc.SetFreq(3 + decel)
		l.brakeGain.SetTarget(clampf(decel*0.5, 0, 0.3))
	} else {
		l.brakeGain.SetTarget(0)
	}
}

// Process adds one block into the bus.
func (l *GroundLayer) Process(out []float32) {
	for i := range out {
		var s float32
		if l.asphalt != nil {
			s += l.asphalt.Next() * l.asphaltGain.Next()
			if l.gravel != nil {
				s += l.gravel.Next() * l.gravelGain.Next()
			}
		} else {
			s += l.taxiBP.Process(l.taxiNoise.Next()) * l.taxiGain.Next()
		}
		s += l.brakeOsc.Next() * l.brakeGain.Next()
		s += l.voiceSample()
		out[i] += s * l.gain.Next()
	}
	l.pruneVoices()
}

// Destroy hard-stops every owned source, tolerating sources that have
// already stopped.
func (l *GroundLayer) Destroy() {
	if l.asphalt != nil {
		l.asphalt.Stop()
	}
	if l.gravel != nil {
		l.gravel.Stop()
	}
	if l.taxiNoise != nil {
		l.taxiNoise.Stop()
	}
	l.dropVoices()
	l.gain.Snap(0)
}
