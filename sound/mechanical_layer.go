package sound

import (
	"time"

	"github.com/cobrahjh/simsound/dsp"
)

// MechanicalLayer renders actuator sounds: the gear motor with per-axis
// lock thunks, the flap motor, the trim servo, and the autopilot
// disconnect chime. Sample assets are probed once at construction; every
// one-shot has a synthetic fallback tone.
type MechanicalLayer struct {
	layerBase
	bank *SampleBank

	gearLoop *SamplePlayer   // nil -> synthetic
	gearOsc  *dsp.Oscillator // synthetic fallback
	gearLP   *dsp.Biquad
	gearGain *dsp.Smoother

	flapLoop *SamplePlayer
	flapOsc  *dsp.Oscillator
	flapLP   *dsp.Biquad
	flapGain *dsp.Smoother

	trimLoop *SamplePlayer // trim is a sample-only feature
	trimGain *dsp.Smoother

	// Previous-frame cache, written once per Update after all edge
	// comparisons.
	prevGear [3]float32
	prevFlap float32
	prevTrim float32
	prevAP   bool
	primed   bool
}

const (
	gearTransitLo = 0.01
	gearTransitHi = 0.99

	flapMoveThreshold = 0.1
	trimMoveThreshold = 0.001

	gearMotorLevel = 0.5
	flapMotorLevel = 0.4
	trimServoLevel = 0.3
)

// NewMechanicalLayer probes the bank once and commits each feature to
// its sample or synthetic path.
func NewMechanicalLayer(sampleRate int, profile *Profile, bank *SampleBank) *MechanicalLayer {
	l := &MechanicalLayer{
		layerBase: newLayerBase(sampleRate, profile.MechanicalMix),
		bank:      bank,
		gearGain:  dsp.NewSmoother(sampleRate, rampTau),
		flapGain:  dsp.NewSmoother(sampleRate, rampTau),
		trimGain:  dsp.NewSmoother(sampleRate, rampTau),
	}

	if bank.Has("gear-motor") {
		l.gearLoop = NewSamplePlayer(sampleRate, bank.Buffer("gear-motor"), true)
	} else {
		l.gearOsc = dsp.NewOscillator(sampleRate, dsp.ShapeSawtooth, 350)
		l.gearLP = dsp.NewBiquad(sampleRate)
		l.gearLP.SetLowpass(600, 0.707)
	}

	if bank.Has("flaps-motor") {
		l.flapLoop = NewSamplePlayer(sampleRate, bank.Buffer("flaps-motor"), true)
	} else {
		l.flapOsc = dsp.NewOscillator(sampleRate, dsp.ShapeSawtooth, 200)
		l.flapLP = dsp.NewBiquad(sampleRate)
		l.flapLP.SetLowpass(500, 0.707)
	}

	if bank.Has("trim") {
		l.trimLoop = NewSamplePlayer(sampleRate, bank.Buffer("trim"), true)
	}

	return l
}

// Name implements Layer.
func (l *MechanicalLayer) Name() string { return "mechanical" }

// SetProfile re-tunes the layer mix.
func (l *MechanicalLayer) SetProfile(p *Profile) {
	l.setMix(p.MechanicalMix)
}

// Update consumes one snapshot.
func (l *MechanicalLayer) Update(snap Snapshot) {
	if !l.primed {
		l.cachePrev(snap)
		l.primed = true
		return
	}

	l.updateGear(snap)
	l.updateFlaps(snap)
	l.updateTrim(snap)
	if l.prevAP && !snap.APMaster {
		l.oneShot("ap-disconnect", 600, 0.5, 400*time.Millisecond)
	}

	l.cachePrev(snap)
}

func (l *MechanicalLayer) cachePrev(snap Snapshot) {
	l.prevGear = snap.Gear
	l.prevFlap = snap.FlapPercent
	l.prevTrim = snap.ElevatorTrim
	l.prevAP = snap.APMaster
}

func gearInTransit(pos float32) bool {
	return pos > gearTransitLo && pos < gearTransitHi
}

func (l *MechanicalLayer) updateGear(snap Snapshot) {
	anyTransit := false
	for i := range snap.Gear {
		if gearInTransit(snap.Gear[i]) {
			anyTransit = true
		}
		// Lock thunk: exactly once per axis on the transit -> locked edge.
		if gearInTransit(l.prevGear[i]) && !gearInTransit(snap.Gear[i]) {
			l.oneShot("gear-lock", 90, 0.6, 150*time.Millisecond)
		}
	}

	if anyTransit {
		if l.gearLoop != nil {
			l.gearLoop.Start()
		}
		l.gearGain.SetTarget(gearMotorLevel)
	} else {
		l.gearGain.SetTarget(0)
		if l.gearLoop != nil && l.gearGain.Value() < 1e-3 {
			l.gearLoop.Stop()
		}
	}
}

func (l *MechanicalLayer) updateFlaps(snap Snapshot) {
	moving := absf(snap.FlapPercent-l.prevFlap) > flapMoveThreshold
	if moving {
		if l.flapLoop != nil {
			l.flapLoop.Start()
		}
		l.flapGain.SetTarget(flapMotorLevel)
	} else {
		// A sample-only click marks the end of travel.
		if l.flapGain.Target() > 0 && l.bank.Has("flaps-click") {
			l.spawn(newSampleTransient(l.sampleRate, l.bank.Buffer("flaps-click"), 0.5))
		}
		l.flapGain.SetTarget(0)
		if l.flapLoop != nil && l.flapGain.Value() < 1e-3 {
			l.flapLoop.Stop()
		}
	}
}

func (l *MechanicalLayer) updateTrim(snap Snapshot) {
	if l.trimLoop == nil {
		return
	}
	if absf(snap.ElevatorTrim-l.prevTrim) > trimMoveThreshold {
		l.trimLoop.Start()
		l.trimGain.SetTarget(trimServoLevel)
	} else {
		l.trimGain.SetTarget(0)
		if l.trimGain.Value() < 1e-3 {
			l.trimLoop.Stop()
		}
	}
}

// oneShot plays the named sample when available, else a short decaying
// tone at the fallback frequency.
func (l *MechanicalLayer) oneShot(name string, fallbackHz, level float32, duration time.Duration) {
	if l.bank.Has(name) {
		l.spawn(newSampleTransient(l.sampleRate, l.bank.Buffer(name), level))
		return
	}
	l.spawn(newToneTransient(l.sampleRate, fallbackHz, level, 5*time.Millisecond, duration))
}

// Process adds one block into the bus.
func (l *MechanicalLayer) Process(out []float32) {
	for i := range out {
		var s float32
		if l.gearLoop != nil {
			s += l.gearLoop.Next() * l.gearGain.Next()
		} else {
			s += l.gearLP.Process(l.gearOsc.Next()) * l.gearGain.Next()
		}
		if l.flapLoop != nil {
			s += l.flapLoop.Next() * l.flapGain.Next()
		} else {
			s += l.flapLP.Process(l.flapOsc.Next()) * l.flapGain.Next()
		}
		if l.trimLoop != nil {
			s += l.trimLoop.Next() * l.trimGain.Next()
		}
		s += l.voiceSample()
		out[i] += s * l.gain.Next()
	}
	l.pruneVoices()
}

// Destroy hard-stops every owned loop.
func (l *MechanicalLayer) Destroy() {
	if l.gearLoop != nil {
		l.gearLoop.Stop()
	}
	if l.flapLoop != nil {
		l.flapLoop.Stop()
	}
	if l.trimLoop != nil {
		l.trimLoop.Stop()
	}
	l.dropVoices()
	l.gain.Snap(0)
}
