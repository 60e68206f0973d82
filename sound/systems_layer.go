package sound

import (
	"math/rand"

	"github.com/cobrahjh/simsound/dsp"
)

// SystemsLayer is the constant low-level texture that signals "systems
// powered": an avionics bus hum, a gyro whine, and a radio-static floor
// whose level wanders under a slow randomized LFO. Everything is gated
// by engine run state; there are no transients here.
type SystemsLayer struct {
	layerBase
	rng *rand.Rand

	hum    *dsp.Oscillator
	gyro   *dsp.Oscillator
	gyroBP *dsp.Biquad

	static   *NoiseSource
	staticLP *dsp.Biquad
	lfo      *dsp.Oscillator

	gate *dsp.Smoother
}

const (
	humFreq     = 120.0
	humLevel    = 0.03
	gyroFreq    = 400.0
	gyroLevel   = 0.015
	staticLevel = 0.02
)

// NewSystemsLayer builds the three ambient sources.
func NewSystemsLayer(sampleRate int, profile *Profile, rng *rand.Rand) *SystemsLayer {
	l := &SystemsLayer{
		layerBase: newLayerBase(sampleRate, profile.SystemsMix),
		rng:       rng,
		hum:       dsp.NewOscillator(sampleRate, dsp.ShapeSine, humFreq),
		gyro:      dsp.NewOscillator(sampleRate, dsp.ShapeSine, gyroFreq),
		gyroBP:    dsp.NewBiquad(sampleRate),
		static:    NewNoiseSource(rng),
		staticLP:  dsp.NewBiquad(sampleRate),
		lfo:       dsp.NewOscillator(sampleRate, dsp.ShapeSine, 5),
		gate:      dsp.NewSmoother(sampleRate, 0.08),
	}
	l.gyroBP.SetBandpass(gyroFreq, 10.0)
	l.staticLP.SetLowpass(1500, 0.707)
	l.static.Start()
	return l
}

// Name implements Layer.
func (l *SystemsLayer) Name() string { return "systems" }

// SetProfile re-tunes the layer mix.
func (l *SystemsLayer) SetProfile(p *Profile) {
	l.setMix(p.SystemsMix)
}

// Update consumes one snapshot.
func (l *SystemsLayer) Update(snap Snapshot) {
	if snap.EngineRunning {
		l.gate.SetTarget(1)
	} else {
		l.gate.SetTarget(0)
	}
	// Re-randomize the crackle wander each tick.
	l.lfo.SetFreq(3 + l.rng.Float32()*5)
}

// Process adds one block into the bus.
func (l *SystemsLayer) Process(out []float32) {
	for i := range out {
		crackle := 0.5 + 0.5*l.lfo.Next()
		s := l.hum.Next()*humLevel +
			l.gyroBP.Process(l.gyro.Next())*gyroLevel +
			l.staticLP.Process(l.static.Next())*staticLevel*crackle
		out[i] += s * l.gate.Next() * l.gain.Next()
	}
}

// Destroy hard-stops the noise floor.
func (l *SystemsLayer) Destroy() {
	l.static.Stop()
	l.gain.Snap(0)
}
