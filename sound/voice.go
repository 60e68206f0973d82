package sound

import (
	"math/rand"
	"time"

	"github.com/cwbudde/algo-approx"

	"github.com/cobrahjh/simsound/dsp"
)

// transient is a fire-and-forget one-shot voice: optional onset delay,
// linear attack, exponential decay, then done. The spawning layer keeps
// it only in its voice list and prunes it once finished.
type transient struct {
	delay    int // samples until onset
	attack   int // attack length in samples
	length   int // total length in samples after onset (tones/noise)
	age      int
	peak     float32
	env      float32
	decayMul float32

	osc    *dsp.Oscillator // tone voices
	rng    *rand.Rand      // noise voices
	filter *dsp.Biquad     // optional coloration
	sample *SamplePlayer   // sample voices

	done bool
}

const silenceFloor = 1e-4

// newToneTransient builds a decaying tone burst.
func newToneTransient(sampleRate int, freq, peak float32, attack, duration time.Duration) *transient {
	v := &transient{
		peak: peak,
		osc:  dsp.NewOscillator(sampleRate, dsp.ShapeSine, freq),
	}
	v.setEnvelope(sampleRate, attack, duration)
	return v
}

// newNoiseTransient builds a decaying filtered-noise burst.
func newNoiseTransient(sampleRate int, rng *rand.Rand, center, q, peak float32, attack, duration time.Duration) *transient {
	f := dsp.NewBiquad(sampleRate)
	f.SetBandpass(center, q)
	v := &transient{
		peak:   peak,
		rng:    rng,
		filter: f,
	}
	v.setEnvelope(sampleRate, attack, duration)
	return v
}

// newSampleTransient plays a buffer once at a fixed gain.
func newSampleTransient(sampleRate int, buf []float32, gain float32) *transient {
	p := NewSamplePlayer(sampleRate, buf, false)
	p.Start()
	return &transient{
		peak:   gain,
		env:    1.0,
		sample: p,
	}
}

func (v *transient) setEnvelope(sampleRate int, attack, duration time.Duration) {
	v.attack = int(attack.Seconds() * float64(sampleRate))
	v.length = int(duration.Seconds() * float64(sampleRate))
	if v.length < 1 {
		v.length = 1
	}
	decaySamples := v.length - v.attack
	if decaySamples < 1 {
		decaySamples = 1
	}
	// Reach -80 dB at the end of the nominal duration.
	v.decayMul = approx.FastExp(-9.2 / float32(decaySamples))
	v.env = 1.0
}

// delayBy postpones the onset; the voice is silent until the delay runs out.
func (v *transient) delayBy(d time.Duration, sampleRate int) {
	v.delay = int(d.Seconds() * float64(sampleRate))
}

// next renders one sample. Finished voices return 0 forever.
func (v *transient) next() float32 {
	if v.done {
		return 0
	}
	if v.delay > 0 {
		v.delay--
		return 0
	}

	if v.sample != nil {
		s := v.sample.Next() * v.peak
		if !v.sample.Started() {
			v.done = true
		}
		return s
	}

	var env float32
	if v.age < v.attack {
		env = float32(v.age+1) / float32(v.attack)
	} else {
		v.env *= v.decayMul
		env = v.env
	}
	v.age++
	if v.age >= v.length && v.env < silenceFloor {
		v.done = true
	}

	var s float32
	if v.osc != nil {
		s = v.osc.Next()
	} else if v.rng != nil {
		s = v.rng.Float32()*2.0 - 1.0
	}
	if v.filter != nil {
		s = v.filter.Process(s)
	}
	return s * env * v.peak
}

func (v *transient) finished() bool {
	return v.done
}
