package dsp

import "math"

// Shape selects the oscillator waveform.
type Shape int

const (
	ShapeSine Shape = iota
	ShapeSawtooth
	ShapeSquare
)

// Oscillator is a phase-accumulator oscillator with a smoothed frequency,
// so control-rate retuning never steps the pitch audibly.
type Oscillator struct {
	sampleRate float32
	shape      Shape
	phase      float32 // [0,1)
	freq       *Smoother
}

// NewOscillator creates an oscillator at the given initial frequency.
func NewOscillator(sampleRate int, shape Shape, freq float32) *Oscillator {
	o := &Oscillator{
		sampleRate: float32(sampleRate),
		shape:      shape,
		freq:       NewSmoother(sampleRate, 0.05),
	}
	o.freq.Snap(freq)
	return o
}

// SetFreq ramps the oscillator toward a new frequency in Hz.
func (o *Oscillator) SetFreq(f float32) {
	if f < 0 {
		f = 0
	}
	o.freq.SetTarget(f)
}

// SnapFreq jumps to a new frequency without ramping.
func (o *Oscillator) SnapFreq(f float32) {
	if f < 0 {
		f = 0
	}
	o.freq.Snap(f)
}

// FreqTarget returns the frequency the oscillator is ramping toward.
func (o *Oscillator) FreqTarget() float32 {
	return o.freq.Target()
}

// Next advances one sample and returns the waveform in [-1, 1].
func (o *Oscillator) Next() float32 {
	f := o.freq.Next()
	o.phase += f / o.sampleRate
	if o.phase >= 1.0 {
		o.phase -= float32(int(o.phase))
	}

	switch o.shape {
	case ShapeSawtooth:
		return 2.0*o.phase - 1.0
	case ShapeSquare:
		if o.phase < 0.5 {
			return 1.0
		}
		return -1.0
	default:
		return float32(math.Sin(2.0 * math.Pi * float64(o.phase)))
	}
}
