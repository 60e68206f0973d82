package dsp

import (
	"math"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
)

// Biquad implements a second-order IIR filter (no heap allocations in Process).
// Coefficients can be retuned at control rate while audio keeps flowing.
type Biquad struct {
	sampleRate float32

	// Coefficients
	b0, b1, b2 float32
	a1, a2     float32

	// State (previous samples)
	x1, x2 float32 // input history
	y1, y2 float32 // output history
}

// NewBiquad creates a biquad configured as a unity passthrough.
func NewBiquad(sampleRate int) *Biquad {
	return &Biquad{
		sampleRate: float32(sampleRate),
		b0:         1.0,
	}
}

// Process processes one sample through the biquad filter.
func (b *Biquad) Process(input float32) float32 {
	// Direct Form I implementation
	output := b.b0*input + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2
	output = float32(dspcore.FlushDenormals(float64(output)))

	// Update state
	b.x2 = b.x1
	b.x1 = input
	b.y2 = b.y1
	b.y1 = output

	return output
}

// Reset clears the filter state.
func (b *Biquad) Reset() {
	b.x1, b.x2 = 0, 0
	b.y1, b.y2 = 0, 0
}

// SetBandpass retunes the filter as a constant-peak-gain bandpass.
func (b *Biquad) SetBandpass(center, q float32) {
	alpha, cosw0 := prewarp(center, q, b.sampleRate)

	b0 := alpha
	b1 := 0.0
	b2 := -alpha
	a0 := 1.0 + alpha
	a1 := -2.0 * cosw0
	a2 := 1.0 - alpha

	b.assign(b0, b1, b2, a0, a1, a2)
}

// SetLowpass retunes the filter as a lowpass.
func (b *Biquad) SetLowpass(cutoff, q float32) {
	alpha, cosw0 := prewarp(cutoff, q, b.sampleRate)

	b0 := (1.0 - cosw0) / 2.0
	b1 := 1.0 - cosw0
	b2 := (1.0 - cosw0) / 2.0
	a0 := 1.0 + alpha
	a1 := -2.0 * cosw0
	a2 := 1.0 - alpha

	b.assign(b0, b1, b2, a0, a1, a2)
}

func (b *Biquad) assign(b0, b1, b2, a0, a1, a2 float64) {
	b.b0 = float32(b0 / a0)
	b.b1 = float32(b1 / a0)
	b.b2 = float32(b2 / a0)
	b.a1 = float32(a1 / a0)
	b.a2 = float32(a2 / a0)
}

// prewarp clamps the frequency into the representable band and returns the
// bilinear-transform intermediates shared by all filter shapes.
func prewarp(freq, q, sampleRate float32) (alpha, cosw0 float64) {
	if freq < 1.0 {
		freq = 1.0
	}
	nyquist := sampleRate * 0.49
	if freq > nyquist {
		freq = nyquist
	}
	if q <= 0 {
		q = 0.707
	}
	w0 := 2.0 * math.Pi * float64(freq) / float64(sampleRate)
	alpha = math.Sin(w0) / (2.0 * float64(q))
	cosw0 = math.Cos(w0)
	return alpha, cosw0
}
