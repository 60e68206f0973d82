package dsp

import "github.com/cwbudde/algo-approx"

// Smoother ramps a value toward its target with a one-pole exponential
// filter ("ramp toward X over tau"). Targets are set at control rate;
// Next advances one audio sample.
type Smoother struct {
	sampleRate float32
	coeff      float32
	value      float32
	target     float32
}

// NewSmoother creates a smoother at rest on zero with the given time
// constant in seconds.
func NewSmoother(sampleRate int, tau float32) *Smoother {
	s := &Smoother{sampleRate: float32(sampleRate)}
	s.SetTau(tau)
	return s
}

// SetTau changes the smoothing time constant in seconds.
func (s *Smoother) SetTau(tau float32) {
	if tau <= 0 {
		s.coeff = 1.0
		return
	}
	s.coeff = 1.0 - approx.FastExp(-1.0/(tau*s.sampleRate))
}

// SetTarget sets the value the smoother ramps toward.
func (s *Smoother) SetTarget(v float32) {
	s.target = v
}

// Snap jumps to a value immediately, bypassing the ramp.
func (s *Smoother) Snap(v float32) {
	s.value = v
	s.target = v
}

// Target returns the current ramp destination.
func (s *Smoother) Target() float32 {
	return s.target
}

// Value returns the current smoothed value without advancing.
func (s *Smoother) Value() float32 {
	return s.value
}

// Next advances the ramp by one sample and returns the new value.
func (s *Smoother) Next() float32 {
	s.value += s.coeff * (s.target - s.value)
	return s.value
}
