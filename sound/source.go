package sound

import (
	"math/rand"

	"github.com/cobrahjh/simsound/dsp"
)

// NoiseSource is a looping white-noise generator. Start and Stop are
// idempotent; a stopped source renders silence.
type NoiseSource struct {
	rng     *rand.Rand
	started bool
}

// NewNoiseSource creates a noise source driven by the injected RNG.
func NewNoiseSource(rng *rand.Rand) *NoiseSource {
	return &NoiseSource{rng: rng}
}

// Start begins noise output. Starting an already started source is a no-op.
func (n *NoiseSource) Start() {
	n.started = true
}

// Stop silences the source. Stopping an already stopped source is a no-op.
func (n *NoiseSource) Stop() {
	n.started = false
}

// Started reports whether the source is currently producing output.
func (n *NoiseSource) Started() bool {
	return n.started
}

// Next returns one sample in [-1, 1), or 0 when stopped.
func (n *NoiseSource) Next() float32 {
	if !n.started {
		return 0
	}
	return n.rng.Float32()*2.0 - 1.0
}

// SamplePlayer plays a decoded buffer, looping or one-shot, with a
// smoothed playback rate. Start and Stop are idempotent.
type SamplePlayer struct {
	buf     []float32
	pos     float32
	rate    *dsp.Smoother
	loop    bool
	started bool
}

// NewSamplePlayer wraps a buffer already at the engine sample rate.
func NewSamplePlayer(sampleRate int, buf []float32, loop bool) *SamplePlayer {
	p := &SamplePlayer{
		buf:  buf,
		rate: dsp.NewSmoother(sampleRate, 0.05),
		loop: loop,
	}
	p.rate.Snap(1.0)
	return p
}

// Start begins playback from the current position. A second Start while
// already playing is a no-op; restarting a finished one-shot rewinds it.
func (p *SamplePlayer) Start() {
	if p.started {
		return
	}
	if !p.loop && int(p.pos) >= len(p.buf) {
		p.pos = 0
	}
	p.started = true
}

// Stop halts playback. Stopping an already stopped player is a no-op.
func (p *SamplePlayer) Stop() {
	p.started = false
}

// Started reports whether the player is currently producing output.
func (p *SamplePlayer) Started() bool {
	return p.started
}

// Rewind moves the play head back to the start of the buffer.
func (p *SamplePlayer) Rewind() {
	p.pos = 0
}

// SetRate ramps the playback rate toward r (1.0 = native speed).
func (p *SamplePlayer) SetRate(r float32) {
	if r < 0.01 {
		r = 0.01
	}
	p.rate.SetTarget(r)
}

// RateTarget returns the playback rate the player is ramping toward.
func (p *SamplePlayer) RateTarget() float32 {
	return p.rate.Target()
}

// Next returns the next interpolated sample, advancing the play head.
// A one-shot that reaches the end of its buffer stops itself.
func (p *SamplePlayer) Next() float32 {
	if !p.started || len(p.buf) == 0 {
		return 0
	}

	i := int(p.pos)
	if i >= len(p.buf) {
		if !p.loop {
			p.started = false
			return 0
		}
		for p.pos >= float32(len(p.buf)) {
			p.pos -= float32(len(p.buf))
		}
		i = int(p.pos)
	}

	// Linear interpolation between adjacent samples.
	j := i + 1
	if j >= len(p.buf) {
		if p.loop {
			j = 0
		} else {
			j = i
		}
	}
	frac := p.pos - float32(i)
	s := p.buf[i] + frac*(p.buf[j]-p.buf[i])

	p.pos += p.rate.Next()
	return s
}
