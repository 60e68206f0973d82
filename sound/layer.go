package sound

import "github.com/cobrahjh/simsound/dsp"

// Layer is one independently owned audio sub-graph contributing a single
// category of cockpit sound to the shared master bus. Layers communicate
// only through snapshots in and bus samples out; no layer touches
// another layer's nodes.
type Layer interface {
	// Update consumes one snapshot at control rate. It never blocks and
	// performs no I/O; it only retargets smoothed parameters and spawns
	// transient voices.
	Update(snap Snapshot)

	// Process adds one block of mono samples into the bus.
	Process(out []float32)

	SetVolume(v float32)
	SetEnabled(on bool)
	Enabled() bool
	SetProfile(p *Profile)

	// Destroy hard-stops every owned source. Safe to call more than once
	// and tolerant of sources that already stopped on their own.
	Destroy()

	Name() string
}

// layerBase carries the state every layer shares: the output gain ramp,
// user volume, profile mix, enable flag, and the transient voice list.
type layerBase struct {
	sampleRate int
	gain       *dsp.Smoother
	volume     float32
	mix        float32
	enabled    bool
	voices     []*transient
}

// rampTau is the output-gain ramp window; disabling a layer fades over
// this rather than cutting.
const rampTau = 0.05

func newLayerBase(sampleRate int, mix float32) layerBase {
	b := layerBase{
		sampleRate: sampleRate,
		gain:       dsp.NewSmoother(sampleRate, rampTau),
		volume:     1.0,
		mix:        mix,
		enabled:    true,
	}
	b.gain.Snap(mix)
	return b
}

func (b *layerBase) refreshGain() {
	if !b.enabled {
		b.gain.SetTarget(0)
		return
	}
	b.gain.SetTarget(b.volume * b.mix)
}

// SetVolume sets the user volume in [0, 1].
func (b *layerBase) SetVolume(v float32) {
	b.volume = clampf(v, 0, 1)
	b.refreshGain()
}

// SetEnabled fades the layer in or out. Disabling twice is a no-op.
func (b *layerBase) SetEnabled(on bool) {
	b.enabled = on
	b.refreshGain()
}

// Enabled reports whether the layer participates in updates.
func (b *layerBase) Enabled() bool {
	return b.enabled
}

func (b *layerBase) setMix(mix float32) {
	b.mix = clampf(mix, 0, 1)
	b.refreshGain()
}

// spawn adds a fire-and-forget voice to this layer's list.
func (b *layerBase) spawn(v *transient) {
	b.voices = append(b.voices, v)
}

// voiceSample sums all live transient voices for one sample.
func (b *layerBase) voiceSample() float32 {
	var s float32
	for _, v := range b.voices {
		s += v.next()
	}
	return s
}

// pruneVoices drops finished voices, keeping the rest in order.
func (b *layerBase) pruneVoices() {
	live := b.voices[:0]
	for _, v := range b.voices {
		if !v.finished() {
			live = append(live, v)
		}
	}
	b.voices = live
}

func (b *layerBase) dropVoices() {
	b.voices = nil
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
