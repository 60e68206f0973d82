package sound

import "github.com/cobrahjh/simsound/dsp"

// WarningLayer renders the safety-critical pulsed alert tones. Warnings
// are not user-muteable: SetVolume and SetEnabled are deliberate no-ops
// and the layer always routes at full level.
type WarningLayer struct {
	layerBase

	stall     *pulsedTone
	gearWarn  *pulsedTone
	overspeed *pulsedTone
}

// pulsedTone is a carrier oscillator gain-modulated by a square-wave LFO
// and gated through a short ramp so warnings never click on or off.
type pulsedTone struct {
	carrier *dsp.Oscillator
	pulse   *dsp.Oscillator
	gate    *dsp.Smoother
	level   float32
}

// warningGateTau keeps gate transitions just long enough to avoid clicks.
const warningGateTau = 0.02

func newPulsedTone(sampleRate int, carrierHz, pulseHz, level float32) *pulsedTone {
	return &pulsedTone{
		carrier: dsp.NewOscillator(sampleRate, dsp.ShapeSine, carrierHz),
		pulse:   dsp.NewOscillator(sampleRate, dsp.ShapeSquare, pulseHz),
		gate:    dsp.NewSmoother(sampleRate, warningGateTau),
		level:   level,
	}
}

func (p *pulsedTone) setActive(on bool) {
	if on {
		p.gate.SetTarget(1)
		return
	}
	p.gate.SetTarget(0)
}

func (p *pulsedTone) next() float32 {
	pulse := 0.5 * (p.pulse.Next() + 1.0) // unipolar square
	return p.carrier.Next() * pulse * p.gate.Next() * p.level
}

// NewWarningLayer builds the three alert tones.
func NewWarningLayer(sampleRate int, profile *Profile) *WarningLayer {
	l := &WarningLayer{
		layerBase: newLayerBase(sampleRate, profile.WarningMix),
		stall:     newPulsedTone(sampleRate, 2500, 6, 0.5),
		gearWarn:  newPulsedTone(sampleRate, 1200, 3, 0.4),
		overspeed: newPulsedTone(sampleRate, 1500, 4, 0.45),
	}
	return l
}

// Name implements Layer.
func (l *WarningLayer) Name() string { return "warning" }

// SetVolume is a no-op: warnings always play at full level.
func (l *WarningLayer) SetVolume(v float32) {}

// SetEnabled is a no-op: warnings cannot be muted.
func (l *WarningLayer) SetEnabled(on bool) {}

// Enabled always reports true.
func (l *WarningLayer) Enabled() bool { return true }

// SetProfile re-tunes the layer mix.
func (l *WarningLayer) SetProfile(p *Profile) {
	l.setMix(p.WarningMix)
}

// gearWarningActive is the composite gear-up alert condition: low
// throttle, gear not fully down, and inside the (10, 500) ft AGL band
// with both bounds strict.
func gearWarningActive(snap Snapshot) bool {
	if snap.Throttle >= 15 {
		return false
	}
	if gearFullyDown(snap.Gear) {
		return false
	}
	return snap.AltitudeAGL > 10 && snap.AltitudeAGL < 500
}

func gearFullyDown(gear [3]float32) bool {
	for _, g := range gear {
		if g < gearTransitHi {
			return false
		}
	}
	return true
}

// Update consumes one snapshot.
func (l *WarningLayer) Update(snap Snapshot) {
	l.stall.setActive(snap.StallWarning)
	l.gearWarn.setActive(gearWarningActive(snap))
	l.overspeed.setActive(snap.OverspeedWarn)
}

// Process adds one block into the bus.
func (l *WarningLayer) Process(out []float32) {
	for i := range out {
		s := l.stall.next() + l.gearWarn.next() + l.overspeed.next()
		out[i] += s * l.gain.Next()
	}
}

// Destroy silences the tones.
func (l *WarningLayer) Destroy() {
	l.stall.setActive(false)
	l.gearWarn.setActive(false)
	l.overspeed.setActive(false)
	l.gain.Snap(0)
}
