package sound

import (
	"math/rand"

	"github.com/cobrahjh/simsound/dsp"
)

// EngineLayer synthesizes the powerplant's tonal signature from RPM,
// throttle and run state: a harmonic bank for piston and turboprop
// engines, a propeller blade-pass tone, an optional turbine whine, and
// the N1 spool tone for jets. A starter-motor noise burst covers the
// cranking phase before the engine catches.
type EngineLayer struct {
	layerBase
	profile *Profile

	harmonics     []*dsp.Oscillator
	harmonicGains []*dsp.Smoother

	prop     *dsp.Oscillator
	propGain *dsp.Smoother

	turbine     *dsp.Oscillator
	turbineBP   *dsp.Biquad
	turbineGain *dsp.Smoother

	n1     *dsp.Oscillator
	n1BP   *dsp.Biquad
	n1Gain *dsp.Smoother

	starter     *NoiseSource
	starterBP   *dsp.Biquad
	starterGain *dsp.Smoother
}

const (
	starterCenterHz = 200
	starterQ        = 8.0
	starterLevel    = 0.3
)

// NewEngineLayer builds the synthesis paths the profile calls for. The
// set of paths is fixed for the layer's lifetime; SetProfile re-tunes
// parameters but never adds or removes a path.
func NewEngineLayer(sampleRate int, profile *Profile, rng *rand.Rand) *EngineLayer {
	l := &EngineLayer{
		layerBase: newLayerBase(sampleRate, profile.EngineMix),
		profile:   profile,
	}

	for i := 0; i < profile.Harmonics; i++ {
		l.harmonics = append(l.harmonics, dsp.NewOscillator(sampleRate, dsp.ShapeSine, 0))
		l.harmonicGains = append(l.harmonicGains, dsp.NewSmoother(sampleRate, rampTau))
	}
	if profile.PropBlades > 0 {
		l.prop = dsp.NewOscillator(sampleRate, dsp.ShapeSine, 0)
		l.propGain = dsp.NewSmoother(sampleRate, rampTau)
	}
	if profile.TurbineWhine {
		l.turbine = dsp.NewOscillator(sampleRate, dsp.ShapeSawtooth, 400)
		l.turbineBP = dsp.NewBiquad(sampleRate)
		l.turbineBP.SetBandpass(400, 2.0)
		l.turbineGain = dsp.NewSmoother(sampleRate, rampTau)
	}
	if profile.N1Tone {
		l.n1 = dsp.NewOscillator(sampleRate, dsp.ShapeSawtooth, 200)
		l.n1BP = dsp.NewBiquad(sampleRate)
		l.n1BP.SetBandpass(260, 2.0)
		l.n1Gain = dsp.NewSmoother(sampleRate, rampTau)
	}

	l.starter = NewNoiseSource(rng)
	l.starterBP = dsp.NewBiquad(sampleRate)
	l.starterBP.SetBandpass(starterCenterHz, starterQ)
	l.starterGain = dsp.NewSmoother(sampleRate, rampTau)

	return l
}

// Name implements Layer.
func (l *EngineLayer) Name() string { return "engine" }

// SetProfile re-tunes numeric parameters in place. Paths chosen at
// construction stay fixed; switching to a category that needs different
// paths requires a new layer.
func (l *EngineLayer) SetProfile(p *Profile) {
	l.profile = p
	l.setMix(p.EngineMix)
}

// Update consumes one snapshot.
func (l *EngineLayer) Update(snap Snapshot) {
	fundamental := snap.EngineRPM / 60.0
	tf := clampf(snap.Throttle/100.0, 0, 1)
	var master float32
	if snap.EngineRunning {
		master = 1.0
	}

	for i, osc := range l.harmonics {
		osc.SetFreq(fundamental * float32(i+1))
		l.harmonicGains[i].SetTarget(master * tf * l.profile.HarmonicLevel(i))
	}

	if l.prop != nil {
		l.prop.SetFreq(fundamental * float32(l.profile.PropBlades))
		l.propGain.SetTarget(master * tf * l.profile.PropLevel)
	}

	if l.turbine != nil {
		l.turbineBP.SetBandpass(400+tf*400, 2.0)
		l.turbineGain.SetTarget(master * tf * l.profile.TurbineLevel)
	}

	if l.n1 != nil {
		freq := 200 + tf*400
		l.n1.SetFreq(freq)
		l.n1BP.SetBandpass(freq*1.3, 2.0)
		l.n1Gain.SetTarget(master * (0.15 + tf*0.55))
	}

	l.updateStarter(snap, tf)
}

// updateStarter runs the cranking burst: active while the engine is not
// running and throttle is applied, killed the instant either changes.
func (l *EngineLayer) updateStarter(snap Snapshot, tf float32) {
	cranking := !snap.EngineRunning && tf > 0
	switch {
	case cranking && !l.starter.Started():
		l.starter.Start()
		l.starterGain.SetTarget(starterLevel)
	case !cranking && l.starter.Started():
		l.starter.Stop()
		l.starterGain.Snap(0)
	}
}

// Process adds one block into the bus.
func (l *EngineLayer) Process(out []float32) {
	for i := range out {
		var s float32
		for h, osc := range l.harmonics {
			s += osc.Next() * l.harmonicGains[h].Next()
		}
		if l.prop != nil {
			s += l.prop.Next() * l.propGain.Next()
		}
		if l.turbine != nil {
			s += l.turbineBP.Process(l.turbine.Next()) * l.turbineGain.Next()
		}
		if l.n1 != nil {
			s += l.n1BP.Process(l.n1.Next()) * l.n1Gain.Next()
		}
		s += l.starterBP.Process(l.starter.Next()) * l.starterGain.Next()
		s += l.voiceSample()
		out[i] += s * l.gain.Next()
	}
	l.pruneVoices()
}

// Destroy hard-stops every owned source.
func (l *EngineLayer) Destroy() {
	l.starter.Stop()
	l.dropVoices()
	l.gain.Snap(0)
}
