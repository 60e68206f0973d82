package sound

import (
	"math/rand"
	"sync"
	"time"

	"github.com/cobrahjh/simsound/dsp"
)

// LayerKind indexes the fixed layer set owned by the engine.
type LayerKind int

const (
	LayerEngine LayerKind = iota
	LayerGround
	LayerSystems
	LayerMechanical
	LayerWarning

	numLayers
)

// Config configures an Engine. Zero values select sensible defaults.
type Config struct {
	SampleRate   int         // audio rate, default 48000
	Category     Category    // aircraft category, unknown keys fall back
	Profile      *Profile    // overrides Category when non-nil (preset overrides)
	Bank         *SampleBank // nil means all-synthetic rendering
	Rand         *rand.Rand  // nil seeds from the clock
	MasterVolume float32     // 0 means 1.0
}

// Engine is the composition root: it owns the master bus, the sample
// bank, the five layers and the active profile. Update runs on the
// control thread once per telemetry tick; Process runs from the audio
// callback. The two are serialized by a mutex, and neither blocks on
// anything else.
type Engine struct {
	mu         sync.Mutex
	sampleRate int
	profile    *Profile
	bank       *SampleBank
	layers     [numLayers]Layer
	master     *dsp.Smoother
	destroyed  bool
}

// NewEngine constructs the engine and all five layers. Each layer probes
// the bank once here and commits to its sample or synthetic paths.
func NewEngine(cfg Config) *Engine {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 48000
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Bank == nil {
		cfg.Bank = NewSampleBank(cfg.SampleRate)
	}
	if cfg.MasterVolume <= 0 {
		cfg.MasterVolume = 1.0
	}

	profile := cfg.Profile
	if profile == nil {
		profile = ProfileFor(cfg.Category)
	}
	e := &Engine{
		sampleRate: cfg.SampleRate,
		profile:    profile,
		bank:       cfg.Bank,
	}
	e.layers[LayerEngine] = NewEngineLayer(cfg.SampleRate, profile, cfg.Rand)
	e.layers[LayerGround] = NewGroundLayer(cfg.SampleRate, profile, cfg.Bank, cfg.Rand)
	e.layers[LayerSystems] = NewSystemsLayer(cfg.SampleRate, profile, cfg.Rand)
	e.layers[LayerMechanical] = NewMechanicalLayer(cfg.SampleRate, profile, cfg.Bank)
	e.layers[LayerWarning] = NewWarningLayer(cfg.SampleRate, profile)

	e.master = dsp.NewSmoother(cfg.SampleRate, rampTau)
	e.master.Snap(cfg.MasterVolume)
	return e
}

// SampleRate returns the engine's audio rate.
func (e *Engine) SampleRate() int {
	return e.sampleRate
}

// Profile returns the active profile.
func (e *Engine) Profile() *Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile
}

// Update fans one snapshot out to every enabled layer. Disabled layers
// are skipped entirely; the warning layer cannot be disabled and always
// updates.
func (e *Engine) Update(snap Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	for _, l := range e.layers {
		if !l.Enabled() {
			continue
		}
		l.Update(snap)
	}
}

// Process renders one block of interleaved stereo samples, mixing every
// layer additively into the master bus.
func (e *Engine) Process(numFrames int) []float32 {
	e.mu.Lock()
	defer e.mu.Unlock()

	mono := make([]float32, numFrames)
	if !e.destroyed {
		for _, l := range e.layers {
			l.Process(mono)
		}
	}

	stereo := make([]float32, numFrames*2)
	for i := 0; i < numFrames; i++ {
		s := mono[i] * e.master.Next()
		stereo[i*2] = s
		stereo[i*2+1] = s
	}
	return stereo
}

// SetMasterVolume ramps the master bus level.
func (e *Engine) SetMasterVolume(v float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.master.SetTarget(clampf(v, 0, 1))
}

// SetLayerVolume sets one layer's volume in [0, 1]. The warning layer
// ignores this.
func (e *Engine) SetLayerVolume(kind LayerKind, v float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if kind < 0 || kind >= numLayers {
		return
	}
	e.layers[kind].SetVolume(v)
}

// SetLayerEnabled toggles one layer. Disabling fades the layer out over
// the ramp window rather than cutting it. The warning layer ignores this.
func (e *Engine) SetLayerEnabled(kind LayerKind, on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if kind < 0 || kind >= numLayers {
		return
	}
	e.layers[kind].SetEnabled(on)
}

// SetProfile swaps the active profile, re-tuning layer parameters in
// place. The sample/synthetic paths committed at construction stay
// fixed; switching between categories that need different synthesis
// paths (piston vs jet) calls for constructing a new Engine.
func (e *Engine) SetProfile(category Category) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profile = ProfileFor(category)
	for _, l := range e.layers {
		l.SetProfile(e.profile)
	}
}

// Destroy hard-stops every owned source in every layer. Calling it again
// is a no-op, and sources that already stopped on their own are fine.
func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	for _, l := range e.layers {
		l.Destroy()
	}
	e.master.Snap(0)
	e.destroyed = true
}
