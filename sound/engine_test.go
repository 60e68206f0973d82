package sound

import (
	"math/rand"
	"testing"
)

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine(Config{})
	defer e.Destroy()

	if got := e.SampleRate(); got != 48000 {
		t.Errorf("SampleRate = %d, want 48000", got)
	}
	if got := e.Profile().Category; got != DefaultCategory {
		t.Errorf("default profile = %q, want %q", got, DefaultCategory)
	}
}

func TestEngineStereoDuplication(t *testing.T) {
	e := NewEngine(Config{Rand: rand.New(rand.NewSource(1))})
	defer e.Destroy()

	e.Update(Snapshot{EngineRPM: 2400, Throttle: 80, EngineRunning: true})
	out := e.Process(256)
	if len(out) != 512 {
		t.Fatalf("Process(256) returned %d samples, want 512 interleaved", len(out))
	}
	for i := 0; i < len(out); i += 2 {
		if out[i] != out[i+1] {
			t.Fatalf("frame %d channels differ: %v vs %v", i/2, out[i], out[i+1])
		}
	}
}

func TestEngineProducesSignalWhenRunning(t *testing.T) {
	e := NewEngine(Config{Rand: rand.New(rand.NewSource(1))})
	defer e.Destroy()

	snap := Snapshot{EngineRPM: 2400, Throttle: 80, EngineRunning: true, OnGround: true}
	var energy float64
	for tick := 0; tick < 30; tick++ {
		e.Update(snap)
		for _, s := range e.Process(1600) {
			energy += float64(s) * float64(s)
		}
	}
	if energy == 0 {
		t.Fatal("running engine rendered silence")
	}
}

func TestEngineDestroyIsIdempotentAndSilent(t *testing.T) {
	e := NewEngine(Config{Rand: rand.New(rand.NewSource(1))})
	e.Update(Snapshot{EngineRPM: 2400, Throttle: 80, EngineRunning: true})
	e.Process(256)

	e.Destroy()
	e.Destroy()

	// Updates after destruction are no-ops and rendering is silent.
	e.Update(Snapshot{EngineRPM: 2700, Throttle: 100, EngineRunning: true})
	for _, s := range e.Process(256) {
		if s != 0 {
			t.Fatal("destroyed engine still produced audio")
		}
	}
}

func TestEngineLayerControlsAreBoundsChecked(t *testing.T) {
	e := NewEngine(Config{Rand: rand.New(rand.NewSource(1))})
	defer e.Destroy()

	// Out-of-range kinds are ignored rather than panicking.
	e.SetLayerVolume(LayerKind(-1), 0.5)
	e.SetLayerVolume(LayerKind(99), 0.5)
	e.SetLayerEnabled(LayerKind(-1), false)
	e.SetLayerEnabled(LayerKind(99), false)
}

func TestEngineDisableFadesLayerOut(t *testing.T) {
	e := NewEngine(Config{Rand: rand.New(rand.NewSource(1))})
	defer e.Destroy()

	e.SetLayerEnabled(LayerEngine, false)
	e.SetLayerEnabled(LayerSystems, false)
	snap := Snapshot{EngineRPM: 2400, Throttle: 80, EngineRunning: true}

	// Let the fade ramp run out, then the engine layer is silent.
	for tick := 0; tick < 30; tick++ {
		e.Update(snap)
		e.Process(1600)
	}
	var energy float64
	e.Update(snap)
	for _, s := range e.Process(4800) {
		energy += float64(s) * float64(s)
	}
	if energy > 1e-6 {
		t.Fatalf("disabled engine layer still audible: energy %v", energy)
	}
}

func TestEngineProfileSwap(t *testing.T) {
	e := NewEngine(Config{Category: CategorySinglePiston, Rand: rand.New(rand.NewSource(1))})
	defer e.Destroy()

	e.SetProfile(CategoryTwinPiston)
	if got := e.Profile().Category; got != CategoryTwinPiston {
		t.Fatalf("profile after swap = %q, want twin-piston", got)
	}

	// Unknown categories fall back instead of failing.
	e.SetProfile("blimp")
	if got := e.Profile().Category; got != DefaultCategory {
		t.Fatalf("profile after unknown swap = %q, want %q", got, DefaultCategory)
	}
}

func TestEngineProfileOverrideWins(t *testing.T) {
	custom := ProfileFor(CategoryJet).Clone()
	custom.TurbineLevel = 0.42
	e := NewEngine(Config{Category: CategorySinglePiston, Profile: custom, Rand: rand.New(rand.NewSource(1))})
	defer e.Destroy()

	if got := e.Profile().TurbineLevel; got != 0.42 {
		t.Fatalf("override profile ignored: TurbineLevel %v", got)
	}
}
