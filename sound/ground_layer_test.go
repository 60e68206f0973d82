package sound

import (
	"math/rand"
	"testing"
)

func newSyntheticGroundLayer() *GroundLayer {
	return NewGroundLayer(48000, ProfileFor(CategorySinglePiston), NewSampleBank(48000), rand.New(rand.NewSource(1)))
}

func airborne() Snapshot {
	return Snapshot{EngineRunning: true, EngineRPM: 2400, Throttle: 60, AltitudeAGL: 100}
}

func TestTouchdownSpawnsStaggeredTransients(t *testing.T) {
	l := newSyntheticGroundLayer()
	l.Update(airborne())

	snap := airborne()
	snap.OnGround = true
	snap.VerticalSpeed = -450
	l.Update(snap)

	// Main gear plus the delayed nose gear; no screech sample is loaded.
	if got := len(l.voices); got != 2 {
		t.Fatalf("touchdown spawned %d voices, want 2", got)
	}
	if l.voices[0].delay != 0 {
		t.Error("main gear thump must not be delayed")
	}
	if want := 48000 / 5; l.voices[1].delay != want {
		t.Errorf("nose gear delay = %d samples, want %d (200ms)", l.voices[1].delay, want)
	}
	if got := l.voices[0].peak; !near(got, 0.9*0.7) {
		t.Errorf("main gear peak = %v, want force 0.9 scaled by 0.7", got)
	}
	if got := l.voices[1].peak; !near(got, 0.9*0.25) {
		t.Errorf("nose gear peak = %v, want force 0.9 scaled by 0.25", got)
	}
}

func TestTouchdownWithScreechSample(t *testing.T) {
	bank := NewSampleBank(48000)
	bank.Add("tire-screech", make([]float32, 4800))
	l := NewGroundLayer(48000, ProfileFor(CategorySinglePiston), bank, rand.New(rand.NewSource(1)))

	l.Update(airborne())
	snap := airborne()
	snap.OnGround = true
	snap.VerticalSpeed = -450
	l.Update(snap)

	if got := len(l.voices); got != 3 {
		t.Fatalf("touchdown spawned %d voices, want 2 thumps plus screech", got)
	}
}

func TestGentleTouchdownStaysSilent(t *testing.T) {
	l := newSyntheticGroundLayer()
	l.Update(airborne())

	snap := airborne()
	snap.OnGround = true
	snap.VerticalSpeed = -20 // force 0.04, below the floor
	l.Update(snap)

	if len(l.voices) != 0 {
		t.Fatalf("gentle touchdown spawned %d voices, want none", len(l.voices))
	}
}

func TestFirstUpdateNeverFiresPhantomTouchdown(t *testing.T) {
	l := newSyntheticGroundLayer()

	// Attaching mid-rollout: the first snapshot is already on the ground.
	snap := Snapshot{OnGround: true, VerticalSpeed: -600, GroundSpeed: 40}
	l.Update(snap)

	if len(l.voices) != 0 {
		t.Fatalf("first update spawned %d voices, want none", len(l.voices))
	}
}

func TestSurfaceRumbleTable(t *testing.T) {
	tests := []struct {
		surface Surface
		speed   float32
		center  float32
		gain    float32
		q       float32
	}{
		{SurfacePaved, 25, 110, 0.2, 1.2},
		{SurfaceConcrete, 25, 110, 0.2, 1.2},
		{SurfaceGrass, 25, 17.5, 0.35, 0.9},
		{SurfaceDirt, 25, 35, 0.45, 0.5},
		{SurfaceGravel, 40, 50, 0.6, 0.5}, // gain capped at 0.60
	}

	for _, tt := range tests {
		center, gain, q := surfaceRumble(tt.surface, tt.speed)
		if !near(center, tt.center) || !near(gain, tt.gain) || !near(q, tt.q) {
			t.Errorf("surfaceRumble(%v, %.0f) = (%v, %v, %v), want (%v, %v, %v)",
				tt.surface, tt.speed, center, gain, q, tt.center, tt.gain, tt.q)
		}
	}
}

func TestSyntheticTaxiFollowsSpeed(t *testing.T) {
	l := newSyntheticGroundLayer()
	l.Update(Snapshot{OnGround: true})

	l.Update(Snapshot{OnGround: true, GroundSpeed: 25, Surface: SurfaceGrass})
	if !l.taxiNoise.Started() {
		t.Fatal("taxi noise silent while rolling")
	}
	if got := l.taxiGain.Target(); !near(got, 0.35) {
		t.Errorf("taxi gain = %v, want 0.35 on grass at 25kt", got)
	}

	// Stopping retargets the gain to zero; the source stops only after
	// the fade has finished.
	l.Update(Snapshot{OnGround: true, GroundSpeed: 0})
	if got := l.taxiGain.Target(); got != 0 {
		t.Errorf("taxi gain target = %v after stopping, want 0", got)
	}
}

func TestSampleTaxiCrossfadesBySurface(t *testing.T) {
	bank := NewSampleBank(48000)
	bank.Add("tires-asphalt", make([]float32, 4800))
	bank.Add("tires-gravel", make([]float32, 4800))
	l := NewGroundLayer(48000, ProfileFor(CategorySinglePiston), bank, rand.New(rand.NewSource(1)))
	l.Update(Snapshot{OnGround: true})

	l.Update(Snapshot{OnGround: true, GroundSpeed: 15, Surface: SurfacePaved})
	if !l.asphalt.Started() {
		t.Fatal("asphalt loop silent while taxiing")
	}
	if got := l.asphaltGain.Target(); !near(got, 0.5) {
		t.Errorf("asphalt gain = %v on paved at 15kt, want 0.5", got)
	}
	if got := l.gravelGain.Target(); got != 0 {
		t.Errorf("gravel gain = %v on paved, want 0", got)
	}

	l.Update(Snapshot{OnGround: true, GroundSpeed: 15, Surface: SurfaceGravel})
	if got := l.asphaltGain.Target(); got != 0 {
		t.Errorf("asphalt gain = %v on gravel, want 0", got)
	}
	if got := l.gravelGain.Target(); !near(got, 0.5) {
		t.Errorf("gravel gain = %v on gravel at 15kt, want 0.5", got)
	}
}

func TestSampleTaxiRateClamped(t *testing.T) {
	bank := NewSampleBank(48000)
	bank.Add("tires-asphalt", make([]float32, 4800))
	l := NewGroundLayer(48000, ProfileFor(CategorySinglePiston), bank, rand.New(rand.NewSource(1)))
	l.Update(Snapshot{OnGround: true})

	l.Update(Snapshot{OnGround: true, GroundSpeed: 100})
	if got := l.asphalt.RateTarget(); got != 2.0 {
		t.Errorf("rate = %v at 100kt, want clamped 2.0", got)
	}

	l.Update(Snapshot{OnGround: true, GroundSpeed: 3})
	if got := l.asphalt.RateTarget(); got != 0.5 {
		t.Errorf("rate = %v at 3kt, want clamped 0.5", got)
	}
}

func TestBrakingVibration(t *testing.T) {
	l := newSyntheticGroundLayer()
	l.Update(Snapshot{OnGround: true, GroundSpeed: 40})

	// Decelerating 5 kt in one tick: frequency rises with decel, gain
	// saturates at 0.3.
	l.Update(Snapshot{OnGround: true, GroundSpeed: 35})
	if got := l.brakeOsc.FreqTarget(); !near(got, 8) {
		t.Errorf("brake freq = %v, want 8", got)
	}
	if got := l.brakeGain.Target(); !near(got, 0.3) {
		t.Errorf("brake gain = %v, want saturated 0.3", got)
	}

	// Accelerating again silences the vibration.
	l.Update(Snapshot{OnGround: true, GroundSpeed: 40})
	if got := l.brakeGain.Target(); got != 0 {
		t.Errorf("brake gain = %v while accelerating, want 0", got)
	}

	// Below the speed floor braking is inaudible no matter the decel.
	l.Update(Snapshot{OnGround: true, GroundSpeed: 2})
	if got := l.brakeGain.Target(); got != 0 {
		t.Errorf("brake gain = %v below the speed floor, want 0", got)
	}
}

func TestGroundLayerDestroyIsIdempotent(t *testing.T) {
	l := newSyntheticGroundLayer()
	l.Update(Snapshot{OnGround: true})
	l.Update(Snapshot{OnGround: true, GroundSpeed: 20})

	l.Destroy()
	l.Destroy()
	if l.taxiNoise.Started() {
		t.Fatal("taxi noise still running after Destroy")
	}
}
