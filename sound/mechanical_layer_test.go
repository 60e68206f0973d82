package sound

import "testing"

func newSyntheticMechanicalLayer() *MechanicalLayer {
	return NewMechanicalLayer(48000, ProfileFor(CategorySinglePiston), NewSampleBank(48000))
}

func TestGearMotorRunsWhileInTransit(t *testing.T) {
	l := newSyntheticMechanicalLayer()
	l.Update(Snapshot{}) // prime

	l.Update(Snapshot{Gear: [3]float32{0.5, 0.4, 0.3}})
	if got := l.gearGain.Target(); got != gearMotorLevel {
		t.Fatalf("gear motor gain = %v in transit, want %v", got, gearMotorLevel)
	}

	l.Update(Snapshot{Gear: [3]float32{1, 1, 1}})
	if got := l.gearGain.Target(); got != 0 {
		t.Fatalf("gear motor gain = %v when locked, want 0", got)
	}
}

func TestGearLockThunkFiresOncePerAxis(t *testing.T) {
	l := newSyntheticMechanicalLayer()
	l.Update(Snapshot{}) // prime

	// All three axes travel, then lock together.
	l.Update(Snapshot{Gear: [3]float32{0.5, 0.5, 0.5}})
	if len(l.voices) != 0 {
		t.Fatalf("thunk fired during transit: %d voices", len(l.voices))
	}

	l.Update(Snapshot{Gear: [3]float32{1, 1, 1}})
	if got := len(l.voices); got != 3 {
		t.Fatalf("lock spawned %d thunks, want one per axis", got)
	}

	// Holding the locked state must not re-fire.
	l.Update(Snapshot{Gear: [3]float32{1, 1, 1}})
	if got := len(l.voices); got != 3 {
		t.Fatalf("repeated locked state grew voices to %d", got)
	}
}

func TestGearLockPerAxisStagger(t *testing.T) {
	l := newSyntheticMechanicalLayer()
	l.Update(Snapshot{}) // prime

	l.Update(Snapshot{Gear: [3]float32{0.5, 0.5, 0.5}})
	l.Update(Snapshot{Gear: [3]float32{1, 0.8, 0.9}})
	if got := len(l.voices); got != 1 {
		t.Fatalf("first axis lock spawned %d thunks, want 1", got)
	}
	l.Update(Snapshot{Gear: [3]float32{1, 1, 1}})
	if got := len(l.voices); got != 3 {
		t.Fatalf("remaining axes added %d total thunks, want 3", got)
	}
}

func TestFlapMotorThreshold(t *testing.T) {
	l := newSyntheticMechanicalLayer()
	l.Update(Snapshot{}) // prime

	// Movement below the threshold is ignored.
	l.Update(Snapshot{FlapPercent: 0.05})
	if got := l.flapGain.Target(); got != 0 {
		t.Fatalf("flap gain = %v for sub-threshold movement, want 0", got)
	}

	l.Update(Snapshot{FlapPercent: 20})
	if got := l.flapGain.Target(); got != flapMotorLevel {
		t.Fatalf("flap gain = %v while extending, want %v", got, flapMotorLevel)
	}

	l.Update(Snapshot{FlapPercent: 20})
	if got := l.flapGain.Target(); got != 0 {
		t.Fatalf("flap gain = %v after stopping, want 0", got)
	}
}

func TestFlapEndOfTravelClick(t *testing.T) {
	bank := NewSampleBank(48000)
	bank.Add("flaps-click", make([]float32, 480))
	l := NewMechanicalLayer(48000, ProfileFor(CategorySinglePiston), bank)
	l.Update(Snapshot{}) // prime

	l.Update(Snapshot{FlapPercent: 20})
	if len(l.voices) != 0 {
		t.Fatal("click fired mid-travel")
	}
	l.Update(Snapshot{FlapPercent: 20})
	if got := len(l.voices); got != 1 {
		t.Fatalf("end of travel spawned %d clicks, want 1", got)
	}
	l.Update(Snapshot{FlapPercent: 20})
	if got := len(l.voices); got != 1 {
		t.Fatalf("holding position grew clicks to %d", got)
	}
}

func TestTrimServoRequiresSampleAsset(t *testing.T) {
	l := newSyntheticMechanicalLayer()
	l.Update(Snapshot{}) // prime

	// No trim asset loaded: trim movement makes no sound at all.
	l.Update(Snapshot{ElevatorTrim: 0.05})
	if got := l.trimGain.Target(); got != 0 {
		t.Fatalf("trim gain = %v without an asset, want 0", got)
	}

	bank := NewSampleBank(48000)
	bank.Add("trim", make([]float32, 480))
	withAsset := NewMechanicalLayer(48000, ProfileFor(CategorySinglePiston), bank)
	withAsset.Update(Snapshot{}) // prime

	withAsset.Update(Snapshot{ElevatorTrim: 0.05})
	if got := withAsset.trimGain.Target(); got != trimServoLevel {
		t.Fatalf("trim gain = %v while trimming, want %v", got, trimServoLevel)
	}
	if !withAsset.trimLoop.Started() {
		t.Fatal("trim loop silent while trimming")
	}

	withAsset.Update(Snapshot{ElevatorTrim: 0.05})
	if got := withAsset.trimGain.Target(); got != 0 {
		t.Fatalf("trim gain = %v after stopping, want 0", got)
	}
}

func TestAutopilotDisconnectChime(t *testing.T) {
	l := newSyntheticMechanicalLayer()
	l.Update(Snapshot{APMaster: true}) // prime

	// Engaging again is not an edge.
	l.Update(Snapshot{APMaster: true})
	if len(l.voices) != 0 {
		t.Fatalf("chime fired without a disconnect: %d voices", len(l.voices))
	}

	l.Update(Snapshot{APMaster: false})
	if got := len(l.voices); got != 1 {
		t.Fatalf("disconnect spawned %d chimes, want 1", got)
	}

	// Staying disconnected must not re-fire.
	l.Update(Snapshot{APMaster: false})
	if got := len(l.voices); got != 1 {
		t.Fatalf("repeated disconnected state grew chimes to %d", got)
	}
}

func TestMechanicalFirstUpdateOnlyPrimes(t *testing.T) {
	l := newSyntheticMechanicalLayer()

	// Attaching with the autopilot off and gear mid-travel: no edges fire.
	l.Update(Snapshot{Gear: [3]float32{0.5, 0.5, 0.5}})
	if len(l.voices) != 0 {
		t.Fatalf("first update spawned %d voices, want none", len(l.voices))
	}
	if got := l.gearGain.Target(); got != 0 {
		t.Fatalf("first update started the gear motor: gain %v", got)
	}
}
