package flightdemo

import (
	"testing"

	"github.com/cobrahjh/simsound/sound"
)

func TestScriptPhases(t *testing.T) {
	s := NewScript(sound.ProfileFor(sound.CategorySinglePiston))

	tests := []struct {
		name     string
		t        float64
		running  bool
		onGround bool
	}{
		{"cold and dark", 0.0, false, true},
		{"cranking", 0.06, false, true},
		{"idle", 0.10, true, true},
		{"takeoff roll", 0.30, true, true},
		{"climb", 0.40, true, false},
		{"cruise", 0.60, true, false},
		{"approach", 0.80, true, false},
		{"rollout", 0.95, true, true},
		{"parked", 1.0, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := s.At(tt.t)
			if snap.EngineRunning != tt.running {
				t.Errorf("EngineRunning = %v, want %v", snap.EngineRunning, tt.running)
			}
			if snap.OnGround != tt.onGround {
				t.Errorf("OnGround = %v, want %v", snap.OnGround, tt.onGround)
			}
		})
	}
}

func TestScriptCrankingAppliesThrottleBeforeStart(t *testing.T) {
	s := NewScript(sound.ProfileFor(sound.CategorySinglePiston))
	snap := s.At(0.06)
	if snap.EngineRunning || snap.Throttle == 0 {
		t.Fatalf("cranking phase wrong: running=%v throttle=%v", snap.EngineRunning, snap.Throttle)
	}
}

func TestScriptGearCycle(t *testing.T) {
	s := NewScript(sound.ProfileFor(sound.CategorySinglePiston))

	if g := s.At(0.30).Gear; g != [3]float32{1, 1, 1} {
		t.Fatalf("gear on takeoff roll = %v, want down", g)
	}
	if g := s.At(0.44).Gear; g != [3]float32{0, 0, 0} {
		t.Fatalf("gear in late climb = %v, want retracted", g)
	}
	if g := s.At(0.60).Gear; g != [3]float32{0, 0, 0} {
		t.Fatalf("gear in cruise = %v, want retracted", g)
	}
	if g := s.At(0.85).Gear; g != [3]float32{1, 1, 1} {
		t.Fatalf("gear on final = %v, want down", g)
	}
}

func TestScriptTouchdownSinkRate(t *testing.T) {
	s := NewScript(sound.ProfileFor(sound.CategorySinglePiston))

	before := s.At(0.89)
	after := s.At(0.91)
	if before.OnGround || !after.OnGround {
		t.Fatal("no airborne-to-ground edge around the touchdown phase")
	}
	if after.VerticalSpeed >= 0 {
		t.Fatalf("touchdown snapshot sink rate = %v, want negative", after.VerticalSpeed)
	}
}

func TestScriptRolloutDecelerates(t *testing.T) {
	s := NewScript(sound.ProfileFor(sound.CategorySinglePiston))

	fast := s.At(0.91).GroundSpeed
	slow := s.At(0.97).GroundSpeed
	if slow >= fast {
		t.Fatalf("rollout not decelerating: %v then %v", fast, slow)
	}
}

func TestScriptJetProfileStillFlies(t *testing.T) {
	s := NewScript(sound.ProfileFor(sound.CategoryJet))
	snap := s.At(0.30)
	if !snap.EngineRunning || snap.EngineRPM <= 0 {
		t.Fatalf("jet script produced no RPM drive: %+v", snap)
	}
}
