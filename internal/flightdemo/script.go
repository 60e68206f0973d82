// Package flightdemo scripts a complete demo flight for the offline
// renderer and the live player: engine start, taxi, takeoff roll, climb,
// cruise, approach with gear and flaps, touchdown, braking rollout.
package flightdemo

import "github.com/cobrahjh/simsound/sound"

// Script generates snapshots along the demo flight. Phase boundaries
// are in normalized flight time [0, 1], so one script drives any
// requested duration.
type Script struct {
	maxRPM  float32
	idleRPM float32
}

// NewScript shapes the script to a profile's RPM range.
func NewScript(p *sound.Profile) *Script {
	maxRPM := p.MaxRPM
	if maxRPM <= 0 {
		maxRPM = 2700 // jets report no piston RPM; drive the script anyway
	}
	idleRPM := p.IdleRPM
	if idleRPM <= 0 {
		idleRPM = 700
	}
	return &Script{maxRPM: maxRPM, idleRPM: idleRPM}
}

const (
	phaseStart    = 0.05 // cranking begins
	phaseRunning  = 0.08 // engine catches
	phaseTaxi     = 0.12
	phaseRoll     = 0.25 // takeoff roll
	phaseRotate   = 0.33 // wheels off
	phaseGearUp   = 0.36
	phaseCruise   = 0.45
	phaseApproach = 0.70
	phaseGearDown = 0.75
	phaseTouch    = 0.90
	phaseStopped  = 0.99
)

// At returns the snapshot for normalized flight time t.
func (f *Script) At(t float64) sound.Snapshot {
	var snap sound.Snapshot
	snap.OnGround = true
	snap.Surface = sound.SurfacePaved
	snap.Gear = [3]float32{1, 1, 1}

	switch {
	case t < phaseStart:
		// Cold and dark.

	case t < phaseRunning:
		// Cranking: throttle applied, engine not yet running.
		snap.Throttle = 15

	case t < phaseTaxi:
		snap.EngineRunning = true
		snap.Throttle = 20
		snap.EngineRPM = f.idleRPM

	case t < phaseRoll:
		snap.EngineRunning = true
		snap.Throttle = 30
		snap.EngineRPM = f.idleRPM + 300
		snap.GroundSpeed = ramp(t, phaseTaxi, phaseRoll, 0, 15)

	case t < phaseRotate:
		snap.EngineRunning = true
		snap.Throttle = 100
		snap.EngineRPM = f.maxRPM
		snap.GroundSpeed = ramp(t, phaseRoll, phaseRotate, 15, 70)

	case t < phaseCruise:
		snap.EngineRunning = true
		snap.OnGround = false
		snap.Throttle = 100
		snap.EngineRPM = f.maxRPM
		snap.VerticalSpeed = 800
		snap.AltitudeAGL = ramp(t, phaseRotate, phaseCruise, 0, 2500)
		snap.WindSpeed = 8
		if t >= phaseGearUp {
			snap.Gear = gearAt(ramp(t, phaseGearUp, phaseGearUp+0.04, 1, 0))
		}

	case t < phaseApproach:
		snap.EngineRunning = true
		snap.OnGround = false
		snap.Throttle = 75
		snap.EngineRPM = f.maxRPM * 0.85
		snap.AltitudeAGL = 2500
		snap.WindSpeed = 15
		snap.LateralAccel = 0.05
		snap.Gear = gearAt(0)
		snap.APMaster = true

	case t < phaseTouch:
		snap.EngineRunning = true
		snap.OnGround = false
		snap.Throttle = 12
		snap.EngineRPM = f.idleRPM + 400
		snap.VerticalSpeed = -500
		snap.AltitudeAGL = ramp(t, phaseApproach, phaseTouch, 1500, 0)
		snap.WindSpeed = 10
		snap.FlapPercent = ramp(t, phaseApproach, phaseApproach+0.05, 0, 60)
		if t < phaseGearDown {
			snap.Gear = gearAt(0)
		} else {
			snap.Gear = gearAt(ramp(t, phaseGearDown, phaseGearDown+0.04, 0, 1))
		}

	case t < phaseStopped:
		snap.EngineRunning = true
		snap.Throttle = 5
		snap.EngineRPM = f.idleRPM
		snap.VerticalSpeed = -450 // held so the touchdown tick sees the sink rate
		snap.GroundSpeed = ramp(t, phaseTouch, phaseStopped, 60, 0)
		snap.FlapPercent = 60
		snap.LongAccel = -0.3

	default:
		snap.EngineRunning = true
		snap.EngineRPM = f.idleRPM
		snap.FlapPercent = 60
	}

	return snap
}

// ramp interpolates linearly between lo at t0 and hi at t1, clamped.
func ramp(t, t0, t1 float64, lo, hi float32) float32 {
	if t1 <= t0 {
		return hi
	}
	x := (t - t0) / (t1 - t0)
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}
	return lo + float32(x)*(hi-lo)
}

func gearAt(pos float32) [3]float32 {
	return [3]float32{pos, pos, pos}
}
