// Package sound renders continuous cockpit ambience from a stream of
// flight-state snapshots. Control-rate updates set smoothed parameter
// targets; audio is rendered block-wise into a shared master bus.
package sound

import (
	"encoding/json"
	"strings"
)

// Surface is the ground-surface material category under the aircraft.
type Surface int

const (
	SurfacePaved Surface = iota
	SurfaceConcrete
	SurfaceGrass
	SurfaceDirt
	SurfaceGravel
)

// Offroad reports whether the surface is unpaved.
func (s Surface) Offroad() bool {
	return s >= SurfaceGrass
}

func (s Surface) String() string {
	switch s {
	case SurfaceConcrete:
		return "concrete"
	case SurfaceGrass:
		return "grass"
	case SurfaceDirt:
		return "dirt"
	case SurfaceGravel:
		return "gravel"
	default:
		return "paved"
	}
}

// ParseSurface maps a surface name to its category. Unknown names fall
// back to paved, the quietest surface.
func ParseSurface(name string) Surface {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "concrete":
		return SurfaceConcrete
	case "grass", "turf":
		return SurfaceGrass
	case "dirt":
		return SurfaceDirt
	case "gravel", "macadam":
		return SurfaceGravel
	default:
		return SurfacePaved
	}
}

// Snapshot is one immutable flight-state sample. The zero value of every
// field is its safe default, so a partially populated snapshot is always
// valid input.
type Snapshot struct {
	EngineRPM     float32 // revolutions per minute
	Throttle      float32 // 0..100
	EngineRunning bool
	OnGround      bool
	GroundSpeed   float32 // knots
	VerticalSpeed float32 // feet per minute, negative descending
	Surface       Surface
	Gear          [3]float32 // 0 retracted .. 1 extended, per axis
	FlapPercent   float32    // 0..100
	ElevatorTrim  float32    // normalized trim position
	APMaster      bool       // autopilot master engaged
	AngleOfAttack float32    // degrees
	WindSpeed     float32    // knots
	LateralAccel  float32    // g
	LongAccel     float32    // g
	StallWarning  bool
	OverspeedWarn bool
	AltitudeAGL   float32 // feet above ground
}

// snapshotJSON is the wire shape used by simulator bridges. Every key is
// optional; absent keys leave the zero default in place.
type snapshotJSON struct {
	EngineRPM     float32   `json:"engineRpm"`
	Throttle      float32   `json:"throttle"`
	EngineRunning bool      `json:"engineRunning"`
	OnGround      bool      `json:"onGround"`
	GroundSpeed   float32   `json:"groundSpeed"`
	VerticalSpeed float32   `json:"verticalSpeed"`
	Surface       string    `json:"surfaceType"`
	Gear          []float32 `json:"gearPosition"`
	FlapPercent   float32   `json:"flapPercent"`
	ElevatorTrim  float32   `json:"elevatorTrim"`
	APMaster      bool      `json:"apMaster"`
	AngleOfAttack float32   `json:"angleOfAttack"`
	WindSpeed     float32   `json:"windSpeed"`
	LateralAccel  float32   `json:"lateralAccel"`
	LongAccel     float32   `json:"longitudinalAccel"`
	StallWarning  bool      `json:"stallWarning"`
	OverspeedWarn bool      `json:"overspeedWarning"`
	AltitudeAGL   float32   `json:"altitudeAGL"`
}

// DecodeSnapshot parses a bridge telemetry payload. Missing fields keep
// their zero defaults; only malformed JSON is an error.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var w snapshotJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		EngineRPM:     w.EngineRPM,
		Throttle:      w.Throttle,
		EngineRunning: w.EngineRunning,
		OnGround:      w.OnGround,
		GroundSpeed:   w.GroundSpeed,
		VerticalSpeed: w.VerticalSpeed,
		Surface:       ParseSurface(w.Surface),
		FlapPercent:   w.FlapPercent,
		ElevatorTrim:  w.ElevatorTrim,
		APMaster:      w.APMaster,
		AngleOfAttack: w.AngleOfAttack,
		WindSpeed:     w.WindSpeed,
		LateralAccel:  w.LateralAccel,
		LongAccel:     w.LongAccel,
		StallWarning:  w.StallWarning,
		OverspeedWarn: w.OverspeedWarn,
		AltitudeAGL:   w.AltitudeAGL,
	}
	for i := 0; i < len(snap.Gear) && i < len(w.Gear); i++ {
		snap.Gear[i] = clampf(w.Gear[i], 0, 1)
	}
	return snap, nil
}
