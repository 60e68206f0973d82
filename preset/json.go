// Package preset loads JSON aircraft-profile overrides on top of the
// builtin profile table.
package preset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cobrahjh/simsound/sound"
)

// File is the JSON schema for profile override presets. Every field is
// optional; absent fields keep the builtin value.
type File struct {
	Category       string    `json:"category"`
	Harmonics      *int      `json:"harmonics"`
	PropBlades     *int      `json:"prop_blades"`
	IdleRPM        *float32  `json:"idle_rpm"`
	MaxRPM         *float32  `json:"max_rpm"`
	EngineCount    *int      `json:"engine_count"`
	TurbineWhine   *bool     `json:"turbine_whine"`
	N1Tone         *bool     `json:"n1_tone"`
	BuffetAOA      *float32  `json:"buffet_aoa"`
	BuffetGain     *float32  `json:"buffet_gain"`
	HarmonicLevels []float32 `json:"harmonic_levels"`
	PropLevel      *float32  `json:"prop_level"`
	TurbineLevel   *float32  `json:"turbine_level"`
	EngineMix      *float32  `json:"engine_mix"`
	GroundMix      *float32  `json:"ground_mix"`
	SystemsMix     *float32  `json:"systems_mix"`
	MechanicalMix  *float32  `json:"mechanical_mix"`
	WarningMix     *float32  `json:"warning_mix"`
}

// LoadJSON loads a preset file and applies it on top of the builtin
// profile it names (or the default profile when unnamed).
func LoadJSON(path string) (*sound.Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}

	base := sound.ProfileFor(sound.Category(f.Category))
	p := base.Clone()
	if err := ApplyFile(p, &f); err != nil {
		return nil, err
	}
	return p, nil
}

// ApplyFile applies a parsed preset onto an existing profile.
func ApplyFile(dst *sound.Profile, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination profile")
	}
	if f == nil {
		return nil
	}

	if f.Harmonics != nil {
		if *f.Harmonics < 0 || *f.Harmonics > 16 {
			return fmt.Errorf("harmonics must be in 0..16")
		}
		dst.Harmonics = *f.Harmonics
	}
	if f.PropBlades != nil {
		if *f.PropBlades < 0 || *f.PropBlades > 8 {
			return fmt.Errorf("prop_blades must be in 0..8")
		}
		dst.PropBlades = *f.PropBlades
	}
	if f.IdleRPM != nil {
		if *f.IdleRPM < 0 {
			return fmt.Errorf("idle_rpm must be >= 0")
		}
		dst.IdleRPM = *f.IdleRPM
	}
	if f.MaxRPM != nil {
		if *f.MaxRPM < 0 {
			return fmt.Errorf("max_rpm must be >= 0")
		}
		dst.MaxRPM = *f.MaxRPM
	}
	if f.EngineCount != nil {
		if *f.EngineCount < 1 || *f.EngineCount > 4 {
			return fmt.Errorf("engine_count must be in 1..4")
		}
		dst.EngineCount = *f.EngineCount
	}
	if f.TurbineWhine != nil {
		dst.TurbineWhine = *f.TurbineWhine
	}
	if f.N1Tone != nil {
		dst.N1Tone = *f.N1Tone
	}
	if f.BuffetAOA != nil {
		dst.BuffetAOA = *f.BuffetAOA
	}
	if f.BuffetGain != nil {
		if *f.BuffetGain < 0 {
			return fmt.Errorf("buffet_gain must be >= 0")
		}
		dst.BuffetGain = *f.BuffetGain
	}

	if f.HarmonicLevels != nil {
		for i, v := range f.HarmonicLevels {
			if v < 0 || v > 1 {
				return fmt.Errorf("harmonic_levels[%d] must be in 0..1", i)
			}
		}
		dst.HarmonicLevels = append([]float32(nil), f.HarmonicLevels...)
	}
	if err := applyLevel(&dst.PropLevel, f.PropLevel, "prop_level"); err != nil {
		return err
	}
	if err := applyLevel(&dst.TurbineLevel, f.TurbineLevel, "turbine_level"); err != nil {
		return err
	}

	if err := applyLevel(&dst.EngineMix, f.EngineMix, "engine_mix"); err != nil {
		return err
	}
	if err := applyLevel(&dst.GroundMix, f.GroundMix, "ground_mix"); err != nil {
		return err
	}
	if err := applyLevel(&dst.SystemsMix, f.SystemsMix, "systems_mix"); err != nil {
		return err
	}
	if err := applyLevel(&dst.MechanicalMix, f.MechanicalMix, "mechanical_mix"); err != nil {
		return err
	}
	return applyLevel(&dst.WarningMix, f.WarningMix, "warning_mix")
}

func applyLevel(dst *float32, src *float32, name string) error {
	if src == nil {
		return nil
	}
	if *src < 0 || *src > 1 {
		return fmt.Errorf("%s must be in 0..1", name)
	}
	*dst = *src
	return nil
}
