// profile-fit fits the engine layer's spectral knobs (harmonic levels,
// propeller and turbine tone levels) to a reference recording, writing
// the best candidate as a profile preset.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/mayfly"

	"github.com/cobrahjh/simsound/internal/wavio"
	"github.com/cobrahjh/simsound/preset"
	"github.com/cobrahjh/simsound/sound"
)

type knobDef struct {
	Name string
	Min  float64
	Max  float64
}

type candidate struct {
	Vals []float64
}

func main() {
	referencePath := flag.String("reference", "", "Reference WAV of the target engine sound (required)")
	category := flag.String("category", string(sound.CategorySinglePiston), "Aircraft category to fit")
	sampleRate := flag.Int("sample-rate", 48000, "Analysis sample rate in Hz")
	duration := flag.Float64("duration", 2.0, "Seconds rendered per candidate")
	rpm := flag.Float64("rpm", 2400, "Steady RPM used for every candidate render")
	throttle := flag.Float64("throttle", 85, "Steady throttle percent used for every candidate render")
	variant := flag.String("variant", "desma", "Mayfly variant (ma, desma, olce, eobbma, gsasma, mpma, aoblmoa)")
	pop := flag.Int("pop", 20, "Mayfly population size")
	maxEvals := flag.Int("evals", 1500, "Objective evaluation budget")
	seed := flag.Int64("seed", 1, "RNG seed")
	outputPreset := flag.String("output", "fitted-profile.json", "Output preset JSON path")
	reportPath := flag.String("report", "", "Report JSON path (default <output>.report.json)")
	flag.Parse()

	if *referencePath == "" {
		die("missing -reference")
	}

	ref, refRate, err := wavio.ReadMono(*referencePath)
	if err != nil {
		die("read reference: %v", err)
	}
	ref, err = wavio.Resample(ref, refRate, *sampleRate)
	if err != nil {
		die("resample reference: %v", err)
	}
	refSpec, err := smoothedSpectrum(ref)
	if err != nil {
		die("analyze reference: %v", err)
	}

	baseProfile := sound.ProfileFor(sound.Category(*category))
	defs := knobDefs(baseProfile)

	evaluate := func(cand candidate) (float64, error) {
		p := profileFromCandidate(baseProfile, defs, cand)
		rendered := renderSteady(p, *sampleRate, *duration, float32(*rpm), float32(*throttle))
		spec, err := smoothedSpectrum(rendered)
		if err != nil {
			return 0, err
		}
		return spectralDistance(refSpec, spec), nil
	}

	start := time.Now()
	evals := 0
	best := candidate{Vals: make([]float64, len(defs))}
	bestScore := math.Inf(1)

	iters := maxInt(1, *maxEvals/(2*(*pop)))
	cfg, err := newMayflyConfig(strings.ToLower(*variant), *pop, len(defs), iters)
	if err != nil {
		die("invalid mayfly variant: %v", err)
	}
	cfg.Rand = rand.New(rand.NewSource(*seed))
	cfg.ObjectiveFunc = func(pos []float64) float64 {
		if evals >= *maxEvals {
			return bestScore + 1.0
		}
		cand := fromNormalized(pos, defs)
		score, err := evaluate(cand)
		evals++
		if err != nil {
			return bestScore + 0.8
		}
		if score < bestScore {
			best = cand
			bestScore = score
			fmt.Printf("Improved eval=%d score=%.5f\n", evals, bestScore)
		}
		return score
	}

	if _, err := runMayfly(cfg); err != nil {
		die("optimize: %v", err)
	}

	if err := writeOutputs(*outputPreset, *reportPath, *category, defs, best, bestScore, evals, time.Since(start).Seconds()); err != nil {
		die("write outputs: %v", err)
	}
	fmt.Printf("Done: %d evals, best score %.5f -> %s\n", evals, bestScore, *outputPreset)
}

// knobDefs enumerates the tunable engine-layer levels for a profile.
func knobDefs(p *sound.Profile) []knobDef {
	var defs []knobDef
	for i := 0; i < p.Harmonics; i++ {
		defs = append(defs, knobDef{Name: fmt.Sprintf("harmonic_%d", i), Min: 0, Max: 1})
	}
	if p.PropBlades > 0 {
		defs = append(defs, knobDef{Name: "prop_level", Min: 0, Max: 0.5})
	}
	if p.TurbineWhine || p.N1Tone {
		defs = append(defs, knobDef{Name: "turbine_level", Min: 0, Max: 0.5})
	}
	return defs
}

func profileFromCandidate(base *sound.Profile, defs []knobDef, cand candidate) *sound.Profile {
	p := base.Clone()
	var levels []float32
	for i, d := range defs {
		v := float32(cand.Vals[i])
		switch {
		case strings.HasPrefix(d.Name, "harmonic_"):
			levels = append(levels, v)
		case d.Name == "prop_level":
			p.PropLevel = v
		case d.Name == "turbine_level":
			p.TurbineLevel = v
		}
	}
	if len(levels) > 0 {
		p.HarmonicLevels = levels
	}
	return p
}

// renderSteady renders the engine layer alone at a steady state and
// returns the mono mix.
func renderSteady(p *sound.Profile, sampleRate int, duration float64, rpm, throttle float32) []float32 {
	eng := sound.NewEngine(sound.Config{
		SampleRate: sampleRate,
		Profile:    p,
		Rand:       rand.New(rand.NewSource(7)),
	})
	defer eng.Destroy()
	eng.SetLayerEnabled(sound.LayerGround, false)
	eng.SetLayerEnabled(sound.LayerSystems, false)
	eng.SetLayerEnabled(sound.LayerMechanical, false)

	snap := sound.Snapshot{
		EngineRPM:     rpm,
		Throttle:      throttle,
		EngineRunning: true,
		OnGround:      true,
	}

	const tickRate = 30
	framesPerTick := sampleRate / tickRate
	totalTicks := int(duration * tickRate)
	mono := make([]float32, 0, totalTicks*framesPerTick)
	for t := 0; t < totalTicks; t++ {
		eng.Update(snap)
		stereo := eng.Process(framesPerTick)
		for i := 0; i < len(stereo); i += 2 {
			mono = append(mono, stereo[i])
		}
	}
	return mono
}

const (
	analysisWindow = 4096
	spectrumBins   = 1024
	smoothKernel   = 9
)

// smoothedSpectrum computes a magnitude spectrum over the signal's tail
// window and smooths it by convolving with a Hann kernel.
func smoothedSpectrum(samples []float32) ([]float32, error) {
	if len(samples) < analysisWindow {
		return nil, fmt.Errorf("signal too short: %d samples", len(samples))
	}
	window := samples[len(samples)-analysisWindow:]

	spec := make([]float32, spectrumBins)
	n := len(window)
	for k := 1; k <= spectrumBins; k++ {
		var re, im float64
		for i := 0; i < n; i++ {
			ph := 2.0 * math.Pi * float64(k) * float64(i) / float64(n)
			re += float64(window[i]) * math.Cos(ph)
			im -= float64(window[i]) * math.Sin(ph)
		}
		spec[k-1] = float32(math.Hypot(re, im) / float64(n))
	}

	kernel := make([]float32, smoothKernel)
	var ksum float32
	for i := range kernel {
		kernel[i] = float32(0.5 - 0.5*math.Cos(2.0*math.Pi*float64(i)/float64(smoothKernel-1)))
		ksum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= ksum
	}

	conv := make([]float32, len(spec)+len(kernel)-1)
	if err := algofft.ConvolveReal(conv, spec, kernel); err != nil {
		return nil, err
	}
	return conv[smoothKernel/2 : smoothKernel/2+len(spec)], nil
}

// spectralDistance is the L2 distance between peak-normalized spectra.
func spectralDistance(a, b []float32) float64 {
	na := normalizePeak(a)
	nb := normalizePeak(b)
	var sum float64
	for i := range na {
		d := float64(na[i] - nb[i])
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(na)))
}

func normalizePeak(spec []float32) []float32 {
	var peak float32
	for _, v := range spec {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return spec
	}
	out := make([]float32, len(spec))
	for i, v := range spec {
		out[i] = v / peak
	}
	return out
}

func fromNormalized(pos []float64, defs []knobDef) candidate {
	vals := make([]float64, len(defs))
	for i := range defs {
		x := 0.0
		if i < len(pos) {
			x = clamp(pos[i], 0, 1)
		}
		vals[i] = defs[i].Min + x*(defs[i].Max-defs[i].Min)
	}
	return candidate{Vals: vals}
}

func newMayflyConfig(variant string, pop, dims, iters int) (*mayfly.Config, error) {
	var cfg *mayfly.Config
	switch variant {
	case "ma":
		cfg = mayfly.NewDefaultConfig()
	case "desma":
		cfg = mayfly.NewDESMAConfig()
	case "olce":
		cfg = mayfly.NewOLCEConfig()
	case "eobbma":
		cfg = mayfly.NewEOBBMAConfig()
	case "gsasma":
		cfg = mayfly.NewGSASMAConfig()
	case "mpma":
		cfg = mayfly.NewMPMAConfig()
	case "aoblmoa":
		cfg = mayfly.NewAOBLMOAConfig()
	default:
		return nil, fmt.Errorf("unsupported variant %q", variant)
	}
	cfg.ProblemSize = dims
	cfg.LowerBound = 0.0
	cfg.UpperBound = 1.0
	cfg.MaxIterations = iters
	cfg.NPop = pop
	cfg.NPopF = pop
	cfg.NC = 2 * pop
	cfg.NM = maxInt(1, int(math.Round(0.05*float64(pop))))
	return cfg, nil
}

func runMayfly(cfg *mayfly.Config) (_ *mayfly.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mayfly panic: %v", r)
		}
	}()
	return mayfly.Optimize(cfg)
}

type runReport struct {
	Category  string             `json:"category"`
	Score     float64            `json:"score"`
	Evals     int                `json:"evals"`
	Seconds   float64            `json:"seconds"`
	BestKnobs map[string]float64 `json:"best_knobs"`
}

func writeOutputs(outputPreset, reportPath, category string, defs []knobDef, best candidate, score float64, evals int, seconds float64) error {
	f := preset.File{Category: category}
	knobs := make(map[string]float64, len(defs))
	var levels []float32
	for i, d := range defs {
		knobs[d.Name] = best.Vals[i]
		v := float32(best.Vals[i])
		switch {
		case strings.HasPrefix(d.Name, "harmonic_"):
			levels = append(levels, v)
		case d.Name == "prop_level":
			f.PropLevel = &v
		case d.Name == "turbine_level":
			f.TurbineLevel = &v
		}
	}
	f.HarmonicLevels = levels

	if err := writeJSON(outputPreset, f); err != nil {
		return err
	}

	if reportPath == "" {
		reportPath = outputPreset + ".report.json"
	}
	return writeJSON(reportPath, runReport{
		Category:  category,
		Score:     score,
		Evals:     evals,
		Seconds:   seconds,
		BestKnobs: knobs,
	})
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
