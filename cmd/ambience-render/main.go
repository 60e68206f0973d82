// ambience-render renders a scripted flight through the ambience engine
// and writes the result as a stereo WAV file.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/cobrahjh/simsound/internal/flightdemo"
	"github.com/cobrahjh/simsound/internal/wavio"
	"github.com/cobrahjh/simsound/preset"
	"github.com/cobrahjh/simsound/sound"
)

func main() {
	category := flag.String("category", string(sound.CategorySinglePiston), "Aircraft category (single-piston, twin-piston, turboprop, jet)")
	duration := flag.Float64("duration", 60.0, "Render duration in seconds; the scripted flight is scaled to fit")
	sampleRate := flag.Int("sample-rate", 48000, "Render sample rate in Hz")
	tickRate := flag.Int("tick-rate", 30, "Control updates per second")
	samplesDir := flag.String("samples", "", "Sample asset directory (optional; synthetic fallbacks otherwise)")
	presetPath := flag.String("preset", "", "Profile preset JSON path (optional)")
	seed := flag.Int64("seed", 1, "RNG seed")
	output := flag.String("output", "ambience.wav", "Output WAV file path")
	flag.Parse()

	var bank *sound.SampleBank
	if *samplesDir != "" {
		b, err := sound.LoadSampleBank(*samplesDir, *sampleRate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: sample dir unusable, falling back to synthesis: %v\n", err)
		} else {
			bank = b
		}
	}

	var profile *sound.Profile
	if *presetPath != "" {
		p, err := preset.LoadJSON(*presetPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading preset %q: %v\n", *presetPath, err)
			os.Exit(1)
		}
		profile = p
	}

	eng := sound.NewEngine(sound.Config{
		SampleRate: *sampleRate,
		Category:   sound.Category(*category),
		Profile:    profile,
		Bank:       bank,
		Rand:       rand.New(rand.NewSource(*seed)),
	})
	defer eng.Destroy()

	fmt.Printf("Rendering %.1fs of %s ambience at %d Hz (tick rate %d)...\n",
		*duration, *category, *sampleRate, *tickRate)

	framesPerTick := *sampleRate / *tickRate
	totalTicks := int(*duration * float64(*tickRate))
	flight := flightdemo.NewScript(eng.Profile())

	samples := make([]float32, 0, totalTicks*framesPerTick*2)
	for tick := 0; tick < totalTicks; tick++ {
		// Normalized flight time lets one script drive any duration.
		progress := float64(tick) / float64(totalTicks)
		eng.Update(flight.At(progress))
		samples = append(samples, eng.Process(framesPerTick)...)
	}

	if err := wavio.WriteStereo(*output, samples, *sampleRate); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", *output, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d frames)\n", *output, len(samples)/2)
}
