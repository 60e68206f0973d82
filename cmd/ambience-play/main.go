// ambience-play plays live cockpit ambience through the platform audio
// device, driven either by a scripted demo flight or by snapshot JSON
// lines on stdin.
package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cobrahjh/simsound/internal/flightdemo"
	"github.com/cobrahjh/simsound/preset"
	"github.com/cobrahjh/simsound/sound"
)

func main() {
	category := flag.String("category", string(sound.CategorySinglePiston), "Aircraft category (single-piston, twin-piston, turboprop, jet)")
	sampleRate := flag.Int("sample-rate", 48000, "Playback sample rate in Hz")
	tickRate := flag.Int("tick-rate", 30, "Control updates per second")
	duration := flag.Float64("duration", 60.0, "Demo flight duration in seconds (ignored with -stdin)")
	samplesDir := flag.String("samples", "", "Sample asset directory (optional)")
	presetPath := flag.String("preset", "", "Profile preset JSON path (optional)")
	seed := flag.Int64("seed", 1, "RNG seed")
	stdin := flag.Bool("stdin", false, "Read snapshot JSON lines from stdin instead of the demo flight")
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

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   *sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening audio device: %v\n", err)
		os.Exit(1)
	}
	<-ready

	stream := &engineStream{
		engine:        eng,
		framesPerTick: *sampleRate / *tickRate,
	}

	if *stdin {
		go feedFromStdin(eng)
		stream.endless = true
	} else {
		flight := newDemoFlight(eng.Profile(), *duration, *tickRate)
		stream.flight = flight
	}

	player := ctx.NewPlayer(stream)
	player.Play()
	fmt.Printf("Playing %s ambience at %d Hz. Ctrl-C to stop.\n", *category, *sampleRate)

	for player.IsPlaying() {
		time.Sleep(100 * time.Millisecond)
	}
	if err := player.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing player: %v\n", err)
	}
}

// engineStream renders engine blocks on demand for the audio device.
// In demo mode it advances the scripted flight one tick per block; in
// stdin mode updates arrive from the feeder goroutine and the stream
// just keeps rendering.
type engineStream struct {
	engine        *sound.Engine
	framesPerTick int
	flight        *demoFlight
	endless       bool

	pending []byte
}

func (s *engineStream) Read(p []byte) (int, error) {
	if len(s.pending) == 0 {
		if s.flight != nil {
			snap, ok := s.flight.next()
			if !ok && !s.endless {
				return 0, io.EOF
			}
			s.engine.Update(snap)
		}
		block := s.engine.Process(s.framesPerTick)
		s.pending = make([]byte, len(block)*4)
		for i, v := range block {
			binary.LittleEndian.PutUint32(s.pending[i*4:], math.Float32bits(v))
		}
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

// demoFlight steps the scripted flight at tick granularity.
type demoFlight struct {
	script     *flightdemo.Script
	tick       int
	totalTicks int
}

func newDemoFlight(p *sound.Profile, duration float64, tickRate int) *demoFlight {
	return &demoFlight{
		script:     flightdemo.NewScript(p),
		totalTicks: int(duration * float64(tickRate)),
	}
}

func (d *demoFlight) next() (sound.Snapshot, bool) {
	if d.tick >= d.totalTicks {
		return sound.Snapshot{}, false
	}
	snap := d.script.At(float64(d.tick) / float64(d.totalTicks))
	d.tick++
	return snap, true
}

// feedFromStdin decodes one snapshot JSON object per line and pushes it
// into the engine. Malformed lines are skipped.
func feedFromStdin(eng *sound.Engine) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		snap, err := sound.DecodeSnapshot(sc.Bytes())
		if err != nil {
			continue
		}
		eng.Update(snap)
	}
}
