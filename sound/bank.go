package sound

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cobrahjh/simsound/internal/wavio"
)

// SampleBank maps asset names to decoded mono buffers at the engine
// sample rate. Layers probe availability once at construction and commit
// to either the sample or the synthetic path for their lifetime.
type SampleBank struct {
	sampleRate int
	samples    map[string][]float32
}

// NewSampleBank creates an empty bank. Hosts and tests add buffers
// directly with Add.
func NewSampleBank(sampleRate int) *SampleBank {
	return &SampleBank{
		sampleRate: sampleRate,
		samples:    make(map[string][]float32),
	}
}

// LoadSampleBank decodes every .wav file in dir into a bank, resampling
// to the engine rate. File base names become asset names
// ("tire-screech.wav" -> "tire-screech"). Undecodable files are skipped:
// a missing or broken asset means synthetic fallback, never an error.
func LoadSampleBank(dir string, sampleRate int) (*SampleBank, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read sample dir: %w", err)
	}

	bank := NewSampleBank(sampleRate)
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".wav") {
			continue
		}
		data, rate, err := wavio.ReadMono(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		data, err = wavio.Resample(data, rate, sampleRate)
		if err != nil {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		bank.samples[name] = data
	}
	return bank, nil
}

// Add registers a buffer, assumed to already be at the bank rate.
func (b *SampleBank) Add(name string, data []float32) {
	b.samples[name] = data
}

// Has reports whether a named asset exists without failing.
func (b *SampleBank) Has(name string) bool {
	_, ok := b.samples[name]
	return ok
}

// Buffer returns the decoded buffer for a name, or nil when absent.
func (b *SampleBank) Buffer(name string) []float32 {
	return b.samples[name]
}

// SampleRate returns the rate every buffer in the bank is stored at.
func (b *SampleBank) SampleRate() int {
	return b.sampleRate
}
