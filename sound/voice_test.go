package sound

import (
	"math/rand"
	"testing"
	"time"
)

func TestToneTransientDecaysAndFinishes(t *testing.T) {
	const sampleRate = 48000
	v := newToneTransient(sampleRate, 80, 0.7, 10*time.Millisecond, 100*time.Millisecond)

	// Render well past the nominal duration; the voice must finish.
	var peak float32
	for i := 0; i < sampleRate/2; i++ {
		s := v.next()
		if a := absf(s); a > peak {
			peak = a
		}
	}
	if !v.finished() {
		t.Fatal("tone transient never finished")
	}
	if peak == 0 {
		t.Fatal("tone transient was silent")
	}
	if peak > 0.7 {
		t.Fatalf("peak %v exceeded the requested level 0.7", peak)
	}
	if v.next() != 0 {
		t.Fatal("finished voice must render silence")
	}
}

func TestTransientDelayPostponesOnset(t *testing.T) {
	const sampleRate = 48000
	v := newToneTransient(sampleRate, 80, 0.5, time.Millisecond, 50*time.Millisecond)
	v.delayBy(200*time.Millisecond, sampleRate)

	delaySamples := sampleRate / 5
	for i := 0; i < delaySamples; i++ {
		if s := v.next(); s != 0 {
			t.Fatalf("voice audible at sample %d, inside the onset delay", i)
		}
	}

	var energy float32
	for i := 0; i < sampleRate/10; i++ {
		energy += absf(v.next())
	}
	if energy == 0 {
		t.Fatal("voice stayed silent after its onset delay")
	}
}

func TestNoiseTransientIsColored(t *testing.T) {
	const sampleRate = 48000
	rng := rand.New(rand.NewSource(3))
	v := newNoiseTransient(sampleRate, rng, 200, 8, 0.6, 5*time.Millisecond, 80*time.Millisecond)

	var energy float32
	for i := 0; i < sampleRate/4; i++ {
		energy += absf(v.next())
	}
	if energy == 0 {
		t.Fatal("noise transient was silent")
	}
	if !v.finished() {
		t.Fatal("noise transient never finished")
	}
}

func TestSampleTransientPlaysOnceAndFinishes(t *testing.T) {
	const sampleRate = 48000
	buf := []float32{1, 1, 1, 1}
	v := newSampleTransient(sampleRate, buf, 0.5)

	var sum float32
	for i := 0; i <= len(buf); i++ {
		sum += v.next()
	}
	if sum != 2.0 {
		t.Fatalf("sample transient rendered %v, want 4 samples at gain 0.5", sum)
	}
	if !v.finished() {
		t.Fatal("sample transient never finished")
	}
}
