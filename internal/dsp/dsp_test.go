package dsp

import (
	"math"
	"testing"
)

func TestNCOFrequency(t *testing.T) {
	sampleRate := 1000.0
	freq := 100.0
	n := NewNCO(freq, sampleRate, 0)
	// After sampleRate/freq samples the oscillator should have completed
	// one full cycle and returned to phase ~0.
	cycles := int(sampleRate / freq)
	for i := 0; i < cycles; i++ {
		n.Sin()
	}
	if math.Abs(n.Phase()) > 1e-9 && math.Abs(n.Phase()-2*math.Pi) > 1e-9 {
		t.Fatalf("phase after one cycle = %v, want ~0", n.Phase())
	}
}

func TestLowPassTapsUnityGainAtDC(t *testing.T) {
	taps := LowPassTaps(31, 1000, 8000)
	var sum float64
	for _, v := range taps {
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("DC gain = %v, want 1.0", sum)
	}
}

func TestFIRPassesDC(t *testing.T) {
	taps := LowPassTaps(15, 1000, 8000)
	f := NewFIR(taps)
	var out float64
	for i := 0; i < 100; i++ {
		out = f.Filter(1.0)
	}
	if math.Abs(out-1.0) > 1e-6 {
		t.Fatalf("steady-state DC output = %v, want ~1.0", out)
	}
}

func TestHilbertOfSineIsCosine(t *testing.T) {
	const n = 256
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * 8 * float64(i) / n)
	}
	h := Hilbert(x)
	// The Hilbert transform of a pure sine is a negative cosine of the
	// same frequency (up to edge effects); check a middle sample against
	// the expected phase-shifted value.
	mid := n / 2
	want := -math.Cos(2 * math.Pi * 8 * float64(mid) / n)
	if math.Abs(h[mid]-want) > 0.1 {
		t.Fatalf("hilbert[%d] = %v, want ~%v", mid, h[mid], want)
	}
}

func TestResamplerRatio(t *testing.T) {
	r := NewResampler(3, 2, 8)
	in := make([]float64, 1000)
	out := r.Process(in)
	want := len(in) * 3 / 2
	if math.Abs(float64(len(out)-want)) > 4 {
		t.Fatalf("got %d output samples, want ~%d", len(out), want)
	}
}
