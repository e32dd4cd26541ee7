package dsp

import (
	"math"

	"gonum.org/v1/gonum/dsp/window"
)

// LowPassTaps computes windowed-sinc FIR coefficients for a low-pass filter
// with the given cutoff and sample rate, normalised to unity gain at DC.
// The window itself comes from gonum's dsp/window package (Blackman here,
// Hamming in RaisedCosineVSB).
func LowPassTaps(numTaps int, cutoffHz, sampleRate float64) []float64 {
	taps := sincTaps(numTaps, cutoffHz, sampleRate)
	window.Blackman(taps)
	normalize(taps)
	return taps
}

// RaisedCosineVSB designs the vestigial-sideband shaping filter as a
// symmetric low-pass: a sinc core with its cutoff at cutoffHz+rollOffHz/2,
// tapered with a Hamming window and normalised to unity gain at DC. The
// response is the same on both sides of the carrier; no raised-cosine
// roll-off is applied and nothing is centred on the audio subcarrier.
func RaisedCosineVSB(numTaps int, cutoffHz, rollOffHz, sampleRate float64) []float64 {
	taps := sincTaps(numTaps, cutoffHz+rollOffHz/2, sampleRate)
	window.Hamming(taps)
	normalize(taps)
	return taps
}

func sincTaps(numTaps int, cutoffHz, sampleRate float64) []float64 {
	taps := make([]float64, numTaps)
	normalizedCutoff := cutoffHz / sampleRate
	m := float64(numTaps - 1)
	for i := range taps {
		n := float64(i)
		if i == int(m/2) {
			taps[i] = 2 * math.Pi * normalizedCutoff
			continue
		}
		taps[i] = math.Sin(2*math.Pi*normalizedCutoff*(n-m/2)) / (n - m/2)
	}
	return taps
}

func normalize(taps []float64) {
	var sum float64
	for _, t := range taps {
		sum += t
	}
	if sum == 0 {
		return
	}
	for i := range taps {
		taps[i] /= sum
	}
}

// FIR is a streaming finite-impulse-response filter with a fixed tap set,
// suitable for per-sample use in the IQ modulator's VSB path.
type FIR struct {
	taps []float64
	hist []float64
	pos  int
}

// NewFIR builds a streaming filter around the given taps.
func NewFIR(taps []float64) *FIR {
	return &FIR{
		taps: taps,
		hist: make([]float64, len(taps)),
	}
}

// Filter pushes one input sample through the filter and returns the
// filtered output sample.
func (f *FIR) Filter(x float64) float64 {
	f.hist[f.pos] = x
	var acc float64
	idx := f.pos
	for _, tap := range f.taps {
		acc += tap * f.hist[idx]
		idx--
		if idx < 0 {
			idx = len(f.hist) - 1
		}
	}
	f.pos++
	if f.pos >= len(f.hist) {
		f.pos = 0
	}
	return acc
}
