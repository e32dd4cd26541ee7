// Package sound implements the broadcast audio subcarriers: plain FM,
// NICAM-728 digital stereo, A2 (Zweiton) dual FM, and MAC duobinary
// digital sound. Each type produces a stream of samples at the TV line
// sample rate meant to be summed onto the composite or IQ signal at its
// assigned subcarrier frequency.
package sound

import "github.com/SarahRoseLives/hacktv/internal/dsp"

// FMSubcarrier frequency-modulates a mono or stereo audio stream onto a
// carrier: a single NCO whose phase is nudged per sample by the input
// amplitude. The carrier's phase must stay continuous across lines, so
// the NCO is owned by this type rather than rebuilt per call.
type FMSubcarrier struct {
	osc        *dsp.NCO
	sampleRate float64
	deviation  float64 // peak frequency deviation in Hz
}

// NewFMSubcarrier creates an FM subcarrier at centreHz with the given peak
// deviation, running at sampleRate.
func NewFMSubcarrier(centreHz, deviation, sampleRate float64) *FMSubcarrier {
	return &FMSubcarrier{
		osc:        dsp.NewNCO(centreHz, sampleRate, 0),
		sampleRate: sampleRate,
		deviation:  deviation,
	}
}

// Modulate fills out with one carrier sample per input amplitude in, each
// amplitude expected normalised to [-1, 1].
func (f *FMSubcarrier) Modulate(in, out []float64) {
	for i, a := range in {
		// Instantaneous frequency offset proportional to amplitude;
		// expressed as a phase nudge so the NCO's own step stays at the
		// nominal centre frequency and stays continuous between calls.
		nudge := 2 * 3.141592653589793 * f.deviation * a / f.sampleRate
		f.osc.Nudge(nudge)
		out[i] = f.osc.Cos()
	}
}
