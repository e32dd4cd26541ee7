// Package dsp provides the sample-rate arithmetic primitives the rest of
// hacktv is built on: numerically controlled oscillators, windowed-sinc FIR
// design, polyphase resampling and a Hilbert transformer for single
// sideband modulation.
package dsp

import "math"

// NCO is a phase-accumulator oscillator: a running phase incremented by a
// fixed step per sample, shared by every subcarrier in the chain (chroma,
// FM sound, NICAM, VSB local oscillator) so one stateful implementation
// covers them all.
type NCO struct {
	phase float64 // radians, wrapped to [0, 2pi)
	step  float64 // radians per sample
}

// NewNCO creates an oscillator running at freq Hz for the given sample
// rate, with an optional starting phase in radians.
func NewNCO(freq, sampleRate, startPhase float64) *NCO {
	return &NCO{
		phase: wrap(startPhase),
		step:  2 * math.Pi * freq / sampleRate,
	}
}

// SetFreq updates the oscillator's frequency without disturbing phase
// continuity, used when a subcarrier's frequency is retuned between lines
// (SECAM's alternating Dr/Db FM centre frequency, for instance).
func (n *NCO) SetFreq(freq, sampleRate float64) {
	n.step = 2 * math.Pi * freq / sampleRate
}

// Phase returns the current phase in radians.
func (n *NCO) Phase() float64 { return n.phase }

// SetPhase forces the oscillator to an absolute phase, used to make chroma
// phase absolute to line 1 field 1 at the start of a frame.
func (n *NCO) SetPhase(p float64) { n.phase = wrap(p) }

// Sin advances the oscillator by one sample and returns sin(phase).
func (n *NCO) Sin() float64 {
	v := math.Sin(n.phase)
	n.advance()
	return v
}

// Cos advances the oscillator by one sample and returns cos(phase).
func (n *NCO) Cos() float64 {
	v := math.Cos(n.phase)
	n.advance()
	return v
}

// SinCos advances by one sample and returns both components, avoiding a
// second trig call when both are needed (QAM chroma modulation).
func (n *NCO) SinCos() (sin, cos float64) {
	sin, cos = math.Sincos(n.phase)
	n.advance()
	return
}

// Skip advances the phase by n samples without generating output, used to
// keep a subcarrier's phase continuous across sync, blanking and VBI
// regions where no carrier is drawn.
func (n *NCO) Skip(samples int) {
	n.phase = wrap(n.phase + n.step*float64(samples))
}

// Nudge offsets the current phase by radians without touching the
// oscillator's nominal per-sample step, used by FM modulators to apply an
// instantaneous frequency deviation on top of a steady carrier.
func (n *NCO) Nudge(radians float64) {
	n.phase = wrap(n.phase + radians)
}

func (n *NCO) advance() {
	n.phase = wrap(n.phase + n.step)
}

func wrap(p float64) float64 {
	const twoPi = 2 * math.Pi
	p = math.Mod(p, twoPi)
	if p < 0 {
		p += twoPi
	}
	return p
}
