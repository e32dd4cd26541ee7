// Package iq implements the IQ modulator / output shaper: up-converts
// real baseband to I/Q with optional vestigial-sideband filtering, or
// passes baseband through untouched, then scales and converts to the
// sink's sample type.
package iq

import (
	"math"

	"github.com/SarahRoseLives/hacktv/internal/dsp"
)

// Type selects the modulator's up-conversion scheme.
type Type int

const (
	Baseband Type = iota
	AMVSB
	FMWide
	SSB
)

// Modulator up-converts a stream of real baseband samples onto an IQ
// carrier. FIR coefficients and the carrier NCO are set up once at open
// (NewModulator); Modulate is then purely per-sample.
type Modulator struct {
	kind       Type
	carrier    *dsp.NCO
	vsb        *dsp.FIR
	deviation  float64 // FMWide peak deviation, radians/sample per unit amplitude
	gain       float64 // linear gain applied after modulation
}

// NewModulator builds a Modulator of the given kind. ifFreq/sampleRate
// set the up-conversion carrier (unused for Baseband); vsbTaps, if
// non-empty, are pre-computed VSB shaping coefficients (see
// dsp.RaisedCosineVSB) applied before modulation in AMVSB mode;
// deviation is FMWide's peak frequency deviation in Hz; gainDB is the
// configured output gain.
func NewModulator(kind Type, ifFreq, sampleRate float64, vsbTaps []float64, deviationHz, gainDB float64) *Modulator {
	m := &Modulator{
		kind: kind,
		gain: math.Pow(10, gainDB/20),
	}
	switch kind {
	case AMVSB, FMWide, SSB:
		m.carrier = dsp.NewNCO(ifFreq, sampleRate, 0)
	}
	if kind == AMVSB && len(vsbTaps) > 0 {
		m.vsb = dsp.NewFIR(vsbTaps)
	}
	if kind == FMWide {
		m.deviation = 2 * math.Pi * deviationHz / sampleRate
	}
	return m
}

// Modulate consumes real baseband samples and returns interleaved (I, Q)
// float64 pairs, gain-scaled but not yet bit-depth converted.
func (m *Modulator) Modulate(in []float64) []float64 {
	out := make([]float64, 0, len(in)*2)
	switch m.kind {
	case Baseband:
		for _, x := range in {
			out = append(out, x*m.gain, 0)
		}
	case AMVSB:
		for _, x := range in {
			v := x
			if m.vsb != nil {
				v = m.vsb.Filter(x)
			}
			sin, cos := m.carrier.SinCos()
			out = append(out, v*cos*m.gain, v*sin*m.gain)
		}
	case FMWide:
		for _, x := range in {
			m.carrier.Nudge(x * m.deviation)
			sin, cos := m.carrier.SinCos()
			out = append(out, cos*m.gain, sin*m.gain)
		}
	case SSB:
		q := dsp.Hilbert(in)
		for i, x := range in {
			sin, cos := m.carrier.SinCos()
			out = append(out, (x*cos-q[i]*sin)*m.gain, (x*sin+q[i]*cos)*m.gain)
		}
	}
	return out
}

// ToInt16 converts interleaved IQ samples, expected roughly in [-1, 1],
// to interleaved signed 16-bit samples.
func ToInt16(iq []float64) []int16 {
	out := make([]int16, len(iq))
	for i, v := range iq {
		out[i] = clampInt16(v * 32767)
	}
	return out
}

// ToInt8 converts interleaved IQ samples to interleaved signed 8-bit
// samples, the HackRF/fl2k native wire format (see internal/sink).
func ToInt8(iq []float64) []int8 {
	out := make([]int8, len(iq))
	for i, v := range iq {
		out[i] = clampInt8(v * 127)
	}
	return out
}

func clampInt16(v float64) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

func clampInt8(v float64) int8 {
	if v > 127 {
		return 127
	}
	if v < -128 {
		return -128
	}
	return int8(v)
}
