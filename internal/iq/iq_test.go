package iq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasebandModulatePassesThroughWithZeroQ(t *testing.T) {
	m := NewModulator(Baseband, 0, 1_000_000, nil, 0, 0)
	out := m.Modulate([]float64{0.5, -0.25})
	assert.Equal(t, []float64{0.5, 0, -0.25, 0}, out)
}

func TestAMVSBModulateProducesNonZeroQuadrature(t *testing.T) {
	m := NewModulator(AMVSB, 100_000, 1_000_000, nil, 0, 0)
	out := m.Modulate([]float64{1, 1, 1, 1, 1, 1, 1, 1})
	var anyQ bool
	for i := 1; i < len(out); i += 2 {
		if out[i] != 0 {
			anyQ = true
		}
	}
	assert.True(t, anyQ, "AM-VSB carrier should rotate through nonzero Q")
}

func TestToInt8ClampsRange(t *testing.T) {
	out := ToInt8([]float64{2.0, -2.0, 0.5})
	assert.Equal(t, []int8{127, -128, 63}, out)
}

func TestToInt16ClampsRange(t *testing.T) {
	out := ToInt16([]float64{2.0, -2.0, 0.0})
	assert.Equal(t, []int16{32767, -32768, 0}, out)
}
