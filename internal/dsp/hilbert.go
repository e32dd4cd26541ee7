package dsp

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// Hilbert computes the discrete Hilbert transform of a real signal block,
// used by the IQ modulator's SSB path to derive the quadrature component
// that cancels one sideband. Implemented via gonum's FFT (dsp/fourier)
// rather than a hand-rolled DFT.
func Hilbert(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return nil
	}

	seq := make([]complex128, n)
	for i, v := range x {
		seq[i] = complex(v, 0)
	}

	fft := fourier.NewCmplxFFT(n)
	spectrum := fft.Coefficients(nil, seq)

	// Analytic-signal construction: zero the negative frequencies, double
	// the positive ones, leave DC untouched and zero Nyquist (for even n).
	half := n / 2
	for k := 1; k < half; k++ {
		spectrum[k] *= 2
	}
	for k := half + 1; k < n; k++ {
		spectrum[k] = 0
	}
	if n%2 == 0 {
		spectrum[half] = 0
	}

	analytic := fft.Sequence(nil, spectrum)
	out := make([]float64, n)
	for i, v := range analytic {
		out[i] = imag(v) / float64(n)
	}
	return out
}
