package sound

// A2Stereo implements Zweiton/A2 dual-carrier FM stereo sound: two
// independently FM-modulated carriers (primary mono-compatible, secondary
// carrying the second channel or a dual-mono feed) plus a low-level pilot
// tone at 54.6875kHz that signals stereo/dual-mono to receivers, per the
// German A2 broadcast standard.
type A2Stereo struct {
	primary, secondary *FMSubcarrier
	pilot              *FMSubcarrier
}

// pilotFreq is the A2 standard's fixed identification-signal frequency.
const pilotFreq = 54687.5

// NewA2Stereo creates an A2 dual-FM sound encoder with its two audio
// carriers at the given centre frequencies, sharing sampleRate and a
// nominal peak deviation.
func NewA2Stereo(primaryHz, secondaryHz, deviation, sampleRate float64) *A2Stereo {
	return &A2Stereo{
		primary:   NewFMSubcarrier(primaryHz, deviation, sampleRate),
		secondary: NewFMSubcarrier(secondaryHz, deviation, sampleRate),
		pilot:     NewFMSubcarrier(pilotFreq, 0, sampleRate),
	}
}

// Modulate fills out with the sum of the two FM carriers plus the pilot
// tone at the given relative level (typically a few percent of full
// deviation), given left/right channels of equal length.
func (a *A2Stereo) Modulate(left, right []float64, pilotLevel float64, out []float64) {
	l := make([]float64, len(left))
	r := make([]float64, len(right))
	a.primary.Modulate(left, l)
	a.secondary.Modulate(right, r)
	p := make([]float64, len(left))
	zero := make([]float64, len(left))
	a.pilot.Modulate(zero, p)
	for i := range out {
		out[i] = l[i] + r[i] + pilotLevel*p[i]
	}
}
