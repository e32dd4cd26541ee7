package sound

// MACDuobinary encodes digital sound/data for the mac-d/mac-d2 catalogue
// entries as a duobinary (amplitude in {-1, 0, +1}) line code: MAC's
// digital multiplex carries companded PCM audio this way rather than as
// an FM subcarrier, unlike PAL/NTSC/SECAM's analogue sound systems.
type MACDuobinary struct {
	lastLevel int8
}

// NewMACDuobinary creates a duobinary encoder with its running level
// reset to 0.
func NewMACDuobinary() *MACDuobinary {
	return &MACDuobinary{}
}

// Encode duobinary-codes one bit per input bit: a 1 bit flips the output
// level between -1 and +1 (alternate mark inversion), a 0 bit outputs 0
// and leaves the running level alone, so the next 1 flips from the last
// non-zero level -- a three-level {-1, 0, +1} line code.
func (m *MACDuobinary) Encode(bits []bool) []float64 {
	out := make([]float64, len(bits))
	level := m.lastLevel
	if level == 0 {
		level = 1
	}
	for i, b := range bits {
		if !b {
			out[i] = 0
			continue
		}
		level = -level
		out[i] = float64(level)
	}
	m.lastLevel = level
	return out
}
