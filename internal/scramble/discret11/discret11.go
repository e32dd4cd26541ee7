// Package discret11 implements Discret 11 scrambling: a 2-bit LFSR
// selects one of three fixed horizontal delays to apply per line.
package discret11

// delayNanoseconds holds the three horizontal shifts Discret 11 selects
// between (0, 902ns, 1804ns), converted to samples per mode at Prepare
// time.
var delayNanoseconds = [3]int64{0, 902, 1804}

// Engine implements scramble.Scrambler for Discret 11.
type Engine struct {
	lfsr        uint8 // 2-bit state
	sampleRate  float64
	delaySample int
}

// NewEngine creates a Discret 11 engine for the given sample rate, LFSR
// seeded to 1 (any nonzero 2-bit state avoids the all-zero lock-up).
func NewEngine(sampleRate float64) *Engine {
	return &Engine{lfsr: 1, sampleRate: sampleRate}
}

// step advances the 2-bit LFSR by one line using taps at bits 0 and 1
// (the two possible tap positions for a 2-bit sequence), producing a
// 2-bit value selecting one of the three delays.
func (e *Engine) step() uint8 {
	bit := (e.lfsr ^ (e.lfsr >> 1)) & 1
	e.lfsr = ((e.lfsr << 1) | bit) & 0x3
	if e.lfsr == 0 {
		e.lfsr = 1
	}
	return e.lfsr % 3
}

// Prepare advances the LFSR and resolves the sample delay for the
// upcoming line.
func (e *Engine) Prepare(lineIndex int) {
	sel := e.step()
	ns := delayNanoseconds[sel]
	e.delaySample = int(float64(ns) * 1e-9 * e.sampleRate)
}

// Apply shifts the active-video region right by the prepared delay:
// line[x] = active[x-delay], with positions before the delay held at the
// first active sample.
func (e *Engine) Apply(line []float64, activeStart, activeEnd int) {
	if e.delaySample <= 0 {
		return
	}
	active := line[activeStart:activeEnd]
	shifted := make([]float64, len(active))
	for x := range shifted {
		src := x - e.delaySample
		if src < 0 {
			src = 0
		}
		shifted[x] = active[src]
	}
	copy(active, shifted)
}
