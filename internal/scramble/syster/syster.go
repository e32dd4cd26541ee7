// Package syster implements Nagravision Syster line-permutation
// scrambling: per field, a 287-entry permutation derived from a 60-bit
// seed redirects which source line each output line actually carries.
//
// The permutation tables real Syster hardware shipped have never been
// fully recovered; rather than guess at them, this engine derives its
// permutation with a linear congruential shuffle seeded directly from
// the 60-bit value. A Fisher-Yates shuffle driven by an LCG keeps the
// permutation a true bijection (every line moved exactly once, which is
// what a receiver's inverse permutation needs).
package syster

const permutationSize = 287

// Engine implements scramble.Scrambler for Nagravision Syster.
type Engine struct {
	perm      [permutationSize]int
	fieldSeed uint64
}

// NewEngine creates a Syster engine with no permutation computed yet;
// call Reseed once per field.
func NewEngine() *Engine {
	e := &Engine{}
	for i := range e.perm {
		e.perm[i] = i
	}
	return e
}

// Reseed derives a fresh per-field permutation from a 60-bit seed
// (published in a VBI data line) via an LCG-driven Fisher-Yates shuffle.
func (e *Engine) Reseed(seed60 uint64) {
	e.fieldSeed = seed60 & 0x0FFFFFFFFFFFFFFF
	for i := range e.perm {
		e.perm[i] = i
	}
	state := e.fieldSeed | 1 // LCG requires an odd increment-compatible seed
	for i := permutationSize - 1; i > 0; i-- {
		state = state*6364136223846793005 + 1442695040888963407
		j := int(state % uint64(i+1))
		e.perm[i], e.perm[j] = e.perm[j], e.perm[i]
	}
}

// Prepare is a no-op: Syster's permutation is fixed for the whole field
// and only changes on Reseed, unlike Videocrypt's per-line cut point.
func (e *Engine) Prepare(lineIndex int) {}

// Apply is intentionally unused by Syster's redirection model: unlike
// Videocrypt's in-place cut-and-rotate, Syster redirects which source
// line is fetched for a given output line before Apply would run, so it
// is a no-op here. LineSource is what the composer actually calls.
func (e *Engine) Apply(line []float64, activeStart, activeEnd int) {}

// LineSource returns which source line (within the current field, 0..286
// for the lines Syster's permutation covers) should be fetched to produce
// output line outputLine.
func (e *Engine) LineSource(outputLine int) int {
	if outputLine < 0 || outputLine >= permutationSize {
		return outputLine
	}
	return e.perm[outputLine]
}
