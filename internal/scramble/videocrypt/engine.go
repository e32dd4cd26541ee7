package videocrypt

// Engine implements the scramble.Scrambler interface for Videocrypt I/II:
// Prepare advances the per-line cut point from the current control
// block's cut table, Apply cuts the line at column
// table[line_index mod 256] and swaps the halves.
type Engine struct {
	Block      *ControlBlock
	cutColumn  int
	lastRotate int
}

// NewEngine wraps a ControlBlock in a line-scrambling Engine.
func NewEngine(cb *ControlBlock) *Engine {
	return &Engine{Block: cb}
}

// Prepare resolves the cut column for the upcoming line, advances the
// block phase once per scrambled line group (every 8 lines), and rotates
// the control word once per 64 scrambled lines.
func (e *Engine) Prepare(lineIndex int) {
	if lineIndex > 0 && lineIndex%64 == 0 && lineIndex != e.lastRotate {
		e.Block.RotateCW()
		e.lastRotate = lineIndex
	}
	e.cutColumn = e.Block.CutTableEntry(lineIndex)
	if lineIndex%8 == 0 {
		e.Block.AdvancePhase()
	}
}

// Apply cuts the active-video region at the prepared column and swaps
// the two halves in place, the Videocrypt line-rotation transform.
func (e *Engine) Apply(line []float64, activeStart, activeEnd int) {
	width := activeEnd - activeStart
	if width <= 0 {
		return
	}
	c := e.cutColumn % width
	if c == 0 {
		return
	}
	active := line[activeStart:activeEnd]
	rotated := make([]float64, width)
	copy(rotated, active[c:])
	copy(rotated[width-c:], active[:c])
	copy(active, rotated)
}
