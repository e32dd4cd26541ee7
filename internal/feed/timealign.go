package feed

import (
	"github.com/SarahRoseLives/hacktv/internal/rational"
)

// TimeAligner rescales an incoming stream of source-timebase presentation
// timestamps onto the TV mode's frame-tick grid, emitting exactly one
// video frame per TV-frame period: a source frame that lands on or
// before a tick already emitted is dropped, and any gap between the
// previous emitted tick and the next frame's tick is filled by repeating
// the last emitted frame.
//
// Worked example: five source frames whose PTS rescale to ticks
// 0, 1, 2, 2, 4 produce output ticks 0, 1, 2, 3(repeat), 4 — the second
// frame landing on tick 2 is dropped since tick 2 was already emitted,
// and the jump from 2 to 4 fills tick 3 with a repeat.
type TimeAligner struct {
	sourceTicksPerSecond rational.Rational // rate of the incoming PTS units
	frameRate            rational.Rational // output frame rate, frames per second

	haveLast bool
	lastTick int64
}

// NewTimeAligner builds a TimeAligner converting PTS counted in units of
// 1/sourceTicksPerSecond seconds onto a grid of 1/frameRate-second ticks.
func NewTimeAligner(frameRate, sourceTicksPerSecond rational.Rational) *TimeAligner {
	return &TimeAligner{sourceTicksPerSecond: sourceTicksPerSecond, frameRate: frameRate}
}

// tick converts a raw source PTS into a TV-frame tick index: the PTS's
// elapsed seconds (pts/sourceTicksPerSecond) times the frame rate.
func (a *TimeAligner) tick(pts int64) int64 {
	return rational.Rescale(pts, a.frameRate, a.sourceTicksPerSecond)
}

// Action is what the pipeline should do with a given source frame once
// time-aligned.
type Action int

const (
	// ActionDrop means the frame must not be forwarded; its tick has
	// already been emitted.
	ActionDrop Action = iota
	// ActionEmit means the frame should be forwarded as the new front
	// buffer contents, preceded by the returned number of repeat ticks
	// of the previous frame.
	ActionEmit
)

// Align maps one source frame's PTS to an Action plus the number of
// repeat ticks of the prior frame that must be emitted first to keep the
// output tick sequence contiguous.
func (a *TimeAligner) Align(pts int64) (act Action, repeats int64) {
	t := a.tick(pts)
	if !a.haveLast {
		a.haveLast = true
		a.lastTick = t
		return ActionEmit, 0
	}
	if t <= a.lastTick {
		return ActionDrop, 0
	}
	repeats = t - a.lastTick - 1
	a.lastTick = t
	return ActionEmit, repeats
}

// Reset clears the aligner's state, used when a new source begins.
func (a *TimeAligner) Reset() {
	a.haveLast = false
	a.lastTick = 0
}
