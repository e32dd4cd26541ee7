// Package subtitle holds an ordered list of timed caption cues and the
// monotonic cursor the teletext and overlay paths pull from.
package subtitle

import "time"

// Cue is one subtitle entry, active from Start until End.
type Cue struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// List is an ordered, non-decreasing-by-Start sequence of Cues with a
// cursor that only moves forward, matching the pipeline's monotonic PTS
// assumption: the composer never needs to seek subtitles backwards.
type List struct {
	cues   []Cue
	cursor int
}

// NewList builds a List from cues, sorted by Start time.
func NewList(cues []Cue) *List {
	sorted := append([]Cue(nil), cues...)
	insertionSort(sorted)
	return &List{cues: sorted}
}

func insertionSort(c []Cue) {
	for i := 1; i < len(c); i++ {
		for j := i; j > 0 && c[j].Start < c[j-1].Start; j-- {
			c[j], c[j-1] = c[j-1], c[j]
		}
	}
}

// Active returns the cue text active at pts, advancing the cursor past
// any cues whose End has already elapsed. Returns ("", false) when no
// cue covers pts.
func (l *List) Active(pts time.Duration) (text string, ok bool) {
	for l.cursor < len(l.cues) && l.cues[l.cursor].End <= pts {
		l.cursor++
	}
	if l.cursor >= len(l.cues) {
		return "", false
	}
	cue := l.cues[l.cursor]
	if pts < cue.Start {
		return "", false
	}
	return cue.Text, true
}

// Reset rewinds the cursor to the start, used when looping a source.
func (l *List) Reset() { l.cursor = 0 }
