package subtitle

import (
	"testing"
	"time"
)

func TestListActiveAdvancesCursor(t *testing.T) {
	l := NewList([]Cue{
		{Start: 0, End: 2 * time.Second, Text: "one"},
		{Start: 3 * time.Second, End: 5 * time.Second, Text: "two"},
	})

	if text, ok := l.Active(time.Second); !ok || text != "one" {
		t.Fatalf("Active(1s) = (%q, %v), want (one, true)", text, ok)
	}
	if _, ok := l.Active(2500 * time.Millisecond); ok {
		t.Fatal("expected gap between cues to report no active cue")
	}
	if text, ok := l.Active(4 * time.Second); !ok || text != "two" {
		t.Fatalf("Active(4s) = (%q, %v), want (two, true)", text, ok)
	}
	if _, ok := l.Active(10 * time.Second); ok {
		t.Fatal("expected no active cue past the last one")
	}
}

func TestListUnsortedInputIsSorted(t *testing.T) {
	l := NewList([]Cue{
		{Start: 5 * time.Second, End: 6 * time.Second, Text: "late"},
		{Start: 0, End: 1 * time.Second, Text: "early"},
	})
	text, ok := l.Active(200 * time.Millisecond)
	if !ok || text != "early" {
		t.Fatalf("Active(200ms) = (%q, %v), want (early, true)", text, ok)
	}
}
