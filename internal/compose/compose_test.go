package compose

import (
	"testing"
	"time"

	"github.com/SarahRoseLives/hacktv/internal/mode"
	"github.com/SarahRoseLives/hacktv/internal/scramble"
	"github.com/SarahRoseLives/hacktv/internal/scramble/syster"
	"github.com/SarahRoseLives/hacktv/internal/subtitle"
	"github.com/SarahRoseLives/hacktv/internal/teletext"
)

func TestPullProducesExactSampleCount(t *testing.T) {
	desc := mode.NTSCM()
	c := New(desc, nil, nil, scramble.None{}, nil, nil)

	n := desc.SamplesPerLine*3 + 17
	out := c.Pull(n)
	if len(out) != n {
		t.Fatalf("Pull(%d) returned %d samples", n, len(out))
	}
}

// TestFirstSyncTipAtLineBoundary checks the sync alignment property:
// the first sample of every generated line sits at its
// horizontal sync level, so line boundaries fall at exact multiples of
// SamplesPerLine in the pulled stream. Audio subcarriers are stripped so
// the sound carrier's contribution doesn't ride on top of the sync tip.
func TestFirstSyncTipAtLineBoundary(t *testing.T) {
	desc := mode.PALI()
	desc.AudioSubcarriers = nil
	c := New(desc, nil, nil, scramble.None{}, nil, nil)

	out := c.Pull(desc.SamplesPerLine * 4)
	for line := 0; line < 4; line++ {
		idx := line * desc.SamplesPerLine
		if out[idx] != desc.SyncLevelIRE {
			t.Fatalf("line %d: sample[0] = %v, want sync level %v", line, out[idx], desc.SyncLevelIRE)
		}
	}
}

func TestComposerAdvancesAcrossFields(t *testing.T) {
	desc := mode.PALI()
	c := New(desc, nil, nil, scramble.None{}, nil, nil)

	total := int64(desc.SamplesPerLine) * int64(desc.LinesPerFrame) * 2
	c.Pull(int(total))
	if c.framesConsumed < 1 {
		t.Fatalf("framesConsumed = %d after two full frames worth of samples, want >= 1", c.framesConsumed)
	}
}

func TestMACModeHasNoChromaSubcarrier(t *testing.T) {
	desc := mode.MACD()
	c := New(desc, nil, nil, scramble.None{}, nil, nil)
	if c.chroma != nil {
		t.Fatal("mac-d composer should not allocate a chroma NCO")
	}
	// Should still produce samples without panicking despite no video/audio
	// buffers wired in.
	out := c.Pull(desc.SamplesPerLine * 2)
	if len(out) != desc.SamplesPerLine*2 {
		t.Fatalf("Pull returned %d samples, want %d", len(out), desc.SamplesPerLine*2)
	}
}

func TestTxSubtitlesReachTeletextPage(t *testing.T) {
	desc := mode.PALI()
	store := teletext.NewPageStore()
	c := New(desc, nil, nil, scramble.None{}, store, nil)
	c.SetTxSubtitles(subtitle.NewList([]subtitle.Cue{
		{Start: 0, End: 10 * time.Second, Text: "ON AIR"},
	}))

	c.Pull(desc.SamplesPerLine)
	page, ok := store.Lookup(0x888, 0)
	if !ok {
		t.Fatal("subtitle page not created after first frame line")
	}
	if got := string(page.Lines[20][:6]); got != "ON AIR" {
		t.Fatalf("row 20 = %q, want \"ON AIR\"", got)
	}
}

func TestSysterReseedsPerField(t *testing.T) {
	desc := mode.PALI()
	desc.AudioSubcarriers = nil
	e := syster.NewEngine()
	c := New(desc, nil, nil, e, nil, nil)

	c.Pull(desc.SamplesPerLine) // first line of the first field reseeds

	identity := true
	for i := 0; i < desc.ActiveLines/2; i++ {
		if e.LineSource(i) != i {
			identity = false
			break
		}
	}
	if identity {
		t.Fatal("composing a field should have reseeded the permutation away from identity")
	}
}

func TestTeletextRendersInsideVerticalInterval(t *testing.T) {
	desc := mode.PALI()
	desc.AudioSubcarriers = nil
	store := teletext.NewPageStore()
	store.SetSubtitleText("X") // puts one page into rotation
	c := New(desc, nil, nil, scramble.None{}, store, nil)

	// Line 7 is the first teletext assignment; its clock run-in must
	// reach white level even though it sits inside the vertical interval.
	out := c.Pull(desc.SamplesPerLine * 7)
	line7 := out[desc.SamplesPerLine*6:]
	var white bool
	for _, v := range line7[desc.ActiveStartSamples:] {
		if v == desc.WhiteLevelIRE {
			white = true
			break
		}
	}
	if !white {
		t.Fatal("teletext line 7 carried no data bits")
	}
	if line7[0] != desc.SyncLevelIRE {
		t.Fatal("teletext line must keep an ordinary horizontal sync")
	}
}

func TestSECAMModeRuns(t *testing.T) {
	desc := mode.SECAML()
	c := New(desc, nil, nil, scramble.None{}, nil, nil)
	out := c.Pull(desc.SamplesPerLine * 2)
	if len(out) != desc.SamplesPerLine*2 {
		t.Fatalf("Pull returned %d samples, want %d", len(out), desc.SamplesPerLine*2)
	}
}
