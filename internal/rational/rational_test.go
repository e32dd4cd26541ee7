package rational

import "testing"

func TestReduction(t *testing.T) {
	r := New(4, 8)
	if r.Num != 1 || r.Den != 2 {
		t.Fatalf("got %d/%d, want 1/2", r.Num, r.Den)
	}
}

func TestNegativeDenominator(t *testing.T) {
	r := New(3, -4)
	if r.Num != -3 || r.Den != 4 {
		t.Fatalf("got %d/%d, want -3/4", r.Num, r.Den)
	}
}

func TestArithmetic(t *testing.T) {
	a := New(1, 3)
	b := New(1, 6)
	if sum := a.Add(b); !sum.Equal(New(1, 2)) {
		t.Fatalf("1/3+1/6 = %v, want 1/2", sum)
	}
	if diff := a.Sub(b); !diff.Equal(New(1, 6)) {
		t.Fatalf("1/3-1/6 = %v, want 1/6", diff)
	}
	if prod := a.Mul(b); !prod.Equal(New(1, 18)) {
		t.Fatalf("1/3*1/6 = %v, want 1/18", prod)
	}
	if quot := a.Div(b); !quot.Equal(New(2, 1)) {
		t.Fatalf("1/3 / 1/6 = %v, want 2", quot)
	}
}

func TestPALSampleRateExactness(t *testing.T) {
	// PAL System I at a 20.25 MHz sample rate.
	sampleRate := New(20_250_000, 1)
	frameRate := New(25, 1)
	linesPerFrame := int64(625)

	lineDuration := frameRate.Mul(New(linesPerFrame, 1)).Inv()
	samplesPerLine := lineDuration.Mul(sampleRate).Floor()
	if samplesPerLine != 1296 {
		t.Fatalf("samples per line = %d, want 1296", samplesPerLine)
	}
	samplesPerFrame := samplesPerLine * linesPerFrame
	if samplesPerFrame != 810000 {
		t.Fatalf("samples per frame = %d, want 810000", samplesPerFrame)
	}
	samplesPerSecond := samplesPerFrame * 25
	if samplesPerSecond != 20_250_000 {
		t.Fatalf("samples per second = %d, want 20250000", samplesPerSecond)
	}
}

func TestRescale(t *testing.T) {
	// 1 second in a 90kHz timebase rescaled to a 1kHz timebase.
	got := Rescale(90000, New(1, 90000), New(1, 1000))
	if got != 1000 {
		t.Fatalf("rescale = %d, want 1000", got)
	}
}
