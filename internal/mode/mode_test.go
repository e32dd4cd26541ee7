package mode

import (
	"testing"

	"github.com/SarahRoseLives/hacktv/internal/rational"
)

func TestPALTiming(t *testing.T) {
	d := PALI()
	if d.SamplesPerLine != 1296 {
		t.Fatalf("samples per line = %d, want 1296", d.SamplesPerLine)
	}
	if d.LinesPerFrame != 625 {
		t.Fatalf("lines per frame = %d, want 625", d.LinesPerFrame)
	}
	if d.SamplesPerFrame() != 810000 {
		t.Fatalf("samples per frame = %d, want 810000", d.SamplesPerFrame())
	}
}

func TestCatalogueLookup(t *testing.T) {
	for _, name := range []string{"pal-i", "pal-b", "ntsc-m", "secam-l", "mac-d", "mac-d2"} {
		d, ok := Lookup(name)
		if !ok {
			t.Fatalf("mode %q not found", name)
		}
		if d.SamplesPerLine <= 0 {
			t.Fatalf("mode %q has non-positive samples per line", name)
		}
	}
	if _, ok := Lookup("nonexistent"); ok {
		t.Fatal("expected lookup of unknown mode to fail")
	}
}

func TestLookupAtRederivesTiming(t *testing.T) {
	// Double PAL-I's native 20.25 MHz; every per-line count doubles.
	d, err := LookupAt("pal-i", rational.New(40_500_000, 1))
	if err != nil {
		t.Fatal(err)
	}
	if d.SamplesPerLine != 2592 {
		t.Fatalf("samples per line = %d, want 2592", d.SamplesPerLine)
	}
	native := PALI()
	if d.HSyncSamples != 2*native.HSyncSamples {
		t.Fatalf("hsync = %d, want %d", d.HSyncSamples, 2*native.HSyncSamples)
	}
}

func TestLookupAtRejectsFractionalLine(t *testing.T) {
	// 20 MHz / (25 * 625) = 1280 exactly, fine; 20 MHz + 1 Hz is not.
	if _, err := LookupAt("pal-i", rational.New(20_000_001, 1)); err == nil {
		t.Fatal("expected fractional samples-per-line rate to be rejected")
	}
	if _, err := LookupAt("no-such-mode", rational.New(20_000_000, 1)); err == nil {
		t.Fatal("expected unknown mode to be rejected")
	}
}

func TestSampleRateExactnessAllModes(t *testing.T) {
	for name, ctor := range Catalogue() {
		d := ctor()
		samplesPerSecond := d.SamplesPerFrame() * int64(d.FrameRate.Num) / int64(d.FrameRate.Den)
		expected := d.SampleRate.Float64()
		got := float64(samplesPerSecond)
		diff := got - expected
		if diff < 0 {
			diff = -diff
		}
		// Allow drift equivalent to one sample per hour, scaled down to a
		// single-frame check.
		tolerance := expected / 3600.0
		if diff > tolerance {
			t.Errorf("mode %s: samples/sec = %v, want ~%v", name, got, expected)
		}
	}
}
