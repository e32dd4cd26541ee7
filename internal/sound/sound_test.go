package sound

import (
	"math"
	"testing"
)

func TestFMSubcarrierUnitAmplitude(t *testing.T) {
	fm := NewFMSubcarrier(6000, 50000, 1000000)
	in := make([]float64, 100)
	for i := range in {
		in[i] = math.Sin(2 * math.Pi * float64(i) / 20)
	}
	out := make([]float64, len(in))
	fm.Modulate(in, out)
	for i, v := range out {
		if v < -1.0001 || v > 1.0001 {
			t.Fatalf("sample %d out of range: %v", i, v)
		}
	}
}

func TestNICAMScramblerIsInvolution(t *testing.T) {
	n1 := NewNICAM()
	n2 := NewNICAM()
	bits := make([]bool, 64)
	for i := range bits {
		bits[i] = i%3 == 0
	}
	original := append([]bool(nil), bits...)

	n1.scramble(bits)
	n2.scramble(bits)

	for i := range bits {
		if bits[i] != original[i] {
			t.Fatalf("scrambling twice with fresh state did not recover original at %d", i)
		}
	}
}

func TestNICAMEncodeFrameSymbolCount(t *testing.T) {
	n := NewNICAM()
	samples := make([]int16, 64)
	f := n.EncodeFrame(samples, true)
	wantSymbols := (64 * 14) / 2
	if len(f.Symbols) != wantSymbols {
		t.Fatalf("symbol count = %d, want %d", len(f.Symbols), wantSymbols)
	}
	if f.FAW != frameAlignWord {
		t.Fatalf("FAW = %x, want %x", f.FAW, frameAlignWord)
	}
}

func TestDQPSKSymbolUnitVectors(t *testing.T) {
	for _, b0 := range []bool{false, true} {
		for _, b1 := range []bool{false, true} {
			cos, sin := dqpskSymbol(b0, b1)
			mag := cos*cos + sin*sin
			if math.Abs(mag-1) > 1e-9 {
				t.Fatalf("dqpskSymbol(%v,%v) not unit magnitude: %v", b0, b1, mag)
			}
		}
	}
}

func TestMACDuobinaryAlternatesMarks(t *testing.T) {
	m := NewMACDuobinary()
	bits := []bool{true, false, true, true, false}
	out := m.Encode(bits)
	if out[0] == 0 || out[0] != -out[2] {
		// Two marks separated by a space should alternate sign per AMI.
		t.Fatalf("expected alternate mark inversion, got %v then %v", out[0], out[2])
	}
	if out[1] != 0 {
		t.Fatalf("space bit should encode to 0, got %v", out[1])
	}
}

func TestA2StereoBounded(t *testing.T) {
	a := NewA2Stereo(5500000, 5742000, 50000, 1e7)
	n := 50
	left := make([]float64, n)
	right := make([]float64, n)
	for i := range left {
		left[i] = math.Sin(2 * math.Pi * float64(i) / 10)
		right[i] = math.Cos(2 * math.Pi * float64(i) / 10)
	}
	out := make([]float64, n)
	a.Modulate(left, right, 0.05, out)
	for i, v := range out {
		if v < -2.1 || v > 2.1 {
			t.Fatalf("sample %d out of expected bound: %v", i, v)
		}
	}
}
