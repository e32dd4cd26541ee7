package teletext

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHamming84RoundTrip(t *testing.T) {
	for n := byte(0); n < 16; n++ {
		enc := Hamming84Encode(n)
		got, ok := Hamming84Decode(enc)
		if !ok {
			t.Fatalf("nibble %x: decode reported error on clean codeword", n)
		}
		if got != n {
			t.Fatalf("nibble %x round-tripped to %x", n, got)
		}
	}
}

func TestHamming84SingleBitFlipDetected(t *testing.T) {
	for n := byte(0); n < 16; n++ {
		enc := Hamming84Encode(n)
		for bit := 0; bit < 8; bit++ {
			corrupt := enc ^ (1 << uint(bit))
			if _, ok := Hamming84Decode(corrupt); ok {
				if corrupt == enc {
					continue
				}
				// A flipped bit should not silently decode to the same
				// nibble as pass unless it coincidentally forms another
				// valid codeword, which Hamming 8/4's minimum distance of
				// 4 rules out for single-bit errors.
				t.Fatalf("nibble %x bit %d: single-bit error not detected (got codeword %x)", n, bit, corrupt)
			}
		}
	}
}

func TestPacketBytesHeader(t *testing.T) {
	p := NewTextPacket(1, 0, "HELLO")
	b := p.Bytes()
	if b[0] != cri || b[1] != cri || b[2] != framingCode {
		t.Fatalf("packet header = % x, want CRI,CRI,framing", b[:3])
	}
	if len(b) != 2+1+2+packetPayload {
		t.Fatalf("packet length = %d, want %d", len(b), 2+1+2+packetPayload)
	}
	payload := b[5:]
	for i, c := range "HELLO" {
		if payload[i]&0x7F != byte(c) {
			t.Fatalf("payload byte %d = %x, want ASCII %q", i, payload[i], c)
		}
	}
}

func TestOddParity(t *testing.T) {
	for b := byte(0); b < 0x80; b++ {
		p := oddParity(b)
		if popcount(p)%2 != 1 {
			t.Fatalf("oddParity(%x) = %x has even popcount", b, p)
		}
	}
}

func TestPageStoreLoadDir(t *testing.T) {
	dir := t.TempDir()
	content := "PN,100\r\nSP,0\r\nOL,0,HELLO WORLD\r\n"
	if err := os.WriteFile(filepath.Join(dir, "p100.tti"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewPageStore()
	if err := s.LoadDir(dir); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	page, ok := s.Lookup(0x100, 0)
	if !ok {
		t.Fatal("page 0x100/0 not found")
	}
	got := string(page.Lines[0][:11])
	if got != "HELLO WORLD" {
		t.Fatalf("row 0 = %q, want %q", got, "HELLO WORLD")
	}
}

func TestPageStoreNextRowPacketCycles(t *testing.T) {
	s := NewPageStore()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "p100.tti"), []byte("PN,100\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.LoadDir(dir); err != nil {
		t.Fatal(err)
	}
	seen := map[int]bool{}
	for i := 0; i < 24; i++ {
		p, ok := s.NextRowPacket()
		if !ok {
			t.Fatal("expected a packet")
		}
		seen[p.Row] = true
	}
	if len(seen) != 24 {
		t.Fatalf("saw %d distinct rows, want 24", len(seen))
	}
}

func TestPageStoreSetSubtitleText(t *testing.T) {
	s := NewPageStore()
	s.SetSubtitleText("HELLO")
	page, ok := s.Lookup(subtitlePage, 0)
	if !ok {
		t.Fatal("subtitle page not created")
	}
	if got := string(page.Lines[20][:5]); got != "HELLO" {
		t.Fatalf("row 20 = %q, want HELLO", got)
	}

	s.SetSubtitleText("")
	if got := string(page.Lines[20][:5]); got != "     " {
		t.Fatalf("row 20 after clear = %q, want blanks", got)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want subtitle page to stay in rotation", s.Len())
	}
}

func TestPageStoreSubtitleWraps(t *testing.T) {
	s := NewPageStore()
	long := strings.Repeat("WORD ", 12) // 60 chars, must wrap at 40
	s.SetSubtitleText(long)
	page, _ := s.Lookup(subtitlePage, 0)
	if page.Lines[21][0] == ' ' {
		t.Fatal("expected wrapped text on row 21")
	}
}

func TestEncodeWSSDistinctCodes(t *testing.T) {
	a := EncodeWSS(WSS4x3)
	b := EncodeWSS(WSS16x9)
	if len(a) != 14 || len(b) != 14 {
		t.Fatalf("expected 14-bit WSS words")
	}
	equal := true
	for i := range a {
		if a[i] != b[i] {
			equal = false
		}
	}
	if equal {
		t.Fatal("4:3 and 16:9 WSS codes should differ")
	}
}

func TestEncodeCCText(t *testing.T) {
	words := EncodeCCText("HI!")
	if len(words) != 2 {
		t.Fatalf("word count = %d, want 2", len(words))
	}
	if words[0][0]&0x7F != 'H' || words[0][1]&0x7F != 'I' {
		t.Fatalf("first word mismatch: %v", words[0])
	}
	if words[1][0]&0x7F != '!' || words[1][1]&0x7F != 0 {
		t.Fatalf("second word mismatch: %v", words[1])
	}
}
