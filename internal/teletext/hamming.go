// Package teletext implements the World System Teletext (WST) VBI line
// encoder: Hamming 8/4 protected control bytes, clock-run-in/framing-code
// packet headers, a page store loaded from EP1-format `.tti` files, and
// the WSS/CC sibling VBI line encoders.
package teletext

// Hamming84Encode protects a 4-bit nibble with WST's Hamming 8/4 code
// (ETS 300 706 annex A): three Hamming parity bits covering overlapping
// subsets of the data bits, plus an eighth overall-parity bit giving
// single-error-correction/double-error-detection. Bit 0 is the first bit
// transmitted (LSB).
func Hamming84Encode(nibble byte) byte {
	d1 := (nibble >> 0) & 1
	d2 := (nibble >> 1) & 1
	d3 := (nibble >> 2) & 1
	d4 := (nibble >> 3) & 1

	p1 := d1 ^ d2 ^ d4
	p2 := d1 ^ d3 ^ d4
	p3 := d2 ^ d3 ^ d4

	b := p1 | p2<<1 | d1<<2 | p3<<3 | d2<<4 | d3<<5 | d4<<6
	// Overall parity bit makes the whole byte even-parity.
	parity := popcount(b) & 1
	b |= parity << 7
	return b
}

// Hamming84Decode recovers the original nibble from a Hamming 8/4 byte.
// ok is false whenever any of the three Hamming parity bits or the
// overall parity bit fails its check. No correction is attempted: a
// single-bit error is reported the same way as a double error.
func Hamming84Decode(b byte) (nibble byte, ok bool) {
	p1 := b & 1
	p2 := (b >> 1) & 1
	d1 := (b >> 2) & 1
	p3 := (b >> 3) & 1
	d2 := (b >> 4) & 1
	d3 := (b >> 5) & 1
	d4 := (b >> 6) & 1
	overall := (b >> 7) & 1

	wantP1 := d1 ^ d2 ^ d4
	wantP2 := d1 ^ d3 ^ d4
	wantP3 := d2 ^ d3 ^ d4
	wantOverall := popcount(b&0x7F) & 1

	if p1 == wantP1 && p2 == wantP2 && p3 == wantP3 && overall == wantOverall {
		nibble = d1 | d2<<1 | d3<<2 | d4<<3
		return nibble, true
	}
	// Any failed check, single or double error, is reported uncorrected.
	return 0, false
}

func popcount(b byte) byte {
	var n byte
	for b != 0 {
		n += b & 1
		b >>= 1
	}
	return n
}
