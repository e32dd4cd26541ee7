package teletext

// EncodeCC builds one EIA-608 closed-caption line-21 word from two
// 7-bit characters (or a control code), applying the standard's odd
// parity bit to each byte the way WST payload bytes are parity-protected
// here too, letting line 21 share the same parity helper.
func EncodeCC(b0, b1 byte) [2]byte {
	return [2]byte{oddParity(b0 & 0x7F), oddParity(b1 & 0x7F)}
}

// EncodeCCText renders an ASCII string as a sequence of EIA-608 word
// pairs, one per two characters, padding a trailing odd character with a
// null byte.
func EncodeCCText(text string) [][2]byte {
	var out [][2]byte
	b := []byte(text)
	for i := 0; i < len(b); i += 2 {
		if i+1 < len(b) {
			out = append(out, EncodeCC(b[i], b[i+1]))
		} else {
			out = append(out, EncodeCC(b[i], 0))
		}
	}
	return out
}
