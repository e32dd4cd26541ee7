package teletext

// Clock-run-in and framing code: every WST VBI line begins with these two
// fixed bytes so a receiver's bit/byte-sync clock can lock before the
// Hamming-coded address and payload arrive.
const (
	cri           = 0x55
	framingCode   = 0x27
	packetPayload = 40 // bytes of text/data per packet, excluding header
)

// Packet is one 45-byte WST VBI packet: 2 bytes CRI, 1 byte framing code,
// 2 Hamming-coded address bytes, and 40 payload bytes.
type Packet struct {
	Magazine int // 1-8
	Row      int // 0-31
	Payload  [packetPayload]byte
}

// Bytes renders the packet as the 45-byte sequence a composer line writes
// into the VBI sample region: CRI, framing code, Hamming address,
// odd-parity payload.
func (p Packet) Bytes() []byte {
	out := make([]byte, 0, 2+1+2+packetPayload)
	out = append(out, cri, cri, framingCode)

	addr := addressByte(p.Magazine, p.Row)
	out = append(out, Hamming84Encode(addr&0xF), Hamming84Encode((addr>>4)&0xF))

	for _, b := range p.Payload {
		out = append(out, oddParity(b))
	}
	return out
}

// addressByte packs a packet-0 (header row) address into a single byte:
// the low 3 bits are the magazine number modulo 8 (magazine 8 transmits
// as 0), the high 5 bits are the row number, matching WST's packet
// addressing scheme.
func addressByte(magazine, row int) byte {
	m := byte(magazine % 8)
	r := byte(row & 0x1F)
	return m | r<<3
}

// oddParity sets the top bit of b so the byte (7 data bits + parity)
// carries odd parity, as WST requires for all non-Hamming payload bytes.
func oddParity(b byte) byte {
	b &= 0x7F
	if popcount(b)%2 == 0 {
		b |= 0x80
	}
	return b
}

// NewTextPacket builds a packet carrying a left-justified, space-padded
// ASCII string in the given magazine/row.
func NewTextPacket(magazine, row int, text string) Packet {
	p := Packet{Magazine: magazine, Row: row}
	for i := range p.Payload {
		p.Payload[i] = ' '
	}
	copy(p.Payload[:], text)
	return p
}
