package videocrypt

// ControlBlock holds the message rows a Videocrypt engine cycles through
// to derive and refresh its control word: 7 (VC1) or 8 (VC2) message
// rows of 32 bytes, the current 64-bit control word, the 256-entry line
// cut table derived from it, and the block phase.
type ControlBlock struct {
	Rows      [][32]byte // 7 rows for VC1, 8 for VC2
	Key       [256]byte
	Mode      Mode
	CW        uint64
	CutTable  [256]byte
	phase     int // 0..63, one increment per scrambled line group
}

// NewControlBlock allocates a ControlBlock with rowCount message rows
// (7 for Videocrypt I, 8 for Videocrypt II).
func NewControlBlock(rowCount int, key [256]byte, mode Mode) *ControlBlock {
	return &ControlBlock{
		Rows: make([][32]byte, rowCount),
		Key:  key,
		Mode: mode,
	}
}

// crc computes a message row's checksum: byte 31 is the two's-complement
// of the sum of bytes 0..30, modulo 256.
func crc(msg [32]byte) byte {
	var sum byte
	for i := 0; i < 31; i++ {
		sum += msg[i]
	}
	return byte(-int8(sum))
}

// Seed loads one message row into the control block and (re)derives the
// control word from it via the block's configured kernel.
func (cb *ControlBlock) Seed(row int, msg [32]byte) {
	msg[31] = crc(msg)
	cb.Rows[row] = msg
	cb.CW = cb.DeriveControlWord(msg)
	cb.rebuildCutTable()
}

// DeriveControlWord runs the control block's configured kernel
// (P07/P09/XTEA) over a 32-byte message row, returning the 64-bit
// control word a subscriber card would compute from the same row.
func (cb *ControlBlock) DeriveControlWord(msg [32]byte) uint64 {
	switch cb.Mode {
	case XTEAMode:
		return RunXTEA(msg[11:19])
	case Sky09:
		out := RunP09(cb.Key, msg[:])
		return bytesToU64(out)
	default:
		out := RunP07(cb.Key, msg[:], cb.Mode, 3)
		return bytesToU64(out)
	}
}

func bytesToU64(b [8]byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}

// EMM writes the command prefix, obfuscates the 4-byte card serial into
// message bytes 3,7,8,9,10, and runs the kernel to finalise the
// message's signature and CRC. It then iterates the kernel 64 more times
// to advance the control word to the value the card will compute next.
func (cb *ControlBlock) EMM(cardSerial uint32, onOff bool) [32]byte {
	var msg [32]byte
	msg[0], msg[1], msg[2] = 0x00, 0x01, 0x02
	if onOff {
		msg[0] |= 0x80
	}

	nibbleSum := byte(cardSerial>>24) + byte(cardSerial>>16) + byte(cardSerial>>8) + byte(cardSerial)
	rot := rotl(nibbleSum)
	serial := [4]byte{byte(cardSerial >> 24), byte(cardSerial >> 16), byte(cardSerial >> 8), byte(cardSerial)}
	msg[3] = rot ^ serial[0]
	msg[7] = rot ^ serial[1]
	msg[8] = rot ^ serial[2]
	msg[9] = rot ^ serial[3]
	msg[10] = rot

	msg[31] = crc(msg)

	cw := cb.DeriveControlWord(msg)
	for i := 0; i < 64; i++ {
		cw = cb.advanceCW(cw)
	}
	cb.CW = cw
	cb.rebuildCutTable()
	return msg
}

// advanceCW runs one kernel iteration over the control word's own bytes,
// the step the card mirrors once per scrambled line group.
func (cb *ControlBlock) advanceCW(cw uint64) uint64 {
	var buf [8]byte
	for j := range buf {
		buf[j] = byte(cw >> (56 - 8*j))
	}
	switch cb.Mode {
	case XTEAMode:
		return RunXTEA(buf[:])
	case Sky09:
		return bytesToU64(RunP09(cb.Key, buf[:]))
	default:
		return bytesToU64(RunP07(cb.Key, buf[:], cb.Mode, 3))
	}
}

// RotateCW advances the control word by one kernel iteration and
// rebuilds the cut table from it. The engine calls this once per 64
// scrambled lines so each Videocrypt block scrambles under a fresh word.
func (cb *ControlBlock) RotateCW() {
	cb.CW = cb.advanceCW(cb.CW)
	cb.rebuildCutTable()
}

// rebuildCutTable derives the 256-entry cut-point table from the current
// control word: each entry is seeded by mixing the control word with its
// table index through the cut-point PRNG.
func (cb *ControlBlock) rebuildCutTable() {
	state := cb.CW
	for i := range cb.CutTable {
		state = state*6364136223846793005 + 1442695040888963407 + uint64(i)
		cb.CutTable[i] = byte(state>>56) % 208 // active-video column range
	}
}

// CutTableEntry returns the active-video column at which the given
// scrambled line index is split and its halves swapped.
func (cb *ControlBlock) CutTableEntry(lineIndex int) int {
	return int(cb.CutTable[lineIndex%256])
}

// AdvancePhase increments the block phase (0..63), one step per
// scrambled line group, wrapping modulo 64.
func (cb *ControlBlock) AdvancePhase() {
	cb.phase = (cb.phase + 1) % 64
}

// Phase returns the current block phase.
func (cb *ControlBlock) Phase() int { return cb.phase }
