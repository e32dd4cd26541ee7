package scramble

import (
	"encoding/hex"
	"strings"

	"github.com/SarahRoseLives/hacktv/internal/herr"
	"github.com/SarahRoseLives/hacktv/internal/scramble/discret11"
	"github.com/SarahRoseLives/hacktv/internal/scramble/syster"
	"github.com/SarahRoseLives/hacktv/internal/scramble/videocrypt"
)

// New builds the Scrambler the `scrambler` config knob names, keyed off
// sampleRate for engines (Discret 11) whose delay table is expressed in
// samples rather than lines. key is an opaque mode-specific selector;
// for the Videocrypt family it is either empty (an all-zero key table,
// useful only for self-tests) or a hex string of up to 256 bytes.
//
// The later Sky 10/11/12 card generations and the vc-mc/vc-ppv variants
// have no separately documented kernel of their own; they map onto the
// P09 kernel alongside vc-sky-09, the newest kernel real hardware used
// for those cards. See DESIGN.md.
func New(name, key string, sampleRate float64) (Scrambler, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return None{}, nil
	case "syster":
		return syster.NewEngine(), nil
	case "d11":
		return discret11.NewEngine(sampleRate), nil
	case "vc-sky-02":
		return newVideocrypt(7, key, videocrypt.Sky02)
	case "vc-sky-06":
		return newVideocrypt(7, key, videocrypt.Sky06)
	case "vc-sky-07":
		return newVideocrypt(7, key, videocrypt.Sky07)
	case "vc-sky-09", "vc-sky-10", "vc-sky-11", "vc-sky-12", "vc-mc", "vc-ppv":
		return newVideocrypt(7, key, videocrypt.Sky09)
	case "vc-tac":
		return newVideocrypt(7, key, videocrypt.TAC)
	case "vc-xtea":
		return newVideocrypt(7, key, videocrypt.XTEAMode)
	case "vc2-mc":
		return newVideocrypt(8, key, videocrypt.Sky09)
	default:
		return nil, herr.New(herr.InvalidConfig, "scramble: unknown scrambler "+name)
	}
}

func newVideocrypt(rows int, keyHex string, mode videocrypt.Mode) (Scrambler, error) {
	var key [256]byte
	if keyHex != "" {
		raw, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, herr.Wrap(herr.InvalidConfig, "scramble: bad key hex", err)
		}
		copy(key[:], raw)
	}
	cb := videocrypt.NewControlBlock(rows, key, mode)
	return videocrypt.NewEngine(cb), nil
}
