// Package colour implements RGB-to-luma/chroma matrixing for the PAL,
// NTSC and SECAM colour systems, keyed by System so the composer carries
// no per-standard branching, plus the one-pole de-emphasis filter SECAM's
// FM chroma path needs.
package colour

// System identifies which colour matrix and modulation a mode uses.
type System int

const (
	None System = iota // MAC family: colour carried digitally, no subcarrier
	PAL
	NTSC
	SECAM
)

// YUV holds the luma and two colour-difference components, scaled to the
// same IRE-like units as the mode descriptor's black/white levels.
type YUV struct {
	Y, U, V float64
}

// Matrix converts normalised (0..255) RGB into Y/U/V or Y/I/Q according to
// sys, then rescales luma into [blackLevel, whiteLevel].
func Matrix(sys System, r, g, b, blackLevel, whiteLevel float64) YUV {
	switch sys {
	case NTSC:
		y := 0.299*r + 0.587*g + 0.114*b
		i := 0.596*r - 0.274*g - 0.322*b
		q := 0.211*r - 0.523*g + 0.312*b
		return YUV{
			Y: blackLevel + y/255.0*(whiteLevel-blackLevel),
			U: i / 255.0 * (whiteLevel - blackLevel),
			V: q / 255.0 * (whiteLevel - blackLevel),
		}
	case PAL, SECAM:
		y := 0.299*r + 0.587*g + 0.114*b
		u := -0.147*r - 0.289*g + 0.436*b
		v := 0.615*r - 0.515*g - 0.100*b
		return YUV{
			Y: blackLevel + y/255.0*(whiteLevel-blackLevel),
			U: u / 255.0 * (whiteLevel - blackLevel) * 0.493,
			V: v / 255.0 * (whiteLevel - blackLevel) * 0.877,
		}
	default: // None (MAC): luma only, chroma carried as digital duobinary.
		y := 0.299*r + 0.587*g + 0.114*b
		return YUV{Y: blackLevel + y/255.0*(whiteLevel-blackLevel)}
	}
}

// SECAMDeemphasis is a single-pole low-pass approximating the SECAM FM
// chroma bell-shaped de-emphasis network (the original uses a passive RLC
// bell filter; a one-pole IIR is the idiomatic software equivalent used
// throughout this package for per-sample shaping).
type SECAMDeemphasis struct {
	alpha float64
	prev  float64
}

// NewSECAMDeemphasis builds a de-emphasis filter with corner frequency
// cutoffHz at the given sample rate.
func NewSECAMDeemphasis(cutoffHz, sampleRate float64) *SECAMDeemphasis {
	rc := 1.0 / (2 * 3.14159265358979 * cutoffHz)
	dt := 1.0 / sampleRate
	return &SECAMDeemphasis{alpha: dt / (rc + dt)}
}

// Apply filters one sample.
func (d *SECAMDeemphasis) Apply(x float64) float64 {
	d.prev += d.alpha * (x - d.prev)
	return d.prev
}
