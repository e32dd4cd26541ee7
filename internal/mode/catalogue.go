package mode

import (
	"fmt"

	"github.com/SarahRoseLives/hacktv/internal/colour"
	"github.com/SarahRoseLives/hacktv/internal/rational"
)

// params bundles the handful of numbers each catalogue entry below differs
// on; build() turns them into a fully resolved, validated Descriptor with
// every pulse width and region boundary precomputed as a sample count.
type params struct {
	name          string
	linesPerFrame int
	activeLines   int
	interlaced    bool
	frameRate     rational.Rational
	sampleRate    rational.Rational

	hsyncSeconds      float64
	vsyncSeconds      float64
	eqPulseSeconds    float64
	burstStartSeconds float64
	burstWidthSeconds float64
	activeStartSeconds float64
	activeWidthSeconds float64

	syncIRE, blankIRE, blackIRE, whiteIRE, burstIRE float64

	colourSystem      colour.System
	chroma            rational.Rational
	burstPhaseEven    float64
	burstPhaseOdd     float64

	audio []AudioSubcarrier
	vbi   VBIAssignment

	pictureWidth, pictureHeight int
	audioRate                   rational.Rational
}

func build(p params) Descriptor {
	lineDuration := p.frameRate.Mul(rational.FromInt(int64(p.linesPerFrame))).Inv()
	samplesPerLine := int(lineDuration.Mul(p.sampleRate).Floor())

	fieldA := p.linesPerFrame / 2
	fieldB := p.linesPerFrame - fieldA
	if !p.interlaced {
		fieldA, fieldB = p.linesPerFrame, 0
	}

	d := Descriptor{
		Name:              p.name,
		LinesPerFrame:     p.linesPerFrame,
		FieldLines:        [2]int{fieldA, fieldB},
		Interlaced:        p.interlaced,
		FrameRate:         p.frameRate,
		SampleRate:        p.sampleRate,
		SamplesPerLine:    samplesPerLine,
		HSyncSamples:      durationSamples(p.hsyncSeconds, p.sampleRate),
		EqPulseSamples:    durationSamples(p.eqPulseSeconds, p.sampleRate),
		VSyncPulseSamples: durationSamples(p.vsyncSeconds, p.sampleRate),
		BurstStartSamples: durationSamples(p.burstStartSeconds, p.sampleRate),
		BurstEndSamples:   durationSamples(p.burstStartSeconds+p.burstWidthSeconds, p.sampleRate),
		ActiveStartSamples: durationSamples(p.activeStartSeconds, p.sampleRate),
		ActiveSamples:      durationSamples(p.activeWidthSeconds, p.sampleRate),
		ActiveLines:        p.activeLines,
		SyncLevelIRE:       p.syncIRE,
		BlankLevelIRE:      p.blankIRE,
		BlackLevelIRE:      p.blackIRE,
		WhiteLevelIRE:      p.whiteIRE,
		BurstAmpIRE:        p.burstIRE,
		ColourSystem:       p.colourSystem,
		Chroma:             p.chroma,
		BurstPhaseEvenDeg:  p.burstPhaseEven,
		BurstPhaseOddDeg:   p.burstPhaseOdd,
		AudioSubcarriers:   p.audio,
		VBI:                p.vbi,
		PictureWidth:       p.pictureWidth,
		PictureHeight:      p.pictureHeight,
		AudioRate:          p.audioRate,
	}
	if err := d.validate(); err != nil {
		panic(err)
	}
	return d
}

// PALI is System I PAL: 625 lines, 25 Hz, 4.43 MHz chroma, 6 MHz FM
// mono sound with its 6.552 MHz NICAM stereo companion.
func PALI() Descriptor { return build(paliParams()) }

func paliParams() params {
	return params{
		name: "pal-i", linesPerFrame: 625, activeLines: 576, interlaced: true,
		frameRate: rational.New(25, 1), sampleRate: rational.New(20_250_000, 1),
		hsyncSeconds: 4.7e-6, vsyncSeconds: 27.3e-6, eqPulseSeconds: 2.35e-6,
		burstStartSeconds: 5.6e-6, burstWidthSeconds: 2.25e-6,
		activeStartSeconds: 10.5e-6, activeWidthSeconds: 52.0e-6,
		syncIRE: -40, blankIRE: 0, blackIRE: 0, whiteIRE: 100, burstIRE: 20,
		colourSystem: colour.PAL, chroma: rational.New(4433618750, 1000),
		burstPhaseEven: 135, burstPhaseOdd: -135,
		audio: []AudioSubcarrier{
			{Name: "mono-fm", FreqHz: 6_000_000, DeviationHz: 50_000, Left: true, Right: true},
			{Name: "nicam", FreqHz: 6_552_000, NICAM: true, Left: true, Right: true},
		},
		vbi: VBIAssignment{Teletext: []int{7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 320, 321, 322, 323, 324, 325, 326, 327, 328, 329, 330, 331, 332, 333, 334}, WSS: 23},
		pictureWidth: 720, pictureHeight: 576,
		audioRate: rational.New(32000, 1),
	}
}

// PALB is System B/G PAL, as System I but with the German A2 (Zweiton)
// 5.5/5.742 MHz dual-FM stereo pair instead of System I's 6 MHz mono
// carrier and NICAM companion.
func PALB() Descriptor { return build(palbParams()) }

func palbParams() params {
	p := paliParams()
	p.name = "pal-b"
	p.audio = []AudioSubcarrier{{Name: "a2", FreqHz: 5_500_000, DeviationHz: 50_000, A2: true, Left: true, Right: true}}
	return p
}

// NTSCM is System M NTSC: 525 lines, 30000/1001 Hz, 3.58 MHz chroma.
func NTSCM() Descriptor { return build(ntscmParams()) }

func ntscmParams() params {
	return params{
		name: "ntsc-m", linesPerFrame: 525, activeLines: 480, interlaced: true,
		frameRate: rational.New(30000, 1001), sampleRate: rational.New(13_500_000, 1),
		hsyncSeconds: 4.7e-6, vsyncSeconds: 27.1e-6, eqPulseSeconds: 2.3e-6,
		burstStartSeconds: 5.6e-6, burstWidthSeconds: 2.5e-6,
		activeStartSeconds: 10.7e-6, activeWidthSeconds: 52.6e-6,
		syncIRE: -40, blankIRE: 0, blackIRE: 7.5, whiteIRE: 100, burstIRE: 20,
		colourSystem: colour.NTSC, chroma: rational.New(3579545, 1),
		burstPhaseEven: 180, burstPhaseOdd: 180,
		audio: []AudioSubcarrier{{Name: "mono-fm", FreqHz: 4_500_000, DeviationHz: 25_000, Left: true, Right: true}},
		vbi:   VBIAssignment{Teletext: []int{10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21}, ClosedCaption: 21},
		pictureWidth: 720, pictureHeight: 480,
		audioRate: rational.New(32000, 1),
	}
}

// SECAML is System L SECAM: same 625/25 raster as PAL-I, FM chroma instead
// of QAM, Db on even lines and Dr on odd lines.
func SECAML() Descriptor { return build(secamlParams()) }

func secamlParams() params {
	p := paliParams()
	p.name = "secam-l"
	p.colourSystem = colour.SECAM
	p.chroma = rational.New(4406250, 1) // Dr centre frequency; Db uses 4250000
	p.burstPhaseEven = 0
	p.burstPhaseOdd = 0
	return p
}

// MACD is the D-MAC family: digital duobinary sound, no analogue chroma
// subcarrier (colour is time-compressed and multiplexed, not modulated).
func MACD() Descriptor { return build(macdParams()) }

func macdParams() params {
	return params{
		name: "mac-d", linesPerFrame: 625, activeLines: 576, interlaced: true,
		frameRate: rational.New(25, 1), sampleRate: rational.New(20_250_000, 1),
		hsyncSeconds: 4.7e-6, vsyncSeconds: 27.3e-6, eqPulseSeconds: 2.35e-6,
		burstStartSeconds: 0, burstWidthSeconds: 0,
		activeStartSeconds: 12.0e-6, activeWidthSeconds: 50.4e-6,
		syncIRE: -40, blankIRE: 0, blackIRE: 0, whiteIRE: 100, burstIRE: 0,
		colourSystem: colour.None, chroma: rational.New(0, 1),
		audio: []AudioSubcarrier{{Name: "duobinary", Duobinary: true, Left: true, Right: true}},
		vbi:   VBIAssignment{},
		pictureWidth: 720, pictureHeight: 576,
		audioRate: rational.New(32000, 1),
	}
}

// MACD2 is D2-MAC: half the luminance/chroma bandwidth of D-MAC, same
// duobinary sound multiplex.
func MACD2() Descriptor { return build(macd2Params()) }

func macd2Params() params {
	p := macdParams()
	p.name = "mac-d2"
	return p
}

func catalogueParams() map[string]func() params {
	return map[string]func() params{
		"pal-i":   paliParams,
		"pal-b":   palbParams,
		"ntsc-m":  ntscmParams,
		"secam-l": secamlParams,
		"mac-d":   macdParams,
		"mac-d2":  macd2Params,
	}
}

// Catalogue returns every supported mode keyed by its configuration name.
func Catalogue() map[string]func() Descriptor {
	return map[string]func() Descriptor{
		"pal-i":   PALI,
		"pal-b":   PALB,
		"ntsc-m":  NTSCM,
		"secam-l": SECAML,
		"mac-d":   MACD,
		"mac-d2":  MACD2,
	}
}

// Lookup resolves a configuration mode name into its Descriptor.
func Lookup(name string) (Descriptor, bool) {
	ctor, ok := Catalogue()[name]
	if !ok {
		return Descriptor{}, false
	}
	return ctor(), true
}

// LookupAt resolves a mode at a caller-chosen output sample rate instead
// of the catalogue's native one, re-deriving every per-line sample count.
// The rate must divide into a whole number of samples per line (an exact
// integer of SampleRate / (FrameRate * LinesPerFrame)); anything else
// would accumulate a fractional-sample drift across lines, so it is
// rejected rather than rounded.
func LookupAt(name string, sampleRate rational.Rational) (Descriptor, error) {
	ctor, ok := catalogueParams()[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("mode: unknown mode %q", name)
	}
	p := ctor()
	perLine := sampleRate.Div(p.frameRate.Mul(rational.FromInt(int64(p.linesPerFrame))))
	if perLine.Den != 1 {
		return Descriptor{}, fmt.Errorf("mode %s: sample rate %d/%d does not give an integer number of samples per line",
			name, sampleRate.Num, sampleRate.Den)
	}
	p.sampleRate = sampleRate
	return build(p), nil
}
