// Package mode holds the immutable per-standard timing and level tables
// that the rest of hacktv is driven from: one data-driven Descriptor per
// broadcast standard, so the composer (internal/compose) holds no
// mode-specific branching.
package mode

import (
	"fmt"

	"github.com/SarahRoseLives/hacktv/internal/colour"
	"github.com/SarahRoseLives/hacktv/internal/rational"
)

// Interlace describes a frame buffer's field ordering.
type Interlace int

const (
	Progressive Interlace = iota
	TopFirst
	BottomFirst
)

// AudioSubcarrier describes one FM or digital sound subcarrier.
type AudioSubcarrier struct {
	Name       string
	FreqHz     float64
	DeviationHz float64
	Left, Right bool // which stereo channel(s) this carrier mixes
	NICAM      bool
	A2         bool
	Duobinary  bool
}

// VBIAssignment lists which line numbers (1-based, within a frame) carry
// which non-picture data, per field.
type VBIAssignment struct {
	Teletext []int
	WSS      int // 0 = unused
	ClosedCaption int // 0 = unused
}

// Descriptor is the immutable per-standard mode table. Every field is
// computed once at construction and never mutated afterwards.
type Descriptor struct {
	Name string

	LinesPerFrame int
	FieldLines    [2]int // lines in field 0 / field 1; field 1 is 0 for progressive modes
	Interlaced    bool

	FrameRate  rational.Rational
	SampleRate rational.Rational

	SamplesPerLine int

	HSyncSamples      int
	EqPulseSamples    int
	VSyncPulseSamples int
	BurstStartSamples int
	BurstEndSamples   int
	ActiveStartSamples int
	ActiveSamples      int
	ActiveLines        int

	// PictureWidth/PictureHeight are the scaler's target raster
	// resolution in pixels, distinct from ActiveSamples (a baseband
	// sample count): the scaler produces a frame of this size, which the
	// composer then resamples into ActiveSamples per active line.
	PictureWidth  int
	PictureHeight int

	// AudioRate is the PCM sample rate the feed pipeline's audio decoder
	// and resampler target, independent of the baseband SampleRate.
	AudioRate rational.Rational

	SyncLevelIRE  float64
	BlankLevelIRE float64
	BlackLevelIRE float64
	WhiteLevelIRE float64
	BurstAmpIRE   float64

	ColourSystem      colour.System
	Chroma            rational.Rational // colour subcarrier frequency
	BurstPhaseEvenDeg float64
	BurstPhaseOddDeg  float64

	AudioSubcarriers []AudioSubcarrier
	VBI              VBIAssignment
}

// SamplesPerFrame returns the total number of baseband samples in one
// complete frame (all lines).
func (d Descriptor) SamplesPerFrame() int64 {
	return int64(d.SamplesPerLine) * int64(d.LinesPerFrame)
}

// durationSamples converts a duration in seconds to a whole number of
// samples at the descriptor's sample rate.
func durationSamples(seconds float64, sampleRate rational.Rational) int {
	return int(seconds * sampleRate.Float64())
}

// validate checks the invariants every mode must hold: an integer number
// of samples per line and a positive, reduced sample rate.
func (d Descriptor) validate() error {
	if d.SampleRate.Num <= 0 || d.SampleRate.Den <= 0 {
		return fmt.Errorf("mode %s: invalid sample rate", d.Name)
	}
	if d.SamplesPerLine <= 0 {
		return fmt.Errorf("mode %s: non-positive samples per line", d.Name)
	}
	perLine := d.SampleRate.Div(d.FrameRate.Mul(rational.FromInt(int64(d.LinesPerFrame))))
	if perLine.Den != 1 || perLine.Num != int64(d.SamplesPerLine) {
		return fmt.Errorf("mode %s: sample rate does not give an integer number of samples per line", d.Name)
	}
	return nil
}
