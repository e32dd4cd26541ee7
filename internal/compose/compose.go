// Package compose implements the line composer / field scheduler: the
// synchronous state machine that walks every scanline of every field,
// multiplexing sync, burst, active video, VBI/teletext, scrambled
// segments and sound subcarriers into one line of real-valued baseband
// per call. It holds no mode-specific branching itself: every decision
// is driven off the mode.Descriptor and the active scramble.Scrambler
// passed in at construction.
package compose

import (
	"math"
	"time"

	"github.com/go-audio/audio"

	"github.com/SarahRoseLives/hacktv/internal/colour"
	"github.com/SarahRoseLives/hacktv/internal/dsp"
	"github.com/SarahRoseLives/hacktv/internal/feed"
	"github.com/SarahRoseLives/hacktv/internal/mode"
	"github.com/SarahRoseLives/hacktv/internal/overlay"
	"github.com/SarahRoseLives/hacktv/internal/scramble"
	"github.com/SarahRoseLives/hacktv/internal/sound"
	"github.com/SarahRoseLives/hacktv/internal/subtitle"
	"github.com/SarahRoseLives/hacktv/internal/teletext"
	"github.com/SarahRoseLives/hacktv/internal/video"
)

// syncRowsPerField is how many lines at the start of every field are
// consumed by equalising/broad-vsync pulses before ordinary horizontal
// sync lines begin: three equalising, three broad vsync, three more
// equalising, shared by every catalogue mode.
const syncRowsPerField = 9

// LineBuffer is one line's worth of real-valued baseband samples:
// length SamplesPerLine, constant within a mode.
type LineBuffer []float64

// lineRedirector is implemented by scramblers (Nagravision Syster) that
// redirect which source line is fetched for a given output line instead
// of mutating the line in place.
type lineRedirector interface {
	LineSource(int) int
}

// fieldReseeder is implemented by scramblers (Nagravision Syster) whose
// permutation changes once per field, driven by a 60-bit seed a real
// broadcast publishes in a VBI data line. The composer derives the seed
// from its own field sequence so a matching receiver can reproduce it.
type fieldReseeder interface {
	Reseed(seed uint64)
}

// Composer is the pull-mode line/field scheduler: the sink calls Pull to
// request samples, and the composer refills its internal line buffer by
// generating the next line whenever it runs dry.
type Composer struct {
	desc mode.Descriptor

	videoBuf *feed.FrameBuffer[*video.Frame]

	scrambler   scramble.Scrambler
	teletextGen *teletext.PageStore
	overlayC    *overlay.Compositor
	wallClock   func() time.Time

	chroma     *dsp.NCO
	secamEven  *dsp.NCO // Db
	secamOdd   *dsp.NCO // Dr
	secamDeemp *colour.SECAMDeemphasis

	audioCarriers []audioCarrier
	wssFormat     teletext.WSSFormat
	wssOff        bool
	txSubs        *subtitle.List
	txSubText     string

	// Two line buffers, flipped between each generated line.
	bufs   [2]LineBuffer
	curBuf int
	pos    int

	fieldIndex     int // 0 or 1
	lineInField    int // 1-based
	activeLineIdx  int // 0-based active video line within the field
	scrambleLine   int // global scrambled-line counter, advanced per active line
	curFrame       *video.Frame
	haveFrame      bool
	framesConsumed int64
	fieldSeq       int64 // running field counter driving per-field reseeds
}

// audioCarrier binds one of the mode's configured AudioSubcarriers to its
// runtime modulator and audio feed.
type audioCarrier struct {
	spec mode.AudioSubcarrier
	fm   *sound.FMSubcarrier
	a2   *sound.A2Stereo
	mac  *sound.MACDuobinary
	nic  *sound.NICAM
	feed *audioFeeder
}

// SetWSS configures line 23's Wide Screen Signalling payload. off
// disables the line entirely, folding it back into ordinary active
// video; otherwise format selects the aspect-ratio group code drawWSS
// emits. "auto" has no independent source aspect ratio to inspect at
// this layer, so callers resolve it to WSS4x3 before calling SetWSS.
func (c *Composer) SetWSS(format teletext.WSSFormat, off bool) {
	c.wssFormat = format
	c.wssOff = off
}

// SetTxSubtitles routes timed subtitle cues onto the teletext subtitle
// page: once per frame the cue active at the frame's presentation time
// replaces the page's rows, so VBI teletext lines carry it in rotation
// alongside the loaded pages.
func (c *Composer) SetTxSubtitles(list *subtitle.List) {
	c.txSubs = list
}

// SetAudioGain applies the `volume`/`downmix` knobs to every configured
// sound subcarrier's feed, so a single call after New covers
// NICAM/FM/A2/duobinary uniformly rather than each carrier needing its
// own setter.
func (c *Composer) SetAudioGain(volume float64, downmix bool) {
	for i := range c.audioCarriers {
		c.audioCarriers[i].feed.volume = volume
		c.audioCarriers[i].feed.downmix = downmix
	}
}

// New builds a Composer for desc, pulling video frames from videoBuf and
// audio blocks from audioBuf. scrambler may be scramble.None{} when no
// conditional-access scheme is configured; teletextGen and overlayC may
// be nil to disable those stages.
func New(desc mode.Descriptor, videoBuf *feed.FrameBuffer[*video.Frame], audioBuf *feed.FrameBuffer[*audio.FloatBuffer], scrambler scramble.Scrambler, teletextGen *teletext.PageStore, overlayC *overlay.Compositor) *Composer {
	c := &Composer{
		desc:        desc,
		videoBuf:    videoBuf,
		scrambler:   scrambler,
		teletextGen: teletextGen,
		overlayC:    overlayC,
		wallClock:   time.Now,
		lineInField: 1,
		wssFormat:   teletext.WSS4x3,
	}
	c.bufs[0] = make(LineBuffer, desc.SamplesPerLine)
	c.bufs[1] = make(LineBuffer, desc.SamplesPerLine)
	c.pos = desc.SamplesPerLine // force a generateLine on first Pull

	if desc.ColourSystem == colour.PAL || desc.ColourSystem == colour.NTSC {
		c.chroma = dsp.NewNCO(desc.Chroma.Float64(), desc.SampleRate.Float64(), 0)
	} else if desc.ColourSystem == colour.SECAM {
		c.secamEven = dsp.NewNCO(4250000, desc.SampleRate.Float64(), 0)
		c.secamOdd = dsp.NewNCO(4406250, desc.SampleRate.Float64(), 0)
		c.secamDeemp = colour.NewSECAMDeemphasis(85000, desc.SampleRate.Float64())
	}

	sampleRate := desc.SampleRate.Float64()
	audioRate := desc.AudioRate.Float64()
	if audioRate <= 0 {
		audioRate = 32000
	}
	shared := newAudioFeeder(audioBuf, audioRate, sampleRate)
	for _, as := range desc.AudioSubcarriers {
		ac := audioCarrier{
			spec: as,
			feed: shared,
		}
		switch {
		case as.NICAM:
			ac.nic = sound.NewNICAM()
		case as.Duobinary:
			ac.mac = sound.NewMACDuobinary()
		case as.A2:
			ac.a2 = sound.NewA2Stereo(as.FreqHz, as.FreqHz*1.044, as.DeviationHz, sampleRate)
		default:
			ac.fm = sound.NewFMSubcarrier(as.FreqHz, as.DeviationHz, sampleRate)
		}
		c.audioCarriers = append(c.audioCarriers, ac)
	}
	return c
}

// Pull returns the next n real-valued baseband samples, refilling from
// freshly generated lines as needed. The only blocking points are inside
// generateLine's frame/audio fetch, at the double-buffer boundary.
func (c *Composer) Pull(n int) []float64 {
	out := make([]float64, 0, n)
	for len(out) < n {
		buf := c.bufs[c.curBuf]
		if c.pos >= len(buf) {
			c.generateLine()
			buf = c.bufs[c.curBuf]
		}
		take := len(buf) - c.pos
		if remain := n - len(out); take > remain {
			take = remain
		}
		out = append(out, buf[c.pos:c.pos+take]...)
		c.pos += take
	}
	return out
}

// generateLine renders the next scanline into the composer's spare
// buffer and flips it to be the active one, advancing (field, line).
func (c *Composer) generateLine() {
	next := 1 - c.curBuf
	line := c.bufs[next]
	for i := range line {
		line[i] = c.desc.BlankLevelIRE
	}

	frameLine := c.frameLine()

	if c.lineInField == 1 {
		if rs, ok := c.scrambler.(fieldReseeder); ok {
			rs.Reseed(fieldSeed(c.fieldSeq))
		}
		c.fieldSeq++
		// One frame from the pipeline covers both fields; fetching again
		// on the second field would drain the buffer at twice the frame
		// rate.
		if c.fieldIndex == 0 {
			c.fetchFrame()
			c.refreshTxSubtitle()
		}
	}

	kind := c.classifyLine()
	c.drawSync(line, kind)

	switch kind {
	case lineActive:
		if c.chroma != nil {
			c.chroma.Skip(c.desc.BurstStartSamples)
		}
		c.drawBurst(line, frameLine)
		if c.chroma != nil {
			c.chroma.Skip(c.desc.ActiveStartSamples - c.desc.BurstEndSamples)
		}
		c.drawActiveVideo(line, frameLine)
		if c.chroma != nil {
			c.chroma.Skip(len(line) - (c.desc.ActiveStartSamples + c.desc.ActiveSamples))
		}
		if c.scrambler != nil {
			c.scrambler.Prepare(c.scrambleLine)
			c.scrambler.Apply(line, c.desc.ActiveStartSamples, c.desc.ActiveStartSamples+c.desc.ActiveSamples)
			c.scrambleLine++
		}
		c.activeLineIdx++
	case lineTeletext:
		if c.chroma != nil {
			c.chroma.Skip(len(line))
		}
		c.drawTeletext(line)
	case lineWSS:
		if c.chroma != nil {
			c.chroma.Skip(len(line))
		}
		c.drawWSS(line)
	case lineCC:
		if c.chroma != nil {
			c.chroma.Skip(len(line))
		}
		c.drawCC(line)
	default:
		if c.chroma != nil {
			c.chroma.Skip(len(line))
		}
	}

	c.mixAudio(line)

	c.bufs[next] = line
	c.curBuf = next
	c.pos = 0

	c.advancePosition()
}

// frameLine returns the 1-based absolute line number within the whole
// frame (spanning both fields), the numbering the VBI line assignments
// use.
func (c *Composer) frameLine() int {
	if c.fieldIndex == 0 {
		return c.lineInField
	}
	return c.desc.FieldLines[0] + c.lineInField
}

func (c *Composer) advancePosition() {
	fieldLen := c.desc.FieldLines[c.fieldIndex]
	c.lineInField++
	if c.lineInField > fieldLen {
		c.lineInField = 1
		c.activeLineIdx = 0
		c.fieldIndex++
		if c.fieldIndex >= 2 || c.desc.FieldLines[1] == 0 {
			c.fieldIndex = 0
			c.framesConsumed++
		}
	}
}

// fetchFrame pulls the current scaled video frame from the double
// buffer on the first line of each frame. A ReadyRepeat tick keeps the
// previously held frame.
func (c *Composer) fetchFrame() {
	if c.videoBuf == nil {
		return
	}
	f, state, ok := c.videoBuf.TakeFront()
	if !ok {
		return
	}
	if state == feed.ReadyNew {
		c.curFrame = f
	}
	c.haveFrame = c.curFrame != nil
	if c.overlayC != nil && c.curFrame != nil {
		c.overlayC.Blend(c.curFrame, c.curFrame.PTS, c.wallClock())
	}
}

// fieldSeed derives the 60-bit per-field permutation seed from the field
// sequence number. A real broadcast carries this value in a VBI data
// line; generating it from the field counter keeps transmitter and
// receiver in lockstep without extra shared state.
func fieldSeed(n int64) uint64 {
	s := uint64(n)*6364136223846793005 + 1442695040888963407
	return s & 0x0FFFFFFFFFFFFFFF
}

// refreshTxSubtitle pushes the cue active at the current frame's
// presentation time onto the teletext subtitle page, once per frame.
func (c *Composer) refreshTxSubtitle() {
	if c.txSubs == nil || c.teletextGen == nil {
		return
	}
	pts := time.Duration(c.framesConsumed) * time.Duration(c.desc.FrameRate.Den) * time.Second / time.Duration(c.desc.FrameRate.Num)
	text, _ := c.txSubs.Active(pts)
	if text == c.txSubText {
		return
	}
	c.txSubText = text
	c.teletextGen.SetSubtitleText(text)
}

type lineKind int

const (
	lineSyncOnly lineKind = iota
	lineActive
	lineTeletext
	lineWSS
	lineCC
)

// classifyLine decides what the current (field, line) carries: sync-only
// rows in the vertical interval, one of the VBI data services, or active
// picture -- table-driven off desc.VBI rather than per-standard code.
func (c *Composer) classifyLine() lineKind {
	frameLine := c.frameLine()
	// VBI assignments win over the early-field sync rows: the catalogue
	// lists teletext lines inside the vertical interval (PAL-I starts at
	// line 7), so the data services must be checked first.
	for _, tl := range c.desc.VBI.Teletext {
		if tl == frameLine {
			return lineTeletext
		}
	}
	if !c.wssOff && c.desc.VBI.WSS != 0 && c.desc.VBI.WSS == frameLine {
		return lineWSS
	}
	if c.desc.VBI.ClosedCaption != 0 && c.desc.VBI.ClosedCaption == frameLine {
		return lineCC
	}
	if c.lineInField <= syncRowsPerField {
		return lineSyncOnly
	}
	maxActivePerField := c.desc.ActiveLines
	if c.desc.Interlaced {
		maxActivePerField /= 2
	}
	if c.activeLineIdx >= maxActivePerField {
		return lineSyncOnly
	}
	return lineActive
}

// drawSync writes the line's sync pulses, computed directly from the
// mode's pulse widths since the shape differs by line kind (equalising
// vs broad vsync vs ordinary hsync). Lines carrying data or picture
// always get an ordinary horizontal sync, even inside the vertical
// interval, so a teletext line on line 7 keeps its normal timing
// reference.
func (c *Composer) drawSync(line LineBuffer, kind lineKind) {
	if kind != lineSyncOnly {
		pulse(line, c.desc.HSyncSamples, c.desc.SyncLevelIRE)
		return
	}
	half := len(line) / 2
	switch {
	case c.lineInField <= 3 || c.lineInField > 6 && c.lineInField <= syncRowsPerField:
		pulse(line, c.desc.EqPulseSamples, c.desc.SyncLevelIRE)
		pulse(line[half:], c.desc.EqPulseSamples, c.desc.SyncLevelIRE)
	case c.lineInField <= syncRowsPerField:
		pulse(line, c.desc.VSyncPulseSamples, c.desc.SyncLevelIRE)
		pulse(line[half:], c.desc.VSyncPulseSamples, c.desc.SyncLevelIRE)
	default:
		pulse(line, c.desc.HSyncSamples, c.desc.SyncLevelIRE)
	}
}

func pulse(line LineBuffer, width int, level float64) {
	if width > len(line) {
		width = len(line)
	}
	for i := 0; i < width; i++ {
		line[i] = level
	}
}

// drawBurst inserts the colour-burst reference at the mode's configured
// position and phase, alternating the PAL V-axis swing by line parity.
func (c *Composer) drawBurst(line LineBuffer, frameLine int) {
	if c.chroma == nil || c.desc.BurstAmpIRE == 0 {
		return
	}
	phaseDeg := c.desc.BurstPhaseEvenDeg
	if frameLine%2 == 1 {
		phaseDeg = c.desc.BurstPhaseOddDeg
	}
	offset := phaseDeg * math.Pi / 180
	for s := c.desc.BurstStartSamples; s < c.desc.BurstEndSamples && s < len(line); s++ {
		line[s] += c.desc.BurstAmpIRE * math.Cos(c.chroma.Phase()+offset)
		c.chroma.Skip(1)
	}
}

// drawActiveVideo projects the current frame's row for this scanline
// from pixel space into sample space by linear interpolation, matrixes
// to luma/chroma, and sums the colour subcarrier. The subcarrier's phase
// stays absolute to line 1 field 1: the chroma NCO is never reset
// between lines, only Skip-ed across non-active regions.
func (c *Composer) drawActiveVideo(line LineBuffer, frameLine int) {
	if !c.haveFrame || c.curFrame == nil {
		if c.chroma != nil {
			c.chroma.Skip(c.desc.ActiveSamples)
		}
		return
	}
	row := c.sourceRow()
	oddLine := frameLine%2 == 1

	start, n := c.desc.ActiveStartSamples, c.desc.ActiveSamples
	for i := 0; i < n; i++ {
		s := start + i
		if s >= len(line) {
			break
		}
		pos := float64(i) * float64(c.curFrame.Width) / float64(n)
		px := int(pos)
		frac := pos - float64(px)
		nx := px + 1
		if nx >= c.curFrame.Width {
			nx = c.curFrame.Width - 1
		}
		r0, g0, b0 := c.curFrame.At(px, row)
		r1, g1, b1 := c.curFrame.At(nx, row)
		r, g, b := r0+(r1-r0)*frac, g0+(g1-g0)*frac, b0+(b1-b0)*frac
		yuv := colour.Matrix(c.desc.ColourSystem, r, g, b, c.desc.BlackLevelIRE, c.desc.WhiteLevelIRE)
		sample := yuv.Y

		switch c.desc.ColourSystem {
		case colour.PAL:
			sin, cos := c.chroma.SinCos()
			v := yuv.V
			if oddLine {
				v = -v
			}
			sample += yuv.U*cos + v*sin
		case colour.NTSC:
			sin, cos := c.chroma.SinCos()
			sample += yuv.U*cos + yuv.V*sin
		case colour.SECAM:
			var osc *dsp.NCO
			var freqBase, fm float64
			if oddLine {
				osc, freqBase, fm = c.secamOdd, 4406250.0, yuv.V
			} else {
				osc, freqBase, fm = c.secamEven, 4250000.0, yuv.U
			}
			dev := c.secamDeemp.Apply(fm) * 2000
			osc.SetFreq(freqBase+dev, c.desc.SampleRate.Float64())
			sample += osc.Cos() * 10
		}
		line[s] = sample
	}
}

// sourceRow maps the current output active-line index to a row in the
// decoded frame, honouring field interlacing and, if the active
// scrambler redirects lines (Nagravision Syster), its permutation.
func (c *Composer) sourceRow() int {
	idx := c.activeLineIdx
	if lr, ok := c.scrambler.(lineRedirector); ok {
		idx = lr.LineSource(idx)
	}
	row := idx
	if c.desc.Interlaced {
		row = idx*2 + c.fieldIndex
	}
	if row >= c.curFrame.Height {
		row = c.curFrame.Height - 1
	}
	return row
}

// drawTeletext writes the next WST VBI packet from the page store into
// the line's active region, rendering each payload bit as a short run of
// samples at the mode's black/white levels -- a simplified digital-line
// rendering standing in for the real biphase waveform a hardware
// encoder produces.
func (c *Composer) drawTeletext(line LineBuffer) {
	if c.teletextGen == nil {
		return
	}
	pkt, ok := c.teletextGen.NextRowPacket()
	if !ok {
		return
	}
	data := pkt.Bytes()
	start := c.desc.ActiveStartSamples
	avail := len(line) - start
	bitsTotal := len(data) * 8
	if bitsTotal == 0 {
		return
	}
	samplesPerBit := avail / bitsTotal
	if samplesPerBit < 1 {
		samplesPerBit = 1
	}
	pos := start
	for _, b := range data {
		for bit := 7; bit >= 0; bit-- {
			level := c.desc.BlackLevelIRE
			if (b>>uint(bit))&1 != 0 {
				level = c.desc.WhiteLevelIRE
			}
			for k := 0; k < samplesPerBit && pos < len(line); k++ {
				line[pos] = level
				pos++
			}
		}
	}
}

// drawWSS writes line 23's Wide Screen Signalling bits, the same
// run-length-per-bit rendering drawTeletext uses.
func (c *Composer) drawWSS(line LineBuffer) {
	bits := teletext.EncodeWSS(c.wssFormat)
	c.drawBitRun(line, bits)
}

// drawCC writes line 21's EIA-608 closed-caption word pairs. No caption
// text source is wired to line 21 (`tx-subtitles` feeds the teletext
// subtitle page), so the text is empty, EncodeCCText returns no words and
// nothing is drawn past the line's sync.
func (c *Composer) drawCC(line LineBuffer) {
	words := teletext.EncodeCCText("")
	if len(words) == 0 {
		return
	}
	var bits []bool
	for _, w := range words {
		for _, b := range w {
			for bit := 7; bit >= 0; bit-- {
				bits = append(bits, (b>>uint(bit))&1 != 0)
			}
		}
	}
	c.drawBitRun(line, bits)
}

func (c *Composer) drawBitRun(line LineBuffer, bits []bool) {
	if len(bits) == 0 {
		return
	}
	start := c.desc.ActiveStartSamples
	avail := len(line) - start
	samplesPerBit := avail / len(bits)
	if samplesPerBit < 1 {
		samplesPerBit = 1
	}
	pos := start
	for _, bit := range bits {
		level := c.desc.BlackLevelIRE
		if bit {
			level = c.desc.WhiteLevelIRE
		}
		for k := 0; k < samplesPerBit && pos < len(line); k++ {
			line[pos] = level
			pos++
		}
	}
}

// mixAudio sums every configured sound subcarrier's contribution onto
// the line at a fixed low relative level, the composer's final
// multiplex step before output shaping.
func (c *Composer) mixAudio(line LineBuffer) {
	const relLevel = 2.0 // audio riding at 2 IRE-equivalent units, well below full scale
	n := len(line)
	if len(c.audioCarriers) == 0 {
		return
	}
	left, right := c.audioCarriers[0].feed.nextLR(n)
	mono := make([]float64, n)
	for i := range mono {
		mono[i] = (left[i] + right[i]) / 2
	}
	for i := range c.audioCarriers {
		ac := &c.audioCarriers[i]
		switch {
		case ac.nic != nil:
			companded := make([]int16, 64)
			for j := 0; j < 32; j++ {
				idx := j * n / 32
				companded[2*j] = sound.Companding(int32(left[idx] * 32767))
				companded[2*j+1] = sound.Companding(int32(right[idx] * 32767))
			}
			frame := ac.nic.EncodeFrame(companded, false)
			for s := 0; s < n && len(frame.Symbols) > 0; s++ {
				sym := frame.Symbols[s*len(frame.Symbols)/n]
				line[s] += relLevel * sym[0]
			}
		case ac.mac != nil:
			bits := make([]bool, n)
			for j := range bits {
				bits[j] = mono[j] > 0
			}
			out := ac.mac.Encode(bits)
			for s := range out {
				line[s] += relLevel * out[s]
			}
		case ac.a2 != nil:
			out := make([]float64, n)
			ac.a2.Modulate(left, right, 0.05, out)
			for s := range out {
				line[s] += relLevel * out[s]
			}
		default:
			var in []float64
			switch {
			case ac.spec.Left && !ac.spec.Right:
				in = left
			case ac.spec.Right && !ac.spec.Left:
				in = right
			default:
				in = mono
			}
			out := make([]float64, n)
			ac.fm.Modulate(in, out)
			for s := range out {
				line[s] += relLevel * out[s]
			}
		}
	}
}

// audioFeeder turns the feed pipeline's decoded-audio double buffer into
// a continuous stream of baseband-rate amplitude samples for a sound
// subcarrier's Modulate call, linearly interpolating between the audio
// decoder's native rate and the much higher RF sample rate (audio
// amplitude varies slowly enough that this is sufficient here -- the
// real rate conversion already happened in internal/feed's resampler
// stage). Every subcarrier that needs audio shares one feeder instance
// (A2 reads both channels off it) rather than each racing TakeFront
// independently, since FrameBuffer is single-producer/single-consumer.
type audioFeeder struct {
	buf        *feed.FrameBuffer[*audio.FloatBuffer]
	ringL      []float64
	ringR      []float64 // mirrors ringL for mono sources
	pos        float64
	audioRate  float64
	sampleRate float64
	volume     float64 // `volume` knob, applied as a linear gain at refill time
	downmix    bool    // `downmix` knob: force both channels to the same mono mix
}

func newAudioFeeder(buf *feed.FrameBuffer[*audio.FloatBuffer], audioRate, sampleRate float64) *audioFeeder {
	return &audioFeeder{buf: buf, audioRate: audioRate, sampleRate: sampleRate, volume: 1.0}
}

// next returns n mono (channel-mixed) samples.
func (a *audioFeeder) next(n int) []float64 {
	l, r := a.nextLR(n)
	out := make([]float64, n)
	for i := range out {
		out[i] = (l[i] + r[i]) / 2
	}
	return out
}

// nextLeft and nextRight return one channel's worth of samples.
func (a *audioFeeder) nextLeft(n int) []float64  { l, _ := a.nextLR(n); return l }
func (a *audioFeeder) nextRight(n int) []float64 { _, r := a.nextLR(n); return r }

// nextLR returns n samples of both channels, synchronized to the same
// fractional read pointer so A2's primary/secondary carriers stay
// time-aligned.
func (a *audioFeeder) nextLR(n int) (left, right []float64) {
	left, right = make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		for int(a.pos)+1 >= len(a.ringL) {
			a.refill()
		}
		lo := int(a.pos)
		frac := a.pos - float64(lo)
		left[i] = a.ringL[lo]*(1-frac) + a.ringL[lo+1]*frac
		right[i] = a.ringR[lo]*(1-frac) + a.ringR[lo+1]*frac
		a.pos += a.audioRate / a.sampleRate
	}
	if consumed := int(a.pos); consumed > 0 && consumed < len(a.ringL) {
		a.ringL = a.ringL[consumed:]
		a.ringR = a.ringR[consumed:]
		a.pos -= float64(consumed)
	}
	return left, right
}

func (a *audioFeeder) refill() {
	const silenceBlock = 1024
	if a.buf == nil {
		a.ringL = append(a.ringL, make([]float64, silenceBlock)...)
		a.ringR = append(a.ringR, make([]float64, silenceBlock)...)
		return
	}
	b, state, ok := a.buf.TakeFront()
	if !ok || state == feed.ReadyRepeat || b == nil {
		a.ringL = append(a.ringL, make([]float64, silenceBlock)...)
		a.ringR = append(a.ringR, make([]float64, silenceBlock)...)
		return
	}
	nc := b.Format.NumChannels
	if nc == 0 {
		nc = 1
	}
	n := len(b.Data) / nc
	for i := 0; i < n; i++ {
		var l, r float64
		if nc == 1 {
			l, r = b.Data[i], b.Data[i]
		} else {
			l, r = b.Data[i*nc], b.Data[i*nc+1]
		}
		if a.downmix {
			l = (l + r) / 2
			r = l
		}
		a.ringL = append(a.ringL, l*a.volume)
		a.ringR = append(a.ringR, r*a.volume)
	}
}
