package feed

import (
	"sync"

	"github.com/go-audio/audio"

	"github.com/SarahRoseLives/hacktv/internal/dsp"
	"github.com/SarahRoseLives/hacktv/internal/herr"
	"github.com/SarahRoseLives/hacktv/internal/mode"
	"github.com/SarahRoseLives/hacktv/internal/rational"
	"github.com/SarahRoseLives/hacktv/internal/video"
)

// Pipeline wires a Source through the demux/decode/scale stage graph into
// the two front-buffers the composer pulls from: one carrying scaled
// video frames, one carrying resampled audio blocks. Each stage runs in
// its own goroutine.
type Pipeline struct {
	src  Source
	desc mode.Descriptor

	Video *FrameBuffer[*video.Frame]
	Audio *FrameBuffer[*audio.FloatBuffer]

	aligner *TimeAligner
	resamp  *resamplerStage

	done chan struct{}
	errc chan error

	eofMu    sync.Mutex
	videoEOF bool
	audioEOF bool
}

// resamplerStage converts incoming PCM blocks to the mode's audio rate,
// rebuilding its polyphase resampler pair only when the source rate
// actually changes. Sources already delivering the target rate pass
// through untouched.
type resamplerStage struct {
	toRate   int
	fromRate int
	left     *dsp.Resampler
	right    *dsp.Resampler
}

// convert resamples one interleaved stereo FloatBuffer to the target
// rate, returning the input unchanged when no conversion is needed.
func (r *resamplerStage) convert(b *audio.FloatBuffer) *audio.FloatBuffer {
	from := b.Format.SampleRate
	if from == 0 || from == r.toRate {
		return b
	}
	if from != r.fromRate || r.left == nil {
		ratio := rational.New(int64(r.toRate), int64(from))
		r.left = dsp.NewResampler(int(ratio.Num), int(ratio.Den), 16)
		r.right = dsp.NewResampler(int(ratio.Num), int(ratio.Den), 16)
		r.fromRate = from
	}

	nc := b.Format.NumChannels
	if nc == 0 {
		nc = 1
	}
	n := len(b.Data) / nc
	inL := make([]float64, n)
	inR := make([]float64, n)
	for i := 0; i < n; i++ {
		if nc == 1 {
			inL[i], inR[i] = b.Data[i], b.Data[i]
		} else {
			inL[i], inR[i] = b.Data[i*nc], b.Data[i*nc+1]
		}
	}
	outL := r.left.Process(inL)
	outR := r.right.Process(inR)
	out := &audio.FloatBuffer{
		Format: AudioFormat(r.toRate, 2),
		Data:   make([]float64, 2*len(outL)),
	}
	for i := range outL {
		out.Data[i*2] = outL[i]
		out.Data[i*2+1] = outR[i]
	}
	return out
}

// NewPipeline builds a Pipeline reading from src and producing frames
// timed to desc.
func NewPipeline(src Source, desc mode.Descriptor) *Pipeline {
	return &Pipeline{
		src:     src,
		desc:    desc,
		Video:   NewFrameBuffer[*video.Frame](),
		Audio:   NewFrameBuffer[*audio.FloatBuffer](),
		aligner: NewTimeAligner(desc.FrameRate, rational.New(1_000_000_000, 1)), // PTS in nanoseconds
		resamp:  &resamplerStage{toRate: int(desc.AudioRate.Float64())},
		done:    make(chan struct{}),
		errc:    make(chan error, 2),
	}
}

// Start launches the video and audio stage goroutines. It returns
// immediately; read Errors to observe completion.
func (p *Pipeline) Start() {
	go p.runVideo()
	go p.runAudio()
}

// Abort stops both stages and wakes any blocked buffer consumers.
func (p *Pipeline) Abort() {
	select {
	case <-p.done:
	default:
		close(p.done)
	}
	p.Video.Abort()
	p.Audio.Abort()
	_ = p.src.Close()
}

// Errors returns a channel that receives any stage error (buffered to
// hold one error per stage).
func (p *Pipeline) Errors() <-chan error { return p.errc }

// markEOF records that one stage's source has been exhausted. Once both
// the video and audio legs have reported EOF the pipeline reports
// herr.EndOfStream so the caller can shut down cleanly; a decode error
// on a single stream is treated as that stream's soft EOF by
// runVideo/runAudio before this is called, leaving the other stream
// running.
func (p *Pipeline) markEOF(isVideo bool) {
	p.eofMu.Lock()
	defer p.eofMu.Unlock()
	if isVideo {
		p.videoEOF = true
	} else {
		p.audioEOF = true
	}
	if p.videoEOF && p.audioEOF {
		select {
		case p.errc <- herr.New(herr.EndOfStream, "feed: both streams exhausted"):
		default:
		}
	}
}

func (p *Pipeline) runVideo() {
	for {
		select {
		case <-p.done:
			return
		default:
		}
		f, ok, err := p.src.ReadVideo()
		if err != nil {
			p.errc <- herr.Wrap(herr.DecodeError, "video decode", err)
			p.markEOF(true)
			return
		}
		if !ok {
			p.markEOF(true)
			return
		}
		act, repeats := p.aligner.Align(int64(f.PTS))
		if act == ActionDrop {
			continue
		}
		for i := int64(0); i < repeats; i++ {
			if !p.Video.PutRepeat() {
				return
			}
		}
		if !p.Video.PutNew(f) {
			return
		}
	}
}

func (p *Pipeline) runAudio() {
	for {
		select {
		case <-p.done:
			return
		default:
		}
		b, ok, err := p.src.ReadAudio()
		if err != nil {
			p.errc <- herr.Wrap(herr.DecodeError, "audio decode", err)
			p.markEOF(false)
			return
		}
		if !ok {
			p.markEOF(false)
			return
		}
		if !p.Audio.PutNew(p.resamp.convert(b)) {
			return
		}
	}
}
