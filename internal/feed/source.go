package feed

import (
	"time"

	"github.com/go-audio/audio"

	"github.com/SarahRoseLives/hacktv/internal/mode"
	"github.com/SarahRoseLives/hacktv/internal/video"
)

// Source is anything the demux stage can pull decoded audio and video
// from: a file demuxer, a capture device, or a test pattern generator.
// The pipeline drives every kind uniformly.
type Source interface {
	// ReadVideo returns the next decoded video frame, or ok=false at EOF.
	ReadVideo() (f *video.Frame, ok bool, err error)
	// ReadAudio returns the next block of decoded PCM audio, or ok=false at
	// EOF. Blocks are stereo float samples in the shared go-audio format.
	ReadAudio() (b *audio.FloatBuffer, ok bool, err error)
	// EOF reports whether the source has no more data of either kind.
	EOF() bool
	Close() error
}

// AudioFormat builds the go-audio format descriptor for a mode's audio
// sample rate, used to stamp every FloatBuffer pulled from a Source so
// downstream resampling knows its starting rate.
func AudioFormat(sampleRate int, channels int) *audio.Format {
	return &audio.Format{NumChannels: channels, SampleRate: sampleRate}
}

// PTS converts a sample index at the given rate into a stream timestamp,
// mirroring the monotonic-PTS convention PacketQueue enforces.
func PTS(sampleIndex int64, sampleRate int) time.Duration {
	return time.Duration(sampleIndex) * time.Second / time.Duration(sampleRate)
}

// StubSource is a deterministic test-pattern/silence Source used when no
// real capture device or file is configured, the "test" input type.
type StubSource struct {
	Desc       mode.Descriptor
	frameIndex int64
	sampleIdx  int64
	maxFrames  int64
	closed     bool
}

// NewStubSource creates a test source that yields maxFrames video frames
// (0 meaning unbounded) of flat grey video and silent audio.
func NewStubSource(desc mode.Descriptor, maxFrames int64) *StubSource {
	return &StubSource{Desc: desc, maxFrames: maxFrames}
}

func (s *StubSource) ReadVideo() (*video.Frame, bool, error) {
	if s.closed || (s.maxFrames > 0 && s.frameIndex >= s.maxFrames) {
		return nil, false, nil
	}
	f := video.NewFrame(s.Desc.PictureWidth, s.Desc.PictureHeight)
	for i := range f.Pix {
		f.Pix[i] = 0x7F7F7F
	}
	if s.Desc.Interlaced {
		f.Interlace = mode.TopFirst
	} else {
		f.Interlace = mode.Progressive
	}
	num, den := s.Desc.FrameRate.Num, s.Desc.FrameRate.Den
	f.PTS = time.Duration(s.frameIndex) * time.Duration(den) * time.Second / time.Duration(num)
	s.frameIndex++
	return f, true, nil
}

func (s *StubSource) ReadAudio() (*audio.FloatBuffer, bool, error) {
	if s.closed {
		return nil, false, nil
	}
	const blockSamples = 1024
	buf := &audio.FloatBuffer{
		Format: AudioFormat(int(s.Desc.AudioRate.Float64()), 2),
		Data:   make([]float64, blockSamples*2),
	}
	s.sampleIdx += blockSamples
	return buf, true, nil
}

func (s *StubSource) EOF() bool {
	return s.closed || (s.maxFrames > 0 && s.frameIndex >= s.maxFrames)
}

func (s *StubSource) Close() error {
	s.closed = true
	return nil
}
