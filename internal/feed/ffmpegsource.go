package feed

import (
	"encoding/binary"
	"io"
	"os/exec"
	"strconv"
	"time"

	"github.com/go-audio/audio"

	"github.com/SarahRoseLives/hacktv/internal/herr"
	"github.com/SarahRoseLives/hacktv/internal/mode"
	"github.com/SarahRoseLives/hacktv/internal/video"
)

// FFmpegSource is a Source backed by two FFmpeg subprocesses, one
// producing raw RGB24 video frames and one producing raw 16-bit PCM
// stereo audio. FFmpeg does all demuxing and codec work; this type only
// drives its stdout pipes, so any input FFmpeg's own demuxers understand
// (file, URL, v4l2/avfoundation/dshow device) works unchanged.
//
// Each pipe is drained by a reader goroutine into a byte-bounded
// PacketQueue, so FFmpeg can run ahead of the composer by at most the
// queue capacity before the pipe itself backpressures; ReadVideo and
// ReadAudio pop from the queues.
type FFmpegSource struct {
	desc mode.Descriptor

	videoCmd *exec.Cmd
	videoQ   *PacketQueue
	frameIdx int64

	audioCmd   *exec.Cmd
	audioQ     *PacketQueue
	sampleRate int

	eof bool
}

// ffmpegCommonArgs keeps FFmpeg from buffering ahead of the line
// composer's pull rate.
var ffmpegCommonArgs = []string{
	"-hide_banner", "-loglevel", "error",
	"-fflags", "nobuffer", "-flags", "low_delay",
}

// Letterbox and Pillarbox select the scaling aspect-ratio policy; both
// false stretches the source to the mode's raster.
type Letterbox struct {
	Letterbox, Pillarbox bool
}

// NewFFmpegSource spawns FFmpeg against input (a file path, URL, or
// device specifier FFmpeg's own `-f` demuxer understands -- any
// OS-dependent `-f v4l2/avfoundation/dshow` prefix goes in inputArgs).
func NewFFmpegSource(desc mode.Descriptor, inputArgs []string, input string, box Letterbox, startOffset time.Duration) (*FFmpegSource, error) {
	s := &FFmpegSource{
		desc:       desc,
		sampleRate: int(desc.AudioRate.Float64()),
		videoQ:     NewPacketQueue(0),
		audioQ:     NewPacketQueue(0),
	}

	// -ss is an input option: it must precede -i to get fast input-side
	// seeking rather than being mistaken for the input name.
	var seekArgs []string
	if startOffset > 0 {
		seekArgs = append(seekArgs, "-ss", strconv.FormatFloat(startOffset.Seconds(), 'f', 3, 64))
	}
	seekArgs = append(seekArgs, inputArgs...)

	videoArgs := append(append([]string{}, seekArgs...), input)
	videoArgs = append(videoArgs, ffmpegCommonArgs...)
	videoArgs = append(videoArgs,
		"-an", "-f", "rawvideo", "-pix_fmt", "rgb24",
		"-vf", scaleFilter(desc, box), "-")
	s.videoCmd = exec.Command("ffmpeg", videoArgs...)
	vout, err := s.videoCmd.StdoutPipe()
	if err != nil {
		return nil, herr.Wrap(herr.IoError, "ffmpeg: video stdout pipe", err)
	}
	if err := s.videoCmd.Start(); err != nil {
		return nil, herr.Wrap(herr.IoError, "ffmpeg: start video capture", err)
	}

	audioArgs := append(append([]string{}, seekArgs...), input)
	audioArgs = append(audioArgs, ffmpegCommonArgs...)
	audioArgs = append(audioArgs,
		"-vn", "-f", "s16le", "-ac", "2", "-ar", strconv.Itoa(s.sampleRate), "-")
	s.audioCmd = exec.Command("ffmpeg", audioArgs...)
	aout, err := s.audioCmd.StdoutPipe()
	if err != nil {
		return nil, herr.Wrap(herr.IoError, "ffmpeg: audio stdout pipe", err)
	}
	if err := s.audioCmd.Start(); err != nil {
		return nil, herr.Wrap(herr.IoError, "ffmpeg: start audio capture", err)
	}

	const audioBlockSamples = 1024
	go drainPipe(vout, desc.PictureWidth*desc.PictureHeight*3, s.videoQ)
	go drainPipe(aout, audioBlockSamples*2*2, s.audioQ) // stereo, 16-bit

	return s, nil
}

// drainPipe reads fixed-size blocks from an FFmpeg stdout pipe into q
// until the pipe closes, then marks the queue EOF. A Write against an
// aborted queue (Close was called) ends the drain early.
func drainPipe(r io.ReadCloser, blockSize int, q *PacketQueue) {
	defer q.CloseEOF()
	var pts int64
	for {
		buf := make([]byte, blockSize)
		if _, err := io.ReadFull(r, buf); err != nil {
			return
		}
		if err := q.Write(Packet{PTS: pts, Data: buf}); err != nil {
			return
		}
		pts++
	}
}

func scaleFilter(desc mode.Descriptor, box Letterbox) string {
	w, h := strconv.Itoa(desc.PictureWidth), strconv.Itoa(desc.PictureHeight)
	fps := "fps=" + strconv.FormatInt(desc.FrameRate.Num, 10) + "/" + strconv.FormatInt(desc.FrameRate.Den, 10)
	switch {
	case box.Letterbox, box.Pillarbox:
		return "scale=" + w + ":" + h + ":force_original_aspect_ratio=decrease,pad=" +
			w + ":" + h + ":(ow-iw)/2:(oh-ih)/2,setsar=1," + fps
	default:
		return "scale=" + w + ":" + h + "," + fps
	}
}

// ReadVideo pops one fixed-size RGB24 frame off the demux queue and
// stamps it with a PTS derived from a running frame counter at the
// mode's frame rate, the rawvideo pipe carrying no timestamps of its
// own.
func (s *FFmpegSource) ReadVideo() (*video.Frame, bool, error) {
	if s.eof {
		return nil, false, nil
	}
	p, ok, err := s.videoQ.Read()
	if err != nil {
		s.eof = true
		return nil, false, herr.Wrap(herr.DecodeError, "ffmpeg: read video frame", err)
	}
	if !ok {
		s.eof = true
		return nil, false, nil
	}
	f := video.NewFrame(s.desc.PictureWidth, s.desc.PictureHeight)
	for i := 0; i < len(f.Pix); i++ {
		r, g, b := p.Data[i*3], p.Data[i*3+1], p.Data[i*3+2]
		f.Pix[i] = uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	}
	if s.desc.Interlaced {
		f.Interlace = mode.TopFirst
	} else {
		f.Interlace = mode.Progressive
	}
	num, den := s.desc.FrameRate.Num, s.desc.FrameRate.Den
	f.PTS = time.Duration(s.frameIdx) * time.Duration(den) * time.Second / time.Duration(num)
	s.frameIdx++
	return f, true, nil
}

// ReadAudio pops one fixed-size block of interleaved stereo 16-bit PCM
// off the demux queue and converts it to the shared go-audio FloatBuffer
// the feed pipeline and NICAM/FM sound subcarrier stages consume.
func (s *FFmpegSource) ReadAudio() (*audio.FloatBuffer, bool, error) {
	p, ok, err := s.audioQ.Read()
	if err != nil {
		return nil, false, herr.Wrap(herr.DecodeError, "ffmpeg: read audio block", err)
	}
	if !ok {
		return nil, false, nil
	}
	n := len(p.Data) / 2
	buf := &audio.FloatBuffer{
		Format: AudioFormat(s.sampleRate, 2),
		Data:   make([]float64, n),
	}
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(p.Data[i*2:]))
		buf.Data[i] = float64(v) / 32768.0
	}
	return buf, true, nil
}

func (s *FFmpegSource) EOF() bool { return s.eof }

func (s *FFmpegSource) Close() error {
	s.eof = true
	s.videoQ.Abort()
	s.audioQ.Abort()
	if s.videoCmd != nil && s.videoCmd.Process != nil {
		_ = s.videoCmd.Process.Kill()
	}
	if s.audioCmd != nil && s.audioCmd.Process != nil {
		_ = s.audioCmd.Process.Kill()
	}
	return nil
}
