// Command hacktv synthesizes a baseband or low-IF analog television
// signal from a video/audio source: config -> mode descriptor -> feed
// pipeline -> line composer -> IQ modulator -> sample sink. This is the
// thin CLI wiring layer; every concern it touches (config resolution,
// device capture, scrambling, modulation) lives in internal/ and is
// fully testable on its own.
//
// Exit codes: 0 success, 1 open/config failure, 2 clean end-of-stream,
// 3 device/hardware error.
package main

import (
	"fmt"
	"image"
	_ "image/png"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/samuel/go-hackrf/hackrf"

	"github.com/SarahRoseLives/hacktv/internal/colour"
	"github.com/SarahRoseLives/hacktv/internal/compose"
	"github.com/SarahRoseLives/hacktv/internal/config"
	"github.com/SarahRoseLives/hacktv/internal/dsp"
	"github.com/SarahRoseLives/hacktv/internal/feed"
	"github.com/SarahRoseLives/hacktv/internal/herr"
	"github.com/SarahRoseLives/hacktv/internal/iq"
	"github.com/SarahRoseLives/hacktv/internal/mode"
	"github.com/SarahRoseLives/hacktv/internal/overlay"
	"github.com/SarahRoseLives/hacktv/internal/rational"
	"github.com/SarahRoseLives/hacktv/internal/scramble"
	"github.com/SarahRoseLives/hacktv/internal/sink"
	"github.com/SarahRoseLives/hacktv/internal/subtitle"
	"github.com/SarahRoseLives/hacktv/internal/teletext"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load(args, extractConfigPath(args))
	if err != nil {
		log.Printf("config: %v", err)
		return 1
	}

	desc, err := resolveMode(cfg)
	if err != nil {
		log.Printf("config: %v", err)
		return 1
	}

	scrambler, err := scramble.New(cfg.Scrambler, cfg.Key, desc.SampleRate.Float64())
	if err != nil {
		log.Printf("scramble: %v", err)
		return 1
	}

	var teletextStore *teletext.PageStore
	if cfg.Teletext != "" || cfg.TxSubtitles {
		teletextStore = teletext.NewPageStore()
		if cfg.Teletext != "" {
			if err := teletextStore.LoadDir(cfg.Teletext); err != nil {
				log.Printf("teletext: %v", err)
				return 1
			}
		}
	}

	subs, err := loadSubtitles(cfg)
	if err != nil {
		log.Printf("subtitles: %v", err)
		return 1
	}

	// One List carries one monotonic cursor, so it feeds either the
	// teletext path or the burn-in overlay, not both at once.
	burnIn := subs
	if cfg.TxSubtitles {
		burnIn = nil
	}
	overlayC := buildOverlay(cfg, burnIn)

	src, err := buildSource(cfg, desc)
	if err != nil {
		log.Printf("source: %v", err)
		return 1
	}

	pipeline := feed.NewPipeline(src, desc)
	pipeline.Start()
	defer pipeline.Abort()

	composer := compose.New(desc, pipeline.Video, pipeline.Audio, scrambler, teletextStore, overlayC)
	composer.SetAudioGain(cfg.Volume, cfg.Downmix)
	composer.SetWSS(resolveWSS(cfg.WSS), cfg.WSS == config.WSSOff)
	if cfg.TxSubtitles && subs != nil {
		composer.SetTxSubtitles(subs)
	}

	modulator := buildModulator(cfg, desc)

	out, err := buildSink(cfg, desc)
	if err != nil {
		log.Printf("sink: %v", err)
		return 1
	}
	defer out.Close()

	const pullSamples = 4096
	for {
		select {
		case err := <-pipeline.Errors():
			if herr.Is(err, herr.DecodeError) {
				log.Printf("decode: %v (continuing)", err)
				continue
			}
			log.Printf("pipeline: %v", err)
			return 2 // input EOF with clean shutdown
		default:
		}

		baseband := composer.Pull(pullSamples)
		iqSamples := modulator.Modulate(baseband)

		var writeErr error
		if cfg.OutputType == config.OutputHackRF || cfg.OutputType == config.OutputFl2k {
			writeErr = out.WriteInt8(iq.ToInt8(iqSamples))
		} else {
			writeErr = out.WriteInt16(iq.ToInt16(iqSamples))
		}
		if writeErr != nil {
			log.Printf("sink write: %v", writeErr)
			return 3
		}
	}
}

// extractConfigPath pre-scans args for "--config"/"-config" so the YAML
// file can be loaded before the rest of the flags (which may override
// it) are parsed by config.Load's pflag set.
func extractConfigPath(args []string) string {
	for i, a := range args {
		switch {
		case a == "--config" || a == "-config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case len(a) > len("--config=") && a[:len("--config=")] == "--config=":
			return a[len("--config="):]
		}
	}
	return ""
}

// resolveWSS maps the `wss` knob onto a teletext.WSSFormat. "auto"
// would ideally mirror the source's own aspect ratio, but nothing
// upstream of the composer currently tracks that, so it resolves to
// 4:3, the same default real WSS-less broadcasts assume.
func resolveWSS(m config.WSSMode) teletext.WSSFormat {
	if m == config.WSS169 {
		return teletext.WSS16x9
	}
	return teletext.WSS4x3
}

// resolveMode looks up the configured mode, re-deriving its timing
// tables at the custom output sample rate when `sample-rate` is set;
// 0 keeps the catalogue's native rate.
func resolveMode(cfg config.Config) (mode.Descriptor, error) {
	if cfg.SampleRate != 0 {
		return mode.LookupAt(cfg.Mode, rational.New(int64(cfg.SampleRate), 1))
	}
	desc, ok := mode.Lookup(cfg.Mode)
	if !ok {
		return mode.Descriptor{}, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
	return desc, nil
}

// loadSubtitles resolves the `subtitles` knob: a bare stream index
// extracts that text-subtitle stream from the source via FFmpeg,
// anything else is treated as a SubRip file path. Empty means none.
func loadSubtitles(cfg config.Config) (*subtitle.List, error) {
	if cfg.Subtitles == "" {
		return nil, nil
	}
	start := time.Duration(cfg.PositionMinutes * float64(time.Minute))
	if idx, err := strconv.Atoi(cfg.Subtitles); err == nil {
		return subtitle.ExtractFFmpeg(cfg.Source, idx, start)
	}
	return subtitle.LoadSRT(cfg.Subtitles)
}

func buildSource(cfg config.Config, desc mode.Descriptor) (feed.Source, error) {
	if cfg.Source == "" || cfg.Source == "test" {
		return feed.NewStubSource(desc, 0), nil
	}
	box := feed.Letterbox{Letterbox: cfg.Letterbox, Pillarbox: cfg.Pillarbox}
	start := time.Duration(cfg.PositionMinutes * float64(time.Minute))
	return feed.NewFFmpegSource(desc, []string{"-i"}, cfg.Source, box, start)
}

// buildModulator picks the IQ up-conversion scheme from the mode family
// and the configured frequency: baseband output (frequency 0) always
// passes through untouched; the MAC family rides FM-wide, its satellite
// transmission convention; every analogue composite colour system
// (PAL/NTSC/SECAM) rides AM-VSB, the System I/B/G/M/N UHF convention.
func buildModulator(cfg config.Config, desc mode.Descriptor) *iq.Modulator {
	sampleRate := desc.SampleRate.Float64()
	if cfg.Frequency == 0 {
		return iq.NewModulator(iq.Baseband, 0, sampleRate, nil, 0, cfg.Gain)
	}
	if desc.ColourSystem == colour.None {
		return iq.NewModulator(iq.FMWide, cfg.Frequency, sampleRate, nil, 2_000_000, cfg.Gain)
	}
	vsbCutoff := desc.Chroma.Float64() + 1_250_000
	taps := dsp.RaisedCosineVSB(65, vsbCutoff, 750_000, sampleRate)
	return iq.NewModulator(iq.AMVSB, cfg.Frequency, sampleRate, taps, 0, cfg.Gain)
}

func buildSink(cfg config.Config, desc mode.Descriptor) (sink.Sink, error) {
	sampleRate := desc.SampleRate.Float64()
	switch cfg.OutputType {
	case config.OutputFile:
		return sink.NewFile(cfg.OutputPath)
	case config.OutputFl2k:
		return sink.NewFl2k(cfg.Device)
	case config.OutputHackRF:
		if err := hackrf.Init(); err != nil {
			return nil, herr.Wrap(herr.DeviceError, "hackrf: init", err)
		}
		dev, err := hackrf.Open()
		if err != nil {
			return nil, herr.Wrap(herr.DeviceError, "hackrf: open", err)
		}
		return sink.NewHackRF(dev, uint64(cfg.Frequency), sampleRate, cfg.Gain)
	default:
		return nil, herr.New(herr.InvalidConfig, "sink: unknown output-type "+string(cfg.OutputType))
	}
}

// buildOverlay wires the `logo`/`timestamp`/`subtitles` knobs into a
// Compositor. Logo decoding uses the standard library's image/png;
// text rasterization (the clock/timestamp and burned-in subtitle
// glyphs) stays behind the Compositor's TextRasterizer seam, so
// timestamp/subtitle overlays stay configured-but-inert until a font
// rasterizer is wired in.
func buildOverlay(cfg config.Config, subs *subtitle.List) *overlay.Compositor {
	if cfg.Logo == "" && !cfg.Timestamp && subs == nil {
		return nil
	}
	c := overlay.New(nil)
	c.ShowTimestamp = cfg.Timestamp
	c.Subtitles = subs
	if cfg.Logo != "" {
		img, err := loadLogo(cfg.Logo)
		if err != nil {
			log.Printf("overlay: logo %q: %v (skipping)", cfg.Logo, err)
		} else {
			c.Logo = img
		}
	}
	return c
}

func loadLogo(path string) (*overlay.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	b := src.Bounds()
	img := &overlay.Image{Width: b.Dx(), Height: b.Dy(), Pix: make([]uint32, b.Dx()*b.Dy())}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, a := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			img.Pix[y*b.Dx()+x] = (uint32(a>>8) << 24) | (uint32(r>>8) << 16) | (uint32(g>>8) << 8) | uint32(bl>>8)
		}
	}
	return img, nil
}
