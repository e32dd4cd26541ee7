// Package config resolves the command-line and YAML configuration
// surface into a validated Config: mode, frequency, sample rate, gain,
// output sink, teletext/subtitle/overlay options, and
// conditional-access scrambler selection. CLI flags are parsed with
// `github.com/spf13/pflag` (GNU-style long flags); an optional YAML
// file supplies the same keys, with flags overriding file values.
package config

import (
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/SarahRoseLives/hacktv/internal/herr"
)

// OutputType selects the sink the composed/modulated signal is written to.
type OutputType string

const (
	OutputFile   OutputType = "file"
	OutputHackRF OutputType = "hackrf"
	OutputFl2k   OutputType = "fl2k"
)

// WSSMode selects the line 23 Wide Screen Signalling behaviour.
type WSSMode string

const (
	WSSAuto WSSMode = "auto"
	WSS43   WSSMode = "4:3"
	WSS169  WSSMode = "16:9"
	WSSOff  WSSMode = "off"
)

// Config is the full knob set, resolved from a YAML file (if given) and
// then overridden by any CLI flags the user actually passed.
type Config struct {
	Mode       string  `yaml:"mode"`
	Frequency  float64 `yaml:"frequency"`   // Hz; 0 = baseband output
	SampleRate float64 `yaml:"sample-rate"` // Hz; 0 = use the mode's native rate
	Gain       float64 `yaml:"gain"`        // dB

	OutputType OutputType `yaml:"output-type"`
	OutputPath string     `yaml:"output-path"` // used when OutputType is "file"
	Device     string     `yaml:"device"`      // HackRF/fl2k device selector

	Teletext    string `yaml:"teletext"` // directory of .tti page files
	Subtitles   string `yaml:"subtitles"`
	TxSubtitles bool   `yaml:"tx-subtitles"`

	Logo      string `yaml:"logo"`
	Timestamp bool   `yaml:"timestamp"`

	PositionMinutes float64 `yaml:"position"`
	Letterbox       bool    `yaml:"letterbox"`
	Pillarbox       bool    `yaml:"pillarbox"`

	Downmix bool    `yaml:"downmix"`
	Volume  float64 `yaml:"volume"`

	WSS       WSSMode `yaml:"wss"`
	Scrambler string  `yaml:"scrambler"`
	Key       string  `yaml:"key"`

	Source string `yaml:"source"` // input file/device; "test" for the built-in test card
}

// Default returns a Config with conservative defaults: PAL-I to a local
// file, moderate gain, no scrambling.
func Default() Config {
	return Config{
		Mode:       "pal-i",
		Frequency:  1280_000_000,
		SampleRate: 0,
		Gain:       30,
		OutputType: OutputFile,
		OutputPath: "out.iq",
		Volume:     1.0,
		WSS:        WSSAuto,
		Scrambler:  "none",
		Source:     "test",
	}
}

// Load reads an optional YAML file at path (skipped if path is empty),
// then parses os.Args-style flags over it with pflag, flags winning over
// file values wherever both are set. The merged result is validated
// before use.
func Load(args []string, path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return Config{}, err
		}
	}

	fs := pflag.NewFlagSet("hacktv", pflag.ContinueOnError)
	// --config is consumed by the caller before Load runs (the file must
	// be read before flags can override it); registered here so pflag
	// accepts it instead of rejecting an unknown flag.
	fs.String("config", path, "Path to a YAML configuration file")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "TV mode (pal-i, pal-b, ntsc-m, secam-l, mac-d, mac-d2)")
	fs.Float64Var(&cfg.Frequency, "frequency", cfg.Frequency, "Transmit frequency in Hz (0 = baseband)")
	fs.Float64Var(&cfg.SampleRate, "sample-rate", cfg.SampleRate, "Output sample rate in Hz (0 = mode native rate)")
	fs.Float64Var(&cfg.Gain, "gain", cfg.Gain, "Output gain in dB")
	fs.StringVar((*string)(&cfg.OutputType), "output-type", string(cfg.OutputType), "Output sink: file, hackrf, fl2k")
	fs.StringVar(&cfg.OutputPath, "output", cfg.OutputPath, "Output file path (output-type=file)")
	fs.StringVar(&cfg.Device, "device", cfg.Device, "Output device selector (output-type=hackrf/fl2k)")
	fs.StringVar(&cfg.Teletext, "teletext", cfg.Teletext, "Directory of .tti teletext page files")
	fs.StringVar(&cfg.Subtitles, "subtitles", cfg.Subtitles, "Subtitle stream path or index")
	fs.BoolVar(&cfg.TxSubtitles, "tx-subtitles", cfg.TxSubtitles, "Transmit subtitles on teletext page 888 instead of burning them in")
	fs.StringVar(&cfg.Logo, "logo", cfg.Logo, "Path to a logo image to overlay")
	fs.BoolVar(&cfg.Timestamp, "timestamp", cfg.Timestamp, "Overlay a wall-clock timestamp")
	fs.Float64Var(&cfg.PositionMinutes, "position", cfg.PositionMinutes, "Start offset into the source, in minutes")
	fs.BoolVar(&cfg.Letterbox, "letterbox", cfg.Letterbox, "Letterbox 16:9 content into a 4:3 raster")
	fs.BoolVar(&cfg.Pillarbox, "pillarbox", cfg.Pillarbox, "Pillarbox 4:3 content into a 16:9 raster")
	fs.BoolVar(&cfg.Downmix, "downmix", cfg.Downmix, "Downmix stereo audio to mono (both channels carry the left/right average)")
	fs.Float64Var(&cfg.Volume, "volume", cfg.Volume, "Audio volume multiplier")
	fs.StringVar((*string)(&cfg.WSS), "wss", string(cfg.WSS), "Wide Screen Signalling: auto, 4:3, 16:9, off")
	fs.StringVar(&cfg.Scrambler, "scrambler", cfg.Scrambler, "Conditional-access scrambler: none, vc-sky-06..12, vc-tac, vc-xtea, vc-mc, vc-ppv, vc2-mc, syster, d11")
	fs.StringVar(&cfg.Key, "key", cfg.Key, "Opaque scrambler key selector")
	fs.StringVar(&cfg.Source, "source", cfg.Source, "Input source: \"test\" or a file/device path")

	if err := fs.Parse(args); err != nil {
		return Config{}, herr.Wrap(herr.InvalidConfig, "config: parse flags", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return herr.Wrap(herr.IoError, "config: read file", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return herr.Wrap(herr.InvalidConfig, "config: parse yaml", err)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.OutputType {
	case OutputFile, OutputHackRF, OutputFl2k:
	default:
		return herr.New(herr.InvalidConfig, "config: unknown output-type "+string(c.OutputType))
	}
	if c.SampleRate < 0 {
		return herr.New(herr.InvalidConfig, "config: sample-rate must be non-negative")
	}
	if c.Gain < 0 {
		return herr.New(herr.InvalidConfig, "config: gain must be non-negative")
	}
	if c.Volume < 0 {
		return herr.New(herr.InvalidConfig, "config: volume must be non-negative")
	}
	return nil
}
