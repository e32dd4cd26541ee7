// Package sink implements the sample output boundary the IQ modulator
// writes interleaved samples to. Three concrete sinks are provided for
// the config `output-type` knob: a plain file sink, a HackRF sink, and
// an fl2k sink.
package sink

import (
	"github.com/SarahRoseLives/hacktv/internal/herr"
)

// Sink is the sample output callback: WriteInt8 or WriteInt16 is handed
// one batch of samples per Composer/Modulator cycle. Write failures are
// fatal: the
// caller propagates a DeviceError and aborts the pipeline.
type Sink interface {
	// WriteInt8 writes interleaved 8-bit signed samples (HackRF/fl2k's
	// native wire format).
	WriteInt8(samples []int8) error
	// WriteInt16 writes interleaved 16-bit signed samples (the file
	// sink's higher-precision baseband format).
	WriteInt16(samples []int16) error
	Close() error
}

// errDeviceWrite wraps a low-level write failure as a DeviceError.
func errDeviceWrite(what string, cause error) error {
	return herr.Wrap(herr.DeviceError, "sink: "+what, cause)
}
