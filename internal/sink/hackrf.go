// HackRF wraps github.com/samuel/go-hackrf/hackrf as a push sink fed by
// the IQ modulator: WriteInt8 enqueues a chunk of already-modulated
// samples, and the hardware's StartTX callback drains the queue over a
// bounded channel, zero-filling the device buffer when nothing is
// queued yet.
package sink

import (
	"errors"

	"github.com/samuel/go-hackrf/hackrf"
)

var errSinkClosed = errors.New("sink closed")

// hackrfQueueDepth bounds how many chunks may be queued ahead of the
// device callback; nothing in the pipeline buffers without a bound.
const hackrfQueueDepth = 8

// HackRF is a Sink that transmits over an open HackRF device.
type HackRF struct {
	dev    *hackrf.Device
	chunks chan []byte
	done   chan struct{}
}

// NewHackRF configures dev's frequency, sample rate and TX gain, then
// starts the transmit callback, which pulls queued sample chunks pushed
// via WriteInt8.
func NewHackRF(dev *hackrf.Device, freqHz uint64, sampleRate, gainDB float64) (*HackRF, error) {
	if err := dev.SetFreq(freqHz); err != nil {
		return nil, errDeviceWrite("set frequency", err)
	}
	if err := dev.SetSampleRate(sampleRate); err != nil {
		return nil, errDeviceWrite("set sample rate", err)
	}
	if err := dev.SetTXVGAGain(int(gainDB)); err != nil {
		return nil, errDeviceWrite("set tx gain", err)
	}
	if err := dev.SetAmpEnable(false); err != nil {
		return nil, errDeviceWrite("set amp enable", err)
	}

	s := &HackRF{
		dev:    dev,
		chunks: make(chan []byte, hackrfQueueDepth),
		done:   make(chan struct{}),
	}

	var pending []byte
	var pendingPos int
	err := dev.StartTX(func(buf []byte) error {
		n := 0
		for n < len(buf) {
			if pendingPos >= len(pending) {
				select {
				case pending = <-s.chunks:
					pendingPos = 0
				case <-s.done:
					for i := n; i < len(buf); i++ {
						buf[i] = 0
					}
					return nil
				default:
					for i := n; i < len(buf); i++ {
						buf[i] = 0
					}
					return nil
				}
			}
			take := len(pending) - pendingPos
			if take > len(buf)-n {
				take = len(buf) - n
			}
			copy(buf[n:], pending[pendingPos:pendingPos+take])
			pendingPos += take
			n += take
		}
		return nil
	})
	if err != nil {
		return nil, errDeviceWrite("start tx", err)
	}
	return s, nil
}

// WriteInt8 converts samples to their native byte layout and enqueues
// them for the transmit callback; it blocks if the queue is full.
func (s *HackRF) WriteInt8(samples []int8) error {
	buf := make([]byte, len(samples))
	for i, v := range samples {
		buf[i] = byte(v)
	}
	select {
	case s.chunks <- buf:
		return nil
	case <-s.done:
		return errDeviceWrite("write", errSinkClosed)
	}
}

// WriteInt16 keeps the top byte of each sample, since the HackRF wire
// format is 8-bit, and enqueues the result via WriteInt8.
func (s *HackRF) WriteInt16(samples []int16) error {
	buf := make([]int8, len(samples))
	for i, v := range samples {
		buf[i] = int8(v >> 8)
	}
	return s.WriteInt8(buf)
}

func (s *HackRF) Close() error {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	return s.dev.Close()
}

