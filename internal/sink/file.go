package sink

import (
	"encoding/binary"
	"os"
)

// File writes raw interleaved samples to a regular file
// (`output-type: file`), useful for offline analysis or piping into a
// separate SDR tool.
type File struct {
	f *os.File
}

// NewFile creates (truncating) the file at path.
func NewFile(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errDeviceWrite("create output file", err)
	}
	return &File{f: f}, nil
}

func (s *File) WriteInt8(samples []int8) error {
	buf := make([]byte, len(samples))
	for i, v := range samples {
		buf[i] = byte(v)
	}
	if _, err := s.f.Write(buf); err != nil {
		return errDeviceWrite("write", err)
	}
	return nil
}

func (s *File) WriteInt16(samples []int16) error {
	buf := make([]byte, len(samples)*2)
	for i, v := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(v))
	}
	if _, err := s.f.Write(buf); err != nil {
		return errDeviceWrite("write", err)
	}
	return nil
}

func (s *File) Close() error {
	return s.f.Close()
}
