package detector

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// headerSize is the size of the width and height prefix of an encoded frame.
const headerSize = 4

var (
	// ErrShortFrame is returned when a payload is too small to hold a frame header.
	ErrShortFrame = errors.New("detector: frame shorter than its header")
	// ErrFrameSize is returned when the pixel data does not match the header.
	ErrFrameSize = errors.New("detector: frame size mismatch")
)

// Frame is a greyscale image, one byte per pixel, row major.
type Frame struct {
	Pixels []uint8
	Width  int
	Height int
}

// DecodeFrame parses a payload made of a big-endian uint16 width, a uint16
// height and width×height pixels. The pixels are not copied.
func DecodeFrame(b []byte) (Frame, error) {
	if len(b) < headerSize {
		return Frame{}, ErrShortFrame
	}
	w := int(binary.BigEndian.Uint16(b[0:2]))
	h := int(binary.BigEndian.Uint16(b[2:4]))
	if w == 0 || h == 0 {
		return Frame{}, fmt.Errorf("%w: empty %dx%d frame", ErrFrameSize, w, h)
	}
	pixels := b[headerSize:]
	if len(pixels) != w*h {
		return Frame{}, fmt.Errorf("%w: %dx%d needs %d bytes, got %d", ErrFrameSize, w, h, w*h, len(pixels))
	}
	return Frame{Pixels: pixels, Width: w, Height: h}, nil
}

// Encode returns the wire form of the frame.
func (f Frame) Encode() []byte {
	b := make([]byte, headerSize+len(f.Pixels))
	binary.BigEndian.PutUint16(b[0:2], uint16(f.Width))
	binary.BigEndian.PutUint16(b[2:4], uint16(f.Height))
	copy(b[headerSize:], f.Pixels)
	return b
}
