package hif

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Control and marker bytes.
const (
	// MarkerOutbound starts a frame sent by the host.
	MarkerOutbound byte = '<'
	// MarkerInbound starts a frame sent by the device.
	MarkerInbound byte = '>'
	// ReadyByte signals the peer is ready for payload.
	ReadyByte byte = 'a'
	// AckByte acknowledges a complete transfer.
	AckByte byte = '^'
)

// HeaderSize is the header length following the marker.
const HeaderSize = 6

// Header describes the payload of a frame.
type Header struct {
	Format Format
	Tag    byte
	Count  uint32
}

// PayloadSize is the payload length in bytes, or -1 if it doesn't fit
// in an int.
func (h Header) PayloadSize() int {
	size := uint64(h.Count) * uint64(h.Format.Width())
	if size > math.MaxInt {
		return -1
	}
	return int(size)
}

// Encode packs the header after the given marker.
func (h Header) Encode(marker byte) []byte {
	b := make([]byte, HeaderSize+1)
	b[0] = marker
	b[1] = byte(h.Format) | FormatFlags
	b[2] = h.Tag
	binary.LittleEndian.PutUint32(b[3:], h.Count)
	return b
}

// EncodeOutboundHeader packs a header sent by the host.
func EncodeOutboundHeader(h Header) []byte {
	return h.Encode(MarkerOutbound)
}

// DecodeHeader unpacks the HeaderSize bytes following the marker.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) != HeaderSize {
		return Header{}, &ProtocolError{Reason: fmt.Sprintf("header size %d", len(b))}
	}
	f, err := FormatFromCode(b[0])
	if err != nil {
		return Header{}, err
	}
	return Header{
		Format: f,
		Tag:    b[1],
		Count:  binary.LittleEndian.Uint32(b[2:]),
	}, nil
}

// Vector is a tagged sequence of integers of one format.
type Vector struct {
	Format Format
	Tag    byte
	Values []int64
}

// NewVector creates a Vector.
func NewVector(f Format, tag byte, values ...int64) Vector {
	return Vector{Format: f, Tag: tag, Values: values}
}

// Int16Vector creates an int16 Vector, e.g. from audio samples.
func Int16Vector(tag byte, samples []int16) Vector {
	v := Vector{Format: FormatInt16, Tag: tag, Values: make([]int64, len(samples))}
	for n, s := range samples {
		v.Values[n] = int64(s)
	}
	return v
}

// Int16s returns the values as int16, truncating if the format is wider.
func (v Vector) Int16s() []int16 {
	out := make([]int16, len(v.Values))
	for n, val := range v.Values {
		out[n] = int16(val)
	}
	return out
}

// Header returns the frame header for the vector.
func (v Vector) Header() Header {
	return Header{Format: v.Format, Tag: v.Tag, Count: uint32(len(v.Values))}
}

// Validate checks the format and that all values are representable.
func (v Vector) Validate() error {
	if !v.Format.IsValid() {
		return &UnsupportedTypeError{Type: v.Format.String()}
	}
	lo, hi := v.Format.Min(), v.Format.Max()
	for n, val := range v.Values {
		if val < lo || val > hi {
			return &ValueRangeError{Format: v.Format, Index: n, Value: val}
		}
	}
	return nil
}

// String implements fmt.Stringer.
func (v Vector) String() string {
	return fmt.Sprintf("%s[%d] tag=0x%02x %v", v.Format, len(v.Values), v.Tag, v.Values)
}

// EncodePayload packs values as little-endian elements.
func EncodePayload(v Vector) ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	w := v.Format.Width()
	b := make([]byte, len(v.Values)*w)
	for n, val := range v.Values {
		v.Format.put(b[n*w:], val)
	}
	return b, nil
}

// DecodePayload unpacks little-endian elements.
func DecodePayload(f Format, b []byte) ([]int64, error) {
	if !f.IsValid() {
		return nil, &UnsupportedTypeError{Type: f.String()}
	}
	w := f.Width()
	if len(b)%w != 0 {
		return nil, &ProtocolError{Reason: fmt.Sprintf("payload size %d not a multiple of %d", len(b), w)}
	}
	values := make([]int64, len(b)/w)
	for n := range values {
		values[n] = f.get(b[n*w:])
	}
	return values, nil
}
