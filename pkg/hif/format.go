package hif

import (
	"encoding/binary"
	"fmt"
)

// Format is the element type of a frame payload.
type Format byte

// Format codes as they appear on the wire.
const (
	FormatUint8 Format = iota
	FormatInt8
	FormatUint16
	FormatInt16
	FormatUint32
	FormatInt32
)

// FormatFlags are reserved bits in the format byte, set when sending
// and masked off when receiving.
const FormatFlags byte = 0x30

var formatTable = [...]struct {
	name   string
	width  int
	signed bool
}{
	FormatUint8:  {"uint8", 1, false},
	FormatInt8:   {"int8", 1, true},
	FormatUint16: {"uint16", 2, false},
	FormatInt16:  {"int16", 2, true},
	FormatUint32: {"uint32", 4, false},
	FormatInt32:  {"int32", 4, true},
}

// Formats lists all supported formats in code order.
func Formats() []Format {
	formats := make([]Format, len(formatTable))
	for n := range formatTable {
		formats[n] = Format(n)
	}
	return formats
}

// FormatFromCode decodes a format byte received from the wire.
func FormatFromCode(code byte) (Format, error) {
	f := Format(code &^ FormatFlags)
	if !f.IsValid() {
		return 0, &ProtocolError{Reason: fmt.Sprintf("invalid format byte 0x%02x", code)}
	}
	return f, nil
}

// ParseFormat looks up a format by name, e.g. "int16".
func ParseFormat(name string) (Format, error) {
	for n, info := range formatTable {
		if info.name == name {
			return Format(n), nil
		}
	}
	return 0, &UnsupportedTypeError{Type: name}
}

// IsValid indicates the format is in the table.
func (f Format) IsValid() bool {
	return int(f) < len(formatTable)
}

// Width is the element size in bytes.
func (f Format) Width() int {
	return formatTable[f].width
}

// Signed indicates a signed integer format.
func (f Format) Signed() bool {
	return formatTable[f].signed
}

// Min is the smallest representable value.
func (f Format) Min() int64 {
	if !f.Signed() {
		return 0
	}
	return -1 << uint(f.Width()*8-1)
}

// Max is the largest representable value.
func (f Format) Max() int64 {
	if f.Signed() {
		return 1<<uint(f.Width()*8-1) - 1
	}
	return 1<<uint(f.Width()*8) - 1
}

// Truncate converts v to the format with two's complement wrap around,
// e.g. -1 becomes 255 for uint8.
func (f Format) Truncate(v int64) int64 {
	var b [4]byte
	f.put(b[:], v)
	return f.get(b[:])
}

// String implements fmt.Stringer.
func (f Format) String() string {
	if !f.IsValid() {
		return fmt.Sprintf("format(%d)", byte(f))
	}
	return formatTable[f].name
}

func (f Format) put(b []byte, v int64) {
	switch f.Width() {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	default:
		binary.LittleEndian.PutUint32(b, uint32(v))
	}
}

func (f Format) get(b []byte) int64 {
	switch f {
	case FormatUint8:
		return int64(b[0])
	case FormatInt8:
		return int64(int8(b[0]))
	case FormatUint16:
		return int64(binary.LittleEndian.Uint16(b))
	case FormatInt16:
		return int64(int16(binary.LittleEndian.Uint16(b)))
	case FormatUint32:
		return int64(binary.LittleEndian.Uint32(b))
	default:
		return int64(int32(binary.LittleEndian.Uint32(b)))
	}
}
