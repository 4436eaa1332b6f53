// Package serial provides the byte transport underneath the host interface.
//
// A Port may be backed by a local serial device, a remote device exposed
// over websocket, or an in-memory pipe. All implementations share the same
// read timeout semantics: Read returns 0, nil when nothing arrives within
// the configured read timeout, so callers can poll with their own deadline.
package serial

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Port represents an open link to a device.
type Port interface {
	io.ReadWriteCloser

	// SetReadTimeout bounds how long Read waits for the first byte.
	// Zero means Read blocks until data arrives.
	SetReadTimeout(time.Duration) error
	// Drain blocks until all written data has been transmitted.
	Drain() error
	// ResetInputBuffer discards received but unread data.
	ResetInputBuffer() error
	// ResetOutputBuffer discards written but untransmitted data.
	ResetOutputBuffer() error
}

// Supported drivers for local devices.
const (
	DriverNative = "native"
	DriverTarm   = "tarm"
)

// DefaultBaud is the baud rate used by the device firmware.
const DefaultBaud = 115200

// Config holds port configuration.
type Config struct {
	// Device is a path (e.g. "/dev/ttyACM0", "COM3") or a
	// ws:// URL of a remote port.
	Device string
	// Baud rate, ignored by remote ports.
	Baud int
	// Driver selects the local serial implementation, default is native.
	Driver string
	// ReadTimeout is the initial read timeout.
	ReadTimeout time.Duration
}

// DefaultConfig returns 115200 8-N-1 without flow control.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		Driver:      DriverNative,
		ReadTimeout: 10 * time.Millisecond,
	}
}

// ErrConnection indicates the port can't be opened.
var ErrConnection = errors.New("connection error")

// OpenError is returned when a port fails to open.
type OpenError struct {
	Device string
	Err    error
}

// Error implements error.
func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Device, e.Err)
}

// Unwrap returns the underlying cause.
func (e *OpenError) Unwrap() error {
	return e.Err
}

// Is matches ErrConnection.
func (e *OpenError) Is(target error) bool {
	return target == ErrConnection
}
