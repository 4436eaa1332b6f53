package hif

import (
	"errors"
	"fmt"
	"time"

	"github.com/robotalks/hif.go/pkg/serial"
)

var (
	// ErrConnection indicates the port is unavailable.
	ErrConnection = serial.ErrConnection
	// ErrProtocol indicates the peer violated the protocol.
	ErrProtocol = errors.New("protocol error")
	// ErrTimeout indicates a bounded wait expired.
	ErrTimeout = errors.New("timeout")
	// ErrAckTimeout indicates the peer didn't acknowledge a transfer.
	// Errors matching it also match ErrTimeout.
	ErrAckTimeout = errors.New("transfer not acknowledged")
	// ErrChecksumMismatch indicates the integrity check failed.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrUnsupportedType indicates an element type outside the format table.
	ErrUnsupportedType = errors.New("unsupported type")
)

// Stages of the sender reported in TimeoutError.
const (
	StageReady = "ready"
	StageAck   = "ack"
)

// ProtocolError reports invalid data or unexpected peer behavior.
type ProtocolError struct {
	Reason string
	Err    error
}

// Error implements error.
func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol error: %s: %v", e.Reason, e.Err)
	}
	return "protocol error: " + e.Reason
}

// Unwrap returns the cause.
func (e *ProtocolError) Unwrap() error { return e.Err }

// Is matches ErrProtocol.
func (e *ProtocolError) Is(target error) bool { return target == ErrProtocol }

// TimeoutError reports which wait expired.
type TimeoutError struct {
	Stage string
	After time.Duration
}

// Error implements error.
func (e *TimeoutError) Error() string {
	if e.Stage == StageAck {
		return fmt.Sprintf("%v after %v", ErrAckTimeout, e.After)
	}
	return fmt.Sprintf("timeout in %s after %v", e.Stage, e.After)
}

// Is matches ErrTimeout, and ErrAckTimeout for the ack stage.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout || (target == ErrAckTimeout && e.Stage == StageAck)
}

// ChecksumError is returned when the received checksum doesn't match
// the payload. The decoded vector is attached so the caller can decide
// whether to use it.
type ChecksumError struct {
	Received uint16
	Computed uint16
	Vector   Vector
}

// Error implements error.
func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch: received 0x%04x computed 0x%04x", e.Received, e.Computed)
}

// Is matches ErrChecksumMismatch.
func (e *ChecksumError) Is(target error) bool { return target == ErrChecksumMismatch }

// UnsupportedTypeError names a type absent from the format table.
type UnsupportedTypeError struct {
	Type string
}

// Error implements error.
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %q", e.Type)
}

// Is matches ErrUnsupportedType.
func (e *UnsupportedTypeError) Is(target error) bool { return target == ErrUnsupportedType }

// ValueRangeError reports an element which doesn't fit its format.
type ValueRangeError struct {
	Format Format
	Index  int
	Value  int64
}

// Error implements error.
func (e *ValueRangeError) Error() string {
	return fmt.Sprintf("value %d at %d out of range for %s", e.Value, e.Index, e.Format)
}
