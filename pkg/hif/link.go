package hif

import (
	"time"

	"github.com/robotalks/hif.go/pkg/serial"
)

// Timeouts bound every blocking wait of a Link.
type Timeouts struct {
	// Sync bounds waiting for the marker of an incoming frame.
	Sync time.Duration
	// Idle bounds silence while receiving the rest of a frame.
	Idle time.Duration
	// Ready bounds waiting for the peer's ready byte.
	Ready time.Duration
	// Ack bounds waiting for the peer's acknowledgment.
	Ack time.Duration
}

// DefaultTimeouts returns the timeouts used by NewLink.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Sync:  10 * time.Second,
		Idle:  time.Second,
		Ready: time.Second,
		Ack:   time.Second,
	}
}

// bounded replaces non-positive timeouts with the defaults, so every
// wait has a limit.
func (t Timeouts) bounded() Timeouts {
	def := DefaultTimeouts()
	if t.Sync <= 0 {
		t.Sync = def.Sync
	}
	if t.Idle <= 0 {
		t.Idle = def.Idle
	}
	if t.Ready <= 0 {
		t.Ready = def.Ready
	}
	if t.Ack <= 0 {
		t.Ack = def.Ack
	}
	return t
}

// Default pacing of payload transmission.
const (
	DefaultChunkSize    = 8
	DefaultChunkDelay   = time.Millisecond
	DefaultPollInterval = time.Millisecond
)

// ProgressFunc is called after each payload chunk is written.
type ProgressFunc func(sent, total int)

// Link owns a port and runs transfers over it.
type Link struct {
	Port     serial.Port
	Timeouts Timeouts

	// ChunkSize is the number of payload bytes written at once,
	// 0 writes the payload in one piece.
	ChunkSize int
	// ChunkDelay paces chunks for the peer's receive buffer.
	ChunkDelay time.Duration
	// PollInterval is the longest single read while waiting.
	PollInterval time.Duration
	// Progress reports payload transmission.
	Progress ProgressFunc

	// SendMarker starts frames sent on this link.
	SendMarker byte

	parser      *Parser
	pending     []byte
	readBuf     []byte
	readTimeout time.Duration
}

// NewLink creates the host side of a link.
func NewLink(port serial.Port) *Link {
	return newLink(port, MarkerOutbound, MarkerInbound)
}

// NewPeerLink creates the device side of a link, which sends frames
// starting with '>' and receives frames starting with '<'.
func NewPeerLink(port serial.Port) *Link {
	return newLink(port, MarkerInbound, MarkerOutbound)
}

func newLink(port serial.Port, sendMarker, recvMarker byte) *Link {
	return &Link{
		Port:         port,
		Timeouts:     DefaultTimeouts(),
		ChunkSize:    DefaultChunkSize,
		ChunkDelay:   DefaultChunkDelay,
		PollInterval: DefaultPollInterval,
		SendMarker:   sendMarker,
		parser:       NewParser(recvMarker),
		readBuf:      make([]byte, 256),
		readTimeout:  -1,
	}
}

// Open opens the port described by cfg and creates the host side link.
func Open(cfg *serial.Config) (*Link, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, err
	}
	return NewLink(port), nil
}

// Parser exposes the receive state machine, e.g. to change MaxPayload.
func (l *Link) Parser() *Parser {
	return l.parser
}

// State gets the receiver state.
func (l *Link) State() State {
	return l.parser.State()
}

// Close releases the port.
func (l *Link) Close() error {
	l.parser.Reset()
	l.pending = nil
	return l.Port.Close()
}
