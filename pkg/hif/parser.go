package hif

import (
	"encoding/binary"
	"fmt"
)

// State is the receiver state.
type State int

const (
	// StateWaitSync discards bytes until the frame marker.
	StateWaitSync State = iota
	// StateWaitHeader collects the header.
	StateWaitHeader
	// StateSignalReady replies the ready byte.
	StateSignalReady
	// StateReceivePayload collects payload bytes.
	StateReceivePayload
	// StateReceiveChecksum collects the 2 checksum bytes.
	StateReceiveChecksum
	// StateValidate compares checksums.
	StateValidate
	// StateAck replies the ack byte.
	StateAck
	// StateDone means a frame has been delivered.
	StateDone
)

var stateNames = [...]string{
	StateWaitSync:        "wait-sync",
	StateWaitHeader:      "wait-header",
	StateSignalReady:     "signal-ready",
	StateReceivePayload:  "receive-payload",
	StateReceiveChecksum: "receive-checksum",
	StateValidate:        "validate",
	StateAck:             "ack",
	StateDone:            "done",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// DefaultMaxPayload bounds the payload accepted from a header.
const DefaultMaxPayload = 16 << 20

// ParseResult indicates the result after one parsing step.
type ParseResult struct {
	// Reply is a control byte to be written to the peer, 0 if none.
	Reply byte
	// State is the state reached by this step. StateDone is reported
	// with a delivered Vector, the parser itself is back in StateWaitSync.
	State State
	// Vector is set when a frame is complete and valid.
	Vector *Vector
	// Err is set when the frame is rejected. The parser is reset.
	Err error
}

// Parser consumes received bytes one at a time.
// The transient states (SignalReady, Validate, Ack, Done) are passed
// through within a single step.
type Parser struct {
	Marker     byte
	MaxPayload int

	state    State
	header   Header
	buf      []byte
	size     int
	sum      Checksum
	crc      [2]byte
	crcBytes int
}

// NewParser creates a parser for frames starting with marker.
func NewParser(marker byte) *Parser {
	return &Parser{Marker: marker, MaxPayload: DefaultMaxPayload}
}

// State gets the current state.
func (p *Parser) State() State {
	return p.state
}

// Header returns the header of the frame being received.
func (p *Parser) Header() Header {
	return p.header
}

// Reset drops any partial frame.
func (p *Parser) Reset() {
	p.state = StateWaitSync
	p.header = Header{}
	p.buf = nil
	p.size = 0
	p.crcBytes = 0
}

// Parse consumes one byte.
func (p *Parser) Parse(b byte) (pr ParseResult) {
	switch p.state {
	case StateWaitSync:
		if b == p.Marker {
			p.state = StateWaitHeader
			p.buf = make([]byte, 0, HeaderSize)
		}
	case StateWaitHeader:
		p.buf = append(p.buf, b)
		if len(p.buf) < HeaderSize {
			break
		}
		return p.headerReady()
	case StateReceivePayload:
		p.buf = append(p.buf, b)
		p.sum = p.sum.Update(b)
		if len(p.buf) >= p.size {
			p.state = StateReceiveChecksum
		}
	case StateReceiveChecksum:
		p.crc[p.crcBytes] = b
		p.crcBytes++
		if p.crcBytes >= len(p.crc) {
			return p.validate()
		}
	}
	pr.State = p.state
	return
}

func (p *Parser) headerReady() (pr ParseResult) {
	h, err := DecodeHeader(p.buf)
	if err != nil {
		return p.fail(err)
	}
	size := h.PayloadSize()
	if size < 0 {
		return p.fail(&ProtocolError{Reason: fmt.Sprintf("payload of %d %s elements too large", h.Count, h.Format)})
	}
	if limit := p.MaxPayload; limit > 0 && size > limit {
		return p.fail(&ProtocolError{Reason: fmt.Sprintf("payload of %d bytes exceeds %d", size, limit)})
	}
	p.header, p.size, p.sum = h, size, NewChecksum()
	p.buf = make([]byte, 0, minInt(size, 4096))
	p.crcBytes = 0
	if size == 0 {
		p.state = StateReceiveChecksum
	} else {
		p.state = StateReceivePayload
	}
	pr.Reply, pr.State = ReadyByte, p.state
	return
}

func (p *Parser) validate() (pr ParseResult) {
	received := binary.LittleEndian.Uint16(p.crc[:])
	values, err := DecodePayload(p.header.Format, p.buf)
	if err != nil {
		return p.fail(err)
	}
	v := &Vector{Format: p.header.Format, Tag: p.header.Tag, Values: values}
	if computed := p.sum.Sum(); computed != received {
		return p.fail(&ChecksumError{Received: received, Computed: computed, Vector: *v})
	}
	p.Reset()
	pr.Reply, pr.State, pr.Vector = AckByte, StateDone, v
	return
}

func (p *Parser) fail(err error) (pr ParseResult) {
	p.Reset()
	pr.State, pr.Err = p.state, err
	return
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
