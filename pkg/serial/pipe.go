package serial

import (
	"io"
	"sync"
	"time"
)

const pipeBufferSize = 1 << 16

// buffer is a one-directional byte queue with timed reads.
type buffer struct {
	ch     chan byte
	closed chan struct{}
	once   sync.Once
}

func newBuffer(size int) *buffer {
	return &buffer{
		ch:     make(chan byte, size),
		closed: make(chan struct{}),
	}
}

func (b *buffer) close() {
	b.once.Do(func() { close(b.closed) })
}

// read waits up to timeout for the first byte and then takes
// whatever is already queued.
func (b *buffer) read(p []byte, timeout time.Duration) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case c := <-b.ch:
		p[0] = c
	case <-b.closed:
		select {
		case c := <-b.ch:
			p[0] = c
		default:
			return 0, io.EOF
		}
	case <-expired:
		return 0, nil
	}
	n := 1
	for n < len(p) {
		select {
		case c := <-b.ch:
			p[n] = c
			n++
		default:
			return n, nil
		}
	}
	return n, nil
}

func (b *buffer) write(p []byte) (int, error) {
	for n, c := range p {
		select {
		case <-b.closed:
			return n, io.ErrClosedPipe
		default:
		}
		select {
		case b.ch <- c:
		case <-b.closed:
			return n, io.ErrClosedPipe
		}
	}
	return len(p), nil
}

func (b *buffer) reset() {
	for {
		select {
		case <-b.ch:
		default:
			return
		}
	}
}

type pipePort struct {
	rx, tx *buffer

	lock    sync.Mutex
	timeout time.Duration
}

// Pipe creates a pair of connected in-memory ports.
// Bytes written to one end are read from the other.
func Pipe() (Port, Port) {
	a, b := newBuffer(pipeBufferSize), newBuffer(pipeBufferSize)
	return &pipePort{rx: a, tx: b}, &pipePort{rx: b, tx: a}
}

// Read implements io.Reader.
func (p *pipePort) Read(b []byte) (int, error) {
	p.lock.Lock()
	timeout := p.timeout
	p.lock.Unlock()
	return p.rx.read(b, timeout)
}

// Write implements io.Writer.
func (p *pipePort) Write(b []byte) (int, error) {
	return p.tx.write(b)
}

// Close closes both directions.
func (p *pipePort) Close() error {
	p.rx.close()
	p.tx.close()
	return nil
}

// SetReadTimeout implements Port.
func (p *pipePort) SetReadTimeout(d time.Duration) error {
	p.lock.Lock()
	p.timeout = d
	p.lock.Unlock()
	return nil
}

// Drain implements Port. Written bytes are queued for the peer immediately.
func (p *pipePort) Drain() error {
	return nil
}

// ResetInputBuffer implements Port.
func (p *pipePort) ResetInputBuffer() error {
	p.rx.reset()
	return nil
}

// ResetOutputBuffer implements Port.
func (p *pipePort) ResetOutputBuffer() error {
	return nil
}
