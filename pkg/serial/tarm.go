package serial

import (
	"io"
	"sync"
	"time"

	tarm "github.com/tarm/serial"
)

// tarmPort wraps github.com/tarm/serial.
// The read timeout is fixed to tarmReadTimeout when the port is opened,
// so waits on this driver may overrun by up to that much. tarm has no
// drain, which is approximated by the time the written bytes take on
// the wire.
type tarmPort struct {
	port *tarm.Port
	baud int

	lock    sync.Mutex
	unsent  int
	started time.Time
}

// tarmReadTimeout is the minimum VTIME granularity on posix.
const tarmReadTimeout = 100 * time.Millisecond

func openTarm(cfg *Config) (Port, error) {
	baud := cfg.Baud
	if baud == 0 {
		baud = DefaultBaud
	}
	port, err := tarm.OpenPort(&tarm.Config{
		Name:        cfg.Device,
		Baud:        baud,
		Size:        8,
		Parity:      tarm.ParityNone,
		StopBits:    tarm.Stop1,
		ReadTimeout: tarmReadTimeout,
	})
	if err != nil {
		return nil, err
	}
	return &tarmPort{port: port, baud: baud}, nil
}

// transmitTime is how long n bytes take at baud with 8-N-1 framing.
func transmitTime(n, baud int) time.Duration {
	if n <= 0 || baud <= 0 {
		return 0
	}
	return time.Duration(int64(n) * 10 * int64(time.Second) / int64(baud))
}

// Read implements io.Reader.
func (p *tarmPort) Read(b []byte) (int, error) {
	n, err := p.port.Read(b)
	// tarm reports an expired VTIME as EOF.
	if n == 0 && err == io.EOF {
		return 0, nil
	}
	return n, err
}

// Write implements io.Writer. Writes block until accepted by the driver.
func (p *tarmPort) Write(b []byte) (int, error) {
	n, err := p.port.Write(b)
	p.lock.Lock()
	if p.unsent == 0 {
		p.started = time.Now()
	}
	p.unsent += n
	p.lock.Unlock()
	return n, err
}

// Close implements io.Closer.
func (p *tarmPort) Close() error {
	return p.port.Close()
}

// SetReadTimeout implements Port. Reads always use tarmReadTimeout.
func (p *tarmPort) SetReadTimeout(time.Duration) error {
	return nil
}

// Drain implements Port by waiting until the bytes written since the
// last drain could have left the UART.
func (p *tarmPort) Drain() error {
	p.lock.Lock()
	wait := transmitTime(p.unsent, p.baud) - time.Since(p.started)
	p.unsent = 0
	p.lock.Unlock()
	if wait > 0 {
		time.Sleep(wait)
	}
	return nil
}

// ResetInputBuffer implements Port, it flushes both directions.
func (p *tarmPort) ResetInputBuffer() error {
	return p.port.Flush()
}

// ResetOutputBuffer implements Port.
func (p *tarmPort) ResetOutputBuffer() error {
	return nil
}
