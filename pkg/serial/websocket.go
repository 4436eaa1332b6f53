package serial

import (
	"io"
	"sync"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"
)

// websocketPort carries the byte stream of a remote device in binary
// websocket frames. Frame boundaries are not significant.
type websocketPort struct {
	conn *websocket.Conn
	rx   *buffer

	lock    sync.Mutex
	timeout time.Duration
}

// DialWebsocket connects to a remote port, e.g. one served by hifsim.
func DialWebsocket(url string) (Port, error) {
	conn, err := websocket.Dial(url, "", "http://localhost/")
	if err != nil {
		return nil, err
	}
	return NewWebsocketPort(conn), nil
}

// NewWebsocketPort wraps an established websocket connection.
func NewWebsocketPort(conn *websocket.Conn) Port {
	conn.PayloadType = websocket.BinaryFrame
	p := &websocketPort{conn: conn, rx: newBuffer(pipeBufferSize)}
	go p.readLoop()
	return p
}

func (p *websocketPort) readLoop() {
	defer p.rx.close()
	buf := make([]byte, 512)
	for {
		n, err := p.conn.Read(buf)
		if n > 0 {
			if _, werr := p.rx.write(buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				glog.V(2).Infof("websocket read: %v", err)
			}
			return
		}
	}
}

// Read implements io.Reader.
func (p *websocketPort) Read(b []byte) (int, error) {
	p.lock.Lock()
	timeout := p.timeout
	p.lock.Unlock()
	return p.rx.read(b, timeout)
}

// Write implements io.Writer.
func (p *websocketPort) Write(b []byte) (int, error) {
	return p.conn.Write(b)
}

// Close implements io.Closer.
func (p *websocketPort) Close() error {
	p.rx.close()
	return p.conn.Close()
}

// SetReadTimeout implements Port.
func (p *websocketPort) SetReadTimeout(d time.Duration) error {
	p.lock.Lock()
	p.timeout = d
	p.lock.Unlock()
	return nil
}

// Drain implements Port. Each Write is a complete frame.
func (p *websocketPort) Drain() error {
	return nil
}

// ResetInputBuffer implements Port.
func (p *websocketPort) ResetInputBuffer() error {
	p.rx.reset()
	return nil
}

// ResetOutputBuffer implements Port.
func (p *websocketPort) ResetOutputBuffer() error {
	return nil
}
