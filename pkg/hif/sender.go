package hif

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/golang/glog"
)

// SendCommand writes a command token and waits for the device to
// signal ready. Input received before the token is discarded, so only a
// ready byte answering this command counts.
func (l *Link) SendCommand(ctx context.Context, token string) error {
	if token == "" {
		return &ProtocolError{Reason: "empty command"}
	}
	for n := 0; n < len(token); n++ {
		if c := token[n]; c < 0x20 || c > 0x7e {
			return &ProtocolError{Reason: fmt.Sprintf("non-printable byte 0x%02x in command", c)}
		}
	}
	glog.V(1).Infof("command %q", token)
	if err := l.resetInput(); err != nil {
		return err
	}
	if err := l.write([]byte(token)); err != nil {
		return err
	}
	if err := l.Port.Drain(); err != nil {
		return err
	}
	if err := l.WaitReady(ctx, 0); err != nil {
		if isTimeout(err) {
			return &ProtocolError{Reason: fmt.Sprintf("device not ready after %q", token), Err: err}
		}
		return err
	}
	return nil
}

// WaitReady waits for the device ready byte. A timeout <= 0 uses
// Timeouts.Ready.
func (l *Link) WaitReady(ctx context.Context, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = l.Timeouts.bounded().Ready
	}
	return timeoutErr(l.waitForByte(ctx, ReadyByte, timeout), StageReady, timeout)
}

// SignalReady tells the peer this side is ready, e.g. after a command
// or when processing completed.
func (l *Link) SignalReady() error {
	return l.writeControl(ReadyByte)
}

// SendData transfers a vector and waits for the peer to acknowledge it.
func (l *Link) SendData(ctx context.Context, v Vector) error {
	payload, err := EncodePayload(v)
	if err != nil {
		return err
	}
	if err = l.resetInput(); err != nil {
		return err
	}
	h := v.Header()
	glog.V(1).Infof("send %s[%d] tag=0x%02x", h.Format, h.Count, h.Tag)
	if err = l.write(h.Encode(l.SendMarker)); err != nil {
		return err
	}
	if err = l.Port.Drain(); err != nil {
		return err
	}
	if err = l.WaitReady(ctx, 0); err != nil {
		return err
	}

	sum, err := l.sendPayload(ctx, payload)
	if err != nil {
		return err
	}
	if err = l.Port.Drain(); err != nil {
		return err
	}
	var crc [2]byte
	binary.LittleEndian.PutUint16(crc[:], sum)
	if err = l.write(crc[:]); err != nil {
		return err
	}
	if err = l.Port.Drain(); err != nil {
		return err
	}
	ack := l.Timeouts.bounded().Ack
	err = l.waitForByte(ctx, AckByte, ack)
	return timeoutErr(err, StageAck, ack)
}

func (l *Link) sendPayload(ctx context.Context, payload []byte) (uint16, error) {
	sum := NewChecksum()
	chunk := l.ChunkSize
	if chunk <= 0 {
		chunk = len(payload)
	}
	total := len(payload)
	for sent := 0; sent < total; {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		end := sent + chunk
		if end > total {
			end = total
		}
		p := payload[sent:end]
		sum = sum.Add(p)
		if err := l.write(p); err != nil {
			return 0, err
		}
		sent = end
		if l.Progress != nil {
			l.Progress(sent, total)
		}
		if glog.V(2) {
			glog.Infof("sent %d/%d", sent, total)
		}
		if l.ChunkDelay > 0 && sent < total {
			if err := sleepCtx(ctx, l.ChunkDelay); err != nil {
				return 0, err
			}
		}
	}
	return sum.Sum(), nil
}

func isTimeout(err error) bool {
	_, ok := err.(*TimeoutError)
	return ok
}
