package hif

import (
	"context"
	"errors"
	"time"

	"github.com/golang/glog"
)

// errWaitExpired is converted to TimeoutError by the caller which
// knows the stage.
var errWaitExpired = errors.New("wait expired")

// ReadByte returns the next received byte, waiting at most timeout.
// A timeout <= 0 waits until ctx is done.
func (l *Link) ReadByte(ctx context.Context, timeout time.Duration) (byte, error) {
	if len(l.pending) == 0 {
		var deadline time.Time
		if timeout > 0 {
			deadline = time.Now().Add(timeout)
		}
		if err := l.fill(ctx, deadline); err != nil {
			return 0, err
		}
	}
	b := l.pending[0]
	l.pending = l.pending[1:]
	return b, nil
}

// UnreadByte pushes b back so it's returned by the next read.
func (l *Link) UnreadByte(b byte) {
	l.pending = append([]byte{b}, l.pending...)
}

// fill reads what's available into pending. The read is sliced by
// PollInterval so ctx and the deadline are checked between reads.
func (l *Link) fill(ctx context.Context, deadline time.Time) error {
	poll := l.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		slice := poll
		if !deadline.IsZero() {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return errWaitExpired
			}
			if remaining < slice {
				slice = remaining
			}
		}
		if slice != l.readTimeout {
			if err := l.Port.SetReadTimeout(slice); err != nil {
				return err
			}
			l.readTimeout = slice
		}
		n, err := l.Port.Read(l.readBuf)
		if n > 0 {
			l.pending = append(l.pending, l.readBuf[:n]...)
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// waitForByte discards received bytes until want arrives.
func (l *Link) waitForByte(ctx context.Context, want byte, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return errWaitExpired
		}
		b, err := l.ReadByte(ctx, remaining)
		if err != nil {
			return err
		}
		if b == want {
			return nil
		}
		glog.V(3).Infof("discard 0x%02x waiting for 0x%02x", b, want)
	}
}

func (l *Link) write(p []byte) error {
	for len(p) > 0 {
		n, err := l.Port.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

// writeControl writes a single control byte and waits until it's out.
func (l *Link) writeControl(b byte) error {
	if err := l.write([]byte{b}); err != nil {
		return err
	}
	return l.Port.Drain()
}

func (l *Link) resetInput() error {
	l.pending = nil
	return l.Port.ResetInputBuffer()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func timeoutErr(err error, stage string, after time.Duration) error {
	if err == errWaitExpired {
		return &TimeoutError{Stage: stage, After: after}
	}
	return err
}
