package hif

import (
	"context"
	"errors"
	"time"

	"github.com/golang/glog"
)

// ReceiveData waits for a frame from the peer and returns its vector.
// Timeouts.Sync bounds the wait for the frame marker and Timeouts.Idle
// bounds silence once the frame started. Non-positive timeouts use the
// defaults. On failure the receiver is back in StateWaitSync.
func (l *Link) ReceiveData(ctx context.Context) (Vector, error) {
	l.parser.Reset()
	timeouts := l.Timeouts.bounded()
	syncDeadline := time.Now().Add(timeouts.Sync)
	for {
		var timeout time.Duration
		if state := l.parser.State(); state == StateWaitSync {
			timeout = time.Until(syncDeadline)
			if timeout <= 0 {
				return Vector{}, &TimeoutError{Stage: state.String(), After: timeouts.Sync}
			}
		} else {
			timeout = timeouts.Idle
		}
		b, err := l.ReadByte(ctx, timeout)
		if err != nil {
			state := l.parser.State()
			l.parser.Reset()
			if errors.Is(err, errWaitExpired) {
				if state == StateWaitSync {
					return Vector{}, &TimeoutError{Stage: state.String(), After: timeouts.Sync}
				}
				return Vector{}, &TimeoutError{Stage: state.String(), After: timeout}
			}
			return Vector{}, err
		}
		pr := l.parser.Parse(b)
		if pr.Reply != 0 {
			if err = l.writeControl(pr.Reply); err != nil {
				l.parser.Reset()
				return Vector{}, err
			}
		}
		if pr.Err != nil {
			var cerr *ChecksumError
			if errors.As(pr.Err, &cerr) {
				glog.Warningf("%s[%d] tag=0x%02x: %v", cerr.Vector.Format, len(cerr.Vector.Values), cerr.Vector.Tag, cerr)
			}
			return Vector{}, pr.Err
		}
		if pr.Vector != nil {
			glog.V(1).Infof("received %s[%d] tag=0x%02x", pr.Vector.Format, len(pr.Vector.Values), pr.Vector.Tag)
			return *pr.Vector, nil
		}
	}
}
