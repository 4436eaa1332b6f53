package modes

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/hif.go/pkg/hif"
)

var pingValues = []int64{-2, -1, 0, 1, 2, 3}

// PingVectors returns the link test vectors: the same values cast to
// every format, tagged 1 to 6 in format order.
func PingVectors() []hif.Vector {
	formats := hif.Formats()
	vectors := make([]hif.Vector, len(formats))
	for n, f := range formats {
		values := make([]int64, len(pingValues))
		for i, val := range pingValues {
			values[i] = f.Truncate(val)
		}
		vectors[n] = hif.NewVector(f, byte(n+1), values...)
	}
	return vectors
}

// Ping sends all test vectors to the device.
func (d *Dispatcher) Ping(ctx context.Context) error {
	for _, v := range PingVectors() {
		glog.V(1).Infof("ping %s", v)
		if err := d.Link.SendData(ctx, v); err != nil {
			return fmt.Errorf("ping %s: %w", v.Format, err)
		}
	}
	return nil
}

// Pong receives the test vectors sent by the device.
func (d *Dispatcher) Pong(ctx context.Context) ([]hif.Vector, error) {
	expected := PingVectors()
	received := make([]hif.Vector, 0, len(expected))
	for _, e := range expected {
		v, err := d.Expect(ctx, e.Tag)
		if err != nil {
			return received, err
		}
		received = append(received, v)
	}
	return received, nil
}

// PingPong sends each test vector and expects it echoed back.
func (d *Dispatcher) PingPong(ctx context.Context) ([]hif.Vector, error) {
	var received []hif.Vector
	for _, v := range PingVectors() {
		if err := d.Link.SendData(ctx, v); err != nil {
			return received, fmt.Errorf("ping %s: %w", v.Format, err)
		}
		echo, err := d.Expect(ctx, v.Tag)
		if err != nil {
			return received, err
		}
		received = append(received, echo)
		if !sameVector(v, echo) {
			return received, &hif.ProtocolError{Reason: fmt.Sprintf("echo mismatch: sent %s, received %s", v, echo)}
		}
	}
	return received, nil
}

func sameVector(a, b hif.Vector) bool {
	if a.Format != b.Format || a.Tag != b.Tag || len(a.Values) != len(b.Values) {
		return false
	}
	for n := range a.Values {
		if a.Values[n] != b.Values[n] {
			return false
		}
	}
	return true
}
