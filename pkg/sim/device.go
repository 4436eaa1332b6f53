package sim

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/hif.go/pkg/hif"
	"github.com/robotalks/hif.go/pkg/modes"
	"github.com/robotalks/hif.go/pkg/serial"
)

// maxTokenLen bounds the command token buffer.
const maxTokenLen = 64

// DefaultMicFrames is the number of frames recorded in ModeMic.
const DefaultMicFrames = 16

// Device simulates the firmware side of the host interface.
type Device struct {
	Link *hif.Link

	// Features computes the MFCCs of one audio frame.
	Features FeatureFunc
	// Infer runs the net on a vector of MFCCs.
	Infer InferFunc
	// Record produces the microphone samples of ModeMic.
	Record RecordFunc

	// Frames is the number of frames received in ModeMfccFrames.
	Frames int
	// MicFrames is the number of frames recorded in ModeMic.
	MicFrames int
	// Echo sends back vectors received outside of a mode.
	Echo bool
	// Received is notified with vectors received outside of a mode.
	Received func(hif.Vector)
}

// NewDevice creates a simulated device on the port.
func NewDevice(port serial.Port) *Device {
	return &Device{
		Link:      hif.NewPeerLink(port),
		Features:  DefaultFeatures,
		Infer:     DefaultInfer,
		Record:    DefaultRecord,
		Frames:    modes.FramesPerInput,
		MicFrames: DefaultMicFrames,
	}
}

// Name implements framework.Named.
func (d *Device) Name() string {
	return "hifsim"
}

// Run serves the host until ctx is done or the port is closed.
func (d *Device) Run(ctx context.Context) error {
	var token []byte
	marker := d.Link.Parser().Marker
	for {
		b, err := d.Link.ReadByte(ctx, 0)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if b == marker {
			token = token[:0]
			d.Link.UnreadByte(b)
			v, err := d.Link.ReceiveData(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				glog.Warningf("receive: %v", err)
				continue
			}
			if err = d.handleVector(ctx, v); err != nil {
				glog.Warningf("handle %s: %v", v, err)
			}
			continue
		}
		token = append(token, b)
		if len(token) > maxTokenLen {
			token = token[len(token)-maxTokenLen:]
		}
		if mode, ok := matchMode(token); ok {
			token = token[:0]
			if err = d.RunMode(ctx, mode); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				glog.Warningf("%s: %v", mode, err)
			}
		}
	}
}

func matchMode(token []byte) (modes.Mode, bool) {
	s := string(token)
	for _, m := range modes.Modes() {
		if strings.HasSuffix(s, string(m)) {
			return m, true
		}
	}
	return "", false
}

func (d *Device) handleVector(ctx context.Context, v hif.Vector) error {
	glog.V(1).Infof("received %s", v)
	if d.Received != nil {
		d.Received(v)
	}
	if d.Echo {
		return d.Link.SendData(ctx, v)
	}
	return nil
}

// Pong sends the link test vectors to the host.
func (d *Device) Pong(ctx context.Context) error {
	for _, v := range modes.PingVectors() {
		if err := d.Link.SendData(ctx, v); err != nil {
			return err
		}
	}
	return nil
}
