package modes

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/hif.go/pkg/hif"
)

// Mode is a command token selecting a device application.
type Mode string

// Modes implemented by the firmware.
const (
	// ModeSingleInference runs inference on a net input sent by the host.
	ModeSingleInference Mode = "kws_single_inference"
	// ModeMfccFrames computes MFCCs on audio frames sent by the host
	// and runs inference on them.
	ModeMfccFrames Mode = "mfcc_kws_frame"
	// ModeMic records from the onboard microphone and runs the whole
	// pipeline on the device.
	ModeMic Mode = "kws_mic"
)

// Modes lists all known modes.
func Modes() []Mode {
	return []Mode{ModeSingleInference, ModeMfccFrames, ModeMic}
}

// ParseMode validates a mode token.
func ParseMode(token string) (Mode, error) {
	for _, m := range Modes() {
		if string(m) == token {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", token)
}

// Tags of vectors exchanged in the modes.
const (
	TagInput           byte = 0x00
	TagPrediction      byte = 0x17
	TagFrameMfcc       byte = 0x20
	TagFramePrediction byte = 0x21
	TagMicSamples      byte = 0x30
	TagMicMfcc         byte = 0x31
	TagMicPrediction   byte = 0x32
)

// Default waits of the session flows.
const (
	DefaultInferenceTimeout = time.Second
	DefaultMicTimeout       = 5 * time.Second
)

// FrameResult is reported by MfccAndInference.
type FrameResult struct {
	Mfccs      hif.Vector
	Prediction hif.Vector
}

// MicResult is reported by MicAndInference.
type MicResult struct {
	Samples    hif.Vector
	Mfccs      hif.Vector
	Prediction hif.Vector
}

// Dispatcher runs the host side of the device modes over a Link.
type Dispatcher struct {
	Link *hif.Link
	// InferenceTimeout bounds waiting for the device to finish inference.
	InferenceTimeout time.Duration
	// MicTimeout bounds recording and processing on the device.
	MicTimeout time.Duration
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(link *hif.Link) *Dispatcher {
	return &Dispatcher{
		Link:             link,
		InferenceTimeout: DefaultInferenceTimeout,
		MicTimeout:       DefaultMicTimeout,
	}
}

// Begin switches the device into a mode.
func (d *Dispatcher) Begin(ctx context.Context, mode Mode) error {
	glog.V(1).Infof("begin %s", mode)
	return d.Link.SendCommand(ctx, string(mode))
}

// SingleInference sends a net input and receives the prediction.
func (d *Dispatcher) SingleInference(ctx context.Context, input hif.Vector) (hif.Vector, error) {
	if err := d.Begin(ctx, ModeSingleInference); err != nil {
		return hif.Vector{}, err
	}
	input.Tag = TagInput
	if err := d.Link.SendData(ctx, input); err != nil {
		return hif.Vector{}, err
	}
	return d.Expect(ctx, TagPrediction)
}

// MfccAndInference streams audio frames, waiting for the device after
// each one, then receives the MFCCs and the prediction.
func (d *Dispatcher) MfccAndInference(ctx context.Context, frames []hif.Vector) (*FrameResult, error) {
	if err := d.Begin(ctx, ModeMfccFrames); err != nil {
		return nil, err
	}
	for n, frame := range frames {
		frame.Tag = TagInput
		if err := d.Link.SendData(ctx, frame); err != nil {
			return nil, fmt.Errorf("frame %d: %w", n, err)
		}
		if err := d.Link.WaitReady(ctx, 0); err != nil {
			return nil, fmt.Errorf("frame %d: %w", n, err)
		}
		glog.V(2).Infof("frame %d/%d processed", n+1, len(frames))
	}
	if err := d.Link.WaitReady(ctx, d.inferenceTimeout()); err != nil {
		return nil, fmt.Errorf("inference: %w", err)
	}
	var r FrameResult
	var err error
	if r.Mfccs, err = d.Expect(ctx, TagFrameMfcc); err != nil {
		return nil, err
	}
	if r.Prediction, err = d.Expect(ctx, TagFramePrediction); err != nil {
		return nil, err
	}
	return &r, nil
}

// MicAndInference lets the device record and process a sample, then
// receives the samples, the MFCCs and the prediction.
func (d *Dispatcher) MicAndInference(ctx context.Context) (*MicResult, error) {
	if err := d.Begin(ctx, ModeMic); err != nil {
		return nil, err
	}
	timeout := d.MicTimeout
	if timeout <= 0 {
		timeout = DefaultMicTimeout
	}
	if err := d.Link.WaitReady(ctx, timeout); err != nil {
		return nil, fmt.Errorf("recording: %w", err)
	}
	var r MicResult
	var err error
	if r.Samples, err = d.Expect(ctx, TagMicSamples); err != nil {
		return nil, err
	}
	if r.Mfccs, err = d.Expect(ctx, TagMicMfcc); err != nil {
		return nil, err
	}
	if r.Prediction, err = d.Expect(ctx, TagMicPrediction); err != nil {
		return nil, err
	}
	return &r, nil
}

// Expect receives a vector which must carry the given tag.
func (d *Dispatcher) Expect(ctx context.Context, tag byte) (hif.Vector, error) {
	v, err := d.Link.ReceiveData(ctx)
	if err != nil {
		return v, err
	}
	glog.V(1).Infof("received %s type with tag 0x%02x len %d", v.Format, v.Tag, len(v.Values))
	if v.Tag != tag {
		return v, &hif.ProtocolError{Reason: fmt.Sprintf("expect tag 0x%02x, got 0x%02x", tag, v.Tag)}
	}
	return v, nil
}

func (d *Dispatcher) inferenceTimeout() time.Duration {
	if d.InferenceTimeout > 0 {
		return d.InferenceTimeout
	}
	return DefaultInferenceTimeout
}
