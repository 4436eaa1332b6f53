package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/golang/glog"

	"github.com/robotalks/hif.go/pkg/hif"
	"github.com/robotalks/hif.go/pkg/modes"
)

// FeatureFunc computes modes.MfccPerFrame features of an audio frame.
type FeatureFunc func(frame []int16) []int64

// InferFunc computes the net output from its input.
type InferFunc func(input hif.Vector) hif.Vector

// RecordFunc returns n samples from the microphone.
type RecordFunc func(n int) []int16

// RunMode runs a device application after its command token arrived.
func (d *Device) RunMode(ctx context.Context, mode modes.Mode) error {
	glog.Infof("mode %s", mode)
	if err := d.Link.SignalReady(); err != nil {
		return err
	}
	switch mode {
	case modes.ModeSingleInference:
		return d.singleInference(ctx)
	case modes.ModeMfccFrames:
		return d.mfccAndInference(ctx)
	case modes.ModeMic:
		return d.micAndInference(ctx)
	}
	return fmt.Errorf("unknown mode %q", mode)
}

func (d *Device) singleInference(ctx context.Context) error {
	input, err := d.Link.ReceiveData(ctx)
	if err != nil {
		return err
	}
	out := d.Infer(input)
	out.Tag = modes.TagPrediction
	return d.Link.SendData(ctx, out)
}

func (d *Device) mfccAndInference(ctx context.Context) error {
	var mfccs []int64
	for n := 0; n < d.Frames; n++ {
		frame, err := d.Link.ReceiveData(ctx)
		if err != nil {
			return fmt.Errorf("frame %d: %w", n, err)
		}
		mfccs = append(mfccs, d.Features(frame.Int16s())...)
		if err = d.Link.SignalReady(); err != nil {
			return err
		}
	}
	input := hif.NewVector(hif.FormatInt16, modes.TagFrameMfcc, mfccs...)
	out := d.Infer(input)
	out.Tag = modes.TagFramePrediction
	if err := d.Link.SignalReady(); err != nil {
		return err
	}
	if err := d.Link.SendData(ctx, input); err != nil {
		return err
	}
	return d.Link.SendData(ctx, out)
}

func (d *Device) micAndInference(ctx context.Context) error {
	samples := d.Record(d.MicFrames * modes.FrameLength)
	var mfccs []int64
	for _, frame := range modes.SplitFrames(samples, modes.FrameLength, modes.FrameStep) {
		mfccs = append(mfccs, d.Features(frame.Int16s())...)
	}
	input := hif.NewVector(hif.FormatInt16, modes.TagMicMfcc, mfccs...)
	out := d.Infer(input)
	out.Tag = modes.TagMicPrediction
	if err := d.Link.SignalReady(); err != nil {
		return err
	}
	if err := d.Link.SendData(ctx, hif.Int16Vector(modes.TagMicSamples, samples)); err != nil {
		return err
	}
	if err := d.Link.SendData(ctx, input); err != nil {
		return err
	}
	return d.Link.SendData(ctx, out)
}

// DefaultFeatures splits the frame into modes.MfccPerFrame bands and
// reports the mean magnitude of each band, a stand in for MFCCs which
// keeps int16 range.
func DefaultFeatures(frame []int16) []int64 {
	out := make([]int64, modes.MfccPerFrame)
	if len(frame) == 0 {
		return out
	}
	for n := range out {
		lo := n * len(frame) / len(out)
		hi := (n + 1) * len(frame) / len(out)
		if hi <= lo {
			continue
		}
		var sum int64
		for _, s := range frame[lo:hi] {
			if s < 0 {
				sum -= int64(s)
			} else {
				sum += int64(s)
			}
		}
		out[n] = sum / int64(hi-lo)
		if out[n] > math.MaxInt16 {
			out[n] = math.MaxInt16
		}
	}
	return out
}

// DefaultInfer reports a single int32 score: the mean of the input.
func DefaultInfer(input hif.Vector) hif.Vector {
	var score int64
	if len(input.Values) > 0 {
		var sum int64
		for _, v := range input.Values {
			sum += v
		}
		score = sum / int64(len(input.Values))
	}
	if score > math.MaxInt32 {
		score = math.MaxInt32
	} else if score < math.MinInt32 {
		score = math.MinInt32
	}
	return hif.NewVector(hif.FormatInt32, 0, score)
}

// DefaultRecord synthesizes a 440Hz tone.
func DefaultRecord(n int) []int16 {
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(8000 * math.Sin(2*math.Pi*440*float64(i)/modes.SampleRate))
	}
	return samples
}
