package modes_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/hif.go/pkg/hif"
	"github.com/robotalks/hif.go/pkg/modes"
	"github.com/robotalks/hif.go/pkg/serial"
	"github.com/robotalks/hif.go/pkg/sim"
)

type modesTestEnv struct {
	t      *testing.T
	ctx    context.Context
	host   *modes.Dispatcher
	device *sim.Device
	done   chan error
}

func newModesTestEnv(t *testing.T) *modesTestEnv {
	a, b := serial.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	link := hif.NewLink(a)
	link.ChunkDelay = 0
	env := &modesTestEnv{
		t:      t,
		ctx:    ctx,
		host:   modes.NewDispatcher(link),
		device: sim.NewDevice(b),
	}
	env.device.Link.ChunkDelay = 0
	t.Cleanup(func() {
		cancel()
		if env.done != nil {
			<-env.done
		}
		link.Close()
		env.device.Link.Close()
	})
	return env
}

func (e *modesTestEnv) run() *modesTestEnv {
	e.done = make(chan error, 1)
	go func() {
		e.done <- e.device.Run(e.ctx)
	}()
	return e
}

func TestSingleInference(t *testing.T) {
	env := newModesTestEnv(t).run()
	out, err := env.host.SingleInference(env.ctx, hif.NewVector(hif.FormatInt16, 5, 10, 20, 30))
	require.NoError(t, err)
	require.Equal(t, modes.TagPrediction, out.Tag)
	require.Equal(t, hif.FormatInt32, out.Format)
	require.Equal(t, []int64{20}, out.Values)
}

func TestMfccAndInference(t *testing.T) {
	env := newModesTestEnv(t)
	env.device.Frames = 3
	env.run()

	samples := sim.DefaultRecord(3 * modes.FrameLength)
	frames := modes.SplitFrames(samples, modes.FrameLength, modes.FrameStep)
	require.Len(t, frames, 3)

	r, err := env.host.MfccAndInference(env.ctx, frames)
	require.NoError(t, err)

	var mfccs []int64
	for _, frame := range frames {
		mfccs = append(mfccs, sim.DefaultFeatures(frame.Int16s())...)
	}
	require.Equal(t, modes.TagFrameMfcc, r.Mfccs.Tag)
	require.Equal(t, mfccs, r.Mfccs.Values)
	require.Equal(t, modes.TagFramePrediction, r.Prediction.Tag)
	require.Equal(t, sim.DefaultInfer(hif.NewVector(hif.FormatInt16, 0, mfccs...)).Values, r.Prediction.Values)
}

func TestMicAndInference(t *testing.T) {
	env := newModesTestEnv(t)
	env.device.MicFrames = 2
	env.run()

	r, err := env.host.MicAndInference(env.ctx)
	require.NoError(t, err)
	require.Equal(t, modes.TagMicSamples, r.Samples.Tag)
	require.Equal(t, sim.DefaultRecord(2*modes.FrameLength), r.Samples.Int16s())
	require.Equal(t, modes.TagMicMfcc, r.Mfccs.Tag)
	require.Len(t, r.Mfccs.Values, 2*modes.MfccPerFrame)
	require.Equal(t, modes.TagMicPrediction, r.Prediction.Tag)
	require.Len(t, r.Prediction.Values, 1)
}

func TestPing(t *testing.T) {
	env := newModesTestEnv(t)
	received := make(chan hif.Vector, 6)
	env.device.Received = func(v hif.Vector) { received <- v }
	env.run()

	require.NoError(t, env.host.Ping(env.ctx))
	for _, v := range modes.PingVectors() {
		select {
		case r := <-received:
			require.Equal(t, v, r)
		case <-time.After(time.Second):
			require.FailNow(t, "vector not received", v.String())
		}
	}
}

func TestPong(t *testing.T) {
	env := newModesTestEnv(t)
	errCh := make(chan error, 1)
	go func() {
		errCh <- env.device.Pong(env.ctx)
	}()
	vectors, err := env.host.Pong(env.ctx)
	require.NoError(t, err)
	require.Equal(t, modes.PingVectors(), vectors)
	require.NoError(t, <-errCh)
}

func TestPingPong(t *testing.T) {
	env := newModesTestEnv(t)
	env.device.Echo = true
	env.run()

	vectors, err := env.host.PingPong(env.ctx)
	require.NoError(t, err)
	require.Equal(t, modes.PingVectors(), vectors)
}

func TestUnexpectedTag(t *testing.T) {
	env := newModesTestEnv(t)
	errCh := make(chan error, 1)
	go func() {
		errCh <- env.device.Link.SendData(env.ctx, hif.NewVector(hif.FormatUint8, 0x99, 1))
	}()
	_, err := env.host.Expect(env.ctx, modes.TagFrameMfcc)
	require.ErrorIs(t, err, hif.ErrProtocol)
	require.NoError(t, <-errCh)
}

func TestBeginNotReady(t *testing.T) {
	env := newModesTestEnv(t)
	env.host.Link.Timeouts.Ready = 30 * time.Millisecond
	err := env.host.Begin(env.ctx, modes.ModeMic)
	require.ErrorIs(t, err, hif.ErrProtocol)
	require.ErrorIs(t, err, hif.ErrTimeout)
}

func TestPingVectors(t *testing.T) {
	vectors := modes.PingVectors()
	require.Len(t, vectors, 6)
	for n, v := range vectors {
		require.Equal(t, byte(n+1), v.Tag)
		require.Equal(t, hif.Format(n), v.Format)
		require.NoError(t, v.Validate())
	}
	require.Equal(t, []int64{254, 255, 0, 1, 2, 3}, vectors[0].Values)
	require.Equal(t, []int64{-2, -1, 0, 1, 2, 3}, vectors[1].Values)
	require.Equal(t, []int64{65534, 65535, 0, 1, 2, 3}, vectors[2].Values)
	require.Equal(t, []int64{4294967294, 4294967295, 0, 1, 2, 3}, vectors[4].Values)
}

func TestSplitFrames(t *testing.T) {
	require.Equal(t, 62, modes.FramesPerInput)
	samples := modes.FitSamples([]int16{1, 2, 3})
	require.Len(t, samples, modes.SampleLength)
	require.Equal(t, []int16{1, 2, 3, 0}, samples[:4])

	frames := modes.SplitFrames(samples, modes.FrameLength, modes.FrameStep)
	require.Len(t, frames, modes.FramesPerInput)
	require.Len(t, frames[0].Values, modes.FrameLength)
	require.Equal(t, hif.FormatInt16, frames[0].Format)

	frames = modes.SplitFrames([]int16{1, 2, 3, 4, 5}, 2, 1)
	require.Len(t, frames, 4)
	require.Equal(t, []int64{4, 5}, frames[3].Values)
	require.Nil(t, modes.SplitFrames([]int16{1}, 2, 1))
}

func TestParseMode(t *testing.T) {
	for _, m := range modes.Modes() {
		parsed, err := modes.ParseMode(string(m))
		require.NoError(t, err)
		require.Equal(t, m, parsed)
	}
	_, err := modes.ParseMode("kws")
	require.Error(t, err)
}
