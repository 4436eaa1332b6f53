package sim

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/hif.go/pkg/hif"
	"github.com/robotalks/hif.go/pkg/modes"
	"github.com/robotalks/hif.go/pkg/serial"
)

func TestMatchMode(t *testing.T) {
	testCases := []struct {
		in   string
		mode modes.Mode
		ok   bool
	}{
		{"kws_mic", modes.ModeMic, true},
		{"\r\nxxkws_single_inference", modes.ModeSingleInference, true},
		{"mfcc_kws_frame", modes.ModeMfccFrames, true},
		{"kws_mi", "", false},
		{"", "", false},
	}
	for _, tc := range testCases {
		mode, ok := matchMode([]byte(tc.in))
		require.Equal(t, tc.ok, ok, tc.in)
		require.Equal(t, tc.mode, mode, tc.in)
	}
}

func TestDefaultFeatures(t *testing.T) {
	frame := make([]int16, modes.FrameLength)
	for n := range frame {
		frame[n] = -100
	}
	features := DefaultFeatures(frame)
	require.Len(t, features, modes.MfccPerFrame)
	for _, f := range features {
		require.Equal(t, int64(100), f)
	}
	require.Equal(t, make([]int64, modes.MfccPerFrame), DefaultFeatures(nil))
}

func TestDefaultInfer(t *testing.T) {
	out := DefaultInfer(hif.NewVector(hif.FormatUint32, 1, 4294967295, 4294967295))
	require.Equal(t, hif.FormatInt32, out.Format)
	require.Equal(t, []int64{2147483647}, out.Values)
	require.NoError(t, out.Validate())
	require.Equal(t, []int64{0}, DefaultInfer(hif.Vector{Format: hif.FormatInt8}).Values)
}

func TestDeviceRunStopsOnClose(t *testing.T) {
	a, b := serial.Pipe()
	dev := NewDevice(b)
	done := make(chan error, 1)
	go func() {
		done <- dev.Run(context.Background())
	}()
	_, err := a.Write([]byte("noise"))
	require.NoError(t, err)
	require.NoError(t, a.Close())
	require.NoError(t, <-done)
}

func TestWebsocketDevice(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv := httptest.NewServer(WebsocketHandler(ctx, func(dev *Device) {
		dev.Echo = true
		dev.Link.ChunkDelay = 0
	}))
	defer srv.Close()

	link, err := hif.Open(serial.DefaultConfig("ws" + strings.TrimPrefix(srv.URL, "http")))
	require.NoError(t, err)
	defer link.Close()
	link.ChunkDelay = 0

	vectors, err := modes.NewDispatcher(link).PingPong(ctx)
	require.NoError(t, err)
	require.Equal(t, modes.PingVectors(), vectors)
}
