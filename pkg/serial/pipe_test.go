package serial

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func readN(t *testing.T, p Port, n int, timeout time.Duration) []byte {
	out := make([]byte, 0, n)
	buf := make([]byte, n)
	deadline := time.Now().Add(timeout)
	for len(out) < n {
		require.True(t, time.Now().Before(deadline), "read timeout, got %v", out)
		cnt, err := p.Read(buf[:n-len(out)])
		require.NoError(t, err)
		out = append(out, buf[:cnt]...)
	}
	return out
}

func TestPipeReadWrite(t *testing.T) {
	a, b := Pipe()
	defer a.Close()
	require.NoError(t, b.SetReadTimeout(10*time.Millisecond))

	n, err := a.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []byte{1, 2, 3}, readN(t, b, 3, time.Second))

	_, err = b.Write([]byte("ok"))
	require.NoError(t, err)
	require.NoError(t, a.SetReadTimeout(10*time.Millisecond))
	require.Equal(t, []byte("ok"), readN(t, a, 2, time.Second))
}

func TestPipeReadTimeout(t *testing.T) {
	a, b := Pipe()
	defer a.Close()
	require.NoError(t, b.SetReadTimeout(20*time.Millisecond))

	start := time.Now()
	n, err := b.Read(make([]byte, 4))
	require.NoError(t, err)
	require.Zero(t, n)
	require.True(t, time.Since(start) >= 20*time.Millisecond)
}

func TestPipeResetInput(t *testing.T) {
	a, b := Pipe()
	defer a.Close()
	require.NoError(t, b.SetReadTimeout(10*time.Millisecond))

	_, err := a.Write([]byte("stale"))
	require.NoError(t, err)
	require.NoError(t, b.ResetInputBuffer())
	n, err := b.Read(make([]byte, 8))
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestPipeClose(t *testing.T) {
	a, b := Pipe()
	_, err := a.Write([]byte{7})
	require.NoError(t, err)
	require.NoError(t, a.Close())

	buf := make([]byte, 2)
	n, err := b.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, byte(7), buf[0])

	_, err = b.Read(buf)
	require.Equal(t, io.EOF, err)
	_, err = b.Write([]byte{1})
	require.Equal(t, io.ErrClosedPipe, err)
}
