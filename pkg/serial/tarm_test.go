package serial

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTransmitTime(t *testing.T) {
	require.Equal(t, time.Duration(0), transmitTime(0, DefaultBaud))
	require.Equal(t, time.Duration(0), transmitTime(10, 0))
	require.Equal(t, time.Second, transmitTime(960, 9600))
	// 8 byte chunk at 115200 8-N-1
	require.Equal(t, 694444*time.Nanosecond, transmitTime(8, DefaultBaud))
}
