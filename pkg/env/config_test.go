package env

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/hif.go/pkg/serial"
)

func TestSerialConfig(t *testing.T) {
	c := &Config{Device: "/dev/ttyUSB1", Baud: 9600, Driver: serial.DriverTarm}
	cfg := c.SerialConfig()
	require.Equal(t, "/dev/ttyUSB1", cfg.Device)
	require.Equal(t, 9600, cfg.Baud)
	require.Equal(t, serial.DriverTarm, cfg.Driver)

	cfg = (&Config{Device: "ws://localhost:8080/"}).SerialConfig()
	require.Equal(t, serial.DefaultBaud, cfg.Baud)
	require.Equal(t, serial.DriverNative, cfg.Driver)
}

func TestNewConfigCopies(t *testing.T) {
	c := NewConfig()
	c.Device = "changed"
	require.NotEqual(t, "changed", Default().Device)
}

func TestDeviceName(t *testing.T) {
	require.Equal(t, "bench", (&Config{DeviceID: "bench"}).DeviceName())
	require.NotEmpty(t, (&Config{}).DeviceName())
}

func TestOpenFails(t *testing.T) {
	_, err := (&Config{Device: "/dev/hif-does-not-exist"}).Open()
	require.ErrorIs(t, err, serial.ErrConnection)
}
