package serial

import (
	"time"

	bugst "go.bug.st/serial"
)

// nativePort wraps go.bug.st/serial which supports drain and
// buffer resets on all platforms.
type nativePort struct {
	bugst.Port
}

func openNative(cfg *Config) (Port, error) {
	baud := cfg.Baud
	if baud == 0 {
		baud = DefaultBaud
	}
	mode := &bugst.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	}
	port, err := bugst.Open(cfg.Device, mode)
	if err != nil {
		return nil, err
	}
	return &nativePort{Port: port}, nil
}

// SetReadTimeout implements Port.
func (p *nativePort) SetReadTimeout(d time.Duration) error {
	if d <= 0 {
		d = bugst.NoTimeout
	}
	return p.Port.SetReadTimeout(d)
}

// ListPorts enumerates serial devices present on the system.
func ListPorts() ([]string, error) {
	return bugst.GetPortsList()
}
