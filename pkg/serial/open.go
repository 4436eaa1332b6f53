package serial

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang/glog"
)

// Open opens a port according to cfg.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, &OpenError{Err: errors.New("config cannot be nil")}
	}
	if cfg.Device == "" {
		return nil, &OpenError{Err: errors.New("device not specified")}
	}

	var (
		port Port
		err  error
	)
	switch {
	case isWebsocketURL(cfg.Device):
		port, err = DialWebsocket(cfg.Device)
	case cfg.Driver == "" || cfg.Driver == DriverNative:
		port, err = openNative(cfg)
	case cfg.Driver == DriverTarm:
		port, err = openTarm(cfg)
	default:
		err = fmt.Errorf("unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, &OpenError{Device: cfg.Device, Err: err}
	}
	if cfg.ReadTimeout > 0 {
		if err = port.SetReadTimeout(cfg.ReadTimeout); err != nil {
			port.Close()
			return nil, &OpenError{Device: cfg.Device, Err: err}
		}
	}
	glog.V(1).Infof("opened %s (driver=%s baud=%d)", cfg.Device, cfg.Driver, cfg.Baud)
	return port, nil
}

func isWebsocketURL(device string) bool {
	return strings.HasPrefix(device, "ws://") || strings.HasPrefix(device, "wss://")
}
