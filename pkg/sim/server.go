package sim

import (
	"context"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/hif.go/pkg/serial"
)

// WebsocketHandler serves a simulated device on each websocket
// connection. setup customizes the device before it runs.
func WebsocketHandler(ctx context.Context, setup func(*Device)) http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		port := serial.NewWebsocketPort(conn)
		defer port.Close()
		dev := NewDevice(port)
		if setup != nil {
			setup(dev)
		}
		glog.Infof("device connected from %s", conn.Request().RemoteAddr)
		if err := dev.Run(ctx); err != nil && err != context.Canceled {
			glog.Warningf("device: %v", err)
		}
		glog.Infof("device disconnected from %s", conn.Request().RemoteAddr)
	})
}
