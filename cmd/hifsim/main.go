package main

import (
	"context"
	"flag"
	"log"
	"net"
	"net/http"

	"github.com/golang/glog"

	"github.com/robotalks/hif.go/pkg/env"
	fx "github.com/robotalks/hif.go/pkg/framework"
	"github.com/robotalks/hif.go/pkg/hif"
	"github.com/robotalks/hif.go/pkg/modes"
	"github.com/robotalks/hif.go/pkg/serial"
	"github.com/robotalks/hif.go/pkg/sim"
)

var (
	listenAddr string
	echo       bool
	frames     = modes.FramesPerInput
)

func init() {
	env.SetupFlags()
	flag.StringVar(&listenAddr, "listen", listenAddr, "Serve devices over websocket on this address instead of opening the serial device.")
	flag.BoolVar(&echo, "echo", echo, "Echo vectors received outside of a mode.")
	flag.IntVar(&frames, "frames", frames, "Number of frames in the MFCC frames mode.")
}

func setup(dev *sim.Device) {
	dev.Echo = echo
	dev.Frames = frames
	dev.Received = func(v hif.Vector) {
		glog.Infof("received %s", v)
	}
}

func serveWebsocket(ctx context.Context) error {
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	glog.Infof("serving simulated devices on ws://%s/", ln.Addr())
	server := &http.Server{Handler: sim.WebsocketHandler(ctx, setup)}
	return fx.RunWithCloser(ctx, server, func() error {
		return server.Serve(ln)
	})
}

func main() {
	flag.Parse()

	runner := fx.NewRunner().HandleSignals()
	if listenAddr != "" {
		runner.Go(fx.NamedRun("websocket", fx.RunFunc(serveWebsocket)))
	} else {
		port, err := serial.Open(env.Default().SerialConfig())
		if err != nil {
			log.Fatalln(err)
		}
		defer port.Close()
		dev := sim.NewDevice(port)
		setup(dev)
		runner.Go(dev)
	}
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
