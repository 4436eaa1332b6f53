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
	"github.com/robotalks/hif.go/pkg/relay"
)

//go-build: CGO_ENABLED=0

var (
	metricsAddr string
)

func init() {
	env.SetupFlags()
	flag.StringVar(&metricsAddr, "metrics", metricsAddr, "Serve prometheus metrics on this address.")
}

func main() {
	flag.Parse()

	conf := env.NewConfig()
	link := conf.MustOpen()
	defer link.Close()
	q := conf.MustConnect()
	defer q.Close()

	reg := relay.NewRegistry()
	r := relay.New(link, q, conf.DeviceName())
	r.Metrics = relay.NewMetrics(reg)
	glog.Infof("relaying %s as %s%s", conf.Device, q.TopicPrefix, r.Device)

	runner := fx.NewRunner().HandleSignals()
	runner.Go(r)
	if metricsAddr != "" {
		ln, err := net.Listen("tcp", metricsAddr)
		if err != nil {
			log.Fatalln(err)
		}
		server := &http.Server{Handler: relay.MetricsHandler(reg)}
		runner.Go(fx.NamedRun("metrics", fx.RunFunc(func(ctx context.Context) error {
			return fx.RunWithCloser(ctx, server, func() error {
				return server.Serve(ln)
			})
		})))
	}
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
