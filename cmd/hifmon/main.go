package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/golang/protobuf/proto"

	"github.com/robotalks/hif.go/pkg/env"
	fx "github.com/robotalks/hif.go/pkg/framework"
	pb "github.com/robotalks/hif.go/pkg/proto/hif/v1"
	"github.com/robotalks/hif.go/pkg/relay"
)

var (
	pattern = "#"
)

func init() {
	env.SetupFlags()
	flag.StringVar(&pattern, "topic", pattern, "Topic pattern relative to the broker prefix.")
}

func newMessage(topic string) proto.Message {
	switch topic[strings.LastIndex(topic, "/")+1:] {
	case relay.TopicCommand:
		return &pb.Command{}
	case relay.TopicTx, relay.TopicRx:
		return &pb.Vector{}
	case relay.TopicResult:
		return &pb.Result{}
	}
	return nil
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q := env.NewConfig().MustConnect()
	defer q.Close()

	sub, err := q.Subscribe(pattern, func(topic string, payload []byte) {
		msg := newMessage(topic)
		if msg == nil {
			log.Printf("%s: %d bytes", topic, len(payload))
			return
		}
		if err := proto.Unmarshal(payload, msg); err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		log.Printf("%s: %s", topic, proto.CompactTextString(msg))
	})
	if err != nil {
		log.Fatalln(err)
	}
	defer sub.Close()

	runner := fx.NewRunner().HandleSignals()
	runner.Go(fx.RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	runner.Wait()
}
