// Package relay exposes a host interface link over a message broker.
//
// Topics, relative to the device name:
//
//	<device>/cmd     pb.Command   send a command token
//	<device>/tx      pb.Vector    send a vector
//	<device>/rx      pb.Vector    vectors received from the device
//	<device>/result  pb.Result    outcome of requests and failed receives
package relay

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"
	"github.com/google/uuid"

	"github.com/robotalks/hif.go/pkg/hif"
	pb "github.com/robotalks/hif.go/pkg/proto/hif/v1"
)

// Topic suffixes.
const (
	TopicCommand = "cmd"
	TopicTx      = "tx"
	TopicRx      = "rx"
	TopicResult  = "result"
)

// DefaultPollTimeout is how long the relay listens for device frames
// between requests.
const DefaultPollTimeout = 50 * time.Millisecond

// Broker is the publish/subscribe client, e.g. mqtt.Queue.
type Broker interface {
	Subscribe(pattern string, handler func(topic string, payload []byte)) (io.Closer, error)
	Publish(topic string, payload []byte) error
}

// Relay serializes broker requests onto a single Link.
type Relay struct {
	Link        *hif.Link
	Broker      Broker
	Device      string
	PollTimeout time.Duration
	Metrics     *Metrics

	requests chan request
}

type request struct {
	topic   string
	payload []byte
}

// New creates a Relay.
func New(link *hif.Link, broker Broker, device string) *Relay {
	return &Relay{
		Link:        link,
		Broker:      broker,
		Device:      device,
		PollTimeout: DefaultPollTimeout,
		Metrics:     NewMetrics(nil),
		requests:    make(chan request, 16),
	}
}

// Name implements framework.Named.
func (r *Relay) Name() string {
	return "relay:" + r.Device
}

// Topic returns the full topic for a suffix.
func (r *Relay) Topic(suffix string) string {
	return r.Device + "/" + suffix
}

// Run implements framework.Runnable.
func (r *Relay) Run(ctx context.Context) error {
	var subs []io.Closer
	defer func() {
		for _, sub := range subs {
			sub.Close()
		}
	}()
	for _, suffix := range []string{TopicCommand, TopicTx} {
		sub, err := r.Broker.Subscribe(r.Topic(suffix), r.enqueue)
		if err != nil {
			return err
		}
		subs = append(subs, sub)
	}
	if r.PollTimeout > 0 {
		r.Link.Timeouts.Sync = r.PollTimeout
	} else {
		r.Link.Timeouts.Sync = DefaultPollTimeout
	}
	glog.Infof("relay %s started", r.Device)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-r.requests:
			r.handle(ctx, req)
		default:
			if err := r.poll(ctx); err != nil {
				return err
			}
		}
	}
}

func (r *Relay) enqueue(topic string, payload []byte) {
	select {
	case r.requests <- request{topic: topic, payload: payload}:
	default:
		glog.Warningf("relay busy, dropped request on %q", topic)
	}
}

func (r *Relay) handle(ctx context.Context, req request) {
	start := time.Now()
	var (
		kind      string
		requestID string
		err       error
	)
	switch req.topic {
	case r.Topic(TopicCommand):
		kind = TopicCommand
		var cmd pb.Command
		if err = proto.Unmarshal(req.payload, &cmd); err == nil {
			requestID = ensureID(cmd.GetRequestId())
			err = r.Link.SendCommand(ctx, cmd.GetToken())
		}
	case r.Topic(TopicTx):
		kind = TopicTx
		var msg pb.Vector
		if err = proto.Unmarshal(req.payload, &msg); err == nil {
			requestID = ensureID(msg.GetRequestId())
			var v hif.Vector
			if v, err = VectorFromPB(&msg); err == nil {
				if err = r.Link.SendData(ctx, v); err == nil {
					r.Metrics.PayloadBytes.WithLabelValues("tx").Add(float64(len(v.Values) * v.Format.Width()))
				}
			}
		}
	default:
		glog.Warningf("unexpected topic %q", req.topic)
		return
	}
	if err != nil {
		glog.Warningf("%s %s: %v", kind, requestID, err)
	}
	r.Metrics.Requests.WithLabelValues(kind, resultLabel(err)).Inc()
	r.Metrics.Duration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	r.publish(TopicResult, NewResult(requestID, err))
}

func (r *Relay) poll(ctx context.Context) error {
	v, err := r.Link.ReceiveData(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		var terr *hif.TimeoutError
		if errors.As(err, &terr) && terr.Stage == hif.StateWaitSync.String() {
			return nil
		}
		if errors.Is(err, io.EOF) {
			return err
		}
		r.Metrics.Received.WithLabelValues(resultLabel(err)).Inc()
		r.publish(TopicResult, NewResult("", err))
		return nil
	}
	r.Metrics.Received.WithLabelValues(resultLabel(nil)).Inc()
	r.Metrics.PayloadBytes.WithLabelValues("rx").Add(float64(len(v.Values) * v.Format.Width()))
	r.publish(TopicRx, VectorToPB(v, uuid.New().String()))
	return nil
}

func (r *Relay) publish(suffix string, msg proto.Message) {
	data, err := proto.Marshal(msg)
	if err == nil {
		err = r.Broker.Publish(r.Topic(suffix), data)
	}
	if err != nil {
		glog.Errorf("publish %s: %v", suffix, err)
	}
}

func ensureID(id string) string {
	if id == "" {
		return uuid.New().String()
	}
	return id
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return ErrorKind(err)
}
