package events

import (
	"context"
	"fmt"
	"time"

	"orgdrive/utils"

	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"
)

// NATSPublisher publishes msgpack-encoded events on
// "<subjectPrefix>.<kind>".
type NATSPublisher struct {
	nc            *nats.Conn
	subjectPrefix string
}

func ConnectNATS(url, subjectPrefix string) (*NATSPublisher, error) {
	log := utils.Component("nats")

	nc, err := nats.Connect(url,
		nats.Name("orgdrive"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.WithError(err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	log.WithField("url", nc.ConnectedUrl()).Info("connected to NATS")

	return &NATSPublisher{nc: nc, subjectPrefix: subjectPrefix}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, event FileEvent) error {
	payload, err := Encode(event)
	if err != nil {
		return err
	}
	return p.nc.Publish(Subject(p.subjectPrefix, event.Kind), payload)
}

func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}

func Subject(prefix string, kind Kind) string {
	return prefix + "." + string(kind)
}

func Encode(event FileEvent) ([]byte, error) {
	payload, err := msgpack.Marshal(&event)
	if err != nil {
		return nil, fmt.Errorf("encode file event: %w", err)
	}
	return payload, nil
}

func Decode(payload []byte) (FileEvent, error) {
	var event FileEvent
	if err := msgpack.Unmarshal(payload, &event); err != nil {
		return FileEvent{}, fmt.Errorf("decode file event: %w", err)
	}
	return event, nil
}
