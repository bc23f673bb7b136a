package publisher

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/pkg/errors"

	"github.com/kracekumar/postpipe/utils"
)

// WatermillPublisher adapts any watermill message.Publisher to the
// Publisher interface: the AMQP one in production, an in-process
// gochannel bus in tests. Queue names map 1:1 to watermill topics.
type WatermillPublisher struct {
	inner message.Publisher
}

func NewWatermillPublisher(inner message.Publisher) *WatermillPublisher {
	return &WatermillPublisher{inner: inner}
}

func (p *WatermillPublisher) Publish(ctx context.Context, queue string, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := p.inner.Publish(queue, msg); err != nil {
		return errors.Wrapf(utils.ErrBrokerUnavailable, "publish to %s: %v", queue, err)
	}
	return nil
}

func (p *WatermillPublisher) Close() error {
	return p.inner.Close()
}
