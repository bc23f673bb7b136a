package publisher

import (
	"github.com/ThreeDotsLabs/watermill"
	amqp "github.com/ThreeDotsLabs/watermill-amqp/v2/pkg/amqp"
	"github.com/pkg/errors"

	"github.com/kracekumar/postpipe/utils"
)

// NewAMQPPublisher connects to RabbitMQ at the given URI and returns a
// publisher delivering to durable queues, one queue per fan-out
// destination. The underlying connection manages its channels and
// releases them on Close.
func NewAMQPPublisher(uri string) (*WatermillPublisher, error) {
	pub, err := amqp.NewPublisher(
		amqp.NewDurableQueueConfig(uri),
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		return nil, errors.Wrapf(utils.ErrBrokerUnavailable, "connect to amqp: %v", err)
	}
	return NewWatermillPublisher(pub), nil
}
