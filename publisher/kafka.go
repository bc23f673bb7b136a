package publisher

import (
	"context"
	"time"

	"github.com/pkg/errors"
	kafka "github.com/segmentio/kafka-go"

	"github.com/kracekumar/postpipe/utils"
)

// KafkaPublisher is the alternative broker backend, writing each queue
// to the Kafka topic of the same name. One shared writer serves all
// topics; kafka-go pools the connections underneath.
type KafkaPublisher struct {
	w *kafka.Writer
}

func NewKafkaPublisher(bootstrap string) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(bootstrap),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireNone,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, queue string, payload []byte) error {
	err := p.w.WriteMessages(ctx, kafka.Message{
		Topic: queue,
		Value: payload,
		Time:  time.Now(),
	})
	if err != nil {
		return errors.Wrapf(utils.ErrBrokerUnavailable, "publish to %s: %v", queue, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
