package publisher

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kracekumar/postpipe/utils"
)

type stubPublisher struct {
	published map[string][][]byte
	fail      map[string]error
}

func newStubPublisher() *stubPublisher {
	return &stubPublisher{published: map[string][][]byte{}, fail: map[string]error{}}
}

func (s *stubPublisher) Publish(ctx context.Context, queue string, payload []byte) error {
	if err, ok := s.fail[queue]; ok {
		return err
	}
	s.published[queue] = append(s.published[queue], payload)
	return nil
}

func (s *stubPublisher) Close() error { return nil }

func TestFanOutDeliversToEveryQueue(t *testing.T) {
	stub := newStubPublisher()

	failures := FanOut(context.Background(), stub, DefaultQueues, []byte("payload"))

	assert.Empty(t, failures)
	assert.Equal(t, [][]byte{[]byte("payload")}, stub.published[SearchQueue])
	assert.Equal(t, [][]byte{[]byte("payload")}, stub.published[FollowersQueue])
}

func TestFanOutToleratesPartialFailure(t *testing.T) {
	stub := newStubPublisher()
	stub.fail[FollowersQueue] = errors.Wrap(utils.ErrBrokerUnavailable, "queue gone")

	failures := FanOut(context.Background(), stub, DefaultQueues, []byte("payload"))

	// The healthy queue still gets its copy.
	require.Len(t, failures, 1)
	assert.True(t, errors.Is(failures[FollowersQueue], utils.ErrBrokerUnavailable))
	assert.Len(t, stub.published[SearchQueue], 1)
	assert.Empty(t, stub.published[FollowersQueue])
}

func TestFanOutAllQueuesDown(t *testing.T) {
	stub := newStubPublisher()
	stub.fail[SearchQueue] = utils.ErrBrokerUnavailable
	stub.fail[FollowersQueue] = utils.ErrBrokerUnavailable

	failures := FanOut(context.Background(), stub, DefaultQueues, []byte("payload"))

	assert.Len(t, failures, len(DefaultQueues))
	assert.Empty(t, stub.published)
}
