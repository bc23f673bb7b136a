package publisher

import (
	"context"

	"github.com/kracekumar/postpipe/utils"
	. "github.com/kracekumar/postpipe/utils/log"
)

// Queues every persisted post is fanned out to. Search indexing and
// follower notification consume them; neither consumer lives in this
// repo.
const (
	SearchQueue    = "search"
	FollowersQueue = "followers"
)

// DefaultQueues is the fixed fan-out set for created posts.
var DefaultQueues = []string{SearchQueue, FollowersQueue}

// Publisher delivers one payload to one named queue. Implementations
// must be safe for concurrent use and must release any channel they
// open on every exit path.
type Publisher interface {
	Publish(ctx context.Context, queue string, payload []byte) error
	Close() error
}

// FanOut publishes payload to each queue independently. A failing queue
// never stops delivery to the remaining ones; the per-queue failures
// are logged, counted and returned. By the time this runs the post is
// already durable, so callers must not let these failures change the
// request outcome.
func FanOut(ctx context.Context, pub Publisher, queues []string, payload []byte) map[string]error {
	failures := map[string]error{}
	for _, queue := range queues {
		if err := pub.Publish(ctx, queue, payload); err != nil {
			Log.Errorf("fail to publish to queue %s: %s", queue, err)
			utils.PublishFailures.WithLabelValues(queue).Inc()
			failures[queue] = err
		}
	}
	return failures
}
