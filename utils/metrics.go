package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline counters, exported on /metrics. Publish failures carry the
// queue label so partial fan-out failure is visible per destination.
var (
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "postpipe_posts_created_total",
		Help: "Number of posts durably persisted.",
	})

	AuthRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "postpipe_auth_rejections_total",
		Help: "Number of requests rejected because the token is not in the cache.",
	})

	PublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postpipe_publish_failures_total",
		Help: "Number of failed queue publishes, per queue.",
	}, []string{"queue"})

	DriftDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "postpipe_cache_store_drift_total",
		Help: "Number of requests whose token passed the cache but has no owning user in the store.",
	})
)
