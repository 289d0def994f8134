package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GenerationFailures counts AI calls that produced no usable output, by flow.
	GenerationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "content_compass_generation_failures_total",
		Help: "Total number of failed AI generation calls",
	}, []string{"flow"})

	// Rollbacks counts optimistic post mutations reverted after a failed write.
	Rollbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "content_compass_rollbacks_total",
		Help: "Total number of optimistic mutations rolled back",
	}, []string{"operation"})

	LockTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "content_compass_lock_timeouts_total",
		Help: "Total number of keyed lock waits that timed out",
	})

	// WebhookEvents counts verified billing webhook events by type.
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "content_compass_webhook_events_total",
		Help: "Total number of billing webhook events received",
	}, []string{"event_type"})

	PostsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "content_compass_posts_published_total",
		Help: "Total number of posts auto-published",
	})

	CacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "content_compass_cache_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)
