// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fitcircle"

var (
	// EventsPublished counts realtime events published, by event type.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: namespace,
		Subsystem: "realtime",
		Name:      "events_published_total",
		Help:      "Number of realtime events published, by event type.",
	}, []string{"type"})

	// EventsDelivered counts events handed to local subscribers.
	EventsDelivered = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: namespace,
		Subsystem: "realtime",
		Name:      "events_delivered_total",
		Help:      "Number of events handed to local subscribers.",
	})

	// SubscribersDropped counts subscribers dropped because their buffer was full.
	SubscribersDropped = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: namespace,
		Subsystem: "realtime",
		Name:      "subscribers_dropped_total",
		Help:      "Number of subscribers dropped because they fell behind.",
	})

	// Subscribers is the number of open local subscriptions.
	Subscribers = promauto.NewGauge(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Namespace: namespace,
		Subsystem: "realtime",
		Name:      "subscribers",
		Help:      "Number of open local subscriptions.",
	})

	// APIErrors counts error responses of the API, by status code.
	APIErrors = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: namespace,
		Subsystem: "api",
		Name:      "errors_total",
		Help:      "Number of error responses, by status code.",
	}, []string{"status"})

	// ModerationActions counts successful moderation actions, by action.
	ModerationActions = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: namespace,
		Subsystem: "moderation",
		Name:      "actions_total",
		Help:      "Number of successful moderation actions, by action.",
	}, []string{"action"})
)
