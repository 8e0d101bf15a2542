// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eventplanner"

var (
	// HTTPRequests counts handled requests.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "The total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// EventsCreated counts created events.
	EventsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_created_total",
		Help:      "The total number of created events",
	})

	// Invitations counts sent invitations.
	Invitations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invitations_total",
		Help:      "The total number of invitations",
	})

	// Joins counts successful joins by path (invite or open).
	Joins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "joins_total",
		Help:      "The total number of event joins",
	}, []string{"path"})
)
