// Package metrics defines the prometheus collectors exposed on the operational /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "garbagebot", Name: "upstream_requests_total", Help: "Number of requests to the waste data provider by endpoint and outcome."},
		[]string{"endpoint", "outcome"},
	)
	SchedulerTicks = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "garbagebot", Name: "scheduler_ticks_total", Help: "Number of reminder scheduler ticks."},
	)
	RemindersDispatched = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "garbagebot", Name: "reminders_dispatched_total", Help: "Number of reminder notifications sent to users."},
	)
	ReminderFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "garbagebot", Name: "reminder_failures_total", Help: "Number of per-user reminder processing failures."},
	)
)

// RegisterCollectors registers all collectors on the given registerer.
func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(UpstreamRequests, SchedulerTicks, RemindersDispatched, ReminderFailures)
}
