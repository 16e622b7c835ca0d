package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BookingTransitions counts booking state machine transitions by event.
var BookingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "conference_room",
	Subsystem: "booking",
	Name:      "transitions_total",
	Help:      "Number of booking state transitions, labeled by triggering event.",
}, []string{"event"})

// BookingConflicts counts create attempts rejected by the conflict detector.
var BookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "conference_room",
	Subsystem: "booking",
	Name:      "conflicts_total",
	Help:      "Number of booking create attempts rejected due to an overlapping booking.",
})

// SweepRuns counts executions of the expiry sweeper.
var SweepRuns = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "conference_room",
	Subsystem: "sweeper",
	Name:      "runs_total",
	Help:      "Number of expiry sweep executions.",
})

// SweepExpired counts pending bookings auto-rejected by the sweeper.
var SweepExpired = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "conference_room",
	Subsystem: "sweeper",
	Name:      "expired_total",
	Help:      "Number of pending bookings auto-rejected because their start time passed.",
})

// NotifyFailures counts notification deliveries that failed and were dropped.
var NotifyFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "conference_room",
	Subsystem: "notify",
	Name:      "failures_total",
	Help:      "Number of notification deliveries that failed (failures are logged and dropped).",
})
