package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dispatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sos_api", Name: "dispatches_total",
		Help: "Total number of dispatch runs",
	})
	candidatesNotified = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sos_api", Name: "candidates_notified_total",
		Help: "Total volunteers queued across all dispatches",
	})
	emptyDispatches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sos_api", Name: "empty_dispatches_total",
		Help: "Dispatch runs that found no eligible volunteers",
	})
	notificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sos_api", Name: "notification_failures_total",
		Help: "Best-effort push deliveries that did not reach the volunteer",
	})
	casesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sos_api", Name: "cases_accepted_total",
		Help: "Cases moved to ACCEPTED",
	})
	casesCancelled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sos_api", Name: "cases_cancelled_total",
		Help: "Cases cancelled, by actor role",
	}, []string{"role"})
	acceptConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sos_api", Name: "accept_conflicts_total",
		Help: "Accept attempts that lost a race for the case or the volunteer",
	})
)
