package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	sessionsActive prometheus.Gauge
	sessionsTotal  *prometheus.CounterVec
	linesTotal     *prometheus.CounterVec
	overflowsTotal prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "eshd",
			Name:      "sessions_active",
			Help:      "Currently open shell sessions.",
		}),
		sessionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eshd",
			Name:      "sessions_total",
			Help:      "Shell sessions opened, by transport.",
		}, []string{"transport"}),
		linesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eshd",
			Name:      "lines_dispatched_total",
			Help:      "Command lines dispatched, by transport.",
		}, []string{"transport"}),
		overflowsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "eshd",
			Name:      "overflow_notifications_total",
			Help:      "Buffer and argument overflow notifications.",
		}),
	}
}
